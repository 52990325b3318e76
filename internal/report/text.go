package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mmynk/grouporder/internal/models"
)

// WriteText renders doc for a terminal.
func WriteText(w io.Writer, doc Document, opts Options) error {
	opts = opts.withDefaults()

	description := doc.Token.Description
	if description == "" {
		description = "N/A"
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Token\t%s (%s)\n", doc.Token.ID, doc.Token.Status())
	fmt.Fprintf(tw, "Description\t%s\n", description)
	fmt.Fprintf(tw, "Created\t%s\n", opts.date(doc.Token.CreatedAt))
	if doc.Token.ClosedAt != nil {
		fmt.Fprintf(tw, "Closed\t%s\n", opts.date(*doc.Token.ClosedAt))
	}
	fmt.Fprintf(tw, "Users\t%d\n", len(doc.UserTotals))
	fmt.Fprintf(tw, "Orders\t%d\n", doc.Token.TotalOrders)
	fmt.Fprintf(tw, "Total\t%s\n", opts.money(doc.OverallTotal))
	fmt.Fprintln(tw)

	for _, ut := range doc.UserTotals {
		fmt.Fprintf(tw, "%s\t\t%s\n", ut.UserName, opts.money(ut.Total))
		for _, order := range ut.Orders {
			for _, item := range order.Items {
				fmt.Fprintf(tw, "  %s (%s) x%d\t\t%s\n", item.Name, item.SizeLabel(), item.Quantity, opts.money(item.Amount()))
			}
			fmt.Fprintf(tw, "  ordered %s\t\t\n", opts.date(order.Timestamp))
		}
	}
	return tw.Flush()
}

// WriteTokenList renders one row per token with its status and order count.
func WriteTokenList(w io.Writer, tokens map[string]models.Token, opts Options) error {
	opts = opts.withDefaults()

	if len(tokens) == 0 {
		_, err := fmt.Fprintln(w, "No tokens created yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TOKEN\tSTATUS\tORDERS\tCREATED\tDESCRIPTION")
	for _, t := range SortedTokens(tokens) {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", t.ID, t.Status(), t.TotalOrders, opts.date(t.CreatedAt), t.Description)
	}
	return tw.Flush()
}
