package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/grouporder/internal/config"
	"github.com/mmynk/grouporder/internal/intake"
	"github.com/mmynk/grouporder/internal/ledger"
	"github.com/mmynk/grouporder/internal/menu"
	"github.com/mmynk/grouporder/internal/middleware"
	"github.com/mmynk/grouporder/internal/models"
	"github.com/mmynk/grouporder/internal/report"
	"github.com/mmynk/grouporder/internal/tui"
)

const qrSize = 256

var (
	errUsage               = errors.New("usage")
	errDescriptionRequired = errors.New("please enter a token description")
	errMissingTokenID      = errors.New("token id required")
)

// userErrors are mistakes on the command line rather than faults.
var userErrors = []error{
	errUsage,
	errDescriptionRequired,
	errMissingTokenID,
	report.ErrTokenNotFound,
	report.ErrNoOrders,
	menu.ErrUnknownType,
	menu.ErrUnknownCategory,
}

const usage = `Usage: grouporder <command> [arguments]

Admin commands:
  token create -d <description>   create a token and show its QR code
  token list                      list every token
  token show <id>                 orders, users and totals for a token
  token close <id>                stop accepting orders for a token
  token qr <id> [-o file.png]     print or save the token's QR code
  export <id> [-o dir]            write the PDF order summary

Participant commands:
  order                           open the order form
  menu [-type t [-category c]]    print the menu
`

func printUsage(w io.Writer) {
	fmt.Fprint(w, usage)
}

func isHelp(arg string) bool {
	switch arg {
	case "help", "-h", "-help", "--help":
		return true
	}
	return false
}

type cli struct {
	cfg    *config.Config
	ledger *ledger.Ledger
	out    io.Writer
	now    func() time.Time

	// runProgram starts the order form. Tests replace it.
	runProgram func(tea.Model) error

	commands map[string]middleware.Command
}

func newCLI(cfg *config.Config, l *ledger.Ledger, out io.Writer) *cli {
	c := &cli{
		cfg:    cfg,
		ledger: l,
		out:    out,
		now:    time.Now,
		runProgram: func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
	c.commands = map[string]middleware.Command{
		"token create": c.tokenCreate,
		"token list":   c.tokenList,
		"token show":   c.tokenShow,
		"token close":  c.tokenClose,
		"token qr":     c.tokenQR,
		"export":       c.export,
		"order":        c.order,
		"menu":         c.printMenu,
	}
	for name, cmd := range c.commands {
		c.commands[name] = middleware.Logging(name, cmd, userErrors...)
	}
	return c
}

func (c *cli) dispatch(ctx context.Context, args []string) error {
	name, rest := args[0], args[1:]
	if name == "token" {
		if len(rest) == 0 {
			printUsage(c.out)
			return errUsage
		}
		name, rest = "token "+rest[0], rest[1:]
	}

	cmd, ok := c.commands[name]
	if !ok {
		printUsage(c.out)
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
	return cmd(ctx, rest)
}

func (c *cli) reportOptions() report.Options {
	return report.Options{Currency: c.cfg.Export.Currency}
}

// pdfOptions adds the configured fonts to reportOptions.
func (c *cli) pdfOptions() (report.Options, error) {
	opts := c.reportOptions()
	var err error
	if path := c.cfg.Export.FontPath; path != "" {
		if opts.Font, err = os.ReadFile(path); err != nil {
			return opts, fmt.Errorf("failed to read pdf font: %w", err)
		}
	}
	if path := c.cfg.Export.BoldFontPath; path != "" {
		if opts.BoldFont, err = os.ReadFile(path); err != nil {
			return opts, fmt.Errorf("failed to read pdf bold font: %w", err)
		}
	}
	return opts, nil
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func (c *cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	return fs
}

// parseWithID parses flags on either side of a single token id argument,
// so both "export ABCD1234 -o out" and "export -o out ABCD1234" work.
func parseWithID(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() == 0 {
		return "", errMissingTokenID
	}
	id := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return "", fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return "", fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	return id, nil
}

// lookup returns the token or report.ErrTokenNotFound.
func (c *cli) lookup(ctx context.Context, id string) (models.Token, error) {
	token, found, err := c.ledger.LookupToken(ctx, id)
	if err != nil {
		return models.Token{}, err
	}
	if !found {
		return models.Token{}, fmt.Errorf("%w: %s", report.ErrTokenNotFound, id)
	}
	return token, nil
}

func (c *cli) tokenCreate(ctx context.Context, args []string) error {
	fs := c.newFlagSet("token create")
	description := fs.String("d", "", "what the order is for (required)")
	noQR := fs.Bool("no-qr", false, "do not print the QR code")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if strings.TrimSpace(*description) == "" {
		return errDescriptionRequired
	}

	token, err := c.ledger.NewToken(ctx, *description)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Created token %s\n", token.ID)
	fmt.Fprintf(c.out, "Description: %s\n", token.Description)
	if !*noQR {
		qr, err := report.TokenQRTerminal(token.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "\n%s\n", qr)
	}
	fmt.Fprintln(c.out, "Share this token with everyone ordering.")
	return nil
}

func (c *cli) tokenList(ctx context.Context, args []string) error {
	tokens, err := c.ledger.ListTokens(ctx)
	if err != nil {
		return err
	}
	return report.WriteTokenList(c.out, tokens, c.reportOptions())
}

func (c *cli) tokenShow(ctx context.Context, args []string) error {
	id, err := parseWithID(c.newFlagSet("token show"), args)
	if err != nil {
		return err
	}

	summary, err := c.ledger.TokenSummary(ctx, id)
	if err != nil {
		return err
	}
	if !summary.Found {
		return fmt.Errorf("%w: %s", report.ErrTokenNotFound, id)
	}

	doc := report.Document{
		Token:        summary.Token,
		UserTotals:   summary.UserTotals,
		OverallTotal: summary.Total,
		GeneratedAt:  c.now(),
	}
	if err := report.WriteText(c.out, doc, c.reportOptions()); err != nil {
		return err
	}
	if summary.UserCount() == 0 {
		fmt.Fprintln(c.out, "No orders yet.")
	}
	return nil
}

func (c *cli) tokenClose(ctx context.Context, args []string) error {
	id, err := parseWithID(c.newFlagSet("token close"), args)
	if err != nil {
		return err
	}
	token, err := c.lookup(ctx, id)
	if err != nil {
		return err
	}
	if !token.IsActive {
		fmt.Fprintf(c.out, "Token %s is already closed\n", id)
		return nil
	}
	if err := c.ledger.DeactivateToken(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Closed token %s\n", id)
	return nil
}

func (c *cli) tokenQR(ctx context.Context, args []string) error {
	fs := c.newFlagSet("token qr")
	output := fs.String("o", "", "write a PNG to this file instead of printing")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}
	if _, err := c.lookup(ctx, id); err != nil {
		return err
	}

	if *output == "" {
		qr, err := report.TokenQRTerminal(id)
		if err != nil {
			return err
		}
		fmt.Fprint(c.out, qr)
		return nil
	}

	png, err := report.TokenQR(id, qrSize)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*output, png, 0644); err != nil {
		return fmt.Errorf("failed to write qr code: %w", err)
	}
	fmt.Fprintf(c.out, "Wrote %s\n", *output)
	return nil
}

func (c *cli) export(ctx context.Context, args []string) error {
	fs := c.newFlagSet("export")
	dir := fs.String("o", c.cfg.Export.Dir, "directory for the PDF")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	now := c.now()
	doc, err := report.Build(ctx, c.ledger, id, now)
	if err != nil {
		return err
	}

	opts, err := c.pdfOptions()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, doc, opts); err != nil {
		return err
	}
	if err := os.MkdirAll(*dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(*dir, report.FileName(id, now))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	fmt.Fprintf(c.out, "Wrote %s (%d users, total %s)\n", path, len(doc.UserTotals), c.cfg.Export.Currency+report.FormatAmount(doc.OverallTotal))
	return nil
}

func (c *cli) order(ctx context.Context, args []string) error {
	m, err := menu.Load(c.cfg.Menu.Path)
	if err != nil {
		return err
	}
	app := tui.NewApp(ctx, intake.NewFlow(c.ledger), m, c.cfg.Export.Currency)
	return c.runProgram(app)
}

func (c *cli) printMenu(ctx context.Context, args []string) error {
	fs := c.newFlagSet("menu")
	typeKey := fs.String("type", "", "only show this food type (vegetarian, non_vegetarian)")
	categoryKey := fs.String("category", "", "only show this category of -type")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *categoryKey != "" && *typeKey == "" {
		return fmt.Errorf("%w: -category needs -type", errUsage)
	}

	m, err := menu.Load(c.cfg.Menu.Path)
	if err != nil {
		return err
	}
	types := m.Types
	if *typeKey != "" {
		t, err := m.Type(*typeKey)
		if err != nil {
			return err
		}
		if *categoryKey != "" {
			cat, err := m.Category(*typeKey, *categoryKey)
			if err != nil {
				return err
			}
			t.Categories = []menu.Category{cat}
		}
		types = []menu.FoodType{t}
	}

	money := func(v float64) string { return c.cfg.Export.Currency + report.FormatAmount(v) }
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, t := range types {
		fmt.Fprintf(tw, "%s\n", strings.ToUpper(t.Label()))
		for _, cat := range t.Categories {
			fmt.Fprintf(tw, "  %s\n", cat.Label())
			for _, item := range cat.Items {
				if !item.Sized() {
					fmt.Fprintf(tw, "    %s\t%s\n", item.Name, money(item.Price))
					continue
				}
				sizes := make([]string, len(item.Prices))
				for i, p := range item.Prices {
					sizes[i] = p.Size + " " + money(p.Price)
				}
				fmt.Fprintf(tw, "    %s\t%s\n", item.Name, strings.Join(sizes, " / "))
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
