package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// DejaVu covers Latin, Greek and Cyrillic. Scripts outside it (Devanagari,
// for one) need a font passed in Options.Font.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	defaultFont []byte

	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	defaultBoldFont []byte
)

const (
	marginLeft   = 20.0
	indent       = 25.0
	lineRight    = 190.0
	topOfPage    = 20.0
	userBreak    = 250.0
	lineBreak    = 280.0
	summaryBreak = 220.0
	qrImageName  = "token-qr"
	fontFamily   = "body"
)

// pdfWriter tracks the vertical cursor across pages.
type pdfWriter struct {
	pdf *fpdf.Fpdf
	y   float64
}

func (p *pdfWriter) breakPast(limit float64) {
	if p.y > limit {
		p.pdf.AddPage()
		p.y = topOfPage
	}
}

func (p *pdfWriter) text(x float64, s string) {
	p.pdf.Text(x, p.y, s)
}

func (p *pdfWriter) font(style string, size float64) {
	p.pdf.SetFont(fontFamily, style, size)
}

// WritePDF renders doc as a PDF.
func WritePDF(w io.Writer, doc Document, opts Options) error {
	opts = opts.withDefaults()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Order summary %s", doc.Token.ID), true)
	pdf.SetCreationDate(doc.GeneratedAt)
	regular, bold := opts.fonts()
	pdf.AddUTF8FontFromBytes(fontFamily, "", regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", bold)
	pdf.AddPage()
	p := &pdfWriter{pdf: pdf}

	if png, err := TokenQR(doc.Token.ID, 256); err == nil {
		pdf.RegisterImageOptionsReader(qrImageName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions(qrImageName, 160, 10, 30, 30, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	// Header
	p.y = 20
	p.font("B", 20)
	p.text(marginLeft, "Restaurant Order Summary")

	// Token info
	description := doc.Token.Description
	if description == "" {
		description = "N/A"
	}
	p.font("", 12)
	p.y = 35
	for _, line := range []string{
		"Token ID: " + doc.Token.ID,
		"Description: " + description,
		"Created: " + opts.date(doc.Token.CreatedAt),
		fmt.Sprintf("Total Orders: %d", doc.Token.TotalOrders),
		"Overall Total: " + opts.money(doc.OverallTotal),
	} {
		p.text(marginLeft, line)
		p.y += 10
	}

	pdf.Line(marginLeft, 85, lineRight, 85)
	p.y = 100

	p.font("B", 14)
	p.text(marginLeft, "Individual Order Breakdown:")
	p.y += 15

	for _, ut := range doc.UserTotals {
		p.breakPast(userBreak)

		p.font("B", 12)
		p.text(marginLeft, fmt.Sprintf("%s - Total: %s", ut.UserName, opts.money(ut.Total)))
		p.y += 10

		for _, order := range ut.Orders {
			p.font("", 10)
			for _, item := range order.Items {
				p.text(indent, fmt.Sprintf("%s (%s) x%d - %s", item.Name, item.SizeLabel(), item.Quantity, opts.money(item.Amount())))
				p.y += 7
				p.breakPast(lineBreak)
			}

			p.font("", 8)
			p.text(indent, "Ordered: "+opts.date(order.Timestamp))
			p.y += 10
			p.breakPast(lineBreak)
		}

		p.y += 5
	}

	// Payment summary
	p.breakPast(summaryBreak)
	pdf.Line(marginLeft, p.y, lineRight, p.y)
	p.y += 15

	p.font("B", 14)
	p.text(marginLeft, "Payment Summary:")
	p.y += 15

	p.font("", 11)
	for _, ut := range doc.UserTotals {
		p.text(indent, fmt.Sprintf("%s: %s", ut.UserName, opts.money(ut.Total)))
		p.y += 8
	}

	p.y += 10
	p.font("B", 11)
	p.text(indent, "Total Amount: "+opts.money(doc.OverallTotal))

	p.y += 20
	p.font("", 8)
	p.text(marginLeft, "Generated on: "+doc.GeneratedAt.In(opts.Location).Format(timestampLayout))

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
