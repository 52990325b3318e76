package report

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/grouporder/internal/ledger"
	"github.com/mmynk/grouporder/internal/models"
	"github.com/mmynk/grouporder/internal/storage/memory"
)

var (
	created = time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	utc     = Options{Location: time.UTC}
)

func lunchLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	ctx := context.Background()
	l := ledger.New(memory.New(), ledger.WithClock(func() time.Time { return created }))

	_, err := l.CreateToken(ctx, "ABCD1234", "Lunch")
	require.NoError(t, err)
	_, err = l.RecordOrder(ctx, "ABCD1234", "Alice",
		[]models.LineItem{{Name: "Biryani", Size: models.DefaultSize, Price: 200, Quantity: 2}}, 400)
	require.NoError(t, err)
	_, err = l.RecordOrder(ctx, "ABCD1234", "Bob",
		[]models.LineItem{{Name: "Biryani", Size: "Large", Price: 250, Quantity: 1}}, 250)
	require.NoError(t, err)
	_, err = l.CreateToken(ctx, "EMPTY000", "")
	require.NoError(t, err)
	return l
}

func TestBuild(t *testing.T) {
	l := lunchLedger(t)
	ctx := context.Background()

	doc, err := Build(ctx, l, "ABCD1234", created)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", doc.Token.Description)
	assert.Equal(t, 650.0, doc.OverallTotal)
	require.Len(t, doc.UserTotals, 2)
	assert.Equal(t, "Alice", doc.UserTotals[0].UserName)

	_, err = Build(ctx, l, "ZZZZ9999", created)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = Build(ctx, l, "EMPTY000", created)
	assert.ErrorIs(t, err, ErrNoOrders)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "order-summary-ABCD1234-05072026.pdf", FileName("ABCD1234", time.Date(2026, 7, 5, 9, 0, 0, 0, time.UTC)))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "400", FormatAmount(400))
	assert.Equal(t, "12.50", FormatAmount(12.5))
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "Rs.650", Options{}.withDefaults().money(650))
	assert.Equal(t, "$9.99", Options{Currency: "$"}.money(9.99))
}

func TestWritePDF(t *testing.T) {
	doc, err := Build(context.Background(), lunchLedger(t), "ABCD1234", created)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, doc, utc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "output is not a PDF")
	assert.Greater(t, buf.Len(), 1000)
}

// pdfContent inflates every stream in a PDF and joins the results.
func pdfContent(data []byte) []byte {
	var out []byte
	for {
		i := bytes.Index(data, []byte("stream\n"))
		if i < 0 {
			return out
		}
		data = data[i+len("stream\n"):]
		j := bytes.Index(data, []byte("endstream"))
		if j < 0 {
			return out
		}
		if r, err := zlib.NewReader(bytes.NewReader(data[:j])); err == nil {
			b, _ := io.ReadAll(r)
			out = append(out, b...)
		}
		data = data[j+len("endstream"):]
	}
}

// utf16BE is how text set in a TrueType font appears in a page stream:
// UTF-16BE with the string delimiters and backslash escaped byte by byte.
func utf16BE(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		for _, c := range []byte{byte(u >> 8), byte(u)} {
			switch c {
			case '\\', '(', ')':
				b = append(b, '\\', c)
			case '\r':
				b = append(b, '\\', 'r')
			default:
				b = append(b, c)
			}
		}
	}
	return b
}

func TestWritePDFKeepsNonLatinText(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(memory.New())
	_, err := l.CreateToken(ctx, "UNICODE1", "Обед в пятницу")
	require.NoError(t, err)
	_, err = l.RecordOrder(ctx, "UNICODE1", "Łukasz",
		[]models.LineItem{{Name: "Pierogi z mięsem", Size: models.DefaultSize, Price: 300, Quantity: 1}}, 300)
	require.NoError(t, err)
	_, err = l.RecordOrder(ctx, "UNICODE1", "Ирина",
		[]models.LineItem{{Name: "Biryani", Size: "Full", Price: 320, Quantity: 1}}, 320)
	require.NoError(t, err)

	doc, err := Build(ctx, l, "UNICODE1", created)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, doc, Options{Location: time.UTC, Currency: "₹"}))
	content := pdfContent(buf.Bytes())

	for _, want := range []string{
		"Description: Обед в пятницу",
		"Łukasz - Total: ₹300",
		"Pierogi z mięsem (Regular) x1 - ₹300",
		"Ирина: ₹320",
	} {
		assert.True(t, bytes.Contains(content, utf16BE(want)), "missing %q in page content", want)
	}
}

func TestOptionsFonts(t *testing.T) {
	custom := []byte("regular")
	customBold := []byte("bold")

	tests := []struct {
		name    string
		opts    Options
		regular []byte
		bold    []byte
	}{
		{name: "embedded default", opts: Options{}, regular: defaultFont, bold: defaultBoldFont},
		{name: "custom font only", opts: Options{Font: custom}, regular: custom, bold: custom},
		{name: "custom pair", opts: Options{Font: custom, BoldFont: customBold}, regular: custom, bold: customBold},
		{name: "bold without regular", opts: Options{BoldFont: customBold}, regular: defaultFont, bold: defaultBoldFont},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regular, bold := tt.opts.fonts()
			assert.Equal(t, tt.regular, regular)
			assert.Equal(t, tt.bold, bold)
		})
	}
	assert.NotEmpty(t, defaultFont)
	assert.NotEmpty(t, defaultBoldFont)
}

func TestWritePDFManyUsersBreaksPages(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(memory.New())
	_, err := l.CreateToken(ctx, "BIGPARTY", "Sangeet night at the Café")
	require.NoError(t, err)
	for i := 0; i < 40; i++ {
		items := []models.LineItem{
			{Name: "Mutton Dum Biryani", Size: "Family Pack", Price: 820, Quantity: 1},
			{Name: "Qubani Ka Meetha", Size: models.DefaultSize, Price: 140, Quantity: 2},
		}
		_, err := l.RecordOrder(ctx, "BIGPARTY", fmt.Sprintf("Guest %02d", i), items, 1100)
		require.NoError(t, err)
	}

	doc, err := Build(ctx, l, "BIGPARTY", created)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, doc, utc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteText(t *testing.T) {
	doc, err := Build(context.Background(), lunchLedger(t), "ABCD1234", created)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, doc, utc))
	out := buf.String()

	assert.Contains(t, out, "ABCD1234 (Active)")
	assert.Contains(t, out, "14/03/2026 12:30")
	assert.Contains(t, out, "Rs.650")
	assert.Contains(t, out, "Biryani (Regular) x2")
	assert.Contains(t, out, "Biryani (Large) x1")
	assert.Contains(t, out, "Rs.400")
}

func TestWriteTokenList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTokenList(&buf, nil, utc))
	assert.Equal(t, "No tokens created yet.\n", buf.String())

	tokens := map[string]models.Token{
		"NEWER000": {ID: "NEWER000", Description: "Dinner", CreatedAt: created.Add(time.Hour), IsActive: true},
		"OLDER000": {ID: "OLDER000", Description: "Lunch", CreatedAt: created, TotalOrders: 3},
	}
	buf.Reset()
	require.NoError(t, WriteTokenList(&buf, tokens, utc))
	out := buf.String()

	assert.Contains(t, out, "TOKEN")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("OLDER000")), bytes.Index(buf.Bytes(), []byte("NEWER000")))
	assert.Contains(t, out, "Closed")
	assert.Contains(t, out, "Active")
}

func TestTokenQR(t *testing.T) {
	png, err := TokenQR("ABCD1234", 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	art, err := TokenQRTerminal("ABCD1234")
	require.NoError(t, err)
	assert.Contains(t, art, "██")
}
