// Package report produces the admin's order summary for a token: a PDF
// document, a plain-text version for the terminal, and a QR code of the
// token id for sharing it with participants.
package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mmynk/grouporder/internal/models"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrNoOrders      = errors.New("token has no orders")
)

const (
	dateLayout      = "02/01/2006 15:04"
	timestampLayout = "02/01/2006 15:04:05"
	fileDateLayout  = "02012006"
)

// Source is what a report reads from. *ledger.Ledger satisfies it.
type Source interface {
	ListTokens(ctx context.Context) (map[string]models.Token, error)
	UserTotalsForToken(ctx context.Context, tokenID string) (models.UserTotals, error)
}

// Options controls how amounts and times are rendered.
type Options struct {
	// Currency prefixes every amount. Defaults to "Rs.".
	Currency string

	// Location for displayed times. Defaults to time.Local.
	Location *time.Location

	// Font and BoldFont are TrueType fonts for the PDF. Without Font the
	// embedded DejaVu Sans is used; without BoldFont, Font is used for bold.
	Font     []byte
	BoldFont []byte
}

func (o Options) fonts() (regular, bold []byte) {
	if len(o.Font) == 0 {
		return defaultFont, defaultBoldFont
	}
	if len(o.BoldFont) == 0 {
		return o.Font, o.Font
	}
	return o.Font, o.BoldFont
}

func (o Options) withDefaults() Options {
	if o.Currency == "" {
		o.Currency = "Rs."
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

func (o Options) money(v float64) string {
	return o.Currency + FormatAmount(v)
}

func (o Options) date(t time.Time) string {
	return t.In(o.Location).Format(dateLayout)
}

// Document is the data behind one summary.
type Document struct {
	Token        models.Token
	UserTotals   models.UserTotals
	OverallTotal float64
	GeneratedAt  time.Time
}

// Build reads the token and its per-user totals.
func Build(ctx context.Context, src Source, tokenID string, now time.Time) (Document, error) {
	tokens, err := src.ListTokens(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("failed to list tokens: %w", err)
	}
	token, ok := tokens[tokenID]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}

	userTotals, err := src.UserTotalsForToken(ctx, tokenID)
	if err != nil {
		return Document{}, fmt.Errorf("failed to get user totals: %w", err)
	}
	if len(userTotals) == 0 {
		return Document{}, fmt.Errorf("%w: %s", ErrNoOrders, tokenID)
	}

	return Document{
		Token:        token,
		UserTotals:   userTotals,
		OverallTotal: userTotals.Sum(),
		GeneratedAt:  now,
	}, nil
}

// FileName is the PDF name for a summary generated at now.
func FileName(tokenID string, now time.Time) string {
	return fmt.Sprintf("order-summary-%s-%s.pdf", tokenID, now.Format(fileDateLayout))
}

// FormatAmount prints whole amounts without decimals and others with two.
func FormatAmount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// SortedTokens returns tokens ordered by creation time, then id.
func SortedTokens(tokens map[string]models.Token) []models.Token {
	sorted := make([]models.Token, 0, len(tokens))
	for _, t := range tokens {
		sorted = append(sorted, t)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
