// Package intake is the participant side of a group order: check the token,
// take a name, and submit the cart to the ledger.
//
// Every failure here is a user-facing notice, not a fault. UserMessage turns
// an error from this package into the text shown to the participant.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/grouporder/internal/cart"
	"github.com/mmynk/grouporder/internal/models"
)

var (
	ErrTokenLength   = errors.New("token id must be 8 characters")
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenInactive = errors.New("token inactive")
	ErrMissingName   = errors.New("name required")
	ErrEmptyCart     = errors.New("cart is empty")
)

var messages = map[error]string{
	ErrTokenLength:   "Enter the 8-character token",
	ErrTokenNotFound: "Invalid token ID",
	ErrTokenInactive: "This token is no longer active",
	ErrMissingName:   "Please enter your name",
	ErrEmptyCart:     "Your cart is empty",
}

// UserMessage returns the notice to show for err. Errors from outside this
// package (storage failures) map to a generic message.
func UserMessage(err error) string {
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return "Error placing order"
}

// Ledger is the subset of the order ledger the intake flow needs.
type Ledger interface {
	ListTokens(ctx context.Context) (map[string]models.Token, error)
	RecordOrder(ctx context.Context, tokenID, userName string, items []models.LineItem, total float64) (models.Order, error)
}

// Flow validates participant input and records orders.
type Flow struct {
	ledger Ledger
}

// NewFlow creates a Flow on top of ledger.
func NewFlow(ledger Ledger) *Flow {
	return &Flow{ledger: ledger}
}

// ValidateToken checks that id names an active token. Ids are case-sensitive.
func (f *Flow) ValidateToken(ctx context.Context, id string) (models.Token, error) {
	if len(id) != models.TokenIDLength {
		return models.Token{}, ErrTokenLength
	}

	tokens, err := f.ledger.ListTokens(ctx)
	if err != nil {
		return models.Token{}, fmt.Errorf("failed to list tokens: %w", err)
	}

	token, ok := tokens[id]
	if !ok {
		slog.Info("Token rejected", "token_id", id, "reason", "not found")
		return models.Token{}, ErrTokenNotFound
	}
	if !token.IsActive {
		slog.Info("Token rejected", "token_id", id, "reason", "inactive")
		return models.Token{}, ErrTokenInactive
	}
	return token, nil
}

// ValidateName rejects blank names. The name is recorded as typed, so
// "Alice" and "Alice " are different participants.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingName
	}
	return nil
}

// Submit records the cart as one order. The token is checked again because
// it may have been closed while the cart was being filled. The order total
// is the cart total at this moment.
func (f *Flow) Submit(ctx context.Context, tokenID, userName string, c *cart.Cart) (models.Order, error) {
	if c == nil || c.Empty() {
		return models.Order{}, ErrEmptyCart
	}
	if err := ValidateName(userName); err != nil {
		return models.Order{}, err
	}
	if _, err := f.ValidateToken(ctx, tokenID); err != nil {
		return models.Order{}, err
	}

	order, err := f.ledger.RecordOrder(ctx, tokenID, userName, c.Items(), c.Total())
	if err != nil {
		slog.Error("Submit failed", "token_id", tokenID, "error", err)
		return models.Order{}, fmt.Errorf("failed to record order: %w", err)
	}
	return order, nil
}
