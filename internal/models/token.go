package models

import "time"

// TokenIDLength is the number of characters in a generated token id.
const TokenIDLength = 8

// Token identifies one group-order session.
// Lifecycle is one-way: active at creation, closed on deactivation.
type Token struct {
	// ID is the 8-character, case-sensitive alphanumeric token id.
	ID string `json:"id"`

	// Description is the admin's free-text label (e.g., "Office lunch"). May be empty.
	Description string `json:"description"`

	// CreatedAt is when the token was created.
	CreatedAt time.Time `json:"createdAt"`

	// IsActive is true until the token is deactivated.
	IsActive bool `json:"isActive"`

	// ClosedAt is set on deactivation and absent while active.
	ClosedAt *time.Time `json:"closedAt,omitempty"`

	// TotalOrders caches the length of the token's order list.
	// Recomputed on every order insert.
	TotalOrders int `json:"totalOrders"`
}

// Status returns "Active" or "Closed".
func (t Token) Status() string {
	if t.IsActive {
		return "Active"
	}
	return "Closed"
}
