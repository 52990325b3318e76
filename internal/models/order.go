package models

import "time"

// DefaultSize is the size recorded for items that have a single price.
const DefaultSize = "default"

// Order is one submitted cart by one participant under one token.
// Orders are immutable once recorded.
type Order struct {
	// ID is derived from the creation time (Unix milliseconds) and is unique
	// and increasing within a token's order list.
	ID string `json:"id"`

	// TokenID is the session this order was recorded against.
	TokenID string `json:"tokenId,omitempty"`

	// UserName is the participant's free-text name. Not unique.
	UserName string `json:"userName"`

	// Items are the cart lines in the order they were added.
	Items []LineItem `json:"items"`

	// Total is the sum of price × quantity captured at submission time.
	// It is never recomputed from Items.
	Total float64 `json:"total"`

	// Timestamp is when the order was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// LineItem is a single line of an order.
type LineItem struct {
	Name string `json:"name"`

	// Size is the chosen size label, or DefaultSize for unsized items.
	Size string `json:"size"`

	// Price is the unit price.
	Price float64 `json:"price"`

	// Quantity is at least 1.
	Quantity int `json:"quantity"`
}

// Amount returns price × quantity.
func (i LineItem) Amount() float64 {
	return i.Price * float64(i.Quantity)
}

// SizeLabel returns the size for display, "Regular" for unsized items.
func (i LineItem) SizeLabel() string {
	if i.Size == "" || i.Size == DefaultSize {
		return "Regular"
	}
	return i.Size
}

// UserTotal is one participant's aggregate under a token.
type UserTotal struct {
	UserName string

	// Total is the sum of Total over Orders.
	Total float64

	// Orders are this participant's orders in encounter order.
	Orders []Order
}

// UserTotals is ordered by the first time each user name was seen.
type UserTotals []UserTotal

// Get returns the aggregate for userName. Names match exactly.
func (u UserTotals) Get(userName string) (UserTotal, bool) {
	for _, ut := range u {
		if ut.UserName == userName {
			return ut, true
		}
	}
	return UserTotal{}, false
}

// Sum returns the grand total across all users.
func (u UserTotals) Sum() float64 {
	var sum float64
	for _, ut := range u {
		sum += ut.Total
	}
	return sum
}
