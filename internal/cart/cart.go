// Package cart holds a participant's lines before the order is submitted.
package cart

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/grouporder/internal/calculator"
	"github.com/mmynk/grouporder/internal/models"
)

var (
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity cannot be negative")
)

// Line is one cart entry. ID is only meaningful inside the cart.
type Line struct {
	ID string
	models.LineItem
}

// Cart is not safe for concurrent use.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends a new line with quantity 1. Adding the same item twice gives
// two lines. An empty size is stored as models.DefaultSize.
func (c *Cart) Add(name, size string, price float64) Line {
	if size == "" {
		size = models.DefaultSize
	}
	line := Line{
		ID: uuid.New().String(),
		LineItem: models.LineItem{
			Name:     name,
			Size:     size,
			Price:    price,
			Quantity: 1,
		},
	}
	c.lines = append(c.lines, line)
	return line
}

// SetQuantity changes a line's quantity. Zero removes the line.
func (c *Cart) SetQuantity(id string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	for i := range c.lines {
		if c.lines[i].ID != id {
			continue
		}
		if quantity == 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrLineNotFound, id)
}

// Increment adds one to a line's quantity.
func (c *Cart) Increment(id string) error {
	line, ok := c.Line(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrLineNotFound, id)
	}
	return c.SetQuantity(id, line.Quantity+1)
}

// Decrement removes one from a line's quantity, dropping the line at zero.
func (c *Cart) Decrement(id string) error {
	line, ok := c.Line(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrLineNotFound, id)
	}
	return c.SetQuantity(id, line.Quantity-1)
}

// Line returns the line with id.
func (c *Cart) Line(id string) (Line, bool) {
	for _, l := range c.lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

// Lines returns a copy of the lines in the order they were added.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Items returns the lines as order line items.
func (c *Cart) Items() []models.LineItem {
	items := make([]models.LineItem, len(c.lines))
	for i, l := range c.lines {
		items[i] = l.LineItem
	}
	return items
}

// Total is the sum of price × quantity.
func (c *Cart) Total() float64 {
	return calculator.CartTotal(c.Items())
}

// Count is the sum of quantities.
func (c *Cart) Count() int {
	return calculator.ItemCount(c.Items())
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.lines = nil
}
