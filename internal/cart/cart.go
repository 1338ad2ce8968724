// Package cart holds the in-memory order line items for one entry session.
package cart

import (
	"github.com/chirayupatel9/palm-cafe-pos/pkg/money"
	"github.com/google/uuid"
)

// LineItem is one cart line. Quantity is always >= 1; a line that would
// drop to zero is removed instead.
type LineItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	ImageRef  *string   `json:"imageRef,omitempty"`
}

// ItemInput carries an untrusted menu entry into the cart. UnitPrice is
// coerced on entry so malformed prices never reach the totals.
type ItemInput struct {
	ID        uuid.UUID
	Name      string
	UnitPrice any
	ImageRef  *string
}

// Cart is an insertion-ordered line item collection with unique IDs.
type Cart struct {
	items []LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add increments the quantity of an existing line or appends a new line
// with quantity 1.
func (c *Cart) Add(input ItemInput) {
	for i := range c.items {
		if c.items[i].ID == input.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, LineItem{
		ID:        input.ID,
		Name:      input.Name,
		UnitPrice: money.ToNumber(input.UnitPrice),
		Quantity:  1,
		ImageRef:  input.ImageRef,
	})
}

// Remove deletes the line unconditionally.
func (c *Cart) Remove(id uuid.UUID) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the line quantity exactly. A quantity of zero or less
// removes the line.
func (c *Cart) SetQuantity(id uuid.UUID, qty int) {
	if qty <= 0 {
		c.Remove(id)
		return
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = qty
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Subtotal sums unit price times quantity across all lines. Pure.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.items {
		sum += money.ToNumber(item.UnitPrice) * float64(item.Quantity)
	}
	return sum
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	if len(c.items) == 0 {
		return nil
	}
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Restore replaces the cart contents with a persisted snapshot. Lines with
// non-positive quantities are dropped rather than resurrected.
func (c *Cart) Restore(items []LineItem) {
	c.items = nil
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		item.UnitPrice = money.ToNumber(item.UnitPrice)
		c.items = append(c.items, item)
	}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}
