package types

import "strings"

// LoyaltyCustomer is a directory entry referenced by the order session.
// It bounds point redemption but is never owned by the cart.
type LoyaltyCustomer struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LoyaltyPoints int    `json:"loyaltyPoints"`
}

// IsZero reports whether the record carries no identity.
func (c LoyaltyCustomer) IsZero() bool {
	return strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.Phone) == ""
}
