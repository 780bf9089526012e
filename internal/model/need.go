package model

import "fmt"

// Need represents a requirement raised against a product.
type Need struct {
	ID       *int64   `json:"id"`
	Priority *string  `json:"priority"`
	Product  *Product `json:"product"`
}

// Equal reports whether n and other denote the same persisted need.
// Needs without an id are only equal to themselves.
func (n *Need) Equal(other *Need) bool {
	if n == other {
		return n != nil
	}
	if n == nil || other == nil {
		return false
	}
	if n.ID == nil || other.ID == nil {
		return false
	}
	return *n.ID == *other.ID
}

// ProductID returns the id of the referenced product, if any.
func (n *Need) ProductID() *int64 {
	if n.Product == nil {
		return nil
	}
	return n.Product.ID
}

// String renders the need for logs.
func (n *Need) String() string {
	if n == nil {
		return "Need{}"
	}
	return fmt.Sprintf("Need{id=%s, priority='%s'}", fmtInt64(n.ID), fmtString(n.Priority))
}
