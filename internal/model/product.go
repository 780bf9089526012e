package model

import (
	"fmt"
	"strings"
)

// Product represents a catalogue product that needs can be attached to.
type Product struct {
	ID          *int64  `json:"id"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
	Priority    *int32  `json:"priority"`
	Colour      *string `json:"colour"`

	// needs is the inverse side of Need.Product. It is only mutated through
	// AddNeed and RemoveNeed so the back-reference never drifts.
	needs []*Need
}

// Equal reports whether p and other denote the same persisted product.
// Products without an id are only equal to themselves.
func (p *Product) Equal(other *Product) bool {
	if p == other {
		return p != nil
	}
	if p == nil || other == nil {
		return false
	}
	if p.ID == nil || other.ID == nil {
		return false
	}
	return *p.ID == *other.ID
}

// Needs returns a copy of the needs attached to the product.
func (p *Product) Needs() []*Need {
	out := make([]*Need, len(p.needs))
	copy(out, p.needs)
	return out
}

// AddNeed attaches need to the product and points its back-reference here.
func (p *Product) AddNeed(need *Need) *Product {
	if need == nil {
		return p
	}
	if p.indexOf(need) < 0 {
		p.needs = append(p.needs, need)
	}
	need.Product = p
	return p
}

// RemoveNeed detaches need from the product and clears its back-reference.
func (p *Product) RemoveNeed(need *Need) *Product {
	if need == nil {
		return p
	}
	if i := p.indexOf(need); i >= 0 {
		p.needs = append(p.needs[:i], p.needs[i+1:]...)
	}
	need.Product = nil
	return p
}

func (p *Product) indexOf(need *Need) int {
	for i, n := range p.needs {
		if n.Equal(need) {
			return i
		}
	}
	return -1
}

// Validate checks the constraints the API enforces before touching storage.
func (p *Product) Validate() error {
	if p.Code == nil || strings.TrimSpace(*p.Code) == "" {
		return ErrProductCodeRequired
	}
	return nil
}

// String renders the product for logs.
func (p *Product) String() string {
	if p == nil {
		return "Product{}"
	}
	return fmt.Sprintf("Product{id=%s, code='%s', description='%s', priority=%s, colour='%s'}",
		fmtInt64(p.ID), fmtString(p.Code), fmtString(p.Description), fmtInt32(p.Priority), fmtString(p.Colour))
}

func fmtInt64(v *int64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(*v)
}

func fmtInt32(v *int32) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(*v)
}

func fmtString(v *string) string {
	if v == nil {
		return "null"
	}
	return *v
}
