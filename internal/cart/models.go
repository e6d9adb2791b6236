// Package cart stores per-user carts. Lines keep a snapshot of the product
// so a cart outlives the session that filled it.
package cart

import (
	"errors"
	"math"
	"time"

	"grocery-planner/internal/catalog"
)

// ErrInvalidQuantity is returned for quantities that are not positive.
var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

// Line is one product in a cart.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
	AddedAt  time.Time       `json:"added_at"`
}

// Cart is a user's cart, lines in the order they were first added.
type Cart struct {
	UserID string `json:"user_id"`
	Lines  []Line `json:"lines"`
}

// Product implements the nutrition catalog over the cart's snapshots.
func (c *Cart) Product(id int) (catalog.Product, bool) {
	for _, l := range c.Lines {
		if l.Product.ID == id {
			return l.Product, true
		}
	}
	return catalog.Product{}, false
}

// IDs returns the product ids in the cart.
func (c *Cart) IDs() []int {
	ids := make([]int, len(c.Lines))
	for i, l := range c.Lines {
		ids[i] = l.Product.ID
	}
	return ids
}

// Names returns the product names in the cart.
func (c *Cart) Names() []string {
	names := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		names[i] = l.Product.Name
	}
	return names
}

// Multipliers uses each line's quantity as its serving multiplier.
func (c *Cart) Multipliers() map[int]float64 {
	m := make(map[int]float64, len(c.Lines))
	for _, l := range c.Lines {
		m[l.Product.ID] = float64(l.Quantity)
	}
	return m
}

// Total is the cart's price, rounded to cents.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Product.Price * float64(l.Quantity)
	}
	return math.Round(total*100) / 100
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}
