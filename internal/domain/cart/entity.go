// internal/domain/cart/entity.go
package cart

import "github.com/lapis-malang/storefront/internal/domain/catalog"

const (
	// DefaultQuantity is used when a caller adds an item without a quantity
	DefaultQuantity = 1
	// MaxQuantity is the most units a single line can hold
	MaxQuantity = 999
)

// Line is a catalog item bound to a quantity. Quantity is always >= 1.
type Line struct {
	catalog.Item
	Quantity int `json:"quantity"`
}

// LineTotal returns price times quantity
func (l Line) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Totals represents the derived cart aggregates at one point in time
type Totals struct {
	LineCount  int   `json:"line_count"`  // Number of distinct items
	TotalItems int   `json:"total_items"` // Sum of all quantities
	Subtotal   int64 `json:"subtotal"`    // Sum of price * quantity
}

// shiftQuantity returns current+delta clamped to [1, MaxQuantity] without
// overflowing
func shiftQuantity(current, delta int) int {
	if delta > MaxQuantity-current {
		return MaxQuantity
	}
	if delta < 1-current {
		return 1
	}
	return current + delta
}

func computeTotals(lines []Line) Totals {
	totals := Totals{LineCount: len(lines)}
	for _, line := range lines {
		totals.TotalItems += line.Quantity
		totals.Subtotal += line.LineTotal()
	}
	return totals
}
