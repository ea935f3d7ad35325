// Package pos is the small retail counter: packaged goods sold for cash,
// with its own product stock separate from the kitchen inventory.
package pos

import "math"

// SaleLine: one priced line of a sale before persistence.
type SaleLine struct {
	ProductID uint
	Quantity  float64
	UnitPrice float64
}

// ComputeTotal sums the lines and rounds to cents.
func ComputeTotal(lines []SaleLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Quantity * l.UnitPrice
	}
	return math.Round(total*100) / 100
}
