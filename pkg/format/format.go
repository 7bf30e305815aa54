// Package format provides number formatting shared by the heidash chart,
// API and CLI layers.
package format

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Count formats a total as a grouped integer, e.g. 12345.6 → "12,346".
// Non-finite values format as "0".
func Count(total float64) string {
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return "0"
	}
	return humanize.Comma(int64(math.Round(total)))
}

// Round rounds v half away from zero to the given number of decimals.
// A negative precision is treated as 0.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

// Percent formats a percentage with a fixed number of decimals and a
// trailing % sign, e.g. Percent(49.96, 1) → "50.0%".
func Percent(p float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return fmt.Sprintf("%.*f%%", precision, Round(p, precision))
}
