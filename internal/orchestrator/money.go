package orchestrator

import (
	"math"

	"github.com/ccastillo/delivery-orchestrator/internal/domain"
)

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// computeTotals applies the two-step rounding rule shared by quoting and
// order creation: line totals are already rounded, the subtotal is the
// rounded sum, and taxes and total round again on top of that.
func computeTotals(lineTotals []float64, taxRate float64) domain.Totals {
	var subtotal float64
	for _, lt := range lineTotals {
		subtotal += lt
	}
	subtotal = round2(subtotal)
	taxes := round2(subtotal * taxRate)
	return domain.Totals{
		Subtotal: subtotal,
		Taxes:    taxes,
		Total:    round2(subtotal + taxes),
	}
}
