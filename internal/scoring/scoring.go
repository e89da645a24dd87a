// Package scoring computes weighted composite scores for competing supplier
// quotes. All sub-scores are normalized to [0,100]; the composite is the
// weight profile applied to them. Computation is deterministic and free of
// side effects.
package scoring

import (
	"math"

	"github.com/shopspring/decimal"
)

// Candidate is one supplier's finalized quote plus externally supplied
// reliability history. Only quotes with a parsed price and delivery time are
// candidates; the caller filters out insufficient quotes.
type Candidate struct {
	SupplierID   string
	QuoteID      string
	UnitPrice    decimal.Decimal
	DeliveryDays int
	// StockAvailable is nil when the supplier did not state stock.
	StockAvailable *int
	// Reliability is the supplier's 0-100 history score, nil when unknown.
	Reliability *float64
}

// Score is the weighted result for one candidate.
type Score struct {
	SupplierID  string
	QuoteID     string
	Price       float64
	Speed       float64
	Reliability float64
	Stock       float64
	Total       float64
	Weights     Weights
}

// neutralReliability is used when a supplier has no history.
const neutralReliability = 50.0

// Compute scores every candidate under the given weight profile.
//
// Price and speed are inverse-linear over the observed range: the cheapest
// (fastest) candidate scores 100, the most expensive (slowest) scores 0, with
// linear interpolation in between. When all candidates share one value the
// sub-score is 100 for everyone. Stock scores 100 when stock covers the
// requested quantity or is unknown, otherwise a penalty linear in the
// shortfall. Output order follows input order; results do not depend on it.
func Compute(candidates []Candidate, w Weights, quantity int) ([]Score, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	minPrice, maxPrice := priceRange(candidates)
	minDays, maxDays := deliveryRange(candidates)

	scores := make([]Score, 0, len(candidates))
	for _, c := range candidates {
		s := Score{
			SupplierID:  c.SupplierID,
			QuoteID:     c.QuoteID,
			Price:       round2(inverseLinear(c.UnitPrice.InexactFloat64(), minPrice, maxPrice)),
			Speed:       round2(inverseLinear(float64(c.DeliveryDays), minDays, maxDays)),
			Reliability: round2(reliabilityScore(c.Reliability)),
			Stock:       round2(stockScore(c.StockAvailable, quantity)),
			Weights:     w,
		}
		s.Total = round2(s.Price*w.Price + s.Speed*w.Speed + s.Reliability*w.Reliability + s.Stock*w.Stock)
		scores = append(scores, s)
	}
	return scores, nil
}

func priceRange(candidates []Candidate) (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, c := range candidates {
		p := c.UnitPrice.InexactFloat64()
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return min, max
}

func deliveryRange(candidates []Candidate) (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, c := range candidates {
		d := float64(c.DeliveryDays)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// inverseLinear maps v in [min,max] to [100,0]; a degenerate range maps to 100.
func inverseLinear(v, min, max float64) float64 {
	if max <= min {
		return 100
	}
	return (max - v) / (max - min) * 100
}

func reliabilityScore(history *float64) float64 {
	if history == nil {
		return neutralReliability
	}
	return math.Min(math.Max(*history, 0), 100)
}

// stockScore is optimistic about unknown stock.
func stockScore(stock *int, quantity int) float64 {
	if stock == nil || quantity <= 0 || *stock >= quantity {
		return 100
	}
	if *stock <= 0 {
		return 0
	}
	return float64(*stock) / float64(quantity) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
