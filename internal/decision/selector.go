// Package decision orders scored suppliers and selects a single winner with
// deterministic tie-breaks.
package decision

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pharmaflow/be-procurement/internal/errors"
	"github.com/pharmaflow/be-procurement/internal/scoring"
)

// Ranked is one supplier's position in the final ordering.
type Ranked struct {
	Rank         int             `json:"rank"`
	SupplierID   string          `json:"supplier_id"`
	QuoteID      string          `json:"quote_id"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DeliveryDays int             `json:"delivery_days"`
	Score        scoring.Score   `json:"score"`
}

// Result is the decision output: the winner plus the full ranked list for
// audit and display.
type Result struct {
	WinnerSupplierID string   `json:"winner_supplier_id"`
	Winner           Ranked   `json:"winner"`
	Ranking          []Ranked `json:"ranking"`
}

// Select orders the scored candidates and picks the winner.
//
// Ordering: descending total score; ties broken by lower unit price, then
// lower delivery days, then lexical supplier id. The ordering is total, so
// identical inputs always produce identical rankings.
func Select(scores []scoring.Score, candidates []scoring.Candidate) (*Result, error) {
	if len(scores) == 0 {
		return nil, errors.New(errors.ErrCodeNoEligibleSupplier,
			"no eligible supplier: candidate set is empty")
	}

	byID := make(map[string]scoring.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.SupplierID] = c
	}

	ranking := make([]Ranked, 0, len(scores))
	for _, s := range scores {
		c, ok := byID[s.SupplierID]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInternal,
				"score without candidate: supplier %s", s.SupplierID)
		}
		ranking = append(ranking, Ranked{
			SupplierID:   s.SupplierID,
			QuoteID:      s.QuoteID,
			UnitPrice:    c.UnitPrice,
			DeliveryDays: c.DeliveryDays,
			Score:        s,
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		a, b := ranking[i], ranking[j]
		if a.Score.Total != b.Score.Total {
			return a.Score.Total > b.Score.Total
		}
		if cmp := a.UnitPrice.Cmp(b.UnitPrice); cmp != 0 {
			return cmp < 0
		}
		if a.DeliveryDays != b.DeliveryDays {
			return a.DeliveryDays < b.DeliveryDays
		}
		return a.SupplierID < b.SupplierID
	})

	for i := range ranking {
		ranking[i].Rank = i + 1
	}

	return &Result{
		WinnerSupplierID: ranking[0].SupplierID,
		Winner:           ranking[0],
		Ranking:          ranking,
	}, nil
}
