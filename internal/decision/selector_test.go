package decision

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaflow/be-procurement/internal/errors"
	"github.com/pharmaflow/be-procurement/internal/repository"
	"github.com/pharmaflow/be-procurement/internal/scoring"
)

func fixture() ([]scoring.Score, []scoring.Candidate) {
	candidates := []scoring.Candidate{
		{SupplierID: "sup-a", QuoteID: "q-a", UnitPrice: decimal.RequireFromString("0.15"), DeliveryDays: 7},
		{SupplierID: "sup-b", QuoteID: "q-b", UnitPrice: decimal.RequireFromString("0.22"), DeliveryDays: 1},
		{SupplierID: "sup-c", QuoteID: "q-c", UnitPrice: decimal.RequireFromString("0.20"), DeliveryDays: 3},
	}
	scores, err := scoring.Compute(candidates, scoring.DefaultProfiles().Default, 5000)
	if err != nil {
		panic(err)
	}
	return scores, candidates
}

func TestSelect_WinnerAndRanking(t *testing.T) {
	scores, candidates := fixture()

	result, err := Select(scores, candidates)
	require.NoError(t, err)

	// Under default weights the cheapest supplier wins (65.00 vs 53.10 vs 50.00).
	assert.Equal(t, "sup-a", result.WinnerSupplierID)
	require.Len(t, result.Ranking, 3)
	assert.Equal(t, []string{"sup-a", "sup-c", "sup-b"}, supplierOrder(result))
	for i, r := range result.Ranking {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestSelect_CriticalScenarioFavorsSpeed(t *testing.T) {
	_, candidates := fixture()
	w := scoring.DefaultProfiles().For(scoring.Scenario{Urgency: repository.UrgencyCritical})
	scores, err := scoring.Compute(candidates, w, 5000)
	require.NoError(t, err)

	result, err := Select(scores, candidates)
	require.NoError(t, err)
	assert.Equal(t, "sup-b", result.WinnerSupplierID, "speed weight should outweigh the price penalty")
}

func TestSelect_Deterministic(t *testing.T) {
	scores, candidates := fixture()

	first, err := Select(scores, candidates)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Select(scores, candidates)
		require.NoError(t, err)
		assert.Equal(t, first.WinnerSupplierID, again.WinnerSupplierID)
		assert.Equal(t, supplierOrder(first), supplierOrder(again))
	}
}

func TestSelect_TieBreaks(t *testing.T) {
	// Equal totals across the board: all sub-scores identical.
	candidates := []scoring.Candidate{
		{SupplierID: "sup-z", QuoteID: "q-z", UnitPrice: decimal.RequireFromString("0.20"), DeliveryDays: 3},
		{SupplierID: "sup-y", QuoteID: "q-y", UnitPrice: decimal.RequireFromString("0.20"), DeliveryDays: 3},
		{SupplierID: "sup-x", QuoteID: "q-x", UnitPrice: decimal.RequireFromString("0.20"), DeliveryDays: 5},
		{SupplierID: "sup-w", QuoteID: "q-w", UnitPrice: decimal.RequireFromString("0.18"), DeliveryDays: 5},
	}
	scores := make([]scoring.Score, len(candidates))
	for i, c := range candidates {
		scores[i] = scoring.Score{SupplierID: c.SupplierID, QuoteID: c.QuoteID, Total: 70}
	}

	result, err := Select(scores, candidates)
	require.NoError(t, err)

	// Tie-break 1: lower price → sup-w first. Then 0.20 group: tie-break 2
	// lower delivery puts sup-y/sup-z (3d) before sup-x (5d); tie-break 3
	// lexical order puts sup-y before sup-z.
	assert.Equal(t, []string{"sup-w", "sup-y", "sup-z", "sup-x"}, supplierOrder(result))
}

func TestSelect_EmptySetFails(t *testing.T) {
	_, err := Select(nil, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNoEligibleSupplier, errors.CodeOf(err))
}

func supplierOrder(r *Result) []string {
	order := make([]string, len(r.Ranking))
	for i, ranked := range r.Ranking {
		order[i] = ranked.SupplierID
	}
	return order
}
