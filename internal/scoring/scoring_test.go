package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaflow/be-procurement/internal/errors"
	"github.com/pharmaflow/be-procurement/internal/repository"
)

func cand(id, price string, days int) Candidate {
	return Candidate{
		SupplierID:   id,
		QuoteID:      "q-" + id,
		UnitPrice:    decimal.RequireFromString(price),
		DeliveryDays: days,
	}
}

// The three-supplier scenario from the scoring design: ($0.15, 7d),
// ($0.22, 1d), ($0.20, 3d), no reliability history, no stated stock.
func scenarioCandidates() []Candidate {
	return []Candidate{
		cand("sup-a", "0.15", 7),
		cand("sup-b", "0.22", 1),
		cand("sup-c", "0.20", 3),
	}
}

func TestCompute_DefaultWeights(t *testing.T) {
	scores, err := Compute(scenarioCandidates(), DefaultProfiles().Default, 5000)
	require.NoError(t, err)
	require.Len(t, scores, 3)

	byID := map[string]Score{}
	for _, s := range scores {
		byID[s.SupplierID] = s
	}

	// sup-a: price 100, speed 0, reliability 50, stock 100
	// → 100*.40 + 0*.25 + 50*.20 + 100*.15 = 65.00
	assert.InDelta(t, 100.0, byID["sup-a"].Price, 0.001)
	assert.InDelta(t, 0.0, byID["sup-a"].Speed, 0.001)
	assert.InDelta(t, 50.0, byID["sup-a"].Reliability, 0.001)
	assert.InDelta(t, 100.0, byID["sup-a"].Stock, 0.001)
	assert.InDelta(t, 65.00, byID["sup-a"].Total, 0.001)

	// sup-b: price 0, speed 100 → 0 + 25 + 10 + 15 = 50.00
	assert.InDelta(t, 50.00, byID["sup-b"].Total, 0.001)

	// sup-c: price (0.22-0.20)/0.07*100 = 28.57, speed (7-3)/6*100 = 66.67
	// → 28.57*.40 + 66.67*.25 + 10 + 15 = 53.10
	assert.InDelta(t, 28.57, byID["sup-c"].Price, 0.001)
	assert.InDelta(t, 66.67, byID["sup-c"].Speed, 0.001)
	assert.InDelta(t, 53.10, byID["sup-c"].Total, 0.001)
}

func TestCompute_CriticalWeightsFavorSpeed(t *testing.T) {
	profiles := DefaultProfiles()
	w := profiles.For(Scenario{Urgency: repository.UrgencyCritical})
	scores, err := Compute(scenarioCandidates(), w, 5000)
	require.NoError(t, err)

	byID := map[string]Score{}
	for _, s := range scores {
		byID[s.SupplierID] = s
	}

	// Under .30/.50/.15/.05 the 1-day supplier's price penalty is outweighed.
	// sup-a: 30 + 0 + 7.5 + 5 = 42.50; sup-b: 0 + 50 + 7.5 + 5 = 62.50
	assert.InDelta(t, 42.50, byID["sup-a"].Total, 0.001)
	assert.InDelta(t, 62.50, byID["sup-b"].Total, 0.001)
	assert.Greater(t, byID["sup-b"].Total, byID["sup-a"].Total)
}

func TestCompute_OrderInvariant(t *testing.T) {
	w := DefaultProfiles().Default
	abc := scenarioCandidates()
	bac := []Candidate{abc[1], abc[0], abc[2]}

	s1, err := Compute(abc, w, 5000)
	require.NoError(t, err)
	s2, err := Compute(bac, w, 5000)
	require.NoError(t, err)

	totals1 := map[string]float64{}
	for _, s := range s1 {
		totals1[s.SupplierID] = s.Total
	}
	for _, s := range s2 {
		assert.Equal(t, totals1[s.SupplierID], s.Total, "total for %s changed with input order", s.SupplierID)
	}
}

func TestCompute_DegenerateRanges(t *testing.T) {
	same := []Candidate{
		cand("sup-a", "0.20", 4),
		cand("sup-b", "0.20", 4),
	}
	scores, err := Compute(same, DefaultProfiles().Default, 1000)
	require.NoError(t, err)
	for _, s := range scores {
		assert.InDelta(t, 100.0, s.Price, 0.001)
		assert.InDelta(t, 100.0, s.Speed, 0.001)
	}
}

func TestCompute_StockPenalty(t *testing.T) {
	short := 2000
	full := 9000
	candidates := []Candidate{
		{SupplierID: "sup-a", UnitPrice: decimal.RequireFromString("0.15"), DeliveryDays: 3, StockAvailable: &short},
		{SupplierID: "sup-b", UnitPrice: decimal.RequireFromString("0.15"), DeliveryDays: 3, StockAvailable: &full},
		{SupplierID: "sup-c", UnitPrice: decimal.RequireFromString("0.15"), DeliveryDays: 3}, // unknown → optimistic
	}
	scores, err := Compute(candidates, DefaultProfiles().Default, 5000)
	require.NoError(t, err)

	byID := map[string]Score{}
	for _, s := range scores {
		byID[s.SupplierID] = s
	}
	assert.InDelta(t, 40.0, byID["sup-a"].Stock, 0.001) // 2000/5000 * 100
	assert.InDelta(t, 100.0, byID["sup-b"].Stock, 0.001)
	assert.InDelta(t, 100.0, byID["sup-c"].Stock, 0.001)
}

func TestCompute_ReliabilityPassthrough(t *testing.T) {
	hi := 92.0
	candidates := []Candidate{
		{SupplierID: "sup-a", UnitPrice: decimal.RequireFromString("0.15"), DeliveryDays: 3, Reliability: &hi},
		{SupplierID: "sup-b", UnitPrice: decimal.RequireFromString("0.15"), DeliveryDays: 3},
	}
	scores, err := Compute(candidates, DefaultProfiles().Default, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 92.0, scores[0].Reliability, 0.001)
	assert.InDelta(t, 50.0, scores[1].Reliability, 0.001)
}

func TestCompute_RejectsMalformedWeights(t *testing.T) {
	bad := Weights{Price: 0.5, Speed: 0.5, Reliability: 0.5, Stock: 0.5}
	_, err := Compute(scenarioCandidates(), bad, 1000)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidConfiguration, errors.CodeOf(err))
}

func TestCompute_EmptyInput(t *testing.T) {
	scores, err := Compute(nil, DefaultProfiles().Default, 1000)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestProfiles_Precedence(t *testing.T) {
	p := DefaultProfiles()

	tests := []struct {
		name     string
		scenario Scenario
		want     Weights
	}{
		{"default", Scenario{Urgency: repository.UrgencyMedium}, p.Default},
		{"high urgency still default", Scenario{Urgency: repository.UrgencyHigh}, p.Default},
		{"critical", Scenario{Urgency: repository.UrgencyCritical}, p.Critical},
		{"budget", Scenario{Urgency: repository.UrgencyMedium, BudgetConstrained: true}, p.Budget},
		{"critical overrides budget", Scenario{Urgency: repository.UrgencyCritical, BudgetConstrained: true}, p.Critical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.For(tt.scenario))
		})
	}
}

func TestWeights_Validate(t *testing.T) {
	require.NoError(t, DefaultProfiles().Validate())

	bad := Weights{Price: 0.40, Speed: 0.25, Reliability: 0.20, Stock: 0.20}
	err := bad.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidConfiguration, errors.CodeOf(err))
}
