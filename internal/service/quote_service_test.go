package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaflow/be-procurement/internal/repository"
)

func pricedQuote(supplierID, price string, days int) *repository.Quote {
	p := decimal.RequireFromString(price)
	return &repository.Quote{
		ID:           "q-" + supplierID,
		SupplierID:   supplierID,
		UnitPrice:    &p,
		DeliveryDays: &days,
	}
}

func TestSummarizeQuotes(t *testing.T) {
	quotes := []*repository.Quote{
		pricedQuote("sup-a", "0.15", 7),
		pricedQuote("sup-b", "0.22", 1),
		{ID: "q-sup-c", SupplierID: "sup-c"}, // nothing parsed
	}

	summary := summarizeQuotes(quotes)

	assert.Equal(t, 3, summary.TotalSuppliers)
	assert.Equal(t, 2, summary.PricedQuotes)
	require.NotNil(t, summary.Cheapest)
	assert.Equal(t, "sup-a", summary.Cheapest.SupplierID)
	require.NotNil(t, summary.Fastest)
	assert.Equal(t, "sup-b", summary.Fastest.SupplierID)
	require.NotNil(t, summary.AverageUnitPrice)
	assert.Equal(t, "0.185", summary.AverageUnitPrice.String())
	require.NotNil(t, summary.PriceSpreadPct)
	// (0.22-0.15)/0.15 = 46.67%
	assert.InDelta(t, 46.67, *summary.PriceSpreadPct, 0.001)
}

func TestSummarizeQuotes_Empty(t *testing.T) {
	summary := summarizeQuotes(nil)

	assert.Equal(t, 0, summary.TotalSuppliers)
	assert.Nil(t, summary.Cheapest)
	assert.Nil(t, summary.Fastest)
	assert.Nil(t, summary.AverageUnitPrice)
	assert.Nil(t, summary.PriceSpreadPct)
}

func TestSpikePct(t *testing.T) {
	avg := decimal.RequireFromString("0.10")

	tests := []struct {
		name    string
		price   string
		wantPct float64
		want    bool
	}{
		{"well above threshold", "0.15", 50.0, true},
		{"exactly at threshold", "0.13", 0, false},
		{"just above threshold", "0.14", 40.0, true},
		{"below average", "0.08", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, ok := spikePct(decimal.RequireFromString(tt.price), avg)
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.InDelta(t, tt.wantPct, pct, 0.001)
			}
		})
	}
}

func TestSpikePct_NoHistory(t *testing.T) {
	_, ok := spikePct(decimal.RequireFromString("0.50"), decimal.Zero)
	assert.False(t, ok)
}

func TestAveragePrice(t *testing.T) {
	prices := []decimal.Decimal{
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.20"),
		decimal.RequireFromString("0.30"),
	}
	assert.Equal(t, "0.2", averagePrice(prices).String())
	assert.True(t, averagePrice(nil).IsZero())
}

func TestNegotiationGate(t *testing.T) {
	tests := []struct {
		name    string
		quotes  int
		expired bool
		want    bool
	}{
		{"two quotes", 2, false, true},
		{"many quotes", 5, false, true},
		{"one quote still collecting", 1, false, false},
		{"one quote after expiry", 1, true, true},
		{"no quotes after expiry", 0, true, false},
		{"no quotes", 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := negotiationGate(tt.quotes, tt.expired)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, reason)
		})
	}
}
