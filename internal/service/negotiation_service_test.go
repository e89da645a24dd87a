package service

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaflow/be-procurement/internal/negotiation"
	"github.com/pharmaflow/be-procurement/internal/repository"
)

func TestRealizedSavings(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		final    string
		quantity int
		want     string
	}{
		{"price dropped", "0.20", "0.17", 5000, "150"},
		{"no movement", "0.20", "0.20", 5000, "0"},
		{"price rose, floored at zero", "0.20", "0.25", 5000, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			savings := realizedSavings(
				pricedQuote("sup-a", tt.initial, 3),
				pricedQuote("sup-a", tt.final, 3),
				tt.quantity,
			)
			require.NotNil(t, savings)
			assert.Equal(t, tt.want, savings.String())
		})
	}
}

func TestRealizedSavings_MissingData(t *testing.T) {
	priced := pricedQuote("sup-a", "0.20", 3)
	unpriced := &repository.Quote{SupplierID: "sup-a"}

	assert.Nil(t, realizedSavings(nil, priced, 100))
	assert.Nil(t, realizedSavings(priced, nil, 100))
	assert.Nil(t, realizedSavings(unpriced, priced, 100))
	assert.Nil(t, realizedSavings(priced, unpriced, 100))
}

func TestFallbackMessage(t *testing.T) {
	task := &repository.ProcurementTask{MedicineName: "Amoxicillin 500mg", Quantity: 5000}

	counter := decimal.RequireFromString("0.21")
	target := 2
	pct := 10.0

	tests := []struct {
		name string
		ask  negotiation.Ask
		want string
	}{
		{"price match", negotiation.Ask{Strategy: repository.StrategyPriceMatch, CounterPrice: &counter}, "0.21"},
		{"expedite", negotiation.Ask{Strategy: repository.StrategyExpedite, TargetDeliveryDays: &target}, "within 2 days"},
		{"bulk discount", negotiation.Ask{Strategy: repository.StrategyBulkDiscount, DiscountPct: &pct}, "10% volume discount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := fallbackMessage(task, tt.ask)
			assert.True(t, strings.Contains(msg, "5000 units of Amoxicillin 500mg"), msg)
			assert.True(t, strings.Contains(msg, tt.want), msg)
		})
	}
}
