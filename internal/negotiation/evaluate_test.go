package negotiation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pharmaflow/be-procurement/internal/repository"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intp(v int) *int { return &v }

func quote(price string, days int) *repository.Quote {
	q := &repository.Quote{SupplierID: "sup-a", DeliveryDays: intp(days)}
	if price != "" {
		q.UnitPrice = dec(price)
	}
	return q
}

func TestEvaluate_StrategySelection(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		in   Input
		want repository.Strategy
	}{
		{
			name: "price above tolerance picks price_match",
			in: Input{
				Quote:               quote("0.22", 3),
				BestCompetitorPrice: dec("0.15"),
				Urgency:             repository.UrgencyMedium,
				Quantity:            1000,
				NextRound:           1,
			},
			want: repository.StrategyPriceMatch,
		},
		{
			name: "price within tolerance and slow delivery under HIGH picks expedite",
			in: Input{
				Quote:               quote("0.15", 9),
				BestCompetitorPrice: dec("0.15"),
				Urgency:             repository.UrgencyHigh,
				Quantity:            1000,
				NextRound:           1,
			},
			want: repository.StrategyExpedite,
		},
		{
			name: "critical urgency uses the tighter ceiling",
			in: Input{
				Quote:               quote("0.15", 3),
				BestCompetitorPrice: dec("0.15"),
				Urgency:             repository.UrgencyCritical,
				Quantity:            1000,
				NextRound:           1,
			},
			want: repository.StrategyExpedite,
		},
		{
			name: "competitive price and high volume picks bulk_discount",
			in: Input{
				Quote:               quote("0.15", 3),
				BestCompetitorPrice: dec("0.15"),
				Urgency:             repository.UrgencyMedium,
				Quantity:            6000,
				NextRound:           1,
			},
			want: repository.StrategyBulkDiscount,
		},
		{
			name: "bulk_discount asked only once",
			in: Input{
				Quote:               quote("0.15", 3),
				BestCompetitorPrice: dec("0.15"),
				Urgency:             repository.UrgencyMedium,
				Quantity:            6000,
				NextRound:           2,
				PriorStrategies:     []repository.Strategy{repository.StrategyBulkDiscount},
			},
			want: repository.StrategySkip,
		},
		{
			name: "within tolerance on both axes picks skip",
			in: Input{
				Quote:               quote("0.155", 2),
				BestCompetitorPrice: dec("0.15"),
				Urgency:             repository.UrgencyHigh,
				Quantity:            1000,
				NextRound:           1,
			},
			want: repository.StrategySkip,
		},
		{
			name: "round cap forces skip even when price is bad",
			in: Input{
				Quote:               quote("0.30", 2),
				BestCompetitorPrice: dec("0.15"),
				Urgency:             repository.UrgencyMedium,
				Quantity:            1000,
				NextRound:           4,
			},
			want: repository.StrategySkip,
		},
		{
			name: "insufficient data forces skip",
			in: Input{
				Quote:     &repository.Quote{SupplierID: "sup-a"},
				Urgency:   repository.UrgencyMedium,
				Quantity:  1000,
				NextRound: 1,
			},
			want: repository.StrategySkip,
		},
		{
			name: "no competitor means no price_match",
			in: Input{
				Quote:     quote("0.30", 2),
				Urgency:   repository.UrgencyMedium,
				Quantity:  1000,
				NextRound: 1,
			},
			want: repository.StrategySkip,
		},
		{
			name: "price_match beats expedite when both apply",
			in: Input{
				Quote:               quote("0.22", 9),
				BestCompetitorPrice: dec("0.15"),
				Urgency:             repository.UrgencyHigh,
				Quantity:            6000,
				NextRound:           1,
			},
			want: repository.StrategyPriceMatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.in, cfg)
			if got.Strategy != tt.want {
				t.Errorf("Evaluate() strategy = %s, want %s (%s)", got.Strategy, tt.want, got.Reason)
			}
		})
	}
}

func TestEvaluate_PriceMatchCounterOffer(t *testing.T) {
	cfg := DefaultConfig()
	in := Input{
		Quote:               quote("0.22", 3),
		BestCompetitorPrice: dec("0.20"),
		Urgency:             repository.UrgencyMedium,
		Quantity:            1000,
		NextRound:           1,
	}
	ask := Evaluate(in, cfg)
	if ask.Strategy != repository.StrategyPriceMatch {
		t.Fatalf("strategy = %s, want price_match", ask.Strategy)
	}
	// Counter is best * (1 + tolerance/2) = 0.20 * 1.025 = 0.205 → 0.21 rounded.
	want := decimal.RequireFromString("0.21")
	if ask.CounterPrice == nil || !ask.CounterPrice.Equal(want) {
		t.Errorf("CounterPrice = %v, want %s", ask.CounterPrice, want)
	}
}

func TestEvaluate_ExpediteTarget(t *testing.T) {
	cfg := DefaultConfig()
	ask := Evaluate(Input{
		Quote:               quote("0.15", 9),
		BestCompetitorPrice: dec("0.15"),
		Urgency:             repository.UrgencyCritical,
		Quantity:            1000,
		NextRound:           1,
	}, cfg)
	if ask.Strategy != repository.StrategyExpedite {
		t.Fatalf("strategy = %s, want expedite", ask.Strategy)
	}
	if ask.TargetDeliveryDays == nil || *ask.TargetDeliveryDays != cfg.DeliveryCeilingCritical {
		t.Errorf("TargetDeliveryDays = %v, want %d", ask.TargetDeliveryDays, cfg.DeliveryCeilingCritical)
	}
}

func TestBestCompetitorPrice(t *testing.T) {
	quotes := []*repository.Quote{
		{SupplierID: "sup-a", UnitPrice: dec("0.22")},
		{SupplierID: "sup-b", UnitPrice: dec("0.15")},
		{SupplierID: "sup-c"}, // unparsed price, excluded
		{SupplierID: "sup-d", UnitPrice: dec("0.18")},
	}

	best := BestCompetitorPrice(quotes, "sup-a")
	if best == nil || !best.Equal(decimal.RequireFromString("0.15")) {
		t.Errorf("best competitor for sup-a = %v, want 0.15", best)
	}

	// The supplier's own quote is excluded.
	best = BestCompetitorPrice(quotes, "sup-b")
	if best == nil || !best.Equal(decimal.RequireFromString("0.18")) {
		t.Errorf("best competitor for sup-b = %v, want 0.18", best)
	}

	// No priced competitors.
	if got := BestCompetitorPrice(quotes[2:3], "sup-a"); got != nil {
		t.Errorf("expected nil best price, got %v", got)
	}
}

func TestAccepted(t *testing.T) {
	pending := &repository.NegotiationRound{CounterPrice: dec("0.18")}

	if !Accepted(pending, &repository.Quote{UnitPrice: dec("0.17")}) {
		t.Error("reply below counter price should be accepted")
	}
	if !Accepted(pending, &repository.Quote{UnitPrice: dec("0.18")}) {
		t.Error("reply at counter price should be accepted")
	}
	if Accepted(pending, &repository.Quote{UnitPrice: dec("0.19")}) {
		t.Error("reply above counter price should not be accepted")
	}
	if Accepted(pending, &repository.Quote{}) {
		t.Error("reply without a price should not be accepted")
	}
	if Accepted(&repository.NegotiationRound{}, &repository.Quote{UnitPrice: dec("0.10")}) {
		t.Error("round without a counter price cannot be accepted against")
	}
}
