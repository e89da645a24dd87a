// Package negotiation implements the per-supplier negotiation state machine:
// strategy selection for each round and the status transitions driven by
// supplier replies, timeouts and aborts.
//
// Strategy evaluation is a pure function. The best competitor price is always
// passed in by the caller, computed fresh from the task's current quote set —
// it is never cached between decisions.
package negotiation

import (
	"github.com/shopspring/decimal"

	"github.com/pharmaflow/be-procurement/internal/repository"
)

// Config holds the tunables of the state machine.
type Config struct {
	// MaxRounds caps rounds per supplier (default 3).
	MaxRounds int
	// PriceTolerance is the fraction above the best competitor price still
	// considered competitive (default 0.05).
	PriceTolerance float64
	// VolumeThreshold is the quantity from which a bulk discount is asked.
	VolumeThreshold int
	// DeliveryCeilingHigh and DeliveryCeilingCritical are the acceptable
	// delivery days for HIGH and CRITICAL urgency.
	DeliveryCeilingHigh     int
	DeliveryCeilingCritical int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxRounds:               3,
		PriceTolerance:          0.05,
		VolumeThreshold:         5000,
		DeliveryCeilingHigh:     5,
		DeliveryCeilingCritical: 2,
	}
}

// Input is everything one strategy decision depends on.
type Input struct {
	// Quote is the supplier's latest quote.
	Quote *repository.Quote
	// BestCompetitorPrice is the lowest priced quote among the other
	// suppliers of the task, recomputed by the caller immediately before
	// this call. Nil when there is no priced competitor.
	BestCompetitorPrice *decimal.Decimal
	// Urgency and Quantity come from the procurement task.
	Urgency  repository.Urgency
	Quantity int
	// NextRound is the round number that would be opened (1-based).
	NextRound int
	// PriorStrategies are the strategies of rounds already played, in order.
	PriorStrategies []repository.Strategy
}

// Ask is the outcome of a strategy decision. Strategy skip means the
// negotiation terminates with the current quote as final.
type Ask struct {
	Strategy           repository.Strategy
	CounterPrice       *decimal.Decimal
	TargetDeliveryDays *int
	DiscountPct        *float64
	Reason             string
}

// Evaluate selects the negotiation strategy for the next round.
//
// Precedence: round cap and insufficient data force skip; then price_match,
// then expedite, then bulk_discount (asked at most once per session), then
// skip when the quote is within tolerance on both axes.
func Evaluate(in Input, cfg Config) Ask {
	if in.NextRound > cfg.MaxRounds {
		return Ask{Strategy: repository.StrategySkip, Reason: "round cap reached"}
	}
	if in.Quote == nil || in.Quote.Insufficient() {
		// Nothing to negotiate against; leave the quote for manual follow-up.
		return Ask{Strategy: repository.StrategySkip, Reason: "quote has insufficient data"}
	}

	price := *in.Quote.UnitPrice
	delivery := *in.Quote.DeliveryDays

	if in.BestCompetitorPrice != nil {
		limit := withTolerance(*in.BestCompetitorPrice, cfg.PriceTolerance)
		if price.GreaterThan(limit) {
			// Ask to match or beat a target slightly above the best known
			// competitor. The competitor is never named.
			counter := withTolerance(*in.BestCompetitorPrice, cfg.PriceTolerance/2).Round(2)
			return Ask{
				Strategy:     repository.StrategyPriceMatch,
				CounterPrice: &counter,
				Reason:       "unit price exceeds best competitor beyond tolerance",
			}
		}
	}

	if ceiling, ok := deliveryCeiling(in.Urgency, cfg); ok && delivery > ceiling {
		target := ceiling
		return Ask{
			Strategy:           repository.StrategyExpedite,
			TargetDeliveryDays: &target,
			Reason:             "delivery exceeds urgency ceiling",
		}
	}

	if in.Quantity >= cfg.VolumeThreshold && !asked(in.PriorStrategies, repository.StrategyBulkDiscount) {
		pct := 5.0
		if in.Quantity >= 2*cfg.VolumeThreshold {
			pct = 10.0
		}
		return Ask{
			Strategy:    repository.StrategyBulkDiscount,
			DiscountPct: &pct,
			Reason:      "quantity qualifies for a volume discount",
		}
	}

	return Ask{Strategy: repository.StrategySkip, Reason: "quote within tolerance on price and delivery"}
}

// Accepted reports whether a reply closes the negotiation: the supplier's new
// price is at or below the counter-offer we asked for in the pending round.
func Accepted(pending *repository.NegotiationRound, reply *repository.Quote) bool {
	if pending == nil || pending.CounterPrice == nil {
		return false
	}
	if reply == nil || reply.UnitPrice == nil {
		return false
	}
	return reply.UnitPrice.LessThanOrEqual(*pending.CounterPrice)
}

// BestCompetitorPrice returns the lowest non-nil unit price among quotes from
// suppliers other than supplierID. Callers pass the task's latest quote per
// supplier, freshly loaded.
func BestCompetitorPrice(quotes []*repository.Quote, supplierID string) *decimal.Decimal {
	var best *decimal.Decimal
	for _, q := range quotes {
		if q.SupplierID == supplierID || q.UnitPrice == nil {
			continue
		}
		if best == nil || q.UnitPrice.LessThan(*best) {
			p := *q.UnitPrice
			best = &p
		}
	}
	return best
}

func withTolerance(price decimal.Decimal, tolerance float64) decimal.Decimal {
	return price.Mul(decimal.NewFromFloat(1 + tolerance))
}

func deliveryCeiling(u repository.Urgency, cfg Config) (int, bool) {
	switch u {
	case repository.UrgencyHigh:
		return cfg.DeliveryCeilingHigh, true
	case repository.UrgencyCritical:
		return cfg.DeliveryCeilingCritical, true
	}
	return 0, false
}

func asked(prior []repository.Strategy, s repository.Strategy) bool {
	for _, p := range prior {
		if p == s {
			return true
		}
	}
	return false
}
