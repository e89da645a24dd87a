package scoring

import (
	"math"

	"github.com/pharmaflow/be-procurement/internal/errors"
	"github.com/pharmaflow/be-procurement/internal/repository"
)

// Weights is one scoring weight profile. Weights must sum to 1.0.
type Weights struct {
	Price       float64
	Speed       float64
	Reliability float64
	Stock       float64
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Price + w.Speed + w.Reliability + w.Stock
}

// Validate rejects a profile whose weights do not sum to 1.0.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 1e-9 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"scoring weights must sum to 1.0, got %g", w.Sum())
	}
	return nil
}

// Profiles holds the scenario weight profiles.
type Profiles struct {
	Default  Weights
	Critical Weights
	Budget   Weights
}

// DefaultProfiles returns the standard scenario table.
func DefaultProfiles() Profiles {
	return Profiles{
		Default:  Weights{Price: 0.40, Speed: 0.25, Reliability: 0.20, Stock: 0.15},
		Critical: Weights{Price: 0.30, Speed: 0.50, Reliability: 0.15, Stock: 0.05},
		Budget:   Weights{Price: 0.60, Speed: 0.15, Reliability: 0.15, Stock: 0.10},
	}
}

// Scenario is the urgency/budget context that selects a weight profile.
type Scenario struct {
	Urgency           repository.Urgency
	BudgetConstrained bool
}

// Name returns the profile name the scenario resolves to.
func (s Scenario) Name() string {
	if s.Urgency == repository.UrgencyCritical {
		return "critical"
	}
	if s.BudgetConstrained {
		return "budget"
	}
	return "default"
}

// For resolves a scenario to its weight profile. Precedence when multiple
// tags apply: CRITICAL urgency overrides budget-constrained, which overrides
// the default. No blending.
func (p Profiles) For(s Scenario) Weights {
	switch s.Name() {
	case "critical":
		return p.Critical
	case "budget":
		return p.Budget
	default:
		return p.Default
	}
}

// Validate checks every profile in the table.
func (p Profiles) Validate() error {
	for _, w := range []Weights{p.Default, p.Critical, p.Budget} {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	return nil
}
