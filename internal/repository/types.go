package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Urgency of a procurement task. Drives the scoring weight profile and the
// expedite strategy.
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// TaskStatus tracks the lifecycle of a procurement task.
type TaskStatus string

const (
	TaskStatusCollecting  TaskStatus = "COLLECTING_QUOTES"
	TaskStatusNegotiating TaskStatus = "NEGOTIATING"
	TaskStatusDecided     TaskStatus = "DECIDED"
	TaskStatusAborted     TaskStatus = "ABORTED"
)

// SessionStatus is the negotiation state machine state for one
// (task, supplier) pair.
type SessionStatus string

const (
	SessionInitiated     SessionStatus = "INITIATED"
	SessionAwaitingReply SessionStatus = "AWAITING_REPLY"
	SessionNegotiating   SessionStatus = "NEGOTIATING"
	SessionAccepted      SessionStatus = "ACCEPTED"
	SessionCompleted     SessionStatus = "COMPLETED"
	SessionTimedOut      SessionStatus = "TIMED_OUT"
	SessionAbandoned     SessionStatus = "ABANDONED"
)

// Terminal reports whether no further rounds may occur in this state.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionAccepted, SessionCompleted, SessionTimedOut, SessionAbandoned:
		return true
	}
	return false
}

// RoundStatus is the state of a single negotiation round.
type RoundStatus string

const (
	RoundPending   RoundStatus = "PENDING"
	RoundResponded RoundStatus = "RESPONDED"
	RoundTimedOut  RoundStatus = "TIMED_OUT"
	RoundAbandoned RoundStatus = "ABANDONED"
)

// Strategy is the negotiation move chosen for a round.
type Strategy string

const (
	StrategyPriceMatch   Strategy = "price_match"
	StrategyBulkDiscount Strategy = "bulk_discount"
	StrategyExpedite     Strategy = "expedite"
	StrategySkip         Strategy = "skip"
)

// ProcurementTask groups suppliers, rounds and scores under one
// medicine/quantity/urgency request.
type ProcurementTask struct {
	ID                string     `json:"id"`
	MedicineName      string     `json:"medicine_name"`
	Quantity          int        `json:"quantity"`
	Urgency           Urgency    `json:"urgency"`
	BudgetConstrained bool       `json:"budget_constrained"`
	Status            TaskStatus `json:"status"`
	WinnerSupplierID  *string    `json:"winner_supplier_id,omitempty"`
	DecisionReasoning *string    `json:"decision_reasoning,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Quote is structured price/delivery/stock data extracted from one supplier
// reply. Quotes are immutable; a new round produces a new Quote.
type Quote struct {
	ID             string           `json:"id"`
	TaskID         string           `json:"task_id"`
	SupplierID     string           `json:"supplier_id"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice     *decimal.Decimal `json:"total_price,omitempty"`
	DeliveryDays   *int             `json:"delivery_days,omitempty"`
	StockAvailable *int             `json:"stock_available,omitempty"`
	RoundNumber    int              `json:"round_number"`
	Notes          *string          `json:"notes,omitempty"`
	RawText        string           `json:"raw_text"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Insufficient reports whether the quote is missing the fields scoring needs.
// Such quotes are non-competitive and excluded from scoring.
func (q *Quote) Insufficient() bool {
	return q.UnitPrice == nil || q.DeliveryDays == nil
}

// NegotiationSession is the per-(task, supplier) negotiation aggregate.
// Rounds under a session are strictly sequential and append-only.
type NegotiationSession struct {
	ID            string           `json:"id"`
	TaskID        string           `json:"task_id"`
	SupplierID    string           `json:"supplier_id"`
	Status        SessionStatus    `json:"status"`
	CurrentRound  int              `json:"current_round"`
	MaxRounds     int              `json:"max_rounds"`
	FinalQuoteID  *string          `json:"final_quote_id,omitempty"`
	SavingsAmount *decimal.Decimal `json:"savings_amount,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
}

// NegotiationRound is one outbound ask + inbound reply cycle.
type NegotiationRound struct {
	ID                 string           `json:"id"`
	SessionID          string           `json:"session_id"`
	TaskID             string           `json:"task_id"`
	SupplierID         string           `json:"supplier_id"`
	RoundNumber        int              `json:"round_number"`
	Strategy           Strategy         `json:"strategy"`
	OutboundMessage    string           `json:"outbound_message"`
	CounterPrice       *decimal.Decimal `json:"counter_price,omitempty"`
	TargetDeliveryDays *int             `json:"target_delivery_days,omitempty"`
	DiscountPct        *float64         `json:"discount_pct,omitempty"`
	QuoteID            *string          `json:"quote_id,omitempty"`
	Status             RoundStatus      `json:"status"`
	CreatedAt          time.Time        `json:"created_at"`
	RespondedAt        *time.Time       `json:"responded_at,omitempty"`
}

// SupplierScore is the weighted scoring result for one supplier in one task.
type SupplierScore struct {
	ID               string    `json:"id"`
	TaskID           string    `json:"task_id"`
	SupplierID       string    `json:"supplier_id"`
	QuoteID          string    `json:"quote_id"`
	PriceScore       float64   `json:"price_score"`
	SpeedScore       float64   `json:"speed_score"`
	ReliabilityScore float64   `json:"reliability_score"`
	StockScore       float64   `json:"stock_score"`
	PriceWeight      float64   `json:"price_weight"`
	SpeedWeight      float64   `json:"speed_weight"`
	ReliabilityWt    float64   `json:"reliability_weight"`
	StockWeight      float64   `json:"stock_weight"`
	TotalScore       float64   `json:"total_score"`
	Rank             int       `json:"rank"`
	Scenario         string    `json:"scenario"`
	Explanation      *string   `json:"explanation,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// AuditEntry is one append-only record in the negotiation audit trail.
type AuditEntry struct {
	ID          string         `json:"id"`
	TaskID      string         `json:"task_id"`
	SupplierID  *string        `json:"supplier_id,omitempty"`
	Action      string         `json:"action"`
	PerformedBy string         `json:"performed_by"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
