package client

// Supplier is the directory service's view of a supplier.
type Supplier struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ContactEmail string   `json:"contact_email"`
	Active       bool     `json:"active"`
	LeadTimeDays *int     `json:"lead_time_days,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
}

// ComposeMessageRequest asks the composer service to draft a negotiation
// message. The engine supplies the structured context; the composer owns the
// prose and the delivery channel.
type ComposeMessageRequest struct {
	TaskID             string   `json:"task_id"`
	SupplierID         string   `json:"supplier_id"`
	SupplierName       string   `json:"supplier_name,omitempty"`
	MedicineName       string   `json:"medicine_name"`
	Quantity           int      `json:"quantity"`
	RoundNumber        int      `json:"round_number"`
	Strategy           string   `json:"strategy"`
	CounterPrice       string   `json:"counter_price,omitempty"`
	TargetDeliveryDays *int     `json:"target_delivery_days,omitempty"`
	DiscountPct        *float64 `json:"discount_pct,omitempty"`
	Reason             string   `json:"reason,omitempty"`
}

// ComposeMessageResponse carries the drafted message back.
type ComposeMessageResponse struct {
	Message string `json:"message"`
}

// ExplainDecisionRequest asks the composer for a human-readable explanation
// of a finished decision.
type ExplainDecisionRequest struct {
	TaskID       string           `json:"task_id"`
	MedicineName string           `json:"medicine_name"`
	WinnerID     string           `json:"winner_supplier_id"`
	Scenario     string           `json:"scenario"`
	Ranking      []RankedSupplier `json:"ranking"`
}

// RankedSupplier is one row of the decision breakdown sent to the composer.
type RankedSupplier struct {
	Rank         int     `json:"rank"`
	SupplierID   string  `json:"supplier_id"`
	UnitPrice    string  `json:"unit_price"`
	DeliveryDays int     `json:"delivery_days"`
	TotalScore   float64 `json:"total_score"`
}

// ExplainDecisionResponse carries the explanation text back.
type ExplainDecisionResponse struct {
	Explanation string `json:"explanation"`
}

// ReliabilityResponse is the reliability service's score for one supplier.
type ReliabilityResponse struct {
	SupplierID string  `json:"supplier_id"`
	Score      float64 `json:"score"`
	SampleSize int     `json:"sample_size"`
}
