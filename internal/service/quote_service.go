package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pharmaflow/be-procurement/internal/errors"
	"github.com/pharmaflow/be-procurement/internal/extract"
	"github.com/pharmaflow/be-procurement/internal/metrics"
	"github.com/pharmaflow/be-procurement/internal/repository"
)

// spikeWindow is how far back historical prices are considered.
const spikeWindow = 30 * 24 * time.Hour

// spikeThreshold flags quotes more than 30% above the historical average.
const spikeThreshold = 0.30

// QuoteSummary is a comparison view over a task's latest quotes.
type QuoteSummary struct {
	TaskID           string           `json:"task_id"`
	TotalSuppliers   int              `json:"total_suppliers"`
	PricedQuotes     int              `json:"priced_quotes"`
	Cheapest         *QuoteRef        `json:"cheapest,omitempty"`
	Fastest          *QuoteRef        `json:"fastest,omitempty"`
	AverageUnitPrice *decimal.Decimal `json:"average_unit_price,omitempty"`
	PriceSpreadPct   *float64         `json:"price_spread_pct,omitempty"`
}

// QuoteRef points at one supplier's quote in a summary.
type QuoteRef struct {
	SupplierID   string           `json:"supplier_id"`
	QuoteID      string           `json:"quote_id"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	DeliveryDays *int             `json:"delivery_days,omitempty"`
}

// PriceSpike flags a quote priced well above the recent market level.
type PriceSpike struct {
	SupplierID    string          `json:"supplier_id"`
	QuoteID       string          `json:"quote_id"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	HistoricalAvg decimal.Decimal `json:"historical_avg"`
	IncreasePct   float64         `json:"increase_pct"`
	SampleSize    int             `json:"sample_size"`
}

// QuoteService handles quote intake and the read-side views over a task's
// quote set.
type QuoteService struct {
	taskRepo  *repository.TaskRepository
	quoteRepo *repository.QuoteRepository
	events    EventPublisherInterface
	log       zerolog.Logger
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(
	taskRepo *repository.TaskRepository,
	quoteRepo *repository.QuoteRepository,
	events EventPublisherInterface,
	log zerolog.Logger,
) *QuoteService {
	return &QuoteService{
		taskRepo:  taskRepo,
		quoteRepo: quoteRepo,
		events:    events,
		log:       log,
	}
}

// RecordSupplierQuote extracts a quote from a supplier's initial offer text
// and stores it as round 0. Only tasks still collecting quotes accept these.
func (s *QuoteService) RecordSupplierQuote(ctx context.Context, taskID, supplierID, rawText string) (*repository.Quote, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != repository.TaskStatusCollecting {
		return nil, errors.Newf(errors.ErrCodeConflict, "task is %s, not collecting quotes", task.Status)
	}
	if strings.TrimSpace(rawText) == "" {
		return nil, errors.InvalidInput("raw_text", "offer text is empty")
	}

	parsed := extract.Parse(rawText)
	outcome := "parsed"
	if parsed.Insufficient() {
		outcome = "insufficient"
	}
	metrics.RepliesParsed.WithLabelValues(outcome).Inc()

	quote := &repository.Quote{
		TaskID:         taskID,
		SupplierID:     supplierID,
		UnitPrice:      parsed.UnitPrice,
		DeliveryDays:   parsed.DeliveryDays,
		StockAvailable: parsed.StockAvailable,
		RoundNumber:    0,
		RawText:        rawText,
	}
	if parsed.UnitPrice != nil {
		total := parsed.UnitPrice.Mul(decimal.NewFromInt(int64(task.Quantity)))
		quote.TotalPrice = &total
	}
	if len(parsed.Conditions) > 0 {
		notes := strings.Join(parsed.Conditions, "; ")
		quote.Notes = &notes
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("task_id", taskID).
		Str("supplier_id", supplierID).
		Str("outcome", outcome).
		Msg("quotes: supplier quote recorded")
	return quote, nil
}

// GetQuoteSummary builds the comparison view over a task's latest quote per
// supplier.
func (s *QuoteService) GetQuoteSummary(ctx context.Context, taskID string) (*QuoteSummary, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	quotes, err := s.quoteRepo.LatestPerSupplier(ctx, taskID)
	if err != nil {
		return nil, err
	}

	summary := summarizeQuotes(quotes)
	summary.TaskID = taskID
	return summary, nil
}

// DetectPriceSpikes compares the task's latest quotes against the 30-day
// historical average for the same medicine and flags sharp increases.
func (s *QuoteService) DetectPriceSpikes(ctx context.Context, taskID string) ([]PriceSpike, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	history, err := s.quoteRepo.HistoricalUnitPrices(ctx, task.MedicineName, time.Now().Add(-spikeWindow), taskID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}

	quotes, err := s.quoteRepo.LatestPerSupplier(ctx, taskID)
	if err != nil {
		return nil, err
	}

	avg := averagePrice(history)
	var spikes []PriceSpike
	for _, q := range quotes {
		if q.UnitPrice == nil {
			continue
		}
		pct, ok := spikePct(*q.UnitPrice, avg)
		if !ok {
			continue
		}
		spike := PriceSpike{
			SupplierID:    q.SupplierID,
			QuoteID:       q.ID,
			UnitPrice:     *q.UnitPrice,
			HistoricalAvg: avg,
			IncreasePct:   pct,
			SampleSize:    len(history),
		}
		spikes = append(spikes, spike)

		s.events.Publish("price_spike_detected", taskID, q.SupplierID, "", map[string]interface{}{
			"unit_price":     q.UnitPrice.String(),
			"historical_avg": avg.String(),
			"increase_pct":   pct,
		})
		s.log.Warn().
			Str("task_id", taskID).
			Str("supplier_id", q.SupplierID).
			Float64("increase_pct", pct).
			Msg("quotes: price spike detected")
	}
	return spikes, nil
}

// ShouldStartNegotiation reports whether the task has enough quotes to move
// to the negotiation phase: at least two, or at least one once the collection
// window has expired.
func (s *QuoteService) ShouldStartNegotiation(ctx context.Context, taskID string, collectionExpired bool) (bool, string, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return false, "", err
	}
	quotes, err := s.quoteRepo.LatestPerSupplier(ctx, taskID)
	if err != nil {
		return false, "", err
	}

	ok, reason := negotiationGate(len(quotes), collectionExpired)
	return ok, reason, nil
}

// ── pure helpers ──────────────────────────────────────────────────────────────

func summarizeQuotes(quotes []*repository.Quote) *QuoteSummary {
	summary := &QuoteSummary{TotalSuppliers: len(quotes)}

	var sum decimal.Decimal
	var minPrice, maxPrice *decimal.Decimal
	for _, q := range quotes {
		if q.DeliveryDays != nil {
			if summary.Fastest == nil || *q.DeliveryDays < *summary.Fastest.DeliveryDays {
				summary.Fastest = quoteRef(q)
			}
		}
		if q.UnitPrice == nil {
			continue
		}
		summary.PricedQuotes++
		sum = sum.Add(*q.UnitPrice)
		if minPrice == nil || q.UnitPrice.LessThan(*minPrice) {
			p := *q.UnitPrice
			minPrice = &p
			summary.Cheapest = quoteRef(q)
		}
		if maxPrice == nil || q.UnitPrice.GreaterThan(*maxPrice) {
			p := *q.UnitPrice
			maxPrice = &p
		}
	}

	if summary.PricedQuotes > 0 {
		avg := sum.Div(decimal.NewFromInt(int64(summary.PricedQuotes))).Round(4)
		summary.AverageUnitPrice = &avg
	}
	if minPrice != nil && maxPrice != nil && minPrice.IsPositive() {
		spread, _ := maxPrice.Sub(*minPrice).Div(*minPrice).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		summary.PriceSpreadPct = &spread
	}
	return summary
}

func quoteRef(q *repository.Quote) *QuoteRef {
	return &QuoteRef{
		SupplierID:   q.SupplierID,
		QuoteID:      q.ID,
		UnitPrice:    q.UnitPrice,
		DeliveryDays: q.DeliveryDays,
	}
}

func averagePrice(prices []decimal.Decimal) decimal.Decimal {
	if len(prices) == 0 {
		return decimal.Zero
	}
	var sum decimal.Decimal
	for _, p := range prices {
		sum = sum.Add(p)
	}
	return sum.Div(decimal.NewFromInt(int64(len(prices)))).Round(4)
}

// spikePct returns the percent increase over the historical average when it
// exceeds the spike threshold.
func spikePct(price, avg decimal.Decimal) (float64, bool) {
	if !avg.IsPositive() {
		return 0, false
	}
	increase := price.Sub(avg).Div(avg)
	if increase.InexactFloat64() <= spikeThreshold {
		return 0, false
	}
	pct, _ := increase.Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return pct, true
}

func negotiationGate(quoteCount int, collectionExpired bool) (bool, string) {
	switch {
	case quoteCount >= 2:
		return true, "enough quotes to compare"
	case collectionExpired && quoteCount >= 1:
		return true, "collection window expired with at least one quote"
	case collectionExpired:
		return false, "collection window expired with no quotes"
	default:
		return false, "waiting for more quotes"
	}
}
