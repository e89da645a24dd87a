package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/pharmaflow/be-procurement/internal/client"
	"github.com/pharmaflow/be-procurement/internal/decision"
	"github.com/pharmaflow/be-procurement/internal/errors"
	"github.com/pharmaflow/be-procurement/internal/metrics"
	"github.com/pharmaflow/be-procurement/internal/repository"
	"github.com/pharmaflow/be-procurement/internal/scoring"
)

// DecisionResult is the outcome of finalizing a task.
type DecisionResult struct {
	TaskID           string                      `json:"task_id"`
	WinnerSupplierID string                      `json:"winner_supplier_id"`
	Scenario         string                      `json:"scenario"`
	Reasoning        string                      `json:"reasoning"`
	Ranking          []decision.Ranked           `json:"ranking"`
	Scores           []*repository.SupplierScore `json:"scores,omitempty"`
}

// DecisionService scores finalized quotes and selects the winning supplier.
type DecisionService struct {
	taskRepo    *repository.TaskRepository
	quoteRepo   *repository.QuoteRepository
	sessionRepo *repository.SessionRepository
	scoreRepo   *repository.ScoreRepository
	auditRepo   *repository.AuditRepository
	reliability client.ReliabilityClientInterface
	composer    client.ComposerClientInterface
	events      EventPublisherInterface
	profiles    scoring.Profiles
	log         zerolog.Logger
}

// NewDecisionService creates a new DecisionService.
func NewDecisionService(
	taskRepo *repository.TaskRepository,
	quoteRepo *repository.QuoteRepository,
	sessionRepo *repository.SessionRepository,
	scoreRepo *repository.ScoreRepository,
	auditRepo *repository.AuditRepository,
	reliability client.ReliabilityClientInterface,
	composer client.ComposerClientInterface,
	events EventPublisherInterface,
	profiles scoring.Profiles,
	log zerolog.Logger,
) *DecisionService {
	return &DecisionService{
		taskRepo:    taskRepo,
		quoteRepo:   quoteRepo,
		sessionRepo: sessionRepo,
		scoreRepo:   scoreRepo,
		auditRepo:   auditRepo,
		reliability: reliability,
		composer:    composer,
		events:      events,
		profiles:    profiles,
		log:         log,
	}
}

// FinalizeAndDecide scores every supplier's final quote and selects the
// winner. All negotiation sessions of the task must be terminal; re-deciding
// a task replaces its previous scores.
func (s *DecisionService) FinalizeAndDecide(ctx context.Context, taskID string) (*DecisionResult, error) {
	timer := prometheus.NewTimer(metrics.DecisionDuration)
	defer timer.ObserveDuration()

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == repository.TaskStatusAborted {
		return nil, errors.New(errors.ErrCodeConflict, "task is aborted")
	}

	open, err := s.sessionRepo.CountNonTerminal(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, errors.Newf(errors.ErrCodeConflict, "%d negotiation sessions are still open", open)
	}

	candidates, err := s.collectCandidates(ctx, task)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		metrics.DecisionsMade.WithLabelValues("no_eligible_supplier").Inc()
		return nil, errors.New(errors.ErrCodeNoEligibleSupplier,
			"no supplier quote has both a price and a delivery time")
	}

	scenario := scoring.Scenario{Urgency: task.Urgency, BudgetConstrained: task.BudgetConstrained}
	weights := s.profiles.For(scenario)
	scores, err := scoring.Compute(candidates, weights, task.Quantity)
	if err != nil {
		metrics.DecisionsMade.WithLabelValues("error").Inc()
		return nil, err
	}

	result, err := decision.Select(scores, candidates)
	if err != nil {
		metrics.DecisionsMade.WithLabelValues("error").Inc()
		return nil, err
	}

	reasoning := s.explain(ctx, task, scenario, result)

	rows := make([]*repository.SupplierScore, 0, len(result.Ranking))
	for _, ranked := range result.Ranking {
		row := &repository.SupplierScore{
			TaskID:           taskID,
			SupplierID:       ranked.SupplierID,
			QuoteID:          ranked.QuoteID,
			PriceScore:       ranked.Score.Price,
			SpeedScore:       ranked.Score.Speed,
			ReliabilityScore: ranked.Score.Reliability,
			StockScore:       ranked.Score.Stock,
			PriceWeight:      weights.Price,
			SpeedWeight:      weights.Speed,
			ReliabilityWt:    weights.Reliability,
			StockWeight:      weights.Stock,
			TotalScore:       ranked.Score.Total,
			Rank:             ranked.Rank,
			Scenario:         scenario.Name(),
		}
		if ranked.SupplierID == result.WinnerSupplierID {
			row.Explanation = &reasoning
		}
		rows = append(rows, row)
	}
	if err := s.scoreRepo.ReplaceForTask(ctx, taskID, rows); err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetDecision(ctx, taskID, result.WinnerSupplierID, reasoning); err != nil {
		return nil, err
	}

	metrics.DecisionsMade.WithLabelValues("selected").Inc()
	s.events.Publish("decision_made", taskID, result.WinnerSupplierID, "", map[string]interface{}{
		"scenario":  scenario.Name(),
		"suppliers": len(result.Ranking),
	})
	s.auditDecision(ctx, taskID, result.WinnerSupplierID, scenario.Name())

	s.log.Info().
		Str("task_id", taskID).
		Str("winner_supplier_id", result.WinnerSupplierID).
		Str("scenario", scenario.Name()).
		Int("candidates", len(candidates)).
		Msg("decision: winner selected")

	return &DecisionResult{
		TaskID:           taskID,
		WinnerSupplierID: result.WinnerSupplierID,
		Scenario:         scenario.Name(),
		Reasoning:        reasoning,
		Ranking:          result.Ranking,
		Scores:           rows,
	}, nil
}

// GetDecision returns the stored decision of a task.
func (s *DecisionService) GetDecision(ctx context.Context, taskID string) (*DecisionResult, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != repository.TaskStatusDecided || task.WinnerSupplierID == nil {
		return nil, errors.NotFound("decision", taskID)
	}

	scores, err := s.scoreRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	result := &DecisionResult{
		TaskID:           taskID,
		WinnerSupplierID: *task.WinnerSupplierID,
		Scores:           scores,
	}
	if task.DecisionReasoning != nil {
		result.Reasoning = *task.DecisionReasoning
	}
	if len(scores) > 0 {
		result.Scenario = scores[0].Scenario
	}
	return result, nil
}

// collectCandidates loads each supplier's final quote and reliability score.
// Quotes missing price or delivery are not competitive and are left out.
func (s *DecisionService) collectCandidates(ctx context.Context, task *repository.ProcurementTask) ([]scoring.Candidate, error) {
	quotes, err := s.quoteRepo.LatestPerSupplier(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	candidates := make([]scoring.Candidate, 0, len(quotes))
	for _, q := range quotes {
		if q.Insufficient() {
			s.log.Debug().
				Str("task_id", task.ID).
				Str("supplier_id", q.SupplierID).
				Msg("decision: quote excluded, missing price or delivery")
			continue
		}

		reliability, err := s.reliability.GetSupplierReliability(ctx, q.SupplierID)
		if err != nil {
			s.log.Warn().Err(err).
				Str("supplier_id", q.SupplierID).
				Msg("decision: reliability lookup failed, using neutral default")
			reliability = nil
		}

		candidates = append(candidates, scoring.Candidate{
			SupplierID:     q.SupplierID,
			QuoteID:        q.ID,
			UnitPrice:      *q.UnitPrice,
			DeliveryDays:   *q.DeliveryDays,
			StockAvailable: q.StockAvailable,
			Reliability:    reliability,
		})
	}
	return candidates, nil
}

// explain asks the composer for a narrative explanation, falling back to a
// deterministic summary of the breakdown.
func (s *DecisionService) explain(ctx context.Context, task *repository.ProcurementTask, scenario scoring.Scenario, result *decision.Result) string {
	req := client.ExplainDecisionRequest{
		TaskID:       task.ID,
		MedicineName: task.MedicineName,
		WinnerID:     result.WinnerSupplierID,
		Scenario:     scenario.Name(),
	}
	for _, ranked := range result.Ranking {
		req.Ranking = append(req.Ranking, client.RankedSupplier{
			Rank:         ranked.Rank,
			SupplierID:   ranked.SupplierID,
			UnitPrice:    ranked.UnitPrice.StringFixed(2),
			DeliveryDays: ranked.DeliveryDays,
			TotalScore:   ranked.Score.Total,
		})
	}

	explanation, err := s.composer.ExplainDecision(ctx, req)
	if err != nil || explanation == "" {
		if err != nil {
			s.log.Warn().Err(err).
				Str("task_id", task.ID).
				Msg("decision: composer unavailable, using fallback explanation")
		}
		return fallbackExplanation(task, scenario, result)
	}
	return explanation
}

func (s *DecisionService) auditDecision(ctx context.Context, taskID, winnerID, scenario string) {
	entry := &repository.AuditEntry{
		TaskID:      taskID,
		SupplierID:  &winnerID,
		Action:      "decision_made",
		PerformedBy: "system",
		Metadata:    map[string]any{"scenario": scenario},
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).
			Str("task_id", taskID).
			Msg("decision: failed to write audit entry (non-fatal)")
	}
}

func fallbackExplanation(task *repository.ProcurementTask, scenario scoring.Scenario, result *decision.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s selected for %d units of %s (%s weighting): total score %.2f at %s/unit, %d day delivery.",
		result.Winner.SupplierID, task.Quantity, task.MedicineName, scenario.Name(),
		result.Winner.Score.Total, result.Winner.UnitPrice.StringFixed(2), result.Winner.DeliveryDays)
	if len(result.Ranking) > 1 {
		runnerUp := result.Ranking[1]
		fmt.Fprintf(&b, " Runner-up %s scored %.2f.", runnerUp.SupplierID, runnerUp.Score.Total)
	}
	return b.String()
}
