package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pharmaflow/be-procurement/internal/client"
	"github.com/pharmaflow/be-procurement/internal/errors"
	"github.com/pharmaflow/be-procurement/internal/extract"
	"github.com/pharmaflow/be-procurement/internal/metrics"
	"github.com/pharmaflow/be-procurement/internal/negotiation"
	"github.com/pharmaflow/be-procurement/internal/repository"
)

// EventPublisherInterface publishes negotiation lifecycle events. Publishing
// is fire-and-forget; implementations never return errors to the caller.
type EventPublisherInterface interface {
	Publish(eventType, taskID, supplierID, sessionID string, payload map[string]interface{})
}

// SessionDetail is a session with its rounds, for status views.
type SessionDetail struct {
	Session *repository.NegotiationSession `json:"session"`
	Rounds  []*repository.NegotiationRound `json:"rounds"`
}

// NegotiationService orchestrates per-supplier negotiation sessions: opening
// rounds, processing replies, timeouts and aborts. Strategy selection itself
// lives in the negotiation package; this service wires it to storage, the
// message composer and the event stream.
type NegotiationService struct {
	taskRepo    *repository.TaskRepository
	quoteRepo   *repository.QuoteRepository
	sessionRepo *repository.SessionRepository
	roundRepo   *repository.RoundRepository
	auditRepo   *repository.AuditRepository
	composer    client.ComposerClientInterface
	directory   client.DirectoryClientInterface
	events      EventPublisherInterface
	cfg         negotiation.Config
	log         zerolog.Logger
}

// NewNegotiationService creates a new NegotiationService.
func NewNegotiationService(
	taskRepo *repository.TaskRepository,
	quoteRepo *repository.QuoteRepository,
	sessionRepo *repository.SessionRepository,
	roundRepo *repository.RoundRepository,
	auditRepo *repository.AuditRepository,
	composer client.ComposerClientInterface,
	directory client.DirectoryClientInterface,
	events EventPublisherInterface,
	cfg negotiation.Config,
	log zerolog.Logger,
) *NegotiationService {
	return &NegotiationService{
		taskRepo:    taskRepo,
		quoteRepo:   quoteRepo,
		sessionRepo: sessionRepo,
		roundRepo:   roundRepo,
		auditRepo:   auditRepo,
		composer:    composer,
		directory:   directory,
		events:      events,
		cfg:         cfg,
		log:         log,
	}
}

// ── Session opening ───────────────────────────────────────────────────────────

// StartNegotiations evaluates every supplier's latest quote and opens round 1
// where a strategy applies. Suppliers whose quote needs no negotiation get a
// session that is terminal immediately, with their current quote as final.
// Suppliers that already have a session are left untouched.
func (s *NegotiationService) StartNegotiations(ctx context.Context, taskID string) ([]*repository.NegotiationSession, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == repository.TaskStatusDecided || task.Status == repository.TaskStatusAborted {
		return nil, errors.Newf(errors.ErrCodeConflict, "task is %s", task.Status)
	}

	quotes, err := s.quoteRepo.LatestPerSupplier(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, errors.InvalidInput("task_id", "task has no quotes to negotiate")
	}

	var sessions []*repository.NegotiationSession
	for _, quote := range quotes {
		existing, err := s.sessionRepo.GetByTaskAndSupplier(ctx, taskID, quote.SupplierID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		best := negotiation.BestCompetitorPrice(quotes, quote.SupplierID)
		ask := negotiation.Evaluate(negotiation.Input{
			Quote:               quote,
			BestCompetitorPrice: best,
			Urgency:             task.Urgency,
			Quantity:            task.Quantity,
			NextRound:           1,
		}, s.cfg)

		sess, err := s.openSession(ctx, task, quote, ask)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if task.Status == repository.TaskStatusCollecting {
		if err := s.taskRepo.UpdateStatus(ctx, taskID, repository.TaskStatusNegotiating); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Str("task_id", taskID).
		Int("sessions_opened", len(sessions)).
		Msg("negotiation: sessions started")
	return sessions, nil
}

func (s *NegotiationService) openSession(ctx context.Context, task *repository.ProcurementTask, quote *repository.Quote, ask negotiation.Ask) (*repository.NegotiationSession, error) {
	sess := &repository.NegotiationSession{
		TaskID:     task.ID,
		SupplierID: quote.SupplierID,
		MaxRounds:  s.cfg.MaxRounds,
	}

	if ask.Strategy == repository.StrategySkip {
		sess.Status = repository.SessionCompleted
		sess.CurrentRound = 0
		sess.FinalQuoteID = &quote.ID
		if err := s.sessionRepo.CreateWithRound(ctx, sess, nil); err != nil {
			return nil, err
		}
		metrics.SessionsTerminal.WithLabelValues(string(sess.Status)).Inc()
		s.events.Publish("session_completed", task.ID, quote.SupplierID, sess.ID, map[string]interface{}{
			"reason": ask.Reason,
		})
		s.audit(ctx, task.ID, &quote.SupplierID, "session_completed_without_negotiation", map[string]any{
			"reason": ask.Reason,
		})
		return sess, nil
	}

	round := &repository.NegotiationRound{
		RoundNumber:        1,
		Strategy:           ask.Strategy,
		OutboundMessage:    s.composeRoundMessage(ctx, task, quote.SupplierID, 1, ask),
		CounterPrice:       ask.CounterPrice,
		TargetDeliveryDays: ask.TargetDeliveryDays,
		DiscountPct:        ask.DiscountPct,
		Status:             repository.RoundPending,
	}
	sess.Status = repository.SessionAwaitingReply
	sess.CurrentRound = 1

	if err := s.sessionRepo.CreateWithRound(ctx, sess, round); err != nil {
		return nil, err
	}

	metrics.RoundsOpened.WithLabelValues(string(ask.Strategy)).Inc()
	s.events.Publish("round_opened", task.ID, quote.SupplierID, sess.ID, map[string]interface{}{
		"round_number": 1,
		"strategy":     string(ask.Strategy),
	})
	s.audit(ctx, task.ID, &quote.SupplierID, "round_opened", map[string]any{
		"round_number": 1,
		"strategy":     string(ask.Strategy),
		"reason":       ask.Reason,
	})
	return sess, nil
}

// ── Reply processing ──────────────────────────────────────────────────────────

// SubmitSupplierReply extracts a quote from a supplier's reply text, attaches
// it to the pending round and advances the session: acceptance or a follow-up
// strategy, or completion when nothing is left to ask.
func (s *NegotiationService) SubmitSupplierReply(ctx context.Context, taskID, supplierID string, roundNumber int, rawText string) (*repository.Quote, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessionRepo.GetByTaskAndSupplier(ctx, taskID, supplierID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.NotFound("negotiation_session", taskID+"/"+supplierID)
	}
	if sess.Status.Terminal() {
		return nil, errors.Newf(errors.ErrCodeConflict, "negotiation with supplier %s is already %s", supplierID, sess.Status)
	}

	pending, err := s.roundRepo.GetPending(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, errors.New(errors.ErrCodeConflict, "no round is awaiting a reply")
	}
	if pending.RoundNumber != roundNumber {
		return nil, errors.Newf(errors.ErrCodeConflict,
			"reply targets round %d but round %d is pending", roundNumber, pending.RoundNumber)
	}

	quote := s.extractQuote(task, supplierID, pending.RoundNumber, rawText)
	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}
	if err := s.roundRepo.AttachReply(ctx, pending.ID, quote.ID); err != nil {
		return nil, err
	}
	s.events.Publish("reply_received", taskID, supplierID, sess.ID, map[string]interface{}{
		"round_number": pending.RoundNumber,
		"quote_id":     quote.ID,
	})

	if err := s.advanceSession(ctx, task, sess, pending, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// advanceSession runs the state machine after a reply: accept, open the next
// round, or complete the session with the reply as its final quote.
func (s *NegotiationService) advanceSession(ctx context.Context, task *repository.ProcurementTask, sess *repository.NegotiationSession, answered *repository.NegotiationRound, reply *repository.Quote) error {
	if negotiation.Accepted(answered, reply) {
		return s.closeSession(ctx, task, sess, repository.SessionAccepted, reply, "counter-offer met")
	}

	// Competitor prices may have moved since the round was opened; always
	// re-read them before the next strategy decision.
	quotes, err := s.quoteRepo.LatestPerSupplier(ctx, task.ID)
	if err != nil {
		return err
	}
	rounds, err := s.roundRepo.ListBySession(ctx, sess.ID)
	if err != nil {
		return err
	}
	prior := make([]repository.Strategy, 0, len(rounds))
	for _, r := range rounds {
		prior = append(prior, r.Strategy)
	}

	ask := negotiation.Evaluate(negotiation.Input{
		Quote:               reply,
		BestCompetitorPrice: negotiation.BestCompetitorPrice(quotes, sess.SupplierID),
		Urgency:             task.Urgency,
		Quantity:            task.Quantity,
		NextRound:           answered.RoundNumber + 1,
		PriorStrategies:     prior,
	}, s.cfg)

	status := negotiation.StatusAfterReply(ask, false)
	if status != repository.SessionAwaitingReply {
		return s.closeSession(ctx, task, sess, status, reply, ask.Reason)
	}

	next := &repository.NegotiationRound{
		SessionID:          sess.ID,
		TaskID:             task.ID,
		SupplierID:         sess.SupplierID,
		RoundNumber:        answered.RoundNumber + 1,
		Strategy:           ask.Strategy,
		OutboundMessage:    s.composeRoundMessage(ctx, task, sess.SupplierID, answered.RoundNumber+1, ask),
		CounterPrice:       ask.CounterPrice,
		TargetDeliveryDays: ask.TargetDeliveryDays,
		DiscountPct:        ask.DiscountPct,
		Status:             repository.RoundPending,
	}
	if err := s.roundRepo.Append(ctx, next); err != nil {
		return err
	}
	if err := s.sessionRepo.UpdateStatus(ctx, sess.ID, repository.SessionAwaitingReply, next.RoundNumber); err != nil {
		return err
	}

	metrics.RoundsOpened.WithLabelValues(string(ask.Strategy)).Inc()
	s.events.Publish("round_opened", task.ID, sess.SupplierID, sess.ID, map[string]interface{}{
		"round_number": next.RoundNumber,
		"strategy":     string(ask.Strategy),
	})
	s.audit(ctx, task.ID, &sess.SupplierID, "round_opened", map[string]any{
		"round_number": next.RoundNumber,
		"strategy":     string(ask.Strategy),
		"reason":       ask.Reason,
	})
	return nil
}

// ── Timeouts and aborts ───────────────────────────────────────────────────────

// MarkRoundTimedOut freezes a session at its last known quote after the
// supplier failed to reply in time.
func (s *NegotiationService) MarkRoundTimedOut(ctx context.Context, taskID, supplierID string, roundNumber int) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	sess, err := s.sessionRepo.GetByTaskAndSupplier(ctx, taskID, supplierID)
	if err != nil {
		return err
	}
	if sess == nil {
		return errors.NotFound("negotiation_session", taskID+"/"+supplierID)
	}
	if sess.Status.Terminal() {
		return errors.Newf(errors.ErrCodeConflict, "negotiation with supplier %s is already %s", supplierID, sess.Status)
	}

	pending, err := s.roundRepo.GetPending(ctx, sess.ID)
	if err != nil {
		return err
	}
	if pending == nil || pending.RoundNumber != roundNumber {
		return errors.Newf(errors.ErrCodeConflict, "round %d is not pending", roundNumber)
	}
	if err := s.roundRepo.UpdateStatus(ctx, pending.ID, repository.RoundTimedOut); err != nil {
		return err
	}

	lastKnown, err := s.latestQuoteFor(ctx, taskID, supplierID)
	if err != nil {
		return err
	}
	return s.closeSession(ctx, task, sess, repository.SessionTimedOut, lastKnown, "supplier did not reply in time")
}

// RestartNegotiation reopens a timed-out session at the task owner's request.
// A fresh strategy is evaluated from the supplier's last known quote; if
// nothing is left to ask the session completes instead.
func (s *NegotiationService) RestartNegotiation(ctx context.Context, taskID, supplierID string) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	sess, err := s.sessionRepo.GetByTaskAndSupplier(ctx, taskID, supplierID)
	if err != nil {
		return err
	}
	if sess == nil {
		return errors.NotFound("negotiation_session", taskID+"/"+supplierID)
	}
	if sess.Status != repository.SessionTimedOut {
		return errors.Newf(errors.ErrCodeConflict,
			"only timed-out negotiations can be restarted (status: %s)", sess.Status)
	}

	pending, err := s.roundRepo.GetPending(ctx, sess.ID)
	if err != nil {
		return err
	}
	// Timed-out is the one terminal state an explicit restart may leave.
	reopened := *sess
	reopened.Status = repository.SessionNegotiating
	if err := negotiation.CanInitiateRound(&reopened, pending); err != nil {
		return err
	}

	lastKnown, err := s.latestQuoteFor(ctx, taskID, supplierID)
	if err != nil {
		return err
	}
	quotes, err := s.quoteRepo.LatestPerSupplier(ctx, taskID)
	if err != nil {
		return err
	}
	rounds, err := s.roundRepo.ListBySession(ctx, sess.ID)
	if err != nil {
		return err
	}
	prior := make([]repository.Strategy, 0, len(rounds))
	for _, r := range rounds {
		prior = append(prior, r.Strategy)
	}

	ask := negotiation.Evaluate(negotiation.Input{
		Quote:               lastKnown,
		BestCompetitorPrice: negotiation.BestCompetitorPrice(quotes, supplierID),
		Urgency:             task.Urgency,
		Quantity:            task.Quantity,
		NextRound:           sess.CurrentRound + 1,
		PriorStrategies:     prior,
	}, s.cfg)
	if ask.Strategy == repository.StrategySkip {
		return s.closeSession(ctx, task, sess, repository.SessionCompleted, lastKnown, ask.Reason)
	}

	next := &repository.NegotiationRound{
		SessionID:          sess.ID,
		TaskID:             taskID,
		SupplierID:         supplierID,
		RoundNumber:        sess.CurrentRound + 1,
		Strategy:           ask.Strategy,
		OutboundMessage:    s.composeRoundMessage(ctx, task, supplierID, sess.CurrentRound+1, ask),
		CounterPrice:       ask.CounterPrice,
		TargetDeliveryDays: ask.TargetDeliveryDays,
		DiscountPct:        ask.DiscountPct,
		Status:             repository.RoundPending,
	}
	if err := s.roundRepo.Append(ctx, next); err != nil {
		return err
	}
	if err := s.sessionRepo.UpdateStatus(ctx, sess.ID, repository.SessionAwaitingReply, next.RoundNumber); err != nil {
		return err
	}

	metrics.RoundsOpened.WithLabelValues(string(ask.Strategy)).Inc()
	s.events.Publish("round_opened", taskID, supplierID, sess.ID, map[string]interface{}{
		"round_number": next.RoundNumber,
		"strategy":     string(ask.Strategy),
		"restarted":    true,
	})
	s.audit(ctx, taskID, &supplierID, "negotiation_restarted", map[string]any{
		"round_number": next.RoundNumber,
		"strategy":     string(ask.Strategy),
	})
	return nil
}

// AbortTask abandons every pending round and non-terminal session of a task.
// No scoring, no decision; the task ends ABORTED.
func (s *NegotiationService) AbortTask(ctx context.Context, taskID string) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.Status == repository.TaskStatusDecided {
		return errors.New(errors.ErrCodeConflict, "task is already decided")
	}

	abandoned, err := s.roundRepo.AbandonPendingForTask(ctx, taskID)
	if err != nil {
		return err
	}

	sessions, err := s.sessionRepo.ListByTask(ctx, taskID)
	if err != nil {
		return err
	}
	for _, sess := range sessions {
		if sess.Status.Terminal() {
			continue
		}
		if err := s.sessionRepo.Finalize(ctx, sess.ID, repository.SessionAbandoned, nil, nil); err != nil {
			return err
		}
		metrics.SessionsTerminal.WithLabelValues(string(repository.SessionAbandoned)).Inc()
		s.events.Publish("session_abandoned", taskID, sess.SupplierID, sess.ID, nil)
	}

	if err := s.taskRepo.UpdateStatus(ctx, taskID, repository.TaskStatusAborted); err != nil {
		return err
	}

	s.audit(ctx, taskID, nil, "task_aborted", map[string]any{"rounds_abandoned": abandoned})
	s.log.Info().
		Str("task_id", taskID).
		Int64("rounds_abandoned", abandoned).
		Msg("negotiation: task aborted")
	return nil
}

// ── Status views ──────────────────────────────────────────────────────────────

// ListSessions returns every session of a task with its rounds.
func (s *NegotiationService) ListSessions(ctx context.Context, taskID string) ([]*SessionDetail, error) {
	sessions, err := s.sessionRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	details := make([]*SessionDetail, 0, len(sessions))
	for _, sess := range sessions {
		rounds, err := s.roundRepo.ListBySession(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, &SessionDetail{Session: sess, Rounds: rounds})
	}
	return details, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// closeSession marks a session terminal, records realized savings and emits
// the terminal event.
func (s *NegotiationService) closeSession(ctx context.Context, task *repository.ProcurementTask, sess *repository.NegotiationSession, status repository.SessionStatus, final *repository.Quote, reason string) error {
	var finalID *string
	var savings *decimal.Decimal
	if final != nil {
		finalID = &final.ID
		initial, err := s.initialQuoteFor(ctx, task.ID, sess.SupplierID)
		if err != nil {
			return err
		}
		savings = realizedSavings(initial, final, task.Quantity)
	}

	if err := s.sessionRepo.Finalize(ctx, sess.ID, status, finalID, savings); err != nil {
		return err
	}

	metrics.SessionsTerminal.WithLabelValues(string(status)).Inc()
	payload := map[string]interface{}{"reason": reason}
	if savings != nil {
		payload["savings"] = savings.String()
	}
	s.events.Publish("session_"+strings.ToLower(string(status)), task.ID, sess.SupplierID, sess.ID, payload)
	s.audit(ctx, task.ID, &sess.SupplierID, "session_"+strings.ToLower(string(status)), map[string]any{
		"reason": reason,
	})

	s.log.Info().
		Str("task_id", task.ID).
		Str("supplier_id", sess.SupplierID).
		Str("status", string(status)).
		Msg("negotiation: session closed")
	return nil
}

// extractQuote parses a reply into a structured quote. Fields the text does
// not state stay nil; nothing is ever guessed.
func (s *NegotiationService) extractQuote(task *repository.ProcurementTask, supplierID string, roundNumber int, rawText string) *repository.Quote {
	parsed := extract.Parse(rawText)

	outcome := "parsed"
	if parsed.Insufficient() {
		outcome = "insufficient"
	}
	metrics.RepliesParsed.WithLabelValues(outcome).Inc()

	quote := &repository.Quote{
		TaskID:         task.ID,
		SupplierID:     supplierID,
		UnitPrice:      parsed.UnitPrice,
		DeliveryDays:   parsed.DeliveryDays,
		StockAvailable: parsed.StockAvailable,
		RoundNumber:    roundNumber,
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
	return quote
}

// composeRoundMessage asks the composer service to draft the outbound message.
// Composer failures fall back to a plain summary of the ask so a round is
// never blocked on the collaborator.
func (s *NegotiationService) composeRoundMessage(ctx context.Context, task *repository.ProcurementTask, supplierID string, roundNumber int, ask negotiation.Ask) string {
	req := client.ComposeMessageRequest{
		TaskID:             task.ID,
		SupplierID:         supplierID,
		MedicineName:       task.MedicineName,
		Quantity:           task.Quantity,
		RoundNumber:        roundNumber,
		Strategy:           string(ask.Strategy),
		TargetDeliveryDays: ask.TargetDeliveryDays,
		DiscountPct:        ask.DiscountPct,
		Reason:             ask.Reason,
	}
	if ask.CounterPrice != nil {
		req.CounterPrice = ask.CounterPrice.String()
	}
	if supplier, err := s.directory.GetSupplier(ctx, supplierID); err == nil && supplier != nil {
		req.SupplierName = supplier.Name
	}

	msg, err := s.composer.ComposeMessage(ctx, req)
	if err != nil {
		s.log.Warn().Err(err).
			Str("task_id", task.ID).
			Str("supplier_id", supplierID).
			Msg("negotiation: composer unavailable, using fallback message")
		return fallbackMessage(task, ask)
	}
	return msg
}

// initialQuoteFor returns the supplier's oldest quote for a task.
func (s *NegotiationService) initialQuoteFor(ctx context.Context, taskID, supplierID string) (*repository.Quote, error) {
	quotes, err := s.quoteRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	for _, q := range quotes {
		if q.SupplierID == supplierID {
			return q, nil
		}
	}
	return nil, nil
}

// latestQuoteFor returns the supplier's most recent quote for a task, or nil.
func (s *NegotiationService) latestQuoteFor(ctx context.Context, taskID, supplierID string) (*repository.Quote, error) {
	quotes, err := s.quoteRepo.LatestPerSupplier(ctx, taskID)
	if err != nil {
		return nil, err
	}
	for _, q := range quotes {
		if q.SupplierID == supplierID {
			return q, nil
		}
	}
	return nil, nil
}

// audit writes an audit entry. Audit failures are logged, never propagated.
func (s *NegotiationService) audit(ctx context.Context, taskID string, supplierID *string, action string, metadata map[string]any) {
	entry := &repository.AuditEntry{
		TaskID:      taskID,
		SupplierID:  supplierID,
		Action:      action,
		PerformedBy: "system",
		Metadata:    metadata,
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).
			Str("task_id", taskID).
			Str("action", action).
			Msg("negotiation: failed to write audit entry (non-fatal)")
	}
}

// realizedSavings is (initial - final) unit price times quantity, floored at
// zero. Nil when either quote is unpriced.
func realizedSavings(initial, final *repository.Quote, quantity int) *decimal.Decimal {
	if initial == nil || final == nil || initial.UnitPrice == nil || final.UnitPrice == nil {
		return nil
	}
	diff := initial.UnitPrice.Sub(*final.UnitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	if diff.IsNegative() {
		diff = decimal.Zero
	}
	return &diff
}

func fallbackMessage(task *repository.ProcurementTask, ask negotiation.Ask) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Regarding our request for %d units of %s: ", task.Quantity, task.MedicineName)
	switch ask.Strategy {
	case repository.StrategyPriceMatch:
		fmt.Fprintf(&b, "we have received more competitive offers. Could you improve your unit price to %s or better?", ask.CounterPrice.StringFixed(2))
	case repository.StrategyExpedite:
		fmt.Fprintf(&b, "the quoted lead time does not meet our requirement. Could you deliver within %d days?", *ask.TargetDeliveryDays)
	case repository.StrategyBulkDiscount:
		fmt.Fprintf(&b, "given the order volume, could you offer a %.0f%% volume discount?", *ask.DiscountPct)
	default:
		b.WriteString("please confirm your current quote.")
	}
	return b.String()
}
