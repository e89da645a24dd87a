package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pharmaflow/be-procurement/internal/database"
	"github.com/pharmaflow/be-procurement/internal/errors"
)

// RoundRepository handles reads and updates on individual negotiation rounds.
// Round 1 creation is handled by SessionRepository.CreateWithRound
// (transactionally); later rounds are appended here.
type RoundRepository struct {
	db *database.DB
}

// NewRoundRepository creates a new RoundRepository.
func NewRoundRepository(db *database.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

// Append inserts a follow-up round. The partial unique index on
// (session_id) WHERE status = 'PENDING' backs up the application-level
// single-flight guarantee.
func (r *RoundRepository) Append(ctx context.Context, round *NegotiationRound) error {
	return r.db.InTransaction(ctx, func(tx pgx.Tx) error {
		return insertRound(ctx, tx, round)
	})
}

func insertRound(ctx context.Context, tx pgx.Tx, round *NegotiationRound) error {
	query := `
		INSERT INTO negotiation_rounds
		    (session_id, task_id, supplier_id, round_number,
		     strategy, outbound_message, counter_price,
		     target_delivery_days, discount_pct, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		round.SessionID,
		round.TaskID,
		round.SupplierID,
		round.RoundNumber,
		round.Strategy,
		round.OutboundMessage,
		round.CounterPrice,
		round.TargetDeliveryDays,
		round.DiscountPct,
		round.Status,
	).Scan(&round.ID, &round.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create negotiation round")
	}
	return nil
}

// GetPending returns the single PENDING round of a session, or nil.
func (r *RoundRepository) GetPending(ctx context.Context, sessionID string) (*NegotiationRound, error) {
	query := selectRound + `
		WHERE session_id = $1 AND status = 'PENDING'
	`

	round, err := r.scanRound(r.db.QueryRow(ctx, query, sessionID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get pending round")
	}
	return round, nil
}

// GetBySessionAndNumber returns one round of a session by number.
func (r *RoundRepository) GetBySessionAndNumber(ctx context.Context, sessionID string, roundNumber int) (*NegotiationRound, error) {
	query := selectRound + `
		WHERE session_id = $1 AND round_number = $2
	`

	round, err := r.scanRound(r.db.QueryRow(ctx, query, sessionID, roundNumber))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("negotiation_round", sessionID)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get negotiation round")
	}
	return round, nil
}

// ListBySession returns all rounds of a session ordered by round_number.
func (r *RoundRepository) ListBySession(ctx context.Context, sessionID string) ([]*NegotiationRound, error) {
	query := selectRound + `
		WHERE session_id = $1
		ORDER BY round_number ASC
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list rounds")
	}
	defer rows.Close()

	var rounds []*NegotiationRound
	for rows.Next() {
		round, err := r.scanRound(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan round")
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// AttachReply marks a PENDING round RESPONDED and links the extracted quote.
func (r *RoundRepository) AttachReply(ctx context.Context, roundID, quoteID string) error {
	query := `
		UPDATE negotiation_rounds
		SET status       = 'RESPONDED',
		    quote_id     = $2,
		    responded_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRow(ctx, query, roundID, quoteID).Scan(&returnedID)
	if err == pgx.ErrNoRows {
		return errors.New(errors.ErrCodeConflict, "round is not pending")
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to attach reply to round")
	}
	return nil
}

// UpdateStatus sets a round's status (TIMED_OUT, ABANDONED).
func (r *RoundRepository) UpdateStatus(ctx context.Context, roundID string, status RoundStatus) error {
	query := `
		UPDATE negotiation_rounds
		SET status = $2
		WHERE id = $1
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRow(ctx, query, roundID, status).Scan(&returnedID)
	if err == pgx.ErrNoRows {
		return errors.NotFound("negotiation_round", roundID)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to update round status")
	}
	return nil
}

// AbandonPendingForTask marks every PENDING round of a task ABANDONED.
// Used when a task is aborted; no other side effects.
func (r *RoundRepository) AbandonPendingForTask(ctx context.Context, taskID string) (int64, error) {
	query := `
		UPDATE negotiation_rounds
		SET status = 'ABANDONED'
		WHERE task_id = $1 AND status = 'PENDING'
	`

	affected, err := r.db.Exec(ctx, query, taskID)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "failed to abandon pending rounds")
	}
	return affected, nil
}

// ── scan helper ───────────────────────────────────────────────────────────────

const selectRound = `
	SELECT id, session_id, task_id, supplier_id, round_number,
	       strategy, outbound_message, counter_price,
	       target_delivery_days, discount_pct, quote_id, status,
	       created_at, responded_at
	FROM negotiation_rounds`

type roundScanner interface {
	Scan(dest ...any) error
}

func (r *RoundRepository) scanRound(row roundScanner) (*NegotiationRound, error) {
	round := &NegotiationRound{}
	err := row.Scan(
		&round.ID,
		&round.SessionID,
		&round.TaskID,
		&round.SupplierID,
		&round.RoundNumber,
		&round.Strategy,
		&round.OutboundMessage,
		&round.CounterPrice,
		&round.TargetDeliveryDays,
		&round.DiscountPct,
		&round.QuoteID,
		&round.Status,
		&round.CreatedAt,
		&round.RespondedAt,
	)
	if err != nil {
		return nil, err
	}
	return round, nil
}
