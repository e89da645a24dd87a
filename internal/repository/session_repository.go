package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pharmaflow/be-procurement/internal/database"
	"github.com/pharmaflow/be-procurement/internal/errors"
)

// SessionRepository manages negotiation sessions. Session + opening round are
// always created together in a single transaction.
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateWithRound inserts a session and its first round in one transaction.
// A nil round creates a session that is already terminal (skip on round 1).
func (r *SessionRepository) CreateWithRound(ctx context.Context, sess *NegotiationSession, round *NegotiationRound) error {
	return r.db.InTransaction(ctx, func(tx pgx.Tx) error {
		sessQuery := `
			INSERT INTO negotiation_sessions
			    (task_id, supplier_id, status, current_round, max_rounds, final_quote_id, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(ctx, sessQuery,
			sess.TaskID,
			sess.SupplierID,
			sess.Status,
			sess.CurrentRound,
			sess.MaxRounds,
			sess.FinalQuoteID,
			sess.CompletedAt,
		).Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to create negotiation session")
		}

		if round == nil {
			return nil
		}

		round.SessionID = sess.ID
		round.TaskID = sess.TaskID
		round.SupplierID = sess.SupplierID
		return insertRound(ctx, tx, round)
	})
}

// GetByTaskAndSupplier returns the session for a (task, supplier) pair, or
// nil when negotiation was never started for that supplier.
func (r *SessionRepository) GetByTaskAndSupplier(ctx context.Context, taskID, supplierID string) (*NegotiationSession, error) {
	query := selectSession + `
		WHERE task_id = $1 AND supplier_id = $2
	`

	sess, err := r.scanSession(r.db.QueryRow(ctx, query, taskID, supplierID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get negotiation session")
	}
	return sess, nil
}

// ListByTask returns all sessions for a task.
func (r *SessionRepository) ListByTask(ctx context.Context, taskID string) ([]*NegotiationSession, error) {
	query := selectSession + `
		WHERE task_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list negotiation sessions")
	}
	defer rows.Close()

	var sessions []*NegotiationSession
	for rows.Next() {
		sess, err := r.scanSession(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan negotiation session")
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// CountNonTerminal returns the number of sessions still negotiating for a
// task. Scoring is only allowed when this is zero.
func (r *SessionRepository) CountNonTerminal(ctx context.Context, taskID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM negotiation_sessions
		WHERE task_id = $1
		  AND status NOT IN ('ACCEPTED', 'COMPLETED', 'TIMED_OUT', 'ABANDONED')
	`

	var count int
	if err := r.db.QueryRow(ctx, query, taskID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "failed to count non-terminal sessions")
	}
	return count, nil
}

// UpdateStatus sets the session status and current round, stamping
// completed_at when the new status is terminal.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, status SessionStatus, currentRound int) error {
	var completedAt *time.Time
	if status.Terminal() {
		now := time.Now().UTC()
		completedAt = &now
	}

	query := `
		UPDATE negotiation_sessions
		SET status        = $2,
		    current_round = $3,
		    completed_at  = COALESCE($4, completed_at),
		    updated_at    = NOW()
		WHERE id = $1
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRow(ctx, query, id, status, currentRound, completedAt).Scan(&returnedID)
	if err == pgx.ErrNoRows {
		return errors.NotFound("negotiation_session", id)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to update session status")
	}
	return nil
}

// Finalize marks a session terminal with its final quote and realized savings.
func (r *SessionRepository) Finalize(ctx context.Context, id string, status SessionStatus, finalQuoteID *string, savings *decimal.Decimal) error {
	query := `
		UPDATE negotiation_sessions
		SET status         = $2,
		    final_quote_id = COALESCE($3, final_quote_id),
		    savings_amount = $4,
		    completed_at   = NOW(),
		    updated_at     = NOW()
		WHERE id = $1
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRow(ctx, query, id, status, finalQuoteID, savings).Scan(&returnedID)
	if err == pgx.ErrNoRows {
		return errors.NotFound("negotiation_session", id)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to finalize session")
	}
	return nil
}

// ── scan helper ───────────────────────────────────────────────────────────────

const selectSession = `
	SELECT id, task_id, supplier_id, status, current_round, max_rounds,
	       final_quote_id, savings_amount, created_at, updated_at, completed_at
	FROM negotiation_sessions`

type sessionScanner interface {
	Scan(dest ...any) error
}

func (r *SessionRepository) scanSession(row sessionScanner) (*NegotiationSession, error) {
	sess := &NegotiationSession{}
	err := row.Scan(
		&sess.ID,
		&sess.TaskID,
		&sess.SupplierID,
		&sess.Status,
		&sess.CurrentRound,
		&sess.MaxRounds,
		&sess.FinalQuoteID,
		&sess.SavingsAmount,
		&sess.CreatedAt,
		&sess.UpdatedAt,
		&sess.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return sess, nil
}
