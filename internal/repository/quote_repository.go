package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pharmaflow/be-procurement/internal/database"
	"github.com/pharmaflow/be-procurement/internal/errors"
)

// QuoteRepository stores immutable supplier quotes. A new negotiation round
// always inserts a new row; quotes are never updated in place.
type QuoteRepository struct {
	db *database.DB
}

// NewQuoteRepository creates a new QuoteRepository.
func NewQuoteRepository(db *database.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Create inserts a quote.
func (r *QuoteRepository) Create(ctx context.Context, q *Quote) error {
	query := `
		INSERT INTO quotes
		    (task_id, supplier_id, unit_price, total_price,
		     delivery_days, stock_available, round_number, notes, raw_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		q.TaskID,
		q.SupplierID,
		q.UnitPrice,
		q.TotalPrice,
		q.DeliveryDays,
		q.StockAvailable,
		q.RoundNumber,
		q.Notes,
		q.RawText,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create quote")
	}
	return nil
}

// GetByID retrieves a quote by its primary key.
func (r *QuoteRepository) GetByID(ctx context.Context, id string) (*Quote, error) {
	query := selectQuote + ` WHERE id = $1`

	q, err := r.scanQuote(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("quote", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get quote")
	}
	return q, nil
}

// ListByTask returns all quotes for a task, oldest first.
func (r *QuoteRepository) ListByTask(ctx context.Context, taskID string) ([]*Quote, error) {
	query := selectQuote + `
		WHERE task_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list quotes")
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// LatestPerSupplier returns each supplier's most recent quote for a task.
// This is the snapshot used for fresh best-competitor-price reads and for
// final scoring.
func (r *QuoteRepository) LatestPerSupplier(ctx context.Context, taskID string) ([]*Quote, error) {
	query := `
		SELECT DISTINCT ON (supplier_id)
		       id, task_id, supplier_id, unit_price, total_price,
		       delivery_days, stock_available, round_number, notes, raw_text, created_at
		FROM quotes
		WHERE task_id = $1
		ORDER BY supplier_id, round_number DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list latest quotes")
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// HistoricalUnitPrices returns priced quotes for a medicine since the given
// time, excluding one task. Feeds price spike detection.
func (r *QuoteRepository) HistoricalUnitPrices(ctx context.Context, medicineName string, since time.Time, excludeTaskID string) ([]decimal.Decimal, error) {
	query := `
		SELECT q.unit_price
		FROM quotes q
		JOIN procurement_tasks t ON t.id = q.task_id
		WHERE t.medicine_name = $1
		  AND q.created_at >= $2
		  AND q.task_id != $3
		  AND q.unit_price IS NOT NULL
	`

	rows, err := r.db.Query(ctx, query, medicineName, since, excludeTaskID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to query historical prices")
	}
	defer rows.Close()

	var prices []decimal.Decimal
	for rows.Next() {
		var p decimal.Decimal
		if err := rows.Scan(&p); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan historical price")
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// ── scan helpers ──────────────────────────────────────────────────────────────

const selectQuote = `
	SELECT id, task_id, supplier_id, unit_price, total_price,
	       delivery_days, stock_available, round_number, notes, raw_text, created_at
	FROM quotes`

type quoteScanner interface {
	Scan(dest ...any) error
}

func (r *QuoteRepository) scanQuote(row quoteScanner) (*Quote, error) {
	q := &Quote{}
	err := row.Scan(
		&q.ID,
		&q.TaskID,
		&q.SupplierID,
		&q.UnitPrice,
		&q.TotalPrice,
		&q.DeliveryDays,
		&q.StockAvailable,
		&q.RoundNumber,
		&q.Notes,
		&q.RawText,
		&q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuoteRepository) scanRows(rows pgx.Rows) ([]*Quote, error) {
	var quotes []*Quote
	for rows.Next() {
		q, err := r.scanQuote(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan quote")
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}
