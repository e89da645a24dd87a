package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pharmaflow/be-procurement/internal/database"
	"github.com/pharmaflow/be-procurement/internal/errors"
)

// ScoreRepository persists supplier scoring results. Scores for a task are
// replaced wholesale on each finalize run so re-deciding is idempotent.
type ScoreRepository struct {
	db *database.DB
}

// NewScoreRepository creates a new ScoreRepository.
func NewScoreRepository(db *database.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// ReplaceForTask deletes any previous scores for the task and inserts the new
// set in one transaction.
func (r *ScoreRepository) ReplaceForTask(ctx context.Context, taskID string, scores []*SupplierScore) error {
	return r.db.InTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM supplier_scores WHERE task_id = $1`, taskID); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to clear previous scores")
		}

		query := `
			INSERT INTO supplier_scores
			    (task_id, supplier_id, quote_id,
			     price_score, speed_score, reliability_score, stock_score,
			     price_weight, speed_weight, reliability_weight, stock_weight,
			     total_score, rank, scenario, explanation)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id, created_at
		`

		for _, s := range scores {
			s.TaskID = taskID
			err := tx.QueryRow(ctx, query,
				s.TaskID,
				s.SupplierID,
				s.QuoteID,
				s.PriceScore,
				s.SpeedScore,
				s.ReliabilityScore,
				s.StockScore,
				s.PriceWeight,
				s.SpeedWeight,
				s.ReliabilityWt,
				s.StockWeight,
				s.TotalScore,
				s.Rank,
				s.Scenario,
				s.Explanation,
			).Scan(&s.ID, &s.CreatedAt)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to insert supplier score")
			}
		}
		return nil
	})
}

// ListByTask returns the scores for a task ordered by rank.
func (r *ScoreRepository) ListByTask(ctx context.Context, taskID string) ([]*SupplierScore, error) {
	query := `
		SELECT id, task_id, supplier_id, quote_id,
		       price_score, speed_score, reliability_score, stock_score,
		       price_weight, speed_weight, reliability_weight, stock_weight,
		       total_score, rank, scenario, explanation, created_at
		FROM supplier_scores
		WHERE task_id = $1
		ORDER BY rank ASC
	`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list supplier scores")
	}
	defer rows.Close()

	var scores []*SupplierScore
	for rows.Next() {
		s := &SupplierScore{}
		err := rows.Scan(
			&s.ID,
			&s.TaskID,
			&s.SupplierID,
			&s.QuoteID,
			&s.PriceScore,
			&s.SpeedScore,
			&s.ReliabilityScore,
			&s.StockScore,
			&s.PriceWeight,
			&s.SpeedWeight,
			&s.ReliabilityWt,
			&s.StockWeight,
			&s.TotalScore,
			&s.Rank,
			&s.Scenario,
			&s.Explanation,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan supplier score")
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
