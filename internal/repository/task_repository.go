package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pharmaflow/be-procurement/internal/database"
	"github.com/pharmaflow/be-procurement/internal/errors"
)

// TaskRepository manages procurement task rows.
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a procurement task.
func (r *TaskRepository) Create(ctx context.Context, task *ProcurementTask) error {
	query := `
		INSERT INTO procurement_tasks
		    (medicine_name, quantity, urgency, budget_constrained, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		task.MedicineName,
		task.Quantity,
		task.Urgency,
		task.BudgetConstrained,
		task.Status,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create procurement task")
	}
	return nil
}

// GetByID retrieves a task by its primary key.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*ProcurementTask, error) {
	query := `
		SELECT id, medicine_name, quantity, urgency, budget_constrained,
		       status, winner_supplier_id, decision_reasoning,
		       created_at, updated_at
		FROM procurement_tasks
		WHERE id = $1
	`

	task := &ProcurementTask{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.MedicineName,
		&task.Quantity,
		&task.Urgency,
		&task.BudgetConstrained,
		&task.Status,
		&task.WinnerSupplierID,
		&task.DecisionReasoning,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("procurement_task", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get procurement task")
	}
	return task, nil
}

// UpdateStatus sets the task status.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status TaskStatus) error {
	query := `
		UPDATE procurement_tasks
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRow(ctx, query, id, status).Scan(&returnedID)
	if err == pgx.ErrNoRows {
		return errors.NotFound("procurement_task", id)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to update task status")
	}
	return nil
}

// SetDecision records the winning supplier and the decision reasoning.
func (r *TaskRepository) SetDecision(ctx context.Context, id, winnerSupplierID, reasoning string) error {
	query := `
		UPDATE procurement_tasks
		SET winner_supplier_id  = $2,
		    decision_reasoning  = $3,
		    status              = 'DECIDED',
		    updated_at          = NOW()
		WHERE id = $1
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRow(ctx, query, id, winnerSupplierID, reasoning).Scan(&returnedID)
	if err == pgx.ErrNoRows {
		return errors.NotFound("procurement_task", id)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to record decision")
	}
	return nil
}
