package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pharmaflow/be-procurement/internal/errors"
	"github.com/pharmaflow/be-procurement/internal/repository"
)

// CreateTaskInput is the request to open a procurement task.
type CreateTaskInput struct {
	MedicineName      string             `json:"medicine_name"`
	Quantity          int                `json:"quantity"`
	Urgency           repository.Urgency `json:"urgency"`
	BudgetConstrained bool               `json:"budget_constrained"`
}

// TaskService handles the procurement task lifecycle outside of negotiation:
// creation and reads.
type TaskService struct {
	taskRepo  *repository.TaskRepository
	auditRepo *repository.AuditRepository
	log       zerolog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo *repository.TaskRepository, auditRepo *repository.AuditRepository, log zerolog.Logger) *TaskService {
	return &TaskService{taskRepo: taskRepo, auditRepo: auditRepo, log: log}
}

// CreateTask validates and stores a new procurement task in the
// quote-collecting state.
func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (*repository.ProcurementTask, error) {
	in.MedicineName = strings.TrimSpace(in.MedicineName)
	if in.MedicineName == "" {
		return nil, errors.InvalidInput("medicine_name", "medicine name is required")
	}
	if in.Quantity <= 0 {
		return nil, errors.InvalidInput("quantity", "quantity must be positive")
	}
	switch in.Urgency {
	case repository.UrgencyLow, repository.UrgencyMedium, repository.UrgencyHigh, repository.UrgencyCritical:
	case "":
		in.Urgency = repository.UrgencyMedium
	default:
		return nil, errors.InvalidInput("urgency", "unknown urgency level")
	}

	task := &repository.ProcurementTask{
		MedicineName:      in.MedicineName,
		Quantity:          in.Quantity,
		Urgency:           in.Urgency,
		BudgetConstrained: in.BudgetConstrained,
		Status:            repository.TaskStatusCollecting,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	entry := &repository.AuditEntry{
		TaskID:      task.ID,
		Action:      "task_created",
		PerformedBy: "system",
		Metadata: map[string]any{
			"medicine_name": task.MedicineName,
			"quantity":      task.Quantity,
			"urgency":       string(task.Urgency),
		},
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("task_id", task.ID).Msg("tasks: failed to write audit entry (non-fatal)")
	}

	s.log.Info().
		Str("task_id", task.ID).
		Str("medicine_name", task.MedicineName).
		Int("quantity", task.Quantity).
		Str("urgency", string(task.Urgency)).
		Msg("tasks: procurement task created")
	return task, nil
}

// GetTask returns one procurement task.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*repository.ProcurementTask, error) {
	return s.taskRepo.GetByID(ctx, taskID)
}
