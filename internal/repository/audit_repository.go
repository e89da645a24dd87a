package repository

import (
	"context"
	"encoding/json"

	"github.com/pharmaflow/be-procurement/internal/database"
	"github.com/pharmaflow/be-procurement/internal/errors"
)

// AuditRepository appends and reads immutable negotiation audit log entries.
type AuditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append inserts one audit entry. The table is append-only; this is the only
// mutation operation exposed.
func (r *AuditRepository) Append(ctx context.Context, entry *AuditEntry) error {
	var metadataJSON []byte
	if entry.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal audit metadata")
		}
	}

	query := `
		INSERT INTO negotiation_audit_log
		    (task_id, supplier_id, action, performed_by, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	return r.db.QueryRow(ctx, query,
		entry.TaskID,
		entry.SupplierID,
		entry.Action,
		entry.PerformedBy,
		metadataJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// ListByTask returns the audit trail for a task, oldest first.
func (r *AuditRepository) ListByTask(ctx context.Context, taskID string) ([]*AuditEntry, error) {
	query := `
		SELECT id, task_id, supplier_id, action, performed_by, metadata, created_at
		FROM negotiation_audit_log
		WHERE task_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list audit log")
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		entry := &AuditEntry{}
		var metadataJSON []byte
		err := rows.Scan(
			&entry.ID,
			&entry.TaskID,
			&entry.SupplierID,
			&entry.Action,
			&entry.PerformedBy,
			&metadataJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan audit entry")
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to unmarshal audit metadata")
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
