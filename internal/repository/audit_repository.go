package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocksync/stocksync/internal/domain"
)

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository wires the audit trail read side.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

// ListByEntity returns the audit trail for one entity, newest first.
func (r *auditRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, entity_type, entity_id, action, old_values, new_values, performed_by, occurred_at
		 FROM audit_entries
		 WHERE entity_type = $1 AND entity_id = $2
		 ORDER BY occurred_at DESC
		 LIMIT $3`,
		entityType,
		entityID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		var (
			entry     domain.AuditEntry
			oldValues []byte
			newValues []byte
		)
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Action,
			&oldValues,
			&newValues,
			&entry.PerformedBy,
			&entry.OccurredAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", scanErr)
		}
		if len(oldValues) > 0 {
			if err := json.Unmarshal(oldValues, &entry.OldValues); err != nil {
				return nil, fmt.Errorf("failed to decode audit old values: %w", err)
			}
		}
		if len(newValues) > 0 {
			if err := json.Unmarshal(newValues, &entry.NewValues); err != nil {
				return nil, fmt.Errorf("failed to decode audit new values: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", rowsErr)
	}
	return entries, nil
}
