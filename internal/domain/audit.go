package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names the mutation recorded by an audit entry.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
)

// AuditEntry is one append-only audit trail row, written in the same
// transaction as the entity mutation it describes.
type AuditEntry struct {
	ID          uuid.UUID      `json:"id"`
	EntityType  string         `json:"entity_type"`
	EntityID    uuid.UUID      `json:"entity_id"`
	Action      AuditAction    `json:"action"`
	OldValues   map[string]any `json:"old_values,omitempty"`
	NewValues   map[string]any `json:"new_values,omitempty"`
	PerformedBy string         `json:"performed_by"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// NewAuditEntry builds an audit entry for an inventory item mutation.
func NewAuditEntry(entityType string, entityID uuid.UUID, action AuditAction, oldValues, newValues map[string]any, performedBy string) AuditEntry {
	return AuditEntry{
		ID:          uuid.New(),
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		OldValues:   oldValues,
		NewValues:   newValues,
		PerformedBy: performedBy,
		OccurredAt:  time.Now(),
	}
}
