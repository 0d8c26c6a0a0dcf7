package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocksync/stocksync/internal/domain"
)

// OrganizationRepository defines the interface for organization directory access.
// The engine only reads organizations; Create/Update exist for the owning
// subsystem and for seeding.
type OrganizationRepository interface {
	Create(ctx context.Context, org domain.Organization) (domain.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
	Update(ctx context.Context, org domain.Organization) (domain.Organization, error)
}

// InventoryRepository defines read access to inventory items.
type InventoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.InventoryItem, error)
	// FindActiveByName looks up the active item keyed by (normalized name,
	// company). It returns nil when no such item exists.
	FindActiveByName(ctx context.Context, companyID uuid.UUID, name string) (*domain.InventoryItem, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]domain.InventoryItem, error)
	Count(ctx context.Context) (int64, error)
}

// ApplyOptions carries the policy knobs the ledger writer needs at apply time.
type ApplyOptions struct {
	MinStockLevel      int64
	AllowNegativeStock bool
	PerformedBy        string
	Source             string
}

// LedgerRepository applies reconciliation decisions transactionally and reads
// the append-only quantity ledger back.
type LedgerRepository interface {
	// Apply mutates the inventory item, appends a ledger row, and appends an
	// audit row inside one transaction. The item row is locked for update so
	// concurrent batches serialize per entity.
	Apply(ctx context.Context, decision domain.Decision, opts ApplyOptions) (domain.InventoryTransaction, error)
	ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]domain.InventoryTransaction, error)
	// ReplayQuantity sums the item's ledger deltas from zero; the result must
	// equal the item's current quantity.
	ReplayQuantity(ctx context.Context, itemID uuid.UUID) (int64, error)
}

// AuditRepository reads the audit trail back for review surfaces.
type AuditRepository interface {
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]domain.AuditEntry, error)
}

// LowStockSink receives low-stock events emitted by the ledger writer after a
// successful commit. Implementations must not block the pipeline.
type LowStockSink interface {
	LowStock(ctx context.Context, event domain.LowStockEvent)
}
