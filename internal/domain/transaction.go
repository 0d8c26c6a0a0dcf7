package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionTypeAdjustment TransactionType = "adjustment"
	TransactionTypeImport     TransactionType = "import"
	TransactionTypePurchase   TransactionType = "purchase"
	TransactionTypeSale       TransactionType = "sale"
)

// InventoryTransaction is one append-only quantity ledger entry.
// Invariant: NewQuantity = PreviousQuantity + QuantityDelta, and replaying an
// item's ledger in occurred_at order reproduces its current quantity.
type InventoryTransaction struct {
	ID                uuid.UUID       `json:"id"`
	ItemID            uuid.UUID       `json:"item_id"`
	Type              TransactionType `json:"type"`
	QuantityDelta     int64           `json:"quantity_delta"`
	PreviousQuantity  int64           `json:"previous_quantity"`
	NewQuantity       int64           `json:"new_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	PerformedBy       string          `json:"performed_by"`
	SourceDescription string          `json:"source_description,omitempty"`
	OccurredAt        time.Time       `json:"occurred_at"`
}

// NewInventoryTransaction builds a ledger entry for an applied decision.
func NewInventoryTransaction(itemID uuid.UUID, txType TransactionType, previous, next int64, unitPrice decimal.Decimal, performedBy, source string) InventoryTransaction {
	return InventoryTransaction{
		ID:                uuid.New(),
		ItemID:            itemID,
		Type:              txType,
		QuantityDelta:     next - previous,
		PreviousQuantity:  previous,
		NewQuantity:       next,
		UnitPrice:         unitPrice,
		PerformedBy:       performedBy,
		SourceDescription: source,
		OccurredAt:        time.Now(),
	}
}
