package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is the canonical persisted inventory entity, unique by
// (normalized name, company) among active items. It is only mutated through
// the reconciliation + ledger path so the quantity ledger stays consistent.
type InventoryItem struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku,omitempty"`
	Category        string          `json:"category"`
	CurrentQuantity int64           `json:"current_quantity"`
	MinStockLevel   int64           `json:"min_stock_level"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalValue      decimal.Decimal `json:"total_value"`
	CompanyID       uuid.UUID       `json:"company_id"`
	Status          ItemStatus      `json:"status"`
	UpdatedBy       string          `json:"updated_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewInventoryItem creates an item from a validated record and resolved company.
func NewInventoryItem(record ValidatedRecord, companyID uuid.UUID, minStockLevel int64, createdBy string) InventoryItem {
	now := time.Now()
	return InventoryItem{
		ID:              uuid.New(),
		Name:            record.Name,
		SKU:             record.SKU,
		Category:        record.Category,
		CurrentQuantity: record.Quantity,
		MinStockLevel:   minStockLevel,
		UnitPrice:       record.UnitPrice,
		TotalValue:      record.UnitPrice.Mul(decimal.NewFromInt(record.Quantity)),
		CompanyID:       companyID,
		Status:          record.Status,
		UpdatedBy:       createdBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// WithQuantity returns a new item with updated quantity and recomputed value.
func (i InventoryItem) WithQuantity(quantity int64, updatedBy string) InventoryItem {
	updated := i
	updated.CurrentQuantity = quantity
	updated.TotalValue = i.UnitPrice.Mul(decimal.NewFromInt(quantity))
	updated.UpdatedBy = updatedBy
	updated.UpdatedAt = time.Now()
	return updated
}

// WithUnitPrice returns a new item with updated price and recomputed value.
func (i InventoryItem) WithUnitPrice(price decimal.Decimal, updatedBy string) InventoryItem {
	updated := i
	updated.UnitPrice = price
	updated.TotalValue = price.Mul(decimal.NewFromInt(i.CurrentQuantity))
	updated.UpdatedBy = updatedBy
	updated.UpdatedAt = time.Now()
	return updated
}

// WithStatus returns a new item with the given lifecycle status. Items are
// never hard-deleted by the engine; retirement is a status transition.
func (i InventoryItem) WithStatus(status ItemStatus, updatedBy string) InventoryItem {
	updated := i
	updated.Status = status
	updated.UpdatedBy = updatedBy
	updated.UpdatedAt = time.Now()
	return updated
}

// BelowMinStock reports whether the item sits at or under its minimum level.
func (i InventoryItem) BelowMinStock() bool {
	return i.CurrentQuantity <= i.MinStockLevel
}
