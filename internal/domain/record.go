package domain

import "github.com/shopspring/decimal"

// ItemStatus enumerates the lifecycle states an inventory item can be in.
type ItemStatus string

const (
	ItemStatusActive       ItemStatus = "active"
	ItemStatusInactive     ItemStatus = "inactive"
	ItemStatusDiscontinued ItemStatus = "discontinued"
)

// ValidItemStatus reports whether the given value is a recognized status.
func ValidItemStatus(value string) bool {
	switch ItemStatus(value) {
	case ItemStatusActive, ItemStatusInactive, ItemStatusDiscontinued:
		return true
	}
	return false
}

// DefaultCategory is assigned when a row carries no category value.
const DefaultCategory = "Uncategorized"

// ExtractedRow is one row as produced by an extraction adapter: loose header
// to value mapping plus a 1-based row number for error reporting.
type ExtractedRow struct {
	Number int               `json:"number"`
	Fields map[string]string `json:"fields"`
}

// ValidatedRecord is the canonical, typed form of an extracted row.
// MinStockLevel is nil when the row carried no min-stock column; the
// configured default applies then.
type ValidatedRecord struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku,omitempty"`
	Category      string          `json:"category"`
	Quantity      int64           `json:"quantity"`
	MinStockLevel *int64          `json:"min_stock_level,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalValue    decimal.Decimal `json:"total_value"`
	CompanyName   string          `json:"company_name"`
	Status        ItemStatus      `json:"status"`
	Kind          TransactionType `json:"kind"`
}
