package recon

import (
	"github.com/stocksync/stocksync/internal/domain"
)

// Config carries the reconciliation policy flags.
type Config struct {
	AutoCreateItems      bool
	UpdateExistingItems  bool
	AllowNegativeStock   bool
	RequireCompanyMatch  bool
	DefaultMinStockLevel int64
}

// DefaultConfig returns the standard reconciliation policy.
func DefaultConfig() Config {
	return Config{
		AutoCreateItems:      true,
		UpdateExistingItems:  true,
		AllowNegativeStock:   false,
		RequireCompanyMatch:  true,
		DefaultMinStockLevel: 5,
	}
}

// Engine decides, per record, whether to create, update, or skip an
// inventory item. Decisions are pure: the caller supplies the already-looked-up
// existing item so this logic stays testable without a database.
type Engine struct {
	config Config
}

// NewEngine creates a reconciliation engine with the given policy.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Decide maps one validated record plus its company resolution onto a
// create/update/skip decision with the quantity delta computed.
//
// Quantity semantics follow the record kind: import and adjustment rows carry
// the absolute target quantity, purchase rows add to stock, sale rows subtract.
func (e *Engine) Decide(record domain.ValidatedRecord, match *domain.CompanyMatch, existing *domain.InventoryItem) domain.Decision {
	decision := domain.Decision{Record: record}

	if match == nil {
		if e.config.RequireCompanyMatch {
			decision.Action = domain.ActionSkip
			decision.Reason = "unresolved company"
			decision.Error = "no organization matched company name " + record.CompanyName
			return decision
		}
	} else {
		decision.CompanyID = match.OrganizationID
	}

	if existing == nil {
		if !e.config.AutoCreateItems {
			decision.Action = domain.ActionSkip
			decision.Reason = "not found, create disabled"
			return decision
		}

		decision.Action = domain.ActionCreate
		decision.PreviousQuantity = 0
		decision.NewQuantity = TargetQuantity(record, 0)
		decision.QuantityDelta = decision.NewQuantity
	} else {
		if !e.config.UpdateExistingItems {
			decision.Action = domain.ActionSkip
			decision.Reason = "exists, update disabled"
			return decision
		}

		decision.Action = domain.ActionUpdate
		decision.ExistingItemID = existing.ID
		decision.CompanyID = existing.CompanyID
		decision.PreviousQuantity = existing.CurrentQuantity
		decision.NewQuantity = TargetQuantity(record, existing.CurrentQuantity)
		decision.QuantityDelta = decision.NewQuantity - decision.PreviousQuantity
	}

	if !e.config.AllowNegativeStock && decision.NewQuantity < 0 {
		decision.Action = domain.ActionSkip
		decision.Reason = "negative stock"
		decision.Error = "applying this record would drive stock negative"
	}

	return decision
}

// TargetQuantity resolves the post-apply quantity for a record against the
// current stock level. The ledger writer reuses it to recompute deltas after
// locking the row, so a stale decide-time read can never lose an update.
func TargetQuantity(record domain.ValidatedRecord, current int64) int64 {
	switch record.Kind {
	case domain.TransactionTypePurchase:
		return current + record.Quantity
	case domain.TransactionTypeSale:
		return current - record.Quantity
	default:
		// Import and adjustment rows state the absolute quantity.
		return record.Quantity
	}
}

// MinStockLevel returns the configured minimum stock level for new items.
func (e *Engine) MinStockLevel() int64 {
	if e.config.DefaultMinStockLevel > 0 {
		return e.config.DefaultMinStockLevel
	}
	return 5
}
