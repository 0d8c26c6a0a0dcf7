package domain

import "github.com/google/uuid"

// LowStockEvent is emitted by the ledger writer when an applied mutation
// leaves an item at or under its minimum stock level. Fan-out to users is an
// external notifier's concern.
type LowStockEvent struct {
	ItemID   uuid.UUID `json:"item_id"`
	Name     string    `json:"name"`
	Quantity int64     `json:"quantity"`
	MinLevel int64     `json:"min_level"`
}
