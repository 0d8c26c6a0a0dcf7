// Package notify consumes events the ledger writer emits. Fan-out to users
// lives behind this boundary so the engine never blocks on notification.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stocksync/stocksync/internal/domain"
)

// LogNotifier records low-stock events as structured log lines. A production
// deployment can swap in a broadcast implementation behind the same interface.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a notifier that logs events.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// LowStock logs the event. Never blocks.
func (n *LogNotifier) LowStock(_ context.Context, event domain.LowStockEvent) {
	n.log.Warn().
		Str("item_id", event.ItemID.String()).
		Str("name", event.Name).
		Int64("quantity", event.Quantity).
		Int64("min_level", event.MinLevel).
		Msg("item at or below minimum stock level")
}
