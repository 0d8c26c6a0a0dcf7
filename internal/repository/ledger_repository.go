package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/stocksync/stocksync/internal/db"
	"github.com/stocksync/stocksync/internal/domain"
	"github.com/stocksync/stocksync/internal/recon"
)

// ErrNegativeStock is returned when applying a decision would drive an item's
// quantity negative and the policy forbids it.
var ErrNegativeStock = errors.New("negative stock")

// auditEntityType tags inventory item mutations in the audit trail.
const auditEntityType = "inventory_item"

// ledgerRepository applies reconciliation decisions inside one transaction:
// item upsert, ledger append, audit append. All three commit or roll back
// together.
type ledgerRepository struct {
	conn *db.Connection
	sink LowStockSink
	log  zerolog.Logger
}

// NewLedgerRepository wires the transactional ledger writer.
func NewLedgerRepository(conn *db.Connection, sink LowStockSink, log zerolog.Logger) LedgerRepository {
	return &ledgerRepository{conn: conn, sink: sink, log: log}
}

// Apply executes the decision. Update decisions lock the item row and
// recompute the delta from the locked quantity, so a stale decide-time read
// cannot lose a concurrent update.
func (r *ledgerRepository) Apply(ctx context.Context, decision domain.Decision, opts ApplyOptions) (domain.InventoryTransaction, error) {
	var (
		ledgerEntry domain.InventoryTransaction
		lowStock    *domain.LowStockEvent
	)

	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		switch decision.Action {
		case domain.ActionCreate:
			return r.applyCreate(ctx, tx, decision, opts, &ledgerEntry, &lowStock)
		case domain.ActionUpdate:
			return r.applyUpdate(ctx, tx, decision, opts, &ledgerEntry, &lowStock)
		default:
			return fmt.Errorf("decision action %q cannot be applied", decision.Action)
		}
	})
	if err != nil {
		return domain.InventoryTransaction{}, err
	}

	if lowStock != nil && r.sink != nil {
		r.sink.LowStock(ctx, *lowStock)
	}
	return ledgerEntry, nil
}

func (r *ledgerRepository) applyCreate(ctx context.Context, tx pgx.Tx, decision domain.Decision, opts ApplyOptions, ledgerEntry *domain.InventoryTransaction, lowStock **domain.LowStockEvent) error {
	minLevel := opts.MinStockLevel
	if decision.Record.MinStockLevel != nil {
		minLevel = *decision.Record.MinStockLevel
	}
	item := domain.NewInventoryItem(decision.Record, decision.CompanyID, minLevel, opts.PerformedBy)
	item = item.WithQuantity(decision.NewQuantity, opts.PerformedBy)

	_, err := tx.Exec(
		ctx,
		`INSERT INTO inventory_items
		   (id, name, sku, category, current_quantity, min_stock_level,
		    unit_price, total_value, company_id, status, updated_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		item.ID,
		item.Name,
		item.SKU,
		item.Category,
		item.CurrentQuantity,
		item.MinStockLevel,
		item.UnitPrice.String(),
		item.TotalValue.String(),
		nullableUUID(item.CompanyID),
		item.Status,
		item.UpdatedBy,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}

	entry := domain.NewInventoryTransaction(
		item.ID,
		decision.Record.Kind,
		0,
		decision.NewQuantity,
		item.UnitPrice,
		opts.PerformedBy,
		opts.Source,
	)
	if err := r.insertTransaction(ctx, tx, entry); err != nil {
		return err
	}

	audit := domain.NewAuditEntry(auditEntityType, item.ID, domain.AuditActionCreate, nil, itemSnapshot(item), opts.PerformedBy)
	if err := r.insertAudit(ctx, tx, audit); err != nil {
		return err
	}

	*ledgerEntry = entry
	if item.BelowMinStock() {
		*lowStock = &domain.LowStockEvent{
			ItemID:   item.ID,
			Name:     item.Name,
			Quantity: item.CurrentQuantity,
			MinLevel: item.MinStockLevel,
		}
	}
	return nil
}

func (r *ledgerRepository) applyUpdate(ctx context.Context, tx pgx.Tx, decision domain.Decision, opts ApplyOptions, ledgerEntry *domain.InventoryTransaction, lowStock **domain.LowStockEvent) error {
	row := tx.QueryRow(
		ctx,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`,
		decision.ExistingItemID,
	)
	existing, err := scanInventoryItem(row)
	if err != nil {
		return fmt.Errorf("failed to lock inventory item: %w", err)
	}

	previous := existing.CurrentQuantity
	target := decision.NewQuantity
	if previous != decision.PreviousQuantity {
		// Another writer got in between decide and apply. Recompute against
		// the locked quantity, preserving the record's intent.
		target = recon.TargetQuantity(decision.Record, previous)
		r.log.Debug().
			Str("item_id", existing.ID.String()).
			Int64("expected_previous", decision.PreviousQuantity).
			Int64("locked_previous", previous).
			Int64("target", target).
			Msg("recomputed quantity delta from locked row")
	}

	if target < 0 && !opts.AllowNegativeStock {
		return fmt.Errorf("%w: item %s would go to %d", ErrNegativeStock, existing.Name, target)
	}

	updated := existing.WithUnitPrice(decision.Record.UnitPrice, opts.PerformedBy).WithQuantity(target, opts.PerformedBy)
	if decision.Record.SKU != "" {
		updated.SKU = decision.Record.SKU
	}
	if decision.Record.Category != "" && decision.Record.Category != domain.DefaultCategory {
		updated.Category = decision.Record.Category
	}
	if decision.Record.MinStockLevel != nil {
		updated.MinStockLevel = *decision.Record.MinStockLevel
	}

	_, err = tx.Exec(
		ctx,
		`UPDATE inventory_items
		 SET sku = $2, category = $3, current_quantity = $4, min_stock_level = $5,
		     unit_price = $6, total_value = $7, updated_by = $8, updated_at = $9
		 WHERE id = $1`,
		updated.ID,
		updated.SKU,
		updated.Category,
		updated.CurrentQuantity,
		updated.MinStockLevel,
		updated.UnitPrice.String(),
		updated.TotalValue.String(),
		updated.UpdatedBy,
		updated.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}

	entry := domain.NewInventoryTransaction(
		updated.ID,
		decision.Record.Kind,
		previous,
		target,
		updated.UnitPrice,
		opts.PerformedBy,
		opts.Source,
	)
	if err := r.insertTransaction(ctx, tx, entry); err != nil {
		return err
	}

	audit := domain.NewAuditEntry(
		auditEntityType,
		updated.ID,
		domain.AuditActionUpdate,
		itemDiff(existing),
		itemDiff(updated),
		opts.PerformedBy,
	)
	if err := r.insertAudit(ctx, tx, audit); err != nil {
		return err
	}

	*ledgerEntry = entry
	if updated.BelowMinStock() {
		*lowStock = &domain.LowStockEvent{
			ItemID:   updated.ID,
			Name:     updated.Name,
			Quantity: updated.CurrentQuantity,
			MinLevel: updated.MinStockLevel,
		}
	}
	return nil
}

func (r *ledgerRepository) insertTransaction(ctx context.Context, tx pgx.Tx, entry domain.InventoryTransaction) error {
	_, err := tx.Exec(
		ctx,
		`INSERT INTO inventory_transactions
		   (id, item_id, type, quantity_delta, previous_quantity, new_quantity,
		    unit_price, performed_by, source_description, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID,
		entry.ItemID,
		entry.Type,
		entry.QuantityDelta,
		entry.PreviousQuantity,
		entry.NewQuantity,
		entry.UnitPrice.String(),
		entry.PerformedBy,
		entry.SourceDescription,
		entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) insertAudit(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error {
	oldValues, err := json.Marshal(entry.OldValues)
	if err != nil {
		return fmt.Errorf("failed to marshal audit old values: %w", err)
	}
	newValues, err := json.Marshal(entry.NewValues)
	if err != nil {
		return fmt.Errorf("failed to marshal audit new values: %w", err)
	}

	_, err = tx.Exec(
		ctx,
		`INSERT INTO audit_entries
		   (id, entity_type, entity_id, action, old_values, new_values, performed_by, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID,
		entry.EntityType,
		entry.EntityID,
		entry.Action,
		oldValues,
		newValues,
		entry.PerformedBy,
		entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// ListByItem returns an item's ledger, oldest first.
func (r *ledgerRepository) ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]domain.InventoryTransaction, error) {
	if limit <= 0 {
		limit = 200
	}

	rows, err := r.conn.Pool.Query(
		ctx,
		`SELECT id, item_id, type, quantity_delta, previous_quantity, new_quantity,
		        unit_price::text, performed_by, source_description, occurred_at
		 FROM inventory_transactions
		 WHERE item_id = $1
		 ORDER BY occurred_at
		 LIMIT $2`,
		itemID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory transactions: %w", err)
	}
	defer rows.Close()

	entries := []domain.InventoryTransaction{}
	for rows.Next() {
		var (
			entry     domain.InventoryTransaction
			unitPrice string
		)
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.ItemID,
			&entry.Type,
			&entry.QuantityDelta,
			&entry.PreviousQuantity,
			&entry.NewQuantity,
			&unitPrice,
			&entry.PerformedBy,
			&entry.SourceDescription,
			&entry.OccurredAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan inventory transaction: %w", scanErr)
		}
		price, parseErr := decimal.NewFromString(unitPrice)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid unit price %q: %w", unitPrice, parseErr)
		}
		entry.UnitPrice = price
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate inventory transactions: %w", rowsErr)
	}
	return entries, nil
}

// ReplayQuantity sums ledger deltas from zero for one item.
func (r *ledgerRepository) ReplayQuantity(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var total int64
	err := r.conn.Pool.QueryRow(
		ctx,
		`SELECT COALESCE(SUM(quantity_delta), 0) FROM inventory_transactions WHERE item_id = $1`,
		itemID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to replay ledger: %w", err)
	}
	return total, nil
}

// itemSnapshot captures the full item state for create audits.
func itemSnapshot(item domain.InventoryItem) map[string]any {
	return map[string]any{
		"name":             item.Name,
		"sku":              item.SKU,
		"category":         item.Category,
		"current_quantity": item.CurrentQuantity,
		"min_stock_level":  item.MinStockLevel,
		"unit_price":       item.UnitPrice.String(),
		"company_id":       companyRef(item.CompanyID),
		"status":           string(item.Status),
	}
}

// itemDiff captures the fields the engine mutates on update.
func itemDiff(item domain.InventoryItem) map[string]any {
	return map[string]any{
		"sku":              item.SKU,
		"category":         item.Category,
		"current_quantity": item.CurrentQuantity,
		"min_stock_level":  item.MinStockLevel,
		"unit_price":       item.UnitPrice.String(),
	}
}

func companyRef(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id.String()
}
