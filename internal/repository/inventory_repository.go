package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stocksync/stocksync/internal/domain"
)

// inventoryRepository implements InventoryRepository backed by pgxpool.
type inventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(pool *pgxpool.Pool) InventoryRepository {
	return &inventoryRepository{pool: pool}
}

// Numeric columns are cast to text so decimal values round-trip exactly.
const inventoryColumns = `id, name, sku, category, current_quantity, min_stock_level,
	unit_price::text, total_value::text, company_id, status, updated_by, created_at, updated_at`

func scanInventoryItem(row pgx.Row) (domain.InventoryItem, error) {
	var (
		item       domain.InventoryItem
		unitPrice  string
		totalValue string
		companyID  pgtype.UUID
	)
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.SKU,
		&item.Category,
		&item.CurrentQuantity,
		&item.MinStockLevel,
		&unitPrice,
		&totalValue,
		&companyID,
		&item.Status,
		&item.UpdatedBy,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return domain.InventoryItem{}, err
	}

	price, err := decimal.NewFromString(unitPrice)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("invalid unit price %q: %w", unitPrice, err)
	}
	value, err := decimal.NewFromString(totalValue)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("invalid total value %q: %w", totalValue, err)
	}
	item.UnitPrice = price
	item.TotalValue = value

	if companyID.Valid {
		item.CompanyID = uuid.UUID(companyID.Bytes)
	}
	return item, nil
}

// nullableUUID maps uuid.Nil onto SQL NULL for optional company references.
func nullableUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: id != uuid.Nil}
}

// GetByID retrieves an inventory item by ID
func (r *inventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.InventoryItem, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1`,
		id,
	)

	item, err := scanInventoryItem(row)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

// FindActiveByName looks up the active item keyed by (normalized name, company).
func (r *inventoryRepository) FindActiveByName(ctx context.Context, companyID uuid.UUID, name string) (*domain.InventoryItem, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+inventoryColumns+`
		 FROM inventory_items
		 WHERE lower(name) = lower($2)
		   AND company_id IS NOT DISTINCT FROM $1
		   AND status = 'active'`,
		nullableUUID(companyID),
		name,
	)

	item, err := scanInventoryItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find inventory item: %w", err)
	}
	return &item, nil
}

// ListByCompany retrieves items for one company, newest first
func (r *inventoryRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]domain.InventoryItem, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT `+inventoryColumns+`
		 FROM inventory_items
		 WHERE company_id IS NOT DISTINCT FROM $1
		 ORDER BY updated_at DESC
		 LIMIT $2 OFFSET $3`,
		nullableUUID(companyID),
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer rows.Close()

	items := []domain.InventoryItem{}
	for rows.Next() {
		item, scanErr := scanInventoryItem(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", scanErr)
		}
		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate inventory items: %w", rowsErr)
	}
	return items, nil
}

// Count returns the total number of inventory items
func (r *inventoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM inventory_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count inventory items: %w", err)
	}
	return count, nil
}
