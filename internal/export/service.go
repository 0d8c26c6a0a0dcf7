// Package export streams inventory snapshots out as CSV downloads. Rows are
// paged from storage and flushed incrementally so large inventories never
// buffer fully in memory.
package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stocksync/stocksync/internal/domain"
	"github.com/stocksync/stocksync/internal/repository"
)

var csvHeader = []string{
	"id", "name", "sku", "category",
	"current_quantity", "min_stock_level",
	"unit_price", "total_value",
	"status", "updated_by", "updated_at",
}

// Service writes company inventories as CSV.
type Service struct {
	inventory repository.InventoryRepository
	pageSize  int
	log       zerolog.Logger
}

// Option customizes the export service.
type Option func(*Service)

// WithPageSize overrides how many items are fetched per storage round-trip.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewService creates a CSV export service over the inventory repository.
func NewService(inventory repository.InventoryRepository, log zerolog.Logger, opts ...Option) *Service {
	service := &Service{
		inventory: inventory,
		pageSize:  1000,
		log:       log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// WriteCompanyCSV streams the company's inventory to the writer, paging
// through storage and flushing after each page.
func (s *Service) WriteCompanyCSV(ctx context.Context, companyID uuid.UUID, w io.Writer) (int, error) {
	buffered := bufio.NewWriterSize(w, 64<<10)
	csvWriter := csv.NewWriter(buffered)

	if err := csvWriter.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	rowsWritten := 0
	offset := 0
	for {
		if ctx.Err() != nil {
			return rowsWritten, ctx.Err()
		}

		items, err := s.inventory.ListByCompany(ctx, companyID, s.pageSize, offset)
		if err != nil {
			return rowsWritten, fmt.Errorf("failed to list inventory page: %w", err)
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			if err := csvWriter.Write(itemRow(item)); err != nil {
				return rowsWritten, fmt.Errorf("failed to write item row: %w", err)
			}
			rowsWritten++
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return rowsWritten, fmt.Errorf("failed to flush csv page: %w", err)
		}
		if err := buffered.Flush(); err != nil {
			return rowsWritten, fmt.Errorf("failed to flush buffered page: %w", err)
		}

		if len(items) < s.pageSize {
			break
		}
		offset += s.pageSize
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return rowsWritten, fmt.Errorf("failed to finish csv: %w", err)
	}
	if err := buffered.Flush(); err != nil {
		return rowsWritten, fmt.Errorf("failed to finish buffered csv: %w", err)
	}

	s.log.Info().
		Str("company_id", companyID.String()).
		Int("rows", rowsWritten).
		Msg("inventory export complete")
	return rowsWritten, nil
}

func itemRow(item domain.InventoryItem) []string {
	return []string{
		item.ID.String(),
		item.Name,
		item.SKU,
		item.Category,
		strconv.FormatInt(item.CurrentQuantity, 10),
		strconv.FormatInt(item.MinStockLevel, 10),
		item.UnitPrice.String(),
		item.TotalValue.String(),
		string(item.Status),
		item.UpdatedBy,
		item.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
