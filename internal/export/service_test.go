package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/stocksync/stocksync/internal/domain"
)

type stubInventoryRepo struct {
	items []domain.InventoryItem
}

func (s *stubInventoryRepo) GetByID(_ context.Context, id uuid.UUID) (domain.InventoryItem, error) {
	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.InventoryItem{}, fmt.Errorf("item %s not found", id)
}

func (s *stubInventoryRepo) FindActiveByName(_ context.Context, _ uuid.UUID, _ string) (*domain.InventoryItem, error) {
	return nil, nil
}

func (s *stubInventoryRepo) ListByCompany(_ context.Context, companyID uuid.UUID, limit, offset int) ([]domain.InventoryItem, error) {
	var matched []domain.InventoryItem
	for _, item := range s.items {
		if item.CompanyID == companyID {
			matched = append(matched, item)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *stubInventoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

func seedItems(companyID uuid.UUID, count int) []domain.InventoryItem {
	items := make([]domain.InventoryItem, count)
	for i := range items {
		record := domain.ValidatedRecord{
			Name:      fmt.Sprintf("Item %d", i),
			Category:  "Hardware",
			Quantity:  int64(i),
			UnitPrice: decimal.NewFromFloat(1.25),
			Status:    domain.ItemStatusActive,
		}
		items[i] = domain.NewInventoryItem(record, companyID, 5, "seed")
	}
	return items
}

func TestWriteCompanyCSV(t *testing.T) {
	companyID := uuid.New()
	repo := &stubInventoryRepo{items: seedItems(companyID, 3)}
	service := NewService(repo, zerolog.Nop())

	var buf bytes.Buffer
	rows, err := service.WriteCompanyCSV(context.Background(), companyID, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 3 {
		t.Fatalf("expected 3 rows written, got %d", rows)
	}

	parsed, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(parsed) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(parsed))
	}
	if parsed[0][0] != "id" || parsed[0][1] != "name" {
		t.Fatalf("unexpected header: %v", parsed[0])
	}
	if parsed[1][1] != "Item 0" {
		t.Fatalf("unexpected first row: %v", parsed[1])
	}
}

func TestWriteCompanyCSVPagination(t *testing.T) {
	companyID := uuid.New()
	repo := &stubInventoryRepo{items: seedItems(companyID, 7)}
	service := NewService(repo, zerolog.Nop(), WithPageSize(3))

	var buf bytes.Buffer
	rows, err := service.WriteCompanyCSV(context.Background(), companyID, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 7 {
		t.Fatalf("expected all 7 rows across pages, got %d", rows)
	}
}

func TestWriteCompanyCSVEmptyCompany(t *testing.T) {
	repo := &stubInventoryRepo{}
	service := NewService(repo, zerolog.Nop())

	var buf bytes.Buffer
	rows, err := service.WriteCompanyCSV(context.Background(), uuid.New(), &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected no rows, got %d", rows)
	}
	parsed, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("expected header only, got %d rows", len(parsed))
	}
}
