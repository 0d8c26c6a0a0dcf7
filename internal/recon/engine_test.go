package recon

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocksync/stocksync/internal/domain"
)

func record(name string, quantity int64, kind domain.TransactionType) domain.ValidatedRecord {
	return domain.ValidatedRecord{
		Name:        name,
		Category:    domain.DefaultCategory,
		Quantity:    quantity,
		UnitPrice:   decimal.NewFromFloat(9.99),
		CompanyName: "Acme Corp",
		Status:      domain.ItemStatusActive,
		Kind:        kind,
	}
}

func matchFor(orgID uuid.UUID) *domain.CompanyMatch {
	return &domain.CompanyMatch{
		OriginalName:   "Acme Corp",
		OrganizationID: orgID,
		MatchedName:    "Acme Corp",
		Confidence:     1.0,
		MatchType:      domain.MatchTypeExact,
	}
}

func TestDecideSkipsUnresolvedCompany(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	decision := engine.Decide(record("Widget", 10, domain.TransactionTypeImport), nil, nil)
	if decision.Action != domain.ActionSkip {
		t.Fatalf("expected skip, got %s", decision.Action)
	}
	if decision.Error == "" {
		t.Fatalf("expected an error on unresolved company")
	}
}

func TestDecideUnresolvedCompanyAllowedWhenNotRequired(t *testing.T) {
	config := DefaultConfig()
	config.RequireCompanyMatch = false
	engine := NewEngine(config)

	decision := engine.Decide(record("Widget", 10, domain.TransactionTypeImport), nil, nil)
	if decision.Action != domain.ActionCreate {
		t.Fatalf("expected create, got %s", decision.Action)
	}
	if decision.CompanyID != uuid.Nil {
		t.Fatalf("expected nil company on unresolved match")
	}
}

func TestDecideCreate(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	orgID := uuid.New()

	decision := engine.Decide(record("Widget", 25, domain.TransactionTypeImport), matchFor(orgID), nil)
	if decision.Action != domain.ActionCreate {
		t.Fatalf("expected create, got %s", decision.Action)
	}
	if decision.CompanyID != orgID {
		t.Fatalf("company not propagated")
	}
	if decision.PreviousQuantity != 0 || decision.NewQuantity != 25 || decision.QuantityDelta != 25 {
		t.Fatalf("unexpected quantities: %+v", decision)
	}
}

func TestDecideCreateDisabled(t *testing.T) {
	config := DefaultConfig()
	config.AutoCreateItems = false
	engine := NewEngine(config)

	decision := engine.Decide(record("Widget", 25, domain.TransactionTypeImport), matchFor(uuid.New()), nil)
	if decision.Action != domain.ActionSkip {
		t.Fatalf("expected skip, got %s", decision.Action)
	}
	if decision.Error != "" {
		t.Fatalf("create-disabled skip should not carry an error")
	}
}

func TestDecideUpdateAbsoluteImport(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	orgID := uuid.New()
	existing := domain.NewInventoryItem(record("Widget", 10, domain.TransactionTypeImport), orgID, 5, "seed")

	decision := engine.Decide(record("Widget", 15, domain.TransactionTypeImport), matchFor(orgID), &existing)
	if decision.Action != domain.ActionUpdate {
		t.Fatalf("expected update, got %s", decision.Action)
	}
	if decision.ExistingItemID != existing.ID {
		t.Fatalf("existing item not carried on decision")
	}
	if decision.PreviousQuantity != 10 || decision.NewQuantity != 15 || decision.QuantityDelta != 5 {
		t.Fatalf("unexpected quantities: %+v", decision)
	}
}

func TestDecideUpdateDisabled(t *testing.T) {
	config := DefaultConfig()
	config.UpdateExistingItems = false
	engine := NewEngine(config)
	orgID := uuid.New()
	existing := domain.NewInventoryItem(record("Widget", 10, domain.TransactionTypeImport), orgID, 5, "seed")

	decision := engine.Decide(record("Widget", 15, domain.TransactionTypeImport), matchFor(orgID), &existing)
	if decision.Action != domain.ActionSkip {
		t.Fatalf("expected skip, got %s", decision.Action)
	}
}

func TestDecidePurchaseAddsToStock(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	orgID := uuid.New()
	existing := domain.NewInventoryItem(record("Widget", 10, domain.TransactionTypeImport), orgID, 5, "seed")

	rec := record("Widget", 7, domain.TransactionTypePurchase)
	decision := engine.Decide(rec, matchFor(orgID), &existing)
	if decision.NewQuantity != 17 || decision.QuantityDelta != 7 {
		t.Fatalf("unexpected purchase quantities: %+v", decision)
	}
}

func TestDecideSaleDrivingStockNegative(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	orgID := uuid.New()
	existing := domain.NewInventoryItem(record("Widget", 10, domain.TransactionTypeImport), orgID, 5, "seed")

	rec := record("Widget", 20, domain.TransactionTypeSale)
	decision := engine.Decide(rec, matchFor(orgID), &existing)
	if decision.Action != domain.ActionSkip {
		t.Fatalf("expected skip on negative stock, got %s", decision.Action)
	}
	if decision.Error == "" {
		t.Fatalf("negative stock skip must carry an error")
	}
}

func TestDecideSaleAllowedWithNegativeStock(t *testing.T) {
	config := DefaultConfig()
	config.AllowNegativeStock = true
	engine := NewEngine(config)
	orgID := uuid.New()
	existing := domain.NewInventoryItem(record("Widget", 10, domain.TransactionTypeImport), orgID, 5, "seed")

	rec := record("Widget", 20, domain.TransactionTypeSale)
	decision := engine.Decide(rec, matchFor(orgID), &existing)
	if decision.Action != domain.ActionUpdate {
		t.Fatalf("expected update, got %s", decision.Action)
	}
	if decision.NewQuantity != -10 || decision.QuantityDelta != -20 {
		t.Fatalf("unexpected quantities: %+v", decision)
	}
}

func TestTargetQuantityKinds(t *testing.T) {
	cases := []struct {
		kind     domain.TransactionType
		current  int64
		quantity int64
		expected int64
	}{
		{domain.TransactionTypeImport, 10, 15, 15},
		{domain.TransactionTypeAdjustment, 10, 3, 3},
		{domain.TransactionTypePurchase, 10, 5, 15},
		{domain.TransactionTypeSale, 10, 4, 6},
	}

	for _, tc := range cases {
		rec := record("Widget", tc.quantity, tc.kind)
		if got := TargetQuantity(rec, tc.current); got != tc.expected {
			t.Fatalf("TargetQuantity(%s, %d, qty %d) = %d, expected %d", tc.kind, tc.current, tc.quantity, got, tc.expected)
		}
	}
}

func TestMinStockLevelFallback(t *testing.T) {
	engine := NewEngine(Config{})
	if got := engine.MinStockLevel(); got != 5 {
		t.Fatalf("expected fallback 5, got %d", got)
	}
	engine = NewEngine(Config{DefaultMinStockLevel: 12})
	if got := engine.MinStockLevel(); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}
