package ingest

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stocksync/stocksync/internal/domain"
)

const maxNameLength = 255

var skuPattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// headerAliases maps the loose column labels extraction adapters produce onto
// canonical field names.
var headerAliases = map[string]string{
	"name":             "name",
	"item":             "name",
	"item name":        "name",
	"product":          "name",
	"product name":     "name",
	"sku":              "sku",
	"code":             "sku",
	"item code":        "sku",
	"product code":     "sku",
	"category":         "category",
	"group":            "category",
	"quantity":         "quantity",
	"qty":              "quantity",
	"stock":            "quantity",
	"count":            "quantity",
	"units":            "quantity",
	"unit price":       "unit_price",
	"unitprice":        "unit_price",
	"price":            "unit_price",
	"cost":             "unit_price",
	"unit cost":        "unit_price",
	"company":          "company",
	"company name":     "company",
	"vendor":           "company",
	"supplier":         "company",
	"organization":     "company",
	"status":           "status",
	"state":            "status",
	"type":             "kind",
	"transaction type": "kind",
	"kind":             "kind",
	"min stock":        "min_stock",
	"min stock level":  "min_stock",
	"reorder level":    "min_stock",
}

// ValidationResult carries the typed record plus everything the row got wrong.
// Critical marks a missing required field; the row is failed either way when
// Valid is false, but criticality drives the error message surfaced.
type ValidationResult struct {
	Valid    bool
	Critical bool
	Record   domain.ValidatedRecord
	Errors   []string
	Warnings []string
}

func (v *ValidationResult) addError(format string, args ...any) {
	v.Valid = false
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *ValidationResult) addCritical(format string, args ...any) {
	v.Critical = true
	v.addError(format, args...)
}

func (v *ValidationResult) addWarning(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

// ValidateRow type-checks and normalizes one extracted row into a canonical
// record. Validation never touches storage; errors mark the row failed while
// the batch continues.
func ValidateRow(row domain.ExtractedRow) ValidationResult {
	result := ValidationResult{Valid: true}
	fields := canonicalFields(row.Fields)

	validateName(fields["name"], &result)
	validateCompany(fields["company"], &result)
	validateSKU(fields["sku"], &result)
	validateCategory(fields["category"], &result)
	validateQuantity(fields["quantity"], &result)
	validateMinStock(fields["min_stock"], &result)
	validateUnitPrice(fields["unit_price"], &result)
	validateStatus(fields["status"], &result)
	validateKind(fields["kind"], &result)

	if result.Valid {
		result.Record.TotalValue = result.Record.UnitPrice.Mul(decimal.NewFromInt(result.Record.Quantity))
	}
	return result
}

// canonicalFields folds loose header labels onto canonical field names. The
// first non-empty value wins when multiple columns alias the same field.
func canonicalFields(raw map[string]string) map[string]string {
	fields := make(map[string]string, len(raw))
	for header, value := range raw {
		key := strings.ToLower(strings.TrimSpace(header))
		key = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(key)
		key = strings.Join(strings.Fields(key), " ")

		canonical, known := headerAliases[key]
		if !known {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, taken := fields[canonical]; !taken {
			fields[canonical] = value
		}
	}
	return fields
}

func validateName(value string, result *ValidationResult) {
	if value == "" {
		result.addCritical("item name is required")
		return
	}
	if len(value) > maxNameLength {
		result.addError("item name exceeds %d characters", maxNameLength)
		return
	}
	result.Record.Name = value
}

func validateCompany(value string, result *ValidationResult) {
	if value == "" {
		result.addCritical("company name is required")
		return
	}
	result.Record.CompanyName = value
}

func validateSKU(value string, result *ValidationResult) {
	if value == "" {
		return
	}
	sku := strings.ToUpper(value)
	if !skuPattern.MatchString(sku) {
		result.addWarning("sku %q is not upper-case alphanumeric with hyphens", value)
	}
	result.Record.SKU = sku
}

func validateCategory(value string, result *ValidationResult) {
	if value == "" {
		result.Record.Category = domain.DefaultCategory
		result.addWarning("category missing, defaulted to %q", domain.DefaultCategory)
		return
	}
	result.Record.Category = value
}

func validateQuantity(value string, result *ValidationResult) {
	if value == "" {
		result.addWarning("quantity missing, defaulted to 0")
		return
	}

	parsed, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		result.addError("quantity %q is not a number", value)
		return
	}
	if parsed < 0 {
		result.addError("quantity %q is negative", value)
		return
	}
	if parsed != math.Trunc(parsed) {
		result.addWarning("quantity %q is not an integer, rounded to %d", value, int64(math.Round(parsed)))
	}
	result.Record.Quantity = int64(math.Round(parsed))
}

func validateMinStock(value string, result *ValidationResult) {
	if value == "" {
		return
	}

	parsed, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		result.addError("min stock level %q is not a number", value)
		return
	}
	if parsed < 0 {
		result.addError("min stock level %q is negative", value)
		return
	}
	if parsed != math.Trunc(parsed) {
		result.addWarning("min stock level %q is not an integer, rounded to %d", value, int64(math.Round(parsed)))
	}
	level := int64(math.Round(parsed))
	result.Record.MinStockLevel = &level
}

func validateUnitPrice(value string, result *ValidationResult) {
	result.Record.UnitPrice = decimal.Zero
	if value == "" {
		result.addWarning("unit price missing, defaulted to 0")
		return
	}

	cleaned := strings.ReplaceAll(strings.TrimPrefix(value, "$"), ",", "")
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		result.addError("unit price %q is not a number", value)
		return
	}
	if price.IsNegative() {
		result.addError("unit price %q is negative", value)
		return
	}
	result.Record.UnitPrice = price
}

func validateStatus(value string, result *ValidationResult) {
	if value == "" {
		result.Record.Status = domain.ItemStatusActive
		return
	}
	status := strings.ToLower(value)
	if !domain.ValidItemStatus(status) {
		result.addWarning("status %q not recognized, defaulted to active", value)
		result.Record.Status = domain.ItemStatusActive
		return
	}
	result.Record.Status = domain.ItemStatus(status)
}

func validateKind(value string, result *ValidationResult) {
	if value == "" {
		result.Record.Kind = domain.TransactionTypeImport
		return
	}
	switch domain.TransactionType(strings.ToLower(value)) {
	case domain.TransactionTypeAdjustment:
		result.Record.Kind = domain.TransactionTypeAdjustment
	case domain.TransactionTypeImport:
		result.Record.Kind = domain.TransactionTypeImport
	case domain.TransactionTypePurchase:
		result.Record.Kind = domain.TransactionTypePurchase
	case domain.TransactionTypeSale:
		result.Record.Kind = domain.TransactionTypeSale
	default:
		result.addWarning("transaction type %q not recognized, treated as import", value)
		result.Record.Kind = domain.TransactionTypeImport
	}
}
