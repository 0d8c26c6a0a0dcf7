package domain

import "fmt"

// ProcessingResult aggregates the outcome of one batch run. It is created
// empty at pipeline start, grows additively per row, and is returned once.
// The JSON shape is exactly what the upload-status endpoint surfaces.
type ProcessingResult struct {
	Success        bool                   `json:"success"`
	ProcessedCount int                    `json:"processedRecords"`
	CreatedItems   int                    `json:"createdItems"`
	UpdatedItems   int                    `json:"updatedItems"`
	SkippedRecords int                    `json:"skippedRecords"`
	FailedRecords  int                    `json:"failedRecords"`
	Errors         []string               `json:"errors"`
	Warnings       []string               `json:"warnings"`
	Transactions   []InventoryTransaction `json:"transactions,omitempty"`
}

// NewProcessingResult returns an empty result ready for accumulation.
func NewProcessingResult() ProcessingResult {
	return ProcessingResult{
		Errors:   []string{},
		Warnings: []string{},
	}
}

// AddError records a row-scoped error message.
func (r *ProcessingResult) AddError(rowNumber int, format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %s", rowNumber, fmt.Sprintf(format, args...)))
}

// AddWarning records a row-scoped warning message.
func (r *ProcessingResult) AddWarning(rowNumber int, format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf("row %d: %s", rowNumber, fmt.Sprintf(format, args...)))
}

// Finalize recomputes the processed count and success flag once all rows ran.
func (r *ProcessingResult) Finalize() {
	r.ProcessedCount = r.CreatedItems + r.UpdatedItems + r.SkippedRecords
	r.Success = r.ProcessedCount > 0
}
