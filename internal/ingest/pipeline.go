package ingest

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/puddle/v2"
	"github.com/rs/zerolog"

	"github.com/stocksync/stocksync/internal/domain"
	"github.com/stocksync/stocksync/internal/recon"
	"github.com/stocksync/stocksync/internal/repository"
	"github.com/stocksync/stocksync/internal/textmatch"
)

// ErrEmptyBatch is returned when a batch carries no rows at all.
var ErrEmptyBatch = errors.New("batch contains no rows")

// Engine drives a batch of extracted rows through validation, company
// resolution, reconciliation, and the transactional ledger writer. Rows are
// processed sequentially; one row's failure never aborts the batch.
type Engine struct {
	orgs      repository.OrganizationRepository
	inventory repository.InventoryRepository
	ledger    repository.LedgerRepository
	resolver  *textmatch.Resolver
	decider   *recon.Engine
	config    recon.Config
	log       zerolog.Logger
}

// NewEngine wires the pipeline with its dependencies. Tests construct a fresh
// engine per case; there is no hidden shared state.
func NewEngine(
	orgs repository.OrganizationRepository,
	inventory repository.InventoryRepository,
	ledger repository.LedgerRepository,
	resolver *textmatch.Resolver,
	config recon.Config,
	log zerolog.Logger,
) *Engine {
	return &Engine{
		orgs:      orgs,
		inventory: inventory,
		ledger:    ledger,
		resolver:  resolver,
		decider:   recon.NewEngine(config),
		config:    config,
		log:       log,
	}
}

// Process runs one batch. Only an empty batch or a storage-connectivity
// failure is fatal; everything else is attributed to its row and accumulated
// into the result.
func (e *Engine) Process(ctx context.Context, rows []domain.ExtractedRow, performedBy, source string) (domain.ProcessingResult, error) {
	result := domain.NewProcessingResult()
	if len(rows) == 0 {
		return result, ErrEmptyBatch
	}

	orgs, err := e.orgs.List(ctx)
	if err != nil {
		return domain.NewProcessingResult(), fmt.Errorf("failed to load organization directory: %w", err)
	}

	// Refresh derived keywords once per batch.
	directory := make([]domain.Organization, len(orgs))
	for i, org := range orgs {
		if len(org.Keywords) == 0 {
			org = org.WithKeywords(textmatch.ExtractKeywords(org.Name))
		}
		directory[i] = org
	}

	for _, row := range rows {
		if fatalErr := e.processRow(ctx, row, directory, performedBy, source, &result); fatalErr != nil {
			e.log.Error().Err(fatalErr).Int("row", row.Number).Msg("aborting batch on storage failure")
			return domain.NewProcessingResult(), fatalErr
		}
	}

	result.Finalize()
	e.log.Info().
		Int("processed", result.ProcessedCount).
		Int("created", result.CreatedItems).
		Int("updated", result.UpdatedItems).
		Int("skipped", result.SkippedRecords).
		Int("failed", result.FailedRecords).
		Msg("batch complete")
	return result, nil
}

// processRow handles a single row end to end. A non-nil return means a fatal
// storage failure; row-level problems are recorded in the result instead.
func (e *Engine) processRow(ctx context.Context, row domain.ExtractedRow, directory []domain.Organization, performedBy, source string, result *domain.ProcessingResult) error {
	validation := ValidateRow(row)
	for _, warning := range validation.Warnings {
		result.AddWarning(row.Number, "%s", warning)
	}
	if !validation.Valid {
		for _, msg := range validation.Errors {
			result.AddError(row.Number, "%s", msg)
		}
		result.FailedRecords++
		return nil
	}
	record := validation.Record

	match := e.resolver.FindBestMatch(record.CompanyName, directory)

	var existing *domain.InventoryItem
	if match != nil || !e.config.RequireCompanyMatch {
		companyID := uuid.Nil
		if match != nil {
			companyID = match.OrganizationID
		}
		found, err := e.inventory.FindActiveByName(ctx, companyID, record.Name)
		if err != nil {
			if isFatal(ctx, err) {
				return err
			}
			result.AddError(row.Number, "inventory lookup failed: %v", err)
			result.FailedRecords++
			return nil
		}
		existing = found
	}

	decision := e.decider.Decide(record, match, existing)

	switch decision.Action {
	case domain.ActionSkip:
		if decision.Error != "" {
			result.AddError(row.Number, "%s", decision.Error)
			result.FailedRecords++
			return nil
		}
		result.AddWarning(row.Number, "skipped: %s", decision.Reason)
		result.SkippedRecords++
		return nil

	case domain.ActionCreate, domain.ActionUpdate:
		entry, err := e.ledger.Apply(ctx, decision, repository.ApplyOptions{
			MinStockLevel:      e.decider.MinStockLevel(),
			AllowNegativeStock: e.config.AllowNegativeStock,
			PerformedBy:        performedBy,
			Source:             source,
		})
		if err != nil {
			if isFatal(ctx, err) {
				return err
			}
			result.AddError(row.Number, "failed to apply %s: %v", decision.Action, err)
			result.FailedRecords++
			return nil
		}

		result.Transactions = append(result.Transactions, entry)
		if decision.Action == domain.ActionCreate {
			result.CreatedItems++
		} else {
			result.UpdatedItems++
		}
		return nil

	default:
		result.AddError(row.Number, "unknown decision action %q", decision.Action)
		result.FailedRecords++
		return nil
	}
}

// isFatal classifies storage-connectivity failures, which abort the batch:
// cancelled contexts, failed connection attempts, a closed pool, and network
// errors. Row-scoped failures (constraint violations, bad data) stay attributed
// to their row.
func isFatal(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, puddle.ErrClosedPool) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
