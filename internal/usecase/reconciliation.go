package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"transaction-reconciler/internal/domain"
)

// ReconciliationUseCase orchestrates the reconciliation process.
type ReconciliationUseCase struct {
	repo   RecordRepository
	logger *zap.Logger
}

// NewReconciliationUseCase creates a new instance of the usecase.
func NewReconciliationUseCase(repo RecordRepository, logger *zap.Logger) *ReconciliationUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationUseCase{repo: repo, logger: logger}
}

// Reconcile loads both sides concurrently and diffs them. A failure on
// either side aborts the run before any reconciliation happens.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, sourceLocator, systemLocator string) (*domain.ReconciliationReport, error) {
	// Step 1: Data Ingestion
	var sourceRecords, systemRecords []domain.NormalizedRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := uc.repo.GetRecords(gctx, sourceLocator)
		if err != nil {
			return fmt.Errorf("could not get source records: %w", err)
		}
		sourceRecords = records
		return nil
	})
	g.Go(func() error {
		records, err := uc.repo.GetRecords(gctx, systemLocator)
		if err != nil {
			return fmt.Errorf("could not get system records: %w", err)
		}
		systemRecords = records
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Step 2: Indexing
	sourceIdx := BuildIndex(sourceRecords)
	systemIdx := BuildIndex(systemRecords)

	uc.logger.Info("ingestion complete",
		zap.Int("source_rows", len(sourceRecords)),
		zap.Int("source_ids", sourceIdx.Len()),
		zap.Int("system_rows", len(systemRecords)),
		zap.Int("system_ids", systemIdx.Len()),
	)

	if sourceIdx.Len() == 0 && systemIdx.Len() == 0 {
		return nil, ErrNoData
	}

	// Step 3: Diff
	report := reconcileIndexes(sourceIdx, systemIdx)

	uc.logger.Info("reconciliation complete",
		zap.Int("missing_in_internal", len(report.MissingInInternal)),
		zap.Int("missing_in_source", len(report.MissingInSource)),
		zap.Int("mismatched_transactions", len(report.MismatchedTransactions)),
	)

	return report, nil
}
