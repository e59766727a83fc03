package usecase

import (
	"context"

	"transaction-reconciler/internal/domain"
)

// RecordRepository defines the interface for fetching normalized records.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go RecordRepository
type RecordRepository interface {
	GetRecords(ctx context.Context, locator string) ([]domain.NormalizedRecord, error)
}
