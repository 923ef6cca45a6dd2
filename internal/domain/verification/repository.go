package verification

import (
	"context"

	"github.com/creditcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for salary certificate persistence
type Repository interface {
	// FindByID finds a certificate by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SalaryCertificate, error)

	// FindLatestByNationalID finds the most recent certificate for a national ID
	FindLatestByNationalID(ctx context.Context, nationalID string) (*SalaryCertificate, error)

	// FindAll finds all certificates matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SalaryCertificate, error)

	// Save persists a certificate
	Save(ctx context.Context, certificate *SalaryCertificate) error

	// Count counts certificates matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
