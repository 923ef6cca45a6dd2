package customer

import (
	"context"

	"github.com/creditcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for customer persistence
type Repository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByEmail finds a customer by email
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindAll finds all customers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// FindWithCriteria finds customers matching the given search criteria
	FindWithCriteria(ctx context.Context, criteria FilterCriteria, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer and persists its pending
	// domain events to the outbox within the same transaction
	Save(ctx context.Context, customer *Customer) error

	// Delete removes a customer and persists its pending domain events
	// to the outbox within the same transaction
	Delete(ctx context.Context, customer *Customer) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountWithCriteria counts customers matching the given search criteria
	CountWithCriteria(ctx context.Context, criteria FilterCriteria) (int64, error)

	// ExistsByEmail checks if a customer with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
