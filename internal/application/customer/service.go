package customer

import (
	"context"
	"strings"

	"github.com/creditcore/backend/internal/domain/customer"
	"github.com/creditcore/backend/internal/domain/shared"
	"github.com/creditcore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Service handles customer lifecycle operations
type Service struct {
	customerRepo customer.Repository
}

// NewService creates a new customer Service
func NewService(customerRepo customer.Repository) *Service {
	return &Service{
		customerRepo: customerRepo,
	}
}

// List retrieves customers matching the optional filter criteria.
// With no criteria set the query degenerates to an unfiltered find-all.
func (s *Service) List(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	criteria := filter.ToCriteria()

	var (
		customers []customer.Customer
		total     int64
		err       error
	)
	if criteria.IsEmpty() {
		customers, err = s.customerRepo.FindAll(ctx, domainFilter)
		if err != nil {
			return nil, err
		}
		total, err = s.customerRepo.Count(ctx, domainFilter)
	} else {
		customers, err = s.customerRepo.FindWithCriteria(ctx, criteria, domainFilter)
		if err != nil {
			return nil, err
		}
		total, err = s.customerRepo.CountWithCriteria(ctx, criteria)
	}
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToCustomerResponses(customers), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// GetByID retrieves a customer profile by ID
func (s *Service) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(c)
	return &response, nil
}

// Create registers a new customer profile and emits a created event.
// The unique index on email is authoritative; the existence check here is
// a fast path that avoids burning an aggregate on the common case.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (_ *CustomerResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "customer.create")
	defer func() { telemetry.EndSpan(span, err) }()

	exists, err := s.customerRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	c, err := customer.NewCustomer(req.FirstName, req.LastName, req.Email, req.Phone, req.CreditScore, req.AnnualSalary)
	if err != nil {
		return nil, err
	}

	if err = s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String(telemetry.SpanAttrCustomerID, c.ID.String()),
		attribute.String(telemetry.SpanAttrRiskRating, customer.CreditRating(c.CreditScore)),
	)

	response := ToCustomerResponse(c)
	return &response, nil
}

// Update applies a partial update to a customer profile, recomputes the
// risk score and emits the resulting events
func (s *Service) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (_ *CustomerResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "customer.update",
		attribute.String(telemetry.SpanAttrCustomerID, customerID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	// Stored emails are lowercase, so compare the normalized form or a
	// case variant of the customer's own address trips the conflict check
	if req.Email != nil && strings.ToLower(*req.Email) != c.Email {
		var exists bool
		exists, err = s.customerRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
		}
	}

	upd := customer.Update{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		CreditScore:  req.CreditScore,
		AnnualSalary: req.AnnualSalary,
	}
	if err = c.ApplyUpdate(upd); err != nil {
		return nil, err
	}

	if err = s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int(telemetry.SpanAttrCreditScore, c.CreditScore),
		attribute.String(telemetry.SpanAttrRiskRating, customer.CreditRating(c.CreditScore)),
	)

	response := ToCustomerResponse(c)
	return &response, nil
}

// Delete removes a customer profile and emits a deleted event
func (s *Service) Delete(ctx context.Context, customerID uuid.UUID) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "customer.delete",
		attribute.String(telemetry.SpanAttrCustomerID, customerID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	c.MarkDeleted()

	return s.customerRepo.Delete(ctx, c)
}
