package customer

import (
	"context"
	"errors"
	"testing"

	"github.com/creditcore/backend/internal/domain/customer"
	"github.com/creditcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of customer.Repository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindWithCriteria(ctx context.Context, criteria customer.FilterCriteria, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, criteria, filter)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) CountWithCriteria(ctx context.Context, criteria customer.FilterCriteria) (int64, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newTestCustomer(t *testing.T) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer("John", "Doe", "john.doe@example.com", "", 720, 85_000)
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates customer and saves pending created event", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)

		repo.On("ExistsByEmail", ctx, "john.doe@example.com").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil).Run(func(args mock.Arguments) {
			saved := args.Get(1).(*customer.Customer)
			events := saved.GetDomainEvents()
			require.Len(t, events, 1)
			assert.Equal(t, customer.EventTypeCreated, events[0].EventType())
		})

		resp, err := svc.Create(ctx, CreateCustomerRequest{
			FirstName:    "John",
			LastName:     "Doe",
			Email:        "john.doe@example.com",
			CreditScore:  720,
			AnnualSalary: 85_000,
		})

		require.NoError(t, err)
		assert.Equal(t, "John Doe", resp.FullName)
		assert.Equal(t, "Good", resp.CreditRating)
		assert.InDelta(t, customer.RiskScore(720, 85_000), resp.CreditRiskScore, 1e-9)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email yields conflict without saving", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)

		repo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

		_, err := svc.Create(ctx, CreateCustomerRequest{
			FirstName:    "John",
			LastName:     "Doe",
			Email:        "taken@example.com",
			CreditScore:  720,
			AnnualSalary: 85_000,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid profile is rejected", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)

		repo.On("ExistsByEmail", ctx, "john@example.com").Return(false, nil)

		_, err := svc.Create(ctx, CreateCustomerRequest{
			FirstName:    "John",
			LastName:     "Doe",
			Email:        "john@example.com",
			CreditScore:  200,
			AnnualSalary: 85_000,
		})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns projected view", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)
		c := newTestCustomer(t)

		repo.On("FindByID", ctx, c.ID).Return(c, nil)

		resp, err := svc.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, resp.ID)
		assert.Equal(t, "John Doe", resp.FullName)
	})

	t.Run("missing customer yields not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)
		id := uuid.New()

		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.GetByID(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	score := func(v int) *int { return &v }
	str := func(v string) *string { return &v }

	t.Run("partial update rescores and saves", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)
		c := newTestCustomer(t)

		repo.On("FindByID", ctx, c.ID).Return(c, nil)
		repo.On("Save", ctx, c).Return(nil)

		resp, err := svc.Update(ctx, c.ID, UpdateCustomerRequest{CreditScore: score(800)})

		require.NoError(t, err)
		assert.Equal(t, 800, resp.CreditScore)
		assert.Equal(t, "John", resp.FirstName)
		assert.InDelta(t, customer.RiskScore(800, 85_000), resp.CreditRiskScore, 1e-9)

		events := c.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, customer.EventTypeUpdated, events[0].EventType())
		assert.Equal(t, customer.EventTypeCreditScoreUpdated, events[1].EventType())
	})

	t.Run("changing email to a taken address yields conflict", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)
		c := newTestCustomer(t)

		repo.On("FindByID", ctx, c.ID).Return(c, nil)
		repo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

		_, err := svc.Update(ctx, c.ID, UpdateCustomerRequest{Email: str("taken@example.com")})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("changing email case keeps the same address without conflict", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)
		c := newTestCustomer(t)

		repo.On("FindByID", ctx, c.ID).Return(c, nil)
		repo.On("Save", ctx, c).Return(nil)

		resp, err := svc.Update(ctx, c.ID, UpdateCustomerRequest{Email: str("John.Doe@example.com")})

		require.NoError(t, err)
		assert.Equal(t, "john.doe@example.com", resp.Email)
		repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})

	t.Run("missing customer yields not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)
		id := uuid.New()

		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, id, UpdateCustomerRequest{FirstName: str("Jane")})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("marks deleted and delegates to repository", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)
		c := newTestCustomer(t)

		repo.On("FindByID", ctx, c.ID).Return(c, nil)
		repo.On("Delete", ctx, c).Return(nil).Run(func(args mock.Arguments) {
			deleted := args.Get(1).(*customer.Customer)
			events := deleted.GetDomainEvents()
			require.Len(t, events, 1)
			assert.Equal(t, customer.EventTypeDeleted, events[0].EventType())
		})

		require.NoError(t, svc.Delete(ctx, c.ID))
		repo.AssertExpectations(t)
	})

	t.Run("missing customer yields not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)
		id := uuid.New()

		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, id), shared.ErrNotFound)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("empty filter degenerates to find all", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)

		repo.On("FindAll", ctx, mock.Anything).Return([]customer.Customer{}, nil)
		repo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

		result, err := svc.List(ctx, CustomerListFilter{})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "FindWithCriteria", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "CountWithCriteria", mock.Anything, mock.Anything)
	})

	t.Run("filter values are passed through as criteria", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)
		minScore := 700

		repo.On("FindWithCriteria", ctx, mock.MatchedBy(func(c customer.FilterCriteria) bool {
			return c.MinCreditScore != nil && *c.MinCreditScore == 700 &&
				c.FirstNameContains != nil && *c.FirstNameContains == "Jo"
		}), mock.Anything).Return([]customer.Customer{}, nil)
		repo.On("CountWithCriteria", ctx, mock.Anything).Return(int64(0), nil)

		_, err := svc.List(ctx, CustomerListFilter{FirstName: "Jo", MinCreditScore: &minScore})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("repository errors propagate", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewService(repo)

		repo.On("FindAll", ctx, mock.Anything).
			Return([]customer.Customer{}, errors.New("db down"))

		_, err := svc.List(ctx, CustomerListFilter{})
		assert.Error(t, err)
	})
}
