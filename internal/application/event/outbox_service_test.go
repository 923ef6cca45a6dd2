package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/creditcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOutboxRepository is a mock implementation of shared.OutboxRepository
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, before, limit)
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]*shared.OutboxEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[shared.OutboxStatus]int64), args.Error(1)
}

func deadEntry() *shared.OutboxEntry {
	entry := &shared.OutboxEntry{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		EventType:     "CREATED",
		AggregateID:   uuid.New(),
		AggregateType: "Customer",
		Status:        shared.OutboxStatusDead,
		RetryCount:    shared.DefaultMaxRetries,
		MaxRetries:    shared.DefaultMaxRetries,
		LastError:     "broker unavailable",
	}
	return entry
}

func TestOutboxService_GetDeadLetterEntries(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOutboxRepository)
	svc := NewOutboxService(repo, zap.NewNop())

	repo.On("FindDead", ctx, 1, 20).Return([]*shared.OutboxEntry{deadEntry()}, int64(1), nil)

	result, err := svc.GetDeadLetterEntries(ctx, OutboxFilter{})
	require.NoError(t, err)
	assert.Len(t, result.Entries, 1)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, "DEAD", result.Entries[0].Status)
}

func TestOutboxService_RetryDeadEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("dead entry is reset and updated", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewOutboxService(repo, zap.NewNop())
		entry := deadEntry()

		repo.On("FindByID", ctx, entry.ID).Return(entry, nil)
		repo.On("Update", ctx, entry).Return(nil)

		dto, err := svc.RetryDeadEntry(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "PENDING", dto.Status)
		assert.Equal(t, 0, dto.RetryCount)
	})

	t.Run("non-dead entry is rejected", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewOutboxService(repo, zap.NewNop())
		entry := deadEntry()
		entry.Status = shared.OutboxStatusSent

		repo.On("FindByID", ctx, entry.ID).Return(entry, nil)

		_, err := svc.RetryDeadEntry(ctx, entry.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATUS", domainErr.Code)
	})

	t.Run("missing entry yields not found", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewOutboxService(repo, zap.NewNop())
		id := uuid.New()

		repo.On("FindByID", ctx, id).Return(nil, errors.New("not found"))

		_, err := svc.RetryDeadEntry(ctx, id)
		assert.Error(t, err)
	})
}

func TestOutboxService_GetStats(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOutboxRepository)
	svc := NewOutboxService(repo, zap.NewNop())

	repo.On("CountByStatus", ctx).Return(map[shared.OutboxStatus]int64{
		shared.OutboxStatusPending: 3,
		shared.OutboxStatusSent:    10,
		shared.OutboxStatusDead:    1,
	}, nil)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Pending)
	assert.Equal(t, int64(10), stats.Sent)
	assert.Equal(t, int64(1), stats.Dead)
	assert.Equal(t, int64(14), stats.Total)
}
