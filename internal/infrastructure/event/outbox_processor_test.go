package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/creditcore/backend/internal/domain/customer"
	"github.com/creditcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeOutboxRepository is an in-memory OutboxRepository for processor tests
type fakeOutboxRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newFakeOutboxRepository() *fakeOutboxRepository {
	return &fakeOutboxRepository{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *fakeOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *fakeOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending && len(result) < limit {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusFailed && e.NextRetryAt != nil && e.NextRetryAt.Before(before) && len(result) < limit {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			result = append(result, e)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func (r *fakeOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []*shared.OutboxEntry
	for _, id := range ids {
		e, ok := r.entries[id]
		if !ok {
			continue
		}
		if err := e.MarkProcessing(); err != nil {
			continue
		}
		claimed = append(claimed, e)
	}
	return claimed, nil
}

func (r *fakeOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, e := range r.entries {
		if e.Status == shared.OutboxStatusSent && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			delete(r.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

// recordingPublisher records published events and can be set to fail
type recordingPublisher struct {
	mu        sync.Mutex
	published []shared.DomainEvent
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, events...)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func newTestProcessor(t *testing.T, repo shared.OutboxRepository, publisher shared.EventPublisher) (*OutboxProcessor, *EventSerializer) {
	t.Helper()
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)
	return NewOutboxProcessor(repo, publisher, serializer, DefaultOutboxProcessorConfig(), zap.NewNop()), serializer
}

func saveCreatedEntry(t *testing.T, repo *fakeOutboxRepository, serializer *EventSerializer) *shared.OutboxEntry {
	t.Helper()
	c, err := customer.NewCustomer("Iris", "Wong", uuid.NewString()+"@example.com", "+14155550500", 710, 90000)
	require.NoError(t, err)
	evt := customer.NewCreatedEvent(c)
	payload, err := serializer.Serialize(evt)
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(evt, payload)
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

func TestOutboxProcessor_ProcessBatch(t *testing.T) {
	t.Run("marks entry sent after the publisher accepts it", func(t *testing.T) {
		repo := newFakeOutboxRepository()
		publisher := &recordingPublisher{}
		processor, serializer := newTestProcessor(t, repo, publisher)
		entry := saveCreatedEntry(t, repo, serializer)

		processor.processBatch(context.Background())

		stored, err := repo.FindByID(context.Background(), entry.ID)
		require.NoError(t, err)
		assert.Equal(t, shared.OutboxStatusSent, stored.Status)
		assert.NotNil(t, stored.ProcessedAt)
		assert.Equal(t, 1, publisher.count())
	})

	t.Run("publish failure schedules a retry instead of marking sent", func(t *testing.T) {
		repo := newFakeOutboxRepository()
		publisher := &recordingPublisher{err: errors.New("redis unreachable: XADD failed")}
		processor, serializer := newTestProcessor(t, repo, publisher)
		entry := saveCreatedEntry(t, repo, serializer)

		processor.processBatch(context.Background())

		stored, err := repo.FindByID(context.Background(), entry.ID)
		require.NoError(t, err)
		assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
		assert.Equal(t, 1, stored.RetryCount)
		assert.NotNil(t, stored.NextRetryAt)
		assert.Equal(t, "redis unreachable: XADD failed", stored.LastError)
		assert.Nil(t, stored.ProcessedAt)
	})

	t.Run("publish failure exhausting retries moves the entry to the dead letter queue", func(t *testing.T) {
		repo := newFakeOutboxRepository()
		publisher := &recordingPublisher{err: errors.New("redis unreachable")}
		processor, serializer := newTestProcessor(t, repo, publisher)
		entry := saveCreatedEntry(t, repo, serializer)
		entry.MaxRetries = 1

		processor.processBatch(context.Background())

		stored, err := repo.FindByID(context.Background(), entry.ID)
		require.NoError(t, err)
		assert.Equal(t, shared.OutboxStatusDead, stored.Status)
		assert.True(t, stored.IsDead())
	})

	t.Run("undeserializable payload is marked failed", func(t *testing.T) {
		repo := newFakeOutboxRepository()
		publisher := &recordingPublisher{}
		processor, serializer := newTestProcessor(t, repo, publisher)
		entry := saveCreatedEntry(t, repo, serializer)
		entry.EventType = "UNKNOWN_TYPE"

		processor.processBatch(context.Background())

		stored, err := repo.FindByID(context.Background(), entry.ID)
		require.NoError(t, err)
		assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
		assert.Equal(t, 0, publisher.count())
	})
}

func TestDeliveryPublisher(t *testing.T) {
	ctx := context.Background()
	c, err := customer.NewCustomer("Jun", "Park", "jun.park@example.com", "+14155550501", 730, 95000)
	require.NoError(t, err)
	evt := customer.NewCreatedEvent(c)

	t.Run("broker failure propagates and skips the bus", func(t *testing.T) {
		broker := &recordingPublisher{err: errors.New("broker down")}
		bus := &recordingPublisher{}
		publisher := NewDeliveryPublisher(broker, bus)

		err := publisher.Publish(ctx, evt)
		require.Error(t, err)
		assert.Equal(t, 0, bus.count())
	})

	t.Run("delivers to the bus after the broker accepts", func(t *testing.T) {
		broker := &recordingPublisher{}
		bus := &recordingPublisher{}
		publisher := NewDeliveryPublisher(broker, bus)

		require.NoError(t, publisher.Publish(ctx, evt))
		assert.Equal(t, 1, broker.count())
		assert.Equal(t, 1, bus.count())
	})

	t.Run("tolerates nil targets", func(t *testing.T) {
		publisher := NewDeliveryPublisher(nil, nil)
		assert.NoError(t, publisher.Publish(ctx, evt))
	})
}
