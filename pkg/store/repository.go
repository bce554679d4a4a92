package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/plaenen/backoffice/pkg/observability"
)

// Repository provides persistence operations for a single aggregate type.
// Loading replays the full event history through the aggregate's own
// ApplyEvent dispatch; saving appends conditionally on the stream version not
// having advanced since load.
type Repository[T eventsourcing.Aggregate] struct {
	eventStore EventStore
	factory    func(id string) T
	publisher  EventPublisher
	metrics    *observability.Metrics
}

// RepositoryOption customizes a Repository.
type RepositoryOption[T eventsourcing.Aggregate] func(*Repository[T])

// WithPublisher publishes committed events to the given publisher after a
// successful append.
func WithPublisher[T eventsourcing.Aggregate](publisher EventPublisher) RepositoryOption[T] {
	return func(r *Repository[T]) {
		r.publisher = publisher
	}
}

// WithMetrics records load/save counters on the given instruments.
func WithMetrics[T eventsourcing.Aggregate](metrics *observability.Metrics) RepositoryOption[T] {
	return func(r *Repository[T]) {
		r.metrics = metrics
	}
}

// NewRepository creates a new repository for the given aggregate type.
// factory creates a new, empty aggregate instance for the given ID.
func NewRepository[T eventsourcing.Aggregate](
	eventStore EventStore,
	factory func(id string) T,
	opts ...RepositoryOption[T],
) *Repository[T] {
	r := &Repository[T]{
		eventStore: eventStore,
		factory:    factory,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load loads an aggregate by ID, folding its event history from empty.
func (r *Repository[T]) Load(ctx context.Context, id string) (T, error) {
	var zero T

	events, err := r.eventStore.LoadEvents(id, 0)
	if err != nil {
		return zero, fmt.Errorf("failed to load events: %w", err)
	}

	if len(events) == 0 {
		return zero, eventsourcing.ErrAggregateNotFound
	}

	aggregate := r.factory(id)

	for _, event := range events {
		payload, err := event.Payload()
		if err != nil {
			return zero, fmt.Errorf("failed to decode event %s: %w", event.EventType, err)
		}
		if err := aggregate.ApplyEvent(payload); err != nil {
			return zero, fmt.Errorf("failed to apply event %s: %w", event.EventType, err)
		}
	}

	// Sync the aggregate version with the loaded history.
	if agg, ok := any(aggregate).(interface {
		LoadFromHistory([]*eventsourcing.Event) error
	}); ok {
		if err := agg.LoadFromHistory(events); err != nil {
			return zero, fmt.Errorf("failed to load history: %w", err)
		}
	}

	if r.metrics != nil {
		r.metrics.AggregateLoads.Add(ctx, 1)
	}

	return aggregate, nil
}

// Save persists an aggregate's uncommitted events, conditionally on the
// stream version not having advanced since load.
func (r *Repository[T]) Save(ctx context.Context, aggregate T) error {
	uncommittedEvents := aggregate.UncommittedEvents()
	if len(uncommittedEvents) == 0 {
		return nil
	}

	expectedVersion := aggregate.Version() - int64(len(uncommittedEvents))

	if err := r.eventStore.AppendEvents(aggregate.ID(), expectedVersion, uncommittedEvents); err != nil {
		if r.metrics != nil && errors.Is(err, eventsourcing.ErrConcurrencyConflict) {
			r.metrics.ConcurrencyConflicts.Add(ctx, 1)
		}
		return fmt.Errorf("failed to append events: %w", err)
	}

	if r.metrics != nil {
		r.metrics.RepositorySaves.Add(ctx, 1)
		r.metrics.EventsAppended.Add(ctx, int64(len(uncommittedEvents)))
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(uncommittedEvents); err != nil {
			return fmt.Errorf("failed to publish events: %w", err)
		}
		if r.metrics != nil {
			r.metrics.EventsPublished.Add(ctx, int64(len(uncommittedEvents)))
		}
	}

	aggregate.ClearUncommittedEvents()

	return nil
}

// Exists checks if an aggregate exists in the event store.
func (r *Repository[T]) Exists(id string) (bool, error) {
	version, err := r.eventStore.GetAggregateVersion(id)
	if err != nil {
		return false, fmt.Errorf("failed to check aggregate existence: %w", err)
	}
	return version > 0, nil
}

// RetryOnConflict executes fn with retry on optimistic concurrency conflicts.
// fn receives a freshly loaded aggregate on each attempt.
func (r *Repository[T]) RetryOnConflict(ctx context.Context, id string, maxRetries int, fn func(T) error) error {
	for attempt := 0; ; attempt++ {
		agg, err := r.Load(ctx, id)
		if err != nil {
			return err
		}

		err = fn(agg)
		if err == nil {
			return nil
		}

		if !errors.Is(err, eventsourcing.ErrConcurrencyConflict) || attempt == maxRetries {
			return err
		}

		backoff := time.Duration(10*(1<<uint(attempt))) * time.Millisecond
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
