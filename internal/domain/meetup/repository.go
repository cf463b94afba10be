package meetup

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store"
)

// IDGenerator hands out aggregate ids. Injected so the domain carries no
// global counter; production uses UUIDs, tests use a sequence.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.New().String() }

// SequenceGenerator issues deterministic ids, mainly for tests.
type SequenceGenerator struct {
	counter atomic.Int64
}

func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("meetup-%d", g.counter.Add(1))
}

// Repository loads meetups by replaying their stream and persists only the
// pending tail, guarded by the store's optimistic concurrency check.
type Repository struct {
	eventStore store.EventStoreInterface
	ids        IDGenerator
}

func NewRepository(eventStore store.EventStoreInterface, ids IDGenerator) *Repository {
	return &Repository{eventStore: eventStore, ids: ids}
}

func (r *Repository) GenerateID() string {
	return r.ids.NewID()
}

// FindByID reconstructs the aggregate from its stream, folding from the
// latest snapshot when one exists. An id with no Registered event is
// rejected here, never defaulted to an empty aggregate.
func (r *Repository) FindByID(ctx context.Context, meetupID string) (Meetup, error) {
	records, err := r.eventStore.ReadStream(ctx, meetupID)
	if err != nil {
		return Meetup{}, fmt.Errorf("failed to read stream %s: %w", meetupID, err)
	}
	if len(records) == 0 {
		return Meetup{}, fmt.Errorf("%w: %s", ErrMeetupNotFound, meetupID)
	}

	events, err := DecodeStream(records)
	if err != nil {
		return Meetup{}, err
	}

	seed := EmptyState()
	snapshot, err := r.eventStore.GetSnapshot(ctx, meetupID)
	if err != nil {
		return Meetup{}, fmt.Errorf("failed to get snapshot %s: %w", meetupID, err)
	}
	if snapshot != nil {
		var state State
		if err := json.Unmarshal(snapshot.State, &state); err != nil {
			return Meetup{}, fmt.Errorf("failed to unmarshal snapshot %s: %w", meetupID, err)
		}
		seed = state
	}

	return ReplayFrom(events, seed), nil
}

// Save appends the pending tail atomically at the version the aggregate was
// loaded with. A concurrent writer surfaces as store.ErrVersionConflict and
// nothing is written. On success the returned aggregate carries the new
// durable version.
func (r *Repository) Save(ctx context.Context, m Meetup) (Meetup, error) {
	pending := m.PendingEvents()
	if len(pending) == 0 {
		return m, nil
	}

	if _, err := r.eventStore.Append(ctx, m.State.ID, AggregateType, m.Version, EncodeEvents(pending)); err != nil {
		return m, err
	}

	saved := m
	saved.Version = len(m.Events)
	r.maybeSnapshot(ctx, saved, m.Version)
	return saved, nil
}

// maybeSnapshot stores the folded state each time the stream crosses the
// snapshot threshold. Batches can skip exact multiples, so crossing is
// checked, not divisibility. Failures are logged and ignored; a snapshot is
// an optimization, the stream stays the source of truth.
func (r *Repository) maybeSnapshot(ctx context.Context, m Meetup, previousVersion int) {
	if previousVersion/store.SnapshotThreshold == m.Version/store.SnapshotThreshold {
		return
	}

	state, err := json.Marshal(m.State)
	if err != nil {
		log.Printf("[Repository] Failed to marshal snapshot state for meetup %s: %v", m.State.ID, err)
		return
	}
	err = r.eventStore.SaveSnapshot(ctx, &store.Snapshot{
		AggregateID:   m.State.ID,
		AggregateType: AggregateType,
		Version:       m.Version,
		State:         state,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		log.Printf("[Repository] Failed to save snapshot for meetup %s: %v", m.State.ID, err)
	}
}
