package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/kafka"
)

// Event is the envelope a domain event travels in, both at rest and on the
// wire. Version is 1-based and contiguous within an aggregate's stream.
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
}

// EventStore keeps event streams in memory and publishes committed events
// to Kafka. Appends are guarded by an optimistic concurrency check.
type EventStore struct {
	mu        sync.RWMutex
	events    map[string][]Event // aggregateID -> stream in version order
	snapshots map[string]*Snapshot
	producer  *kafka.Producer
}

func NewEventStore(producer *kafka.Producer) *EventStore {
	return &EventStore{
		events:    make(map[string][]Event),
		snapshots: make(map[string]*Snapshot),
		producer:  producer,
	}
}

// Append stores the batch atomically and publishes it to Kafka. The whole
// batch is rejected with ErrVersionConflict if the stream moved past
// expectedVersion, so a cancel-plus-promotion pair commits as one unit.
func (es *EventStore) Append(ctx context.Context, aggregateID, aggregateType string, expectedVersion int, events []PendingEvent) ([]Event, error) {
	stored := make([]Event, 0, len(events))

	es.mu.Lock()
	stream := es.events[aggregateID]
	if len(stream) != expectedVersion {
		es.mu.Unlock()
		return nil, ErrVersionConflict
	}
	for i, pending := range events {
		data, err := json.Marshal(pending.Data)
		if err != nil {
			es.mu.Unlock()
			return nil, err
		}
		stored = append(stored, Event{
			ID:            uuid.New().String(),
			AggregateID:   aggregateID,
			AggregateType: aggregateType,
			EventType:     pending.EventType,
			Data:          data,
			Timestamp:     time.Now(),
			Version:       expectedVersion + i + 1,
		})
	}
	es.events[aggregateID] = append(stream, stored...)
	es.mu.Unlock()

	if es.producer != nil {
		for _, event := range stored {
			if err := es.producer.Publish(ctx, aggregateID, event); err != nil {
				return nil, err
			}
		}
	}

	return stored, nil
}

// ReadStream returns all events for an aggregate
func (es *EventStore) ReadStream(_ context.Context, aggregateID string) ([]Event, error) {
	es.mu.RLock()
	defer es.mu.RUnlock()

	stream := es.events[aggregateID]
	out := make([]Event, len(stream))
	copy(out, stream)
	return out, nil
}

// ReadStreamFrom returns events with version > afterVersion
func (es *EventStore) ReadStreamFrom(_ context.Context, aggregateID string, afterVersion int) ([]Event, error) {
	es.mu.RLock()
	defer es.mu.RUnlock()

	stream := es.events[aggregateID]
	if afterVersion >= len(stream) {
		return nil, nil
	}
	out := make([]Event, len(stream)-afterVersion)
	copy(out, stream[afterVersion:])
	return out, nil
}

// GetSnapshot returns the latest snapshot for an aggregate, or nil
func (es *EventStore) GetSnapshot(_ context.Context, aggregateID string) (*Snapshot, error) {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.snapshots[aggregateID], nil
}

// SaveSnapshot stores a snapshot, replacing any previous one
func (es *EventStore) SaveSnapshot(_ context.Context, snapshot *Snapshot) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.snapshots[snapshot.AggregateID] = snapshot
	return nil
}

// GetAllEvents returns all events across aggregates
func (es *EventStore) GetAllEvents(_ context.Context) ([]Event, error) {
	es.mu.RLock()
	defer es.mu.RUnlock()

	var all []Event
	for _, stream := range es.events {
		all = append(all, stream...)
	}
	return all, nil
}
