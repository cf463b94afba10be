package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store"
)

// MockEventStore is a mock implementation of EventStoreInterface for testing
type MockEventStore struct {
	mu        sync.RWMutex
	events    map[string][]store.Event
	snapshots map[string]*store.Snapshot

	// For tracking calls in tests
	AppendCalls    []AppendCall
	AppendErr      error
	AppendCallback func(ctx context.Context, aggregateID, aggregateType string, expectedVersion int, events []store.PendingEvent) ([]store.Event, error)
	SnapshotSaves  []*store.Snapshot
}

// AppendCall records parameters passed to Append
type AppendCall struct {
	AggregateID     string
	AggregateType   string
	ExpectedVersion int
	Events          []store.PendingEvent
}

// NewMockEventStore creates a new MockEventStore
func NewMockEventStore() *MockEventStore {
	return &MockEventStore{
		events:    make(map[string][]store.Event),
		snapshots: make(map[string]*store.Snapshot),
	}
}

// Append stores the batch in memory with the same optimistic check as the
// real stores.
func (m *MockEventStore) Append(ctx context.Context, aggregateID, aggregateType string, expectedVersion int, events []store.PendingEvent) ([]store.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls = append(m.AppendCalls, AppendCall{
		AggregateID:     aggregateID,
		AggregateType:   aggregateType,
		ExpectedVersion: expectedVersion,
		Events:          events,
	})

	if m.AppendCallback != nil {
		return m.AppendCallback(ctx, aggregateID, aggregateType, expectedVersion, events)
	}
	if m.AppendErr != nil {
		return nil, m.AppendErr
	}

	stream := m.events[aggregateID]
	if len(stream) != expectedVersion {
		return nil, store.ErrVersionConflict
	}

	stored := make([]store.Event, 0, len(events))
	for i, pending := range events {
		data, err := json.Marshal(pending.Data)
		if err != nil {
			return nil, err
		}
		stored = append(stored, store.Event{
			ID:            uuid.New().String(),
			AggregateID:   aggregateID,
			AggregateType: aggregateType,
			EventType:     pending.EventType,
			Data:          data,
			Timestamp:     time.Now(),
			Version:       expectedVersion + i + 1,
		})
	}
	m.events[aggregateID] = append(stream, stored...)
	return stored, nil
}

// ReadStream returns events for an aggregate
func (m *MockEventStore) ReadStream(_ context.Context, aggregateID string) ([]store.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]store.Event(nil), m.events[aggregateID]...), nil
}

// ReadStreamFrom returns events with version > afterVersion
func (m *MockEventStore) ReadStreamFrom(_ context.Context, aggregateID string, afterVersion int) ([]store.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stream := m.events[aggregateID]
	if afterVersion >= len(stream) {
		return nil, nil
	}
	return append([]store.Event(nil), stream[afterVersion:]...), nil
}

// GetSnapshot returns the stored snapshot, or nil
func (m *MockEventStore) GetSnapshot(_ context.Context, aggregateID string) (*store.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshots[aggregateID], nil
}

// SaveSnapshot stores a snapshot and records the call
func (m *MockEventStore) SaveSnapshot(_ context.Context, snapshot *store.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.AggregateID] = snapshot
	m.SnapshotSaves = append(m.SnapshotSaves, snapshot)
	return nil
}

// GetAllEvents returns all events
func (m *MockEventStore) GetAllEvents(_ context.Context) ([]store.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []store.Event
	for _, stream := range m.events {
		all = append(all, stream...)
	}
	return all, nil
}

// Reset clears all events and recorded calls
func (m *MockEventStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[string][]store.Event)
	m.snapshots = make(map[string]*store.Snapshot)
	m.AppendCalls = nil
	m.SnapshotSaves = nil
	m.AppendErr = nil
	m.AppendCallback = nil
}

// SeedEvent appends an event directly, bypassing call recording
func (m *MockEventStore) SeedEvent(aggregateID, aggregateType, eventType string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	m.events[aggregateID] = append(m.events[aggregateID], store.Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       len(m.events[aggregateID]) + 1,
	})
	return nil
}
