package store

import (
	"context"
	"errors"
)

// ErrVersionConflict is returned by Append when the stream gained events
// after expectedVersion was read. The caller reloads and replays its command.
var ErrVersionConflict = errors.New("event stream was modified concurrently")

// PendingEvent is a domain event that has not been persisted yet. The store
// assigns the envelope id, version and timestamp on append.
type PendingEvent struct {
	EventType string
	Data      any
}

// EventStoreInterface defines the interface for event stores
type EventStoreInterface interface {
	// Append persists events at the tail of the aggregate's stream. The write
	// succeeds only if the stream still holds exactly expectedVersion events;
	// otherwise it fails with ErrVersionConflict and nothing is written.
	Append(ctx context.Context, aggregateID, aggregateType string, expectedVersion int, events []PendingEvent) ([]Event, error)

	// ReadStream returns all events for an aggregate in version order.
	ReadStream(ctx context.Context, aggregateID string) ([]Event, error)

	// ReadStreamFrom returns the events with version > afterVersion.
	ReadStreamFrom(ctx context.Context, aggregateID string, afterVersion int) ([]Event, error)

	// GetSnapshot returns the latest snapshot for an aggregate, or nil.
	GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error)

	// SaveSnapshot stores a snapshot, replacing any previous one.
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error

	// GetAllEvents returns every stored event, in append order.
	GetAllEvents(ctx context.Context) ([]Event, error)
}
