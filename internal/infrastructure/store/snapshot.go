package store

import (
	"encoding/json"
	"time"
)

// SnapshotThreshold defines the number of events after which a snapshot is created
const SnapshotThreshold = 10

// Snapshot represents a point-in-time state of an aggregate. Version is the
// stream version the state reflects, so loading folds only later events.
type Snapshot struct {
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`
	State         json.RawMessage `json:"state"`
	CreatedAt     time.Time       `json:"created_at"`
}
