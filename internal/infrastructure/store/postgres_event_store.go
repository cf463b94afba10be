package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/kafka"
)

// uniqueViolation is the PostgreSQL error code raised when the
// (aggregate_id, version) unique constraint rejects a stale append.
const uniqueViolation = "23505"

// PostgresEventStore stores events in PostgreSQL. Optimistic concurrency is
// carried by a unique constraint on (aggregate_id, version): two writers that
// read the same version compute the same next version, and the second insert
// fails instead of silently forking the stream.
type PostgresEventStore struct {
	db       *sql.DB
	producer *kafka.Producer
}

func NewPostgresEventStore(db *sql.DB, producer *kafka.Producer) *PostgresEventStore {
	return &PostgresEventStore{
		db:       db,
		producer: producer,
	}
}

// Append inserts the batch in one transaction and publishes it to Kafka.
func (es *PostgresEventStore) Append(ctx context.Context, aggregateID, aggregateType string, expectedVersion int, events []PendingEvent) ([]Event, error) {
	tx, err := es.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var currentVersion int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM events WHERE aggregate_id = $1",
		aggregateID,
	).Scan(&currentVersion)
	if err != nil {
		return nil, err
	}
	if currentVersion != expectedVersion {
		return nil, ErrVersionConflict
	}

	stored := make([]Event, 0, len(events))
	for i, pending := range events {
		data, err := json.Marshal(pending.Data)
		if err != nil {
			return nil, err
		}
		event := Event{
			ID:            uuid.New().String(),
			AggregateID:   aggregateID,
			AggregateType: aggregateType,
			EventType:     pending.EventType,
			Data:          data,
			Timestamp:     time.Now(),
			Version:       expectedVersion + i + 1,
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (id, aggregate_id, aggregate_type, event_type, data, version, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			event.ID,
			event.AggregateID,
			event.AggregateType,
			event.EventType,
			event.Data,
			event.Version,
			event.Timestamp,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
				return nil, ErrVersionConflict
			}
			return nil, err
		}
		stored = append(stored, event)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if es.producer != nil {
		for _, event := range stored {
			if err := es.producer.Publish(ctx, aggregateID, event); err != nil {
				return nil, err
			}
		}
	}

	return stored, nil
}

// ReadStream returns all events for an aggregate in version order
func (es *PostgresEventStore) ReadStream(ctx context.Context, aggregateID string) ([]Event, error) {
	return es.queryEvents(ctx,
		`SELECT id, aggregate_id, aggregate_type, event_type, data, version, created_at
		 FROM events
		 WHERE aggregate_id = $1
		 ORDER BY version ASC`,
		aggregateID,
	)
}

// ReadStreamFrom returns events with version > afterVersion
func (es *PostgresEventStore) ReadStreamFrom(ctx context.Context, aggregateID string, afterVersion int) ([]Event, error) {
	return es.queryEvents(ctx,
		`SELECT id, aggregate_id, aggregate_type, event_type, data, version, created_at
		 FROM events
		 WHERE aggregate_id = $1 AND version > $2
		 ORDER BY version ASC`,
		aggregateID, afterVersion,
	)
}

// GetAllEvents returns all events in append order
func (es *PostgresEventStore) GetAllEvents(ctx context.Context) ([]Event, error) {
	return es.queryEvents(ctx,
		`SELECT id, aggregate_id, aggregate_type, event_type, data, version, created_at
		 FROM events
		 ORDER BY created_at ASC`,
	)
}

func (es *PostgresEventStore) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := es.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.Data, &e.Version, &e.Timestamp); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetSnapshot returns the latest snapshot for an aggregate, or nil
func (es *PostgresEventStore) GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error) {
	var s Snapshot
	err := es.db.QueryRowContext(ctx,
		`SELECT aggregate_id, aggregate_type, version, state, created_at
		 FROM snapshots
		 WHERE aggregate_id = $1`,
		aggregateID,
	).Scan(&s.AggregateID, &s.AggregateType, &s.Version, &s.State, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSnapshot upserts the snapshot for an aggregate
func (es *PostgresEventStore) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	_, err := es.db.ExecContext(ctx,
		`INSERT INTO snapshots (aggregate_id, aggregate_type, version, state, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (aggregate_id)
		 DO UPDATE SET version = EXCLUDED.version, state = EXCLUDED.state, created_at = EXCLUDED.created_at`,
		snapshot.AggregateID,
		snapshot.AggregateType,
		snapshot.Version,
		snapshot.State,
		snapshot.CreatedAt,
	)
	return err
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
