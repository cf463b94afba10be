package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mohamed-gara/aggregate-refactoring/internal/readmodel"
)

// MeetupsCollection names the read-model collection backing meetup status
// queries; it is the only collection this service projects.
const MeetupsCollection = "meetups"

// PostgresReadStore implements ReadStoreInterface on the read_meetups table.
// Participant lists are stored JSON-encoded; the projector owns their order.
type PostgresReadStore struct {
	db *sql.DB
}

func NewPostgresReadStore(db *sql.DB) *PostgresReadStore {
	return &PostgresReadStore{db: db}
}

// Set upserts a meetup read model
func (rs *PostgresReadStore) Set(collection, id string, data any) error {
	if collection != MeetupsCollection {
		return fmt.Errorf("unknown read model collection %q", collection)
	}
	m, ok := data.(*readmodel.MeetupStatusReadModel)
	if !ok {
		return fmt.Errorf("unexpected read model type %T for collection %q", data, collection)
	}

	participants, err := json.Marshal(m.Participants)
	if err != nil {
		return err
	}
	waitingList, err := json.Marshal(m.WaitingList)
	if err != nil {
		return err
	}

	_, err = rs.db.Exec(
		`INSERT INTO read_meetups (id, event_name, capacity, start_time, participants, waiting_list, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id)
		 DO UPDATE SET event_name = EXCLUDED.event_name,
		               capacity = EXCLUDED.capacity,
		               start_time = EXCLUDED.start_time,
		               participants = EXCLUDED.participants,
		               waiting_list = EXCLUDED.waiting_list,
		               updated_at = EXCLUDED.updated_at`,
		m.ID, m.EventName, m.Capacity, m.StartTime, participants, waitingList, m.UpdatedAt,
	)
	return err
}

// Get retrieves a meetup read model by id
func (rs *PostgresReadStore) Get(collection, id string) (any, bool, error) {
	if collection != MeetupsCollection {
		return nil, false, fmt.Errorf("unknown read model collection %q", collection)
	}

	row := rs.db.QueryRow(
		`SELECT id, event_name, capacity, start_time, participants, waiting_list, updated_at
		 FROM read_meetups
		 WHERE id = $1`,
		id,
	)
	m, err := scanMeetup(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// GetAll retrieves all meetup read models
func (rs *PostgresReadStore) GetAll(collection string) ([]any, error) {
	if collection != MeetupsCollection {
		return nil, fmt.Errorf("unknown read model collection %q", collection)
	}

	rows, err := rs.db.Query(
		`SELECT id, event_name, capacity, start_time, participants, waiting_list, updated_at
		 FROM read_meetups
		 ORDER BY start_time ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		m, err := scanMeetup(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Delete removes a meetup read model
func (rs *PostgresReadStore) Delete(collection, id string) error {
	if collection != MeetupsCollection {
		return fmt.Errorf("unknown read model collection %q", collection)
	}
	_, err := rs.db.Exec("DELETE FROM read_meetups WHERE id = $1", id)
	return err
}

func scanMeetup(scan func(dest ...any) error) (*readmodel.MeetupStatusReadModel, error) {
	var m readmodel.MeetupStatusReadModel
	var participants, waitingList []byte
	if err := scan(&m.ID, &m.EventName, &m.Capacity, &m.StartTime, &participants, &waitingList, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(participants, &m.Participants); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(waitingList, &m.WaitingList); err != nil {
		return nil, err
	}
	return &m, nil
}
