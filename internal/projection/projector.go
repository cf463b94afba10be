package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/mohamed-gara/aggregate-refactoring/internal/domain/meetup"
	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store"
	"github.com/mohamed-gara/aggregate-refactoring/internal/readmodel"
)

// Projector maintains the meetup status read models from the event topic.
// Events arrive in stream order per aggregate (partitioned by aggregate id),
// so appending on subscribe and moving on promotion preserves registration
// order without re-sorting.
type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

// HandleEvent consumes one envelope from Kafka.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var envelope store.Event
	if err := json.Unmarshal(value, &envelope); err != nil {
		return err
	}

	if envelope.AggregateType != meetup.AggregateType {
		return nil
	}

	log.Printf("[Projector] Received event: %s (meetup: %s)", envelope.EventType, envelope.AggregateID)

	event, err := meetup.UnmarshalEvent(envelope.EventType, envelope.Data)
	if err != nil {
		return err
	}

	switch e := event.(type) {
	case meetup.MeetupRegistered:
		return p.readStore.Set(store.MeetupsCollection, e.MeetupID, &readmodel.MeetupStatusReadModel{
			ID:           e.MeetupID,
			EventName:    e.EventName,
			Capacity:     e.Capacity,
			StartTime:    e.StartTime,
			Participants: []string{},
			WaitingList:  []string{},
			UpdatedAt:    envelope.Timestamp,
		})

	case meetup.MeetupCapacityIncreased:
		return p.update(e.MeetupID, envelope, func(m *readmodel.MeetupStatusReadModel) {
			m.Capacity = e.NewCapacity
		})

	case meetup.UserSubscribedToMeetup:
		return p.update(e.MeetupID, envelope, func(m *readmodel.MeetupStatusReadModel) {
			m.Participants = append(m.Participants, e.UserID)
		})

	case meetup.UserAddedToWaitingList:
		return p.update(e.MeetupID, envelope, func(m *readmodel.MeetupStatusReadModel) {
			m.WaitingList = append(m.WaitingList, e.UserID)
		})

	case meetup.UserCancelledSubscription:
		return p.update(e.MeetupID, envelope, func(m *readmodel.MeetupStatusReadModel) {
			m.Participants = remove(m.Participants, e.UserID)
			m.WaitingList = remove(m.WaitingList, e.UserID)
		})

	case meetup.UserMovedFromWaitingList:
		return p.update(e.MeetupID, envelope, func(m *readmodel.MeetupStatusReadModel) {
			promote(m, e.UserID)
		})

	case meetup.UsersMovedFromWaitingList:
		return p.update(e.MeetupID, envelope, func(m *readmodel.MeetupStatusReadModel) {
			for _, userID := range e.UserIDs {
				promote(m, userID)
			}
		})
	}

	return nil
}

func (p *Projector) update(meetupID string, envelope store.Event, apply func(*readmodel.MeetupStatusReadModel)) error {
	data, ok, err := p.readStore.Get(store.MeetupsCollection, meetupID)
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("[Projector] Skipping %s for unknown meetup %s", envelope.EventType, meetupID)
		return nil
	}

	m := data.(*readmodel.MeetupStatusReadModel)
	apply(m)
	m.UpdatedAt = envelope.Timestamp
	return p.readStore.Set(store.MeetupsCollection, meetupID, m)
}

// promote moves the user from waiting to participants; absent users are a
// no-op, mirroring the fold tolerance of the write side.
func promote(m *readmodel.MeetupStatusReadModel, userID string) {
	if !contains(m.WaitingList, userID) {
		return
	}
	m.WaitingList = remove(m.WaitingList, userID)
	m.Participants = append(m.Participants, userID)
}

func contains(ids []string, userID string) bool {
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}

func remove(ids []string, userID string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}
