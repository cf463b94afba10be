package projection

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamed-gara/aggregate-refactoring/internal/domain/meetup"
	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store"
	"github.com/mohamed-gara/aggregate-refactoring/internal/readmodel"
)

var projectionTime = time.Date(2019, 6, 15, 20, 0, 0, 0, time.UTC)

func envelopeFor(t *testing.T, event meetup.Event) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	value, err := json.Marshal(store.Event{
		ID:            "evt-1",
		AggregateID:   event.AggregateID(),
		AggregateType: meetup.AggregateType,
		EventType:     event.EventType(),
		Data:          data,
		Timestamp:     projectionTime,
		Version:       1,
	})
	require.NoError(t, err)
	return value
}

func feed(t *testing.T, p *Projector, events ...meetup.Event) {
	t.Helper()
	for _, event := range events {
		require.NoError(t, p.HandleEvent(context.Background(), []byte(event.AggregateID()), envelopeFor(t, event)))
	}
}

func modelFor(t *testing.T, rs store.ReadStoreInterface, meetupID string) *readmodel.MeetupStatusReadModel {
	t.Helper()
	data, ok, err := rs.Get(store.MeetupsCollection, meetupID)
	require.NoError(t, err)
	require.True(t, ok)
	return data.(*readmodel.MeetupStatusReadModel)
}

func newTestProjector() (*Projector, *store.ReadStore) {
	rs := store.NewReadStore()
	return NewProjector(rs), rs
}

// ============================================
// Event handling
// ============================================

func TestProjector_RegisteredCreatesModel(t *testing.T) {
	p, rs := newTestProjector()

	feed(t, p, meetup.MeetupRegistered{MeetupID: "m1", EventName: "Coding dojo", Capacity: 2, StartTime: projectionTime})

	m := modelFor(t, rs, "m1")
	assert.Equal(t, "Coding dojo", m.EventName)
	assert.Equal(t, 2, m.Capacity)
	assert.Empty(t, m.Participants)
	assert.Empty(t, m.WaitingList)
	assert.Equal(t, projectionTime, m.UpdatedAt)
}

func TestProjector_SubscriptionsLandInArrivalOrder(t *testing.T) {
	p, rs := newTestProjector()

	feed(t, p,
		meetup.MeetupRegistered{MeetupID: "m1", EventName: "Coding dojo", Capacity: 2, StartTime: projectionTime},
		meetup.UserSubscribedToMeetup{MeetupID: "m1", UserID: "Alice", RegistrationTime: projectionTime},
		meetup.UserSubscribedToMeetup{MeetupID: "m1", UserID: "Bob", RegistrationTime: projectionTime},
		meetup.UserAddedToWaitingList{MeetupID: "m1", UserID: "Charles", RegistrationTime: projectionTime},
	)

	m := modelFor(t, rs, "m1")
	assert.Equal(t, []string{"Alice", "Bob"}, m.Participants)
	assert.Equal(t, []string{"Charles"}, m.WaitingList)
}

func TestProjector_CancellationWithPromotion(t *testing.T) {
	p, rs := newTestProjector()
	cancelled := meetup.UserCancelledSubscription{MeetupID: "m1", UserID: "Alice"}

	feed(t, p,
		meetup.MeetupRegistered{MeetupID: "m1", EventName: "Coding dojo", Capacity: 2, StartTime: projectionTime},
		meetup.UserSubscribedToMeetup{MeetupID: "m1", UserID: "Alice", RegistrationTime: projectionTime},
		meetup.UserSubscribedToMeetup{MeetupID: "m1", UserID: "Bob", RegistrationTime: projectionTime},
		meetup.UserAddedToWaitingList{MeetupID: "m1", UserID: "Charles", RegistrationTime: projectionTime},
		cancelled,
		meetup.UserMovedFromWaitingList{MeetupID: "m1", UserID: "Charles", Cause: cancelled},
	)

	m := modelFor(t, rs, "m1")
	assert.Equal(t, []string{"Bob", "Charles"}, m.Participants)
	assert.Empty(t, m.WaitingList)
}

func TestProjector_WaitingUserCancellation(t *testing.T) {
	p, rs := newTestProjector()

	feed(t, p,
		meetup.MeetupRegistered{MeetupID: "m1", EventName: "Coding dojo", Capacity: 1, StartTime: projectionTime},
		meetup.UserSubscribedToMeetup{MeetupID: "m1", UserID: "Alice", RegistrationTime: projectionTime},
		meetup.UserAddedToWaitingList{MeetupID: "m1", UserID: "Bob", RegistrationTime: projectionTime},
		meetup.UserCancelledSubscription{MeetupID: "m1", UserID: "Bob"},
	)

	m := modelFor(t, rs, "m1")
	assert.Equal(t, []string{"Alice"}, m.Participants)
	assert.Empty(t, m.WaitingList)
}

func TestProjector_CapacityIncreaseWithBatchPromotion(t *testing.T) {
	p, rs := newTestProjector()
	increased := meetup.MeetupCapacityIncreased{MeetupID: "m1", NewCapacity: 4}

	feed(t, p,
		meetup.MeetupRegistered{MeetupID: "m1", EventName: "Coding dojo", Capacity: 2, StartTime: projectionTime},
		meetup.UserSubscribedToMeetup{MeetupID: "m1", UserID: "Alice", RegistrationTime: projectionTime},
		meetup.UserSubscribedToMeetup{MeetupID: "m1", UserID: "Bob", RegistrationTime: projectionTime},
		meetup.UserAddedToWaitingList{MeetupID: "m1", UserID: "Charles", RegistrationTime: projectionTime},
		meetup.UserAddedToWaitingList{MeetupID: "m1", UserID: "David", RegistrationTime: projectionTime},
		meetup.UserAddedToWaitingList{MeetupID: "m1", UserID: "Emily", RegistrationTime: projectionTime},
		increased,
		meetup.UsersMovedFromWaitingList{MeetupID: "m1", UserIDs: []string{"Charles", "David"}, Cause: increased},
	)

	m := modelFor(t, rs, "m1")
	assert.Equal(t, 4, m.Capacity)
	assert.Equal(t, []string{"Alice", "Bob", "Charles", "David"}, m.Participants)
	assert.Equal(t, []string{"Emily"}, m.WaitingList)
}

func TestProjector_PromotionOfAbsentUserIsNoOp(t *testing.T) {
	p, rs := newTestProjector()
	cancelled := meetup.UserCancelledSubscription{MeetupID: "m1", UserID: "Alice"}

	feed(t, p,
		meetup.MeetupRegistered{MeetupID: "m1", EventName: "Coding dojo", Capacity: 2, StartTime: projectionTime},
		meetup.UserSubscribedToMeetup{MeetupID: "m1", UserID: "Alice", RegistrationTime: projectionTime},
		meetup.UserMovedFromWaitingList{MeetupID: "m1", UserID: "Ghost", Cause: cancelled},
	)

	m := modelFor(t, rs, "m1")
	assert.Equal(t, []string{"Alice"}, m.Participants)
	assert.Empty(t, m.WaitingList)
}

// ============================================
// Envelope filtering
// ============================================

func TestProjector_IgnoresOtherAggregateTypes(t *testing.T) {
	p, rs := newTestProjector()

	value, err := json.Marshal(store.Event{
		AggregateID:   "o1",
		AggregateType: "Order",
		EventType:     "OrderPlaced",
		Data:          json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	require.NoError(t, p.HandleEvent(context.Background(), []byte("o1"), value))

	_, ok, err := rs.Get(store.MeetupsCollection, "o1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProjector_EventForUnknownMeetupIsSkipped(t *testing.T) {
	p, rs := newTestProjector()

	feed(t, p, meetup.UserSubscribedToMeetup{MeetupID: "missing", UserID: "Alice", RegistrationTime: projectionTime})

	_, ok, err := rs.Get(store.MeetupsCollection, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProjector_MalformedEnvelope(t *testing.T) {
	p, _ := newTestProjector()

	err := p.HandleEvent(context.Background(), []byte("m1"), []byte(`{not json`))

	assert.Error(t, err)
}
