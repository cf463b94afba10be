package meetup

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateSubscription rejects a second subscribe for the same user.
	ErrDuplicateSubscription = errors.New("user already has a subscription")
	// ErrSubscriptionNotFound rejects cancelling a subscription that does not exist.
	ErrSubscriptionNotFound = errors.New("user has no subscription")
	// ErrCapacityNotIncreased rejects capacity changes that do not grow the meetup.
	ErrCapacityNotIncreased = errors.New("new capacity must be greater than current capacity")
	// ErrMeetupNotFound means no Registered event exists for the id.
	ErrMeetupNotFound = errors.New("meetup not found")
)

// Meetup is the aggregate: current state, the full event history it was
// built from, and the number of events already durable at load time. Events
// past Version are the pending tail the repository still has to persist.
// Commands return a new value; a Meetup is never mutated in place.
type Meetup struct {
	State   State
	Events  []Event
	Version int
}

// NewMeetup starts a fresh aggregate with its Registered event pending.
func NewMeetup(id, eventName string, capacity int, startTime time.Time) Meetup {
	registered := MeetupRegistered{
		MeetupID:  id,
		EventName: eventName,
		Capacity:  capacity,
		StartTime: startTime,
	}
	return Meetup{State: EmptyState(), Events: nil, Version: 0}.raise(registered)
}

// Replay reconstructs an aggregate from its persisted stream.
func Replay(events []Event) Meetup {
	return ReplayFrom(events, EmptyState())
}

// ReplayFrom reconstructs an aggregate using a snapshot of a stream prefix,
// folding only the events past the snapshot's cursor.
func ReplayFrom(events []Event, snapshot State) Meetup {
	return Meetup{
		State:   ProjectStateFrom(events, snapshot),
		Events:  events,
		Version: len(events),
	}
}

// PendingEvents returns the unpersisted tail.
func (m Meetup) PendingEvents() []Event {
	return m.Events[m.Version:]
}

// Subscribe adds the user as a participant, or to the waiting list when the
// meetup is already full. Fullness is decided on the state before this
// command's own event. The caller must have checked for an existing
// subscription; see Service.SubscribeUserToMeetup.
func (m Meetup) Subscribe(userID string, registrationTime time.Time) Meetup {
	if m.State.IsFull() {
		return m.raise(UserAddedToWaitingList{
			MeetupID:         m.State.ID,
			UserID:           userID,
			RegistrationTime: registrationTime,
		})
	}
	return m.raise(UserSubscribedToMeetup{
		MeetupID:         m.State.ID,
		UserID:           userID,
		RegistrationTime: registrationTime,
	})
}

// Unsubscribe cancels the user's subscription. When a participant leaves and
// someone is waiting, the earliest waiting user is promoted in the same
// transaction, with the cancellation recorded as the cause. Cancelling a
// waiting user promotes nobody.
func (m Meetup) Unsubscribe(userID string) (Meetup, error) {
	sub := m.State.Subscriptions.FindBy(userID)
	if sub == nil {
		return m, ErrSubscriptionNotFound
	}

	cancelled := UserCancelledSubscription{MeetupID: m.State.ID, UserID: userID}
	events := []Event{cancelled}

	if !sub.Waiting {
		if first := m.State.Subscriptions.FirstInWaitingList(); first != nil {
			events = append(events, UserMovedFromWaitingList{
				MeetupID: m.State.ID,
				UserID:   first.UserID,
				Cause:    cancelled,
			})
		}
	}

	return m.raise(events...), nil
}

// IncreaseCapacityTo grows the meetup and promotes the earliest waiting
// users into the freed slots, in registration order. The promotion event is
// emitted even when nobody is waiting; an empty list folds to a no-op.
// Non-increasing capacities are rejected here, not left to callers.
func (m Meetup) IncreaseCapacityTo(newCapacity int) (Meetup, error) {
	if newCapacity <= m.State.Capacity {
		return m, ErrCapacityNotIncreased
	}

	increased := MeetupCapacityIncreased{MeetupID: m.State.ID, NewCapacity: newCapacity}

	promoted := m.State.Subscriptions.FirstNInWaitingList(newCapacity - m.State.Capacity)
	userIDs := make([]string, 0, len(promoted))
	for _, sub := range promoted {
		userIDs = append(userIDs, sub.UserID)
	}

	return m.raise(increased, UsersMovedFromWaitingList{
		MeetupID: m.State.ID,
		UserIDs:  userIDs,
		Cause:    increased,
	}), nil
}

// raise appends the events and folds them into the state immediately, so the
// aggregate's public state reflects the command synchronously. The fold
// resumes from the current state; only the new tail is applied.
func (m Meetup) raise(events ...Event) Meetup {
	all := make([]Event, 0, len(m.Events)+len(events))
	all = append(all, m.Events...)
	all = append(all, events...)
	return Meetup{
		State:   ProjectStateFrom(all, m.State),
		Events:  all,
		Version: m.Version,
	}
}
