package meetup

import (
	"fmt"
	"time"
)

// State is the current view of one meetup, always derivable as a pure fold
// over the event stream. LastAppliedEventIndex is the 0-based index, within
// the full stream, of the last event folded in; it is the cursor a snapshot
// resumes from.
type State struct {
	ID                    string        `json:"id"`
	Capacity              int           `json:"capacity"`
	EventName             string        `json:"event_name"`
	StartTime             time.Time     `json:"start_time"`
	Subscriptions         Subscriptions `json:"subscriptions"`
	LastAppliedEventIndex int           `json:"last_applied_event_index"`
}

// EmptyState is the fold seed: no events applied yet.
func EmptyState() State {
	return State{LastAppliedEventIndex: -1}
}

func (s State) Participants() []Subscription {
	return s.Subscriptions.Participants()
}

func (s State) WaitingList() []Subscription {
	return s.Subscriptions.WaitingList()
}

func (s State) IsFull() bool {
	return len(s.Subscriptions.Participants()) == s.Capacity
}

func (s State) HasSubscriptionFor(userID string) bool {
	return s.Subscriptions.FindBy(userID) != nil
}

// Apply folds one event into the state. The fold is total: promotion events
// naming absent users are no-ops, so replays and at-least-once delivery
// cannot fail mid-stream.
func (s State) Apply(event Event) State {
	var next State
	switch e := event.(type) {
	case MeetupRegistered:
		next = State{
			ID:                    e.MeetupID,
			Capacity:              e.Capacity,
			EventName:             e.EventName,
			StartTime:             e.StartTime,
			LastAppliedEventIndex: s.LastAppliedEventIndex,
		}
	case MeetupCapacityIncreased:
		next = s
		next.Capacity = e.NewCapacity
	case UserSubscribedToMeetup:
		next = s
		next.Subscriptions = s.Subscriptions.Add(Subscription{
			UserID:           e.UserID,
			RegistrationTime: e.RegistrationTime,
			Waiting:          false,
		})
	case UserAddedToWaitingList:
		next = s
		next.Subscriptions = s.Subscriptions.Add(Subscription{
			UserID:           e.UserID,
			RegistrationTime: e.RegistrationTime,
			Waiting:          true,
		})
	case UserCancelledSubscription:
		next = s
		next.Subscriptions, _ = s.Subscriptions.RemoveBy(e.UserID)
	case UserMovedFromWaitingList:
		next = s
		next.Subscriptions = s.Subscriptions.Confirm(e.UserID)
	case UsersMovedFromWaitingList:
		next = s
		next.Subscriptions = s.Subscriptions.ConfirmMany(e.UserIDs)
	default:
		// unreachable: Event is sealed
		panic(fmt.Sprintf("unhandled meetup event type %T", event))
	}
	next.LastAppliedEventIndex = s.LastAppliedEventIndex + 1
	return next
}

// ProjectState folds a full event stream from scratch.
func ProjectState(events []Event) State {
	return ProjectStateFrom(events, EmptyState())
}

// ProjectStateFrom folds the events not yet reflected in the snapshot. The
// snapshot's cursor indexes the full stream, so folding from any prefix
// snapshot yields the same state as folding from scratch.
func ProjectStateFrom(events []Event, snapshot State) State {
	skip := snapshot.LastAppliedEventIndex + 1
	if skip > len(events) {
		skip = len(events)
	}
	state := snapshot
	for _, event := range events[skip:] {
		state = state.Apply(event)
	}
	return state
}
