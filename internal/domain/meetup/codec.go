package meetup

import (
	"encoding/json"
	"fmt"

	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store"
)

// UnmarshalEvent decodes an envelope payload into its concrete event type.
// Cause fields round-trip because they are nested structs in the payload.
func UnmarshalEvent(eventType string, data []byte) (Event, error) {
	switch eventType {
	case EventMeetupRegistered:
		var e MeetupRegistered
		err := unmarshal(data, &e)
		return e, err
	case EventMeetupCapacityIncreased:
		var e MeetupCapacityIncreased
		err := unmarshal(data, &e)
		return e, err
	case EventUserSubscribedToMeetup:
		var e UserSubscribedToMeetup
		err := unmarshal(data, &e)
		return e, err
	case EventUserAddedToWaitingList:
		var e UserAddedToWaitingList
		err := unmarshal(data, &e)
		return e, err
	case EventUserCancelledSubscription:
		var e UserCancelledSubscription
		err := unmarshal(data, &e)
		return e, err
	case EventUserMovedFromWaitingList:
		var e UserMovedFromWaitingList
		err := unmarshal(data, &e)
		return e, err
	case EventUsersMovedFromWaitingList:
		var e UsersMovedFromWaitingList
		err := unmarshal(data, &e)
		return e, err
	default:
		return nil, fmt.Errorf("unknown meetup event type %q", eventType)
	}
}

func unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}
	return nil
}

// DecodeStream converts stored envelopes back into domain events.
func DecodeStream(records []store.Event) ([]Event, error) {
	events := make([]Event, 0, len(records))
	for _, record := range records {
		event, err := UnmarshalEvent(record.EventType, record.Data)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// EncodeEvents wraps domain events as pending envelopes for the store.
func EncodeEvents(events []Event) []store.PendingEvent {
	pending := make([]store.PendingEvent, 0, len(events))
	for _, event := range events {
		pending = append(pending, store.PendingEvent{
			EventType: event.EventType(),
			Data:      event,
		})
	}
	return pending
}
