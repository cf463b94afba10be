package meetup

import "time"

const AggregateType = "Meetup"

const (
	EventMeetupRegistered          = "MeetupRegistered"
	EventMeetupCapacityIncreased   = "MeetupCapacityIncreased"
	EventUserSubscribedToMeetup    = "UserSubscribedToMeetup"
	EventUserAddedToWaitingList    = "UserAddedToWaitingList"
	EventUserCancelledSubscription = "UserCancelledSubscription"
	EventUserMovedFromWaitingList  = "UserMovedFromWaitingList"
	EventUsersMovedFromWaitingList = "UsersMovedFromWaitingList"
)

// Event is the closed set of things that can happen to a meetup. The
// unexported marker method seals the set, so the projector's type switch
// covers every variant by construction.
type Event interface {
	AggregateID() string
	EventType() string
	isMeetupEvent()
}

type MeetupRegistered struct {
	MeetupID  string    `json:"meetup_id"`
	EventName string    `json:"event_name"`
	Capacity  int       `json:"capacity"`
	StartTime time.Time `json:"start_time"`
}

type MeetupCapacityIncreased struct {
	MeetupID    string `json:"meetup_id"`
	NewCapacity int    `json:"new_capacity"`
}

type UserSubscribedToMeetup struct {
	MeetupID         string    `json:"meetup_id"`
	UserID           string    `json:"user_id"`
	RegistrationTime time.Time `json:"registration_time"`
}

type UserAddedToWaitingList struct {
	MeetupID         string    `json:"meetup_id"`
	UserID           string    `json:"user_id"`
	RegistrationTime time.Time `json:"registration_time"`
}

type UserCancelledSubscription struct {
	MeetupID string `json:"meetup_id"`
	UserID   string `json:"user_id"`
}

// UserMovedFromWaitingList promotes a single waiting user after a
// participant cancelled. Cause links back to the cancellation for audit.
type UserMovedFromWaitingList struct {
	MeetupID string                    `json:"meetup_id"`
	UserID   string                    `json:"user_id"`
	Cause    UserCancelledSubscription `json:"cause"`
}

// UsersMovedFromWaitingList promotes a batch of waiting users, in
// registration order, after a capacity increase. The list may be empty.
type UsersMovedFromWaitingList struct {
	MeetupID string                  `json:"meetup_id"`
	UserIDs  []string                `json:"user_ids"`
	Cause    MeetupCapacityIncreased `json:"cause"`
}

func (e MeetupRegistered) AggregateID() string          { return e.MeetupID }
func (e MeetupCapacityIncreased) AggregateID() string   { return e.MeetupID }
func (e UserSubscribedToMeetup) AggregateID() string    { return e.MeetupID }
func (e UserAddedToWaitingList) AggregateID() string    { return e.MeetupID }
func (e UserCancelledSubscription) AggregateID() string { return e.MeetupID }
func (e UserMovedFromWaitingList) AggregateID() string  { return e.MeetupID }
func (e UsersMovedFromWaitingList) AggregateID() string { return e.MeetupID }

func (e MeetupRegistered) EventType() string          { return EventMeetupRegistered }
func (e MeetupCapacityIncreased) EventType() string   { return EventMeetupCapacityIncreased }
func (e UserSubscribedToMeetup) EventType() string    { return EventUserSubscribedToMeetup }
func (e UserAddedToWaitingList) EventType() string    { return EventUserAddedToWaitingList }
func (e UserCancelledSubscription) EventType() string { return EventUserCancelledSubscription }
func (e UserMovedFromWaitingList) EventType() string  { return EventUserMovedFromWaitingList }
func (e UsersMovedFromWaitingList) EventType() string { return EventUsersMovedFromWaitingList }

func (MeetupRegistered) isMeetupEvent()          {}
func (MeetupCapacityIncreased) isMeetupEvent()   {}
func (UserSubscribedToMeetup) isMeetupEvent()    {}
func (UserAddedToWaitingList) isMeetupEvent()    {}
func (UserCancelledSubscription) isMeetupEvent() {}
func (UserMovedFromWaitingList) isMeetupEvent()  {}
func (UsersMovedFromWaitingList) isMeetupEvent() {}
