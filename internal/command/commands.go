package command

import "time"

type RegisterMeetup struct {
	EventName string    `json:"event_name"`
	Capacity  int       `json:"capacity"`
	StartTime time.Time `json:"start_time"`
}

type SubscribeUser struct {
	MeetupID string `json:"meetup_id"`
	UserID   string `json:"user_id"`
}

type CancelSubscription struct {
	MeetupID string `json:"meetup_id"`
	UserID   string `json:"user_id"`
}

type IncreaseCapacity struct {
	MeetupID    string `json:"meetup_id"`
	NewCapacity int    `json:"new_capacity"`
}
