package readmodel

import "time"

// MeetupStatusReadModel is the query-side view of one meetup. Participant
// and waiting lists hold user ids in registration order; the projector
// maintains that ordering by applying events in stream order.
type MeetupStatusReadModel struct {
	ID           string    `json:"id"`
	EventName    string    `json:"event_name"`
	Capacity     int       `json:"capacity"`
	StartTime    time.Time `json:"start_time"`
	Participants []string  `json:"participants"`
	WaitingList  []string  `json:"waiting_list"`
	UpdatedAt    time.Time `json:"updated_at"`
}
