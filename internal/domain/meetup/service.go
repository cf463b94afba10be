package meetup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store"
)

// defaultMaxRetries bounds how often a command is replayed after a version
// conflict before the failure is surfaced to the caller.
const defaultMaxRetries = 3

// MeetupStatus is the status-query DTO: participant and waiting lists hold
// user ids ordered by registration time.
type MeetupStatus struct {
	MeetupID     string    `json:"meetup_id"`
	EventName    string    `json:"event_name"`
	Capacity     int       `json:"capacity"`
	StartTime    time.Time `json:"start_time"`
	Participants []string  `json:"participants"`
	WaitingList  []string  `json:"waiting_list"`
}

// Service is the command entry point. Each command runs a load-decide-save
// cycle against the repository; a concurrent write to the same meetup makes
// Save fail with a version conflict, and the whole cycle is replayed.
// Business-rule violations are returned immediately and never retried.
type Service struct {
	repository *Repository
	now        func() time.Time
	maxRetries int
}

// NewService wires the command service. now is injected so registration
// times are controllable in tests; nil means the wall clock.
func NewService(repository *Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repository: repository,
		now:        now,
		maxRetries: defaultMaxRetries,
	}
}

// WithMaxRetries overrides the conflict retry bound.
func (s *Service) WithMaxRetries(n int) *Service {
	s.maxRetries = n
	return s
}

// RegisterMeetup creates a meetup and returns its id.
func (s *Service) RegisterMeetup(ctx context.Context, eventName string, capacity int, startTime time.Time) (string, error) {
	id := s.repository.GenerateID()
	m := NewMeetup(id, eventName, capacity, startTime)
	if _, err := s.repository.Save(ctx, m); err != nil {
		return "", err
	}
	return id, nil
}

// SubscribeUserToMeetup signs the user up, or puts them on the waiting list
// when the meetup is full. A user with an existing subscription is rejected
// before any event is emitted.
func (s *Service) SubscribeUserToMeetup(ctx context.Context, userID, meetupID string) error {
	return s.execute(ctx, meetupID, func(m Meetup) (Meetup, error) {
		if m.State.HasSubscriptionFor(userID) {
			return m, fmt.Errorf("%w: %s", ErrDuplicateSubscription, userID)
		}
		return m.Subscribe(userID, s.now()), nil
	})
}

// CancelUserSubscription removes the user's subscription, promoting the
// earliest waiting user when a participant spot frees up.
func (s *Service) CancelUserSubscription(ctx context.Context, userID, meetupID string) error {
	return s.execute(ctx, meetupID, func(m Meetup) (Meetup, error) {
		return m.Unsubscribe(userID)
	})
}

// IncreaseCapacity grows the meetup's capacity, promoting waiting users into
// the new slots.
func (s *Service) IncreaseCapacity(ctx context.Context, meetupID string, newCapacity int) error {
	return s.execute(ctx, meetupID, func(m Meetup) (Meetup, error) {
		return m.IncreaseCapacityTo(newCapacity)
	})
}

// GetMeetupStatus reports the meetup's current state from the event stream.
func (s *Service) GetMeetupStatus(ctx context.Context, meetupID string) (*MeetupStatus, error) {
	m, err := s.repository.FindByID(ctx, meetupID)
	if err != nil {
		return nil, err
	}

	state := m.State
	return &MeetupStatus{
		MeetupID:     state.ID,
		EventName:    state.EventName,
		Capacity:     state.Capacity,
		StartTime:    state.StartTime,
		Participants: userIDs(state.Participants()),
		WaitingList:  userIDs(state.WaitingList()),
	}, nil
}

func userIDs(subs []Subscription) []string {
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.UserID)
	}
	return ids
}

// execute runs one load-decide-save cycle, replaying it on version
// conflicts up to the retry bound.
func (s *Service) execute(ctx context.Context, meetupID string, decide func(Meetup) (Meetup, error)) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		m, err := s.repository.FindByID(ctx, meetupID)
		if err != nil {
			return err
		}

		updated, err := decide(m)
		if err != nil {
			return err
		}

		if _, err := s.repository.Save(ctx, updated); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("command against meetup %s exhausted %d retries: %w", meetupID, s.maxRetries, lastErr)
}
