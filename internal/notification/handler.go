package notification

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/mohamed-gara/aggregate-refactoring/internal/domain/meetup"
	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store"
	"github.com/mohamed-gara/aggregate-refactoring/internal/readmodel"
)

// EmailSender is the slice of the email service the notifier needs.
type EmailSender interface {
	SendWaitingListConfirmation(to, eventName string, position int) error
	SendSpotConfirmed(to, eventName string) error
}

// Handler sends signup emails in reaction to meetup events: a waiting-list
// confirmation when someone lands on the list, and a spot-confirmed email
// when they get promoted.
type Handler struct {
	emailService EmailSender
	readStore    store.ReadStoreInterface
}

func NewHandler(emailSvc EmailSender, readStore store.ReadStoreInterface) *Handler {
	return &Handler{
		emailService: emailSvc,
		readStore:    readStore,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var envelope store.Event
	if err := json.Unmarshal(value, &envelope); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if envelope.AggregateType != meetup.AggregateType {
		return nil
	}

	event, err := meetup.UnmarshalEvent(envelope.EventType, envelope.Data)
	if err != nil {
		log.Printf("[Notifier] Failed to decode %s: %v", envelope.EventType, err)
		return err
	}

	switch e := event.(type) {
	case meetup.UserAddedToWaitingList:
		h.notifyWaiting(e.MeetupID, e.UserID)
	case meetup.UserMovedFromWaitingList:
		h.notifyPromoted(e.MeetupID, e.UserID)
	case meetup.UsersMovedFromWaitingList:
		for _, userID := range e.UserIDs {
			h.notifyPromoted(e.MeetupID, userID)
		}
	}

	return nil
}

func (h *Handler) notifyWaiting(meetupID, userID string) {
	m, ok := h.lookupMeetup(meetupID)
	if !ok {
		return
	}
	address, ok := addressFor(userID)
	if !ok {
		return
	}

	position := len(m.WaitingList)
	if position == 0 {
		position = 1
	}
	if err := h.emailService.SendWaitingListConfirmation(address, m.EventName, position); err != nil {
		log.Printf("[Notifier] Failed to send waiting-list email to %s: %v", address, err)
	}
}

func (h *Handler) notifyPromoted(meetupID, userID string) {
	m, ok := h.lookupMeetup(meetupID)
	if !ok {
		return
	}
	address, ok := addressFor(userID)
	if !ok {
		return
	}

	if err := h.emailService.SendSpotConfirmed(address, m.EventName); err != nil {
		log.Printf("[Notifier] Failed to send promotion email to %s: %v", address, err)
	}
}

func (h *Handler) lookupMeetup(meetupID string) (*readmodel.MeetupStatusReadModel, bool) {
	data, ok, err := h.readStore.Get(store.MeetupsCollection, meetupID)
	if err != nil {
		log.Printf("[Notifier] Error getting meetup %s: %v", meetupID, err)
		return nil, false
	}
	if !ok {
		log.Printf("[Notifier] Meetup not found: %s", meetupID)
		return nil, false
	}
	return data.(*readmodel.MeetupStatusReadModel), true
}

// addressFor treats user ids that look like email addresses as deliverable.
// Signups use the address as the user id; anything else is skipped.
func addressFor(userID string) (string, bool) {
	if !strings.Contains(userID, "@") {
		log.Printf("[Notifier] User id %s is not an email address, skipping", userID)
		return "", false
	}
	return userID, true
}
