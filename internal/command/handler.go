package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohamed-gara/aggregate-refactoring/internal/domain/meetup"
)

// ErrValidation marks commands rejected before reaching the domain.
var ErrValidation = errors.New("invalid command")

// Handler validates commands at the edge and delegates to the domain
// service. Business rules live in the aggregate; only shape checks happen
// here.
type Handler struct {
	meetupSvc *meetup.Service
}

func NewHandler(meetupSvc *meetup.Service) *Handler {
	return &Handler{meetupSvc: meetupSvc}
}

func (h *Handler) RegisterMeetup(ctx context.Context, cmd RegisterMeetup) (string, error) {
	if cmd.EventName == "" {
		return "", fmt.Errorf("%w: event name must not be empty", ErrValidation)
	}
	if cmd.Capacity <= 0 {
		return "", fmt.Errorf("%w: capacity must be positive", ErrValidation)
	}
	return h.meetupSvc.RegisterMeetup(ctx, cmd.EventName, cmd.Capacity, cmd.StartTime)
}

func (h *Handler) SubscribeUser(ctx context.Context, cmd SubscribeUser) error {
	if cmd.UserID == "" {
		return fmt.Errorf("%w: user id must not be empty", ErrValidation)
	}
	return h.meetupSvc.SubscribeUserToMeetup(ctx, cmd.UserID, cmd.MeetupID)
}

func (h *Handler) CancelSubscription(ctx context.Context, cmd CancelSubscription) error {
	if cmd.UserID == "" {
		return fmt.Errorf("%w: user id must not be empty", ErrValidation)
	}
	return h.meetupSvc.CancelUserSubscription(ctx, cmd.UserID, cmd.MeetupID)
}

func (h *Handler) IncreaseCapacity(ctx context.Context, cmd IncreaseCapacity) error {
	return h.meetupSvc.IncreaseCapacity(ctx, cmd.MeetupID, cmd.NewCapacity)
}
