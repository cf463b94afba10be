package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mohamed-gara/aggregate-refactoring/internal/command"
	"github.com/mohamed-gara/aggregate-refactoring/internal/domain/meetup"
	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store"
	"github.com/mohamed-gara/aggregate-refactoring/internal/query"
)

type Handlers struct {
	cmdHandler   *command.Handler
	meetupSvc    *meetup.Service
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, meetupSvc *meetup.Service, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		meetupSvc:    meetupSvc,
		queryHandler: queryHandler,
	}
}

// RegisterMeetup handles POST /meetups
func (h *Handlers) RegisterMeetup(w http.ResponseWriter, r *http.Request) {
	var cmd command.RegisterMeetup
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.cmdHandler.RegisterMeetup(r.Context(), cmd)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"meetup_id": id})
}

// GetMeetupStatus handles GET /meetups/{id}. The status is folded from the
// event stream, so a caller sees its own writes immediately.
func (h *Handlers) GetMeetupStatus(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/meetups/")

	status, err := h.meetupSvc.GetMeetupStatus(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// ListMeetups handles GET /meetups from the projected read models.
func (h *Handlers) ListMeetups(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListMeetups())
}

// SubscribeUser handles POST /meetups/{id}/subscriptions
func (h *Handlers) SubscribeUser(w http.ResponseWriter, r *http.Request) {
	meetupID := extractPathParam(strings.TrimSuffix(r.URL.Path, "/subscriptions"), "/meetups/")

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.SubscribeUser{MeetupID: meetupID, UserID: req.UserID}
	if err := h.cmdHandler.SubscribeUser(r.Context(), cmd); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// CancelSubscription handles DELETE /meetups/{id}/subscriptions/{userID}
func (h *Handlers) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	rest := extractPathParam(r.URL.Path, "/meetups/")
	parts := strings.SplitN(rest, "/subscriptions/", 2)
	if len(parts) != 2 || parts[1] == "" {
		http.Error(w, "Missing user id", http.StatusBadRequest)
		return
	}

	cmd := command.CancelSubscription{MeetupID: parts[0], UserID: parts[1]}
	if err := h.cmdHandler.CancelSubscription(r.Context(), cmd); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// IncreaseCapacity handles PUT /meetups/{id}/capacity
func (h *Handlers) IncreaseCapacity(w http.ResponseWriter, r *http.Request) {
	meetupID := extractPathParam(strings.TrimSuffix(r.URL.Path, "/capacity"), "/meetups/")

	var req struct {
		NewCapacity int `json:"new_capacity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.IncreaseCapacity{MeetupID: meetupID, NewCapacity: req.NewCapacity}
	if err := h.cmdHandler.IncreaseCapacity(r.Context(), cmd); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, command.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, meetup.ErrMeetupNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, meetup.ErrDuplicateSubscription):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, meetup.ErrSubscriptionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, meetup.ErrCapacityNotIncreased):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrVersionConflict):
		// retries exhausted; the conflict is transient
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
