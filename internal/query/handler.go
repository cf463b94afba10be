package query

import (
	"log"

	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store"
	"github.com/mohamed-gara/aggregate-refactoring/internal/readmodel"
)

// Handler serves status queries from the projected read models. The read
// side is eventually consistent with the event stream.
type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

func (h *Handler) GetMeetupStatus(id string) (*readmodel.MeetupStatusReadModel, bool) {
	data, ok, err := h.readStore.Get(store.MeetupsCollection, id)
	if err != nil {
		log.Printf("[Query] Error getting meetup %s: %v", id, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return data.(*readmodel.MeetupStatusReadModel), true
}

func (h *Handler) ListMeetups() []*readmodel.MeetupStatusReadModel {
	items, err := h.readStore.GetAll(store.MeetupsCollection)
	if err != nil {
		log.Printf("[Query] Error listing meetups: %v", err)
		return nil
	}
	meetups := make([]*readmodel.MeetupStatusReadModel, 0, len(items))
	for _, item := range items {
		meetups = append(meetups, item.(*readmodel.MeetupStatusReadModel))
	}
	return meetups
}
