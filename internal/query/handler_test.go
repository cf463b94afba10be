package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store"
	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store/mocks"
	"github.com/mohamed-gara/aggregate-refactoring/internal/readmodel"
)

func TestHandler_GetMeetupStatus(t *testing.T) {
	rs := store.NewReadStore()
	model := &readmodel.MeetupStatusReadModel{ID: "m1", EventName: "Coding dojo", Capacity: 2}
	require.NoError(t, rs.Set(store.MeetupsCollection, "m1", model))

	got, ok := NewHandler(rs).GetMeetupStatus("m1")

	require.True(t, ok)
	assert.Equal(t, model, got)
}

func TestHandler_GetMeetupStatus_Missing(t *testing.T) {
	got, ok := NewHandler(store.NewReadStore()).GetMeetupStatus("missing")

	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestHandler_GetMeetupStatus_StoreError(t *testing.T) {
	rs := mocks.NewMockReadStore()
	rs.GetErr = errors.New("boom")

	_, ok := NewHandler(rs).GetMeetupStatus("m1")

	assert.False(t, ok)
}

func TestHandler_ListMeetups(t *testing.T) {
	rs := store.NewReadStore()
	require.NoError(t, rs.Set(store.MeetupsCollection, "m1", &readmodel.MeetupStatusReadModel{ID: "m1"}))
	require.NoError(t, rs.Set(store.MeetupsCollection, "m2", &readmodel.MeetupStatusReadModel{ID: "m2"}))

	meetups := NewHandler(rs).ListMeetups()

	assert.Len(t, meetups, 2)
}

func TestHandler_ListMeetups_Empty(t *testing.T) {
	meetups := NewHandler(store.NewReadStore()).ListMeetups()

	assert.Empty(t, meetups)
}
