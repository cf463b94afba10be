package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamed-gara/aggregate-refactoring/internal/command"
	"github.com/mohamed-gara/aggregate-refactoring/internal/domain/meetup"
	"github.com/mohamed-gara/aggregate-refactoring/internal/infrastructure/store/mocks"
	"github.com/mohamed-gara/aggregate-refactoring/internal/query"
)

var startTime = time.Date(2019, 6, 15, 20, 0, 0, 0, time.UTC)

func newTestServer() *httptest.Server {
	eventStore := mocks.NewMockEventStore()
	repo := meetup.NewRepository(eventStore, &meetup.SequenceGenerator{})
	svc := meetup.NewService(repo, nil)
	readStore := mocks.NewMockReadStore()
	handlers := NewHandlers(command.NewHandler(svc), svc, query.NewHandler(readStore))
	return httptest.NewServer(NewRouter(handlers))
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func registerMeetup(t *testing.T, server *httptest.Server, capacity int) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, server.URL+"/meetups", map[string]any{
		"event_name": "Coding dojo session 1",
		"capacity":   capacity,
		"start_time": startTime,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		MeetupID string `json:"meetup_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.MeetupID)
	return created.MeetupID
}

func subscribe(t *testing.T, server *httptest.Server, meetupID, userID string) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/meetups/%s/subscriptions", server.URL, meetupID),
		map[string]string{"user_id": userID})
}

func fetchStatus(t *testing.T, server *httptest.Server, meetupID string) meetup.MeetupStatus {
	t.Helper()
	resp, err := http.Get(server.URL + "/meetups/" + meetupID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status meetup.MeetupStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	return status
}

// ============================================
// Register
// ============================================

func TestAPI_RegisterAndFetchStatus(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	id := registerMeetup(t, server, 50)
	status := fetchStatus(t, server, id)

	assert.Equal(t, id, status.MeetupID)
	assert.Equal(t, "Coding dojo session 1", status.EventName)
	assert.Equal(t, 50, status.Capacity)
	assert.Empty(t, status.Participants)
	assert.Empty(t, status.WaitingList)
}

func TestAPI_Register_ValidationFailures(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp := doJSON(t, http.MethodPost, server.URL+"/meetups", map[string]any{
		"event_name": "", "capacity": 10,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/meetups", map[string]any{
		"event_name": "Coding dojo", "capacity": 0,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_GetStatus_UnknownMeetup(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/meetups/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ============================================
// Subscriptions
// ============================================

func TestAPI_SubscribeUntilFullThenWaitlist(t *testing.T) {
	server := newTestServer()
	defer server.Close()
	id := registerMeetup(t, server, 2)

	for _, user := range []string{"Alice", "Bob", "Charles", "David"} {
		resp := subscribe(t, server, id, user)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	status := fetchStatus(t, server, id)
	assert.Equal(t, []string{"Alice", "Bob"}, status.Participants)
	assert.Equal(t, []string{"Charles", "David"}, status.WaitingList)
}

func TestAPI_Subscribe_DuplicateConflicts(t *testing.T) {
	server := newTestServer()
	defer server.Close()
	id := registerMeetup(t, server, 2)

	resp := subscribe(t, server, id, "Alice")
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = subscribe(t, server, id, "Alice")
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_Subscribe_MissingUserID(t *testing.T) {
	server := newTestServer()
	defer server.Close()
	id := registerMeetup(t, server, 2)

	resp := subscribe(t, server, id, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_CancelSubscription_PromotesWaitingUser(t *testing.T) {
	server := newTestServer()
	defer server.Close()
	id := registerMeetup(t, server, 1)
	for _, user := range []string{"Alice", "Bob"} {
		resp := subscribe(t, server, id, user)
		resp.Body.Close()
	}

	resp := doJSON(t, http.MethodDelete,
		fmt.Sprintf("%s/meetups/%s/subscriptions/Alice", server.URL, id), nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	status := fetchStatus(t, server, id)
	assert.Equal(t, []string{"Bob"}, status.Participants)
	assert.Empty(t, status.WaitingList)
}

func TestAPI_CancelSubscription_UnknownUser(t *testing.T) {
	server := newTestServer()
	defer server.Close()
	id := registerMeetup(t, server, 2)

	resp := doJSON(t, http.MethodDelete,
		fmt.Sprintf("%s/meetups/%s/subscriptions/Nobody", server.URL, id), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ============================================
// Capacity
// ============================================

func TestAPI_IncreaseCapacity(t *testing.T) {
	server := newTestServer()
	defer server.Close()
	id := registerMeetup(t, server, 1)
	for _, user := range []string{"Alice", "Bob", "Charles"} {
		resp := subscribe(t, server, id, user)
		resp.Body.Close()
	}

	resp := doJSON(t, http.MethodPut,
		fmt.Sprintf("%s/meetups/%s/capacity", server.URL, id),
		map[string]int{"new_capacity": 2})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status := fetchStatus(t, server, id)
	assert.Equal(t, 2, status.Capacity)
	assert.Equal(t, []string{"Alice", "Bob"}, status.Participants)
	assert.Equal(t, []string{"Charles"}, status.WaitingList)
}

func TestAPI_IncreaseCapacity_RejectsDecrease(t *testing.T) {
	server := newTestServer()
	defer server.Close()
	id := registerMeetup(t, server, 5)

	resp := doJSON(t, http.MethodPut,
		fmt.Sprintf("%s/meetups/%s/capacity", server.URL, id),
		map[string]int{"new_capacity": 3})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ============================================
// Routing
// ============================================

func TestAPI_MethodNotAllowed(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp := doJSON(t, http.MethodDelete, server.URL+"/meetups", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
