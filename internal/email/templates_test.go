package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWaitingListBody(t *testing.T) {
	body := BuildWaitingListBody("Coding dojo session 1", 3)

	assert.Contains(t, body, "Coding dojo session 1")
	assert.Contains(t, body, "number 3 on the waiting list")
}

func TestBuildSpotConfirmedBody(t *testing.T) {
	body := BuildSpotConfirmedBody("Coding dojo session 1")

	assert.Contains(t, body, "Coding dojo session 1")
	assert.Contains(t, body, "confirmed")
}
