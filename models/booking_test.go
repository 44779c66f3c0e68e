package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.ValidTransition(StatusAccepted))
	assert.True(t, StatusPending.ValidTransition(StatusDeclined))
	assert.True(t, StatusPending.ValidTransition(StatusCancelled))
	assert.False(t, StatusPending.ValidTransition(StatusCompleted))

	assert.True(t, StatusAccepted.ValidTransition(StatusCompleted))
	assert.True(t, StatusAccepted.ValidTransition(StatusCancelled))
	assert.False(t, StatusAccepted.ValidTransition(StatusPending))
	assert.False(t, StatusAccepted.ValidTransition(StatusDeclined))

	for _, terminal := range []BookingStatus{StatusDeclined, StatusCompleted, StatusCancelled} {
		assert.True(t, terminal.Terminal())
		for _, next := range []BookingStatus{StatusPending, StatusAccepted, StatusDeclined, StatusCompleted, StatusCancelled} {
			assert.False(t, terminal.ValidTransition(next), "%s -> %s", terminal, next)
		}
	}

	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusAccepted.Terminal())
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("monday")
	assert.NoError(t, err)
	assert.Equal(t, Monday, day)

	day, err = ParseDay("SUNDAY")
	assert.NoError(t, err)
	assert.Equal(t, Sunday, day)

	_, err = ParseDay("someday")
	assert.Error(t, err)
}
