package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_ValidTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
	}{
		{StatusQueued, StatusDownloading},
		{StatusDownloading, StatusDone},
		{StatusDownloading, StatusIncomplete},
		{StatusDownloading, StatusError},
		{StatusDone, StatusQueued},       // re-run
		{StatusIncomplete, StatusQueued}, // re-run
		{StatusError, StatusQueued},      // re-run
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.True(t, tt.from.CanTransitionTo(tt.to),
				"%s should be able to transition to %s", tt.from, tt.to)
		})
	}
}

func TestCanTransitionTo_InvalidTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
	}{
		{StatusQueued, StatusDone},        // skip downloading
		{StatusQueued, StatusError},       // skip downloading
		{StatusDownloading, StatusQueued}, // backwards
		{StatusDone, StatusDownloading},   // must be requeued first
		{StatusError, StatusDone},         // terminal
		{StatusIncomplete, StatusError},   // terminal
		{Status("bogus"), StatusQueued},   // unknown
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.False(t, tt.from.CanTransitionTo(tt.to),
				"%s should NOT be able to transition to %s", tt.from, tt.to)
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, StatusQueued.IsTerminal())
	assert.False(t, StatusDownloading.IsTerminal())
	assert.True(t, StatusDone.IsTerminal())
	assert.True(t, StatusIncomplete.IsTerminal())
	assert.True(t, StatusError.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("incomplete")
	assert.True(t, ok)
	assert.Equal(t, StatusIncomplete, s)

	_, ok = ParseStatus("paused")
	assert.False(t, ok)
}
