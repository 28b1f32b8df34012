package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vmunix/viddown/internal/queue"
	"github.com/vmunix/viddown/internal/settings"
)

func TestTerminalUI_Queue(t *testing.T) {
	var buf bytes.Buffer
	ui := newTerminalUI(&buf, false)

	ui.QueueChanged([]queue.Item{{ID: 1, Title: "One", Status: queue.StatusQueued}})
	ui.QueueChanged([]queue.Item{
		{ID: 1, Title: "One", Status: queue.StatusDownloading},
		{ID: 2, Title: "Two", Status: queue.StatusQueued},
	})
	ui.QueueChanged([]queue.Item{
		{ID: 1, Title: "One", Status: queue.StatusDone},
		{ID: 2, Title: "Two", Status: queue.StatusQueued},
	})

	assert.Equal(t, "+ One\n+ Two\n  [Done] One\n", buf.String())
}

func TestTerminalUI_Progress(t *testing.T) {
	var buf bytes.Buffer
	ui := newTerminalUI(&buf, false)

	for _, p := range []float64{3, 12, 15, 47, 100} {
		ui.ProgressChanged(p)
	}
	assert.Equal(t, "   10%\n   40%\n  100%\n", buf.String())

	// A new item starts from zero again.
	buf.Reset()
	ui.QueueChanged([]queue.Item{{ID: 7, Title: "Next"}})
	ui.QueueChanged([]queue.Item{{ID: 7, Title: "Next", Status: queue.StatusDownloading}})
	ui.ProgressChanged(20)
	assert.Equal(t, "+ Next\n   20%\n", buf.String())
}

func TestTerminalUI_ProgressSecondStream(t *testing.T) {
	var buf bytes.Buffer
	ui := newTerminalUI(&buf, false)

	// Video then audio, each reported from low to 100 with no zero between.
	for _, p := range []float64{55, 100, 5, 30, 100} {
		ui.ProgressChanged(p)
	}
	assert.Equal(t, "   50%\n  100%\n   30%\n  100%\n", buf.String())
}

func TestTerminalUI_StatusDeduplicated(t *testing.T) {
	var buf bytes.Buffer
	ui := newTerminalUI(&buf, false)

	ui.StatusChanged("Fetching video info...")
	ui.StatusChanged("Fetching video info...")
	ui.StatusChanged("Added 1 item(s)")
	ui.ThemeChanged(settings.ThemeLight)

	assert.Equal(t, "Fetching video info...\nAdded 1 item(s)\nTheme: light\n", buf.String())
}

func TestTerminalUI_QuietStillShowsErrors(t *testing.T) {
	var buf bytes.Buffer
	ui := newTerminalUI(&buf, true)

	ui.StatusChanged("1/1: Clip")
	ui.ProgressChanged(50)
	ui.ShowError("Download error", "An error occurred while downloading \"Clip\".\n\nDetails: HTTP Error 403")
	ui.PromptUpdate("1.0.0", "1.1.0", "https://example.com/v1.1.0")

	assert.Equal(t,
		"Download error: An error occurred while downloading \"Clip\".\n  Details: HTTP Error 403\n"+
			"A new version of viddown is available (1.1.0, you have 1.0.0): https://example.com/v1.1.0\n",
		buf.String())
}
