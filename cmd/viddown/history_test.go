package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/viddown/internal/events"
	"github.com/vmunix/viddown/internal/media"
	"github.com/vmunix/viddown/internal/migrations"
	"github.com/vmunix/viddown/internal/queue"
)

func TestOpenHistory_Disabled(t *testing.T) {
	db, err := openHistory(filepath.Join(t.TempDir(), "history.db"), false)
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestLoadHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	db, err := openHistory(path, true)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, migrations.Apply(context.Background(), db))

	log := events.NewEventLog(db)
	item := queue.Item{ID: 1, Title: "Never Gonna Give You Up"}
	for _, e := range []events.Event{
		events.NewItemAdded(item.Title, media.Source{URL: "https://a"}),
		events.NewRunStarted("0123456789abcdef", 2),
		events.NewItemStatusChanged("0123456789abcdef", item, queue.StatusDone),
		events.NewItemStatusChanged("0123456789abcdef", queue.Item{ID: 2, Title: "Other Clip"}, queue.StatusError),
	} {
		_, err := log.Append(e)
		require.NoError(t, err)
	}

	entries, err := loadHistory(context.Background(), db, historyQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "error", entries[0].Summary)
	assert.Equal(t, "run 01234567 started with 2 item(s)", entries[2].Summary)

	entries, err = loadHistory(context.Background(), db, historyQuery{Limit: 10, Match: "never gonna"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "done", entries[0].Summary)
	assert.Equal(t, "queued https://a", entries[1].Summary)

	entries, err = loadHistory(context.Background(), db, historyQuery{Limit: 1, Types: []string{events.EventRunStarted}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, events.EventRunStarted, entries[0].Type)
}

func TestLoadHistory_ItemAndSince(t *testing.T) {
	db, err := openHistory(filepath.Join(t.TempDir(), "history.db"), true)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, migrations.Apply(context.Background(), db))

	log := events.NewEventLog(db)
	old := events.NewItemStatusChanged("run-a", queue.Item{ID: 1, Title: "Old Clip"}, queue.StatusDone)
	old.Timestamp = time.Now().Add(-48 * time.Hour)
	for _, e := range []events.Event{
		old,
		events.NewItemStatusChanged("run-b", queue.Item{ID: 1, Title: "New Clip"}, queue.StatusDownloading),
		events.NewItemStatusChanged("run-b", queue.Item{ID: 2, Title: "Other Clip"}, queue.StatusDone),
		events.NewFailed(events.EntityItem, 1, "New Clip", "network error"),
		events.NewRunStarted("run-b", 2),
	} {
		_, err := log.Append(e)
		require.NoError(t, err)
	}

	t.Run("item", func(t *testing.T) {
		entries, err := loadHistory(context.Background(), db, historyQuery{Limit: 10, Item: 1})
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, events.EventFailed, entries[0].Type)
		assert.Equal(t, "New Clip", entries[1].Title)
		assert.Equal(t, "Old Clip", entries[2].Title)
	})

	t.Run("item with type", func(t *testing.T) {
		entries, err := loadHistory(context.Background(), db, historyQuery{Limit: 10, Item: 1, Types: []string{events.EventFailed}})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "New Clip", entries[0].Title)
	})

	t.Run("since", func(t *testing.T) {
		entries, err := loadHistory(context.Background(), db, historyQuery{Limit: 10, Since: time.Now().Add(-time.Hour)})
		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, events.EventRunStarted, entries[0].Type)
		for _, e := range entries {
			assert.NotEqual(t, "Old Clip", e.Title)
		}
	})

	t.Run("item and since", func(t *testing.T) {
		entries, err := loadHistory(context.Background(), db, historyQuery{Limit: 10, Item: 1, Since: time.Now().Add(-time.Hour)})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "New Clip", entries[1].Title)
	})

	t.Run("since with limit", func(t *testing.T) {
		entries, err := loadHistory(context.Background(), db, historyQuery{Limit: 2, Since: time.Now().Add(-time.Hour)})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestDescribe_RunFinished(t *testing.T) {
	f := events.NewRunFinished("abc")
	f.Done, f.Incomplete, f.Failed, f.Skipped = 3, 1, 0, 2

	entry := describe(f)
	assert.Equal(t, "run abc finished: 3 done, 1 incomplete, 0 failed, 2 skipped", entry.Summary)
	assert.Empty(t, entry.Title)
}

func TestPrintHistory(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.Local)
	var buf bytes.Buffer
	printHistory(&buf, []historyEntry{
		{Time: ts, Type: events.EventItemStatusChanged, Title: "Clip", Summary: "done"},
		{Time: ts, Type: events.EventRunStarted, Summary: "run x started with 1 item(s)"},
	})
	assert.Equal(t,
		"2024-05-01 12:30  item.status.changed   Clip: done\n"+
			"2024-05-01 12:30  run.started           run x started with 1 item(s)\n",
		buf.String())
}
