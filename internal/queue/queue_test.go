package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(s *Store, titles ...string) []Item {
	var out []Item
	for _, title := range titles {
		out = append(out, s.Append(Item{Title: title}))
	}
	return out
}

func TestStore_AppendAssignsIDsAndQueues(t *testing.T) {
	s := NewStore()
	items := fill(s, "a", "b", "")

	require.Len(t, items, 3)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(2), items[1].ID)
	assert.Equal(t, DefaultTitle, items[2].Title)
	for _, it := range s.Items() {
		assert.Equal(t, StatusQueued, it.Status)
	}
	assert.Equal(t, 3, s.Ordinal(items[2].ID))
}

func TestStore_RemoveAt(t *testing.T) {
	s := NewStore()
	items := fill(s, "a", "b", "c")

	require.NoError(t, s.RemoveAt(1))
	assert.Equal(t, 2, s.Len())
	// Ordinals are derived from position.
	assert.Equal(t, 2, s.Ordinal(items[2].ID))
	assert.Equal(t, 0, s.Ordinal(items[1].ID))

	assert.ErrorIs(t, s.RemoveAt(5), ErrOutOfRange)
	assert.ErrorIs(t, s.RemoveAt(-1), ErrOutOfRange)
}

func TestStore_RemoveAt_Downloading(t *testing.T) {
	s := NewStore()
	items := fill(s, "a", "b")
	require.NoError(t, s.SetStatus(items[0].ID, StatusDownloading))

	err := s.RemoveAt(0)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, 2, s.Len())

	// Other items remain removable.
	require.NoError(t, s.RemoveAt(1))
	assert.Equal(t, 1, s.Len())
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	fill(s, "a", "b")

	s.SetActive(true)
	assert.ErrorIs(t, s.Clear(), ErrInvalidOperation)
	assert.Equal(t, 2, s.Len())

	s.SetActive(false)
	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Len())

	// IDs keep increasing after a clear.
	it := s.Append(Item{Title: "c"})
	assert.Equal(t, int64(3), it.ID)
}

func TestStore_SetStatus(t *testing.T) {
	s := NewStore()
	items := fill(s, "a")
	id := items[0].ID

	require.NoError(t, s.SetStatus(id, StatusDownloading))
	require.NoError(t, s.SetStatus(id, StatusDownloading)) // no-op
	assert.ErrorIs(t, s.SetStatus(id, StatusQueued), ErrInvalidTransition)
	require.NoError(t, s.SetStatus(id, StatusIncomplete))
	assert.ErrorIs(t, s.SetStatus(99, StatusDone), ErrNotFound)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusIncomplete, got.Status)
	assert.Equal(t, 1, s.Count(StatusIncomplete))
}

func TestStore_Requeue(t *testing.T) {
	s := NewStore()
	items := fill(s, "a", "b", "c")
	require.NoError(t, s.SetStatus(items[0].ID, StatusDownloading))
	require.NoError(t, s.SetStatus(items[0].ID, StatusDone))
	require.NoError(t, s.SetStatus(items[1].ID, StatusDownloading))
	require.NoError(t, s.SetStatus(items[1].ID, StatusError))

	s.Requeue()

	assert.Equal(t, 3, s.Count(StatusQueued))
}

func TestStore_ItemsIsCopy(t *testing.T) {
	s := NewStore()
	fill(s, "a")

	snap := s.Items()
	snap[0].Title = "changed"

	got, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)

	_, err = s.At(1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
