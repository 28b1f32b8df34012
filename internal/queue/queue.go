// Package queue holds the ordered list of downloads and their status.
package queue

import (
	"fmt"

	"github.com/vmunix/viddown/internal/media"
)

// DefaultTitle is used when the engine reports no title.
const DefaultTitle = "title unknown"

// Item is one queued download.
type Item struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Status Status       `json:"status"`
	Source media.Source `json:"source"`
}

// Store keeps items in submission order.
// It is not safe for concurrent use; a single goroutine owns it.
type Store struct {
	items  []Item
	nextID int64
	active bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Append adds an item to the end of the queue with status queued and returns
// it with its assigned ID.
func (s *Store) Append(item Item) Item {
	item.ID = s.nextID
	s.nextID++
	item.Status = StatusQueued
	if item.Title == "" {
		item.Title = DefaultTitle
	}
	s.items = append(s.items, item)
	return item
}

// RemoveAt deletes the item at index. Downloading items cannot be removed.
func (s *Store) RemoveAt(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("remove %d: %w", index, ErrOutOfRange)
	}
	if s.items[index].Status == StatusDownloading {
		return fmt.Errorf("remove %q while downloading: %w", s.items[index].Title, ErrInvalidOperation)
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// Clear removes every item. It fails while a run is active.
func (s *Store) Clear() error {
	if s.active {
		return fmt.Errorf("clear during run: %w", ErrInvalidOperation)
	}
	s.items = nil
	return nil
}

// SetActive marks whether a run is in progress.
func (s *Store) SetActive(active bool) {
	s.active = active
}

// Active reports whether a run is in progress.
func (s *Store) Active() bool {
	return s.active
}

// SetStatus moves an item to a new status.
func (s *Store) SetStatus(id int64, status Status) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("set status of item %d: %w", id, ErrNotFound)
	}
	from := s.items[i].Status
	if from == status {
		return nil
	}
	if !from.CanTransitionTo(status) {
		return fmt.Errorf("item %d %s -> %s: %w", id, from, status, ErrInvalidTransition)
	}
	s.items[i].Status = status
	return nil
}

// Requeue resets every finished item to queued ahead of a new run.
func (s *Store) Requeue() {
	for i := range s.items {
		if s.items[i].Status.IsTerminal() {
			s.items[i].Status = StatusQueued
		}
	}
}

// Get returns the item with the given ID.
func (s *Store) Get(id int64) (Item, error) {
	i := s.indexOf(id)
	if i < 0 {
		return Item{}, fmt.Errorf("get item %d: %w", id, ErrNotFound)
	}
	return s.items[i], nil
}

// At returns the item at index.
func (s *Store) At(index int) (Item, error) {
	if index < 0 || index >= len(s.items) {
		return Item{}, fmt.Errorf("item at %d: %w", index, ErrOutOfRange)
	}
	return s.items[index], nil
}

// Ordinal returns the 1-based display position of an item, or 0.
func (s *Store) Ordinal(id int64) int {
	return s.indexOf(id) + 1
}

// Items returns a copy of the queue in order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// Count returns how many items have the given status.
func (s *Store) Count(status Status) int {
	n := 0
	for _, it := range s.items {
		if it.Status == status {
			n++
		}
	}
	return n
}

func (s *Store) indexOf(id int64) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
