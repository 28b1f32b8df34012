package queue

import "errors"

// Sentinel errors for the queue package.
var (
	// ErrInvalidOperation is returned when a mutation conflicts with the run state.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotFound is returned when no item has the given ID.
	ErrNotFound = errors.New("item not found")

	// ErrOutOfRange is returned when an index does not address an item.
	ErrOutOfRange = errors.New("index out of range")

	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
)
