package events

import (
	"encoding/json"
	"fmt"
)

// EventFactory creates a new zero-value event of a specific type.
type EventFactory func() Event

// Registry maps event types to their factories for deserialization.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates a new event registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]EventFactory),
	}
}

// Register adds an event type to the registry.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal deserializes a raw event into its concrete type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}

	event := factory()
	if err := json.Unmarshal([]byte(raw.Payload), event); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}

	return event, nil
}

// DefaultRegistry returns a registry with all standard event types registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Resolution events
	r.Register(EventItemAdded, func() Event { return &ItemAdded{} })
	r.Register(EventInfoFetched, func() Event { return &InfoFetchSucceeded{} })
	r.Register(EventAddEnabled, func() Event { return &AddControlEnabled{} })

	// Run events
	r.Register(EventStatusText, func() Event { return &StatusText{} })
	r.Register(EventItemStatusChanged, func() Event { return &ItemStatusChanged{} })
	r.Register(EventItemProgressed, func() Event { return &Progressed{} })
	r.Register(EventRunStarted, func() Event { return &RunStarted{} })
	r.Register(EventRunFinished, func() Event { return &RunFinished{} })

	// Application events
	r.Register(EventFailed, func() Event { return &Failed{} })
	r.Register(EventUpdateAvailable, func() Event { return &UpdateAvailable{} })

	return r
}
