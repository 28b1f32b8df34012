package events

import (
	"log/slog"
	"sync"
)

// Publisher accepts events from background goroutines.
type Publisher interface {
	Push(e Event)
}

// Channel is an unbounded FIFO between any number of producers and a single
// consumer. Push never blocks and never drops; Drain never blocks.
type Channel struct {
	mu     sync.Mutex
	queue  []Event
	ready  chan struct{}
	logger *slog.Logger
	closed bool
}

// NewChannel creates an empty channel.
func NewChannel(logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		ready:  make(chan struct{}, 1),
		logger: logger,
	}
}

// Push appends an event and wakes the consumer. Events pushed after Close are
// discarded.
func (c *Channel) Push(e Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Debug("channel closed, discarding event", "type", e.EventType())
		return
	}
	c.queue = append(c.queue, e)
	c.mu.Unlock()

	// Coalesce wake-ups; one pending signal is enough for a full drain.
	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// Drain removes and returns all pending events in push order.
func (c *Channel) Drain() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.queue) == 0 {
		return nil
	}
	out := c.queue
	c.queue = nil
	return out
}

// Ready is signalled after a Push. A signal may be stale; Drain can return
// nothing after it fires.
func (c *Channel) Ready() <-chan struct{} {
	return c.ready
}

// Len returns the number of pending events.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Close stops accepting events. Pending events can still be drained.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
