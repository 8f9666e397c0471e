// Package events publishes outbound notifications about election lifecycle
// changes. Delivery is advisory: a failed send is logged and dropped, it
// never fails the state transition that produced it.
package events

import (
	"context"
	"sync"
)

// Event is one outbound notification.
type Event struct {
	Source     string
	DetailType string
	Detail     map[string]any
}

// Notifier sends events to an external bus.
type Notifier interface {
	Send(ctx context.Context, ev Event) error
}

// Noop discards events. Used in dev and in tests that don't observe them.
type Noop struct{}

func (Noop) Send(ctx context.Context, ev Event) error { return nil }

// Capture records events in memory for assertions.
type Capture struct {
	mu     sync.Mutex
	events []Event

	// Err, when set, is returned from every Send.
	Err error
}

func (c *Capture) Send(ctx context.Context, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.events = append(c.events, ev)
	return nil
}

// Events returns a copy of everything captured so far.
func (c *Capture) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}
