// Package events is a small synchronous publish/subscribe bus used to tell
// the rest of panelctl that session state changed.
package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Source tells subscribers where a change came from.
type Source string

const (
	// SourceLocal marks writes made by this process.
	SourceLocal Source = "local"
	// SourceExternal marks changes picked up from another process.
	SourceExternal Source = "external"
)

// Event describes one change to a stored key. Value is empty and Deleted is
// set when the key was removed.
type Event struct {
	Key     string
	Value   string
	Deleted bool
	Source  Source
	Time    time.Time
}

// Handler reacts to an event. Returning an error does not stop delivery to
// the remaining handlers.
type Handler func(ctx context.Context, ev Event) error

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus delivers events to handlers in subscription order.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a func that removes it. Calling the
// returned func more than once is a no-op.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish runs every handler with ev and returns once all of them returned.
// Handler errors are combined.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	if ev.Source == "" {
		ev.Source = SourceLocal
	}

	// Snapshot so handlers may subscribe or unsubscribe while running.
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	zap.S().Debugf("Publishing %s change for key %q to %d subscriber(s)", ev.Source, ev.Key, len(subs))

	var err error
	for _, s := range subs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return multierr.Append(err, ctxErr)
		}
		err = multierr.Append(err, s.handler(ctx, ev))
	}
	return err
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
