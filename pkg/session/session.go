// Package session persists the auth token and announces every change to it.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/panelctl/panelctl/pkg/events"
)

// ErrEmptyKey is returned when a key is blank.
var ErrEmptyKey = errors.New("session key must not be empty")

// ErrCorrupt is returned by Get when the session file cannot be decoded.
// Writes replace such a file.
var ErrCorrupt = errors.New("unable to decode session file")

// Store is a small key/value store scoped to the CLI user. Set and Delete
// return only after every subscriber handled the resulting change event.
type Store interface {
	Get(key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Subscribe(h events.Handler) func()
}

// NotifyError reports that a value was stored but one or more subscribers
// failed to handle the change.
type NotifyError struct {
	Key string
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("stored %q but notifying subscribers failed: %s", e.Key, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

func publish(ctx context.Context, bus *events.Bus, ev events.Event) error {
	if err := bus.Publish(ctx, ev); err != nil {
		return &NotifyError{Key: ev.Key, Err: err}
	}
	return nil
}
