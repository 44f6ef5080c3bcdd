package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestPublishOrderAndDefaults(t *testing.T) {
	bus := NewBus()

	var got []string
	var seen Event
	bus.Subscribe(func(ctx context.Context, ev Event) error {
		got = append(got, "first")
		seen = ev
		return nil
	})
	bus.Subscribe(func(ctx context.Context, ev Event) error {
		got = append(got, "second")
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), Event{Key: "token", Value: "abc123"}))

	assert.Equal(t, []string{"first", "second"}, got)
	assert.Equal(t, SourceLocal, seen.Source)
	assert.False(t, seen.Time.IsZero())
	assert.Equal(t, "abc123", seen.Value)
}

func TestPublishCombinesErrors(t *testing.T) {
	bus := NewBus()
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	calls := 0
	bus.Subscribe(func(ctx context.Context, ev Event) error { calls++; return errA })
	bus.Subscribe(func(ctx context.Context, ev Event) error { calls++; return nil })
	bus.Subscribe(func(ctx context.Context, ev Event) error { calls++; return errB })

	err := bus.Publish(context.Background(), Event{Key: "token"})
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsubscribe := bus.Subscribe(func(ctx context.Context, ev Event) error { calls++; return nil })
	assert.Equal(t, 1, bus.Len())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, bus.Len())

	require.NoError(t, bus.Publish(context.Background(), Event{Key: "token"}))
	assert.Equal(t, 0, calls)
}

func TestPublishStopsOnCancelledContext(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.Subscribe(func(ctx context.Context, ev Event) error { calls++; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(ctx, Event{Key: "token"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
