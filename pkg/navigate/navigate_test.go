package navigate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterReplace(t *testing.T) {
	r := NewRouter()
	rendered := 0
	r.Handle("/dashboard", func(ctx context.Context) error { rendered++; return nil })
	r.Start("/login")

	require.NoError(t, r.Navigate(context.Background(), "/dashboard", Options{Replace: true}))

	assert.Equal(t, 1, rendered)
	assert.Equal(t, "/dashboard", r.Current())
	assert.Equal(t, []string{"/dashboard"}, r.History())
}

func TestRouterPush(t *testing.T) {
	r := NewRouter()
	r.Handle("/dashboard", func(ctx context.Context) error { return nil })
	assert.Equal(t, "", r.Current())

	r.Start("/login")
	require.NoError(t, r.Navigate(context.Background(), "/dashboard", Options{}))
	assert.Equal(t, []string{"/login", "/dashboard"}, r.History())
}

func TestRouterUnknownRoute(t *testing.T) {
	r := NewRouter()
	r.Start("/login")

	err := r.Navigate(context.Background(), "/nowhere", Options{Replace: true})
	assert.ErrorIs(t, err, ErrUnknownRoute)
	assert.Equal(t, []string{"/login"}, r.History())
}

func TestRouterViewError(t *testing.T) {
	r := NewRouter()
	boom := errors.New("render failed")
	r.Handle("/dashboard", func(ctx context.Context) error { return boom })

	assert.ErrorIs(t, r.Navigate(context.Background(), "/dashboard", Options{}), boom)
}
