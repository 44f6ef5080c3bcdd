// Package navigate moves the CLI between views.
package navigate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrUnknownRoute is returned for routes with no registered view.
var ErrUnknownRoute = errors.New("unknown route")

// Options controls a single navigation.
type Options struct {
	// Replace swaps the current history entry instead of pushing one.
	Replace bool
}

// Navigator is the navigation trigger used once a login succeeded.
type Navigator interface {
	Navigate(ctx context.Context, route string, opts Options) error
}

// View renders one route.
type View func(ctx context.Context) error

// Router keeps a route table and a history stack.
type Router struct {
	mu      sync.Mutex
	views   map[string]View
	history []string
}

func NewRouter() *Router {
	return &Router{views: make(map[string]View)}
}

// Handle registers v for route, replacing any previous view.
func (r *Router) Handle(route string, v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[route] = v
}

// Start records route as the first history entry without rendering it.
func (r *Router) Start(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = []string{route}
}

// Navigate updates history and renders the route's view.
func (r *Router) Navigate(ctx context.Context, route string, opts Options) error {
	r.mu.Lock()
	v, ok := r.views[route]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}
	if opts.Replace && len(r.history) > 0 {
		r.history[len(r.history)-1] = route
	} else {
		r.history = append(r.history, route)
	}
	r.mu.Unlock()

	zap.S().Debugf("Navigating to %s (replace: %t)", route, opts.Replace)
	return v(ctx)
}

// Current returns the active route, or "" before the first navigation.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

// History returns a copy of the history stack, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}
