package login

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panelctl/panelctl/pkg/auth"
	"github.com/panelctl/panelctl/pkg/navigate"
	"github.com/panelctl/panelctl/pkg/session"
	"github.com/panelctl/panelctl/pkg/util"
	"go.uber.org/zap"
)

// ErrInFlight is returned when Submit is called while another submission
// has not settled.
var ErrInFlight = errors.New("a login is already in progress")

// Outcome is the result of one Submit. Err holds the classified failure
// when Status.State is Failed.
type Outcome struct {
	Status Status
	Token  string
	Err    error
}

// Coordinator runs the login submit flow for a Form.
type Coordinator struct {
	form          *Form
	authenticator auth.Authenticator
	store         session.Store
	navigator     navigate.Navigator

	tokenKey      string
	route         string
	navigateDelay time.Duration
}

// Option tweaks a Coordinator.
type Option func(*Coordinator)

// WithNavigateDelay waits d after the token is stored before navigating.
func WithNavigateDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.navigateDelay = d }
}

// WithRoute changes where a successful login navigates to.
func WithRoute(route string) Option {
	return func(c *Coordinator) { c.route = route }
}

// WithTokenKey changes the store key the token is written under.
func WithTokenKey(key string) Option {
	return func(c *Coordinator) { c.tokenKey = key }
}

func NewCoordinator(form *Form, a auth.Authenticator, store session.Store, nav navigate.Navigator, options ...Option) *Coordinator {
	c := &Coordinator{
		form:          form,
		authenticator: a,
		store:         store,
		navigator:     nav,
		tokenKey:      util.TokenKey,
		route:         util.DashboardRoute,
		navigateDelay: util.DefaultNavigateDelay,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Form returns the form this coordinator submits.
func (c *Coordinator) Form() *Form {
	return c.form
}

// Submit sends the form's credentials once. Login failures are recorded on
// the form and returned in the Outcome; the returned error is only set for
// ErrInFlight, a done ctx, or a failed navigation after a successful login.
func (c *Coordinator) Submit(ctx context.Context) (Outcome, error) {
	if !c.form.begin() {
		return Outcome{Status: c.form.Status()}, ErrInFlight
	}

	settled := false
	settle := func() {
		if !settled {
			c.form.SetLoading(false)
			settled = true
		}
	}
	defer settle()

	creds := c.form.Credentials()
	zap.S().Debugw("Login attempt starting", "username", creds.Username)

	info, err := c.authenticator.Login(ctx, creds)
	if ctx.Err() != nil {
		// The submission's scope is gone; drop whatever came back.
		zap.S().Debugf("Login result discarded: %s", ctx.Err())
		c.form.setStatus(Status{State: Idle})
		return Outcome{Status: c.form.Status()}, ctx.Err()
	}
	if err != nil {
		return c.failed(err), nil
	}

	if !info.Present {
		zap.S().Warnf("Login response did not contain a token, storing an empty one")
	}

	err = c.store.Set(ctx, c.tokenKey, info.Token)
	if ctx.Err() != nil {
		// Cancelled while subscribers were being told; do not move on.
		zap.S().Debugf("Login cancelled while saving token: %s", ctx.Err())
		c.form.setStatus(Status{State: Idle})
		return Outcome{Status: c.form.Status()}, ctx.Err()
	}
	if err != nil {
		var nerr *session.NotifyError
		if !errors.As(err, &nerr) {
			return c.failed(&auth.ClientError{Err: fmt.Errorf("unable to save token: %w", err)}), nil
		}
		zap.S().Warnf("Token saved but %s", nerr.Err)
	}

	c.form.setStatus(Status{State: Succeeded})
	settle()
	out := Outcome{Status: c.form.Status(), Token: info.Token}

	zap.S().Debugf("Token saved, navigating to %s", c.route)
	if c.navigateDelay > 0 {
		timer := time.NewTimer(c.navigateDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return out, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	if err := c.navigator.Navigate(ctx, c.route, navigate.Options{Replace: true}); err != nil {
		return out, fmt.Errorf("unable to navigate to %s: %w", c.route, err)
	}
	return out, nil
}

func (c *Coordinator) failed(err error) Outcome {
	msg := auth.Describe(err)
	zap.S().Debugw("Login error details", "kind", auth.KindOf(err).String(), "error", err.Error())
	c.form.fail(msg)
	return Outcome{Status: c.form.Status(), Err: err}
}
