// Package login holds the login form state and the submit flow that turns
// credentials into a stored session token.
package login

import (
	"sync"

	"github.com/panelctl/panelctl/pkg/auth"
)

// State is the lifecycle of one login attempt.
type State int

const (
	Idle State = iota
	InFlight
	Failed
	Succeeded
)

func (s State) String() string {
	switch s {
	case InFlight:
		return "in-flight"
	case Failed:
		return "failed"
	case Succeeded:
		return "succeeded"
	}
	return "idle"
}

// Status is a State plus the failure message when State is Failed.
type Status struct {
	State   State
	Message string
}

// Form is the mutable state behind the login view. Every setter replaces
// the field as is. Reads are safe while a submission runs.
type Form struct {
	mu       sync.RWMutex
	username string
	password string
	errMsg   string
	loading  bool
	status   Status
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Username() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.username
}

func (f *Form) SetUsername(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.username = v
}

func (f *Form) Password() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.password
}

func (f *Form) SetPassword(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.password = v
}

// Error is the last message shown to the user, "" when there is none.
func (f *Form) Error() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.errMsg
}

func (f *Form) SetError(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errMsg = v
}

// Loading reports whether a submission is in flight.
func (f *Form) Loading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loading
}

func (f *Form) SetLoading(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = v
}

func (f *Form) Status() Status {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.status
}

func (f *Form) setStatus(s Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = s
}

// Credentials snapshots the entered username and password.
func (f *Form) Credentials() auth.Credentials {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return auth.Credentials{Username: f.username, Password: f.password}
}

// begin marks the form in flight and clears the previous error. It returns
// false if a submission is already running.
func (f *Form) begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loading {
		return false
	}
	f.loading = true
	f.errMsg = ""
	f.status = Status{State: InFlight}
	return true
}

// fail records a failed attempt.
func (f *Form) fail(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errMsg = msg
	f.status = Status{State: Failed, Message: msg}
}
