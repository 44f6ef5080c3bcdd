package auth

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failed login.
type Kind int

const (
	// KindUnknown is returned for nil errors and cancellations.
	KindUnknown Kind = iota
	// KindServer means the server answered with a non-2xx status.
	KindServer
	// KindNetwork means the request went out but no response came back.
	KindNetwork
	// KindClient means the request could not be built or sent at all.
	KindClient
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindClient:
		return "client"
	}
	return "unknown"
}

// NetworkMessage is shown when the server cannot be reached.
const NetworkMessage = "Unable to reach the server. Please check your internet connection."

// ServerError is a non-2xx answer from the server.
type ServerError struct {
	StatusCode int
	Status     string
	// Message is the body's message field, empty when the body had none.
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Server error: %s", e.reason())
}

func (e *ServerError) reason() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != "" {
		return e.Status
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// NetworkError means no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("no response from server: %s", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ClientError means the request never left this process.
type ClientError struct {
	Err error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("An error occurred: %s", e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err.
func KindOf(err error) Kind {
	var (
		serr *ServerError
		nerr *NetworkError
		cerr *ClientError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &serr):
		return KindServer
	case errors.As(err, &nerr):
		return KindNetwork
	case errors.As(err, &cerr):
		return KindClient
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindUnknown
	}
	return KindClient
}

// Describe turns a login error into the message shown to the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var serr *ServerError
	switch KindOf(err) {
	case KindServer:
		errors.As(err, &serr)
		return serr.Error()
	case KindNetwork:
		return NetworkMessage
	case KindClient:
		var cerr *ClientError
		if errors.As(err, &cerr) {
			return cerr.Error()
		}
		return fmt.Sprintf("An error occurred: %s", err)
	}
	return err.Error()
}
