// Package auth talks to the panel server's authentication endpoint.
package auth

import (
	"context"
)

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	Login(ctx context.Context, credentials Credentials) (TokenInfo, error)
}

// Credentials is the login payload. Both fields may be empty.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenInfo is what a successful login returns. Present is false when the
// server answered 2xx without a token field; Token is then empty.
type TokenInfo struct {
	Token   string
	Present bool
}

type loginResponse struct {
	Token *string `json:"token"`
}

type errorResponse struct {
	Message string `json:"message"`
}
