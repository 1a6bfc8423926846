// Package auth wraps the hosted identity provider behind a small Provider
// interface and keeps the signed-in session in an explicit Session value.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
)

// SessionKey is the storage key the raw provider response is kept under.
const SessionKey = "kagzat.auth.session"

// ProviderError is a failure reported by the identity provider. Message is
// the provider's text, shown to users unchanged.
type ProviderError struct {
	Status  int    `json:"status,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth: %s (%s)", e.Message, e.Code)
	}
	return "auth: " + e.Message
}

// Response mirrors the provider's {data, error} envelope.
type Response struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ProviderError  `json:"error,omitempty"`
}

// Provider performs the three auth calls. A non-nil error means the call
// itself failed (network, decoding); provider-side rejections come back in
// Response.Error.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (Response, error)
	SignInWithPassword(ctx context.Context, email, password string) (Response, error)
	SignInWithOAuth(ctx context.Context, provider, redirectTo string) (Response, error)
}

// Result is what the UI sees.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
