// Package llm talks to an OpenAI-compatible chat completion API (Groq by default).
package llm

//go:generate mockgen -destination=mocks/completer.go -package=mocks medicart/internal/llm Completer

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured means no API key was provided
	ErrNotConfigured = errors.New("llm: client not configured")
	// ErrUpstreamUnavailable covers transport failures and API error responses
	ErrUpstreamUnavailable = errors.New("llm: upstream unavailable")
	// ErrMalformedResponse means the API answered but without usable content
	ErrMalformedResponse = errors.New("llm: malformed response")
)

// Request is a single-turn completion: one system prompt and one user message
type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// Completer returns the assistant text for a request
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
}
