// Package brain holds the conversational core of the assistant: the
// provider adapters, the bounded conversation history, the response
// cache and the session tying them together.
package brain

import (
	"context"
	"fmt"
	"time"
)

// Turn is one completed prompt/response exchange.
type Turn struct {
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Provider is a pluggable natural-language backend. Ask sends the prompt
// together with the prior turns and returns the reply text. Selection is
// static configuration; there is no runtime failover.
type Provider interface {
	Ask(ctx context.Context, prompt string, history []Turn) (string, error)
	Name() string
}

// ProviderError wraps a backend failure with enough context to log and
// to speak a short message to the user.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func provErr(provider, op string, err error) error {
	return &ProviderError{Provider: provider, Op: op, Err: err}
}
