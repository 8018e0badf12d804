package llm

import (
	"context"
	"fmt"
)

// Completion is a provider-neutral chat request. JSON asks the provider for a JSON object reply.
type Completion struct {
	Model       string
	System      string
	User        string
	Temperature float32
	JSON        bool
}

// Provider is a text generation backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Completion) (string, error)
}

// StatusError carries the HTTP status returned by a provider.
type StatusError struct {
	Provider string
	Code     int
	Err      error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (%d): %v", e.Provider, e.Code, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }
