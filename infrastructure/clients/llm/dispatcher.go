package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"scriptgo/infrastructure/logger"
)

var (
	ErrProvidersExhausted = errors.New("all AI providers are busy, please try again in a moment")
	ErrNoProviders        = errors.New("no AI provider configured")
	ErrEmptyCompletion    = errors.New("provider returned an empty response")
)

// jsonOnlySuffix is appended for targets that cannot be put in JSON mode.
const jsonOnlySuffix = "\n\nReturn ONLY the raw JSON object."

type OutcomeKind int

const (
	Success OutcomeKind = iota
	Retryable
	Fatal
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Retryable:
		return "retryable"
	default:
		return "fatal"
	}
}

// Outcome is the classified result of a single provider call.
type Outcome struct {
	Kind       OutcomeKind
	Text       string
	StatusCode int
	Err        error
}

// Classify maps a provider reply to Success, Retryable (429, 404, 403 or an empty reply) or Fatal.
func Classify(text string, err error) Outcome {
	if err == nil {
		if text == "" {
			return Outcome{Kind: Retryable, Err: ErrEmptyCompletion}
		}
		return Outcome{Kind: Success, Text: text}
	}
	code := 0
	var se *StatusError
	if errors.As(err, &se) {
		code = se.Code
	}
	switch code {
	case http.StatusTooManyRequests, http.StatusNotFound, http.StatusForbidden:
		return Outcome{Kind: Retryable, StatusCode: code, Err: err}
	}
	return Outcome{Kind: Fatal, StatusCode: code, Err: err}
}

// Target is one step of a fallback chain.
type Target struct {
	Provider Provider
	Model    string
	JSONMode bool
}

// Attempt records one step taken by the dispatcher.
type Attempt struct {
	Provider   string
	Model      string
	Outcome    OutcomeKind
	StatusCode int
	Err        error
	Latency    time.Duration
}

// Result is the text produced by the first successful target and every attempt made.
type Result struct {
	Text     string
	Provider string
	Model    string
	Attempts []Attempt
}

// FatalError aborts the chain without trying later targets.
type FatalError struct {
	Provider   string
	Model      string
	StatusCode int
	Err        error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("generation failed on %s/%s: %v", e.Provider, e.Model, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Dispatcher walks its targets strictly in order until one succeeds.
type Dispatcher struct {
	targets []Target
	timeout time.Duration
}

func NewDispatcher(timeout time.Duration, targets ...Target) *Dispatcher {
	return &Dispatcher{targets: targets, timeout: timeout}
}

func (d *Dispatcher) Targets() []Target { return d.targets }

// Generate returns the first non-empty completion. Retryable failures advance to the next
// target, anything else stops the chain. The returned Result is never nil.
func (d *Dispatcher) Generate(ctx context.Context, req Completion) (*Result, error) {
	res := &Result{}
	if len(d.targets) == 0 {
		return res, ErrNoProviders
	}
	lg := logger.GetLogger()

	var last Outcome
	for _, t := range d.targets {
		call := req
		call.Model = t.Model
		if req.JSON && !t.JSONMode {
			call.JSON = false
			call.User += jsonOnlySuffix
		}

		started := time.Now()
		text, err := d.complete(ctx, t.Provider, call)
		out := Classify(text, err)
		res.Attempts = append(res.Attempts, Attempt{
			Provider:   t.Provider.Name(),
			Model:      t.Model,
			Outcome:    out.Kind,
			StatusCode: out.StatusCode,
			Err:        out.Err,
			Latency:    time.Since(started),
		})

		switch out.Kind {
		case Success:
			res.Text, res.Provider, res.Model = out.Text, t.Provider.Name(), t.Model
			return res, nil
		case Retryable:
			lg.WithFields(map[string]interface{}{
				"provider": t.Provider.Name(),
				"model":    t.Model,
				"status":   out.StatusCode,
				"error":    out.Err,
			}).Warn("Provider unavailable, trying next model")
			last = out
		default:
			return res, &FatalError{Provider: t.Provider.Name(), Model: t.Model, StatusCode: out.StatusCode, Err: out.Err}
		}
	}
	return res, fmt.Errorf("%w (last error: %v)", ErrProvidersExhausted, last.Err)
}

func (d *Dispatcher) complete(ctx context.Context, p Provider, req Completion) (string, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	return p.Complete(ctx, req)
}
