package llm_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"scriptgo/infrastructure/clients/llm"
	"scriptgo/infrastructure/configuration"

	qt "github.com/frankban/quicktest"
)

type reply struct {
	text string
	err  error
}

type fakeProvider struct {
	name    string
	replies []reply
	calls   *[]string
	seen    []llm.Completion
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(_ context.Context, req llm.Completion) (string, error) {
	*f.calls = append(*f.calls, f.name+"/"+req.Model)
	f.seen = append(f.seen, req)
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r.text, r.err
}

func status(code int) error {
	return &llm.StatusError{Provider: "fake", Code: code, Err: errors.New(http.StatusText(code))}
}

func TestDispatcher_FallsBackOnRateLimit(t *testing.T) {
	c := qt.New(t)
	var calls []string
	a := &fakeProvider{name: "a", replies: []reply{{err: status(http.StatusTooManyRequests)}}, calls: &calls}
	b := &fakeProvider{name: "b", replies: []reply{{err: status(http.StatusTooManyRequests)}}, calls: &calls}
	cc := &fakeProvider{name: "c", replies: []reply{{text: "script from C"}}, calls: &calls}

	d := llm.NewDispatcher(time.Second,
		llm.Target{Provider: a, Model: "m1"},
		llm.Target{Provider: b, Model: "m2"},
		llm.Target{Provider: cc, Model: "m3"},
	)
	res, err := d.Generate(context.Background(), llm.Completion{System: "s", User: "u"})

	c.Assert(err, qt.IsNil)
	c.Assert(res.Text, qt.Equals, "script from C")
	c.Assert(res.Provider, qt.Equals, "c")
	c.Assert(res.Model, qt.Equals, "m3")
	c.Assert(calls, qt.DeepEquals, []string{"a/m1", "b/m2", "c/m3"})
	c.Assert(res.Attempts, qt.HasLen, 3)
	c.Assert(res.Attempts[0].Outcome, qt.Equals, llm.Retryable)
	c.Assert(res.Attempts[0].StatusCode, qt.Equals, http.StatusTooManyRequests)
	c.Assert(res.Attempts[2].Outcome, qt.Equals, llm.Success)
}

func TestDispatcher_FatalStopsChain(t *testing.T) {
	c := qt.New(t)
	var calls []string
	a := &fakeProvider{name: "a", replies: []reply{{err: status(http.StatusBadRequest)}}, calls: &calls}
	b := &fakeProvider{name: "b", replies: []reply{{text: "never"}}, calls: &calls}
	cc := &fakeProvider{name: "c", replies: []reply{{text: "never"}}, calls: &calls}

	d := llm.NewDispatcher(0,
		llm.Target{Provider: a, Model: "m1"},
		llm.Target{Provider: b, Model: "m2"},
		llm.Target{Provider: cc, Model: "m3"},
	)
	res, err := d.Generate(context.Background(), llm.Completion{User: "u"})

	var fatal *llm.FatalError
	c.Assert(errors.As(err, &fatal), qt.IsTrue)
	c.Assert(fatal.StatusCode, qt.Equals, http.StatusBadRequest)
	c.Assert(fatal.Provider, qt.Equals, "a")
	c.Assert(calls, qt.DeepEquals, []string{"a/m1"})
	c.Assert(res.Attempts, qt.HasLen, 1)
}

func TestDispatcher_Exhausted(t *testing.T) {
	c := qt.New(t)
	var calls []string
	a := &fakeProvider{name: "a", replies: []reply{{err: status(http.StatusNotFound)}}, calls: &calls}
	b := &fakeProvider{name: "b", replies: []reply{{err: status(http.StatusForbidden)}}, calls: &calls}

	d := llm.NewDispatcher(0, llm.Target{Provider: a, Model: "m1"}, llm.Target{Provider: b, Model: "m2"})
	res, err := d.Generate(context.Background(), llm.Completion{User: "u"})

	c.Assert(errors.Is(err, llm.ErrProvidersExhausted), qt.IsTrue)
	c.Assert(res.Text, qt.Equals, "")
	c.Assert(calls, qt.HasLen, 2)
}

func TestDispatcher_EmptyReplyAdvances(t *testing.T) {
	c := qt.New(t)
	var calls []string
	a := &fakeProvider{name: "a", replies: []reply{{text: ""}}, calls: &calls}
	b := &fakeProvider{name: "b", replies: []reply{{text: "ok"}}, calls: &calls}

	res, err := llm.NewDispatcher(0, llm.Target{Provider: a, Model: "m1"}, llm.Target{Provider: b, Model: "m2"}).
		Generate(context.Background(), llm.Completion{User: "u"})

	c.Assert(err, qt.IsNil)
	c.Assert(res.Text, qt.Equals, "ok")
	c.Assert(res.Attempts[0].Err, qt.Equals, llm.ErrEmptyCompletion)
}

func TestDispatcher_JSONModeFallbackInstruction(t *testing.T) {
	c := qt.New(t)
	var calls []string
	a := &fakeProvider{name: "a", replies: []reply{{err: status(http.StatusTooManyRequests)}}, calls: &calls}
	b := &fakeProvider{name: "b", replies: []reply{{text: `{"scripts":[]}`}}, calls: &calls}

	d := llm.NewDispatcher(0,
		llm.Target{Provider: a, Model: "json-model", JSONMode: true},
		llm.Target{Provider: b, Model: "plain-model"},
	)
	_, err := d.Generate(context.Background(), llm.Completion{User: "calendar", JSON: true})

	c.Assert(err, qt.IsNil)
	c.Assert(a.seen[0].JSON, qt.IsTrue)
	c.Assert(a.seen[0].User, qt.Equals, "calendar")
	c.Assert(b.seen[0].JSON, qt.IsFalse)
	c.Assert(b.seen[0].User, qt.Equals, "calendar\n\nReturn ONLY the raw JSON object.")
}

func TestDispatcher_NoTargets(t *testing.T) {
	c := qt.New(t)
	res, err := llm.NewDispatcher(0).Generate(context.Background(), llm.Completion{})
	c.Assert(err, qt.Equals, llm.ErrNoProviders)
	c.Assert(res, qt.IsNotNil)
}

func TestClassify(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		name string
		text string
		err  error
		want llm.OutcomeKind
	}{
		{"success", "hello", nil, llm.Success},
		{"empty", "", nil, llm.Retryable},
		{"rate limited", "", status(429), llm.Retryable},
		{"model not found", "", status(404), llm.Retryable},
		{"forbidden", "", status(403), llm.Retryable},
		{"unauthorized", "", status(401), llm.Fatal},
		{"server error", "", status(500), llm.Fatal},
		{"network", "", errors.New("dial tcp: refused"), llm.Fatal},
		{"canceled", "", context.Canceled, llm.Fatal},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(llm.Classify(tt.text, tt.err).Kind, qt.Equals, tt.want)
		})
	}
}

func TestOutcomeKindString(t *testing.T) {
	c := qt.New(t)
	c.Assert(llm.Success.String(), qt.Equals, "success")
	c.Assert(llm.Retryable.String(), qt.Equals, "retryable")
	c.Assert(llm.Fatal.String(), qt.Equals, "fatal")
}

func TestBuildTargets_SkipsMissingProviders(t *testing.T) {
	c := qt.New(t)
	var calls []string
	or := &fakeProvider{name: "openrouter", calls: &calls}

	targets := llm.BuildTargets(map[string]llm.Provider{"openrouter": or}, configuration.DefaultScriptChain())

	c.Assert(targets, qt.HasLen, 1)
	c.Assert(targets[0].Model, qt.Equals, "google/gemini-2.0-flash-exp:free")

	targets = llm.BuildTargets(map[string]llm.Provider{"openrouter": or}, configuration.DefaultPlannerChain())
	c.Assert(targets, qt.HasLen, 3)
	c.Assert(targets[2].JSONMode, qt.IsFalse)
}
