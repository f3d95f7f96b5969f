package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

type countingClient struct {
	calls   int32
	results []func() (json.RawMessage, error)
}

func (c *countingClient) Complete(ctx context.Context, prompt string) (json.RawMessage, error) {
	n := atomic.AddInt32(&c.calls, 1)
	idx := int(n) - 1
	if idx >= len(c.results) {
		idx = len(c.results) - 1
	}
	return c.results[idx]()
}

func TestResilientRetriesTransientError(t *testing.T) {
	base := &countingClient{results: []func() (json.RawMessage, error){
		func() (json.RawMessage, error) { return nil, fmt.Errorf("openai http status 5xx: 503") },
		func() (json.RawMessage, error) { return json.RawMessage(`{"ok":true}`), nil },
	}}
	c := NewResilientClient(base, nil)

	raw, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Fatalf("raw = %s", raw)
	}
	if got := atomic.LoadInt32(&base.calls); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

func TestResilientDoesNotRetryPermanentError(t *testing.T) {
	base := &countingClient{results: []func() (json.RawMessage, error){
		func() (json.RawMessage, error) { return nil, errors.New("openai error: invalid request (invalid_request_error)") },
	}}
	c := NewResilientClient(base, nil)

	if _, err := c.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&base.calls); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestResilientDoesNotRetryCancellation(t *testing.T) {
	base := &countingClient{results: []func() (json.RawMessage, error){
		func() (json.RawMessage, error) { return nil, context.Canceled },
	}}
	c := NewResilientClient(base, nil)

	if _, err := c.Complete(context.Background(), "prompt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got := atomic.LoadInt32(&base.calls); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"cancel", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"server 5xx", errors.New("openai http status 5xx: 502"), true},
		{"rate limit", errors.New("openai error: slow down (rate_limit_exceeded)"), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"client timeout", errors.New("openai request timeout: Client.Timeout exceeded"), true},
		{"bad request", errors.New("openai error: bad schema (invalid_request_error)"), false},
		{"parse failure", errors.New("openai response parse: unexpected end of JSON input"), false},
	}
	for _, tc := range cases {
		if got := shouldRetry(tc.err); got != tc.want {
			t.Errorf("%s: shouldRetry = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSanitizeErrorTruncates(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	got := sanitizeError(errors.New(string(long)))
	if len(got) != 200 {
		t.Fatalf("len = %d, want 200", len(got))
	}
}
