package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"claim-backend/internal/shared/metrics"
	"claim-backend/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

// ResilientClient wraps a Client with a single retry on transient errors and
// a circuit breaker so a failing provider sheds load quickly. Every failure
// still surfaces as an error value; callers degrade per their own policy.
type ResilientClient struct {
	base    Client
	breaker *gobreaker.CircuitBreaker[json.RawMessage]
	metrics *metrics.Metrics
}

// NewResilientClient wraps base. metrics may be nil.
func NewResilientClient(base Client, m *metrics.Metrics) *ResilientClient {
	settings := gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 2,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Caller cancellation is not a provider failure.
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			telemetry.Error("llm.breaker.state_change", map[string]any{
				"from": from.String(),
				"to":   to.String(),
			})
		},
	}
	return &ResilientClient{
		base:    base,
		breaker: gobreaker.NewCircuitBreaker[json.RawMessage](settings),
		metrics: m,
	}
}

// Complete invokes the wrapped client, retrying once on transient failure.
func (r *ResilientClient) Complete(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := r.breaker.Execute(func() (json.RawMessage, error) {
		return r.completeWithRetry(ctx, prompt)
	})
	if err != nil {
		r.metrics.RecordLLMRequest("error")
		return nil, err
	}
	r.metrics.RecordLLMRequest("ok")
	return resp, nil
}

func (r *ResilientClient) completeWithRetry(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := r.base.Complete(ctx, prompt)
	if err == nil || !shouldRetry(err) {
		return resp, err
	}

	telemetry.Info("llm.retry", map[string]any{"attempt": 1, "error": sanitizeError(err)})
	select {
	case <-time.After(retryBaseDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return r.base.Complete(ctx, prompt)
}

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") || strings.Contains(msg, "rate_limit") {
		return true
	}
	if strings.Contains(msg, "timeout") && (strings.Contains(msg, "openai") || strings.Contains(msg, "llm") || strings.Contains(msg, "client.timeout")) {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

var _ Client = (*ResilientClient)(nil)
