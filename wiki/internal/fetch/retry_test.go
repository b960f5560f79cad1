package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"testing"
	"time"
)

func testPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{MaxRetries: maxRetries, Initial: time.Millisecond, Factor: 2}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := testPolicy(3).Do(context.Background(), slog.Default(), "op", func() error {
		calls++
		if calls < 3 {
			return &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryExhaustionWrapsNetworkError(t *testing.T) {
	calls := 0
	cause := &url.Error{Op: "Get", URL: "http://x", Err: errors.New("timeout")}
	err := testPolicy(3).Do(context.Background(), slog.Default(), "page Test", func() error {
		calls++
		return cause
	})

	// max_retries additional attempts after the first try.
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %T, want *NetworkError", err)
	}
	if netErr.Op != "page Test" {
		t.Errorf("op = %q, want %q", netErr.Op, "page Test")
	}
	if !errors.Is(err, cause) {
		t.Error("NetworkError should wrap the last cause")
	}
}

func TestRetryDoesNotRetryContentErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", &NotFoundError{Title: "Nope"}},
		{"redirect", &RedirectError{From: "A", To: "B"}},
		{"client status", &statusError{code: 404}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := testPolicy(3).Do(context.Background(), slog.Default(), "op", func() error {
				calls++
				return tt.err
			})
			if calls != 1 {
				t.Errorf("calls = %d, want 1", calls)
			}
			if !errors.Is(err, tt.err) && err != tt.err {
				t.Errorf("error = %v, want %v unretried", err, tt.err)
			}
		})
	}
}

func TestRetryServerErrorsAreTransient(t *testing.T) {
	calls := 0
	err := testPolicy(2).Do(context.Background(), slog.Default(), "op", func() error {
		calls++
		return fmt.Errorf("upstream: %w", &statusError{code: 503})
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %T, want *NetworkError", err)
	}
}
