package fetch

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/oakhollow/stardewiki/metrics"
)

// RetryPolicy retries transient failures with exponential backoff.
// MaxRetries is the number of additional attempts after the first try.
type RetryPolicy struct {
	MaxRetries int
	Initial    time.Duration
	Factor     float64
}

// Do runs fn, retrying transient failures per the policy. Non-transient
// errors (not found, redirect) are returned immediately. After exhausting
// retries the last error is wrapped in a NetworkError carrying op.
func (p RetryPolicy) Do(ctx context.Context, log *slog.Logger, op string, fn func() error) error {
	delay := p.Initial
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		if attempt >= p.MaxRetries {
			break
		}
		log.Warn("fetch: transient failure, retrying",
			"op", op, "attempt", attempt+1, "delay", delay, "error", err)
		metrics.RetriesTotal.Inc()
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return &NetworkError{Op: op, Err: ctx.Err()}
		}
		delay = time.Duration(float64(delay) * p.Factor)
	}
	return &NetworkError{Op: op, Err: err}
}

// isTransient reports whether err is an infrastructure failure worth
// retrying. Content failures carry their own types and are never retried.
func isTransient(err error) bool {
	var nf *NotFoundError
	var rd *RedirectError
	if errors.As(err, &nf) || errors.As(err, &rd) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
