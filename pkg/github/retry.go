package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v74/github"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("the GitHub API rejected the credential")
	ErrRateLimited  = errors.New("the GitHub API rate limit is exhausted")
	ErrUpstream     = errors.New("the GitHub API request failed")
)

// IsFatal reports whether err must abort the whole run rather than degrade a
// single row.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// RetryPolicy bounds the retries of transient API failures
// (429, 5xx, secondary rate limits and network errors).
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:      3, //nolint:mnd
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second, //nolint:mnd
	}
}

func (p *RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

// call invokes fn and retries it while the failure is transient.
// The returned error always wraps one of the sentinel errors of this package
// or a context error.
func call[T any](ctx context.Context, policy *RetryPolicy, fn func() (T, *Response, error)) (T, error) {
	var result T
	op := func() error {
		v, resp, err := fn()
		if err == nil {
			result = v
			return nil
		}
		cerr, transient := classify(resp, err)
		if !transient {
			return backoff.Permanent(cerr)
		}
		return cerr
	}
	if err := backoff.Retry(op, policy.backOff(ctx)); err != nil {
		return result, err //nolint:wrapcheck
	}
	return result, nil
}

// classify maps a go-github error to a sentinel error and reports whether
// the request may be retried.
func classify(resp *Response, err error) (error, bool) { //nolint:cyclop
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err, false
	}
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err), false
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %w", ErrUpstream, err), true
	}
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err), false
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err), false
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", ErrUpstream, err), true
	case status != 0:
		return fmt.Errorf("%w: %w", ErrUpstream, err), false
	default:
		// no response: network failure
		return fmt.Errorf("%w: %w", ErrUpstream, err), true
	}
}
