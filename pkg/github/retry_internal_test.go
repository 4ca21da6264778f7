package github

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v74/github"
)

func testPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}
}

func newResponse(status int) *Response {
	return &Response{Response: &http.Response{StatusCode: status}}
}

func Test_classify(t *testing.T) { //nolint:funlen
	t.Parallel()
	errAPI := errors.New("api error")
	data := []struct {
		name      string
		resp      *Response
		err       error
		exp       error
		transient bool
	}{
		{
			name: "not found",
			resp: newResponse(http.StatusNotFound),
			err:  errAPI,
			exp:  ErrNotFound,
		},
		{
			name: "unauthorized",
			resp: newResponse(http.StatusUnauthorized),
			err:  errAPI,
			exp:  ErrUnauthorized,
		},
		{
			name:      "too many requests",
			resp:      newResponse(http.StatusTooManyRequests),
			err:       errAPI,
			exp:       ErrUpstream,
			transient: true,
		},
		{
			name:      "bad gateway",
			resp:      newResponse(http.StatusBadGateway),
			err:       errAPI,
			exp:       ErrUpstream,
			transient: true,
		},
		{
			name: "unprocessable entity",
			resp: newResponse(http.StatusUnprocessableEntity),
			err:  errAPI,
			exp:  ErrUpstream,
		},
		{
			name:      "network error",
			err:       errAPI,
			exp:       ErrUpstream,
			transient: true,
		},
		{
			name: "primary rate limit",
			resp: newResponse(http.StatusForbidden),
			err:  &github.RateLimitError{Message: "API rate limit exceeded"},
			exp:  ErrRateLimited,
		},
		{
			name:      "secondary rate limit",
			resp:      newResponse(http.StatusForbidden),
			err:       &github.AbuseRateLimitError{Message: "secondary rate limit"},
			exp:       ErrUpstream,
			transient: true,
		},
		{
			name: "canceled",
			err:  context.Canceled,
			exp:  context.Canceled,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			err, transient := classify(d.resp, d.err)
			if !errors.Is(err, d.exp) {
				t.Fatalf("wanted %v, got %v", d.exp, err)
			}
			if transient != d.transient {
				t.Fatalf("transient: wanted %v, got %v", d.transient, transient)
			}
		})
	}
}

func Test_call(t *testing.T) {
	t.Parallel()
	t.Run("retry transient errors", func(t *testing.T) {
		t.Parallel()
		count := 0
		v, err := call(t.Context(), testPolicy(), func() (string, *Response, error) {
			count++
			if count < 3 { //nolint:mnd
				return "", newResponse(http.StatusServiceUnavailable), errors.New("unavailable")
			}
			return "ok", newResponse(http.StatusOK), nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if v != "ok" {
			t.Fatalf(`wanted "ok", got %q`, v)
		}
		if count != 3 { //nolint:mnd
			t.Fatalf("wanted 3 calls, got %d", count)
		}
	})
	t.Run("give up after max retries", func(t *testing.T) {
		t.Parallel()
		count := 0
		_, err := call(t.Context(), testPolicy(), func() (string, *Response, error) {
			count++
			return "", newResponse(http.StatusInternalServerError), errors.New("internal server error")
		})
		if !errors.Is(err, ErrUpstream) {
			t.Fatalf("wanted ErrUpstream, got %v", err)
		}
		if count != 3 { //nolint:mnd
			t.Fatalf("wanted 3 calls, got %d", count)
		}
	})
	t.Run("do not retry not found", func(t *testing.T) {
		t.Parallel()
		count := 0
		_, err := call(t.Context(), testPolicy(), func() (string, *Response, error) {
			count++
			return "", newResponse(http.StatusNotFound), errors.New("not found")
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("wanted ErrNotFound, got %v", err)
		}
		if count != 1 {
			t.Fatalf("wanted 1 call, got %d", count)
		}
	})
}

func TestIsFatal(t *testing.T) {
	t.Parallel()
	data := []struct {
		name string
		err  error
		exp  bool
	}{
		{name: "unauthorized", err: ErrUnauthorized, exp: true},
		{name: "rate limited", err: ErrRateLimited, exp: true},
		{name: "canceled", err: context.Canceled, exp: true},
		{name: "not found", err: ErrNotFound, exp: false},
		{name: "upstream", err: ErrUpstream, exp: false},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			if got := IsFatal(d.err); got != d.exp {
				t.Fatalf("wanted %v, got %v", d.exp, got)
			}
		})
	}
}
