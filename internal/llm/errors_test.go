package llm

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"429", http.StatusTooManyRequests, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"408", http.StatusRequestTimeout, func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}},
		{"503", http.StatusServiceUnavailable, func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}},
		{"401", http.StatusUnauthorized, func(err error) bool {
			var rej *ErrRequestRejected
			return errors.As(err, &rej)
		}},
		{"no response", 0, func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStatus(tt.status, nil, cause)
			if !tt.check(err) {
				t.Fatalf("classifyStatus(%d) = %T", tt.status, err)
			}
			if !errors.Is(err, cause) {
				t.Fatalf("cause lost: %v", err)
			}
		})
	}
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	if d := retryAfter(h); d != 0 {
		t.Fatalf("missing header: got %s", d)
	}
	h.Set("Retry-After", "3")
	if d := retryAfter(h); d != 3*time.Second {
		t.Fatalf("seconds form: got %s", d)
	}
	h.Set("Retry-After", time.Now().Add(time.Minute).UTC().Format(http.TimeFormat))
	if d := retryAfter(h); d <= 0 || d > time.Minute {
		t.Fatalf("date form: got %s", d)
	}
	h.Set("Retry-After", "soon")
	if d := retryAfter(h); d != 0 {
		t.Fatalf("garbage: got %s", d)
	}
}
