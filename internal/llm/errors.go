package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRequestRejected is a 4xx other than 429: a bad key, an unknown model
// or a malformed request. Retrying cannot help.
type ErrRequestRejected struct {
	StatusCode int
	Err        error
}

func (e *ErrRequestRejected) Error() string {
	return fmt.Sprintf("LLM request rejected (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *ErrRequestRejected) Unwrap() error { return e.Err }

// classifyStatus maps a failed provider call onto the error types the
// retry layer understands. status is 0 when no HTTP response was received.
func classifyStatus(status int, header http.Header, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter(header), Err: err}
	case status == http.StatusRequestTimeout, status >= 500:
		return &ErrProviderUnavailable{Err: err}
	case status >= 400:
		return &ErrRequestRejected{StatusCode: status, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// retryAfter reads a Retry-After header in either seconds or HTTP-date form.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrNotConfigured is wrapped into CollaboratorUnavailableError when no
// provider was configured at all (no API key found).
var ErrNotConfigured = errors.New("no AI provider configured")

// CollaboratorUnavailableError is returned by the hint, feedback and
// exercise generation services when the AI collaborator cannot produce a
// usable answer. Callers fall back to static content; it is never fatal.
type CollaboratorUnavailableError struct {
	// Purpose names the failed operation, e.g. "hint" or "exercise-gen".
	Purpose string
	Err     error
}

func (e *CollaboratorUnavailableError) Error() string {
	return fmt.Sprintf("AI %s unavailable: %v", e.Purpose, e.Err)
}

func (e *CollaboratorUnavailableError) Unwrap() error { return e.Err }

// Unavailable wraps err as a CollaboratorUnavailableError for purpose.
func Unavailable(purpose string, err error) error {
	if err == nil {
		err = ErrNotConfigured
	}
	return &CollaboratorUnavailableError{Purpose: purpose, Err: err}
}

// IsUnavailable reports whether err is a CollaboratorUnavailableError.
func IsUnavailable(err error) bool {
	var cu *CollaboratorUnavailableError
	return errors.As(err, &cu)
}
