package publicconfig

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("publicconfig: tenant not found")
	ErrRateLimited      = errors.New("publicconfig: rate limited by configuration endpoint")
	ErrTransient        = errors.New("publicconfig: transient configuration failure")
	ErrMalformedPayload = errors.New("publicconfig: malformed configuration payload")
	ErrUnexpectedStatus = errors.New("publicconfig: unexpected response status")
	ErrNilFetcher       = errors.New("publicconfig: fetcher is nil")
	ErrBodyTooLarge     = errors.New("publicconfig: response body too large")
	ErrMissingBaseURL   = errors.New("publicconfig: base URL is required")
)

// RateLimitError carries the backoff window announced by a 429 response.
// It matches ErrRateLimited with errors.Is.
type RateLimitError struct {
	Until time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("publicconfig: rate limited until %s", e.Until.Format(time.RFC3339))
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
