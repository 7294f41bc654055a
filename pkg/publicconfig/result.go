package publicconfig

import (
	"net/http"
	"time"
)

// Outcome classifies how a resolution ended.
type Outcome uint8

const (
	OutcomeSucceeded Outcome = iota + 1
	OutcomeNotFound
	OutcomeBlocked
	OutcomeTransient
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Source tells whether a result was served from the store or the network.
type Source uint8

const (
	SourceCache Source = iota + 1
	SourceNetwork
)

func (s Source) String() string {
	if s == SourceNetwork {
		return "network"
	}
	return "cache"
}

// Result is the outcome of resolving one tenant key.
type Result struct {
	Key     string
	Outcome Outcome
	// Record is set only when Outcome is OutcomeSucceeded.
	Record *Record
	Source Source
	// RetryAt is the end of the backoff window for OutcomeBlocked.
	RetryAt time.Time
	Err     error
}

// Succeeded reports whether a record is available.
func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeSucceeded && r.Record != nil
}

// NotFound reports whether the visitor should see the not-found page.
// Rate-limited tenants are deliberately reported the same way as missing ones.
func (r Result) NotFound() bool {
	return r.Outcome == OutcomeNotFound || r.Outcome == OutcomeBlocked
}

// Transient reports whether resolution failed in a way worth retrying.
func (r Result) Transient() bool {
	return r.Outcome == OutcomeTransient
}

// Response is what a Fetcher got back from the configuration endpoint.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
