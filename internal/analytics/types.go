package analytics

import (
	"errors"
	"fmt"
	"time"
)

// TimeRange is a span of time. Whether End is inclusive depends on the caller; see Contains
// and Covers.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies in [Start, End).
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Covers reports whether t lies in [Start, End].
func (r TimeRange) Covers(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ErrInvalidPeriod is returned for a period outside day|week|month|year.
var ErrInvalidPeriod = errors.New("invalid period")

// ErrMissingFetcher is returned when a report is requested without all three data sources.
var ErrMissingFetcher = errors.New("missing fetcher")

// FetchError reports that one of the report's data sources failed. Callers can tell
// "no data" apart from "could not load data" with errors.As.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
