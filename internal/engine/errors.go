package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrBodyTooLarge is returned when an upstream body exceeds the configured cap.
var ErrBodyTooLarge = errors.New("upstream body too large")

// ValidationError reports a missing, malformed or conflicting request selector.
// It is a client fault and never reaches the upstream.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FetchError wraps a failed upstream GET: transport failure, timeout or non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP Error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err == nil {
		return "upstream fetch failed"
	}
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports an upstream body that could not be decoded.
type ParseError struct {
	Format string // "feed" or "oembed"
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
