// Package parsererror holds the typed errors raised at the edges of the
// statistics engine: amount and date parsing, the REST API boundary and
// user-supplied filters.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when no statistics could be produced for a request.
var ErrNoData = errors.New("no statistics available")

// ParseError represents a value that could not be parsed.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-2xx response from the REST API.
type RemoteError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("request to %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("request to %s failed with status %d", e.Endpoint, e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == 401
}

// ShapeError is a response body that matched none of the known envelopes.
type ShapeError struct {
	Endpoint string
	Reason   string
	Err      error
}

func (e *ShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected payload from %s: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("unexpected payload from %s: %s", e.Endpoint, e.Reason)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// ValidationError represents rejected user input such as an unknown period
// or a malformed custom date.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
