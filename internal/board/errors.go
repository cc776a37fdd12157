package board

import "fmt"

// ValidationError reports bad caller input and maps to HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuthError reports a shared-secret mismatch and maps to HTTP 401.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }

// UpstreamError wraps any failure contacting an external API. It maps
// to HTTP 500 with a generic body; the wrapped detail is only logged.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("upstream %s: %v", e.Op, e.Err) }

func (e *UpstreamError) Unwrap() error { return e.Err }
