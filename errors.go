package partyhub

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when an operation that is single-flight per
// playground (generation) is requested while one is already running.
var ErrBusy = errors.New("partyhub: operation already in flight")

// ErrNotFound is returned when a requested creation does not exist.
var ErrNotFound = errors.New("partyhub: not found")

// ValidationError reports a missing or invalid user input. It is always
// raised before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("partyhub: invalid %s: %s", e.Field, e.Reason)
}

// TransportError wraps a network or provider failure reaching the
// generative model. Surfaced to users as a generic retryable message.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("partyhub: generation transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError means the model answered but its reply parsed
// as neither fenced nor raw JSON. Raw is kept for diagnostics and must
// never be shown to end users.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("partyhub: malformed model response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// RenderError wraps an export rasterization failure. Retryable; it
// never corrupts in-memory playground state.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("partyhub: render: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// userMessage maps an error to the single line shown to the end user.
// Raw provider output and wrapped internals never pass through.
func userMessage(err error) string {
	var vErr *ValidationError
	var mErr *MalformedResponseError
	var tErr *TransportError
	var rErr *RenderError
	switch {
	case errors.As(err, &vErr):
		return "Please provide an image and a core message."
	case errors.Is(err, ErrBusy):
		return "A generation is already running. Hang tight."
	case errors.As(err, &mErr):
		return "The AI answered in a format we couldn't use. Please try again."
	case errors.As(err, &tErr):
		return "Couldn't reach the AI service. Please try again."
	case errors.As(err, &rErr):
		return "Failed to create image. Please try again."
	}
	return "Something went wrong. Please try again."
}
