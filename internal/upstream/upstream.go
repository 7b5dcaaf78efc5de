// Package upstream carries the error type shared by all external
// collaborators (model invocation, text extraction, transcription) so the API
// layer can map any of them to one failure class.
package upstream

import "fmt"

// Error wraps a failed call to an external service, keeping the service name
// so the caller can distinguish "the model was unreachable" from "the resume
// could not be fetched".
type Error struct {
	Service string
	Reason  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Errorf builds an Error with a formatted reason.
func Errorf(service string, wrapped error, format string, args ...any) *Error {
	return &Error{
		Service: service,
		Reason:  fmt.Sprintf(format, args...),
		Wrapped: wrapped,
	}
}
