package actions

import (
	"errors"
	"fmt"
)

// Kind classifies why an action failed.
type Kind int

const (
	// KindUnexpected covers transport failures, malformed JSON and panics.
	KindUnexpected Kind = iota
	// KindInvalidInput means a required argument was missing or blank.
	KindInvalidInput
	// KindUpstreamHTTP means Jira answered with a non-2xx status.
	KindUpstreamHTTP
	// KindNoMatchingTransition means the requested status is not reachable.
	KindNoMatchingTransition
)

// String returns the taxonomy name of k.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindUpstreamHTTP:
		return "UpstreamHttpError"
	case KindNoMatchingTransition:
		return "NoMatchingTransition"
	default:
		return "UnexpectedError"
	}
}

// Error is the single error type returned by actions.
// Message is what the caller sees; Err is kept for operators.
type Error struct {
	Kind    Kind
	Status  int // HTTP status for KindUpstreamHTTP
	Message string
	Err     error
}

// Error implements error.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// invalidInput builds a KindInvalidInput error.
func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// upstream builds a KindUpstreamHTTP error.
func upstream(status int, format string, args ...any) *Error {
	return &Error{Kind: KindUpstreamHTTP, Status: status, Message: fmt.Sprintf(format, args...)}
}

// unexpected wraps err as KindUnexpected.
func unexpected(err error) *Error {
	return &Error{
		Kind:    KindUnexpected,
		Message: fmt.Sprintf("An unexpected error occurred: %v", err),
		Err:     err,
	}
}

// KindOf returns the Kind of err, KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnexpected
}

// ErrorResult is the failure shape of the result envelope.
type ErrorResult struct {
	Error string `json:"error"`
}

// toErrorResult normalizes any error into the envelope.
func toErrorResult(err error) ErrorResult {
	var ae *Error
	if errors.As(err, &ae) {
		return ErrorResult{Error: ae.Message}
	}
	return ErrorResult{Error: unexpected(err).Message}
}
