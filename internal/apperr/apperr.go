package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for HTTP mapping and metrics labeling.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindRetrievalUnavailable
	KindGenerationUnavailable
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindRetrievalUnavailable:
		return "retrieval_unavailable"
	case KindGenerationUnavailable:
		return "generation_unavailable"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is the application error type carried from the core to the HTTP layer.
// Message is safe to show to callers; Err holds the internal cause.
type Error struct {
	Kind       Kind
	Reason     string // fine-grained metrics label, e.g. "empty_input"
	Dependency string // failing external dependency, if any
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorType is the label used for the chat error counter.
func (e *Error) ErrorType() string {
	if e.Reason != "" {
		return e.Reason
	}
	return e.Kind.String()
}

func InvalidInput(reason, message string) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Reason:  reason,
		Message: message,
	}
}

func RetrievalUnavailable(dependency string, err error) *Error {
	return &Error{
		Kind:       KindRetrievalUnavailable,
		Dependency: dependency,
		Message:    "An internal error occurred. Please try again later.",
		Err:        err,
	}
}

func GenerationUnavailable(dependency string, err error) *Error {
	return &Error{
		Kind:       KindGenerationUnavailable,
		Dependency: dependency,
		Message:    "An internal error occurred. Please try again later.",
		Err:        err,
	}
}

func Configuration(message string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: message,
	}
}

// KindOf extracts the Kind from any error chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// As is a convenience wrapper around errors.As.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}
