package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures on the estimation path.
type ErrorKind int

const (
	KindValidation         ErrorKind = iota + 1 // bad request payload
	KindConfig                                  // missing or malformed credential
	KindUpstream                                // completion service failed
	KindParse                                   // reply could not be read
	KindResponseValidation                      // reply read but unusable
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfig:
		return "config"
	case KindUpstream:
		return "upstream"
	case KindParse:
		return "parse"
	case KindResponseValidation:
		return "response-validation"
	}
	return "unknown"
}

// Error is the single error type surfaced by the estimator.
type Error struct {
	Kind    ErrorKind
	Message string
	Details string
	// Status is the upstream HTTP status for KindUpstream, when known.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error of the given kind.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or 0 if err carries none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ValidationError represents a request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
