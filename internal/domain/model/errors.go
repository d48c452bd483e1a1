package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrServiceNotSupported = errors.New("service not supported")
	ErrStaleUpdate         = errors.New("stale update")
	ErrTransport           = errors.New("transport error")
	ErrPersistence         = errors.New("persistence error")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotSupportedError is returned when no declared action matches a verb on an object.
type NotSupportedError struct {
	Subject    string
	Verb       string
	Suggestion string
}

func (e *NotSupportedError) Error() string {
	msg := fmt.Sprintf("service %q not supported for %q", e.Verb, e.Subject)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *NotSupportedError) Unwrap() error { return ErrServiceNotSupported }
