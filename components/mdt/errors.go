package mdt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLoopStopped is returned by entry points once Run has exited.
	ErrLoopStopped = errors.New("mdt: controller loop is not running")
	// ErrUnknownPage is returned when navigating to an unregistered page.
	ErrUnknownPage = errors.New("mdt: unknown page")
	// ErrUnknownForm is returned when opening an unregistered form.
	ErrUnknownForm = errors.New("mdt: unknown form")
	// ErrFormNotOpen is returned when submitting a form that is not the open modal.
	ErrFormNotOpen = errors.New("mdt: form is not open")
	// ErrSubmitNotWired is returned for forms without a submit handler.
	ErrSubmitNotWired = errors.New("mdt: form has no submit handler")

	errAlreadyRunning    = errors.New("mdt: controller loop already running")
	errMissingHostClient = errors.New("mdt: host client not configured")
)

// InitError wraps failures during the startup sequence.
type InitError struct {
	Err error
}

func (e *InitError) Error() string { return "mdt: init: " + e.Err.Error() }

func (e *InitError) Unwrap() error { return e.Err }

// FetchError wraps transport or decode failures of a data request.
type FetchError struct {
	Domain string
	Query  string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("mdt: fetch %s: %v", e.Domain, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func asFetchError(domain, query string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Domain: domain, Query: query, Err: err}
}

// MessageDispatchError describes an inbound envelope that could not be handled.
type MessageDispatchError struct {
	Type MessageType
	Err  error
}

func (e *MessageDispatchError) Error() string {
	return fmt.Sprintf("mdt: dispatch %q: %v", e.Type, e.Err)
}

func (e *MessageDispatchError) Unwrap() error { return e.Err }

// FormValidationError lists the required fields that were left empty.
type FormValidationError struct {
	Form   FormKind
	Fields []string
	Err    error
}

func (e *FormValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("mdt: form %s missing required fields: %s", e.Form, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("mdt: form %s failed validation: %v", e.Form, e.Err)
}

func (e *FormValidationError) Unwrap() error { return e.Err }
