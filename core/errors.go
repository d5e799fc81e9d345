package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a client-fixable input error (400).
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// UnauthenticatedError means the request carries no valid credential (401).
type UnauthenticatedError struct {
	msg string
}

func NewUnauthenticatedError(msg string) error {
	return &UnauthenticatedError{msg: msg}
}

func (err UnauthenticatedError) Error() string { return err.msg }

// ForbiddenError means the principal is authenticated but lacks the role or ownership (403).
type ForbiddenError struct {
	msg string
}

func NewForbiddenError(msg string) error {
	return &ForbiddenError{msg: msg}
}

func (err ForbiddenError) Error() string { return err.msg }

// NotFoundError means a referenced entity does not exist (404).
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

func (err NotFoundError) Error() string { return err.Resource + " not found" }

// ConflictError is a uniqueness violation (409).
type ConflictError struct {
	msg string
	Err error
}

func NewConflictError(msg string, cause ...error) error {
	ce := &ConflictError{msg: msg}
	if len(cause) > 0 {
		ce.Err = cause[0]
	}
	return ce
}

func (err ConflictError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("%s: %v", err.msg, err.Err)
	}
	return err.msg
}

// Message is the client-facing part of the error, without the store's details.
func (err ConflictError) Message() string { return err.msg }

func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

func IsUnauthenticated(err error) bool {
	_, ok := errors.Cause(err).(*UnauthenticatedError)
	return ok
}

func IsForbidden(err error) bool {
	_, ok := errors.Cause(err).(*ForbiddenError)
	return ok
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
