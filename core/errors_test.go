package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("pq: duplicate key value violates unique constraint")
	tests := []struct {
		name    string
		err     error
		is      func(error) bool
		wantMsg string
	}{
		{"validation", NewValidationError(errors.New("bad date")), IsValidation, "bad date"},
		{"validation field", NewValidationError(nil, FieldError{Field: "date", Error: "date is required"}), IsValidation, "date: date is required"},
		{"unauthenticated", NewUnauthenticatedError("invalid or expired token"), IsUnauthenticated, "invalid or expired token"},
		{"forbidden", NewForbiddenError("you are not assigned to this class"), IsForbidden, "you are not assigned to this class"},
		{"not found", NewNotFoundError("exam"), IsNotFound, "exam not found"},
		{"conflict", NewConflictError("test already submitted"), IsConflict, "test already submitted"},
		{"conflict with cause", NewConflictError("test already submitted", cause), IsConflict, "test already submitted: " + cause.Error()},
		{"shutdown", NewShutdownError("database is shutting down"), IsShutdown, "database is shutting down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.True(t, tt.is(tt.err))
			assert.True(t, tt.is(errors.Wrap(tt.err, "persisting uploadMarks")), "kind must survive wrapping")
			assert.False(t, tt.is(cause))
		})
	}
}

func TestConflictError_Message(t *testing.T) {
	err := NewConflictError("assignment already submitted", errors.New("pq: 23505"))
	var ce *ConflictError
	if assert.True(t, errors.As(errors.Wrap(err, "submitting"), &ce)) {
		assert.Equal(t, "assignment already submitted", ce.Message())
	}
}
