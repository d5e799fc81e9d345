package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
)

// postgres error codes
const (
	uniqueViolation     = pq.ErrorCode("23505")
	foreignKeyViolation = pq.ErrorCode("23503")
	adminShutdown       = pq.ErrorCode("57P01")
	crashShutdown       = pq.ErrorCode("57P02")
)

// TranslateError maps a store error to the core error taxonomy.
// Unique violations become a core.ConflictError with msg. A server going down becomes a shutdown error,
// which stops the API gracefully. Unmapped errors are wrapped with op.
func TranslateError(err error, op, msg string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return core.NewConflictError(msg, err)
		case foreignKeyViolation:
			return core.NewValidationError(errors.New("referenced record does not exist"))
		case adminShutdown, crashShutdown:
			return core.NewShutdownError(fmt.Sprintf("%s: database is shutting down: %s", op, pqErr.Message))
		}
	}
	return errors.Wrap(err, op)
}

// IsNoRows reports whether err means an empty result.
func IsNoRows(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}
