// Package gate runs every domain write through the same pipeline:
// validate, authorize, check consistency, persist, then notify.
//
// A failing stage short-circuits the ones after it. Notifications run only after a
// successful persist, and their outcome never changes the result of the write.
package gate

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/notification"
)

type (
	// Fanouter delivers notifications on a best-effort basis.
	Fanouter interface {
		Fanout(ctx context.Context, audience notification.Audience, msg notification.Message) notification.Result
		FanoutEach(ctx context.Context, msgs []notification.Personal) notification.Result
	}

	// Notice is one fanout to run after a successful write.
	Notice struct {
		Audience notification.Audience
		Message  notification.Message
		// Each replaces Audience and Message with one message per student, delivered as a single batch.
		Each []notification.Personal
	}

	// Mutation describes one gated write producing a T.
	Mutation[T any] struct {
		Op auth.Operation

		// Input is validated with the struct tags of the validator; nil skips it.
		Input interface{}
		// Validate runs extra shape checks after Input has been validated.
		Validate func() error

		// Class returns the class the write is scoped to. Non-admins must own it.
		Class func(ctx context.Context) (string, error)
		// Authorize runs the resource specific ownership checks.
		Authorize func(ctx context.Context) error

		// Check verifies that referenced entities exist and agree with each other.
		Check func(ctx context.Context) error

		Persist func(ctx context.Context) (T, error)

		// Notify builds the fanouts for the persisted result.
		Notify func(result T) []Notice
	}

	Gate struct {
		oracle   *auth.Oracle
		validate *validator.Validate
		fanout   Fanouter
	}
)

func New(oracle *auth.Oracle, validate *validator.Validate, fanout Fanouter) *Gate {
	return &Gate{oracle: oracle, validate: validate, fanout: fanout}
}

// Oracle exposes the ownership oracle to the read surface.
func (g *Gate) Oracle() *auth.Oracle { return g.oracle }

// ValidateStruct validates input with its struct tags.
func (g *Gate) ValidateStruct(input interface{}) error {
	return g.validate.Struct(input)
}

// AuthorizeRole fails with a core.ForbiddenError if p's role is not allowed to perform op.
func (g *Gate) AuthorizeRole(p auth.Principal, op auth.Operation) error {
	if !auth.Allows(op, p.Role) {
		return core.NewForbiddenError(fmt.Sprintf("role %q is not allowed to %s", p.Role, op))
	}
	return nil
}

// AuthorizeClass checks the role of p, then its ownership of the class. Admins bypass ownership but not the role check.
func (g *Gate) AuthorizeClass(ctx context.Context, p auth.Principal, op auth.Operation, classID string) error {
	if err := g.AuthorizeRole(p, op); err != nil {
		return err
	}
	if p.IsAdmin() {
		return nil
	}
	owner, err := g.oracle.IsOwnerOfClass(ctx, p.UserID, classID)
	if err != nil {
		return err
	}
	if !owner {
		return core.NewForbiddenError("you are not assigned to this class")
	}
	return nil
}

// Run executes m for principal p.
func Run[T any](ctx context.Context, g *Gate, p auth.Principal, m Mutation[T]) (T, error) {
	var zero T

	// 1. shape
	if m.Input != nil {
		if err := g.validate.Struct(m.Input); err != nil {
			return zero, err
		}
	}
	if m.Validate != nil {
		if err := m.Validate(); err != nil {
			return zero, err
		}
	}

	// 2. role & ownership
	if err := g.AuthorizeRole(p, m.Op); err != nil {
		return zero, err
	}
	if m.Class != nil {
		classID, err := m.Class(ctx)
		if err != nil {
			return zero, err
		}
		if err = g.AuthorizeClass(ctx, p, m.Op, classID); err != nil {
			return zero, err
		}
	}
	if m.Authorize != nil {
		if err := m.Authorize(ctx); err != nil {
			return zero, err
		}
	}

	// 3. cross-entity consistency
	if m.Check != nil {
		if err := m.Check(ctx); err != nil {
			return zero, err
		}
	}

	// 4. persist
	result, err := m.Persist(ctx)
	if err != nil {
		return zero, errors.Wrapf(err, "persisting %s", m.Op)
	}

	// 5. fanout
	if m.Notify != nil {
		for _, n := range m.Notify(result) {
			// The Result is dropped on purpose: the fanouter has logged any failure
			// and the write above is already committed.
			if n.Each != nil {
				_ = g.fanout.FanoutEach(ctx, n.Each)
				continue
			}
			_ = g.fanout.Fanout(ctx, n.Audience, n.Message)
		}
	}
	return result, nil
}
