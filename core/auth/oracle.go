package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
)

var (
	// errors
	ErrRoleNotFound          = errors.New("no role assigned to user")
	ErrStudentRecordNotFound = core.NewNotFoundError("student record")
)

// Repository answers the ownership questions from persisted state.
type Repository interface {
	// GetRole returns ErrRoleNotFound if the user has no role row.
	GetRole(ctx context.Context, userID string) (Role, error)
	IsClassTeacher(ctx context.Context, teacherID, classID string) (bool, error)
	TeacherClassIDs(ctx context.Context, teacherID string) ([]string, error)
	// AssignmentCreator and TestCreator return a core.NotFoundError if the resource does not exist.
	AssignmentCreator(ctx context.Context, assignmentID string) (string, error)
	TestCreator(ctx context.Context, testID string) (string, error)
	// StudentIDByEmail matches case-insensitively and returns ErrStudentRecordNotFound when no roster row matches.
	StudentIDByEmail(ctx context.Context, email string) (string, error)
}

// Oracle resolves roles and ownership facts. It keeps no state between calls:
// revoking a class assignment takes effect on the very next request.
type Oracle struct {
	repo Repository
}

func NewOracle(repo Repository) *Oracle {
	return &Oracle{repo: repo}
}

func (o *Oracle) ResolveRole(ctx context.Context, userID string) (Role, error) {
	if userID == "" {
		return "", ErrRoleNotFound
	}
	return o.repo.GetRole(ctx, userID)
}

// ResolvePrincipal turns a verified identity into a Principal.
func (o *Oracle) ResolvePrincipal(ctx context.Context, id Identity) (Principal, error) {
	role, err := o.ResolveRole(ctx, id.UserID)
	if err != nil {
		return Principal{}, err
	}
	return Principal{UserID: id.UserID, Email: core.CleanString(id.Email, true /* lower */), Role: role}, nil
}

func (o *Oracle) IsOwnerOfClass(ctx context.Context, userID, classID string) (bool, error) {
	ok, err := o.repo.IsClassTeacher(ctx, userID, classID)
	return ok, errors.Wrap(err, "checking class assignment")
}

func (o *Oracle) IsOwnerOfAssignment(ctx context.Context, p Principal, assignmentID string) (bool, error) {
	creator, err := o.repo.AssignmentCreator(ctx, assignmentID)
	if err != nil {
		return false, errors.Wrap(err, "finding assignment creator")
	}
	return p.IsAdmin() || creator == p.UserID, nil
}

func (o *Oracle) IsOwnerOfTest(ctx context.Context, p Principal, testID string) (bool, error) {
	creator, err := o.repo.TestCreator(ctx, testID)
	if err != nil {
		return false, errors.Wrap(err, "finding test creator")
	}
	return p.IsAdmin() || creator == p.UserID, nil
}

// ResolveStudentIdentity finds the roster row of a student principal by its verified email.
// TODO: store the identity provider's user id on the roster row and drop the email match.
func (o *Oracle) ResolveStudentIdentity(ctx context.Context, p Principal) (string, error) {
	email := core.CleanString(p.Email, true /* lower */)
	if email == "" {
		return "", ErrStudentRecordNotFound
	}
	return o.repo.StudentIDByEmail(ctx, email)
}

// TeacherClassIDs lists the classes a teacher is currently assigned to.
func (o *Oracle) TeacherClassIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := o.repo.TeacherClassIDs(ctx, userID)
	return ids, errors.Wrap(err, "querying teacher classes")
}
