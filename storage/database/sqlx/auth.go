package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/assignment"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/mcq"
	"github.com/trezcool/campus/storage/database"
)

type authRepository struct {
	db core.DBExecutor
}

func NewAuthRepository(db core.DBExecutor) auth.Repository {
	return &authRepository{db: db}
}

func (repo authRepository) GetRole(ctx context.Context, userID string) (auth.Role, error) {
	if !isUUID(userID) {
		return "", auth.ErrRoleNotFound
	}
	var role auth.Role
	err := get(ctx, repo.db, &role, psql.Select("role").From("user_roles").Where(sq.Eq{"user_id": userID}))
	if database.IsNoRows(err) {
		return "", auth.ErrRoleNotFound
	}
	return role, errors.Wrap(err, "getting role")
}

func (repo authRepository) IsClassTeacher(ctx context.Context, teacherID, classID string) (bool, error) {
	if !isUUID(teacherID, classID) {
		return false, nil
	}
	return exists(ctx, repo.db, psql.Select("1").From("class_teachers").Where(sq.Eq{"teacher_id": teacherID, "class_id": classID}))
}

func (repo authRepository) TeacherClassIDs(ctx context.Context, teacherID string) ([]string, error) {
	ids := make([]string, 0)
	if !isUUID(teacherID) {
		return ids, nil
	}
	err := selectAll(ctx, repo.db, &ids, psql.Select("class_id").From("class_teachers").Where(sq.Eq{"teacher_id": teacherID}))
	return ids, err
}

func (repo authRepository) AssignmentCreator(ctx context.Context, assignmentID string) (string, error) {
	return repo.creator(ctx, "assignments", assignmentID, assignment.ErrNotFound)
}

func (repo authRepository) TestCreator(ctx context.Context, testID string) (string, error) {
	return repo.creator(ctx, "mcq_tests", testID, mcq.ErrNotFound)
}

func (repo authRepository) creator(ctx context.Context, table, id string, notFound error) (string, error) {
	if !isUUID(id) {
		return "", notFound
	}
	var createdBy string
	err := get(ctx, repo.db, &createdBy, psql.Select("created_by").From(table).Where(sq.Eq{"id": id}))
	if database.IsNoRows(err) {
		return "", notFound
	}
	return createdBy, err
}

func (repo authRepository) StudentIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := get(ctx, repo.db, &id, psql.Select("id").From("students").Where("lower(email) = lower(?)", email))
	if database.IsNoRows(err) {
		return "", auth.ErrStudentRecordNotFound
	}
	return id, err
}
