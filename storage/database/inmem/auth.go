package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/campus/core/assignment"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/mcq"
)

type authRepository struct {
	db *DB
}

func NewAuthRepository(db *DB) auth.Repository {
	return &authRepository{db: db}
}

func (repo *authRepository) GetRole(_ context.Context, userID string) (auth.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if r, ok := repo.db.roles[userID]; ok {
		return r, nil
	}
	return "", auth.ErrRoleNotFound
}

func (repo *authRepository) IsClassTeacher(_ context.Context, teacherID, classID string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	_, ok := repo.db.classTeachers[[2]string{classID, teacherID}]
	return ok, nil
}

func (repo *authRepository) TeacherClassIDs(_ context.Context, teacherID string) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	ids := make([]string, 0)
	for key := range repo.db.classTeachers {
		if key[1] == teacherID {
			ids = append(ids, key[0])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (repo *authRepository) AssignmentCreator(_ context.Context, assignmentID string) (string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if a, ok := repo.db.assignments[assignmentID]; ok {
		return a.CreatedBy, nil
	}
	return "", assignment.ErrNotFound
}

func (repo *authRepository) TestCreator(_ context.Context, testID string) (string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if t, ok := repo.db.tests[testID]; ok {
		return t.CreatedBy, nil
	}
	return "", mcq.ErrNotFound
}

func (repo *authRepository) StudentIDByEmail(_ context.Context, email string) (string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	for _, s := range repo.db.students {
		if strings.EqualFold(s.Email, email) {
			return s.ID, nil
		}
	}
	return "", auth.ErrStudentRecordNotFound
}
