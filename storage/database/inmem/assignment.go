package inmemdb

import (
	"context"

	"github.com/trezcool/campus/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.assignments[a.ID] = a
	return a, nil
}

func (repo *assignmentRepository) GetAssignment(_ context.Context, id string) (assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if a, ok := repo.db.assignments[id]; ok {
		return a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignments(_ context.Context, classIDs []string) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	as := make([]assignment.Assignment, 0)
	for _, a := range repo.db.assignments {
		if classIDs == nil || contains(classIDs, a.ClassID) {
			as = append(as, a)
		}
	}
	return as, nil
}

func (repo *assignmentRepository) CreateSubmission(_ context.Context, s assignment.Submission) (assignment.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == s.AssignmentID && sub.StudentID == s.StudentID {
			return assignment.Submission{}, assignment.ErrAlreadySubmitted
		}
	}
	repo.db.submissions = append(repo.db.submissions, s)
	return s, nil
}

func (repo *assignmentRepository) HasSubmitted(_ context.Context, assignmentID, studentID string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *assignmentRepository) QuerySubmissions(_ context.Context, assignmentID string) ([]assignment.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	subs := make([]assignment.Submission, 0)
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}
