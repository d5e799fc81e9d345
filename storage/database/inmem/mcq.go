package inmemdb

import (
	"context"

	"github.com/trezcool/campus/core/mcq"
)

type mcqRepository struct {
	db *DB
}

func NewMCQRepository(db *DB) mcq.Repository {
	return &mcqRepository{db: db}
}

func (repo *mcqRepository) CreateTest(_ context.Context, t mcq.Test) (mcq.Test, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.tests[t.ID] = t
	return t, nil
}

func (repo *mcqRepository) GetTest(_ context.Context, id string) (mcq.Test, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if t, ok := repo.db.tests[id]; ok {
		return t, nil
	}
	return mcq.Test{}, mcq.ErrNotFound
}

func (repo *mcqRepository) CreateQuestions(_ context.Context, qs []mcq.Question) ([]mcq.Question, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.questions = append(repo.db.questions, qs...)
	return qs, nil
}

func (repo *mcqRepository) QueryQuestions(_ context.Context, testID string) ([]mcq.Question, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	qs := make([]mcq.Question, 0)
	for _, q := range repo.db.questions {
		if q.TestID == testID {
			qs = append(qs, q)
		}
	}
	return qs, nil
}

func (repo *mcqRepository) CreateSubmission(_ context.Context, s mcq.Submission) (mcq.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, sub := range repo.db.testSubs {
		if sub.TestID == s.TestID && sub.StudentID == s.StudentID {
			return mcq.Submission{}, mcq.ErrAlreadySubmitted
		}
	}
	repo.db.testSubs = append(repo.db.testSubs, s)
	return s, nil
}

func (repo *mcqRepository) HasSubmitted(_ context.Context, testID, studentID string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	for _, sub := range repo.db.testSubs {
		if sub.TestID == testID && sub.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *mcqRepository) QuerySubmissions(_ context.Context, testID string) ([]mcq.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	subs := make([]mcq.Submission, 0)
	for _, sub := range repo.db.testSubs {
		if sub.TestID == testID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}
