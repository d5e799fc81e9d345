package inmemdb

import (
	"context"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/mark"
)

type markRepository struct {
	db *DB
}

func NewMarkRepository(db *DB) mark.Repository {
	return &markRepository{db: db}
}

func (repo *markRepository) CreateMarks(_ context.Context, marks []mark.Mark) ([]mark.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	type key struct{ student, subject, exam string }
	taken := make(map[key]struct{}, len(repo.db.marks)+len(marks))
	for _, m := range repo.db.marks {
		taken[key{m.StudentID, m.SubjectID, m.ExamID}] = struct{}{}
	}
	for _, m := range marks {
		k := key{m.StudentID, m.SubjectID, m.ExamID}
		if _, dup := taken[k]; dup {
			return nil, core.NewConflictError("marks already recorded for this student, subject and exam")
		}
		taken[k] = struct{}{}
	}
	repo.db.marks = append(repo.db.marks, marks...)
	return marks, nil
}

func (repo *markRepository) GetMark(_ context.Context, id string) (mark.Mark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	for _, m := range repo.db.marks {
		if m.ID == id {
			return m, nil
		}
	}
	return mark.Mark{}, mark.ErrNotFound
}

func (repo *markRepository) UpdateMark(_ context.Context, m mark.Mark) (mark.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for i := range repo.db.marks {
		if repo.db.marks[i].ID == m.ID {
			repo.db.marks[i].MarksObtained = m.MarksObtained
			repo.db.marks[i].Remarks = m.Remarks
			repo.db.marks[i].UpdatedAt = m.UpdatedAt
			return repo.db.marks[i], nil
		}
	}
	return mark.Mark{}, mark.ErrNotFound
}

func (repo *markRepository) QueryMarks(_ context.Context, filter mark.QueryFilter) ([]mark.Mark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	marks := make([]mark.Mark, 0)
	for _, m := range repo.db.marks {
		if (filter.StudentID == "" || m.StudentID == filter.StudentID) &&
			(filter.ClassIDs == nil || contains(filter.ClassIDs, m.ClassID)) &&
			(filter.ExamID == "" || m.ExamID == filter.ExamID) &&
			(filter.SubjectID == "" || m.SubjectID == filter.SubjectID) {
			marks = append(marks, m)
		}
	}
	return marks, nil
}
