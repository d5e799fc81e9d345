package inmemdb

import (
	"context"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateRecords(_ context.Context, recs []attendance.Record) ([]attendance.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	type key struct{ student, class, date string }
	taken := make(map[key]struct{}, len(repo.db.attendance)+len(recs))
	for _, r := range repo.db.attendance {
		taken[key{r.StudentID, r.ClassID, r.Date.Format("2006-01-02")}] = struct{}{}
	}
	for _, r := range recs {
		k := key{r.StudentID, r.ClassID, r.Date.Format("2006-01-02")}
		if _, dup := taken[k]; dup {
			return nil, core.NewConflictError("attendance already recorded for this student and day")
		}
		taken[k] = struct{}{}
	}
	repo.db.attendance = append(repo.db.attendance, recs...)
	return recs, nil
}

func (repo *attendanceRepository) QueryRecords(_ context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	recs := make([]attendance.Record, 0)
	for _, r := range repo.db.attendance {
		date := r.Date.Format("2006-01-02")
		if (filter.StudentID == "" || r.StudentID == filter.StudentID) &&
			(filter.ClassID == "" || r.ClassID == filter.ClassID) &&
			(filter.From == "" || date >= filter.From) &&
			(filter.To == "" || date <= filter.To) {
			recs = append(recs, r)
		}
	}
	return recs, nil
}
