package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/attendance"
	"github.com/trezcool/campus/storage/database"
)

type attendanceRepository struct {
	db core.DBExecutor
}

func NewAttendanceRepository(db core.DBExecutor) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) CreateRecords(ctx context.Context, recs []attendance.Record) ([]attendance.Record, error) {
	b := psql.Insert("attendance").Columns("id", "student_id", "class_id", "date", "status", "marked_by", "created_at")
	for _, r := range recs {
		b = b.Values(r.ID, r.StudentID, r.ClassID, r.Date, r.Status, r.MarkedBy, r.CreatedAt)
	}
	if _, err := exec(ctx, repo.db, b); err != nil {
		return nil, database.TranslateError(err, "inserting attendance", "attendance already recorded for this student and day")
	}
	return recs, nil
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	recs := make([]attendance.Record, 0)
	if !optionalUUID(filter.StudentID, filter.ClassID) {
		return recs, nil
	}
	b := psql.Select("id, student_id, class_id, date, status, marked_by, created_at").
		From("attendance").
		OrderBy("date DESC")
	if filter.StudentID != "" {
		b = b.Where(sq.Eq{"student_id": filter.StudentID})
	}
	if filter.ClassID != "" {
		b = b.Where(sq.Eq{"class_id": filter.ClassID})
	}
	if filter.From != "" {
		b = b.Where(sq.GtOrEq{"date": filter.From})
	}
	if filter.To != "" {
		b = b.Where(sq.LtOrEq{"date": filter.To})
	}
	err := selectAll(ctx, repo.db, &recs, b)
	return recs, err
}
