package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/mark"
	"github.com/trezcool/campus/storage/database"
)

const markCols = "id, student_id, class_id, subject_id, exam_id, marks_obtained, remarks, created_by, created_at, updated_at"

type markRepository struct {
	db core.DBExecutor
}

func NewMarkRepository(db core.DBExecutor) mark.Repository {
	return &markRepository{db: db}
}

func (repo markRepository) CreateMarks(ctx context.Context, marks []mark.Mark) ([]mark.Mark, error) {
	b := psql.Insert("marks").Columns("id", "student_id", "class_id", "subject_id", "exam_id", "marks_obtained", "remarks", "created_by", "created_at", "updated_at")
	for _, m := range marks {
		b = b.Values(m.ID, m.StudentID, m.ClassID, m.SubjectID, m.ExamID, m.MarksObtained, m.Remarks, m.CreatedBy, m.CreatedAt, m.UpdatedAt)
	}
	if _, err := exec(ctx, repo.db, b); err != nil {
		return nil, database.TranslateError(err, "inserting marks", "marks already recorded for this student, subject and exam")
	}
	return marks, nil
}

func (repo markRepository) GetMark(ctx context.Context, id string) (mark.Mark, error) {
	if !isUUID(id) {
		return mark.Mark{}, mark.ErrNotFound
	}
	var m mark.Mark
	err := get(ctx, repo.db, &m, psql.Select(markCols).From("marks").Where(sq.Eq{"id": id}))
	if database.IsNoRows(err) {
		return mark.Mark{}, mark.ErrNotFound
	}
	return m, errors.Wrap(err, "getting mark")
}

func (repo markRepository) UpdateMark(ctx context.Context, m mark.Mark) (mark.Mark, error) {
	var updated mark.Mark
	err := get(ctx, repo.db, &updated, psql.
		Update("marks").
		SetMap(map[string]interface{}{
			"marks_obtained": m.MarksObtained,
			"remarks":        m.Remarks,
			"updated_at":     m.UpdatedAt,
		}).
		Where(sq.Eq{"id": m.ID}).
		Suffix("RETURNING "+markCols))
	if database.IsNoRows(err) {
		return mark.Mark{}, mark.ErrNotFound
	}
	return updated, errors.Wrap(err, "updating mark")
}

func (repo markRepository) QueryMarks(ctx context.Context, filter mark.QueryFilter) ([]mark.Mark, error) {
	marks := make([]mark.Mark, 0)
	if !optionalUUID(filter.StudentID, filter.ExamID, filter.SubjectID) || !isUUID(filter.ClassIDs...) {
		return marks, nil
	}
	b := psql.Select(markCols).From("marks").OrderBy("created_at DESC")
	if filter.StudentID != "" {
		b = b.Where(sq.Eq{"student_id": filter.StudentID})
	}
	if filter.ClassIDs != nil {
		b = b.Where(sq.Eq{"class_id": filter.ClassIDs})
	}
	if filter.ExamID != "" {
		b = b.Where(sq.Eq{"exam_id": filter.ExamID})
	}
	if filter.SubjectID != "" {
		b = b.Where(sq.Eq{"subject_id": filter.SubjectID})
	}
	err := selectAll(ctx, repo.db, &marks, b)
	return marks, err
}
