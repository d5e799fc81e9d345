package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/assignment"
	"github.com/trezcool/campus/storage/database"
)

const (
	assignmentCols = "id, class_id, subject_id, title, description, due_date, max_score, created_by, created_at"
	submissionCols = "id, assignment_id, student_id, content, file_url, submitted_at"
)

type assignmentRepository struct {
	db core.DBExecutor
}

func NewAssignmentRepository(db core.DBExecutor) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	_, err := exec(ctx, repo.db, psql.
		Insert("assignments").
		Columns("id", "class_id", "subject_id", "title", "description", "due_date", "max_score", "created_by", "created_at").
		Values(a.ID, a.ClassID, a.SubjectID, a.Title, a.Description, a.DueDate, a.MaxScore, a.CreatedBy, a.CreatedAt))
	if err != nil {
		return assignment.Assignment{}, database.TranslateError(err, "inserting assignment", "assignment already exists")
	}
	return a, nil
}

func (repo assignmentRepository) GetAssignment(ctx context.Context, id string) (assignment.Assignment, error) {
	if !isUUID(id) {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	var a assignment.Assignment
	err := get(ctx, repo.db, &a, psql.Select(assignmentCols).From("assignments").Where(sq.Eq{"id": id}))
	if database.IsNoRows(err) {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return a, errors.Wrap(err, "getting assignment")
}

func (repo assignmentRepository) QueryAssignments(ctx context.Context, classIDs []string) ([]assignment.Assignment, error) {
	as := make([]assignment.Assignment, 0)
	b := psql.Select(assignmentCols).From("assignments").OrderBy("due_date DESC")
	if classIDs != nil {
		b = b.Where(sq.Eq{"class_id": classIDs})
	}
	err := selectAll(ctx, repo.db, &as, b)
	return as, err
}

func (repo assignmentRepository) CreateSubmission(ctx context.Context, s assignment.Submission) (assignment.Submission, error) {
	_, err := exec(ctx, repo.db, psql.
		Insert("assignment_submissions").
		Columns("id", "assignment_id", "student_id", "content", "file_url", "submitted_at").
		Values(s.ID, s.AssignmentID, s.StudentID, s.Content, s.FileURL, s.SubmittedAt))
	if err != nil {
		return assignment.Submission{}, database.TranslateError(err, "inserting submission", "assignment already submitted")
	}
	return s, nil
}

func (repo assignmentRepository) HasSubmitted(ctx context.Context, assignmentID, studentID string) (bool, error) {
	if !isUUID(assignmentID, studentID) {
		return false, nil
	}
	return exists(ctx, repo.db, psql.Select("1").From("assignment_submissions").Where(sq.Eq{"assignment_id": assignmentID, "student_id": studentID}))
}

func (repo assignmentRepository) QuerySubmissions(ctx context.Context, assignmentID string) ([]assignment.Submission, error) {
	subs := make([]assignment.Submission, 0)
	if !isUUID(assignmentID) {
		return subs, nil
	}
	err := selectAll(ctx, repo.db, &subs, psql.
		Select(submissionCols).
		From("assignment_submissions").
		Where(sq.Eq{"assignment_id": assignmentID}).
		OrderBy("submitted_at"))
	return subs, err
}
