package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/mcq"
	"github.com/trezcool/campus/storage/database"
)

const testCols = "id, class_id, title, description, duration_minutes, is_published, created_by, created_at"

type (
	mcqRepository struct {
		db core.DBExecutor
	}

	questionRow struct {
		ID            string         `db:"id"`
		TestID        string         `db:"test_id"`
		Question      string         `db:"question"`
		Options       pq.StringArray `db:"options"`
		CorrectOption int            `db:"correct_option"`
		Marks         float64        `db:"marks"`
		CreatedAt     time.Time      `db:"created_at"`
	}

	submissionRow struct {
		ID          string         `db:"id"`
		TestID      string         `db:"test_id"`
		StudentID   string         `db:"student_id"`
		Answers     types.JSONText `db:"answers"`
		Score       float64        `db:"score"`
		TotalMarks  float64        `db:"total_marks"`
		SubmittedAt time.Time      `db:"submitted_at"`
	}
)

func (r questionRow) toQuestion() mcq.Question {
	return mcq.Question{
		ID:            r.ID,
		TestID:        r.TestID,
		Question:      r.Question,
		Options:       []string(r.Options),
		CorrectOption: r.CorrectOption,
		Marks:         r.Marks,
		CreatedAt:     r.CreatedAt,
	}
}

func (r submissionRow) toSubmission() (mcq.Submission, error) {
	sub := mcq.Submission{
		ID:          r.ID,
		TestID:      r.TestID,
		StudentID:   r.StudentID,
		Score:       r.Score,
		TotalMarks:  r.TotalMarks,
		SubmittedAt: r.SubmittedAt,
	}
	err := r.Answers.Unmarshal(&sub.Answers)
	return sub, errors.Wrap(err, "decoding answers")
}

func NewMCQRepository(db core.DBExecutor) mcq.Repository {
	return &mcqRepository{db: db}
}

func (repo mcqRepository) CreateTest(ctx context.Context, t mcq.Test) (mcq.Test, error) {
	_, err := exec(ctx, repo.db, psql.
		Insert("mcq_tests").
		Columns("id", "class_id", "title", "description", "duration_minutes", "is_published", "created_by", "created_at").
		Values(t.ID, t.ClassID, t.Title, t.Description, t.DurationMinutes, t.IsPublished, t.CreatedBy, t.CreatedAt))
	if err != nil {
		return mcq.Test{}, database.TranslateError(err, "inserting test", "test already exists")
	}
	return t, nil
}

func (repo mcqRepository) GetTest(ctx context.Context, id string) (mcq.Test, error) {
	if !isUUID(id) {
		return mcq.Test{}, mcq.ErrNotFound
	}
	var t mcq.Test
	err := get(ctx, repo.db, &t, psql.Select(testCols).From("mcq_tests").Where(sq.Eq{"id": id}))
	if database.IsNoRows(err) {
		return mcq.Test{}, mcq.ErrNotFound
	}
	return t, errors.Wrap(err, "getting test")
}

func (repo mcqRepository) CreateQuestions(ctx context.Context, qs []mcq.Question) ([]mcq.Question, error) {
	b := psql.Insert("mcq_questions").Columns("id", "test_id", "question", "options", "correct_option", "marks", "created_at")
	for _, q := range qs {
		b = b.Values(q.ID, q.TestID, q.Question, pq.StringArray(q.Options), q.CorrectOption, q.Marks, q.CreatedAt)
	}
	if _, err := exec(ctx, repo.db, b); err != nil {
		return nil, database.TranslateError(err, "inserting questions", "question already exists")
	}
	return qs, nil
}

func (repo mcqRepository) QueryQuestions(ctx context.Context, testID string) ([]mcq.Question, error) {
	qs := make([]mcq.Question, 0)
	if !isUUID(testID) {
		return qs, nil
	}
	var rows []questionRow
	err := selectAll(ctx, repo.db, &rows, psql.
		Select("id, test_id, question, options, correct_option, marks, created_at").
		From("mcq_questions").
		Where(sq.Eq{"test_id": testID}).
		OrderBy("created_at"))
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		qs = append(qs, r.toQuestion())
	}
	return qs, nil
}

func (repo mcqRepository) CreateSubmission(ctx context.Context, s mcq.Submission) (mcq.Submission, error) {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return mcq.Submission{}, errors.Wrap(err, "encoding answers")
	}
	_, err = exec(ctx, repo.db, psql.
		Insert("mcq_submissions").
		Columns("id", "test_id", "student_id", "answers", "score", "total_marks", "submitted_at").
		Values(s.ID, s.TestID, s.StudentID, types.JSONText(answers), s.Score, s.TotalMarks, s.SubmittedAt))
	if err != nil {
		return mcq.Submission{}, database.TranslateError(err, "inserting test submission", "test already submitted")
	}
	return s, nil
}

func (repo mcqRepository) HasSubmitted(ctx context.Context, testID, studentID string) (bool, error) {
	if !isUUID(testID, studentID) {
		return false, nil
	}
	return exists(ctx, repo.db, psql.Select("1").From("mcq_submissions").Where(sq.Eq{"test_id": testID, "student_id": studentID}))
}

func (repo mcqRepository) QuerySubmissions(ctx context.Context, testID string) ([]mcq.Submission, error) {
	subs := make([]mcq.Submission, 0)
	if !isUUID(testID) {
		return subs, nil
	}
	var rows []submissionRow
	err := selectAll(ctx, repo.db, &rows, psql.
		Select("id, test_id, student_id, answers, score, total_marks, submitted_at").
		From("mcq_submissions").
		Where(sq.Eq{"test_id": testID}).
		OrderBy("submitted_at"))
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		sub, err := r.toSubmission()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
