package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/academic"
	"github.com/trezcool/campus/storage/database"
)

type academicRepository struct {
	db core.DBExecutor
}

func NewAcademicRepository(db core.DBExecutor) academic.Repository {
	return &academicRepository{db: db}
}

func (repo academicRepository) getByID(ctx context.Context, dest interface{}, table, cols, id string, notFound error) error {
	if !isUUID(id) {
		return notFound
	}
	err := get(ctx, repo.db, dest, psql.Select(cols).From(table).Where(sq.Eq{"id": id}))
	if database.IsNoRows(err) {
		return notFound
	}
	return errors.Wrapf(err, "getting %s", table)
}

func (repo academicRepository) GetClass(ctx context.Context, id string) (academic.Class, error) {
	var c academic.Class
	err := repo.getByID(ctx, &c, "classes", "id, name, section, academic_year, created_at", id, academic.ErrClassNotFound)
	return c, err
}

func (repo academicRepository) GetSubject(ctx context.Context, id string) (academic.Subject, error) {
	var s academic.Subject
	err := repo.getByID(ctx, &s, "subjects", "id, class_id, name, code", id, academic.ErrSubjectNotFound)
	return s, err
}

func (repo academicRepository) GetExam(ctx context.Context, id string) (academic.Exam, error) {
	var e academic.Exam
	err := repo.getByID(ctx, &e, "exams", "id, class_id, subject_id, name, max_marks, exam_date", id, academic.ErrExamNotFound)
	return e, err
}

func (repo academicRepository) GetStudent(ctx context.Context, id string) (academic.Student, error) {
	var s academic.Student
	err := repo.getByID(ctx, &s, "students", "id, full_name, email, roll_number", id, academic.ErrStudentNotFound)
	return s, err
}

func (repo academicRepository) QueryClasses(ctx context.Context, ids []string) ([]academic.Class, error) {
	classes := make([]academic.Class, 0)
	b := psql.Select("id, name, section, academic_year, created_at").From("classes").OrderBy("academic_year DESC", "name", "section")
	if ids != nil {
		b = b.Where(sq.Eq{"id": ids})
	}
	err := selectAll(ctx, repo.db, &classes, b)
	return classes, err
}

func (repo academicRepository) QueryClassStudents(ctx context.Context, classID string) ([]academic.Student, error) {
	students := make([]academic.Student, 0)
	if !isUUID(classID) {
		return students, nil
	}
	err := selectAll(ctx, repo.db, &students, psql.
		Select("s.id, s.full_name, s.email, s.roll_number").
		From("students s").
		Join("class_enrollments e ON e.student_id = s.id").
		Where(sq.Eq{"e.class_id": classID}).
		OrderBy("s.roll_number", "s.full_name"))
	return students, err
}

func (repo academicRepository) IsEnrolled(ctx context.Context, studentID, classID string) (bool, error) {
	if !isUUID(studentID, classID) {
		return false, nil
	}
	return exists(ctx, repo.db, psql.Select("1").From("class_enrollments").Where(sq.Eq{"student_id": studentID, "class_id": classID}))
}

func (repo academicRepository) StudentClassIDs(ctx context.Context, studentID string) ([]string, error) {
	ids := make([]string, 0)
	if !isUUID(studentID) {
		return ids, nil
	}
	err := selectAll(ctx, repo.db, &ids, psql.Select("class_id").From("class_enrollments").Where(sq.Eq{"student_id": studentID}))
	return ids, err
}

func (repo academicRepository) CreateEnrollment(ctx context.Context, enr academic.Enrollment) (academic.Enrollment, error) {
	_, err := exec(ctx, repo.db, psql.
		Insert("class_enrollments").
		Columns("id", "student_id", "class_id", "enrolled_at").
		Values(enr.ID, enr.StudentID, enr.ClassID, enr.EnrolledAt))
	if err != nil {
		return academic.Enrollment{}, database.TranslateError(err, "inserting enrollment", "student is already enrolled in this class")
	}
	return enr, nil
}

func (repo academicRepository) CreateClass(ctx context.Context, c academic.Class) (academic.Class, error) {
	_, err := exec(ctx, repo.db, psql.
		Insert("classes").
		Columns("id", "name", "section", "academic_year", "created_at").
		Values(c.ID, c.Name, c.Section, c.AcademicYear, c.CreatedAt))
	if err != nil {
		return academic.Class{}, database.TranslateError(err, "inserting class", "class already exists")
	}
	return c, nil
}

func (repo academicRepository) CreateStudent(ctx context.Context, s academic.Student) (academic.Student, error) {
	_, err := exec(ctx, repo.db, psql.
		Insert("students").
		Columns("id", "full_name", "email", "roll_number").
		Values(s.ID, s.FullName, s.Email, s.RollNumber))
	if err != nil {
		return academic.Student{}, database.TranslateError(err, "inserting student", "a student with this email already exists")
	}
	return s, nil
}

func (repo academicRepository) AssignTeacher(ctx context.Context, ct academic.ClassTeacher) (academic.ClassTeacher, error) {
	_, err := exec(ctx, repo.db, psql.
		Insert("class_teachers").
		Columns("class_id", "teacher_id").
		Values(ct.ClassID, ct.TeacherID))
	if err != nil {
		return academic.ClassTeacher{}, database.TranslateError(err, "assigning teacher", "teacher is already assigned to this class")
	}
	return ct, nil
}

func (repo academicRepository) CreateSubject(ctx context.Context, s academic.Subject) (academic.Subject, error) {
	_, err := exec(ctx, repo.db, psql.
		Insert("subjects").
		Columns("id", "class_id", "name", "code").
		Values(s.ID, s.ClassID, s.Name, s.Code))
	if err != nil {
		return academic.Subject{}, database.TranslateError(err, "inserting subject", "subject already exists")
	}
	return s, nil
}

func (repo academicRepository) CreateExam(ctx context.Context, e academic.Exam) (academic.Exam, error) {
	_, err := exec(ctx, repo.db, psql.
		Insert("exams").
		Columns("id", "class_id", "subject_id", "name", "max_marks", "exam_date").
		Values(e.ID, e.ClassID, e.SubjectID, e.Name, e.MaxMarks, e.ExamDate))
	if err != nil {
		return academic.Exam{}, database.TranslateError(err, "inserting exam", "exam already exists")
	}
	return e, nil
}
