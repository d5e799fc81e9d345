package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/academic"
)

type academicRepository struct {
	db *DB
}

func NewAcademicRepository(db *DB) academic.Repository {
	return &academicRepository{db: db}
}

func (repo *academicRepository) GetClass(_ context.Context, id string) (academic.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if c, ok := repo.db.classes[id]; ok {
		return c, nil
	}
	return academic.Class{}, academic.ErrClassNotFound
}

func (repo *academicRepository) GetSubject(_ context.Context, id string) (academic.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if s, ok := repo.db.subjects[id]; ok {
		return s, nil
	}
	return academic.Subject{}, academic.ErrSubjectNotFound
}

func (repo *academicRepository) GetExam(_ context.Context, id string) (academic.Exam, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if e, ok := repo.db.exams[id]; ok {
		return e, nil
	}
	return academic.Exam{}, academic.ErrExamNotFound
}

func (repo *academicRepository) GetStudent(_ context.Context, id string) (academic.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if s, ok := repo.db.students[id]; ok {
		return s, nil
	}
	return academic.Student{}, academic.ErrStudentNotFound
}

func (repo *academicRepository) QueryClasses(_ context.Context, ids []string) ([]academic.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	classes := make([]academic.Class, 0)
	for _, c := range repo.db.classes {
		if ids == nil || contains(ids, c.ID) {
			classes = append(classes, c)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *academicRepository) QueryClassStudents(_ context.Context, classID string) ([]academic.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	students := make([]academic.Student, 0)
	for key := range repo.db.enrollments {
		if key[1] == classID {
			students = append(students, repo.db.students[key[0]])
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].RollNumber < students[j].RollNumber })
	return students, nil
}

func (repo *academicRepository) IsEnrolled(_ context.Context, studentID, classID string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	_, ok := repo.db.enrollments[[2]string{studentID, classID}]
	return ok, nil
}

func (repo *academicRepository) StudentClassIDs(_ context.Context, studentID string) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	ids := make([]string, 0)
	for key := range repo.db.enrollments {
		if key[0] == studentID {
			ids = append(ids, key[1])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (repo *academicRepository) CreateEnrollment(_ context.Context, enr academic.Enrollment) (academic.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	key := [2]string{enr.StudentID, enr.ClassID}
	if _, dup := repo.db.enrollments[key]; dup {
		return academic.Enrollment{}, core.NewConflictError("student is already enrolled in this class")
	}
	repo.db.enrollments[key] = enr
	return enr, nil
}

func (repo *academicRepository) CreateClass(_ context.Context, c academic.Class) (academic.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.classes[c.ID] = c
	return c, nil
}

func (repo *academicRepository) CreateStudent(_ context.Context, s academic.Student) (academic.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, other := range repo.db.students {
		if strings.EqualFold(other.Email, s.Email) {
			return academic.Student{}, core.NewConflictError("a student with this email already exists")
		}
	}
	repo.db.students[s.ID] = s
	return s, nil
}

func (repo *academicRepository) AssignTeacher(_ context.Context, ct academic.ClassTeacher) (academic.ClassTeacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	key := [2]string{ct.ClassID, ct.TeacherID}
	if _, dup := repo.db.classTeachers[key]; dup {
		return academic.ClassTeacher{}, core.NewConflictError("teacher is already assigned to this class")
	}
	repo.db.classTeachers[key] = struct{}{}
	return ct, nil
}

func (repo *academicRepository) CreateSubject(_ context.Context, s academic.Subject) (academic.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.subjects[s.ID] = s
	return s, nil
}

func (repo *academicRepository) CreateExam(_ context.Context, e academic.Exam) (academic.Exam, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.exams[e.ID] = e
	return e, nil
}
