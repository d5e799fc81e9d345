package academic

import (
	"time"

	"github.com/trezcool/campus/core"
)

type Class struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Section      string    `json:"section" db:"section"`
	AcademicYear string    `json:"academic_year" db:"academic_year"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
}

type Subject struct {
	ID      string `json:"id" db:"id"`
	ClassID string `json:"class_id" db:"class_id"`
	Name    string `json:"name" db:"name"`
	Code    string `json:"code" db:"code"`
}

type Exam struct {
	ID        string    `json:"id" db:"id"`
	ClassID   string    `json:"class_id" db:"class_id"`
	SubjectID string    `json:"subject_id" db:"subject_id"`
	Name      string    `json:"name" db:"name"`
	MaxMarks  float64   `json:"max_marks" db:"max_marks"`
	ExamDate  time.Time `json:"exam_date" db:"exam_date"`
}

// Student is a roster row. It predates user accounts and is matched to them by email.
type Student struct {
	ID         string `json:"id" db:"id"`
	FullName   string `json:"full_name" db:"full_name"`
	Email      string `json:"email" db:"email"`
	RollNumber string `json:"roll_number" db:"roll_number"`
}

type Enrollment struct {
	ID         string    `json:"id" db:"id"`
	StudentID  string    `json:"student_id" db:"student_id"`
	ClassID    string    `json:"class_id" db:"class_id"`
	EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at"` // UTC
}

// NewEnrollment contains information needed to enroll a student in a class.
type NewEnrollment struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	ClassID   string `json:"class_id" validate:"required,uuid"`
}

// ClassTeacher assigns a teacher to a class. Only assigned teachers may write to the class.
type ClassTeacher struct {
	ClassID   string `json:"class_id" db:"class_id"`
	TeacherID string `json:"teacher_id" db:"teacher_id"`
}

// NewClass contains information needed to open a class.
type NewClass struct {
	Name         string `json:"name" validate:"required,max=100"`
	Section      string `json:"section" validate:"max=20"`
	AcademicYear string `json:"academic_year" validate:"required,max=20"`
}

func (nc *NewClass) Clean() {
	nc.Name = core.CleanString(nc.Name)
	nc.Section = core.CleanString(nc.Section)
	nc.AcademicYear = core.CleanString(nc.AcademicYear)
}

// NewStudent contains information needed to add a student to the roster.
// The email links the roster row to the student's account.
type NewStudent struct {
	FullName   string `json:"full_name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	RollNumber string `json:"roll_number" validate:"max=50"`
}

func (ns *NewStudent) Clean() {
	ns.FullName = core.CleanString(ns.FullName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.RollNumber = core.CleanString(ns.RollNumber)
}

type NewClassTeacher struct {
	TeacherID string `json:"teacher_id" validate:"required,uuid"`
}

// NewSubject contains information needed to add a subject to a class.
type NewSubject struct {
	ClassID string `json:"class_id" validate:"required,uuid"`
	Name    string `json:"name" validate:"required,max=100"`
	Code    string `json:"code" validate:"max=20"`
}

func (ns *NewSubject) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = core.CleanString(ns.Code)
}

// NewExam contains information needed to schedule an exam of a subject. Its class is the subject's.
type NewExam struct {
	SubjectID string  `json:"subject_id" validate:"required,uuid"`
	Name      string  `json:"name" validate:"required,max=200"`
	MaxMarks  float64 `json:"max_marks" validate:"gt=0"`
	ExamDate  string  `json:"exam_date" validate:"required,isodate"`
}

func (ne *NewExam) Clean() {
	ne.Name = core.CleanString(ne.Name)
}
