package academic

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/gate"
	"github.com/trezcool/campus/core/notification"
)

const dateLayout = "2006-01-02"

var (
	// errors
	ErrClassNotFound   = core.NewNotFoundError("class")
	ErrSubjectNotFound = core.NewNotFoundError("subject")
	ErrExamNotFound    = core.NewNotFoundError("exam")
	ErrStudentNotFound = core.NewNotFoundError("student")
)

type (
	Repository interface {
		GetClass(ctx context.Context, id string) (Class, error)
		GetSubject(ctx context.Context, id string) (Subject, error)
		GetExam(ctx context.Context, id string) (Exam, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		// QueryClasses returns all classes when ids is nil.
		QueryClasses(ctx context.Context, ids []string) ([]Class, error)
		QueryClassStudents(ctx context.Context, classID string) ([]Student, error)
		IsEnrolled(ctx context.Context, studentID, classID string) (bool, error)
		StudentClassIDs(ctx context.Context, studentID string) ([]string, error)
		// CreateEnrollment returns a core.ConflictError if the student is already enrolled.
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		CreateClass(ctx context.Context, c Class) (Class, error)
		// CreateStudent returns a core.ConflictError if another roster row has the same email.
		CreateStudent(ctx context.Context, s Student) (Student, error)
		// AssignTeacher returns a core.ConflictError if the teacher is already assigned to the class.
		AssignTeacher(ctx context.Context, ct ClassTeacher) (ClassTeacher, error)
		CreateSubject(ctx context.Context, s Subject) (Subject, error)
		CreateExam(ctx context.Context, e Exam) (Exam, error)
	}

	Service struct {
		repo Repository
		gate *gate.Gate
	}
)

func NewService(repo Repository, g *gate.Gate) *Service {
	return &Service{repo: repo, gate: g}
}

func (svc *Service) CreateEnrollment(ctx context.Context, p auth.Principal, ne NewEnrollment) (Enrollment, error) {
	var student Student
	var class Class

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Enrollment]{
		Op:    auth.OpCreateEnrollment,
		Input: &ne,
		Check: func(ctx context.Context) error {
			var err error
			if student, err = svc.repo.GetStudent(ctx, ne.StudentID); err != nil {
				return err
			}
			class, err = svc.repo.GetClass(ctx, ne.ClassID)
			return err
		},
		Persist: func(ctx context.Context) (Enrollment, error) {
			return svc.repo.CreateEnrollment(ctx, Enrollment{
				ID:         uuid.New().String(),
				StudentID:  student.ID,
				ClassID:    class.ID,
				EnrolledAt: time.Now().UTC(),
			})
		},
		Notify: func(enr Enrollment) []gate.Notice {
			return []gate.Notice{{
				Audience: notification.ToStudents(enr.StudentID),
				Message: notification.Message{
					Title: "Class Enrollment",
					Body:  "You have been enrolled in " + class.Name + ".",
					Type:  notification.TypeSuccess,
					Link:  "/student/classes",
				},
			}}
		},
	})
}

// CreateClass opens a class. Admins only.
func (svc *Service) CreateClass(ctx context.Context, p auth.Principal, nc NewClass) (Class, error) {
	nc.Clean()

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Class]{
		Op:    auth.OpCreateClass,
		Input: &nc,
		Persist: func(ctx context.Context) (Class, error) {
			return svc.repo.CreateClass(ctx, Class{
				ID:           uuid.New().String(),
				Name:         nc.Name,
				Section:      nc.Section,
				AcademicYear: nc.AcademicYear,
				CreatedAt:    time.Now().UTC(),
			})
		},
	})
}

// CreateStudent adds a student to the roster. Admins only.
func (svc *Service) CreateStudent(ctx context.Context, p auth.Principal, ns NewStudent) (Student, error) {
	ns.Clean()

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Student]{
		Op:    auth.OpCreateStudent,
		Input: &ns,
		Persist: func(ctx context.Context) (Student, error) {
			return svc.repo.CreateStudent(ctx, Student{
				ID:         uuid.New().String(),
				FullName:   ns.FullName,
				Email:      ns.Email,
				RollNumber: ns.RollNumber,
			})
		},
	})
}

// AssignTeacher gives a teacher write access to a class, and tells them.
func (svc *Service) AssignTeacher(ctx context.Context, p auth.Principal, classID string, nct NewClassTeacher) (ClassTeacher, error) {
	var class Class

	return gate.Run(ctx, svc.gate, p, gate.Mutation[ClassTeacher]{
		Op:    auth.OpAssignTeacher,
		Input: &nct,
		Check: func(ctx context.Context) error {
			var err error
			if class, err = svc.repo.GetClass(ctx, classID); err != nil {
				return err
			}
			role, err := svc.gate.Oracle().ResolveRole(ctx, nct.TeacherID)
			if err != nil && errors.Cause(err) != auth.ErrRoleNotFound {
				return errors.Wrap(err, "resolving teacher role")
			}
			if role != auth.RoleTeacher {
				return core.NewValidationError(nil, core.FieldError{Field: "teacher_id", Error: "user is not a teacher"})
			}
			return nil
		},
		Persist: func(ctx context.Context) (ClassTeacher, error) {
			return svc.repo.AssignTeacher(ctx, ClassTeacher{ClassID: class.ID, TeacherID: nct.TeacherID})
		},
		Notify: func(ct ClassTeacher) []gate.Notice {
			return []gate.Notice{{
				Audience: notification.ToUser(ct.TeacherID),
				Message: notification.Message{
					Title: "Class Assignment",
					Body:  "You have been assigned to " + class.Name + ".",
					Type:  notification.TypeInfo,
					Link:  "/teacher/classes",
				},
			}}
		},
	})
}

// CreateSubject adds a subject to a class owned by p.
func (svc *Service) CreateSubject(ctx context.Context, p auth.Principal, ns NewSubject) (Subject, error) {
	ns.Clean()
	var class Class

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Subject]{
		Op:    auth.OpCreateSubject,
		Input: &ns,
		Class: func(ctx context.Context) (string, error) {
			var err error
			if class, err = svc.repo.GetClass(ctx, ns.ClassID); err != nil {
				return "", err
			}
			return class.ID, nil
		},
		Persist: func(ctx context.Context) (Subject, error) {
			return svc.repo.CreateSubject(ctx, Subject{
				ID:      uuid.New().String(),
				ClassID: class.ID,
				Name:    ns.Name,
				Code:    ns.Code,
			})
		},
	})
}

// CreateExam schedules an exam of a subject owned by p, and tells the students of its class.
func (svc *Service) CreateExam(ctx context.Context, p auth.Principal, ne NewExam) (Exam, error) {
	ne.Clean()
	var subject Subject
	var date time.Time

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Exam]{
		Op:    auth.OpCreateExam,
		Input: &ne,
		Validate: func() error {
			var err error
			if date, err = time.Parse(dateLayout, ne.ExamDate); err != nil {
				return core.NewValidationError(nil, core.FieldError{Field: "exam_date", Error: "exam_date is not a valid calendar date"})
			}
			return nil
		},
		Class: func(ctx context.Context) (string, error) {
			var err error
			if subject, err = svc.repo.GetSubject(ctx, ne.SubjectID); err != nil {
				return "", err
			}
			return subject.ClassID, nil
		},
		Persist: func(ctx context.Context) (Exam, error) {
			return svc.repo.CreateExam(ctx, Exam{
				ID:        uuid.New().String(),
				ClassID:   subject.ClassID,
				SubjectID: subject.ID,
				Name:      ne.Name,
				MaxMarks:  ne.MaxMarks,
				ExamDate:  date,
			})
		},
		Notify: func(e Exam) []gate.Notice {
			return []gate.Notice{{
				Audience: notification.ToClassStudents(e.ClassID),
				Message: notification.Message{
					Title: "Upcoming Exam",
					Body:  subject.Name + " " + e.Name + " is on " + e.ExamDate.Format("Jan 2, 2006") + ".",
					Type:  notification.TypeInfo,
					Link:  "/student/marks",
				},
			}}
		},
	})
}

// VisibleClassIDs returns the classes p may read: assigned ones for teachers, enrolled ones for students.
// Admins are not scoped, which is reported by scoped being false.
func (svc *Service) VisibleClassIDs(ctx context.Context, p auth.Principal) (ids []string, scoped bool, err error) {
	switch p.Role {
	case auth.RoleAdmin:
		return nil, false, nil
	case auth.RoleTeacher:
		ids, err = svc.gate.Oracle().TeacherClassIDs(ctx, p.UserID)
		return ids, true, err
	case auth.RoleStudent:
		studentID, err := svc.gate.Oracle().ResolveStudentIdentity(ctx, p)
		if err != nil {
			return nil, true, err
		}
		ids, err = svc.repo.StudentClassIDs(ctx, studentID)
		return ids, true, errors.Wrap(err, "querying student classes")
	}
	return nil, true, core.NewForbiddenError("unknown role")
}

// QueryClasses lists the classes visible to p.
func (svc *Service) QueryClasses(ctx context.Context, p auth.Principal) ([]Class, error) {
	ids, scoped, err := svc.VisibleClassIDs(ctx, p)
	if err != nil {
		return nil, err
	}
	if scoped && len(ids) == 0 {
		return []Class{}, nil
	}
	classes, err := svc.repo.QueryClasses(ctx, ids)
	return classes, errors.Wrap(err, "querying classes")
}

// QueryClassStudents lists the students enrolled in a class owned by p.
func (svc *Service) QueryClassStudents(ctx context.Context, p auth.Principal, classID string) ([]Student, error) {
	if err := svc.gate.AuthorizeClass(ctx, p, auth.OpListClassEnrollments, classID); err != nil {
		return nil, err
	}
	if _, err := svc.repo.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	students, err := svc.repo.QueryClassStudents(ctx, classID)
	return students, errors.Wrap(err, "querying class students")
}
