package mark

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/academic"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/gate"
	"github.com/trezcool/campus/core/notification"
)

var ErrNotFound = core.NewNotFoundError("mark")

type (
	Repository interface {
		// CreateMarks inserts all marks at once: one duplicate (student, subject, exam) fails them all with a core.ConflictError.
		CreateMarks(ctx context.Context, marks []Mark) ([]Mark, error)
		GetMark(ctx context.Context, id string) (Mark, error)
		UpdateMark(ctx context.Context, m Mark) (Mark, error)
		QueryMarks(ctx context.Context, filter QueryFilter) ([]Mark, error)
	}

	Service struct {
		repo     Repository
		academic academic.Repository
		gate     *gate.Gate
	}
)

func NewService(repo Repository, acadRepo academic.Repository, g *gate.Gate) *Service {
	return &Service{repo: repo, academic: acadRepo, gate: g}
}

// Upload records the mark of one student.
func (svc *Service) Upload(ctx context.Context, p auth.Principal, nm NewMark) (Mark, error) {
	nm.Clean()
	var exam academic.Exam

	marks, err := gate.Run(ctx, svc.gate, p, gate.Mutation[[]Mark]{
		Op:    auth.OpUploadMarks,
		Input: &nm,
		Class: svc.examClass(nm.ExamID, &exam),
		Check: func(ctx context.Context) error {
			if err := svc.checkExam(ctx, exam, nm.SubjectID); err != nil {
				return err
			}
			return svc.checkEntry(ctx, exam, nm.StudentID, nm.MarksObtained, "marks_obtained")
		},
		Persist: func(ctx context.Context) ([]Mark, error) {
			return svc.repo.CreateMarks(ctx, []Mark{
				svc.newMark(p, exam, nm.StudentID, nm.MarksObtained, nm.Remarks),
			})
		},
		Notify: func(marks []Mark) []gate.Notice { return marksNotices(exam, marks) },
	})
	if err != nil {
		return Mark{}, err
	}
	return marks[0], nil
}

// UploadBulk records the marks of many students for one exam, all or nothing.
func (svc *Service) UploadBulk(ctx context.Context, p auth.Principal, bm BulkMarks) ([]Mark, error) {
	var exam academic.Exam

	return gate.Run(ctx, svc.gate, p, gate.Mutation[[]Mark]{
		Op:    auth.OpUploadMarks,
		Input: &bm,
		Validate: func() error {
			seen := make(map[string]struct{}, len(bm.Marks))
			for i := range bm.Marks {
				bm.Marks[i].Remarks = core.CleanString(bm.Marks[i].Remarks)
				if _, dup := seen[bm.Marks[i].StudentID]; dup {
					return core.NewValidationError(nil, core.FieldError{
						Field: fmt.Sprintf("marks[%d].student_id", i),
						Error: "student appears more than once in the batch",
					})
				}
				seen[bm.Marks[i].StudentID] = struct{}{}
			}
			return nil
		},
		Class: svc.examClass(bm.ExamID, &exam),
		Check: func(ctx context.Context) error {
			if err := svc.checkExam(ctx, exam, bm.SubjectID); err != nil {
				return err
			}
			for i, e := range bm.Marks {
				if err := svc.checkEntry(ctx, exam, e.StudentID, e.MarksObtained, fmt.Sprintf("marks[%d].marks_obtained", i)); err != nil {
					return err
				}
			}
			return nil
		},
		Persist: func(ctx context.Context) ([]Mark, error) {
			marks := make([]Mark, 0, len(bm.Marks))
			for _, e := range bm.Marks {
				marks = append(marks, svc.newMark(p, exam, e.StudentID, e.MarksObtained, e.Remarks))
			}
			return svc.repo.CreateMarks(ctx, marks)
		},
		Notify: func(marks []Mark) []gate.Notice { return marksNotices(exam, marks) },
	})
}

// Update changes the score or remarks of a recorded mark.
func (svc *Service) Update(ctx context.Context, p auth.Principal, id string, um UpdateMark) (Mark, error) {
	var orig Mark
	var exam academic.Exam

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Mark]{
		Op:    auth.OpUpdateMark,
		Input: &um,
		Class: func(ctx context.Context) (string, error) {
			var err error
			if orig, err = svc.get(ctx, id); err != nil {
				return "", err
			}
			return orig.ClassID, nil
		},
		Check: func(ctx context.Context) error {
			var err error
			if exam, err = svc.academic.GetExam(ctx, orig.ExamID); err != nil {
				return err
			}
			if um.MarksObtained != nil && *um.MarksObtained > exam.MaxMarks {
				return maxMarksError("marks_obtained", exam)
			}
			return nil
		},
		Persist: func(ctx context.Context) (Mark, error) {
			m := orig
			if um.MarksObtained != nil {
				m.MarksObtained = *um.MarksObtained
			}
			if um.Remarks != nil {
				remarks := core.CleanString(*um.Remarks)
				m.Remarks = null.NewString(remarks, remarks != "")
			}
			m.UpdatedAt = time.Now().UTC()
			return svc.repo.UpdateMark(ctx, m)
		},
		Notify: func(m Mark) []gate.Notice { return marksNotices(exam, []Mark{m}) },
	})
}

// QueryOwn lists the marks of the student principal.
func (svc *Service) QueryOwn(ctx context.Context, p auth.Principal) ([]Mark, error) {
	if err := svc.gate.AuthorizeRole(p, auth.OpListOwnMarks); err != nil {
		return nil, err
	}
	studentID, err := svc.gate.Oracle().ResolveStudentIdentity(ctx, p)
	if err != nil {
		return nil, err
	}
	marks, err := svc.repo.QueryMarks(ctx, QueryFilter{StudentID: studentID})
	return marks, errors.Wrap(err, "querying marks")
}

// QueryClass lists the marks of a class owned by p.
func (svc *Service) QueryClass(ctx context.Context, p auth.Principal, classID string, filter QueryFilter) ([]Mark, error) {
	if err := svc.gate.AuthorizeClass(ctx, p, auth.OpListClassMarks, classID); err != nil {
		return nil, err
	}
	filter.StudentID = ""
	filter.ClassIDs = []string{classID}
	marks, err := svc.repo.QueryMarks(ctx, filter)
	return marks, errors.Wrap(err, "querying marks")
}

func (svc *Service) get(ctx context.Context, id string) (Mark, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Mark{}, ErrNotFound
	}
	return svc.repo.GetMark(ctx, id)
}

func (svc *Service) examClass(examID string, exam *academic.Exam) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		var err error
		if *exam, err = svc.academic.GetExam(ctx, examID); err != nil {
			return "", err
		}
		return exam.ClassID, nil
	}
}

// checkExam verifies that the exam and the subject belong to the same class.
func (svc *Service) checkExam(ctx context.Context, exam academic.Exam, subjectID string) error {
	subject, err := svc.academic.GetSubject(ctx, subjectID)
	if err != nil {
		return err
	}
	if subject.ClassID != exam.ClassID || exam.SubjectID != subject.ID {
		return core.NewValidationError(nil, core.FieldError{Field: "exam_id", Error: "exam does not belong to this subject"})
	}
	return nil
}

func (svc *Service) checkEntry(ctx context.Context, exam academic.Exam, studentID string, obtained float64, field string) error {
	if obtained > exam.MaxMarks {
		return maxMarksError(field, exam)
	}
	if _, err := svc.academic.GetStudent(ctx, studentID); err != nil {
		return err
	}
	enrolled, err := svc.academic.IsEnrolled(ctx, studentID, exam.ClassID)
	if err != nil {
		return errors.Wrap(err, "checking enrollment")
	}
	if !enrolled {
		return core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "student is not enrolled in the exam's class"})
	}
	return nil
}

func (svc *Service) newMark(p auth.Principal, exam academic.Exam, studentID string, obtained float64, remarks string) Mark {
	now := time.Now().UTC()
	return Mark{
		ID:            uuid.New().String(),
		StudentID:     studentID,
		ClassID:       exam.ClassID,
		SubjectID:     exam.SubjectID,
		ExamID:        exam.ID,
		MarksObtained: obtained,
		Remarks:       null.NewString(remarks, remarks != ""),
		CreatedBy:     p.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func maxMarksError(field string, exam academic.Exam) error {
	return core.NewValidationError(
		errors.New("marks obtained cannot exceed max marks"),
		core.FieldError{Field: field, Error: "marks obtained cannot exceed max marks (" + formatScore(exam.MaxMarks) + ")"},
	)
}

func marksNotices(exam academic.Exam, marks []Mark) []gate.Notice {
	if len(marks) == 0 {
		return nil
	}
	each := make([]notification.Personal, 0, len(marks))
	for _, m := range marks {
		each = append(each, notification.Personal{
			StudentID: m.StudentID,
			Message: notification.Message{
				Title: "Marks Updated",
				Body:  fmt.Sprintf("Your marks for %s: %s/%s", exam.Name, formatScore(m.MarksObtained), formatScore(exam.MaxMarks)),
				Type:  notification.TypeInfo,
				Link:  "/student/marks",
			},
		})
	}
	return []gate.Notice{{Each: each}}
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
