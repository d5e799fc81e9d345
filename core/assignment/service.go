package assignment

import (
	"context"
	"encoding/base64"
	"net/http"
	"path"
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

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("assignment")
	ErrAlreadySubmitted = core.NewConflictError("assignment already submitted")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignment(ctx context.Context, id string) (Assignment, error)
		// QueryAssignments returns all assignments when classIDs is nil.
		QueryAssignments(ctx context.Context, classIDs []string) ([]Assignment, error)
		// CreateSubmission returns a core.ConflictError if the student has already submitted.
		CreateSubmission(ctx context.Context, s Submission) (Submission, error)
		HasSubmitted(ctx context.Context, assignmentID, studentID string) (bool, error)
		QuerySubmissions(ctx context.Context, assignmentID string) ([]Submission, error)
	}

	// Uploader stores a file and returns a URL it can be retrieved from.
	Uploader interface {
		Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
	}

	Service struct {
		repo     Repository
		academic *academic.Service
		acadRepo academic.Repository
		gate     *gate.Gate
		uploader Uploader
		bucket   string
	}
)

func NewService(repo Repository, acad *academic.Service, acadRepo academic.Repository, g *gate.Gate, uploader Uploader, bucket string) *Service {
	return &Service{repo: repo, academic: acad, acadRepo: acadRepo, gate: g, uploader: uploader, bucket: bucket}
}

// Create publishes an assignment to a class and tells its students.
func (svc *Service) Create(ctx context.Context, p auth.Principal, na NewAssignment) (Assignment, error) {
	na.Clean()
	var class academic.Class

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Assignment]{
		Op:    auth.OpCreateAssignment,
		Input: &na,
		Class: func(ctx context.Context) (string, error) {
			var err error
			if class, err = svc.acadRepo.GetClass(ctx, na.ClassID); err != nil {
				return "", err
			}
			return class.ID, nil
		},
		Check: func(ctx context.Context) error {
			if na.SubjectID == "" {
				return nil
			}
			subject, err := svc.acadRepo.GetSubject(ctx, na.SubjectID)
			if err != nil {
				return err
			}
			if subject.ClassID != class.ID {
				return core.NewValidationError(nil, core.FieldError{Field: "subject_id", Error: "subject does not belong to this class"})
			}
			return nil
		},
		Persist: func(ctx context.Context) (Assignment, error) {
			return svc.repo.CreateAssignment(ctx, Assignment{
				ID:          uuid.New().String(),
				ClassID:     class.ID,
				SubjectID:   null.NewString(na.SubjectID, na.SubjectID != ""),
				Title:       na.Title,
				Description: na.Description,
				DueDate:     na.DueDate.UTC(),
				MaxScore:    na.MaxScore,
				CreatedBy:   p.UserID,
				CreatedAt:   time.Now().UTC(),
			})
		},
		Notify: func(a Assignment) []gate.Notice {
			return []gate.Notice{{
				Audience: notification.ToClassStudents(a.ClassID),
				Message: notification.Message{
					Title: "New Assignment",
					Body:  a.Title + " is due on " + a.DueDate.Format("Jan 2, 2006") + ".",
					Type:  notification.TypeAssignment,
					Link:  "/student/assignments",
				},
			}}
		},
	})
}

// Submit records the single submission of a student, uploading its file if any.
func (svc *Service) Submit(ctx context.Context, p auth.Principal, assignmentID string, ns NewSubmission) (Submission, error) {
	ns.Clean()
	var data []byte
	var student academic.Student
	var a Assignment
	var studentID string

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Submission]{
		Op:    auth.OpSubmitAssignment,
		Input: &ns,
		Validate: func() error {
			if ns.File == nil {
				return nil
			}
			var err error
			if data, err = base64.StdEncoding.DecodeString(ns.File.Data); err != nil {
				return core.NewValidationError(nil, core.FieldError{Field: "file.data", Error: "data must be base64 encoded"})
			}
			if len(data) > MaxFileSize {
				return core.NewValidationError(nil, core.FieldError{Field: "file.data", Error: "file must not exceed 10MB"})
			}
			return nil
		},
		Authorize: func(ctx context.Context) error {
			var err error
			if a, err = svc.get(ctx, assignmentID); err != nil {
				return err
			}
			if studentID, err = svc.gate.Oracle().ResolveStudentIdentity(ctx, p); err != nil {
				return err
			}
			enrolled, err := svc.acadRepo.IsEnrolled(ctx, studentID, a.ClassID)
			if err != nil {
				return errors.Wrap(err, "checking enrollment")
			}
			if !enrolled {
				return core.NewForbiddenError("you are not enrolled in this assignment's class")
			}
			return nil
		},
		Check: func(ctx context.Context) error {
			var err error
			if student, err = svc.acadRepo.GetStudent(ctx, studentID); err != nil {
				return err
			}
			done, err := svc.repo.HasSubmitted(ctx, a.ID, studentID)
			if err != nil {
				return errors.Wrap(err, "checking submission")
			}
			if done {
				return ErrAlreadySubmitted
			}
			return nil
		},
		Persist: func(ctx context.Context) (Submission, error) {
			sub := Submission{
				ID:           uuid.New().String(),
				AssignmentID: a.ID,
				StudentID:    studentID,
				Content:      ns.Content,
				SubmittedAt:  time.Now().UTC(),
			}
			if ns.File != nil {
				url, err := svc.upload(ctx, a.ID, studentID, *ns.File, data)
				if err != nil {
					return Submission{}, err
				}
				sub.FileURL = null.StringFrom(url)
			}
			return svc.repo.CreateSubmission(ctx, sub)
		},
		Notify: func(sub Submission) []gate.Notice {
			return []gate.Notice{{
				Audience: notification.ToUser(a.CreatedBy),
				Message: notification.Message{
					Title: "New Submission",
					Body:  student.FullName + " submitted " + a.Title + ".",
					Type:  notification.TypeInfo,
					Link:  "/teacher/assignments/" + a.ID + "/submissions",
				},
			}}
		},
	})
}

func (svc *Service) upload(ctx context.Context, assignmentID, studentID string, f File, data []byte) (string, error) {
	contentType := f.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	key := path.Join(assignmentID, studentID, path.Base(core.CleanString(f.Name)))
	url, err := svc.uploader.Upload(ctx, svc.bucket, key, data, contentType)
	return url, errors.Wrap(err, "uploading submission file")
}

// QuerySubmissions lists the submissions of an assignment created by p.
func (svc *Service) QuerySubmissions(ctx context.Context, p auth.Principal, assignmentID string) ([]Submission, error) {
	if err := svc.gate.AuthorizeRole(p, auth.OpListSubmissions); err != nil {
		return nil, err
	}
	if _, err := svc.get(ctx, assignmentID); err != nil {
		return nil, err
	}
	owner, err := svc.gate.Oracle().IsOwnerOfAssignment(ctx, p, assignmentID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, core.NewForbiddenError("you did not create this assignment")
	}
	subs, err := svc.repo.QuerySubmissions(ctx, assignmentID)
	return subs, errors.Wrap(err, "querying submissions")
}

// Query lists the assignments of the classes visible to p.
func (svc *Service) Query(ctx context.Context, p auth.Principal) ([]Assignment, error) {
	ids, scoped, err := svc.academic.VisibleClassIDs(ctx, p)
	if err != nil {
		return nil, err
	}
	if scoped && len(ids) == 0 {
		return []Assignment{}, nil
	}
	as, err := svc.repo.QueryAssignments(ctx, ids)
	return as, errors.Wrap(err, "querying assignments")
}

func (svc *Service) get(ctx context.Context, id string) (Assignment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Assignment{}, ErrNotFound
	}
	return svc.repo.GetAssignment(ctx, id)
}
