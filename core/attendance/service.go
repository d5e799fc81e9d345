package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/academic"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/gate"
	"github.com/trezcool/campus/core/notification"
)

const dateLayout = "2006-01-02"

type (
	Repository interface {
		// CreateRecords inserts the whole batch or nothing. A student already marked for that class and day is a core.ConflictError.
		CreateRecords(ctx context.Context, recs []Record) ([]Record, error)
		QueryRecords(ctx context.Context, filter QueryFilter) ([]Record, error)
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

// Record marks the attendance of many students of a class for one day.
// Absent and late students are warned.
func (svc *Service) Record(ctx context.Context, p auth.Principal, na NewAttendance) ([]Record, error) {
	var date time.Time
	var class academic.Class

	return gate.Run(ctx, svc.gate, p, gate.Mutation[[]Record]{
		Op:    auth.OpRecordAttendance,
		Input: &na,
		Validate: func() error {
			var err error
			if date, err = time.Parse(dateLayout, na.Date); err != nil {
				return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "date is not a valid calendar date"})
			}
			seen := make(map[string]struct{}, len(na.Records))
			for i, e := range na.Records {
				if _, dup := seen[e.StudentID]; dup {
					return core.NewValidationError(nil, core.FieldError{
						Field: fmt.Sprintf("records[%d].student_id", i),
						Error: "student appears more than once in the batch",
					})
				}
				seen[e.StudentID] = struct{}{}
			}
			return nil
		},
		Class: func(ctx context.Context) (string, error) {
			var err error
			if class, err = svc.academic.GetClass(ctx, na.ClassID); err != nil {
				return "", err
			}
			return class.ID, nil
		},
		Check: func(ctx context.Context) error {
			for i, e := range na.Records {
				if _, err := svc.academic.GetStudent(ctx, e.StudentID); err != nil {
					return err
				}
				enrolled, err := svc.academic.IsEnrolled(ctx, e.StudentID, class.ID)
				if err != nil {
					return errors.Wrap(err, "checking enrollment")
				}
				if !enrolled {
					return core.NewValidationError(nil, core.FieldError{
						Field: fmt.Sprintf("records[%d].student_id", i),
						Error: "student is not enrolled in this class",
					})
				}
			}
			return nil
		},
		Persist: func(ctx context.Context) ([]Record, error) {
			now := time.Now().UTC()
			recs := make([]Record, 0, len(na.Records))
			for _, e := range na.Records {
				recs = append(recs, Record{
					ID:        uuid.New().String(),
					StudentID: e.StudentID,
					ClassID:   class.ID,
					Date:      date,
					Status:    e.Status,
					MarkedBy:  p.UserID,
					CreatedAt: now,
				})
			}
			return svc.repo.CreateRecords(ctx, recs)
		},
		Notify: func(recs []Record) []gate.Notice {
			var each []notification.Personal
			for _, rec := range recs {
				if rec.Status == StatusPresent {
					continue
				}
				each = append(each, notification.Personal{
					StudentID: rec.StudentID,
					Message: notification.Message{
						Title: "Attendance Alert",
						Body:  fmt.Sprintf("You were marked %s in %s on %s.", rec.Status, class.Name, rec.Date.Format(dateLayout)),
						Type:  notification.TypeWarning,
						Link:  "/student/attendance",
					},
				})
			}
			if len(each) == 0 {
				return nil
			}
			return []gate.Notice{{Each: each}}
		},
	})
}

// QueryOwn lists the attendance of the student principal.
func (svc *Service) QueryOwn(ctx context.Context, p auth.Principal, filter QueryFilter) ([]Record, error) {
	if err := svc.gate.AuthorizeRole(p, auth.OpListOwnAttendance); err != nil {
		return nil, err
	}
	if err := svc.gate.ValidateStruct(&filter); err != nil {
		return nil, err
	}
	studentID, err := svc.gate.Oracle().ResolveStudentIdentity(ctx, p)
	if err != nil {
		return nil, err
	}
	filter.StudentID, filter.ClassID = studentID, ""
	recs, err := svc.repo.QueryRecords(ctx, filter)
	return recs, errors.Wrap(err, "querying attendance")
}

// QueryClass lists the attendance of a class owned by p.
func (svc *Service) QueryClass(ctx context.Context, p auth.Principal, classID string, filter QueryFilter) ([]Record, error) {
	if err := svc.gate.AuthorizeClass(ctx, p, auth.OpListClassAttendance, classID); err != nil {
		return nil, err
	}
	if err := svc.gate.ValidateStruct(&filter); err != nil {
		return nil, err
	}
	filter.StudentID, filter.ClassID = "", classID
	recs, err := svc.repo.QueryRecords(ctx, filter)
	return recs, errors.Wrap(err, "querying attendance")
}
