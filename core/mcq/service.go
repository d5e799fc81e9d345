package mcq

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/academic"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/gate"
	"github.com/trezcool/campus/core/notification"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("test")
	ErrAlreadySubmitted = core.NewConflictError("test already submitted")
)

type (
	Repository interface {
		CreateTest(ctx context.Context, t Test) (Test, error)
		GetTest(ctx context.Context, id string) (Test, error)
		// CreateQuestions inserts the whole batch or nothing.
		CreateQuestions(ctx context.Context, qs []Question) ([]Question, error)
		// QueryQuestions returns the questions of a test in creation order.
		QueryQuestions(ctx context.Context, testID string) ([]Question, error)
		// CreateSubmission returns a core.ConflictError if the student has already submitted.
		CreateSubmission(ctx context.Context, s Submission) (Submission, error)
		HasSubmitted(ctx context.Context, testID, studentID string) (bool, error)
		QuerySubmissions(ctx context.Context, testID string) ([]Submission, error)
	}

	Service struct {
		repo     Repository
		acadRepo academic.Repository
		gate     *gate.Gate
	}
)

func NewService(repo Repository, acadRepo academic.Repository, g *gate.Gate) *Service {
	return &Service{repo: repo, acadRepo: acadRepo, gate: g}
}

// CreateTest creates a test for a class. Published tests are announced to the class students.
func (svc *Service) CreateTest(ctx context.Context, p auth.Principal, nt NewTest) (Test, error) {
	nt.Clean()
	var class academic.Class

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Test]{
		Op:    auth.OpCreateTest,
		Input: &nt,
		Class: func(ctx context.Context) (string, error) {
			var err error
			if class, err = svc.acadRepo.GetClass(ctx, nt.ClassID); err != nil {
				return "", err
			}
			return class.ID, nil
		},
		Persist: func(ctx context.Context) (Test, error) {
			return svc.repo.CreateTest(ctx, Test{
				ID:              uuid.New().String(),
				ClassID:         class.ID,
				Title:           nt.Title,
				Description:     nt.Description,
				DurationMinutes: nt.DurationMinutes,
				IsPublished:     !nt.Draft,
				CreatedBy:       p.UserID,
				CreatedAt:       time.Now().UTC(),
			})
		},
		Notify: func(t Test) []gate.Notice {
			if !t.IsPublished {
				return nil
			}
			return []gate.Notice{{
				Audience: notification.ToClassStudents(t.ClassID),
				Message: notification.Message{
					Title: "New Test",
					Body:  fmt.Sprintf("%s (%d minutes) is available in %s.", t.Title, t.DurationMinutes, class.Name),
					Type:  notification.TypeTest,
					Link:  "/student/tests/" + t.ID,
				},
			}}
		},
	})
}

// AddQuestions appends questions to a test created by p.
func (svc *Service) AddQuestions(ctx context.Context, p auth.Principal, testID string, nqs NewQuestions) ([]Question, error) {
	var test Test

	return gate.Run(ctx, svc.gate, p, gate.Mutation[[]Question]{
		Op:    auth.OpAddTestQuestions,
		Input: &nqs,
		Validate: func() error {
			for i, nq := range nqs.Questions {
				if nq.CorrectOption >= len(nq.Options) {
					return core.NewValidationError(nil, core.FieldError{
						Field: fmt.Sprintf("questions[%d].correct_option", i),
						Error: "correct_option must be the index of one of the options",
					})
				}
			}
			return nil
		},
		Authorize: func(ctx context.Context) error {
			var err error
			if test, err = svc.get(ctx, testID); err != nil {
				return err
			}
			return svc.authorizeOwner(ctx, p, test.ID)
		},
		Persist: func(ctx context.Context) ([]Question, error) {
			now := time.Now().UTC()
			qs := make([]Question, 0, len(nqs.Questions))
			for i, nq := range nqs.Questions {
				marks := nq.Marks
				if marks == 0 {
					marks = 1
				}
				opts := make([]string, len(nq.Options))
				for j, o := range nq.Options {
					opts[j] = core.CleanString(o)
				}
				qs = append(qs, Question{
					ID:            uuid.New().String(),
					TestID:        test.ID,
					Question:      core.CleanString(nq.Question),
					Options:       opts,
					CorrectOption: nq.CorrectOption,
					Marks:         marks,
					// keeps the batch ordered
					CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
				})
			}
			return svc.repo.CreateQuestions(ctx, qs)
		},
	})
}

// Paper returns a published test to an enrolled student, without the correct answers.
func (svc *Service) Paper(ctx context.Context, p auth.Principal, testID string) (TestPaper, error) {
	if err := svc.gate.AuthorizeRole(p, auth.OpTakeTest); err != nil {
		return TestPaper{}, err
	}
	test, studentID, err := svc.authorizeTaker(ctx, p, testID)
	if err != nil {
		return TestPaper{}, err
	}

	qs, err := svc.repo.QueryQuestions(ctx, test.ID)
	if err != nil {
		return TestPaper{}, errors.Wrap(err, "querying questions")
	}
	done, err := svc.repo.HasSubmitted(ctx, test.ID, studentID)
	if err != nil {
		return TestPaper{}, errors.Wrap(err, "checking submission")
	}

	paper := TestPaper{Test: test, Questions: make([]StudentQuestion, 0, len(qs)), Submitted: done}
	for _, q := range qs {
		paper.Questions = append(paper.Questions, StudentQuestion{ID: q.ID, Question: q.Question, Options: q.Options, Marks: q.Marks})
	}
	return paper, nil
}

// Submit grades and records the single attempt of a student.
func (svc *Service) Submit(ctx context.Context, p auth.Principal, testID string, ns NewSubmission) (Submission, error) {
	var test Test
	var student academic.Student
	var studentID string
	var questions []Question

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Submission]{
		Op:    auth.OpSubmitTest,
		Input: &ns,
		Authorize: func(ctx context.Context) error {
			var err error
			test, studentID, err = svc.authorizeTaker(ctx, p, testID)
			return err
		},
		Check: func(ctx context.Context) error {
			done, err := svc.repo.HasSubmitted(ctx, test.ID, studentID)
			if err != nil {
				return errors.Wrap(err, "checking submission")
			}
			if done {
				return ErrAlreadySubmitted
			}
			if student, err = svc.acadRepo.GetStudent(ctx, studentID); err != nil {
				return err
			}
			if questions, err = svc.repo.QueryQuestions(ctx, test.ID); err != nil {
				return errors.Wrap(err, "querying questions")
			}
			return checkAnswers(questions, ns.Answers)
		},
		Persist: func(ctx context.Context) (Submission, error) {
			score, total := Grade(questions, ns.Answers)
			return svc.repo.CreateSubmission(ctx, Submission{
				ID:          uuid.New().String(),
				TestID:      test.ID,
				StudentID:   studentID,
				Answers:     ns.Answers,
				Score:       score,
				TotalMarks:  total,
				SubmittedAt: time.Now().UTC(),
			})
		},
		Notify: func(sub Submission) []gate.Notice {
			return []gate.Notice{{
				Audience: notification.ToUser(test.CreatedBy),
				Message: notification.Message{
					Title: "Test Submitted",
					Body: fmt.Sprintf("%s scored %s/%s on %s.", student.FullName,
						strconv.FormatFloat(sub.Score, 'f', -1, 64), strconv.FormatFloat(sub.TotalMarks, 'f', -1, 64), test.Title),
					Type: notification.TypeTest,
					Link: "/teacher/tests/" + test.ID + "/submissions",
				},
			}}
		},
	})
}

// QuerySubmissions lists the submissions of a test created by p.
func (svc *Service) QuerySubmissions(ctx context.Context, p auth.Principal, testID string) ([]Submission, error) {
	if err := svc.gate.AuthorizeRole(p, auth.OpListTestSubmissions); err != nil {
		return nil, err
	}
	test, err := svc.get(ctx, testID)
	if err != nil {
		return nil, err
	}
	if err = svc.authorizeOwner(ctx, p, test.ID); err != nil {
		return nil, err
	}
	subs, err := svc.repo.QuerySubmissions(ctx, test.ID)
	return subs, errors.Wrap(err, "querying test submissions")
}

// Grade sums the marks of the correctly answered questions. Unanswered questions score nothing.
func Grade(questions []Question, answers map[string]int) (score, total float64) {
	for _, q := range questions {
		total += q.Marks
		if ans, ok := answers[q.ID]; ok && ans == q.CorrectOption {
			score += q.Marks
		}
	}
	return score, total
}

func checkAnswers(questions []Question, answers map[string]int) error {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for qid, ans := range answers {
		q, ok := byID[qid]
		if !ok {
			return core.NewValidationError(nil, core.FieldError{Field: "answers", Error: "unknown question " + qid})
		}
		if ans < 0 || ans >= len(q.Options) {
			return core.NewValidationError(nil, core.FieldError{Field: "answers", Error: "answer out of range for question " + qid})
		}
	}
	return nil
}

func (svc *Service) authorizeOwner(ctx context.Context, p auth.Principal, testID string) error {
	owner, err := svc.gate.Oracle().IsOwnerOfTest(ctx, p, testID)
	if err != nil {
		return err
	}
	if !owner {
		return core.NewForbiddenError("you did not create this test")
	}
	return nil
}

// authorizeTaker loads a published test the student principal is enrolled for.
func (svc *Service) authorizeTaker(ctx context.Context, p auth.Principal, testID string) (Test, string, error) {
	test, err := svc.get(ctx, testID)
	if err != nil {
		return Test{}, "", err
	}
	if !test.IsPublished {
		return Test{}, "", ErrNotFound
	}
	studentID, err := svc.gate.Oracle().ResolveStudentIdentity(ctx, p)
	if err != nil {
		return Test{}, "", err
	}
	enrolled, err := svc.acadRepo.IsEnrolled(ctx, studentID, test.ClassID)
	if err != nil {
		return Test{}, "", errors.Wrap(err, "checking enrollment")
	}
	if !enrolled {
		return Test{}, "", core.NewForbiddenError("you are not enrolled in this test's class")
	}
	return test, studentID, nil
}

func (svc *Service) get(ctx context.Context, id string) (Test, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Test{}, ErrNotFound
	}
	return svc.repo.GetTest(ctx, id)
}
