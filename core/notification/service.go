package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/campus/core"
)

var ErrNotFound = core.NewNotFoundError("notification")

type (
	Repository interface {
		// StudentAccounts maps roster students to the user ids of their accounts.
		// Students without an account are left out.
		StudentAccounts(ctx context.Context, studentIDs []string) (map[string]string, error)
		// UserIDsForClassStudents lists the accounts of the students currently enrolled in the class.
		UserIDsForClassStudents(ctx context.Context, classID string) ([]string, error)
		// CreateNotifications inserts all records in one batch.
		CreateNotifications(ctx context.Context, notifs []Notification) error
		QueryNotifications(ctx context.Context, userID string, filter QueryFilter) ([]Notification, error)
		CountUnread(ctx context.Context, userID string) (int, error)
		// MarkRead returns ErrNotFound if the notification does not belong to userID.
		MarkRead(ctx context.Context, userID, id string) (Notification, error)
		MarkAllRead(ctx context.Context, userID string) (int64, error)
	}

	// Personal is a message meant for one roster student only.
	Personal struct {
		StudentID string
		Message   Message
	}

	// Result reports the outcome of one fanout.
	Result struct {
		Audience  string
		Delivered int
		Err       error
	}

	Service struct {
		repo   Repository
		logger core.Logger
		now    func() time.Time
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Fanout inserts one notification per recipient of the audience.
// It never fails its caller: every error is logged and reported in the Result only.
// There is no retry and no dedup; running it twice notifies twice.
func (svc *Service) Fanout(ctx context.Context, audience Audience, msg Message) Result {
	res := Result{Audience: audience.String()}

	recipients, err := audience.Recipients(ctx, svc.repo)
	if err != nil {
		res.Err = errors.Wrap(err, "resolving recipients")
		svc.logFailure(msg, res)
		return res
	}
	if len(recipients) == 0 {
		return res
	}

	now := svc.now().UTC()
	notifs := make([]Notification, 0, len(recipients))
	seen := make(map[string]struct{}, len(recipients))
	for _, userID := range recipients {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		notifs = append(notifs, svc.build(userID, msg, now))
	}
	return svc.insert(ctx, notifs, msg, res)
}

// FanoutEach gives every student its own message. All accounts are resolved in one query
// and all records inserted in one batch. Failures are handled as in Fanout.
func (svc *Service) FanoutEach(ctx context.Context, msgs []Personal) Result {
	studentIDs := make([]string, 0, len(msgs))
	for _, m := range msgs {
		studentIDs = append(studentIDs, m.StudentID)
	}
	res := Result{Audience: ToStudents(studentIDs...).String()}
	if len(msgs) == 0 {
		return res
	}

	accounts, err := svc.repo.StudentAccounts(ctx, studentIDs)
	if err != nil {
		res.Err = errors.Wrap(err, "resolving recipients")
		svc.logFailure(msgs[0].Message, res)
		return res
	}

	now := svc.now().UTC()
	notifs := make([]Notification, 0, len(msgs))
	seen := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		userID, ok := accounts[m.StudentID]
		if !ok {
			continue
		}
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		notifs = append(notifs, svc.build(userID, m.Message, now))
	}
	return svc.insert(ctx, notifs, msgs[0].Message, res)
}

func (svc *Service) insert(ctx context.Context, notifs []Notification, msg Message, res Result) Result {
	if len(notifs) == 0 {
		return res
	}
	if err := svc.repo.CreateNotifications(ctx, notifs); err != nil {
		res.Err = errors.Wrap(err, "inserting notifications")
		svc.logFailure(msg, res)
		return res
	}
	res.Delivered = len(notifs)
	return res
}

func (svc *Service) build(userID string, msg Message, now time.Time) Notification {
	typ := msg.Type
	if typ == "" {
		typ = TypeInfo
	}
	return Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     msg.Title,
		Message:   msg.Body,
		Type:      typ,
		Link:      null.NewString(msg.Link, msg.Link != ""),
		CreatedAt: now,
	}
}

func (svc *Service) logFailure(msg Message, res Result) {
	svc.logger.Warn("notification fanout failed", res.Err, map[string]interface{}{
		"audience": res.Audience,
		"title":    msg.Title,
		"type":     string(msg.Type),
	})
}

// Create notifies one user directly. Callers must have been authorized already.
func (svc *Service) Create(ctx context.Context, nn NewNotification) (Notification, error) {
	notif := svc.build(nn.UserID, Message{Title: nn.Title, Body: nn.Message, Type: nn.Type, Link: nn.Link}, svc.now().UTC())
	if err := svc.repo.CreateNotifications(ctx, []Notification{notif}); err != nil {
		return Notification{}, errors.Wrap(err, "inserting notification")
	}
	return notif, nil
}

func (svc *Service) Query(ctx context.Context, userID string, filter QueryFilter) ([]Notification, error) {
	filter.Clean()
	notifs, err := svc.repo.QueryNotifications(ctx, userID, filter)
	return notifs, errors.Wrap(err, "querying notifications")
}

func (svc *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := svc.repo.CountUnread(ctx, userID)
	return count, errors.Wrap(err, "counting unread notifications")
}

func (svc *Service) MarkRead(ctx context.Context, userID, id string) (Notification, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Notification{}, ErrNotFound
	}
	return svc.repo.MarkRead(ctx, userID, id)
}

func (svc *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := svc.repo.MarkAllRead(ctx, userID)
	return n, errors.Wrap(err, "marking all notifications read")
}
