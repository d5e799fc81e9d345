package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/notification"
	"github.com/trezcool/campus/storage/database"
)

const notificationCols = "id, user_id, title, message, type, is_read, link, created_at"

type notificationRepository struct {
	db core.DBExecutor
}

func NewNotificationRepository(db core.DBExecutor) notification.Repository {
	return &notificationRepository{db: db}
}

// accounts selects the user ids of the roster students, matched by email.
func accounts() sq.SelectBuilder {
	return psql.Select("DISTINCT p.user_id").
		From("students s").
		Join("profiles p ON lower(p.email) = lower(s.email)")
}

func (repo notificationRepository) StudentAccounts(ctx context.Context, studentIDs []string) (map[string]string, error) {
	accounts := make(map[string]string, len(studentIDs))
	valid := make([]string, 0, len(studentIDs))
	for _, id := range studentIDs {
		if isUUID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return accounts, nil
	}

	var rows []struct {
		StudentID string `db:"student_id"`
		UserID    string `db:"user_id"`
	}
	err := selectAll(ctx, repo.db, &rows, psql.
		Select("s.id AS student_id, p.user_id").
		From("students s").
		Join("profiles p ON lower(p.email) = lower(s.email)").
		Where(sq.Eq{"s.id": valid}))
	for _, r := range rows {
		accounts[r.StudentID] = r.UserID
	}
	return accounts, err
}

func (repo notificationRepository) UserIDsForClassStudents(ctx context.Context, classID string) ([]string, error) {
	ids := make([]string, 0)
	if !isUUID(classID) {
		return ids, nil
	}
	err := selectAll(ctx, repo.db, &ids, accounts().
		Join("class_enrollments e ON e.student_id = s.id").
		Where(sq.Eq{"e.class_id": classID}))
	return ids, err
}

func (repo notificationRepository) CreateNotifications(ctx context.Context, notifs []notification.Notification) error {
	if len(notifs) == 0 {
		return nil
	}
	b := psql.Insert("notifications").Columns("id", "user_id", "title", "message", "type", "is_read", "link", "created_at")
	for _, n := range notifs {
		b = b.Values(n.ID, n.UserID, n.Title, n.Message, n.Type, n.IsRead, n.Link, n.CreatedAt)
	}
	_, err := exec(ctx, repo.db, b)
	return database.TranslateError(err, "inserting notifications", "notification already exists")
}

func (repo notificationRepository) QueryNotifications(ctx context.Context, userID string, filter notification.QueryFilter) ([]notification.Notification, error) {
	notifs := make([]notification.Notification, 0)
	if !isUUID(userID) {
		return notifs, nil
	}
	b := psql.Select(notificationCols).
		From("notifications").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit))
	if filter.UnreadOnly {
		b = b.Where(sq.Eq{"is_read": false})
	}
	err := selectAll(ctx, repo.db, &notifs, b)
	return notifs, err
}

func (repo notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	if !isUUID(userID) {
		return 0, nil
	}
	err := get(ctx, repo.db, &count, psql.Select("COUNT(*)").From("notifications").Where(sq.Eq{"user_id": userID, "is_read": false}))
	return count, err
}

func (repo notificationRepository) MarkRead(ctx context.Context, userID, id string) (notification.Notification, error) {
	if !isUUID(userID, id) {
		return notification.Notification{}, notification.ErrNotFound
	}
	var notif notification.Notification
	err := get(ctx, repo.db, &notif, psql.
		Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING "+notificationCols))
	if database.IsNoRows(err) {
		return notification.Notification{}, notification.ErrNotFound
	}
	return notif, err
}

func (repo notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if !isUUID(userID) {
		return 0, nil
	}
	return exec(ctx, repo.db, psql.
		Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"user_id": userID, "is_read": false}))
}
