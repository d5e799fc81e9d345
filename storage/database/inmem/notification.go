package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/campus/core/notification"
)

type notificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) StudentAccounts(_ context.Context, studentIDs []string) (map[string]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	accounts := make(map[string]string, len(studentIDs))
	for _, sid := range studentIDs {
		if uid, ok := repo.db.studentAccount(sid); ok {
			accounts[sid] = uid
		}
	}
	return accounts, nil
}

func (repo *notificationRepository) UserIDsForClassStudents(_ context.Context, classID string) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	ids := make([]string, 0)
	for key := range repo.db.enrollments {
		if key[1] != classID {
			continue
		}
		if uid, ok := repo.db.studentAccount(key[0]); ok && !contains(ids, uid) {
			ids = append(ids, uid)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (repo *notificationRepository) CreateNotifications(_ context.Context, notifs []notification.Notification) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if repo.db.notifErr != nil {
		return repo.db.notifErr
	}
	repo.db.notifications = append(repo.db.notifications, notifs...)
	return nil
}

func (repo *notificationRepository) QueryNotifications(_ context.Context, userID string, filter notification.QueryFilter) ([]notification.Notification, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	notifs := make([]notification.Notification, 0)
	// newest first
	for i := len(repo.db.notifications) - 1; i >= 0; i-- {
		n := repo.db.notifications[i]
		if n.UserID != userID || (filter.UnreadOnly && n.IsRead) {
			continue
		}
		notifs = append(notifs, n)
		if filter.Limit > 0 && len(notifs) == filter.Limit {
			break
		}
	}
	return notifs, nil
}

func (repo *notificationRepository) CountUnread(_ context.Context, userID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	var count int
	for _, n := range repo.db.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (repo *notificationRepository) MarkRead(_ context.Context, userID, id string) (notification.Notification, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for i := range repo.db.notifications {
		n := &repo.db.notifications[i]
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return *n, nil
		}
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (repo *notificationRepository) MarkAllRead(_ context.Context, userID string) (int64, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	var count int64
	for i := range repo.db.notifications {
		n := &repo.db.notifications[i]
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}
