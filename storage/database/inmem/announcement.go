package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/campus/core/announcement"
)

type announcementRepository struct {
	db *DB
}

func NewAnnouncementRepository(db *DB) announcement.Repository {
	return &announcementRepository{db: db}
}

func (repo *announcementRepository) CreateAnnouncement(_ context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.announcements = append(repo.db.announcements, a)
	return a, nil
}

func (repo *announcementRepository) QueryAnnouncements(_ context.Context, classIDs []string) ([]announcement.Announcement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	anns := make([]announcement.Announcement, 0)
	for _, a := range repo.db.announcements {
		if classIDs == nil || contains(classIDs, a.ClassID) {
			anns = append(anns, a)
		}
	}
	sort.SliceStable(anns, func(i, j int) bool { return anns[i].CreatedAt.After(anns[j].CreatedAt) })
	return anns, nil
}
