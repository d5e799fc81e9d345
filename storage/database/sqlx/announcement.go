package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/announcement"
	"github.com/trezcool/campus/storage/database"
)

type announcementRepository struct {
	db core.DBExecutor
}

func NewAnnouncementRepository(db core.DBExecutor) announcement.Repository {
	return &announcementRepository{db: db}
}

func (repo announcementRepository) CreateAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	_, err := exec(ctx, repo.db, psql.
		Insert("announcements").
		Columns("id", "class_id", "title", "content", "created_by", "created_at").
		Values(a.ID, a.ClassID, a.Title, a.Content, a.CreatedBy, a.CreatedAt))
	if err != nil {
		return announcement.Announcement{}, database.TranslateError(err, "inserting announcement", "announcement already exists")
	}
	return a, nil
}

func (repo announcementRepository) QueryAnnouncements(ctx context.Context, classIDs []string) ([]announcement.Announcement, error) {
	anns := make([]announcement.Announcement, 0)
	b := psql.Select("id, class_id, title, content, created_by, created_at").
		From("announcements").
		OrderBy("created_at DESC")
	if classIDs != nil {
		b = b.Where(sq.Eq{"class_id": classIDs})
	}
	err := selectAll(ctx, repo.db, &anns, b)
	return anns, err
}
