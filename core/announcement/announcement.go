package announcement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/academic"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/gate"
	"github.com/trezcool/campus/core/notification"
)

type Announcement struct {
	ID        string    `json:"id" db:"id"`
	ClassID   string    `json:"class_id" db:"class_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewAnnouncement contains information needed to post an Announcement to a class.
type NewAnnouncement struct {
	ClassID string `json:"class_id" validate:"required,uuid"`
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=10000"`
}

func (na *NewAnnouncement) Clean() {
	na.Title = core.CleanString(na.Title)
	na.Content = core.CleanString(na.Content)
}

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
		// QueryAnnouncements returns the newest first, for every class when classIDs is nil.
		QueryAnnouncements(ctx context.Context, classIDs []string) ([]Announcement, error)
	}

	Service struct {
		repo     Repository
		academic *academic.Service
		acadRepo academic.Repository
		gate     *gate.Gate
	}
)

func NewService(repo Repository, acad *academic.Service, acadRepo academic.Repository, g *gate.Gate) *Service {
	return &Service{repo: repo, academic: acad, acadRepo: acadRepo, gate: g}
}

// Create posts an announcement and tells every student of the class.
func (svc *Service) Create(ctx context.Context, p auth.Principal, na NewAnnouncement) (Announcement, error) {
	na.Clean()
	var class academic.Class

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Announcement]{
		Op:    auth.OpCreateAnnouncement,
		Input: &na,
		Class: func(ctx context.Context) (string, error) {
			var err error
			if class, err = svc.acadRepo.GetClass(ctx, na.ClassID); err != nil {
				return "", err
			}
			return class.ID, nil
		},
		Persist: func(ctx context.Context) (Announcement, error) {
			return svc.repo.CreateAnnouncement(ctx, Announcement{
				ID:        uuid.New().String(),
				ClassID:   class.ID,
				Title:     na.Title,
				Content:   na.Content,
				CreatedBy: p.UserID,
				CreatedAt: time.Now().UTC(),
			})
		},
		Notify: func(a Announcement) []gate.Notice {
			return []gate.Notice{{
				Audience: notification.ToClassStudents(a.ClassID),
				Message: notification.Message{
					Title: a.Title,
					Body:  "New announcement in " + class.Name + ".",
					Type:  notification.TypeAnnouncement,
					Link:  "/announcements",
				},
			}}
		},
	})
}

// Query lists the announcements of the classes visible to p.
func (svc *Service) Query(ctx context.Context, p auth.Principal) ([]Announcement, error) {
	ids, scoped, err := svc.academic.VisibleClassIDs(ctx, p)
	if err != nil {
		return nil, err
	}
	if scoped && len(ids) == 0 {
		return []Announcement{}, nil
	}
	anns, err := svc.repo.QueryAnnouncements(ctx, ids)
	return anns, errors.Wrap(err, "querying announcements")
}
