package user

import (
	"context"
	"encoding/base64"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/gate"
	"github.com/trezcool/campus/core/notification"
)

var (
	// errors
	ErrNotFound     = core.NewNotFoundError("user")
	ErrSelfDemotion = core.NewForbiddenError("admins cannot change their own role")
)

type (
	Repository interface {
		GetProfile(ctx context.Context, userID string) (Profile, error)
		// FilterProfiles does a case-insensitive match of QueryFilter.Search on the email or the full name.
		FilterProfiles(ctx context.Context, filter QueryFilter) ([]Profile, error)
		// SetRole creates or replaces the role of the user.
		SetRole(ctx context.Context, userID string, role auth.Role) error
		// SetAvatarURL returns ErrNotFound if the user has no profile.
		SetAvatarURL(ctx context.Context, userID, url string) error
	}

	// Uploader stores a file and returns a URL it can be retrieved from.
	Uploader interface {
		Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
	}

	Service struct {
		repo     Repository
		gate     *gate.Gate
		uploader Uploader
		bucket   string
	}
)

func NewService(repo Repository, g *gate.Gate, uploader Uploader, avatarsBucket string) *Service {
	return &Service{repo: repo, gate: g, uploader: uploader, bucket: avatarsBucket}
}

// UploadAvatar stores the profile photo of p, replacing any previous one.
func (svc *Service) UploadAvatar(ctx context.Context, p auth.Principal, na NewAvatar) (Profile, error) {
	na.Clean()
	var data []byte
	var prof Profile

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Profile]{
		Op:    auth.OpUploadAvatar,
		Input: &na,
		Validate: func() error {
			var err error
			if data, err = base64.StdEncoding.DecodeString(na.Data); err != nil {
				return core.NewValidationError(nil, core.FieldError{Field: "data", Error: "data must be base64 encoded"})
			}
			if len(data) > MaxAvatarSize {
				return core.NewValidationError(nil, core.FieldError{Field: "data", Error: "avatar must not exceed 2MB"})
			}
			if na.ContentType == "" {
				na.ContentType = http.DetectContentType(data)
			}
			if !strings.HasPrefix(na.ContentType, "image/") {
				return core.NewValidationError(nil, core.FieldError{Field: "content_type", Error: "avatar must be an image"})
			}
			return nil
		},
		Check: func(ctx context.Context) error {
			var err error
			prof, err = svc.GetByID(ctx, p.UserID)
			return err
		},
		Persist: func(ctx context.Context) (Profile, error) {
			key := path.Join(prof.UserID, "avatar"+path.Ext(path.Base(na.Name)))
			url, err := svc.uploader.Upload(ctx, svc.bucket, key, data, na.ContentType)
			if err != nil {
				return Profile{}, errors.Wrap(err, "uploading avatar")
			}
			if err = svc.repo.SetAvatarURL(ctx, prof.UserID, url); err != nil {
				return Profile{}, err
			}
			prof.AvatarURL = null.StringFrom(url)
			return prof, nil
		},
	})
}

// AssignRole gives the user a new role. An admin may not change their own role.
func (svc *Service) AssignRole(ctx context.Context, p auth.Principal, userID string, ur UpdateRole) (Profile, error) {
	ur.Clean()
	var target Profile

	return gate.Run(ctx, svc.gate, p, gate.Mutation[Profile]{
		Op:    auth.OpAssignRole,
		Input: &ur,
		Authorize: func(context.Context) error {
			if userID == p.UserID && auth.Role(ur.Role) != p.Role {
				return ErrSelfDemotion
			}
			return nil
		},
		Check: func(ctx context.Context) error {
			var err error
			target, err = svc.GetByID(ctx, userID)
			return err
		},
		Persist: func(ctx context.Context) (Profile, error) {
			if err := svc.repo.SetRole(ctx, target.UserID, auth.Role(ur.Role)); err != nil {
				return Profile{}, err
			}
			target.Role.SetValid(ur.Role)
			return target, nil
		},
		Notify: func(prof Profile) []gate.Notice {
			return []gate.Notice{{
				Audience: notification.ToUser(prof.UserID),
				Message: notification.Message{
					Title: "Role Updated",
					Body:  "Your role is now " + ur.Role + ".",
					Type:  notification.TypeInfo,
					Link:  "/",
				},
			}}
		},
	})
}

func (svc *Service) GetByID(ctx context.Context, userID string) (Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return Profile{}, ErrNotFound
	}
	return svc.repo.GetProfile(ctx, userID)
}

// Filter lists the profiles matching filter. Admins only.
func (svc *Service) Filter(ctx context.Context, p auth.Principal, filter QueryFilter) ([]Profile, error) {
	if err := svc.gate.AuthorizeRole(p, auth.OpListUsers); err != nil {
		return nil, err
	}
	filter.Clean()
	if err := svc.gate.ValidateStruct(&filter); err != nil {
		return nil, err
	}
	profs, err := svc.repo.FilterProfiles(ctx, filter)
	return profs, errors.Wrap(err, "filtering profiles")
}
