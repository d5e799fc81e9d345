package user

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/auth"
)

// Profile mirrors an identity provider account, with the role held by the user.
type Profile struct {
	UserID    string      `json:"user_id" db:"user_id"`
	Email     string      `json:"email" db:"email"`
	FullName  string      `json:"full_name" db:"full_name"`
	AvatarURL null.String `json:"avatar_url" db:"avatar_url"`
	Role      null.String `json:"role" db:"role"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
}

// RoleOf returns the role of the profile, if any.
func (p Profile) RoleOf() (auth.Role, bool) {
	if !p.Role.Valid {
		return "", false
	}
	return auth.Role(p.Role.String), true
}

// MaxAvatarSize is the largest profile photo accepted, in bytes.
const MaxAvatarSize = 2 << 20

// NewAvatar is a profile photo, base64 encoded.
type NewAvatar struct {
	Name        string `json:"name" validate:"required,max=200"`
	ContentType string `json:"content_type" validate:"omitempty,max=100"`
	Data        string `json:"data" validate:"required,base64"`
}

func (na *NewAvatar) Clean() {
	na.Name = core.CleanString(na.Name)
	na.ContentType = core.CleanString(na.ContentType, true /* lower */)
}

// UpdateRole defines the role to assign to a user.
type UpdateRole struct {
	Role string `json:"role" validate:"required,role"`
}

func (ur *UpdateRole) Clean() {
	ur.Role = core.CleanString(ur.Role, true /* lower */)
}

type QueryFilter struct {
	Search string `query:"search"`
	Role   string `query:"role" validate:"omitempty,role"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
}
