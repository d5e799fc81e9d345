package notification

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Type of a notification, used by the dashboard to pick an icon.
type Type string

const (
	TypeInfo         Type = "info"
	TypeWarning      Type = "warning"
	TypeSuccess      Type = "success"
	TypeError        Type = "error"
	TypeAssignment   Type = "assignment"
	TypeTest         Type = "test"
	TypeAnnouncement Type = "announcement"
)

var AllTypes = []Type{TypeInfo, TypeWarning, TypeSuccess, TypeError, TypeAssignment, TypeTest, TypeAnnouncement}

func (t Type) Valid() bool {
	for _, at := range AllTypes {
		if t == at {
			return true
		}
	}
	return false
}

// Notification is owned by its single recipient.
type Notification struct {
	ID        string      `json:"id" db:"id"`
	UserID    string      `json:"user_id" db:"user_id"`
	Title     string      `json:"title" db:"title"`
	Message   string      `json:"message" db:"message"`
	Type      Type        `json:"type" db:"type"`
	IsRead    bool        `json:"is_read" db:"is_read"`
	Link      null.String `json:"link" db:"link"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
}

// Message is the content shared by every record of one fanout.
type Message struct {
	Title string
	Body  string
	Type  Type
	Link  string
}

// NewNotification contains what a privileged caller needs to notify a single user directly.
type NewNotification struct {
	UserID  string `json:"user_id" validate:"required,uuid"`
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
	Type    Type   `json:"type" validate:"omitempty,notification_type"`
	Link    string `json:"link" validate:"omitempty,max=500"`
}

type QueryFilter struct {
	UnreadOnly bool `query:"unread"`
	Limit      int  `query:"limit"`
}

func (qf *QueryFilter) Clean() {
	if qf.Limit <= 0 || qf.Limit > 100 {
		qf.Limit = 50
	}
}
