package attendance

import "time"

// Status of a student on a given day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

var AllStatuses = []Status{StatusPresent, StatusAbsent, StatusLate}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

type Record struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	ClassID   string    `json:"class_id" db:"class_id"`
	Date      time.Time `json:"date" db:"date"`
	Status    Status    `json:"status" db:"status"`
	MarkedBy  string    `json:"marked_by" db:"marked_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

type Entry struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	Status    Status `json:"status" validate:"required,attendance_status"`
}

// NewAttendance records the attendance of a class for one day.
type NewAttendance struct {
	ClassID string  `json:"class_id" validate:"required,uuid"`
	Date    string  `json:"date" validate:"required,isodate"`
	Records []Entry `json:"records" validate:"required,min=1,dive"`
}

type QueryFilter struct {
	StudentID string
	ClassID   string
	From      string `query:"from" validate:"omitempty,isodate"`
	To        string `query:"to" validate:"omitempty,isodate"`
}
