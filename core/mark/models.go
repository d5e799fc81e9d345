package mark

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/campus/core"
)

type Mark struct {
	ID            string      `json:"id" db:"id"`
	StudentID     string      `json:"student_id" db:"student_id"`
	ClassID       string      `json:"class_id" db:"class_id"`
	SubjectID     string      `json:"subject_id" db:"subject_id"`
	ExamID        string      `json:"exam_id" db:"exam_id"`
	MarksObtained float64     `json:"marks_obtained" db:"marks_obtained"`
	Remarks       null.String `json:"remarks" db:"remarks"`
	CreatedBy     string      `json:"created_by" db:"created_by"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// NewMark contains information needed to record a single mark.
type NewMark struct {
	StudentID     string  `json:"student_id" validate:"required,uuid"`
	SubjectID     string  `json:"subject_id" validate:"required,uuid"`
	ExamID        string  `json:"exam_id" validate:"required,uuid"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	Remarks       string  `json:"remarks" validate:"omitempty,max=500"`
}

func (nm *NewMark) Clean() {
	nm.Remarks = core.CleanString(nm.Remarks)
}

// BulkEntry is one student's mark in a BulkMarks upload.
type BulkEntry struct {
	StudentID     string  `json:"student_id" validate:"required,uuid"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	Remarks       string  `json:"remarks" validate:"omitempty,max=500"`
}

// BulkMarks records the marks of many students for the same exam.
type BulkMarks struct {
	SubjectID string      `json:"subject_id" validate:"required,uuid"`
	ExamID    string      `json:"exam_id" validate:"required,uuid"`
	Marks     []BulkEntry `json:"marks" validate:"required,min=1,dive"`
}

// UpdateMark defines what information may be provided to modify an existing Mark.
type UpdateMark struct {
	MarksObtained *float64 `json:"marks_obtained" validate:"omitempty,gte=0"`
	Remarks       *string  `json:"remarks" validate:"omitempty,max=500"`
}

type QueryFilter struct {
	StudentID string
	ClassIDs  []string
	ExamID    string `query:"exam_id"`
	SubjectID string `query:"subject_id"`
}
