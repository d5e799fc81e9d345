package assignment

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/campus/core"
)

// MaxFileSize is the largest submission file accepted, in bytes.
const MaxFileSize = 10 << 20

type Assignment struct {
	ID          string      `json:"id" db:"id"`
	ClassID     string      `json:"class_id" db:"class_id"`
	SubjectID   null.String `json:"subject_id" db:"subject_id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	DueDate     time.Time   `json:"due_date" db:"due_date"`
	MaxScore    float64     `json:"max_score" db:"max_score"`
	CreatedBy   string      `json:"created_by" db:"created_by"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"` // UTC
}

// NewAssignment contains information needed to create an Assignment.
type NewAssignment struct {
	ClassID     string    `json:"class_id" validate:"required,uuid"`
	SubjectID   string    `json:"subject_id" validate:"omitempty,uuid"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	MaxScore    float64   `json:"max_score" validate:"gte=0"`
}

func (na *NewAssignment) Clean() {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	if na.MaxScore == 0 {
		na.MaxScore = 100
	}
}

type Submission struct {
	ID           string      `json:"id" db:"id"`
	AssignmentID string      `json:"assignment_id" db:"assignment_id"`
	StudentID    string      `json:"student_id" db:"student_id"`
	Content      string      `json:"content" db:"content"`
	FileURL      null.String `json:"file_url" db:"file_url"`
	SubmittedAt  time.Time   `json:"submitted_at" db:"submitted_at"` // UTC
}

// File is an attachment sent inline, base64 encoded.
type File struct {
	Name        string `json:"name" validate:"required,max=200"`
	ContentType string `json:"content_type" validate:"omitempty,max=100"`
	Data        string `json:"data" validate:"required,base64"`
}

// NewSubmission is a student's answer to an assignment: some text, a file, or both.
type NewSubmission struct {
	Content string `json:"content" validate:"required_without=File,max=20000"`
	File    *File  `json:"file" validate:"omitempty"`
}

func (ns *NewSubmission) Clean() {
	ns.Content = core.CleanString(ns.Content)
}
