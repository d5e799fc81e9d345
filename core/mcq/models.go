package mcq

import (
	"time"

	"github.com/trezcool/campus/core"
)

type Test struct {
	ID              string    `json:"id" db:"id"`
	ClassID         string    `json:"class_id" db:"class_id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	IsPublished     bool      `json:"is_published" db:"is_published"`
	CreatedBy       string    `json:"created_by" db:"created_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewTest contains information needed to create a Test.
type NewTest struct {
	ClassID         string `json:"class_id" validate:"required,uuid"`
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"max=5000"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0,lte=600"`
	// Draft keeps the test hidden from students.
	Draft bool `json:"draft"`
}

func (nt *NewTest) Clean() {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	if nt.DurationMinutes == 0 {
		nt.DurationMinutes = 30
	}
}

type Question struct {
	ID            string    `json:"id"`
	TestID        string    `json:"test_id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectOption int       `json:"correct_option"`
	Marks         float64   `json:"marks"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

// StudentQuestion is a Question as shown to a student taking the test.
type StudentQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Marks    float64  `json:"marks"`
}

type NewQuestion struct {
	Question      string   `json:"question" validate:"required,max=2000"`
	Options       []string `json:"options" validate:"required,min=2,max=10,dive,required,max=500"`
	CorrectOption int      `json:"correct_option" validate:"gte=0"`
	Marks         float64  `json:"marks" validate:"gte=0"`
}

// NewQuestions is a batch of questions added to a test.
type NewQuestions struct {
	Questions []NewQuestion `json:"questions" validate:"required,min=1,dive"`
}

// TestPaper is a test with its questions, answers stripped.
type TestPaper struct {
	Test
	Questions []StudentQuestion `json:"questions"`
	Submitted bool              `json:"submitted"`
}

type Submission struct {
	ID        string `json:"id"`
	TestID    string `json:"test_id"`
	StudentID string `json:"student_id"`
	// Answers maps question ids to the index of the chosen option.
	Answers     map[string]int `json:"answers"`
	Score       float64        `json:"score"`
	TotalMarks  float64        `json:"total_marks"`
	SubmittedAt time.Time      `json:"submitted_at"` // UTC
}

type NewSubmission struct {
	Answers map[string]int `json:"answers" validate:"required"`
}
