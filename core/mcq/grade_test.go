package mcq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/campus/core"
)

var gradeQuestions = []Question{
	{ID: "q1", Options: []string{"3", "4"}, CorrectOption: 1, Marks: 2},
	{ID: "q2", Options: []string{"Kinshasa", "Goma", "Bukavu"}, CorrectOption: 0, Marks: 1},
	{ID: "q3", Options: []string{"yes", "no"}, CorrectOption: 1, Marks: 0.5},
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name      string
		answers   map[string]int
		wantScore float64
	}{
		{"all correct", map[string]int{"q1": 1, "q2": 0, "q3": 1}, 3.5},
		{"all wrong", map[string]int{"q1": 0, "q2": 2, "q3": 0}, 0},
		{"partial", map[string]int{"q1": 1, "q2": 1}, 2},
		{"nothing answered", map[string]int{}, 0},
		{"unknown question ignored", map[string]int{"q9": 0, "q3": 1}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, total := Grade(gradeQuestions, tt.answers)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, 3.5, total)
		})
	}

	score, total := Grade(nil, map[string]int{"q1": 1})
	assert.Zero(t, score)
	assert.Zero(t, total)
}

func TestCheckAnswers(t *testing.T) {
	assert.NoError(t, checkAnswers(gradeQuestions, map[string]int{"q1": 1, "q2": 2}))

	err := checkAnswers(gradeQuestions, map[string]int{"q9": 0})
	assert.True(t, core.IsValidation(err))
	assert.Equal(t, "answers: unknown question q9", err.Error())

	err = checkAnswers(gradeQuestions, map[string]int{"q2": 3})
	assert.Equal(t, "answers: answer out of range for question q2", err.Error())

	err = checkAnswers(gradeQuestions, map[string]int{"q1": -1})
	assert.True(t, core.IsValidation(err))
}

func TestNewTest_Clean(t *testing.T) {
	nt := NewTest{Title: "  Quiz 1 ", Description: " Chapter 3\n"}
	nt.Clean()
	assert.Equal(t, "Quiz 1", nt.Title)
	assert.Equal(t, "Chapter 3", nt.Description)
	assert.Equal(t, 30, nt.DurationMinutes)

	nt = NewTest{DurationMinutes: 90}
	nt.Clean()
	assert.Equal(t, 90, nt.DurationMinutes)
}
