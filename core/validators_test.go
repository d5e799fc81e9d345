package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatorsInput struct {
	Date    string `json:"date" validate:"required,isodate"`
	Content string `json:"content" validate:"required_without=FileURL"`
	FileURL string `json:"file_url"`
}

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)

	err := validate.Struct(validatorsInput{Date: "14/10/2026"})
	require.Error(t, err)

	got := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		got[fe.Field()] = fe.Translate(translator)
	}
	assert.Equal(t, map[string]string{
		"date":    "date must be a date formatted as YYYY-MM-DD",
		"content": "content is required",
	}, got)

	assert.NoError(t, validate.Struct(validatorsInput{Date: "2026-10-14", FileURL: "memory://x"}))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Grade 6", CleanString("  Grade 6\n"))
	assert.Equal(t, "amani@test.cd", CleanString(" Amani@Test.CD ", true))
	assert.Equal(t, "", CleanString("   "))
}
