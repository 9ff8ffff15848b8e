package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/inkwell/internal/apperr"
)

type bookInput struct {
	Title string `json:"title" validate:"required,max=10"`
	Year  int    `json:"publication_year" validate:"notfuture"`
}

type eventInput struct {
	At time.Time `json:"at" validate:"notfuture"`
}

func TestNotFuture(t *testing.T) {
	Now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { Now = time.Now })

	assert.NoError(t, Struct(bookInput{Title: "ok", Year: 2024}))
	err := Struct(bookInput{Title: "ok", Year: 2025})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "publication_year: must not be in the future")

	assert.NoError(t, Struct(eventInput{At: Now().Add(-time.Hour)}))
	assert.ErrorIs(t, Struct(eventInput{At: Now().Add(time.Hour)}), apperr.ErrValidation)
}

func TestStructMessages(t *testing.T) {
	err := Struct(bookInput{Title: "", Year: 1900})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "title: is required")

	err = Struct(bookInput{Title: "much too long title", Year: 1900})
	assert.Contains(t, err.Error(), "title: must be at most 10 characters")
}
