package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.Local)

func TestTaskFormTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"two characters", "ab", true},
		{"three characters", "abc", false},
		{"whitespace padding trimmed", "  ab  ", true},
		{"trimmed still long enough", "  abc  ", false},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := TaskForm{Title: tt.title, Priority: 3}
			_, errs := form.Validate(today)
			if tt.wantErr {
				assert.Contains(t, errs, "title")
			} else {
				assert.NotContains(t, errs, "title")
			}
		})
	}
}

func TestTaskFormDueDate(t *testing.T) {
	t.Run("yesterday rejected", func(t *testing.T) {
		form := TaskForm{Title: "walk dog", Priority: 3, DueDate: today.AddDate(0, 0, -1).Format(DateLayout)}
		_, errs := form.Validate(today)
		assert.Equal(t, "Due date cannot be in the past.", errs["due_date"])
	})

	t.Run("today accepted", func(t *testing.T) {
		form := TaskForm{Title: "walk dog", Priority: 3, DueDate: today.Format(DateLayout)}
		due, errs := form.Validate(today)
		assert.True(t, errs.Empty())
		if assert.NotNil(t, due) {
			assert.Equal(t, today.Format(DateLayout), due.Format(DateLayout))
		}
	})

	t.Run("empty is allowed", func(t *testing.T) {
		form := TaskForm{Title: "walk dog", Priority: 3}
		due, errs := form.Validate(today)
		assert.True(t, errs.Empty())
		assert.Nil(t, due)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		form := TaskForm{Title: "walk dog", Priority: 3, DueDate: "not-a-date"}
		_, errs := form.Validate(today)
		assert.Equal(t, "Enter a valid date.", errs["due_date"])
	})
}

func TestTaskFormPriority(t *testing.T) {
	for _, p := range []int{1, 2, 3, 4, 5} {
		form := TaskForm{Title: "walk dog", Priority: p}
		_, errs := form.Validate(today)
		assert.NotContains(t, errs, "priority")
	}

	for _, p := range []int{0, 6, -1, 100} {
		form := TaskForm{Title: "walk dog", Priority: p}
		_, errs := form.Validate(today)
		assert.Contains(t, errs, "priority")
	}
}
