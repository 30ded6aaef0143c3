package forms

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mkrail/go-todo-web/internal/models"
)

type TaskForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Priority    int    `form:"priority"`
	DueDate     string `form:"due_date"`
}

// Validate applies the task rules: trimmed title of at least three
// characters, priority inside the choice set, due date parseable and
// not before today. It returns the parsed due date (nil when the field
// was left empty) alongside the collected field errors.
func (f *TaskForm) Validate(today time.Time) (*time.Time, Errors) {
	errs := Errors{}

	f.Title = strings.TrimSpace(f.Title)
	if utf8.RuneCountInString(f.Title) < 3 {
		errs.Add("title", "Title must be at least 3 characters long.")
	}

	if f.Priority < models.PriorityMin || f.Priority > models.PriorityMax {
		errs.Add("priority", "Select a valid priority.")
	}

	var due *time.Time
	if f.DueDate != "" {
		parsed, err := time.Parse(DateLayout, f.DueDate)
		if err != nil {
			errs.Add("due_date", "Enter a valid date.")
		} else if parsed.Before(models.DateOf(today)) {
			errs.Add("due_date", "Due date cannot be in the past.")
		} else {
			due = &parsed
		}
	}

	return due, errs
}
