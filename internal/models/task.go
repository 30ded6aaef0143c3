package models

import "time"

const (
	PriorityMin     = 1
	PriorityMax     = 5
	PriorityDefault = 3
)

// PriorityLabels is keyed by the priority value and used by form
// and list templates to render the choice set.
var PriorityLabels = map[int]string{
	1: "Very Low",
	2: "Low",
	3: "Medium",
	4: "High",
	5: "Critical",
}

type Task struct {
	ID          int64
	UserID      string
	Title       string
	Description string
	Completed   bool
	Priority    int
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOverdue reports whether the task has a due date in the past
// and is still incomplete. The comparison is calendar-day based.
func (t *Task) IsOverdue(today time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return DateOf(*t.DueDate).Before(DateOf(today))
}

// DaysUntilDue returns the signed day difference between the due date
// and today. Negative means overdue, zero means due today. The second
// return value is false when the task has no due date.
func (t *Task) DaysUntilDue(today time.Time) (int, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	days := int(DateOf(*t.DueDate).Sub(DateOf(today)).Hours() / 24)
	return days, true
}

// DateOf truncates a timestamp to its calendar date at UTC midnight,
// so day arithmetic is immune to DST shifts.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
