package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestIsOverdue(t *testing.T) {
	today := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{
			name: "no due date",
			task: Task{},
			want: false,
		},
		{
			name: "due yesterday and incomplete",
			task: Task{DueDate: datePtr(today.AddDate(0, 0, -1))},
			want: true,
		},
		{
			name: "due yesterday but completed",
			task: Task{DueDate: datePtr(today.AddDate(0, 0, -1)), Completed: true},
			want: false,
		},
		{
			name: "due today",
			task: Task{DueDate: datePtr(today)},
			want: false,
		},
		{
			name: "due tomorrow",
			task: Task{DueDate: datePtr(today.AddDate(0, 0, 1))},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.IsOverdue(today))
		})
	}
}

func TestDaysUntilDue(t *testing.T) {
	today := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.Local)

	t.Run("no due date", func(t *testing.T) {
		task := Task{}
		_, ok := task.DaysUntilDue(today)
		assert.False(t, ok)
	})

	t.Run("three days ahead", func(t *testing.T) {
		task := Task{DueDate: datePtr(today.AddDate(0, 0, 3))}
		days, ok := task.DaysUntilDue(today)
		assert.True(t, ok)
		assert.Equal(t, 3, days)
	})

	t.Run("two days behind", func(t *testing.T) {
		task := Task{DueDate: datePtr(today.AddDate(0, 0, -2))}
		days, ok := task.DaysUntilDue(today)
		assert.True(t, ok)
		assert.Equal(t, -2, days)
	})

	t.Run("due today", func(t *testing.T) {
		task := Task{DueDate: datePtr(today)}
		days, ok := task.DaysUntilDue(today)
		assert.True(t, ok)
		assert.Equal(t, 0, days)
	})
}

func TestDaysUntilDueMatchesOffset(t *testing.T) {
	today := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)

	rapid.Check(t, func(t *rapid.T) {
		offset := rapid.IntRange(-1000, 1000).Draw(t, "offset")
		task := Task{DueDate: datePtr(today.AddDate(0, 0, offset))}

		days, ok := task.DaysUntilDue(today)
		assert.True(t, ok)
		assert.Equal(t, offset, days)
		assert.Equal(t, offset < 0, task.IsOverdue(today))
	})
}
