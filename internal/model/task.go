package model

import (
	"time"
)

// MaxTaskContentLength bounds task content, matching the column width.
const MaxTaskContentLength = 300

type Task struct {
	ID        int64      `db:"id"`
	Content   string     `db:"content"`
	Completed bool       `db:"completed"`
	DueDate   *time.Time `db:"due_date"`
	UserID    int64      `db:"user_id"`
	CreatedAt time.Time  `db:"created_at"`
}

func (t *Task) HasDueDate() bool {
	return t.DueDate != nil
}

// Overdue reports whether the task is past its due date and still open.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && !t.Completed && t.DueDate.Before(now)
}
