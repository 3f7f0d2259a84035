package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/tasklight/tasklight/internal/repository"
)

func TestTaskCreateValidation(t *testing.T) {
	conn := newTestDB(t)
	auth, _ := newTestAuth(t, conn)
	tasks := NewTaskService(repository.NewTaskRepository(conn))

	alice := registerTestUser(t, auth, "alice")

	tests := []struct {
		name    string
		content string
		dueDate string
		wantErr error
	}{
		{"plain task", "buy milk", "", nil},
		{"with due date", "file taxes", "2026-04-15", nil},
		{"empty content", "   ", "", ErrEmptyContent},
		{"too long", strings.Repeat("x", 301), "", ErrContentTooLong},
		{"bad date", "call mom", "15/04/2026", ErrInvalidDueDate},
		{"nonsense date", "call mom", "soon", ErrInvalidDueDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := tasks.Create(alice.ID, tt.content, tt.dueDate)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if task.ID == 0 {
				t.Error("expected assigned task id")
			}
			if tt.dueDate != "" && task.DueDate == nil {
				t.Error("due date was dropped")
			}
			if tt.dueDate == "" && task.DueDate != nil {
				t.Error("unexpected due date")
			}
		})
	}
}

func TestTaskListNewestFirst(t *testing.T) {
	conn := newTestDB(t)
	auth, _ := newTestAuth(t, conn)
	tasks := NewTaskService(repository.NewTaskRepository(conn))

	alice := registerTestUser(t, auth, "alice")
	bob := registerTestUser(t, auth, "bob")

	for _, content := range []string{"first", "second", "third"} {
		if _, err := tasks.Create(alice.ID, content, ""); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := tasks.Create(bob.ID, "bobs task", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := tasks.Tasks(alice.ID)
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(tasks) = %d, want 3", len(list))
	}
	if list[0].Content != "third" || list[2].Content != "first" {
		t.Errorf("unexpected order: %q ... %q", list[0].Content, list[2].Content)
	}
	for _, task := range list {
		if task.UserID != alice.ID {
			t.Errorf("task %d owned by %d, want %d", task.ID, task.UserID, alice.ID)
		}
	}
}

func TestTaskOwnership(t *testing.T) {
	conn := newTestDB(t)
	auth, _ := newTestAuth(t, conn)
	tasks := NewTaskService(repository.NewTaskRepository(conn))

	alice := registerTestUser(t, auth, "alice")
	bob := registerTestUser(t, auth, "bob")

	task, err := tasks.Create(alice.ID, "private", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := tasks.Complete(bob.ID, task.ID); !errors.Is(err, ErrTaskForbidden) {
		t.Errorf("Complete by non-owner error = %v, want ErrTaskForbidden", err)
	}
	if err := tasks.Delete(bob.ID, task.ID); !errors.Is(err, ErrTaskForbidden) {
		t.Errorf("Delete by non-owner error = %v, want ErrTaskForbidden", err)
	}

	if _, err := tasks.Complete(alice.ID, 99999); !errors.Is(err, repository.ErrTaskNotFound) {
		t.Errorf("Complete unknown id error = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskCompleteIdempotent(t *testing.T) {
	conn := newTestDB(t)
	auth, _ := newTestAuth(t, conn)
	tasks := NewTaskService(repository.NewTaskRepository(conn))

	alice := registerTestUser(t, auth, "alice")

	task, err := tasks.Create(alice.ID, "one and done", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := tasks.Complete(alice.ID, task.ID)
		if err != nil {
			t.Fatalf("Complete (round %d): %v", i+1, err)
		}
		if !got.Completed {
			t.Fatalf("task not completed after round %d", i+1)
		}
	}
}

func TestTaskDelete(t *testing.T) {
	conn := newTestDB(t)
	auth, _ := newTestAuth(t, conn)
	tasks := NewTaskService(repository.NewTaskRepository(conn))

	alice := registerTestUser(t, auth, "alice")

	task, err := tasks.Create(alice.ID, "temporary", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := tasks.Delete(alice.ID, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := tasks.Delete(alice.ID, task.ID); !errors.Is(err, repository.ErrTaskNotFound) {
		t.Errorf("second Delete error = %v, want ErrTaskNotFound", err)
	}
}
