package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tasklight/tasklight/internal/model"
	"github.com/tasklight/tasklight/internal/repository"
)

var (
	ErrEmptyContent   = errors.New("task content must not be empty")
	ErrContentTooLong = errors.New("task content is too long (max 300 characters)")
	ErrInvalidDueDate = errors.New("invalid date format, use YYYY-MM-DD")
	ErrTaskForbidden  = errors.New("task belongs to another user")
)

// dueDateLayout is the expected due date form input format.
const dueDateLayout = "2006-01-02"

type TaskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// Tasks returns the user's tasks, newest first.
func (s *TaskService) Tasks(userID int64) ([]*model.Task, error) {
	return s.repo.Tasks(userID)
}

// Create persists a task owned by the user. dueDate may be empty.
func (s *TaskService) Create(userID int64, content, dueDate string) (*model.Task, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > model.MaxTaskContentLength {
		return nil, ErrContentTooLong
	}

	var due *time.Time
	if dueDate != "" {
		parsed, err := time.Parse(dueDateLayout, dueDate)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		due = &parsed
	}

	task := &model.Task{
		Content:   content,
		Completed: false,
		DueDate:   due,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	err := s.repo.Create(task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// byOwner loads the task and enforces that userID owns it. An unknown
// id reports not found; a mismatched owner reports forbidden.
func (s *TaskService) byOwner(userID, taskID int64) (*model.Task, error) {
	task, err := s.repo.ByID(taskID)
	if err != nil {
		return nil, err
	}

	if task.UserID != userID {
		return nil, ErrTaskForbidden
	}

	return task, nil
}

// Complete marks the task as done. Completing an already-completed task
// is a no-op success.
func (s *TaskService) Complete(userID, taskID int64) (*model.Task, error) {
	task, err := s.byOwner(userID, taskID)
	if err != nil {
		return nil, err
	}

	if task.Completed {
		return task, nil
	}

	err = s.repo.SetCompleted(task.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	task.Completed = true
	slog.Debug("task completed", "task_id", task.ID, "user_id", userID)
	return task, nil
}

// Delete removes the task after the ownership check.
func (s *TaskService) Delete(userID, taskID int64) error {
	task, err := s.byOwner(userID, taskID)
	if err != nil {
		return err
	}

	err = s.repo.Delete(task.ID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
