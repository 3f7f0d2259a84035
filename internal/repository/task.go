package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/tasklight/tasklight/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

type TaskRepository interface {
	Create(task *model.Task) error
	ByID(taskID int64) (*model.Task, error)
	Tasks(userID int64) ([]*model.Task, error)
	SetCompleted(taskID int64, completed bool) error
	Delete(taskID int64) error
	CountByUser(userID int64) (int, error)
}

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *model.Task) error {
	query := `INSERT INTO tasks (content, completed, due_date, user_id, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`

	return r.db.QueryRow(query,
		task.Content,
		task.Completed,
		task.DueDate,
		task.UserID,
		task.CreatedAt,
	).Scan(&task.ID)
}

// ByID fetches a task without scoping to an owner. Ownership is checked
// explicitly by the service against the stored user_id so a mismatch can
// be reported as forbidden rather than not found.
func (r *taskRepository) ByID(taskID int64) (*model.Task, error) {
	task := &model.Task{}
	query := `SELECT * FROM tasks WHERE id = $1`

	err := r.db.Get(task, query, taskID)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}

	return task, err
}

// Tasks returns the user's tasks newest-first by id.
func (r *taskRepository) Tasks(userID int64) ([]*model.Task, error) {
	var tasks []*model.Task
	query := `SELECT * FROM tasks WHERE user_id = $1 ORDER BY id DESC`

	err := r.db.Select(&tasks, query, userID)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) SetCompleted(taskID int64, completed bool) error {
	query := `UPDATE tasks SET completed = $1 WHERE id = $2`

	result, err := r.db.Exec(query, completed, taskID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *taskRepository) Delete(taskID int64) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.Exec(query, taskID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *taskRepository) CountByUser(userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tasks WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}
