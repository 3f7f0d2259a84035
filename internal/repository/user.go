package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tasklight/tasklight/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id int64) (*model.User, error)
	ByIdentifier(identifier string) (*model.User, error)
	ByUsername(username string) (*model.User, error)
	Update(user *model.User) error
	UpdatePassword(id int64, passwordHash string) error
	DeleteWithTasks(id int64) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (username, fullname, phone, email, password_hash, profile_image, image_version, security_question, security_answer_hash, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`

	err := r.db.QueryRow(query,
		user.Username,
		user.FullName,
		user.Phone,
		user.Email,
		user.PasswordHash,
		user.ProfileImage,
		user.ImageVersion,
		user.SecurityQuestion,
		user.SecurityAnswerHash,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return classifyUniqueViolation(err)
	}

	return nil
}

// classifyUniqueViolation maps unique constraint errors to the duplicate
// sentinel for the violated column (works for both SQLite and PostgreSQL).
func classifyUniqueViolation(err error) error {
	errStr := err.Error()
	if !strings.Contains(errStr, "UNIQUE constraint failed") && !strings.Contains(errStr, "duplicate key value") {
		return err
	}
	if strings.Contains(errStr, "email") {
		return ErrDuplicateEmail
	}
	if strings.Contains(errStr, "username") {
		return ErrDuplicateUsername
	}
	return err
}

func (r *userRepository) ByID(id int64) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

// ByIdentifier matches the identifier against username or email. Emails
// are stored lowercased, so the email arm lowercases the identifier to
// match however the address was typed. Both columns are independently
// unique, but the query still orders by id so a match is deterministic.
func (r *userRepository) ByIdentifier(identifier string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE username = $1 OR email = $2 ORDER BY id LIMIT 1`

	err := r.db.Get(user, query, identifier, strings.ToLower(identifier))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByUsername(username string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE username = $1`

	err := r.db.Get(user, query, username)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) Update(user *model.User) error {
	query := `UPDATE users
	          SET username = $1, fullname = $2, phone = $3, profile_image = $4, image_version = $5
	          WHERE id = $6`

	result, err := r.db.Exec(query,
		user.Username,
		user.FullName,
		user.Phone,
		user.ProfileImage,
		user.ImageVersion,
		user.ID,
	)
	if err != nil {
		return classifyUniqueViolation(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) UpdatePassword(id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`

	result, err := r.db.Exec(query, passwordHash, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteWithTasks removes the user and every task they own in a single
// transaction so a failure never leaves partial state behind.
func (r *userRepository) DeleteWithTasks(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`DELETE FROM tasks WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return tx.Commit()
}
