package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tasklight/tasklight/internal/db"
	"github.com/tasklight/tasklight/internal/model"
	"github.com/tasklight/tasklight/internal/repository"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	conn, err := db.Init("sqlite", dsn)
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.RunMigrations(conn.DB, "sqlite"); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	return conn
}

func newTestAuth(t *testing.T, conn *sqlx.DB) (*AuthService, repository.UserRepository) {
	t.Helper()
	userRepo := repository.NewUserRepository(conn)
	return NewAuthService(userRepo, "test-secret", false, time.Hour), userRepo
}

func registerTestUser(t *testing.T, auth *AuthService, username string) *model.User {
	t.Helper()

	user, err := auth.Register(RegisterInput{
		Username:         username,
		FullName:         "Test " + username,
		Email:            username + "@example.com",
		Password:         "hunter2",
		SecurityQuestion: "What city were you born in?",
		SecurityAnswer:   "springfield",
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return user
}
