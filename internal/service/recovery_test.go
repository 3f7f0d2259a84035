package service

import (
	"errors"
	"testing"

	"github.com/tasklight/tasklight/internal/repository"
)

func TestRecoveryFlow(t *testing.T) {
	conn := newTestDB(t)
	auth, userRepo := newTestAuth(t, conn)
	recovery := NewRecoveryService(userRepo, auth)

	alice := registerTestUser(t, auth, "alice")

	found, err := recovery.Identify("alice@example.com")
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if found.ID != alice.ID {
		t.Fatalf("Identify id = %d, want %d", found.ID, alice.ID)
	}

	question, err := recovery.Question(alice.ID)
	if err != nil {
		t.Fatalf("Question: %v", err)
	}
	if question != "What city were you born in?" {
		t.Errorf("Question = %q", question)
	}

	if err := recovery.VerifyAnswer(alice.ID, "shelbyville"); !errors.Is(err, ErrWrongAnswer) {
		t.Errorf("wrong answer error = %v, want ErrWrongAnswer", err)
	}
	if err := recovery.VerifyAnswer(alice.ID, "springfield"); err != nil {
		t.Fatalf("VerifyAnswer: %v", err)
	}

	if err := recovery.ResetPassword(alice.ID, ""); !errors.Is(err, ErrPasswordRequired) {
		t.Errorf("empty password error = %v, want ErrPasswordRequired", err)
	}
	if err := recovery.ResetPassword(alice.ID, "newpass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := auth.Login("alice", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("old password still works after reset")
	}
	if _, err := auth.Login("alice", "newpass"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestRecoveryIdentifyEmailMixedCase(t *testing.T) {
	conn := newTestDB(t)
	auth, userRepo := newTestAuth(t, conn)
	recovery := NewRecoveryService(userRepo, auth)

	alice := registerTestUser(t, auth, "alice")

	found, err := recovery.Identify("Alice@Example.com")
	if err != nil {
		t.Fatalf("Identify with mixed-case email: %v", err)
	}
	if found.ID != alice.ID {
		t.Errorf("Identify id = %d, want %d", found.ID, alice.ID)
	}
}

func TestRecoveryUnknownUser(t *testing.T) {
	conn := newTestDB(t)
	auth, userRepo := newTestAuth(t, conn)
	recovery := NewRecoveryService(userRepo, auth)

	if _, err := recovery.Identify("nobody"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Identify error = %v, want ErrUserNotFound", err)
	}
	if _, err := recovery.Question(42); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Question error = %v, want ErrUserNotFound", err)
	}
	if err := recovery.VerifyAnswer(42, "x"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("VerifyAnswer error = %v, want ErrUserNotFound", err)
	}
}
