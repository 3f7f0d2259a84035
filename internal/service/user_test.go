package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tasklight/tasklight/internal/model"
	"github.com/tasklight/tasklight/internal/repository"
	"github.com/tasklight/tasklight/internal/storage"
)

func newTestUserService(t *testing.T, userRepo repository.UserRepository) (*UserService, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return NewUserService(userRepo, store), dir
}

func TestUpdateProfile(t *testing.T) {
	conn := newTestDB(t)
	auth, userRepo := newTestAuth(t, conn)
	users, _ := newTestUserService(t, userRepo)

	alice := registerTestUser(t, auth, "alice")
	registerTestUser(t, auth, "bob")

	t.Run("rename", func(t *testing.T) {
		name := "alice2"
		updated, err := users.UpdateProfile(alice.ID, UpdateProfileInput{Username: &name})
		if err != nil {
			t.Fatalf("UpdateProfile: %v", err)
		}
		if updated.Username != "alice2" {
			t.Errorf("Username = %q, want alice2", updated.Username)
		}
	})

	t.Run("rename to taken username", func(t *testing.T) {
		name := "bob"
		_, err := users.UpdateProfile(alice.ID, UpdateProfileInput{Username: &name})
		if !errors.Is(err, repository.ErrDuplicateUsername) {
			t.Errorf("error = %v, want ErrDuplicateUsername", err)
		}
	})

	t.Run("set and clear phone", func(t *testing.T) {
		phone := "+1 555 0100"
		updated, err := users.UpdateProfile(alice.ID, UpdateProfileInput{Phone: &phone})
		if err != nil {
			t.Fatalf("UpdateProfile: %v", err)
		}
		if updated.Phone == nil || *updated.Phone != phone {
			t.Fatalf("Phone = %v, want %q", updated.Phone, phone)
		}

		empty := ""
		updated, err = users.UpdateProfile(alice.ID, UpdateProfileInput{Phone: &empty})
		if err != nil {
			t.Fatalf("UpdateProfile: %v", err)
		}
		if updated.Phone != nil {
			t.Errorf("Phone = %q, want cleared", *updated.Phone)
		}
	})
}

func TestRemovePhoto(t *testing.T) {
	conn := newTestDB(t)
	auth, userRepo := newTestAuth(t, conn)
	users, dir := newTestUserService(t, userRepo)

	alice := registerTestUser(t, auth, "alice")

	if _, err := users.RemovePhoto(alice.ID); !errors.Is(err, ErrNoPhotoToRemove) {
		t.Errorf("RemovePhoto with default image error = %v, want ErrNoPhotoToRemove", err)
	}

	// Give alice a custom avatar on disk and in the database.
	avatar := filepath.Join(dir, "custom.jpg")
	if err := os.WriteFile(avatar, []byte("jpeg bytes"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	alice.ProfileImage = "custom.jpg"
	if err := userRepo.Update(alice); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated, err := users.RemovePhoto(alice.ID)
	if err != nil {
		t.Fatalf("RemovePhoto: %v", err)
	}
	if !updated.HasDefaultImage() {
		t.Errorf("ProfileImage = %q, want %q", updated.ProfileImage, model.DefaultProfileImage)
	}
	if _, err := os.Stat(avatar); !os.IsNotExist(err) {
		t.Error("custom avatar file still exists")
	}
}

func TestDeleteAccount(t *testing.T) {
	conn := newTestDB(t)
	auth, userRepo := newTestAuth(t, conn)
	users, dir := newTestUserService(t, userRepo)
	taskRepo := repository.NewTaskRepository(conn)
	tasks := NewTaskService(taskRepo)

	alice := registerTestUser(t, auth, "alice")
	bob := registerTestUser(t, auth, "bob")

	for _, content := range []string{"one", "two"} {
		if _, err := tasks.Create(alice.ID, content, ""); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := tasks.Create(bob.ID, "bobs", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	avatar := filepath.Join(dir, "alice.jpg")
	if err := os.WriteFile(avatar, []byte("jpeg bytes"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	alice.ProfileImage = "alice.jpg"
	if err := userRepo.Update(alice); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := users.DeleteAccount(alice.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if _, err := userRepo.ByID(alice.ID); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("ByID after delete error = %v, want ErrUserNotFound", err)
	}
	count, err := taskRepo.CountByUser(alice.ID)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if count != 0 {
		t.Errorf("alice still has %d tasks", count)
	}
	if _, err := os.Stat(avatar); !os.IsNotExist(err) {
		t.Error("avatar file still exists")
	}

	// Bob is untouched.
	if _, err := userRepo.ByID(bob.ID); err != nil {
		t.Errorf("bob disappeared: %v", err)
	}
	count, err = taskRepo.CountByUser(bob.ID)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if count != 1 {
		t.Errorf("bob has %d tasks, want 1", count)
	}
}
