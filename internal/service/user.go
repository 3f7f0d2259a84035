package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasklight/tasklight/internal/model"
	"github.com/tasklight/tasklight/internal/repository"
	"github.com/tasklight/tasklight/internal/storage"
	"github.com/tasklight/tasklight/internal/validation"
)

var (
	ErrNoPhotoToRemove = errors.New("no custom profile photo to remove")
)

// UpdateProfileInput carries the profile form. Nil pointers mean the
// field was absent from the request.
type UpdateProfileInput struct {
	Username *string
	FullName *string
	Phone    *string
	Picture  *multipart.FileHeader
}

type UserService struct {
	userRepository repository.UserRepository
	storage        storage.Storage
}

func NewUserService(userRepository repository.UserRepository, storage storage.Storage) *UserService {
	return &UserService{
		userRepository: userRepository,
		storage:        storage,
	}
}

func (s *UserService) ByID(id int64) (*model.User, error) {
	return s.userRepository.ByID(id)
}

// AvatarURL returns the cache-busted URL for the user's profile image.
func (s *UserService) AvatarURL(user *model.User) string {
	return fmt.Sprintf("%s?v=%d", s.storage.URL(user.ProfileImage), user.ImageVersion)
}

// UpdateProfile applies the submitted changes. A username change is
// re-checked for uniqueness; a new picture replaces (and deletes) the
// previous non-default file and bumps the image version stamp.
func (s *UserService) UpdateProfile(userID int64, input UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username != user.Username {
			err = validation.ValidateUsername(username)
			if err != nil {
				return nil, err
			}

			existing, err := s.userRepository.ByUsername(username)
			if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			if existing != nil && existing.ID != user.ID {
				return nil, repository.ErrDuplicateUsername
			}

			user.Username = username
		}
	}

	if input.FullName != nil {
		fullname := strings.TrimSpace(*input.FullName)
		err = validation.ValidateFullName(fullname)
		if err != nil {
			return nil, err
		}
		user.FullName = fullname
	}

	if input.Phone != nil {
		err = validation.ValidatePhone(*input.Phone)
		if err != nil {
			return nil, err
		}
		if *input.Phone == "" {
			user.Phone = nil
		} else {
			user.Phone = input.Phone
		}
	}

	if input.Picture != nil {
		err = validation.ValidateFile(input.Picture, validation.ImageConstraints)
		if err != nil {
			return nil, err
		}

		filename, err := s.savePicture(input.Picture)
		if err != nil {
			return nil, err
		}

		s.deletePicture(user.ProfileImage)
		user.ProfileImage = filename
		user.ImageVersion = time.Now().Unix()
	}

	err = s.userRepository.Update(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// RemovePhoto deletes the current non-default avatar file and resets
// the user to the default sentinel image.
func (s *UserService) RemovePhoto(userID int64) (*model.User, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	if user.HasDefaultImage() {
		return nil, ErrNoPhotoToRemove
	}

	s.deletePicture(user.ProfileImage)
	user.ProfileImage = model.DefaultProfileImage
	user.ImageVersion = time.Now().Unix()

	err = s.userRepository.Update(user)
	if err != nil {
		return nil, err
	}

	slog.Info("profile photo removed", "user_id", user.ID)
	return user, nil
}

// DeleteAccount removes the user and all owned tasks in one transaction,
// then deletes any non-default avatar file. The database delete must
// succeed before the file is touched so a storage failure never leaves
// a half-deleted account.
func (s *UserService) DeleteAccount(userID int64) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return err
	}

	err = s.userRepository.DeleteWithTasks(user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.deletePicture(user.ProfileImage)

	slog.Info("account deleted", "user_id", user.ID, "username", user.Username)
	return nil
}

// savePicture stores the upload under a random filename so original
// names are never exposed and collisions cannot occur.
func (s *UserService) savePicture(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.New().String() + ext

	err = s.storage.Save(filename, file)
	if err != nil {
		return "", fmt.Errorf("failed to save picture: %w", err)
	}

	return filename, nil
}

// deletePicture removes an avatar file unless it is the shared default.
// Failures are logged, not propagated: an orphaned file is preferable
// to failing the surrounding profile mutation.
func (s *UserService) deletePicture(filename string) {
	if filename == model.DefaultProfileImage {
		return
	}

	err := s.storage.Delete(filename)
	if err != nil {
		slog.Warn("failed to delete avatar file", "filename", filename, "error", err)
	}
}
