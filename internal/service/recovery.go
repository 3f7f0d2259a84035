package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tasklight/tasklight/internal/model"
	"github.com/tasklight/tasklight/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrWrongAnswer      = errors.New("incorrect security answer")
	ErrRecoveryDisabled = errors.New("no security question is set for this account")
)

// RecoveryService implements the security-question password reset flow:
// identify the account, verify the stored answer, set a new password.
//
// The flow carries no expiry and no single-use token; knowing a numeric
// user id is enough to reach the verification step. That matches the
// behavior this service replaces and is a documented weakness, not an
// oversight.
type RecoveryService struct {
	userRepository repository.UserRepository
	authService    *AuthService
}

func NewRecoveryService(userRepository repository.UserRepository, authService *AuthService) *RecoveryService {
	return &RecoveryService{
		userRepository: userRepository,
		authService:    authService,
	}
}

// Identify looks up the account by username or email and returns the
// user whose security question should be asked.
func (s *RecoveryService) Identify(identifier string) (*model.User, error) {
	user, err := s.userRepository.ByIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Question returns the stored security question for the user.
func (s *RecoveryService) Question(userID int64) (string, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return "", err
	}

	if user.SecurityQuestion == nil || !user.HasSecurityAnswer() {
		return "", ErrRecoveryDisabled
	}

	return *user.SecurityQuestion, nil
}

// VerifyAnswer compares the submitted answer against the stored hash.
// A mismatch leaves the flow where it is so the user can retry.
func (s *RecoveryService) VerifyAnswer(userID int64, answer string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return err
	}

	if !user.HasSecurityAnswer() {
		return ErrRecoveryDisabled
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.SecurityAnswerHash), []byte(answer))
	if err != nil {
		return ErrWrongAnswer
	}

	return nil
}

// ResetPassword hashes and persists the new password. No strength
// policy is enforced beyond presence.
func (s *RecoveryService) ResetPassword(userID int64, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}

	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return err
	}

	passwordHash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepository.UpdatePassword(user.ID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password reset via security question", "user_id", user.ID)
	return nil
}
