package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tasklight/tasklight/internal/model"
	"github.com/tasklight/tasklight/internal/repository"
	"github.com/tasklight/tasklight/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials    = errors.New("invalid username/email or password")
	ErrMissingSecurityAnswer = errors.New("a security question and answer are required")
	ErrPasswordRequired      = errors.New("password is required")
)

const sessionCookieName = "session_token"

// RegisterInput carries the registration form. Phone is the only
// optional field; the security question/answer pair must be complete.
type RegisterInput struct {
	Username         string
	FullName         string
	Phone            string
	Email            string
	Password         string
	SecurityQuestion string
	SecurityAnswer   string
}

type AuthService struct {
	userRepository repository.UserRepository
	secretKey      string
	isProduction   bool
	sessionExpiry  time.Duration
}

func NewAuthService(userRepository repository.UserRepository, secretKey string, isProduction bool, sessionExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		secretKey:      secretKey,
		isProduction:   isProduction,
		sessionExpiry:  sessionExpiry,
	}
}

// Register creates a new account. Password and security answer are
// stored only as bcrypt hashes.
func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)

	err := validation.ValidateUsername(input.Username)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateFullName(input.FullName)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateEmail(input.Email)
	if err != nil {
		return nil, err
	}
	err = validation.ValidatePhone(input.Phone)
	if err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}
	if input.SecurityQuestion == "" || input.SecurityAnswer == "" {
		return nil, ErrMissingSecurityAnswer
	}

	passwordHash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	answerHash, err := s.HashPassword(input.SecurityAnswer)
	if err != nil {
		return nil, fmt.Errorf("failed to hash security answer: %w", err)
	}

	var phone *string
	if input.Phone != "" {
		phone = &input.Phone
	}

	user := &model.User{
		Username:           input.Username,
		FullName:           input.FullName,
		Phone:              phone,
		Email:              input.Email,
		PasswordHash:       passwordHash,
		ProfileImage:       model.DefaultProfileImage,
		ImageVersion:       time.Now().Unix(),
		SecurityQuestion:   &input.SecurityQuestion,
		SecurityAnswerHash: &answerHash,
		CreatedAt:          time.Now(),
	}

	err = s.userRepository.Create(user)
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies the identifier (username or email) and password.
func (s *AuthService) Login(identifier, password string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)

	user, err := s.userRepository.ByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateSession issues a signed token bound to the user id.
func (s *AuthService) GenerateSession(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.sessionExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifySession validates the session token and returns the user id.
func (s *AuthService) VerifySession(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid session token")
	}

	// JSON numbers decode as float64
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid session claims")
	}

	return int64(id), nil
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(s.sessionExpiry),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionCookie extracts the raw session token from a request, if any.
func (s *AuthService) SessionCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
