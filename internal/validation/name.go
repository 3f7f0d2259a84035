package validation

import (
	"errors"
	"strings"
)

// ValidateUsername validates a login username
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)

	if trimmed == "" {
		return errors.New("username is required")
	}

	if len(trimmed) > 80 {
		return errors.New("username is too long (max 80 characters)")
	}

	if strings.ContainsAny(trimmed, " \t") {
		return errors.New("username must not contain spaces")
	}

	return nil
}

// ValidateFullName validates a display name
func ValidateFullName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("full name is required")
	}

	if len(trimmed) > 150 {
		return errors.New("full name is too long (max 150 characters)")
	}

	return nil
}

// ValidatePhone validates an optional phone number
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}

	if len(phone) > 20 {
		return errors.New("phone number is too long (max 20 characters)")
	}

	return nil
}
