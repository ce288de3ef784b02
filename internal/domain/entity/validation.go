package entity

import (
	"regexp"
	"unicode/utf8"

	domainerrors "userhub/internal/domain/errors"
)

const (
	// MinUsernameLength is the minimum number of characters in a username.
	MinUsernameLength = 3
	// MinPasswordLength is the minimum number of characters in a password.
	MinPasswordLength = 6
)

// Validation rule codes reported by ValidationError.Rule.
const (
	RuleUsernameLength  = "USERNAME_TOO_SHORT"
	RuleEmailFormat     = "EMAIL_INVALID"
	RulePasswordLength  = "PASSWORD_TOO_SHORT"
	RuleNewPassword     = "NEW_PASSWORD_TOO_SHORT"
	RuleProfileEmpty    = "PROFILE_EMPTY"
	RuleRequiredFields  = "REQUIRED_FIELDS_MISSING"
	RuleMalformedBody   = "MALFORMED_BODY"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail reports whether email has the local@domain.tld shape accepted at registration.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateRegistration checks the registration rules in order and returns the first violation.
func ValidateRegistration(username, email, password string) error {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return domainerrors.NewValidationError(RuleUsernameLength, "Username must be at least 3 characters long")
	}
	if !IsValidEmail(email) {
		return domainerrors.NewValidationError(RuleEmailFormat, "Invalid email format")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return domainerrors.NewValidationError(RulePasswordLength, "Password must be at least 6 characters long")
	}

	return nil
}

// ValidateNewPassword checks the length rule for a replacement password.
func ValidateNewPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return domainerrors.NewValidationError(RuleNewPassword, "New password must be at least 6 characters long")
	}

	return nil
}

// ValidateProfileUpdate rejects an update that supplies no attribute.
func ValidateProfileUpdate(update ProfileUpdate) error {
	if update.IsEmpty() {
		return domainerrors.NewValidationError(RuleProfileEmpty, "No profile data provided")
	}

	return nil
}
