package utils

import (
	"context"
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/skillset-backend/internal/domain"
	"github.com/yungbote/skillset-backend/internal/normalization"
	"github.com/yungbote/skillset-backend/internal/repos"
	"github.com/yungbote/skillset-backend/internal/types"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateRegistration(ctx context.Context, userRepo repos.UserRepo, user *types.User) error {
	const op = "utils.ValidateRegistration"
	if user == nil {
		return domain.ValidationError(op, "no user given")
	}
	if user.Email == "" {
		return domain.ValidationError(op, "an email is required to register")
	}
	if !emailPattern.MatchString(user.Email) {
		return domain.ValidationError(op, "invalid email format")
	}
	if user.FirstName == "" {
		return domain.ValidationError(op, "a first name is required to register")
	}
	if user.LastName == "" {
		return domain.ValidationError(op, "a last name is required to register")
	}
	if err := validatePassword(user.Password); err != nil {
		return err
	}
	emailExists, err := userRepo.EmailExists(ctx, nil, user.Email)
	if err != nil {
		return domain.MapStoreError(op, err)
	}
	if emailExists {
		return domain.ConflictError(op, "email is already in use")
	}
	return nil
}

func ValidateLogin(email, password string) error {
	const op = "utils.ValidateLogin"
	if email == "" {
		return domain.ValidationError(op, "email is required to login")
	}
	if password == "" {
		return domain.ValidationError(op, "password is required to login")
	}
	return nil
}

func validatePassword(password string) error {
	const op = "utils.ValidateRegistration"
	if len(password) < 8 {
		return domain.ValidationError(op, "password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return domain.ValidationError(op, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		return domain.ValidationError(op, "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return domain.ValidationError(op, "password must contain at least one number")
	}
	return nil
}

func HashPassword(user *types.User) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Wrap(domain.CodeInternal, "utils.HashPassword", err)
	}
	user.Password = string(hashed)
	return nil
}

// NormalizeUserFields canonicalizes identity fields before validation.
// The password is left untouched.
func NormalizeUserFields(user *types.User) {
	user.Email = normalization.ParseInputString(user.Email)
	user.FirstName = normalization.ParseInputString(user.FirstName)
	user.LastName = normalization.ParseInputString(user.LastName)
}
