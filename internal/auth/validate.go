package auth

import (
	"fmt"
	"regexp"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func requireFilled(message string, values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, message)
		}
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return pkgerrors.New(pkgerrors.CodeValidation, msgInvalidEmail)
	}
	return nil
}

func validateNewPassword(password, confirm string, minLen int) error {
	if password != confirm {
		return pkgerrors.New(pkgerrors.CodeValidation, msgPasswordsMismatch)
	}
	if len(password) < minLen {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Password must be at least %d characters long.", minLen))
	}
	return nil
}
