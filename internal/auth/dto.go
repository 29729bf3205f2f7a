package auth

import (
	"time"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

const (
	msgFillAllFields      = "Please fill all fields."
	msgInvalidEmail       = "Please enter a valid email address."
	msgPasswordsMismatch  = "Passwords do not match."
	msgInvalidCredentials = "Invalid email or password."
	msgEmailTaken         = "Email already exists. Please use a different email."
	msgAdminExists        = "Admin account already exists!"
	msgInvalidSecret      = "Invalid secret key!"
	msgSessionRequired    = "Please login to continue."

	minPasswordLen      = 6
	minAdminPasswordLen = 8
)

// RegisterInput is the registration form.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	ProfileImage    string
}

// BootstrapInput is the one-time admin setup form.
type BootstrapInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	SecretKey       string
}

// SignInResult carries the signed session token for the cookie.
type SignInResult struct {
	Account   *models.Account
	Token     string
	ExpiresAt time.Time
}
