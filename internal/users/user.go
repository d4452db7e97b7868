// Package users implements registration, password login and the user directory
// consulted by bearer authentication.
package users

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. PasswordHash is nil for users provisioned
// through OIDC, who cannot log in with a password.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Credentials carries an email and password for registration or login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
