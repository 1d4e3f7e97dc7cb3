package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains input for login
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterAdminInput contains input for admin registration
type RegisterAdminInput struct {
	Name     string `json:"name" binding:"max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LogoutInput identifies the token to revoke
type LogoutInput struct {
	TokenJTI string
	// TTL is the remaining lifetime of the token
	TTL time.Duration
}

// UserInfo is the public view of the logged-in principal
type UserInfo struct {
	ID    uuid.UUID `json:"id"`
	Role  string    `json:"role"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	TokenType string    `json:"tokenType"`
	User      UserInfo  `json:"user"`
}
