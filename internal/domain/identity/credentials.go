package identity

import (
	"regexp"
	"strings"

	"github.com/ecofoods/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost for new hashes
var PasswordCost = 12

const (
	minPasswordLength = 6
	maxPasswordLength = 72
	maxEmailLength    = 200
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Role distinguishes the two kinds of principals that can log in
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSupplier Role = "supplier"
)

// Credentials is an email plus bcrypt password hash
type Credentials struct {
	Email        string
	PasswordHash string
}

// NewCredentials validates the email and hashes the password
func NewCredentials(email, password string) (Credentials, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return Credentials{}, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Email: email, PasswordHash: hash}, nil
}

// Verify reports whether password matches the stored hash
func (c Credentials) Verify(password string) bool {
	if c.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

// NormalizeEmail lower-cases and validates an email address
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if len(email) > maxEmailLength {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return email, nil
}

// HashPassword validates and hashes a plaintext password
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	if len(password) > maxPasswordLength {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
