package identity

import (
	"context"
	"regexp"
	"strings"

	"github.com/hotel/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// Operator is a hotel staff account that can sign in
type Operator struct {
	Username     string
	DisplayName  string
	Role         Role
	PasswordHash string
}

// NewOperator creates an operator from a stored bcrypt hash
func NewOperator(username, displayName string, role Role, passwordHash string) (*Operator, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.InvalidInput("Unknown role: " + string(role))
	}
	if passwordHash == "" {
		return nil, shared.InvalidInput("Operator " + username + " has no password hash")
	}
	return &Operator{
		Username:     username,
		DisplayName:  strings.TrimSpace(displayName),
		Role:         role,
		PasswordHash: passwordHash,
	}, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (o *Operator) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password)) == nil
}

// Actor returns the audit identity of the operator
func (o *Operator) Actor() shared.Actor {
	return shared.Actor{Username: o.Username, Role: string(o.Role)}
}

// GetDisplayNameOrUsername returns display name if set, otherwise username
func (o *Operator) GetDisplayNameOrUsername() string {
	if o.DisplayName != "" {
		return o.DisplayName
	}
	return o.Username
}

// HashPassword hashes a plaintext password for configuration
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.InvalidInput("Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateUsername(username string) error {
	if username == "" {
		return shared.InvalidInput("Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.InvalidInput("Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.InvalidInput("Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.InvalidInput("Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

// OperatorRepository looks up operators for sign-in
type OperatorRepository interface {
	// FindByUsername returns the operator; nil, nil when absent
	FindByUsername(ctx context.Context, username string) (*Operator, error)

	// FindAll returns every operator
	FindAll(ctx context.Context) ([]*Operator, error)
}
