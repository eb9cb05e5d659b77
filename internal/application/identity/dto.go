package identity

import (
	"time"

	"github.com/hotel/backend/internal/domain/identity"
)

// LoginRequest represents an operator sign-in
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required"`
}

// OperatorResponse represents the signed-in operator
type OperatorResponse struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// LoginResponse carries the access token and the operator it was issued to
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Operator    OperatorResponse `json:"operator"`
}

func toOperatorResponse(o *identity.Operator, permissions []string) OperatorResponse {
	if permissions == nil {
		permissions = []string{}
	}
	return OperatorResponse{
		Username:    o.Username,
		DisplayName: o.GetDisplayNameOrUsername(),
		Role:        string(o.Role),
		Permissions: permissions,
	}
}
