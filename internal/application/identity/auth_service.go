package identity

import (
	"context"
	"time"

	"github.com/hotel/backend/internal/domain/identity"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/hotel/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles operator authentication
type AuthService struct {
	operatorRepo identity.OperatorRepository
	policy       *identity.RolePolicy
	jwtService   *auth.JWTService
	blacklist    auth.TokenBlacklist
	logger       *zap.Logger
	now          func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	operatorRepo identity.OperatorRepository,
	policy *identity.RolePolicy,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		operatorRepo: operatorRepo,
		policy:       policy,
		jwtService:   jwtService,
		blacklist:    blacklist,
		logger:       logger,
		now:          time.Now,
	}
}

// Login verifies credentials and issues an access token carrying the role.
// Unknown users and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	operator, err := s.operatorRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Error("Failed to look up operator", zap.String("username", req.Username), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify credentials")
	}
	if operator == nil || !operator.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid login attempt", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	permissions := s.policy.Permissions(operator.Role)
	token, err := s.jwtService.GenerateToken(auth.TokenInput{
		Username:    operator.Username,
		DisplayName: operator.DisplayName,
		Role:        string(operator.Role),
		Permissions: permissions,
	})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("Operator logged in",
		zap.String("username", operator.Username),
		zap.String("role", string(operator.Role)))

	return &LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		Operator:    toOperatorResponse(operator, permissions),
	}, nil
}

// Me returns the operator behind a validated token. An operator removed from
// configuration after the token was issued is no longer authorized.
func (s *AuthService) Me(ctx context.Context, username string) (*OperatorResponse, error) {
	operator, err := s.operatorRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, shared.ErrUnauthorized
	}
	resp := toOperatorResponse(operator, s.policy.Permissions(operator.Role))
	return &resp, nil
}

// Logout revokes the presented token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil || claims.ID == "" {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL(s.now())); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("username", claims.Username), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}
	s.logger.Info("Operator logged out", zap.String("username", claims.Username))
	return nil
}
