package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/domain/identity"
	"github.com/hotel/backend/internal/domain/shared"
	"github.com/hotel/backend/internal/infrastructure/auth"
	"github.com/hotel/backend/internal/infrastructure/logger"
	"github.com/hotel/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUsernameKey = "username"
	JWTRoleKey     = "role"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional for checking revoked tokens
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// QueryTokenParam, when set, names a query parameter read if the
	// Authorization header is absent. Used by streaming endpoints.
	QueryTokenParam string
	Logger          *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/auth/login",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" && cfg.QueryTokenParam != "" {
			if token := c.Query(cfg.QueryTokenParam); token != "" {
				header = BearerPrefix + token
			}
		}
		if header == "" {
			abortUnauthorized(c, log, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, log, dto.ErrCodeTokenInvalid, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if tokenString == "" {
			abortUnauthorized(c, log, dto.ErrCodeTokenInvalid, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			code, message := tokenErrorCode(err)
			abortUnauthorized(c, log, code, message)
			return
		}

		if cfg.TokenBlacklist != nil && claims.ID != "" {
			revoked, err := cfg.TokenBlacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// fail open: a blacklist outage must not lock every operator out
				log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, log, dto.ErrCodeTokenRevoked, "Token has been revoked")
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUsernameKey, claims.Username)
		c.Set(JWTRoleKey, claims.Role)

		ctx, _ := logger.WithOperator(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.Username, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func tokenErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return dto.ErrCodeTokenNotYetValid, "Token is not yet valid"
	default:
		return dto.ErrCodeTokenInvalid, "Invalid token"
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, code, message string) {
	log.Warn("JWT authentication failed",
		zap.String("code", code),
		zap.String("path", c.Request.URL.Path),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, GetRequestID(c)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetActor returns the operator behind the request as a domain actor
func GetActor(c *gin.Context) shared.Actor {
	claims := GetJWTClaims(c)
	if claims == nil {
		return shared.System
	}
	return shared.Actor{Username: claims.Username, Role: claims.Role}
}

// GetRole returns the authenticated operator's role
func GetRole(c *gin.Context) identity.Role {
	return identity.Role(c.GetString(JWTRoleKey))
}
