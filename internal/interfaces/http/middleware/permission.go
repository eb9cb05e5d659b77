package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/domain/identity"
	"github.com/hotel/backend/internal/infrastructure/logger"
	"github.com/hotel/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Authorize lets the request through when the operator's role may perform
// action on resource. It must run after the JWT middleware.
func Authorize(policy identity.Policy, resource identity.Resource, action identity.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		if !policy.Allows(identity.Role(claims.Role), action, resource) {
			logger.GetGinLogger(c).Warn("Permission denied",
				zap.String("role", claims.Role),
				zap.String("resource", string(resource)),
				zap.String("action", string(action)),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrCodeForbidden,
				"Role "+claims.Role+" may not "+string(action)+" "+string(resource), GetRequestID(c)))
			return
		}

		c.Next()
	}
}
