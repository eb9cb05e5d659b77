package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/infrastructure/config"
	"github.com/hotel/backend/internal/interfaces/http/dto"
)

// SwaggerProtection gates the API docs: 404 when disabled, an IP allow list
// (single addresses or CIDRs) when configured, and the JWT middleware when
// authentication is required
func SwaggerProtection(cfg config.SwaggerConfig, jwtMiddleware gin.HandlerFunc) gin.HandlerFunc {
	var nets []*net.IPNet
	for _, entry := range cfg.AllowedIPs {
		if !strings.Contains(entry, "/") {
			if strings.Contains(entry, ":") {
				entry += "/128"
			} else {
				entry += "/32"
			}
		}
		if _, n, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, n)
		}
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound,
				dto.NewErrorResponse(dto.ErrCodeNotFound, "API documentation is not available", GetRequestID(c)))
			return
		}
		if len(cfg.AllowedIPs) > 0 && !ipAllowed(net.ParseIP(c.ClientIP()), nets) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Access to API documentation is restricted", GetRequestID(c)))
			return
		}
		if cfg.RequireAuth && jwtMiddleware != nil {
			jwtMiddleware(c)
			if c.IsAborted() {
				return
			}
		}
		c.Next()
	}
}

func ipAllowed(ip net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
