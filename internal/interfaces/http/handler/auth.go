package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/application/identity"
	"github.com/hotel/backend/internal/interfaces/http/dto"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles operator sign-in
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary      Operator login
// @Description  Authenticate with username and password and receive a bearer token carrying the operator's role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identity.LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Me godoc
// @Summary      Current operator
// @Description  Returns the operator behind the bearer token with their role permissions
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.OperatorResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Error(c, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	resp, err := h.authService.Me(c.Request.Context(), claims.Username)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Logout godoc
// @Summary      Operator logout
// @Description  Revokes the presented bearer token for the rest of its lifetime
// @Tags         auth
// @Produce      json
// @Success      200 {object} SuccessResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Error(c, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}
