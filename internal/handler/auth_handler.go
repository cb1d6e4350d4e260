package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/middleware"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/response"
	"github.com/brightpath/institute-api/internal/service"
	"github.com/brightpath/institute-api/internal/validator"
)

// AuthHandler handles admin authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/auth
// Validates email + password and returns a signed token with the identity.
// Unknown email and wrong password give the same 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	// The identity is repeated at the top level for clients reading the flat shape.
	response.Success(c, http.StatusOK, gin.H{
		"id":        result.User.ID,
		"name":      result.User.Name,
		"email":     result.User.Email,
		"role":      result.User.Role,
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"admin": gin.H{
			"id":    result.User.ID,
			"name":  result.User.Name,
			"email": result.User.Email,
			"role":  result.User.Role,
		},
		"permissions": result.Permissions,
	})
}

// Logout godoc
// POST /api/auth/logout
// Revokes the caller's token server-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/auth/me
// Returns the profile of the currently authenticated admin.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.authService.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"admin": gin.H{
			"id":          admin.ID,
			"name":        admin.Name,
			"email":       admin.Email,
			"role":        admin.Role,
			"lastLoginAt": admin.LastLoginAt,
		},
		"permissions": claims.Permissions,
	})
}
