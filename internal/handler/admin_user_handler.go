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

// AdminUserHandler handles back-office account management. Password hashes
// never leave the service: AdminUser serializes without them.
type AdminUserHandler struct {
	service *service.AdminUserService
	log     zerolog.Logger
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(service *service.AdminUserService, log zerolog.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		service: service,
		log:     log.With().Str("component", "admin_user_handler").Logger(),
	}
}

// ListAdmins godoc
// GET /api/admin/admin-users
func (h *AdminUserHandler) ListAdmins(c *gin.Context) {
	admins, err := h.service.List(c.Request.Context())
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	if admins == nil {
		admins = []model.AdminUser{}
	}
	response.Success(c, http.StatusOK, gin.H{"adminUsers": admins})
}

// GetAdmin godoc
// GET /api/admin/admin-users/:id
func (h *AdminUserHandler) GetAdmin(c *gin.Context) {
	admin, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"adminUser": admin})
}

// CreateAdmin godoc
// POST /api/admin/admin-users
// Rejects a duplicate email with EMAIL_EXISTS.
func (h *AdminUserHandler) CreateAdmin(c *gin.Context) {
	var req model.CreateAdminUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"adminUser": admin})
}

// UpdateAdmin godoc
// PUT /api/admin/admin-users/:id
// An empty password keeps the current one.
func (h *AdminUserHandler) UpdateAdmin(c *gin.Context) {
	var req model.UpdateAdminUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	modified, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"modifiedCount": modified})
}

// DeleteAdmin godoc
// DELETE /api/admin/admin-users/:id
// Super admins and the caller's own account cannot be deleted.
func (h *AdminUserHandler) DeleteAdmin(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GetRoles godoc
// GET /api/admin/roles
// Lists the fixed roles and what each grants, for the account form.
func (h *AdminUserHandler) GetRoles(c *gin.Context) {
	roles := make([]gin.H, 0, len(model.RolePermissions))
	for _, role := range []model.AdminRole{model.RoleSuperAdmin, model.RoleStaff, model.RoleDataEntry} {
		roles = append(roles, gin.H{
			"role":        role,
			"permissions": role.PermissionCodes(),
		})
	}
	response.Success(c, http.StatusOK, gin.H{"roles": roles})
}
