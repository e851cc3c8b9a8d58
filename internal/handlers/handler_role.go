package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/dto"
	"github.com/freightdesk/backend/internal/middleware"
)

const roleHeading = "Role"

// roleHandler handles role administration.
type roleHandler struct {
	roleService portssvc.RoleSvcFacade
}

func newRoleHandler(rs portssvc.RoleSvcFacade) *roleHandler {
	return &roleHandler{roleService: rs}
}

// registerRoleRoutes registers routes related to roles.
func registerRoleRoutes(rg *gin.RouterGroup, roleService portssvc.RoleSvcFacade) {
	h := newRoleHandler(roleService)

	roles := rg.Group("/roles")
	{
		roles.GET("/getAll", h.listRoles)
		roles.GET("/getById/:id", h.getRoleByID)
		roles.PUT("/updatePermissions", h.updateRolePermissions)
	}
}

// listRoles godoc
// @Summary List roles
// @Description Returns one page of roles with pagination metadata
// @Tags roles
// @Produce  json
// @Param   page query int false "Page number" default(1)
// @Param   limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /roles/getAll [get]
func (h *roleHandler) listRoles(c *gin.Context) {
	var req dto.ListRolesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err, roleHeading)
		return
	}
	req.Normalize()

	roles, total, err := h.roleService.ListRoles(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, roleHeading)
		return
	}

	pagination := dto.NewPagination(req.Page, req.Limit, total)
	c.JSON(http.StatusOK, dto.Paginated(roles, "roles", pagination, "Roles fetched successfully", roleHeading))
}

// getRoleByID godoc
// @Summary Get a role by ID
// @Description Returns the role together with its explicit permission grants
// @Tags roles
// @Produce  json
// @Param   id path string true "Role ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Role not found"
// @Security BearerAuth
// @Router /roles/getById/{id} [get]
func (h *roleHandler) getRoleByID(c *gin.Context) {
	role, grants, err := h.roleService.GetRoleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, roleHeading)
		return
	}

	c.JSON(http.StatusOK, dto.Success(map[string]any{
		"role":        role,
		"permissions": grants,
	}, "Role fetched successfully", roleHeading, http.StatusOK))
}

// updateRolePermissions godoc
// @Summary Replace a role's permission grants
// @Description Replaces the role's grants wholesale; cached decisions age out on their TTL
// @Tags roles
// @Accept  json
// @Produce  json
// @Param   grants body dto.UpdateRolePermissionsRequest true "Role and its granted permissions grouped by module"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid input format or validation error"
// @Failure 404 {object} dto.APIResponse "Role not found"
// @Security BearerAuth
// @Router /roles/updatePermissions [put]
func (h *roleHandler) updateRolePermissions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateRolePermissions", slog.String("error", err.Error()))
		respondBindError(c, err, roleHeading)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	if err := h.roleService.UpdateRolePermissions(c.Request.Context(), req, userID); err != nil {
		respondError(c, err, roleHeading)
		return
	}

	c.JSON(http.StatusOK, dto.Success(nil, "Role permissions updated successfully", roleHeading, http.StatusOK))
}
