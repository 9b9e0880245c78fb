package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kittipat/movietix/internal/dto"
	"github.com/kittipat/movietix/internal/service"
	"github.com/kittipat/movietix/pkg/response"
)

// RoleHandler handles role administration endpoints
type RoleHandler struct {
	roleService service.RoleService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// List handles GET /roles
func (h *RoleHandler) List(c *gin.Context) {
	var p dto.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	roles, total, err := h.roleService.List(c.Request.Context(), &p)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, dto.NewPaginated(roles, total, p))
}

// Get handles GET /roles/:roleId
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roleService.Get(c.Request.Context(), c.Param("roleId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, role)
}

// Create handles POST /roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, role)
}

// Update handles PATCH /roles/:roleId
func (h *RoleHandler) Update(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), c.Param("roleId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, role)
}

// Delete handles DELETE /roles/:roleId
func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.roleService.Delete(c.Request.Context(), c.Param("roleId")); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}

// PermissionHandler handles permission administration endpoints
type PermissionHandler struct {
	permissionService service.PermissionService
}

// NewPermissionHandler creates a new PermissionHandler
func NewPermissionHandler(permissionService service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// List handles GET /permissions
func (h *PermissionHandler) List(c *gin.Context) {
	var p dto.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	permissions, total, err := h.permissionService.List(c.Request.Context(), &p)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, dto.NewPaginated(permissions, total, p))
}

// Get handles GET /permissions/:permissionId
func (h *PermissionHandler) Get(c *gin.Context) {
	permission, err := h.permissionService.Get(c.Request.Context(), c.Param("permissionId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, permission)
}

// Create handles POST /permissions
func (h *PermissionHandler) Create(c *gin.Context) {
	var req dto.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	permission, err := h.permissionService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, permission)
}

// Update handles PATCH /permissions/:permissionId
func (h *PermissionHandler) Update(c *gin.Context) {
	var req dto.UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	permission, err := h.permissionService.Update(c.Request.Context(), c.Param("permissionId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, permission)
}

// Delete handles DELETE /permissions/:permissionId
func (h *PermissionHandler) Delete(c *gin.Context) {
	if err := h.permissionService.Delete(c.Request.Context(), c.Param("permissionId")); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}
