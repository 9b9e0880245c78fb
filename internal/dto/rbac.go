package dto

// CreatePermissionRequest is the permission creation payload
type CreatePermissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// UpdatePermissionRequest is the permission update payload. Only the
// description can change; permission names are immutable once created.
type UpdatePermissionRequest struct {
	Description string `json:"description" binding:"required"`
}

// CreateRoleRequest is the role creation payload; permissions are referenced
// by name.
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleRequest is the role update payload
type UpdateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
}
