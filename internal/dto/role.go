package dto

// PermissionGrantInput names one permission granted to a role.
type PermissionGrantInput struct {
	ID string `json:"id" binding:"required,uuid"`
}

// ModulePermissionsInput groups granted permissions under their module.
type ModulePermissionsInput struct {
	ModuleID    string                 `json:"moduleId" binding:"required,uuid"`
	Permissions []PermissionGrantInput `json:"permissions" binding:"required,dive"`
}

// UpdateRolePermissionsRequest replaces a role's grants wholesale.
// Only explicit allows are written; everything else is deny by absence.
type UpdateRolePermissionsRequest struct {
	RoleID                 string                   `json:"roleId" binding:"required,uuid"`
	ModulesWithPermissions []ModulePermissionsInput `json:"modulesWithPermissions" binding:"required,dive"`
}

// ListRolesRequest is the query shape of the roles getAll endpoint.
type ListRolesRequest struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize applies the default page/limit.
func (r *ListRolesRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 10
	}
}
