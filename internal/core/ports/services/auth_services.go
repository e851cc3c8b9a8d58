package services

import (
	"context"

	"github.com/freightdesk/backend/internal/core/domain"
	"github.com/freightdesk/backend/internal/dto"
)

// AuthSvcFacade issues, revokes and validates bearer tokens.
type AuthSvcFacade interface {
	// Login verifies credentials and issues an access/refresh token
	// pair, persisting the token row and warming the token cache.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// Refresh redeems a stored refresh token for a new access token,
	// rotating both tokens on the persisted row.
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error)

	// Logout revokes the token row and drops it from the cache.
	Logout(ctx context.Context, token string) error

	// ValidateToken checks the token against cache then database:
	// revoked, expired or absent tokens return apperrors.ErrUnauthorized.
	// On success the token's user (with role) is returned.
	ValidateToken(ctx context.Context, token string, userID string) (*domain.User, error)
}

// PermissionSvcFacade resolves users and permission grants with a
// read-through cache in front of the database.
type PermissionSvcFacade interface {
	// GetUserWithRole resolves a user and role, cache-first.
	GetUserWithRole(ctx context.Context, userID string) (*domain.User, error)

	// CheckPermission reports whether the role may perform the module
	// action. Database failures deny (fail-closed); cache failures
	// fall through to the database.
	CheckPermission(ctx context.Context, roleID, moduleSlug, permissionSlug string) bool
}

// RoleSvcFacade administers roles and their permission grants.
type RoleSvcFacade interface {
	ListRoles(ctx context.Context, req dto.ListRolesRequest) ([]domain.Role, int64, error)

	// GetRoleByID returns the role and its explicit grants.
	GetRoleByID(ctx context.Context, roleID string) (*domain.Role, []domain.RolePermission, error)

	// UpdateRolePermissions replaces the role's grants wholesale in one
	// transaction. Cached permission decisions are not invalidated;
	// stale results persist up to the cache TTL.
	UpdateRolePermissions(ctx context.Context, req dto.UpdateRolePermissionsRequest, userID string) error
}
