package repositories

import (
	"context"
	"time"

	"github.com/freightdesk/backend/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByEmail retrieves an active user with role by email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserWithRoleByID retrieves an active user with role by id.
	FindUserWithRoleByID(ctx context.Context, userID string) (*domain.User, error)
}

// TokenRepository persists issued bearer tokens. The permission
// middleware checks revocation and expiry against these rows
// (cache-first) on every request.
type TokenRepository interface {
	SaveToken(ctx context.Context, token domain.AuthToken) error

	// FindActiveToken returns the non-revoked token row for the given
	// token string and user, or apperrors.ErrNotFound.
	FindActiveToken(ctx context.Context, token string, userID string) (*domain.AuthToken, error)

	// FindActiveTokenByRefresh returns the non-revoked token row
	// holding the given refresh token, or apperrors.ErrNotFound.
	FindActiveTokenByRefresh(ctx context.Context, refreshToken string) (*domain.AuthToken, error)

	// RotateToken replaces the row's access and refresh tokens and
	// moves its expiry.
	RotateToken(ctx context.Context, tokenID string, accessToken, refreshToken string, expiresAt time.Time) error

	// RevokeToken marks the token row revoked.
	RevokeToken(ctx context.Context, token string) error
}

// RoleReader defines read operations for roles and their grants.
type RoleReader interface {
	FindRoleByID(ctx context.Context, roleID string) (*domain.Role, error)

	ListRoles(ctx context.Context, limit, offset int) ([]domain.Role, int64, error)

	// FindGrantsByRoleID returns every explicit grant of the role.
	FindGrantsByRoleID(ctx context.Context, roleID string) ([]domain.RolePermission, error)
}

// GrantRepository resolves and administers role→permission grants.
type GrantRepository interface {
	RoleReader

	// IsAllowed reports whether an explicit allowed grant exists for
	// (role, module, permission). Absence of a row means deny.
	IsAllowed(ctx context.Context, roleID, moduleSlug, permissionSlug string) (bool, error)

	// FindPermissionsByIDs returns the permission rows (with module
	// slugs resolved) that exist among the given ids.
	FindPermissionsByIDs(ctx context.Context, ids []string) ([]domain.Permission, error)

	// FindModuleSlugsByIDs resolves module ids to their slugs.
	FindModuleSlugsByIDs(ctx context.Context, ids []string) (map[string]string, error)

	// ReplaceRoleGrants deletes all grants of the role and inserts the
	// given ones, in one transaction.
	ReplaceRoleGrants(ctx context.Context, roleID string, grants []domain.RolePermission) error
}
