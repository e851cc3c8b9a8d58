package domain

import "time"

// User represents an authenticated operator of the backend.
type User struct {
	UserID       string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	RoleID       string `json:"role_id"`
	Role         *Role  `json:"role,omitempty"`
	AuditFields
}

// Role groups users for permission resolution.
type Role struct {
	RoleID      string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	AuditFields
}

// Module is a permissioned surface of the application, addressed by the
// first URL path segment (e.g. "quotations").
type Module struct {
	ModuleID string `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
}

// Permission is an action within a module, addressed by the second URL
// path segment (e.g. "create", "getById").
type Permission struct {
	PermissionID string `json:"id"`
	ModuleID     string `json:"module_id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
}

// RolePermission is an explicit grant of a permission to a role.
// Absence of a row means deny; only allowed grants are ever seeded.
type RolePermission struct {
	RolePermissionID string `json:"id"`
	RoleID           string `json:"role_id"`
	PermissionID     string `json:"permission_id"`
	ModuleSlug       string `json:"module_slug"`
	PermissionSlug   string `json:"permission_slug"`
	IsAllowed        bool   `json:"is_allowed"`
}

// AuthToken is a persisted bearer token issued at login. Revocation and
// expiry are checked against this row (cache-first) on every request.
type AuthToken struct {
	TokenID      string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Token        string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	Revoked      bool      `json:"revoked"`
	CreatedAt    time.Time `json:"created_at"`
}

// TokenData is the cached projection of an AuthToken used by the
// permission middleware for fast validity checks.
type TokenData struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	User      *User     `json:"user,omitempty"`
}
