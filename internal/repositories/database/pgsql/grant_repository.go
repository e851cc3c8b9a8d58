package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/core/domain"
	portsrepo "github.com/freightdesk/backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxGrantRepository resolves and administers role→permission grants.
type PgxGrantRepository struct {
	BaseRepository
}

// NewGrantRepository creates a repository for roles and their grants.
func NewGrantRepository(pool *pgxpool.Pool) portsrepo.GrantRepository {
	return &PgxGrantRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GrantRepository = (*PgxGrantRepository)(nil)

func (r *PgxGrantRepository) FindRoleByID(ctx context.Context, roleID string) (*domain.Role, error) {
	query := `
		SELECT id, title, slug, description, is_active, created_by, updated_by, created_at, updated_at
		FROM roles
		WHERE id = $1;
	`
	var role domain.Role
	err := r.Pool.QueryRow(ctx, query, roleID).Scan(
		&role.RoleID, &role.Title, &role.Slug, &role.Description,
		&role.IsActive, &role.CreatedBy, &role.UpdatedBy, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find role %s: %w", roleID, err)
	}
	return &role, nil
}

func (r *PgxGrantRepository) ListRoles(ctx context.Context, limit, offset int) ([]domain.Role, int64, error) {
	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM roles;`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}

	query := `
		SELECT id, title, slug, description, is_active, created_by, updated_by, created_at, updated_at
		FROM roles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(
			&role.RoleID, &role.Title, &role.Slug, &role.Description,
			&role.IsActive, &role.CreatedBy, &role.UpdatedBy, &role.CreatedAt, &role.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, total, rows.Err()
}

func (r *PgxGrantRepository) FindGrantsByRoleID(ctx context.Context, roleID string) ([]domain.RolePermission, error) {
	query := `
		SELECT id, role_id, permission_id, module_slug, permission_slug, is_allowed
		FROM role_permissions
		WHERE role_id = $1
		ORDER BY module_slug, permission_slug;
	`
	rows, err := r.Pool.Query(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find grants for role %s: %w", roleID, err)
	}
	defer rows.Close()

	var grants []domain.RolePermission
	for rows.Next() {
		var g domain.RolePermission
		if err := rows.Scan(&g.RolePermissionID, &g.RoleID, &g.PermissionID, &g.ModuleSlug, &g.PermissionSlug, &g.IsAllowed); err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// IsAllowed reports whether an explicit allowed grant exists. Absence
// of a row means deny; the caller treats lookup failure as deny too.
func (r *PgxGrantRepository) IsAllowed(ctx context.Context, roleID, moduleSlug, permissionSlug string) (bool, error) {
	query := `
		SELECT 1
		FROM role_permissions
		WHERE role_id = $1 AND module_slug = $2 AND permission_slug = $3 AND is_allowed = true;
	`
	var one int
	err := r.Pool.QueryRow(ctx, query, roleID, moduleSlug, permissionSlug).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check grant %s/%s for role %s: %w", moduleSlug, permissionSlug, roleID, err)
	}
	return true, nil
}

func (r *PgxGrantRepository) FindPermissionsByIDs(ctx context.Context, ids []string) ([]domain.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, module_id, title, slug, description
		FROM permissions
		WHERE id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find permissions: %w", err)
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.PermissionID, &p.ModuleID, &p.Title, &p.Slug, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *PgxGrantRepository) FindModuleSlugsByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	slugs := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return slugs, nil
	}
	rows, err := r.Pool.Query(ctx, `SELECT id, slug FROM modules WHERE id = ANY($1);`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find modules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, slug string
		if err := rows.Scan(&id, &slug); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		slugs[id] = slug
	}
	return slugs, rows.Err()
}

// ReplaceRoleGrants swaps a role's grants wholesale: delete-all then
// reinsert, in one transaction.
func (r *PgxGrantRepository) ReplaceRoleGrants(ctx context.Context, roleID string, grants []domain.RolePermission) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1;`, roleID); err != nil {
		return fmt.Errorf("failed to clear grants for role %s: %w", roleID, err)
	}

	if len(grants) > 0 {
		batch := &pgx.Batch{}
		query := `
			INSERT INTO role_permissions (id, role_id, permission_id, module_slug, permission_slug, is_allowed, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now());
		`
		for _, g := range grants {
			batch.Queue(query, g.RolePermissionID, g.RoleID, g.PermissionID, g.ModuleSlug, g.PermissionSlug, g.IsAllowed)
		}
		results := tx.SendBatch(ctx, batch)
		for range grants {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to insert grant for role %s: %w", roleID, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to flush grant batch for role %s: %w", roleID, err)
		}
	}

	return r.Commit(ctx, tx)
}
