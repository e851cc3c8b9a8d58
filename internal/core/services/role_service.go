package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/core/domain"
	portsrepo "github.com/freightdesk/backend/internal/core/ports/repositories"
	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/dto"
)

// roleService administers roles and their permission grants.
type roleService struct {
	BaseService
	grantRepo portsrepo.GrantRepository
}

// NewRoleService creates a role administration service.
func NewRoleService(grantRepo portsrepo.GrantRepository) portssvc.RoleSvcFacade {
	return &roleService{grantRepo: grantRepo}
}

// ListRoles returns one page of roles and the total count.
func (s *roleService) ListRoles(ctx context.Context, req dto.ListRolesRequest) ([]domain.Role, int64, error) {
	req.Normalize()
	offset := (req.Page - 1) * req.Limit
	return s.grantRepo.ListRoles(ctx, req.Limit, offset)
}

// GetRoleByID returns the role and its explicit grants.
func (s *roleService) GetRoleByID(ctx context.Context, roleID string) (*domain.Role, []domain.RolePermission, error) {
	role, err := s.grantRepo.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, nil, err
	}
	grants, err := s.grantRepo.FindGrantsByRoleID(ctx, roleID)
	if err != nil {
		return nil, nil, err
	}
	return role, grants, nil
}

// UpdateRolePermissions replaces the role's grants wholesale. Every
// referenced module and permission must exist and each permission must
// belong to the module it is listed under. Cached permission decisions
// are not evicted; they age out on their TTL.
func (s *roleService) UpdateRolePermissions(ctx context.Context, req dto.UpdateRolePermissionsRequest, userID string) error {
	role, err := s.grantRepo.FindRoleByID(ctx, req.RoleID)
	if err != nil {
		return err
	}

	moduleIDs := make([]string, 0, len(req.ModulesWithPermissions))
	permissionIDs := make([]string, 0, len(req.ModulesWithPermissions))
	for _, mod := range req.ModulesWithPermissions {
		moduleIDs = append(moduleIDs, mod.ModuleID)
		for _, perm := range mod.Permissions {
			permissionIDs = append(permissionIDs, perm.ID)
		}
	}

	moduleSlugs, err := s.grantRepo.FindModuleSlugsByIDs(ctx, dedupe(moduleIDs))
	if err != nil {
		return err
	}
	permissions, err := s.grantRepo.FindPermissionsByIDs(ctx, dedupe(permissionIDs))
	if err != nil {
		return err
	}
	permsByID := make(map[string]domain.Permission, len(permissions))
	for _, p := range permissions {
		permsByID[p.PermissionID] = p
	}

	grants := make([]domain.RolePermission, 0, len(permissionIDs))
	seen := make(map[string]struct{}, len(permissionIDs))
	for _, mod := range req.ModulesWithPermissions {
		moduleSlug, ok := moduleSlugs[mod.ModuleID]
		if !ok {
			return apperrors.NewInvalidReference("moduleId")
		}
		for _, perm := range mod.Permissions {
			p, ok := permsByID[perm.ID]
			if !ok || p.ModuleID != mod.ModuleID {
				return apperrors.NewInvalidReference("permissions.id")
			}
			if _, dup := seen[p.PermissionID]; dup {
				continue
			}
			seen[p.PermissionID] = struct{}{}
			grants = append(grants, domain.RolePermission{
				RolePermissionID: uuid.NewString(),
				RoleID:           role.RoleID,
				PermissionID:     p.PermissionID,
				ModuleSlug:       moduleSlug,
				PermissionSlug:   p.Slug,
				IsAllowed:        true,
			})
		}
	}

	if err := s.grantRepo.ReplaceRoleGrants(ctx, role.RoleID, grants); err != nil {
		s.LogError(ctx, err, "Failed to replace role grants", "role_id", role.RoleID)
		return fmt.Errorf("failed to replace grants for role %s: %w", role.RoleID, err)
	}

	s.LogInfo(ctx, "Role grants replaced",
		"role_id", role.RoleID, "grant_count", len(grants), "updated_by", userID)
	return nil
}
