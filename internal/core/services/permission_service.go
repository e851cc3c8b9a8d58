package services

import (
	"context"
	"time"

	"github.com/freightdesk/backend/internal/core/domain"
	portsrepo "github.com/freightdesk/backend/internal/core/ports/repositories"
	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/platform/cache"
)

// PermissionServiceConfig carries the cache TTLs of the resolution
// layer.
type PermissionServiceConfig struct {
	UserCacheTTL       time.Duration
	PermissionCacheTTL time.Duration
}

// permissionService resolves users and permission grants with a
// read-through cache. Grant updates do not invalidate cached decisions;
// staleness is bounded by the permission TTL.
type permissionService struct {
	BaseService
	userRepo  portsrepo.UserReader
	grantRepo portsrepo.GrantRepository
	cache     *cache.Client
	cfg       PermissionServiceConfig
}

// NewPermissionService creates a permission resolution service.
func NewPermissionService(userRepo portsrepo.UserReader, grantRepo portsrepo.GrantRepository, cacheClient *cache.Client, cfg PermissionServiceConfig) portssvc.PermissionSvcFacade {
	return &permissionService{
		userRepo:  userRepo,
		grantRepo: grantRepo,
		cache:     cacheClient,
		cfg:       cfg,
	}
}

// resolveUserWithRole answers a user+role lookup from the cache when
// possible, falling back to the database and repopulating the cache.
// Cache failures are treated as misses.
func resolveUserWithRole(ctx context.Context, cacheClient *cache.Client, userRepo portsrepo.UserReader, userID string, ttl time.Duration) (*domain.User, error) {
	var cached domain.User
	found, err := cacheClient.GetJSON(ctx, cache.UserKey(userID), &cached)
	if err == nil && found && cached.UserID == userID {
		return &cached, nil
	}

	user, err := userRepo.FindUserWithRoleByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	_ = cacheClient.SetJSON(ctx, cache.UserKey(userID), user, ttl)
	return user, nil
}

// GetUserWithRole resolves a user and role, cache-first.
func (s *permissionService) GetUserWithRole(ctx context.Context, userID string) (*domain.User, error) {
	return resolveUserWithRole(ctx, s.cache, s.userRepo, userID, s.cfg.UserCacheTTL)
}

// CheckPermission reports whether the role may perform the module
// action. The decision is cached either way. A database failure denies;
// granting access on uncertainty is never acceptable here.
func (s *permissionService) CheckPermission(ctx context.Context, roleID, moduleSlug, permissionSlug string) bool {
	key := cache.PermissionKey(roleID, moduleSlug, permissionSlug)

	cached, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.LogDebug(ctx, "Permission cache read failed", "error", err.Error())
	} else if found {
		return cached == "true"
	}

	allowed, err := s.grantRepo.IsAllowed(ctx, roleID, moduleSlug, permissionSlug)
	if err != nil {
		s.LogError(ctx, err, "Permission lookup failed, denying",
			"role_id", roleID, "module", moduleSlug, "permission", permissionSlug)
		return false
	}

	value := "false"
	if allowed {
		value = "true"
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.PermissionCacheTTL); err != nil {
		s.LogDebug(ctx, "Permission cache write failed", "error", err.Error())
	}
	return allowed
}
