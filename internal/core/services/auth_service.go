package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/core/domain"
	portsrepo "github.com/freightdesk/backend/internal/core/ports/repositories"
	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/dto"
	"github.com/freightdesk/backend/internal/platform/cache"
	"github.com/freightdesk/backend/internal/utils"
)

// AuthServiceConfig carries the token issuing parameters.
type AuthServiceConfig struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Issuer             string
	UserCacheTTL       time.Duration
}

// authService issues, revokes and validates bearer tokens. Token
// validity is answered from the cache when possible; the oauth_tokens
// table is the source of truth.
type authService struct {
	BaseService
	userRepo  portsrepo.UserReader
	tokenRepo portsrepo.TokenRepository
	cache     *cache.Client
	cfg       AuthServiceConfig
}

// NewAuthService creates an auth service.
func NewAuthService(userRepo portsrepo.UserReader, tokenRepo portsrepo.TokenRepository, cacheClient *cache.Client, cfg AuthServiceConfig) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cache:     cacheClient,
		cfg:       cfg,
	}
}

// Login verifies the credentials, persists a new token pair and warms
// the token and user caches. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.AccessTokenExpiry, s.cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.cfg.AccessTokenExpiry)
	token := domain.AuthToken{
		TokenID:      uuid.NewString(),
		UserID:       user.UserID,
		Name:         "login",
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		Revoked:      false,
	}
	if err := s.tokenRepo.SaveToken(ctx, token); err != nil {
		s.LogError(ctx, err, "Failed to persist token", "user_id", user.UserID)
		return nil, err
	}

	tokenData := domain.TokenData{
		UserID:    user.UserID,
		ExpiresAt: expiresAt,
		Revoked:   false,
	}
	if err := s.cache.SetJSON(ctx, cache.TokenKey(accessToken), tokenData, s.cfg.AccessTokenExpiry); err != nil {
		s.LogDebug(ctx, "Token cache write failed", "error", err.Error())
	}
	if err := s.cache.SetJSON(ctx, cache.UserKey(user.UserID), user, s.cfg.UserCacheTTL); err != nil {
		s.LogDebug(ctx, "User cache write failed", "error", err.Error())
	}

	s.LogInfo(ctx, "User logged in", "user_id", user.UserID)
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         dto.ToUserResponse(user),
	}, nil
}

// Refresh redeems a refresh token for a new access token. The token
// row is rotated in place (new access and refresh tokens, fresh
// expiry); the old access token's cache entry is evicted so it stops
// validating immediately. The refresh window is anchored to the row's
// creation time, so rotation does not extend it.
func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error) {
	row, err := s.tokenRepo.FindActiveTokenByRefresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if time.Since(row.CreatedAt) > s.cfg.RefreshTokenExpiry {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := resolveUserWithRole(ctx, s.cache, s.userRepo, row.UserID, s.cfg.UserCacheTTL)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.AccessTokenExpiry, s.cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.cfg.AccessTokenExpiry)
	if err := s.tokenRepo.RotateToken(ctx, row.TokenID, accessToken, refreshToken, expiresAt); err != nil {
		s.LogError(ctx, err, "Failed to rotate token", "user_id", user.UserID)
		return nil, err
	}

	if err := s.cache.Del(ctx, cache.TokenKey(row.Token)); err != nil {
		s.LogDebug(ctx, "Token cache eviction failed", "error", err.Error())
	}
	tokenData := domain.TokenData{
		UserID:    user.UserID,
		ExpiresAt: expiresAt,
		Revoked:   false,
	}
	if err := s.cache.SetJSON(ctx, cache.TokenKey(accessToken), tokenData, s.cfg.AccessTokenExpiry); err != nil {
		s.LogDebug(ctx, "Token cache write failed", "error", err.Error())
	}

	s.LogInfo(ctx, "Token refreshed", "user_id", user.UserID)
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         dto.ToUserResponse(user),
	}, nil
}

// Logout revokes the token row and evicts its cache entry.
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.tokenRepo.RevokeToken(ctx, token); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUnauthorized
		}
		return err
	}
	if err := s.cache.Del(ctx, cache.TokenKey(token)); err != nil {
		s.LogDebug(ctx, "Token cache eviction failed", "error", err.Error())
	}
	return nil
}

// ValidateToken checks revocation and expiry of the bearer token,
// cache-first, then resolves the token's user with role. Any failure to
// establish validity yields apperrors.ErrUnauthorized.
func (s *authService) ValidateToken(ctx context.Context, token string, userID string) (*domain.User, error) {
	var data domain.TokenData
	found, err := s.cache.GetJSON(ctx, cache.TokenKey(token), &data)
	if err != nil {
		s.LogDebug(ctx, "Token cache read failed", "error", err.Error())
		found = false
	}

	if !found {
		row, err := s.tokenRepo.FindActiveToken(ctx, token, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.ErrUnauthorized
			}
			return nil, err
		}
		data = domain.TokenData{
			UserID:    row.UserID,
			ExpiresAt: row.ExpiresAt,
			Revoked:   row.Revoked,
		}
		if ttl := time.Until(row.ExpiresAt); ttl > 0 {
			if cacheErr := s.cache.SetJSON(ctx, cache.TokenKey(token), data, ttl); cacheErr != nil {
				s.LogDebug(ctx, "Token cache write failed", "error", cacheErr.Error())
			}
		}
	}

	if data.Revoked || data.UserID != userID || time.Now().After(data.ExpiresAt) {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := resolveUserWithRole(ctx, s.cache, s.userRepo, userID, s.cfg.UserCacheTTL)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
