package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/core/domain"
	portsrepo "github.com/freightdesk/backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTokenRepository persists issued bearer tokens.
type PgxTokenRepository struct {
	BaseRepository
}

// NewTokenRepository creates a repository for token data.
func NewTokenRepository(pool *pgxpool.Pool) portsrepo.TokenRepository {
	return &PgxTokenRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TokenRepository = (*PgxTokenRepository)(nil)

func (r *PgxTokenRepository) SaveToken(ctx context.Context, token domain.AuthToken) error {
	query := `
		INSERT INTO oauth_tokens (id, user_id, name, token, refresh_token, expires_at, revoked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now());
	`
	_, err := r.Pool.Exec(ctx, query,
		token.TokenID, token.UserID, token.Name, token.Token, token.RefreshToken, token.ExpiresAt, token.Revoked,
	)
	if err != nil {
		return fmt.Errorf("failed to save token for user %s: %w", token.UserID, err)
	}
	return nil
}

func (r *PgxTokenRepository) FindActiveToken(ctx context.Context, token string, userID string) (*domain.AuthToken, error) {
	query := `
		SELECT id, user_id, name, token, refresh_token, expires_at, revoked, created_at
		FROM oauth_tokens
		WHERE token = $1 AND user_id = $2 AND revoked = false;
	`
	var t domain.AuthToken
	err := r.Pool.QueryRow(ctx, query, token, userID).Scan(
		&t.TokenID, &t.UserID, &t.Name, &t.Token, &t.RefreshToken, &t.ExpiresAt, &t.Revoked, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	return &t, nil
}

func (r *PgxTokenRepository) FindActiveTokenByRefresh(ctx context.Context, refreshToken string) (*domain.AuthToken, error) {
	query := `
		SELECT id, user_id, name, token, refresh_token, expires_at, revoked, created_at
		FROM oauth_tokens
		WHERE refresh_token = $1 AND revoked = false;
	`
	var t domain.AuthToken
	err := r.Pool.QueryRow(ctx, query, refreshToken).Scan(
		&t.TokenID, &t.UserID, &t.Name, &t.Token, &t.RefreshToken, &t.ExpiresAt, &t.Revoked, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return &t, nil
}

func (r *PgxTokenRepository) RotateToken(ctx context.Context, tokenID string, accessToken, refreshToken string, expiresAt time.Time) error {
	query := `
		UPDATE oauth_tokens
		SET token = $2, refresh_token = $3, expires_at = $4, updated_at = now()
		WHERE id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, tokenID, accessToken, refreshToken, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to rotate token %s: %w", tokenID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTokenRepository) RevokeToken(ctx context.Context, token string) error {
	query := `UPDATE oauth_tokens SET revoked = true, updated_at = now() WHERE token = $1;`
	tag, err := r.Pool.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
