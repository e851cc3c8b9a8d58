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

// PgxUserRepository reads user rows with their role.
type PgxUserRepository struct {
	BaseRepository
}

// NewUserRepository creates a repository for user data.
func NewUserRepository(pool *pgxpool.Pool) portsrepo.UserReader {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserReader = (*PgxUserRepository)(nil)

const userColumns = `
	u.id, u.name, u.email, u.password, u.role_id,
	u.is_active, u.created_by, u.updated_by, u.created_at, u.updated_at,
	r.id, r.title, r.slug, r.description`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role domain.Role
	err := row.Scan(
		&u.UserID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID,
		&u.IsActive, &u.CreatedBy, &u.UpdatedBy, &u.CreatedAt, &u.UpdatedAt,
		&role.RoleID, &role.Title, &role.Slug, &role.Description,
	)
	if err != nil {
		return nil, err
	}
	u.Role = &role
	return &u, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1 AND u.is_active = true;
	`
	u, err := scanUser(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return u, nil
}

func (r *PgxUserRepository) FindUserWithRoleByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1 AND u.is_active = true;
	`
	u, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return u, nil
}
