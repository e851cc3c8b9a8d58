package repositories

import (
	"context"

	"github.com/freightdesk/backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ReferenceRepository validates foreign references on document writes
// and resolves tax rates for totals computation. Lookups run inside the
// document transaction so the referenced rows cannot vanish before
// commit.
type ReferenceRepository interface {
	// FindClientByID returns the client or apperrors.ErrNotFound.
	FindClientByID(ctx context.Context, tx pgx.Tx, clientID string) (*domain.Client, error)

	// FindJobFileByID returns the job file or apperrors.ErrNotFound.
	FindJobFileByID(ctx context.Context, tx pgx.Tx, jobFileID string) (*domain.JobFile, error)

	// FindServiceDetailsByIDs returns the rows that exist; callers
	// compare the result length against the requested ids to reject
	// partial matches.
	FindServiceDetailsByIDs(ctx context.Context, tx pgx.Tx, ids []string) ([]domain.ServiceDetail, error)

	// FindSubcategoriesByIDs returns the rows that exist.
	FindSubcategoriesByIDs(ctx context.Context, tx pgx.Tx, ids []string) ([]domain.Subcategory, error)

	// CountProductsByIDs returns how many of the distinct ids resolve
	// to an existing product row.
	CountProductsByIDs(ctx context.Context, tx pgx.Tx, ids []string) (int, error)

	// FindTaxRatesByIDs resolves tax ids to their percentage values.
	// Missing ids are simply absent from the map.
	FindTaxRatesByIDs(ctx context.Context, tx pgx.Tx, ids []string) (map[string]decimal.Decimal, error)
}
