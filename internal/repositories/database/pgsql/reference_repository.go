package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/core/domain"
	portsrepo "github.com/freightdesk/backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PgxReferenceRepository resolves foreign references for document
// validation. Every method runs on the caller's transaction.
type PgxReferenceRepository struct{}

// NewReferenceRepository creates a repository for master-data lookups.
func NewReferenceRepository() portsrepo.ReferenceRepository {
	return &PgxReferenceRepository{}
}

var _ portsrepo.ReferenceRepository = (*PgxReferenceRepository)(nil)

func (r *PgxReferenceRepository) FindClientByID(ctx context.Context, tx pgx.Tx, clientID string) (*domain.Client, error) {
	query := `SELECT id, name, email, phone FROM clients WHERE id = $1;`
	var c domain.Client
	err := tx.QueryRow(ctx, query, clientID).Scan(&c.ClientID, &c.Name, &c.Email, &c.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client %s: %w", clientID, err)
	}
	return &c, nil
}

func (r *PgxReferenceRepository) FindJobFileByID(ctx context.Context, tx pgx.Tx, jobFileID string) (*domain.JobFile, error) {
	query := `SELECT id, title FROM job_files WHERE id = $1;`
	var jf domain.JobFile
	err := tx.QueryRow(ctx, query, jobFileID).Scan(&jf.JobFileID, &jf.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job file %s: %w", jobFileID, err)
	}
	return &jf, nil
}

func (r *PgxReferenceRepository) FindServiceDetailsByIDs(ctx context.Context, tx pgx.Tx, ids []string) ([]domain.ServiceDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, title FROM service_details WHERE id = ANY($1);`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find service details: %w", err)
	}
	defer rows.Close()

	var details []domain.ServiceDetail
	for rows.Next() {
		var sd domain.ServiceDetail
		if err := rows.Scan(&sd.ServiceDetailID, &sd.Title); err != nil {
			return nil, fmt.Errorf("failed to scan service detail: %w", err)
		}
		details = append(details, sd)
	}
	return details, rows.Err()
}

func (r *PgxReferenceRepository) FindSubcategoriesByIDs(ctx context.Context, tx pgx.Tx, ids []string) ([]domain.Subcategory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, title FROM subcategories WHERE id = ANY($1);`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find subcategories: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subcategory
	for rows.Next() {
		var s domain.Subcategory
		if err := rows.Scan(&s.SubcategoryID, &s.Title); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *PgxReferenceRepository) CountProductsByIDs(ctx context.Context, tx pgx.Tx, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `SELECT count(*) FROM products WHERE id = ANY($1);`
	var count int
	if err := tx.QueryRow(ctx, query, ids).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *PgxReferenceRepository) FindTaxRatesByIDs(ctx context.Context, tx pgx.Tx, ids []string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return rates, nil
	}
	query := `SELECT id, value FROM taxes WHERE id = ANY($1);`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax rates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var value decimal.Decimal
		if err := rows.Scan(&id, &value); err != nil {
			return nil, fmt.Errorf("failed to scan tax rate: %w", err)
		}
		rates[id] = value
	}
	return rates, rows.Err()
}
