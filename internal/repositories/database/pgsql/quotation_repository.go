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

// PgxQuotationRepository persists quotation headers, items and
// service-detail links.
type PgxQuotationRepository struct {
	BaseRepository
}

// NewQuotationRepository creates a repository for quotation data.
func NewQuotationRepository(pool *pgxpool.Pool) portsrepo.QuotationRepositoryFacade {
	return &PgxQuotationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.QuotationRepositoryFacade = (*PgxQuotationRepository)(nil)

const quotationColumns = `
	q.id, q.quote_number, q.valid_until, q.customer_id, q.job_file_id,
	q.shipper_name, q.consignee_name, q.pieces_or_containers, q.weight_volume,
	q.cargo_description, q.master_bill_no, q.loading_place, q.departure_date,
	q.destination, q.arrival_date, q.final_destination, q.notes,
	q.subtotal, q.tax_total, q.grand_total, q.is_invoice_created,
	q.is_active, q.created_by, q.updated_by, q.created_at, q.updated_at,
	c.name, c.email, c.phone, jf.title`

// scanQuotation reads one joined header row. The customer join is inner
// (the FK is required); the job-file join is left.
func scanQuotation(row pgx.Row) (*domain.Quotation, error) {
	var q domain.Quotation
	var customerName, customerEmail, customerPhone string
	var jobFileTitle *string
	err := row.Scan(
		&q.QuotationID, &q.QuoteNumber, &q.ValidUntil, &q.CustomerID, &q.JobFileID,
		&q.ShipperName, &q.ConsigneeName, &q.PiecesOrContainers, &q.WeightVolume,
		&q.CargoDescription, &q.MasterBillNo, &q.LoadingPlace, &q.DepartureDate,
		&q.Destination, &q.ArrivalDate, &q.FinalDestination, &q.Notes,
		&q.Subtotal, &q.TaxTotal, &q.GrandTotal, &q.IsInvoiceCreated,
		&q.IsActive, &q.CreatedBy, &q.UpdatedBy, &q.CreatedAt, &q.UpdatedAt,
		&customerName, &customerEmail, &customerPhone, &jobFileTitle,
	)
	if err != nil {
		return nil, err
	}
	q.Customer = &domain.Client{ClientID: q.CustomerID, Name: customerName, Email: customerEmail, Phone: customerPhone}
	if q.JobFileID != nil && jobFileTitle != nil {
		q.JobFile = &domain.JobFile{JobFileID: *q.JobFileID, Title: *jobFileTitle}
	}
	return &q, nil
}

func (r *PgxQuotationRepository) InsertQuotation(ctx context.Context, tx pgx.Tx, quotation domain.Quotation, items []domain.QuotationItem) error {
	query := `
		INSERT INTO quotations (
			id, quote_number, valid_until, customer_id, job_file_id,
			shipper_name, consignee_name, pieces_or_containers, weight_volume,
			cargo_description, master_bill_no, loading_place, departure_date,
			destination, arrival_date, final_destination, notes,
			subtotal, tax_total, grand_total, is_invoice_created,
			is_active, created_by, updated_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		);
	`
	_, err := tx.Exec(ctx, query,
		quotation.QuotationID, quotation.QuoteNumber, quotation.ValidUntil, quotation.CustomerID, quotation.JobFileID,
		quotation.ShipperName, quotation.ConsigneeName, quotation.PiecesOrContainers, quotation.WeightVolume,
		quotation.CargoDescription, quotation.MasterBillNo, quotation.LoadingPlace, quotation.DepartureDate,
		quotation.Destination, quotation.ArrivalDate, quotation.FinalDestination, quotation.Notes,
		quotation.Subtotal, quotation.TaxTotal, quotation.GrandTotal, quotation.IsInvoiceCreated,
		quotation.IsActive, quotation.CreatedBy, quotation.UpdatedBy, quotation.CreatedAt, quotation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quotation %s: %w", quotation.QuotationID, err)
	}

	if err := r.insertItems(ctx, tx, items); err != nil {
		return err
	}
	return r.SetServiceDetails(ctx, tx, quotation.QuotationID, serviceDetailIDs(quotation.ServiceDetails))
}

func serviceDetailIDs(details []domain.ServiceDetail) []string {
	ids := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ServiceDetailID)
	}
	return ids
}

func (r *PgxQuotationRepository) insertItems(ctx context.Context, tx pgx.Tx, items []domain.QuotationItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO quotation_items (id, quotation_id, product_id, tax_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, item := range items {
		batch.Queue(query, item.ItemID, item.QuotationID, item.ProductID, item.TaxID, item.Quantity, item.UnitPrice, item.LineTotal)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert quotation item: %w", err)
		}
	}
	return nil
}

func (r *PgxQuotationRepository) UpdateQuotation(ctx context.Context, tx pgx.Tx, quotation domain.Quotation) error {
	query := `
		UPDATE quotations SET
			valid_until = $2, customer_id = $3, job_file_id = $4,
			shipper_name = $5, consignee_name = $6, pieces_or_containers = $7, weight_volume = $8,
			cargo_description = $9, master_bill_no = $10, loading_place = $11, departure_date = $12,
			destination = $13, arrival_date = $14, final_destination = $15, notes = $16,
			subtotal = $17, tax_total = $18, grand_total = $19,
			updated_by = $20, updated_at = $21
		WHERE id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		quotation.QuotationID, quotation.ValidUntil, quotation.CustomerID, quotation.JobFileID,
		quotation.ShipperName, quotation.ConsigneeName, quotation.PiecesOrContainers, quotation.WeightVolume,
		quotation.CargoDescription, quotation.MasterBillNo, quotation.LoadingPlace, quotation.DepartureDate,
		quotation.Destination, quotation.ArrivalDate, quotation.FinalDestination, quotation.Notes,
		quotation.Subtotal, quotation.TaxTotal, quotation.GrandTotal,
		quotation.UpdatedBy, quotation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update quotation %s: %w", quotation.QuotationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxQuotationRepository) ReplaceQuotationItems(ctx context.Context, tx pgx.Tx, quotationID string, items []domain.QuotationItem) error {
	if _, err := tx.Exec(ctx, `DELETE FROM quotation_items WHERE quotation_id = $1;`, quotationID); err != nil {
		return fmt.Errorf("failed to delete quotation items for %s: %w", quotationID, err)
	}
	return r.insertItems(ctx, tx, items)
}

func (r *PgxQuotationRepository) SetServiceDetails(ctx context.Context, tx pgx.Tx, quotationID string, serviceDetailIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM quotation_service_details WHERE quotation_id = $1;`, quotationID); err != nil {
		return fmt.Errorf("failed to clear service details for %s: %w", quotationID, err)
	}
	if len(serviceDetailIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO quotation_service_details (quotation_id, service_detail_id)
		SELECT $1, unnest($2::uuid[]);
	`
	if _, err := tx.Exec(ctx, query, quotationID, serviceDetailIDs); err != nil {
		return fmt.Errorf("failed to link service details for %s: %w", quotationID, err)
	}
	return nil
}

func (r *PgxQuotationRepository) DeleteQuotation(ctx context.Context, quotationID string) error {
	// items and join rows cascade via their FKs
	tag, err := r.Pool.Exec(ctx, `DELETE FROM quotations WHERE id = $1;`, quotationID)
	if err != nil {
		return fmt.Errorf("failed to delete quotation %s: %w", quotationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxQuotationRepository) FindQuotationByID(ctx context.Context, quotationID string) (*domain.Quotation, error) {
	query := `
		SELECT ` + quotationColumns + `
		FROM quotations q
		JOIN clients c ON c.id = q.customer_id
		LEFT JOIN job_files jf ON jf.id = q.job_file_id
		WHERE q.id = $1;
	`
	q, err := scanQuotation(r.Pool.QueryRow(ctx, query, quotationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find quotation %s: %w", quotationID, err)
	}

	if err := r.loadServiceDetails(ctx, []*domain.Quotation{q}); err != nil {
		return nil, err
	}

	items, err := r.findItems(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	q.Items = items
	return q, nil
}

func (r *PgxQuotationRepository) findItems(ctx context.Context, quotationID string) ([]domain.QuotationItem, error) {
	query := `
		SELECT id, quotation_id, product_id, tax_id, quantity, unit_price, line_total
		FROM quotation_items
		WHERE quotation_id = $1
		ORDER BY id;
	`
	rows, err := r.Pool.Query(ctx, query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find items for quotation %s: %w", quotationID, err)
	}
	defer rows.Close()
	return scanQuotationItems(rows)
}

func scanQuotationItems(rows pgx.Rows) ([]domain.QuotationItem, error) {
	var items []domain.QuotationItem
	for rows.Next() {
		var it domain.QuotationItem
		if err := rows.Scan(&it.ItemID, &it.QuotationID, &it.ProductID, &it.TaxID, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan quotation item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// loadServiceDetails populates the many-to-many service details for the
// given quotations in one query.
func (r *PgxQuotationRepository) loadServiceDetails(ctx context.Context, quotations []*domain.Quotation) error {
	if len(quotations) == 0 {
		return nil
	}
	ids := make([]string, 0, len(quotations))
	byID := make(map[string]*domain.Quotation, len(quotations))
	for _, q := range quotations {
		ids = append(ids, q.QuotationID)
		byID[q.QuotationID] = q
	}
	query := `
		SELECT qsd.quotation_id, sd.id, sd.title
		FROM quotation_service_details qsd
		JOIN service_details sd ON sd.id = qsd.service_detail_id
		WHERE qsd.quotation_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load service details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var quotationID string
		var sd domain.ServiceDetail
		if err := rows.Scan(&quotationID, &sd.ServiceDetailID, &sd.Title); err != nil {
			return fmt.Errorf("failed to scan service detail link: %w", err)
		}
		if q, ok := byID[quotationID]; ok {
			q.ServiceDetails = append(q.ServiceDetails, sd)
		}
	}
	return rows.Err()
}

func (r *PgxQuotationRepository) ListQuotations(ctx context.Context, limit, offset int, search string) ([]domain.Quotation, int64, error) {
	// one filter expression shared by page and count queries; the
	// service-detail match uses EXISTS so joined rows never duplicate
	// headers
	filter := `
		($1 = '' OR
			q.quote_number ILIKE $2 OR
			q.shipper_name ILIKE $2 OR
			q.consignee_name ILIKE $2 OR
			q.master_bill_no ILIKE $2 OR
			q.destination ILIKE $2 OR
			c.name ILIKE $2 OR
			c.email ILIKE $2 OR
			jf.title ILIKE $2 OR
			EXISTS (
				SELECT 1 FROM quotation_service_details qsd
				JOIN service_details sd ON sd.id = qsd.service_detail_id
				WHERE qsd.quotation_id = q.id AND sd.title ILIKE $2
			))`

	term := "%" + search + "%"

	countQuery := `
		SELECT count(*)
		FROM quotations q
		JOIN clients c ON c.id = q.customer_id
		LEFT JOIN job_files jf ON jf.id = q.job_file_id
		WHERE ` + filter + `;`
	var total int64
	if err := r.Pool.QueryRow(ctx, countQuery, search, term).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count quotations: %w", err)
	}

	pageQuery := `
		SELECT ` + quotationColumns + `
		FROM quotations q
		JOIN clients c ON c.id = q.customer_id
		LEFT JOIN job_files jf ON jf.id = q.job_file_id
		WHERE ` + filter + `
		ORDER BY q.created_at DESC
		LIMIT $3 OFFSET $4;`
	rows, err := r.Pool.Query(ctx, pageQuery, search, term, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quotations: %w", err)
	}
	defer rows.Close()

	var page []*domain.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan quotation: %w", err)
		}
		page = append(page, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadServiceDetails(ctx, page); err != nil {
		return nil, 0, err
	}

	out := make([]domain.Quotation, 0, len(page))
	for _, q := range page {
		out = append(out, *q)
	}
	return out, total, nil
}

func (r *PgxQuotationRepository) FindQuotationForUpdate(ctx context.Context, tx pgx.Tx, quotationID string) (*domain.Quotation, error) {
	query := `
		SELECT id, quote_number, customer_id, job_file_id, is_invoice_created
		FROM quotations
		WHERE id = $1
		FOR UPDATE;
	`
	var q domain.Quotation
	err := tx.QueryRow(ctx, query, quotationID).Scan(&q.QuotationID, &q.QuoteNumber, &q.CustomerID, &q.JobFileID, &q.IsInvoiceCreated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock quotation %s: %w", quotationID, err)
	}
	return &q, nil
}

func (r *PgxQuotationRepository) FindQuotationItems(ctx context.Context, tx pgx.Tx, quotationID string) ([]domain.QuotationItem, error) {
	query := `
		SELECT id, quotation_id, product_id, tax_id, quantity, unit_price, line_total
		FROM quotation_items
		WHERE quotation_id = $1
		ORDER BY id;
	`
	rows, err := tx.Query(ctx, query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find items for quotation %s: %w", quotationID, err)
	}
	defer rows.Close()
	return scanQuotationItems(rows)
}

func (r *PgxQuotationRepository) MarkInvoiceCreated(ctx context.Context, tx pgx.Tx, quotationID string, updatedBy *string) error {
	query := `
		UPDATE quotations
		SET is_invoice_created = true, updated_by = $2, updated_at = now()
		WHERE id = $1;
	`
	tag, err := tx.Exec(ctx, query, quotationID, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to flag quotation %s as invoiced: %w", quotationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
