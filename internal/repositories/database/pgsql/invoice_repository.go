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

// PgxInvoiceRepository persists invoice headers, items and subcategory
// links.
type PgxInvoiceRepository struct {
	BaseRepository
}

// NewInvoiceRepository creates a repository for invoice data.
func NewInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `
	i.id, i.invoice_number, i.valid_until, i.quotation_id, i.customer_id, i.job_file_id,
	i.shipper_name, i.consignee_name, i.pieces_or_containers, i.weight_volume,
	i.cargo_description, i.master_bill_no, i.loading_place, i.departure_date,
	i.destination, i.arrival_date, i.final_destination, i.notes,
	i.subtotal, i.tax_total, i.grand_total,
	i.is_active, i.created_by, i.updated_by, i.created_at, i.updated_at,
	c.name, c.email, c.phone, jf.title, q.quote_number`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	var customerName, customerEmail, customerPhone string
	var jobFileTitle, quoteNumber *string
	err := row.Scan(
		&inv.InvoiceID, &inv.InvoiceNumber, &inv.ValidUntil, &inv.QuotationID, &inv.CustomerID, &inv.JobFileID,
		&inv.ShipperName, &inv.ConsigneeName, &inv.PiecesOrContainers, &inv.WeightVolume,
		&inv.CargoDescription, &inv.MasterBillNo, &inv.LoadingPlace, &inv.DepartureDate,
		&inv.Destination, &inv.ArrivalDate, &inv.FinalDestination, &inv.Notes,
		&inv.Subtotal, &inv.TaxTotal, &inv.GrandTotal,
		&inv.IsActive, &inv.CreatedBy, &inv.UpdatedBy, &inv.CreatedAt, &inv.UpdatedAt,
		&customerName, &customerEmail, &customerPhone, &jobFileTitle, &quoteNumber,
	)
	if err != nil {
		return nil, err
	}
	inv.Customer = &domain.Client{ClientID: inv.CustomerID, Name: customerName, Email: customerEmail, Phone: customerPhone}
	if inv.JobFileID != nil && jobFileTitle != nil {
		inv.JobFile = &domain.JobFile{JobFileID: *inv.JobFileID, Title: *jobFileTitle}
	}
	if inv.QuotationID != nil && quoteNumber != nil {
		inv.Quotation = &domain.Quotation{QuotationID: *inv.QuotationID, QuoteNumber: *quoteNumber}
	}
	return &inv, nil
}

func (r *PgxInvoiceRepository) InsertInvoice(ctx context.Context, tx pgx.Tx, invoice domain.Invoice, items []domain.InvoiceItem) error {
	query := `
		INSERT INTO invoices (
			id, invoice_number, valid_until, quotation_id, customer_id, job_file_id,
			shipper_name, consignee_name, pieces_or_containers, weight_volume,
			cargo_description, master_bill_no, loading_place, departure_date,
			destination, arrival_date, final_destination, notes,
			subtotal, tax_total, grand_total,
			is_active, created_by, updated_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		);
	`
	_, err := tx.Exec(ctx, query,
		invoice.InvoiceID, invoice.InvoiceNumber, invoice.ValidUntil, invoice.QuotationID, invoice.CustomerID, invoice.JobFileID,
		invoice.ShipperName, invoice.ConsigneeName, invoice.PiecesOrContainers, invoice.WeightVolume,
		invoice.CargoDescription, invoice.MasterBillNo, invoice.LoadingPlace, invoice.DepartureDate,
		invoice.Destination, invoice.ArrivalDate, invoice.FinalDestination, invoice.Notes,
		invoice.Subtotal, invoice.TaxTotal, invoice.GrandTotal,
		invoice.IsActive, invoice.CreatedBy, invoice.UpdatedBy, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.InvoiceID, err)
	}

	if err := r.insertItems(ctx, tx, items); err != nil {
		return err
	}
	return r.SetSubcategories(ctx, tx, invoice.InvoiceID, subcategoryIDs(invoice.Subcategories))
}

func subcategoryIDs(subs []domain.Subcategory) []string {
	ids := make([]string, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.SubcategoryID)
	}
	return ids
}

func (r *PgxInvoiceRepository) insertItems(ctx context.Context, tx pgx.Tx, items []domain.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, tax_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, item := range items {
		batch.Queue(query, item.ItemID, item.InvoiceID, item.ProductID, item.TaxID, item.Quantity, item.UnitPrice, item.LineTotal)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert invoice item: %w", err)
		}
	}
	return nil
}

func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	query := `
		UPDATE invoices SET
			valid_until = $2, quotation_id = $3, customer_id = $4, job_file_id = $5,
			shipper_name = $6, consignee_name = $7, pieces_or_containers = $8, weight_volume = $9,
			cargo_description = $10, master_bill_no = $11, loading_place = $12, departure_date = $13,
			destination = $14, arrival_date = $15, final_destination = $16, notes = $17,
			subtotal = $18, tax_total = $19, grand_total = $20,
			updated_by = $21, updated_at = $22
		WHERE id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		invoice.InvoiceID, invoice.ValidUntil, invoice.QuotationID, invoice.CustomerID, invoice.JobFileID,
		invoice.ShipperName, invoice.ConsigneeName, invoice.PiecesOrContainers, invoice.WeightVolume,
		invoice.CargoDescription, invoice.MasterBillNo, invoice.LoadingPlace, invoice.DepartureDate,
		invoice.Destination, invoice.ArrivalDate, invoice.FinalDestination, invoice.Notes,
		invoice.Subtotal, invoice.TaxTotal, invoice.GrandTotal,
		invoice.UpdatedBy, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxInvoiceRepository) ReplaceInvoiceItems(ctx context.Context, tx pgx.Tx, invoiceID string, items []domain.InvoiceItem) error {
	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, invoiceID); err != nil {
		return fmt.Errorf("failed to delete invoice items for %s: %w", invoiceID, err)
	}
	return r.insertItems(ctx, tx, items)
}

func (r *PgxInvoiceRepository) SetSubcategories(ctx context.Context, tx pgx.Tx, invoiceID string, subcategoryIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM invoice_subcategories WHERE invoice_id = $1;`, invoiceID); err != nil {
		return fmt.Errorf("failed to clear subcategories for %s: %w", invoiceID, err)
	}
	if len(subcategoryIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO invoice_subcategories (invoice_id, subcategory_id)
		SELECT $1, unnest($2::uuid[]);
	`
	if _, err := tx.Exec(ctx, query, invoiceID, subcategoryIDs); err != nil {
		return fmt.Errorf("failed to link subcategories for %s: %w", invoiceID, err)
	}
	return nil
}

func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1;`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN clients c ON c.id = i.customer_id
		LEFT JOIN job_files jf ON jf.id = i.job_file_id
		LEFT JOIN quotations q ON q.id = i.quotation_id
		WHERE i.id = $1;
	`
	inv, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	if err := r.loadSubcategories(ctx, []*domain.Invoice{inv}); err != nil {
		return nil, err
	}

	items, err := r.findItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (r *PgxInvoiceRepository) findItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, tax_id, quantity, unit_price, line_total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find items for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var items []domain.InvoiceItem
	for rows.Next() {
		var it domain.InvoiceItem
		if err := rows.Scan(&it.ItemID, &it.InvoiceID, &it.ProductID, &it.TaxID, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PgxInvoiceRepository) loadSubcategories(ctx context.Context, invoices []*domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	ids := make([]string, 0, len(invoices))
	byID := make(map[string]*domain.Invoice, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.InvoiceID)
		byID[inv.InvoiceID] = inv
	}
	query := `
		SELECT isc.invoice_id, s.id, s.title
		FROM invoice_subcategories isc
		JOIN subcategories s ON s.id = isc.subcategory_id
		WHERE isc.invoice_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load subcategories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var invoiceID string
		var s domain.Subcategory
		if err := rows.Scan(&invoiceID, &s.SubcategoryID, &s.Title); err != nil {
			return fmt.Errorf("failed to scan subcategory link: %w", err)
		}
		if inv, ok := byID[invoiceID]; ok {
			inv.Subcategories = append(inv.Subcategories, s)
		}
	}
	return rows.Err()
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, limit, offset int, search string) ([]domain.Invoice, int64, error) {
	filter := `
		($1 = '' OR
			i.invoice_number ILIKE $2 OR
			i.shipper_name ILIKE $2 OR
			i.consignee_name ILIKE $2 OR
			i.master_bill_no ILIKE $2 OR
			i.destination ILIKE $2 OR
			c.name ILIKE $2 OR
			c.email ILIKE $2 OR
			jf.title ILIKE $2 OR
			EXISTS (
				SELECT 1 FROM invoice_subcategories isc
				JOIN subcategories s ON s.id = isc.subcategory_id
				WHERE isc.invoice_id = i.id AND s.title ILIKE $2
			))`

	term := "%" + search + "%"

	countQuery := `
		SELECT count(*)
		FROM invoices i
		JOIN clients c ON c.id = i.customer_id
		LEFT JOIN job_files jf ON jf.id = i.job_file_id
		WHERE ` + filter + `;`
	var total int64
	if err := r.Pool.QueryRow(ctx, countQuery, search, term).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	pageQuery := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN clients c ON c.id = i.customer_id
		LEFT JOIN job_files jf ON jf.id = i.job_file_id
		LEFT JOIN quotations q ON q.id = i.quotation_id
		WHERE ` + filter + `
		ORDER BY i.created_at DESC
		LIMIT $3 OFFSET $4;`
	rows, err := r.Pool.Query(ctx, pageQuery, search, term, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var page []*domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice: %w", err)
		}
		page = append(page, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadSubcategories(ctx, page); err != nil {
		return nil, 0, err
	}

	out := make([]domain.Invoice, 0, len(page))
	for _, inv := range page {
		out = append(out, *inv)
	}
	return out, total, nil
}
