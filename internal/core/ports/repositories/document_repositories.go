package repositories

import (
	"context"

	"github.com/freightdesk/backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CounterRepository mints year-scoped document serials. The increment
// is a single atomic upsert executed inside the caller's transaction so
// concurrent creations never observe the same serial; a rollback of the
// enclosing transaction leaves a gap, never a duplicate.
type CounterRepository interface {
	// NextSerial increments (or creates with value 1) the counter row
	// for the given year and returns the new serial.
	NextSerial(ctx context.Context, tx pgx.Tx, year int) (int64, error)
}

// QuotationReader defines read operations for quotations.
type QuotationReader interface {
	// FindQuotationByID retrieves a quotation with its customer, job
	// file, service details and items eagerly loaded.
	FindQuotationByID(ctx context.Context, quotationID string) (*domain.Quotation, error)

	// ListQuotations retrieves one page of quotations (relations
	// loaded, items omitted) together with the total row count.
	// search filters case-insensitively across the quote number,
	// shipment fields and joined customer/job-file/service-detail text.
	ListQuotations(ctx context.Context, limit, offset int, search string) ([]domain.Quotation, int64, error)
}

// QuotationWriter defines write operations for quotations. All writes
// run inside the caller's transaction.
type QuotationWriter interface {
	// InsertQuotation persists the header, its items and the
	// service-detail links.
	InsertQuotation(ctx context.Context, tx pgx.Tx, quotation domain.Quotation, items []domain.QuotationItem) error

	// UpdateQuotation persists header scalar fields and relation ids.
	UpdateQuotation(ctx context.Context, tx pgx.Tx, quotation domain.Quotation) error

	// ReplaceQuotationItems deletes all existing items of the
	// quotation and inserts the given ones.
	ReplaceQuotationItems(ctx context.Context, tx pgx.Tx, quotationID string, items []domain.QuotationItem) error

	// SetServiceDetails replaces the quotation's service-detail links.
	SetServiceDetails(ctx context.Context, tx pgx.Tx, quotationID string, serviceDetailIDs []string) error

	// DeleteQuotation hard-deletes the header; items cascade.
	DeleteQuotation(ctx context.Context, quotationID string) error
}

// QuotationLocker covers the invoice-derivation handshake: the source
// quotation is row-locked so two concurrent invoice creations against
// it are mutually exclusive.
type QuotationLocker interface {
	// FindQuotationForUpdate loads the quotation header under a
	// SELECT ... FOR UPDATE row lock.
	FindQuotationForUpdate(ctx context.Context, tx pgx.Tx, quotationID string) (*domain.Quotation, error)

	// FindQuotationItems loads the quotation's items inside the
	// transaction, for copy-forward onto a derived invoice.
	FindQuotationItems(ctx context.Context, tx pgx.Tx, quotationID string) ([]domain.QuotationItem, error)

	// MarkInvoiceCreated flips the one-shot is_invoice_created flag.
	MarkInvoiceCreated(ctx context.Context, tx pgx.Tx, quotationID string, updatedBy *string) error
}

// QuotationRepositoryFacade combines all quotation repository concerns.
type QuotationRepositoryFacade interface {
	TransactionManager
	QuotationReader
	QuotationWriter
	QuotationLocker
}

// InvoiceReader defines read operations for invoices.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its quotation,
	// customer, job file, subcategories and items eagerly loaded.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves one page of invoices with the total count.
	ListInvoices(ctx context.Context, limit, offset int, search string) ([]domain.Invoice, int64, error)
}

// InvoiceWriter defines write operations for invoices.
type InvoiceWriter interface {
	InsertInvoice(ctx context.Context, tx pgx.Tx, invoice domain.Invoice, items []domain.InvoiceItem) error

	UpdateInvoice(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error

	ReplaceInvoiceItems(ctx context.Context, tx pgx.Tx, invoiceID string, items []domain.InvoiceItem) error

	// SetSubcategories replaces the invoice's subcategory links.
	SetSubcategories(ctx context.Context, tx pgx.Tx, invoiceID string, subcategoryIDs []string) error

	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// InvoiceRepositoryFacade combines all invoice repository concerns.
type InvoiceRepositoryFacade interface {
	TransactionManager
	InvoiceReader
	InvoiceWriter
}
