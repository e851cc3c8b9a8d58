package services

import (
	"context"

	"github.com/freightdesk/backend/internal/core/domain"
	"github.com/freightdesk/backend/internal/dto"
)

// QuotationSvcFacade exposes the quotation document operations.
type QuotationSvcFacade interface {
	// CreateQuotation validates references, mints the quote number,
	// computes totals and persists header plus items in one transaction.
	CreateQuotation(ctx context.Context, req dto.CreateQuotationRequest, userID string) (*domain.Quotation, error)

	// UpdateQuotation applies a partial update; a non-empty item list
	// replaces all items and recomputes totals.
	UpdateQuotation(ctx context.Context, req dto.UpdateQuotationRequest, userID string) (*domain.Quotation, error)

	// GetQuotationByID loads a quotation with relations and items.
	GetQuotationByID(ctx context.Context, quotationID string) (*domain.Quotation, error)

	// ListQuotations returns one page plus the total count.
	ListQuotations(ctx context.Context, req dto.ListDocumentsRequest) ([]domain.Quotation, int64, error)

	// DeleteQuotation hard-deletes the quotation; items cascade.
	DeleteQuotation(ctx context.Context, quotationID string) error
}

// InvoiceSvcFacade exposes the invoice document operations, including
// derivation from a quotation (copy-forward, at most once).
type InvoiceSvcFacade interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error)

	UpdateInvoice(ctx context.Context, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error)

	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	ListInvoices(ctx context.Context, req dto.ListDocumentsRequest) ([]domain.Invoice, int64, error)

	DeleteInvoice(ctx context.Context, invoiceID string) error
}
