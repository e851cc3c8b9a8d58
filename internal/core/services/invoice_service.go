package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/core/domain"
	portsrepo "github.com/freightdesk/backend/internal/core/ports/repositories"
	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/dto"
)

// invoiceService handles the invoice document operations, including
// derivation from a quotation.
type invoiceService struct {
	BaseService
	invoiceRepo   portsrepo.InvoiceRepositoryFacade
	quotationRepo portsrepo.QuotationRepositoryFacade
	counterRepo   portsrepo.CounterRepository
	refRepo       portsrepo.ReferenceRepository
}

// NewInvoiceService creates an invoice service. The quotation facade is
// needed for the row-locked copy-forward handshake.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, quotationRepo portsrepo.QuotationRepositoryFacade, counterRepo portsrepo.CounterRepository, refRepo portsrepo.ReferenceRepository) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo:   invoiceRepo,
		quotationRepo: quotationRepo,
		counterRepo:   counterRepo,
		refRepo:       refRepo,
	}
}

// validateSubcategories rejects the write when any requested id does
// not resolve to an existing row.
func validateSubcategories(ctx context.Context, tx pgx.Tx, refRepo portsrepo.ReferenceRepository, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	distinct := dedupe(ids)
	found, err := refRepo.FindSubcategoriesByIDs(ctx, tx, distinct)
	if err != nil {
		return err
	}
	if len(found) != len(distinct) {
		return apperrors.NewInvalidReference("subcategory_ids")
	}
	return nil
}

// linesFromQuotationItems turns copied-forward quotation items into
// totals inputs, resolving the tax percentage of each referenced tax.
func linesFromQuotationItems(ctx context.Context, tx pgx.Tx, refRepo portsrepo.ReferenceRepository, items []domain.QuotationItem) ([]domain.LineInput, error) {
	taxIDs := make([]string, 0, len(items))
	for _, item := range items {
		if item.TaxID != nil {
			taxIDs = append(taxIDs, *item.TaxID)
		}
	}
	taxRates, err := refRepo.FindTaxRatesByIDs(ctx, tx, dedupe(taxIDs))
	if err != nil {
		return nil, err
	}

	lines := make([]domain.LineInput, 0, len(items))
	for _, item := range items {
		line := domain.LineInput{
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if item.TaxID != nil {
			line.TaxPercent = taxRates[*item.TaxID]
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// CreateInvoice validates references, mints the invoice number and
// persists the invoice in one transaction. When a quotation id is
// given, the quotation is row-locked, its items copied forward if none
// are supplied, and its one-shot derivation flag flipped. A quotation
// that already produced an invoice is rejected.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	logger := s.GetLogger(ctx)

	tx, err := s.invoiceRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction for invoice creation")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.invoiceRepo.Rollback(ctx, tx)

	if _, err := s.refRepo.FindClientByID(ctx, tx, req.CustomerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewInvalidReference("customer_id")
		}
		return nil, err
	}
	if req.JobFileID != nil {
		if _, err := s.refRepo.FindJobFileByID(ctx, tx, *req.JobFileID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewInvalidReference("job_file_id")
			}
			return nil, err
		}
	}
	if err := validateSubcategories(ctx, tx, s.refRepo, req.SubcategoryIDs); err != nil {
		return nil, err
	}

	var lines []domain.LineInput
	var items []domain.InvoiceItem
	invoiceID := uuid.NewString()

	if req.QuotationID != nil {
		quotation, err := s.quotationRepo.FindQuotationForUpdate(ctx, tx, *req.QuotationID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewInvalidReference("quotation_id")
			}
			return nil, err
		}
		if quotation.IsInvoiceCreated {
			return nil, apperrors.ErrAlreadyInvoiced
		}

		if len(req.Items) > 0 {
			lines, err = validateItems(ctx, tx, s.refRepo, req.Items)
			if err != nil {
				return nil, err
			}
			items = buildInvoiceItems(invoiceID, req.Items)
		} else {
			sourceItems, err := s.quotationRepo.FindQuotationItems(ctx, tx, *req.QuotationID)
			if err != nil {
				return nil, err
			}
			if len(sourceItems) == 0 {
				return nil, apperrors.ErrEmptySource
			}
			lines, err = linesFromQuotationItems(ctx, tx, s.refRepo, sourceItems)
			if err != nil {
				return nil, err
			}
			items = copyQuotationItems(invoiceID, sourceItems)
		}

		if err := s.quotationRepo.MarkInvoiceCreated(ctx, tx, *req.QuotationID, &userID); err != nil {
			return nil, err
		}
	} else {
		if len(req.Items) == 0 {
			return nil, fmt.Errorf("items are required without a quotation: %w", apperrors.ErrValidation)
		}
		lines, err = validateItems(ctx, tx, s.refRepo, req.Items)
		if err != nil {
			return nil, err
		}
		items = buildInvoiceItems(invoiceID, req.Items)
	}

	totals := domain.ComputeTotals(lines)

	year := time.Now().UTC().Year()
	serial, err := s.counterRepo.NextSerial(ctx, tx, year)
	if err != nil {
		s.LogError(ctx, err, "Failed to mint invoice serial", "year", year)
		return nil, fmt.Errorf("failed to mint invoice number: %w", err)
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: domain.FormatDocumentNumber(domain.InvoicePrefix, year, serial),
		ValidUntil:    req.ValidUntil,
		QuotationID:   req.QuotationID,
		CustomerID:    req.CustomerID,
		JobFileID:     req.JobFileID,
		Notes:         req.Notes,
		Subtotal:      totals.Subtotal,
		TaxTotal:      totals.TaxTotal,
		GrandTotal:    totals.GrandTotal,
		AuditFields: domain.AuditFields{
			IsActive:  true,
			CreatedBy: &userID,
			UpdatedBy: &userID,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	applyShipment(&invoice.ShipmentDetails, req.ShipmentInput)
	for _, id := range dedupe(req.SubcategoryIDs) {
		invoice.Subcategories = append(invoice.Subcategories, domain.Subcategory{SubcategoryID: id})
	}

	if err := s.invoiceRepo.InsertInvoice(ctx, tx, invoice, items); err != nil {
		s.LogError(ctx, err, "Failed to insert invoice", "invoice_number", invoice.InvoiceNumber)
		return nil, err
	}

	if err := s.invoiceRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice creation: %w", err)
	}

	logger.Info("Invoice created", "invoice_id", invoice.InvoiceID, "invoice_number", invoice.InvoiceNumber)
	return s.invoiceRepo.FindInvoiceByID(ctx, invoice.InvoiceID)
}

func buildInvoiceItems(invoiceID string, inputs []dto.DocumentItemInput) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, domain.InvoiceItem{
			ItemID:    uuid.NewString(),
			InvoiceID: invoiceID,
			ProductID: in.ProductID,
			TaxID:     in.TaxID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			LineTotal: domain.LineTotal(in.Quantity, in.UnitPrice),
		})
	}
	return items
}

// copyQuotationItems clones quotation lines onto a new invoice with
// fresh item ids.
func copyQuotationItems(invoiceID string, source []domain.QuotationItem) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, 0, len(source))
	for _, src := range source {
		items = append(items, domain.InvoiceItem{
			ItemID:    uuid.NewString(),
			InvoiceID: invoiceID,
			ProductID: src.ProductID,
			TaxID:     src.TaxID,
			Quantity:  src.Quantity,
			UnitPrice: src.UnitPrice,
			LineTotal: domain.LineTotal(src.Quantity, src.UnitPrice),
		})
	}
	return items
}

// UpdateInvoice applies a partial update. The quotation link may be
// repointed or cleared; repointing never replays the copy-forward.
func (s *invoiceService) UpdateInvoice(ctx context.Context, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	existing, err := s.invoiceRepo.FindInvoiceByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	tx, err := s.invoiceRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.invoiceRepo.Rollback(ctx, tx)

	if req.CustomerID != nil {
		if _, err := s.refRepo.FindClientByID(ctx, tx, *req.CustomerID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewInvalidReference("customer_id")
			}
			return nil, err
		}
		existing.CustomerID = *req.CustomerID
	}
	if req.JobFileID.Set {
		if req.JobFileID.Value != nil {
			if _, err := s.refRepo.FindJobFileByID(ctx, tx, *req.JobFileID.Value); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, apperrors.NewInvalidReference("job_file_id")
				}
				return nil, err
			}
		}
		existing.JobFileID = req.JobFileID.Value
	}
	if req.QuotationID.Set {
		if req.QuotationID.Value != nil {
			if _, err := s.quotationRepo.FindQuotationByID(ctx, *req.QuotationID.Value); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, apperrors.NewInvalidReference("quotation_id")
				}
				return nil, err
			}
		}
		existing.QuotationID = req.QuotationID.Value
	}
	if req.ValidUntil != nil {
		existing.ValidUntil = req.ValidUntil
	}
	if req.Notes != nil {
		existing.Notes = req.Notes
	}
	applyShipment(&existing.ShipmentDetails, req.ShipmentInput)

	if len(req.Items) > 0 {
		lines, err := validateItems(ctx, tx, s.refRepo, req.Items)
		if err != nil {
			return nil, err
		}
		totals := domain.ComputeTotals(lines)
		existing.Subtotal = totals.Subtotal
		existing.TaxTotal = totals.TaxTotal
		existing.GrandTotal = totals.GrandTotal

		items := buildInvoiceItems(existing.InvoiceID, req.Items)
		if err := s.invoiceRepo.ReplaceInvoiceItems(ctx, tx, existing.InvoiceID, items); err != nil {
			return nil, err
		}
	}

	if req.SubcategoryIDs != nil {
		if err := validateSubcategories(ctx, tx, s.refRepo, req.SubcategoryIDs); err != nil {
			return nil, err
		}
		if err := s.invoiceRepo.SetSubcategories(ctx, tx, existing.InvoiceID, dedupe(req.SubcategoryIDs)); err != nil {
			return nil, err
		}
	}

	existing.UpdatedBy = &userID
	existing.UpdatedAt = time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoice(ctx, tx, *existing); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", "invoice_id", existing.InvoiceID)
		return nil, err
	}

	if err := s.invoiceRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice update: %w", err)
	}

	return s.invoiceRepo.FindInvoiceByID(ctx, req.ID)
}

// GetInvoiceByID loads an invoice with relations and items.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

// ListInvoices returns one page of invoices and the total count.
func (s *invoiceService) ListInvoices(ctx context.Context, req dto.ListDocumentsRequest) ([]domain.Invoice, int64, error) {
	req.Normalize()
	offset := (req.Page - 1) * req.Limit
	return s.invoiceRepo.ListInvoices(ctx, req.Limit, offset, req.Search)
}

// DeleteInvoice hard-deletes the invoice; items and subcategory links
// cascade. The source quotation's derivation flag is left as is.
func (s *invoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID); err != nil {
		return err
	}
	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID); err != nil {
		s.LogError(ctx, err, "Failed to delete invoice", "invoice_id", invoiceID)
		return err
	}
	s.LogInfo(ctx, "Invoice deleted", "invoice_id", invoiceID)
	return nil
}
