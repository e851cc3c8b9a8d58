package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/core/domain"
	portsrepo "github.com/freightdesk/backend/internal/core/ports/repositories"
	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/dto"
)

// quotationService handles the quotation document operations.
type quotationService struct {
	BaseService
	quotationRepo portsrepo.QuotationRepositoryFacade
	counterRepo   portsrepo.CounterRepository
	refRepo       portsrepo.ReferenceRepository
}

// NewQuotationService creates a quotation service.
func NewQuotationService(quotationRepo portsrepo.QuotationRepositoryFacade, counterRepo portsrepo.CounterRepository, refRepo portsrepo.ReferenceRepository) portssvc.QuotationSvcFacade {
	return &quotationService{
		quotationRepo: quotationRepo,
		counterRepo:   counterRepo,
		refRepo:       refRepo,
	}
}

// dedupe returns the distinct values of ids, order preserved.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// validateItems checks item shape, verifies every product reference and
// resolves the tax percentage of each line. All referenced tax rows
// must exist.
func validateItems(ctx context.Context, tx pgx.Tx, refRepo portsrepo.ReferenceRepository, items []dto.DocumentItemInput) ([]domain.LineInput, error) {
	productIDs := make([]string, 0, len(items))
	taxIDs := make([]string, 0, len(items))
	for _, item := range items {
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("unit_price must not be negative: %w", apperrors.ErrValidation)
		}
		productIDs = append(productIDs, item.ProductID)
		if item.TaxID != nil {
			taxIDs = append(taxIDs, *item.TaxID)
		}
	}

	distinctProducts := dedupe(productIDs)
	count, err := refRepo.CountProductsByIDs(ctx, tx, distinctProducts)
	if err != nil {
		return nil, err
	}
	if count != len(distinctProducts) {
		return nil, apperrors.NewInvalidReference("product_id")
	}

	taxRates := map[string]decimal.Decimal{}
	if len(taxIDs) > 0 {
		taxRates, err = refRepo.FindTaxRatesByIDs(ctx, tx, dedupe(taxIDs))
		if err != nil {
			return nil, err
		}
	}

	lines := make([]domain.LineInput, 0, len(items))
	for _, item := range items {
		line := domain.LineInput{
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if item.TaxID != nil {
			rate, ok := taxRates[*item.TaxID]
			if !ok {
				return nil, apperrors.NewInvalidReference("tax_id")
			}
			line.TaxPercent = rate
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// validateServiceDetails rejects the update when any requested id does
// not resolve to an existing row.
func validateServiceDetails(ctx context.Context, tx pgx.Tx, refRepo portsrepo.ReferenceRepository, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	distinct := dedupe(ids)
	found, err := refRepo.FindServiceDetailsByIDs(ctx, tx, distinct)
	if err != nil {
		return err
	}
	if len(found) != len(distinct) {
		return apperrors.NewInvalidReference("service_detail_ids")
	}
	return nil
}

// applyShipment copies the non-nil shipment fields of the request onto
// the document.
func applyShipment(dst *domain.ShipmentDetails, src dto.ShipmentInput) {
	if src.ShipperName != nil {
		dst.ShipperName = src.ShipperName
	}
	if src.ConsigneeName != nil {
		dst.ConsigneeName = src.ConsigneeName
	}
	if src.PiecesOrContainers != nil {
		dst.PiecesOrContainers = src.PiecesOrContainers
	}
	if src.WeightVolume != nil {
		dst.WeightVolume = src.WeightVolume
	}
	if src.CargoDescription != nil {
		dst.CargoDescription = src.CargoDescription
	}
	if src.MasterBillNo != nil {
		dst.MasterBillNo = src.MasterBillNo
	}
	if src.LoadingPlace != nil {
		dst.LoadingPlace = src.LoadingPlace
	}
	if src.DepartureDate != nil {
		dst.DepartureDate = src.DepartureDate
	}
	if src.Destination != nil {
		dst.Destination = src.Destination
	}
	if src.ArrivalDate != nil {
		dst.ArrivalDate = src.ArrivalDate
	}
	if src.FinalDestination != nil {
		dst.FinalDestination = src.FinalDestination
	}
}

// CreateQuotation validates references, mints the quote number from the
// year-scoped counter, computes totals and persists everything in one
// transaction.
func (s *quotationService) CreateQuotation(ctx context.Context, req dto.CreateQuotationRequest, userID string) (*domain.Quotation, error) {
	logger := s.GetLogger(ctx)

	tx, err := s.quotationRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction for quotation creation")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.quotationRepo.Rollback(ctx, tx)

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
	if err := validateServiceDetails(ctx, tx, s.refRepo, req.ServiceDetailIDs); err != nil {
		return nil, err
	}

	lines, err := validateItems(ctx, tx, s.refRepo, req.Items)
	if err != nil {
		return nil, err
	}
	totals := domain.ComputeTotals(lines)

	year := time.Now().UTC().Year()
	serial, err := s.counterRepo.NextSerial(ctx, tx, year)
	if err != nil {
		s.LogError(ctx, err, "Failed to mint quotation serial", "year", year)
		return nil, fmt.Errorf("failed to mint quote number: %w", err)
	}

	now := time.Now().UTC()
	quotation := domain.Quotation{
		QuotationID: uuid.NewString(),
		QuoteNumber: domain.FormatDocumentNumber(domain.QuotePrefix, year, serial),
		ValidUntil:  req.ValidUntil,
		CustomerID:  req.CustomerID,
		JobFileID:   req.JobFileID,
		Notes:       req.Notes,
		Subtotal:    totals.Subtotal,
		TaxTotal:    totals.TaxTotal,
		GrandTotal:  totals.GrandTotal,
		AuditFields: domain.AuditFields{
			IsActive:  true,
			CreatedBy: &userID,
			UpdatedBy: &userID,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	applyShipment(&quotation.ShipmentDetails, req.ShipmentInput)
	for _, id := range dedupe(req.ServiceDetailIDs) {
		quotation.ServiceDetails = append(quotation.ServiceDetails, domain.ServiceDetail{ServiceDetailID: id})
	}

	items := buildQuotationItems(quotation.QuotationID, req.Items)
	if err := s.quotationRepo.InsertQuotation(ctx, tx, quotation, items); err != nil {
		s.LogError(ctx, err, "Failed to insert quotation", "quote_number", quotation.QuoteNumber)
		return nil, err
	}

	if err := s.quotationRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit quotation creation: %w", err)
	}

	logger.Info("Quotation created", "quotation_id", quotation.QuotationID, "quote_number", quotation.QuoteNumber)
	return s.quotationRepo.FindQuotationByID(ctx, quotation.QuotationID)
}

func buildQuotationItems(quotationID string, inputs []dto.DocumentItemInput) []domain.QuotationItem {
	items := make([]domain.QuotationItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, domain.QuotationItem{
			ItemID:      uuid.NewString(),
			QuotationID: quotationID,
			ProductID:   in.ProductID,
			TaxID:       in.TaxID,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   domain.LineTotal(in.Quantity, in.UnitPrice),
		})
	}
	return items
}

// UpdateQuotation applies a partial update. Absent fields keep their
// stored values, an explicit null job file clears the relation, and a
// non-empty item list replaces all items and recomputes totals.
func (s *quotationService) UpdateQuotation(ctx context.Context, req dto.UpdateQuotationRequest, userID string) (*domain.Quotation, error) {
	existing, err := s.quotationRepo.FindQuotationByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	tx, err := s.quotationRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.quotationRepo.Rollback(ctx, tx)

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

		items := buildQuotationItems(existing.QuotationID, req.Items)
		if err := s.quotationRepo.ReplaceQuotationItems(ctx, tx, existing.QuotationID, items); err != nil {
			return nil, err
		}
	}

	if req.ServiceDetailIDs != nil {
		if err := validateServiceDetails(ctx, tx, s.refRepo, req.ServiceDetailIDs); err != nil {
			return nil, err
		}
		if err := s.quotationRepo.SetServiceDetails(ctx, tx, existing.QuotationID, dedupe(req.ServiceDetailIDs)); err != nil {
			return nil, err
		}
	}

	existing.UpdatedBy = &userID
	existing.UpdatedAt = time.Now().UTC()
	if err := s.quotationRepo.UpdateQuotation(ctx, tx, *existing); err != nil {
		s.LogError(ctx, err, "Failed to update quotation", "quotation_id", existing.QuotationID)
		return nil, err
	}

	if err := s.quotationRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit quotation update: %w", err)
	}

	return s.quotationRepo.FindQuotationByID(ctx, req.ID)
}

// GetQuotationByID loads a quotation with relations and items.
func (s *quotationService) GetQuotationByID(ctx context.Context, quotationID string) (*domain.Quotation, error) {
	return s.quotationRepo.FindQuotationByID(ctx, quotationID)
}

// ListQuotations returns one page of quotations and the total count.
func (s *quotationService) ListQuotations(ctx context.Context, req dto.ListDocumentsRequest) ([]domain.Quotation, int64, error) {
	req.Normalize()
	offset := (req.Page - 1) * req.Limit
	return s.quotationRepo.ListQuotations(ctx, req.Limit, offset, req.Search)
}

// DeleteQuotation hard-deletes the quotation; items and service-detail
// links cascade.
func (s *quotationService) DeleteQuotation(ctx context.Context, quotationID string) error {
	if _, err := s.quotationRepo.FindQuotationByID(ctx, quotationID); err != nil {
		return err
	}
	if err := s.quotationRepo.DeleteQuotation(ctx, quotationID); err != nil {
		s.LogError(ctx, err, "Failed to delete quotation", "quotation_id", quotationID)
		return err
	}
	s.LogInfo(ctx, "Quotation deleted", "quotation_id", quotationID)
	return nil
}
