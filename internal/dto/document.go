package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentItemInput is one requested line on a quotation or invoice.
// Unit price non-negativity is checked at the service boundary since
// binding tags cannot express constraints on decimal.Decimal.
type DocumentItemInput struct {
	ProductID string          `json:"product_id" binding:"required,uuid"`
	TaxID     *string         `json:"tax_id" binding:"omitempty,uuid"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ShipmentInput carries the optional shipment metadata accepted on
// create and update. Nil fields are left unchanged on update.
type ShipmentInput struct {
	ShipperName        *string    `json:"shipper_name"`
	ConsigneeName      *string    `json:"consignee_name"`
	PiecesOrContainers *int       `json:"pieces_or_containers"`
	WeightVolume       *string    `json:"weight_volume"`
	CargoDescription   *string    `json:"cargo_description"`
	MasterBillNo       *string    `json:"master_bill_no"`
	LoadingPlace       *string    `json:"loading_place"`
	DepartureDate      *time.Time `json:"departure_date"`
	Destination        *string    `json:"destination"`
	ArrivalDate        *time.Time `json:"arrival_date"`
	FinalDestination   *string    `json:"final_destination"`
}

// CreateQuotationRequest defines the data needed to create a quotation.
type CreateQuotationRequest struct {
	CustomerID       string              `json:"customer_id" binding:"required,uuid"`
	JobFileID        *string             `json:"job_file_id" binding:"omitempty,uuid"`
	ServiceDetailIDs []string            `json:"service_detail_ids" binding:"omitempty,dive,uuid"`
	ValidUntil       *time.Time          `json:"valid_until"`
	Notes            *string             `json:"notes"`
	Items            []DocumentItemInput `json:"items" binding:"required,min=1,dive"`
	ShipmentInput
}

// UpdateQuotationRequest applies a partial update. Absent fields keep
// their current values; JobFileID may be explicitly null to clear the
// relation; a non-empty item list fully replaces the existing items.
type UpdateQuotationRequest struct {
	ID               string              `json:"id" binding:"required,uuid"`
	CustomerID       *string             `json:"customer_id" binding:"omitempty,uuid"`
	JobFileID        Optional[string]    `json:"job_file_id"`
	ServiceDetailIDs []string            `json:"service_detail_ids" binding:"omitempty,dive,uuid"`
	ValidUntil       *time.Time          `json:"valid_until"`
	Notes            *string             `json:"notes"`
	Items            []DocumentItemInput `json:"items" binding:"omitempty,dive"`
	ShipmentInput
}

// CreateInvoiceRequest defines the data needed to create an invoice.
// Items may be omitted when QuotationID is given; the quotation's items
// are then copied forward verbatim.
type CreateInvoiceRequest struct {
	QuotationID    *string             `json:"quotation_id" binding:"omitempty,uuid"`
	CustomerID     string              `json:"customer_id" binding:"required,uuid"`
	JobFileID      *string             `json:"job_file_id" binding:"omitempty,uuid"`
	SubcategoryIDs []string            `json:"subcategory_ids" binding:"omitempty,dive,uuid"`
	ValidUntil     *time.Time          `json:"valid_until"`
	Notes          *string             `json:"notes"`
	Items          []DocumentItemInput `json:"items" binding:"omitempty,dive"`
	ShipmentInput
}

// UpdateInvoiceRequest applies a partial update to an invoice.
type UpdateInvoiceRequest struct {
	ID             string              `json:"id" binding:"required,uuid"`
	QuotationID    Optional[string]    `json:"quotation_id"`
	CustomerID     *string             `json:"customer_id" binding:"omitempty,uuid"`
	JobFileID      Optional[string]    `json:"job_file_id"`
	SubcategoryIDs []string            `json:"subcategory_ids" binding:"omitempty,dive,uuid"`
	ValidUntil     *time.Time          `json:"valid_until"`
	Notes          *string             `json:"notes"`
	Items          []DocumentItemInput `json:"items" binding:"omitempty,dive"`
	ShipmentInput
}

// ListDocumentsRequest is the query shape of the getAll endpoints.
type ListDocumentsRequest struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
}

// Normalize applies the default page/limit.
func (r *ListDocumentsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 10
	}
}
