package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Document number prefixes. Numbers render as PREFIX-YYYY-NNN with the
// serial zero-padded to three digits; wider serials keep their width.
const (
	QuotePrefix   = "QUO"
	InvoicePrefix = "INV"
)

// FormatDocumentNumber renders a minted serial as a human-readable
// document number, e.g. QUO-2024-001.
func FormatDocumentNumber(prefix string, year int, serial int64) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, serial)
}

// ShipmentDetails carries the optional free-text shipment metadata
// shared by quotations and invoices.
type ShipmentDetails struct {
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

// Quotation is a priced offer for a freight job.
type Quotation struct {
	QuotationID string     `json:"id"`
	QuoteNumber string     `json:"quote_number"` // unique, QUO-YYYY-NNN
	ValidUntil  *time.Time `json:"valid_until"`

	CustomerID string  `json:"-"`
	Customer   *Client `json:"customer,omitempty"`

	JobFileID *string  `json:"-"`
	JobFile   *JobFile `json:"job_file,omitempty"`

	ServiceDetails []ServiceDetail `json:"service_details,omitempty"`

	ShipmentDetails

	Notes *string `json:"notes"`

	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxTotal   decimal.Decimal `json:"tax_total"`
	GrandTotal decimal.Decimal `json:"grand_total"`

	// Flipped exactly once, inside the transaction that creates the
	// derived invoice.
	IsInvoiceCreated bool `json:"is_invoice_created"`

	Items []QuotationItem `json:"items,omitempty"`

	AuditFields
}

// Invoice bills a customer, optionally derived from a quotation.
type Invoice struct {
	InvoiceID     string     `json:"id"`
	InvoiceNumber string     `json:"invoice_number"` // unique, INV-YYYY-NNN
	ValidUntil    *time.Time `json:"valid_until"`

	QuotationID *string    `json:"-"`
	Quotation   *Quotation `json:"quotation,omitempty"`

	CustomerID string  `json:"-"`
	Customer   *Client `json:"customer,omitempty"`

	JobFileID *string  `json:"-"`
	JobFile   *JobFile `json:"job_file,omitempty"`

	Subcategories []Subcategory `json:"subcategories,omitempty"`

	ShipmentDetails

	Notes *string `json:"notes"`

	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxTotal   decimal.Decimal `json:"tax_total"`
	GrandTotal decimal.Decimal `json:"grand_total"`

	Items []InvoiceItem `json:"items,omitempty"`

	AuditFields
}

// QuotationItem is a single line on a quotation. LineTotal is the
// pre-tax amount; tax is aggregated at the document level only.
type QuotationItem struct {
	ItemID      string          `json:"id"`
	QuotationID string          `json:"quotation_id"`
	ProductID   string          `json:"product_id"`
	TaxID       *string         `json:"tax_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceItem is a single line on an invoice.
type InvoiceItem struct {
	ItemID    string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	ProductID string          `json:"product_id"`
	TaxID     *string         `json:"tax_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}
