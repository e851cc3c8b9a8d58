package domain

import "github.com/shopspring/decimal"

// Client is a customer of the freight-forwarding business.
type Client struct {
	ClientID string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// JobFile groups documents under a freight job (serves as the document category).
type JobFile struct {
	JobFileID string `json:"id"`
	Title     string `json:"title"`
}

// ServiceDetail is a service offered on a quotation (many-to-many).
type ServiceDetail struct {
	ServiceDetailID string `json:"id"`
	Title           string `json:"title"`
}

// Subcategory is a service grouping attached to invoices (many-to-many).
type Subcategory struct {
	SubcategoryID string `json:"id"`
	Title         string `json:"title"`
}

// Product is a billable line-item product.
type Product struct {
	ProductID string `json:"id"`
	Name      string `json:"name"`
}

// Tax is a named percentage applied to a document line.
type Tax struct {
	TaxID string          `json:"id"`
	Title string          `json:"title"`
	Value decimal.Decimal `json:"value"` // percentage, e.g. 5.00
}
