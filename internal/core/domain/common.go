package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	IsActive  bool      `json:"is_active"`
	CreatedBy *string   `json:"created_by"` // UserID reference, nullable for seeded rows
	UpdatedBy *string   `json:"updated_by"` // UserID reference
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
