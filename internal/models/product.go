package models

import "time"

// Product represents a submitted product. Products are immutable once created:
// the intake flow defines no update or delete operations.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CompanyID   int       `db:"company_id" json:"companyId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
