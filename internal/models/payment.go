package models

import "time"

// Payment is a row of payments.
type Payment struct {
	PaymentID     string    `db:"payment_id"`
	CaseID        int64     `db:"case_id"`
	Amount        *string   `db:"amount"`
	Method        string    `db:"method"`
	ReferenceCode string    `db:"reference_code"`
	PaymentDate   time.Time `db:"payment_date"`
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
}
