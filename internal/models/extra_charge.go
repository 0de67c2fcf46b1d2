package models

import "time"

// ExtraCharge is a row of extra_charges.
type ExtraCharge struct {
	ChargeID    string    `db:"charge_id"`
	CaseID      int64     `db:"case_id"`
	Amount      *string   `db:"amount"`
	Status      string    `db:"status"`
	ServiceDate time.Time `db:"service_date"`
	Description string    `db:"description"`
	AuditFields
}
