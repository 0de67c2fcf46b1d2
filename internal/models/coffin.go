package models

import "time"

// Coffin is a row of the coffins catalog.
type Coffin struct {
	CoffinID        string  `db:"coffin_id"`
	Name            string  `db:"name"`
	UnitPrice       *string `db:"unit_price"`
	Currency        string  `db:"currency"`
	FXRateKESPerUSD *string `db:"fx_rate_kes_per_usd"`
	AuditFields
}

// CoffinAssignment is a row of coffin_assignments.
type CoffinAssignment struct {
	AssignmentID    string    `db:"assignment_id"`
	CaseID          int64     `db:"case_id"`
	CoffinID        string    `db:"coffin_id"`
	UnitPrice       *string   `db:"unit_price"`
	Currency        string    `db:"currency"`
	Quantity        int       `db:"quantity"`
	FXRateKESPerUSD *string   `db:"fx_rate_kes_per_usd"`
	Status          string    `db:"status"`
	AssignedAt      time.Time `db:"assigned_at"`
	AuditFields
}
