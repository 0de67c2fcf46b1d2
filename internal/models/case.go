package models

import "time"

// Case is a row of the cases table. Money columns are NUMERIC in the database
// and are selected as text so that NULL or NaN values can be detected.
type Case struct {
	ID               int64      `db:"id"`
	CaseID           string     `db:"case_id"`
	DeceasedName     string     `db:"deceased_name"`
	RateCategory     string     `db:"rate_category"`
	Currency         string     `db:"currency"`
	DailyRateUSD     *string    `db:"daily_rate_usd"`
	FXRateKESPerUSD  *string    `db:"fx_rate_kes_per_usd"`
	AdmittedAt       time.Time  `db:"admitted_at"`
	LastChargeUpdate *time.Time `db:"last_charge_update"`
	TotalCharge      *string    `db:"total_charge"`
	Balance          *string    `db:"balance"`
	EmbalmingCost    *string    `db:"embalming_cost"`
	Status           string     `db:"status"`
	AuditFields
}
