package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateCategory selects the daily storage tariff of a case.
type RateCategory string

const (
	RatePremium  RateCategory = "premium"
	RateStandard RateCategory = "standard"
	RateBasic    RateCategory = "basic"
)

// IsValid reports whether the category is known.
func (r RateCategory) IsValid() bool {
	switch r {
	case RatePremium, RateStandard, RateBasic:
		return true
	}
	return false
}

// CaseStatus tracks a deceased record through the mortuary.
type CaseStatus string

const (
	CaseAdmitted  CaseStatus = "admitted"
	CaseInStorage CaseStatus = "in_storage"
	CaseReleased  CaseStatus = "released"
	CaseComplete  CaseStatus = "complete" // terminal, excluded from accrual
)

func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseAdmitted, CaseInStorage, CaseReleased, CaseComplete:
		return true
	}
	return false
}

// IsTerminal reports whether the case no longer accrues charges.
func (s CaseStatus) IsTerminal() bool {
	return s == CaseComplete
}

// Case is a deceased record being billed for mortuary services.
type Case struct {
	ID           int64        `json:"id"`
	CaseID       string       `json:"caseID"`
	DeceasedName string       `json:"deceasedName"`
	RateCategory RateCategory `json:"rateCategory"`
	Currency     CurrencyCode `json:"currency"`
	// DailyRateUSD is the daily storage tariff for USD-billed cases.
	DailyRateUSD decimal.NullDecimal `json:"dailyRateUSD"`
	// FXRateKESPerUSD is only used for currency conversion, never as a tariff.
	FXRateKESPerUSD  decimal.NullDecimal `json:"fxRateKESPerUSD"`
	AdmittedAt       time.Time           `json:"admittedAt"`
	LastChargeUpdate *time.Time          `json:"lastChargeUpdate"`
	TotalCharge      decimal.Decimal     `json:"totalCharge"`
	Balance          decimal.Decimal     `json:"balance"`
	EmbalmingCost    decimal.NullDecimal `json:"embalmingCost"`
	Status           CaseStatus          `json:"status"`
	// EmbalmingCostUnreadable marks a stored embalming cost that is present but
	// not numeric (NaN, free text). EmbalmingCost is invalid in that case.
	EmbalmingCostUnreadable bool `json:"-"`
	AuditFields
}

// AccrualBaseline is the instant incremental storage is measured from.
func (c Case) AccrualBaseline() time.Time {
	if c.LastChargeUpdate == nil || c.LastChargeUpdate.Before(c.AdmittedAt) {
		return c.AdmittedAt
	}
	return *c.LastChargeUpdate
}
