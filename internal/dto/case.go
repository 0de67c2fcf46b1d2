package dto

import (
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCaseRequest is the intake form.
type CreateCaseRequest struct {
	CaseID          string           `json:"caseID" binding:"required,max=64"`
	DeceasedName    string           `json:"deceasedName" binding:"required,max=255"`
	RateCategory    string           `json:"rateCategory" binding:"required,ratecategory"`
	Currency        string           `json:"currency" binding:"required,currency"`
	DailyRateUSD    *decimal.Decimal `json:"dailyRateUSD"`
	FXRateKESPerUSD *decimal.Decimal `json:"fxRateKESPerUSD"`
	EmbalmingCost   *decimal.Decimal `json:"embalmingCost"`
	AdmittedAt      *time.Time       `json:"admittedAt"` // defaults to now
}

// UpdateEmbalmingRequest sets the embalming cost. A null value clears it.
type UpdateEmbalmingRequest struct {
	EmbalmingCost *decimal.Decimal `json:"embalmingCost"`
}

// UpdateCaseStatusRequest moves a case between its open states.
type UpdateCaseStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=admitted in_storage released"`
}

// ListCasesParams filters the case list.
type ListCasesParams struct {
	ListParams
	Status string `form:"status" binding:"omitempty,oneof=admitted in_storage released complete"`
}

// CaseResponse is the API view of a case.
type CaseResponse struct {
	CaseID           string               `json:"caseID"`
	DeceasedName     string               `json:"deceasedName"`
	RateCategory     domain.RateCategory  `json:"rateCategory"`
	Currency         domain.CurrencyCode  `json:"currency"`
	DailyRateUSD     *decimal.Decimal     `json:"dailyRateUSD,omitempty"`
	FXRateKESPerUSD  *decimal.Decimal     `json:"fxRateKESPerUSD,omitempty"`
	AdmittedAt       time.Time            `json:"admittedAt"`
	LastChargeUpdate *time.Time           `json:"lastChargeUpdate,omitempty"`
	TotalCharge      decimal.Decimal      `json:"totalCharge"`
	Balance          decimal.Decimal      `json:"balance"`
	EmbalmingCost    *decimal.Decimal     `json:"embalmingCost,omitempty"`
	Status           domain.CaseStatus    `json:"status"`
	CreatedAt        time.Time            `json:"createdAt"`
	CreatedBy        string               `json:"createdBy"`
	LastUpdatedAt    time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy    string               `json:"lastUpdatedBy"`
}

// ToCaseResponse converts a domain.Case to CaseResponse DTO
func ToCaseResponse(c *domain.Case) CaseResponse {
	return CaseResponse{
		CaseID:           c.CaseID,
		DeceasedName:     c.DeceasedName,
		RateCategory:     c.RateCategory,
		Currency:         c.Currency,
		DailyRateUSD:     nullableToPtr(c.DailyRateUSD),
		FXRateKESPerUSD:  nullableToPtr(c.FXRateKESPerUSD),
		AdmittedAt:       c.AdmittedAt,
		LastChargeUpdate: c.LastChargeUpdate,
		TotalCharge:      c.TotalCharge,
		Balance:          c.Balance,
		EmbalmingCost:    nullableToPtr(c.EmbalmingCost),
		Status:           c.Status,
		CreatedAt:        c.CreatedAt,
		CreatedBy:        c.CreatedBy,
		LastUpdatedAt:    c.LastUpdatedAt,
		LastUpdatedBy:    c.LastUpdatedBy,
	}
}

// ToListCaseResponse converts a slice of cases.
func ToListCaseResponse(cases []domain.Case) []CaseResponse {
	out := make([]CaseResponse, len(cases))
	for i := range cases {
		out[i] = ToCaseResponse(&cases[i])
	}
	return out
}

// CaseWithBalanceResponse is returned by case writes that trigger a reconcile.
type CaseWithBalanceResponse struct {
	Case    CaseResponse `json:"case"`
	Billing BalanceView  `json:"billing"`
}

// CompleteCaseResponse carries the final reconciliation of a closed case.
type CompleteCaseResponse struct {
	Case        CaseResponse                  `json:"case"`
	FinalCharge *domain.ReconciliationOutcome `json:"finalCharge"`
}
