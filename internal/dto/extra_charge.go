package dto

import (
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExtraChargeRequest records an ad-hoc service charge.
type CreateExtraChargeRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Description string           `json:"description" binding:"required,max=500"`
	ServiceDate *time.Time       `json:"serviceDate"` // defaults to now
}

// UpdateExtraChargeStatusRequest moves a charge along its lifecycle.
type UpdateExtraChargeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending invoiced paid cancelled"`
}

// ExtraChargeResponse is the API view of an extra charge.
type ExtraChargeResponse struct {
	ChargeID      string                   `json:"chargeID"`
	CaseID        string                   `json:"caseID"`
	Amount        *decimal.Decimal         `json:"amount"`
	Status        domain.ExtraChargeStatus `json:"status"`
	ServiceDate   time.Time                `json:"serviceDate"`
	Description   string                   `json:"description"`
	CreatedAt     time.Time                `json:"createdAt"`
	CreatedBy     string                   `json:"createdBy"`
	LastUpdatedAt time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy string                   `json:"lastUpdatedBy"`
}

// ToExtraChargeResponse converts a domain.ExtraCharge. caseID is the external id.
func ToExtraChargeResponse(caseID string, c *domain.ExtraCharge) ExtraChargeResponse {
	return ExtraChargeResponse{
		ChargeID:      c.ChargeID,
		CaseID:        caseID,
		Amount:        nullableToPtr(c.Amount),
		Status:        c.Status,
		ServiceDate:   c.ServiceDate,
		Description:   c.Description,
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedAt: c.LastUpdatedAt,
		LastUpdatedBy: c.LastUpdatedBy,
	}
}

// ToListExtraChargeResponse converts a slice of extra charges.
func ToListExtraChargeResponse(caseID string, list []domain.ExtraCharge) []ExtraChargeResponse {
	out := make([]ExtraChargeResponse, len(list))
	for i := range list {
		out[i] = ToExtraChargeResponse(caseID, &list[i])
	}
	return out
}

// ExtraChargeWithBalanceResponse is returned by extra charge writes.
type ExtraChargeWithBalanceResponse struct {
	Charge  ExtraChargeResponse `json:"charge"`
	Billing BalanceView         `json:"billing"`
}
