package dto

import (
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCoffinRequest adds a catalog entry.
type CreateCoffinRequest struct {
	CoffinID        string           `json:"coffinID" binding:"required,max=64"`
	Name            string           `json:"name" binding:"required,max=255"`
	UnitPrice       *decimal.Decimal `json:"unitPrice" binding:"required"`
	Currency        string           `json:"currency" binding:"required,currency"`
	FXRateKESPerUSD *decimal.Decimal `json:"fxRateKESPerUSD"`
}

// AssignCoffinRequest attaches a catalog coffin to a case.
type AssignCoffinRequest struct {
	CoffinID string `json:"coffinID" binding:"required"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1,max=10"` // defaults to 1
}

// CoffinResponse is the API view of a catalog entry.
type CoffinResponse struct {
	CoffinID        string              `json:"coffinID"`
	Name            string              `json:"name"`
	UnitPrice       decimal.Decimal     `json:"unitPrice"`
	Currency        domain.CurrencyCode `json:"currency"`
	FXRateKESPerUSD *decimal.Decimal    `json:"fxRateKESPerUSD,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	CreatedBy       string              `json:"createdBy"`
}

// ToCoffinResponse converts a domain.Coffin to CoffinResponse DTO
func ToCoffinResponse(c *domain.Coffin) CoffinResponse {
	return CoffinResponse{
		CoffinID:        c.CoffinID,
		Name:            c.Name,
		UnitPrice:       c.UnitPrice,
		Currency:        c.Currency,
		FXRateKESPerUSD: nullableToPtr(c.FXRateKESPerUSD),
		CreatedAt:       c.CreatedAt,
		CreatedBy:       c.CreatedBy,
	}
}

// ToListCoffinResponse converts a slice of coffins.
func ToListCoffinResponse(coffins []domain.Coffin) []CoffinResponse {
	out := make([]CoffinResponse, len(coffins))
	for i := range coffins {
		out[i] = ToCoffinResponse(&coffins[i])
	}
	return out
}

// CoffinAssignmentResponse is the API view of an assignment.
type CoffinAssignmentResponse struct {
	AssignmentID    string                  `json:"assignmentID"`
	CoffinID        string                  `json:"coffinID"`
	UnitPrice       *decimal.Decimal        `json:"unitPrice"`
	Currency        domain.CurrencyCode     `json:"currency"`
	Quantity        int                     `json:"quantity"`
	FXRateKESPerUSD *decimal.Decimal        `json:"fxRateKESPerUSD,omitempty"`
	Status          domain.AssignmentStatus `json:"status"`
	AssignedAt      time.Time               `json:"assignedAt"`
	AssignedBy      string                  `json:"assignedBy"`
}

// ToCoffinAssignmentResponse converts a domain.CoffinAssignment.
func ToCoffinAssignmentResponse(a *domain.CoffinAssignment) CoffinAssignmentResponse {
	return CoffinAssignmentResponse{
		AssignmentID:    a.AssignmentID,
		CoffinID:        a.CoffinID,
		UnitPrice:       nullableToPtr(a.UnitPrice),
		Currency:        a.Currency,
		Quantity:        a.Quantity,
		FXRateKESPerUSD: nullableToPtr(a.FXRateKESPerUSD),
		Status:          a.Status,
		AssignedAt:      a.AssignedAt,
		AssignedBy:      a.CreatedBy,
	}
}

// ToListCoffinAssignmentResponse converts a slice of assignments.
func ToListCoffinAssignmentResponse(list []domain.CoffinAssignment) []CoffinAssignmentResponse {
	out := make([]CoffinAssignmentResponse, len(list))
	for i := range list {
		out[i] = ToCoffinAssignmentResponse(&list[i])
	}
	return out
}

// CoffinAssignmentWithBalanceResponse is returned by AssignCoffin.
type CoffinAssignmentWithBalanceResponse struct {
	Assignment CoffinAssignmentResponse `json:"assignment"`
	Billing    BalanceView              `json:"billing"`
}
