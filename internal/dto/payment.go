package dto

import (
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest records money received against a case.
type RecordPaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Method        string           `json:"method" binding:"required,oneof=cash mpesa bank_transfer card cheque"`
	ReferenceCode string           `json:"referenceCode" binding:"required,max=128"`
	PaymentDate   *time.Time       `json:"paymentDate"` // defaults to now
}

// PaymentResponse is the API view of a payment.
type PaymentResponse struct {
	PaymentID     string               `json:"paymentID"`
	CaseID        string               `json:"caseID"`
	Amount        *decimal.Decimal     `json:"amount"`
	Method        domain.PaymentMethod `json:"method"`
	ReferenceCode string               `json:"referenceCode"`
	PaymentDate   time.Time            `json:"paymentDate"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
}

// ToPaymentResponse converts a domain.Payment. caseID is the external id.
func ToPaymentResponse(caseID string, p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		CaseID:        caseID,
		Amount:        nullableToPtr(p.Amount),
		Method:        p.Method,
		ReferenceCode: p.ReferenceCode,
		PaymentDate:   p.PaymentDate,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
	}
}

// ToListPaymentResponse converts a slice of payments.
func ToListPaymentResponse(caseID string, list []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(list))
	for i := range list {
		out[i] = ToPaymentResponse(caseID, &list[i])
	}
	return out
}

// PaymentWithBalanceResponse is returned by RecordPayment.
type PaymentWithBalanceResponse struct {
	Payment PaymentResponse `json:"payment"`
	Billing BalanceView     `json:"billing"`
}
