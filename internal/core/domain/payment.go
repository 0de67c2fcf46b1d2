package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was received.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentMpesa        PaymentMethod = "mpesa"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCard         PaymentMethod = "card"
	PaymentCheque       PaymentMethod = "cheque"
)

// IsValid reports whether the method is known.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentMpesa, PaymentBankTransfer, PaymentCard, PaymentCheque:
		return true
	}
	return false
}

// Payment is a received amount against a case. Payments are append-only.
type Payment struct {
	PaymentID     string              `json:"paymentID"`
	CaseID        int64               `json:"caseID"`
	Amount        decimal.NullDecimal `json:"amount"`
	Method        PaymentMethod       `json:"method"`
	ReferenceCode string              `json:"referenceCode"`
	PaymentDate   time.Time           `json:"paymentDate"`
	AuditFields
}
