package mapping

import (
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/SscSPs/mortuary_billing_app/internal/models"
	"github.com/shopspring/decimal"
)

func nullOf(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

// ToModelExtraCharge converts a domain ExtraCharge to a model ExtraCharge
func ToModelExtraCharge(d domain.ExtraCharge) models.ExtraCharge {
	return models.ExtraCharge{
		ChargeID:    d.ChargeID,
		CaseID:      d.CaseID,
		Amount:      ToStoredAmount(d.Amount),
		Status:      string(d.Status),
		ServiceDate: d.ServiceDate,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExtraCharge converts a model ExtraCharge to a domain ExtraCharge
func ToDomainExtraCharge(m models.ExtraCharge) domain.ExtraCharge {
	return domain.ExtraCharge{
		ChargeID:    m.ChargeID,
		CaseID:      m.CaseID,
		Amount:      ParseStoredAmount(m.Amount),
		Status:      domain.ExtraChargeStatus(m.Status),
		ServiceDate: m.ServiceDate,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:     d.PaymentID,
		CaseID:        d.CaseID,
		Amount:        ToStoredAmount(d.Amount),
		Method:        string(d.Method),
		ReferenceCode: d.ReferenceCode,
		PaymentDate:   d.PaymentDate,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     m.PaymentID,
		CaseID:        m.CaseID,
		Amount:        ParseStoredAmount(m.Amount),
		Method:        domain.PaymentMethod(m.Method),
		ReferenceCode: m.ReferenceCode,
		PaymentDate:   m.PaymentDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.CreatedAt,
			LastUpdatedBy: m.CreatedBy,
		},
	}
}

// ToModelChargeHistory converts a domain ChargeHistoryEntry to a model ChargeHistory
func ToModelChargeHistory(d domain.ChargeHistoryEntry) models.ChargeHistory {
	return models.ChargeHistory{
		EntryID:     d.EntryID,
		CaseID:      d.CaseID,
		ChargeType:  string(d.ChargeType),
		Amount:      d.Amount,
		Currency:    string(d.Currency),
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainChargeHistory converts a model ChargeHistory to a domain ChargeHistoryEntry
func ToDomainChargeHistory(m models.ChargeHistory) domain.ChargeHistoryEntry {
	return domain.ChargeHistoryEntry{
		EntryID:     m.EntryID,
		CaseID:      m.CaseID,
		ChargeType:  domain.ChargeType(m.ChargeType),
		Amount:      m.Amount,
		Currency:    domain.CurrencyCode(m.Currency),
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
