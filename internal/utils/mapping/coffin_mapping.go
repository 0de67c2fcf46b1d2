package mapping

import (
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/SscSPs/mortuary_billing_app/internal/models"
)

// ToModelCoffin converts a domain Coffin to a model Coffin
func ToModelCoffin(d domain.Coffin) models.Coffin {
	return models.Coffin{
		CoffinID:        d.CoffinID,
		Name:            d.Name,
		UnitPrice:       ToStoredAmount(nullOf(d.UnitPrice)),
		Currency:        string(d.Currency),
		FXRateKESPerUSD: ToStoredAmount(d.FXRateKESPerUSD),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCoffin converts a model Coffin to a domain Coffin
func ToDomainCoffin(m models.Coffin) domain.Coffin {
	return domain.Coffin{
		CoffinID:        m.CoffinID,
		Name:            m.Name,
		UnitPrice:       ParseStoredAmount(m.UnitPrice).Decimal,
		Currency:        domain.CurrencyCode(m.Currency),
		FXRateKESPerUSD: ParseStoredAmount(m.FXRateKESPerUSD),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCoffinAssignment converts a domain CoffinAssignment to a model CoffinAssignment
func ToModelCoffinAssignment(d domain.CoffinAssignment) models.CoffinAssignment {
	return models.CoffinAssignment{
		AssignmentID:    d.AssignmentID,
		CaseID:          d.CaseID,
		CoffinID:        d.CoffinID,
		UnitPrice:       ToStoredAmount(d.UnitPrice),
		Currency:        string(d.Currency),
		Quantity:        d.Quantity,
		FXRateKESPerUSD: ToStoredAmount(d.FXRateKESPerUSD),
		Status:          string(d.Status),
		AssignedAt:      d.AssignedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCoffinAssignment converts a model CoffinAssignment to a domain CoffinAssignment
func ToDomainCoffinAssignment(m models.CoffinAssignment) domain.CoffinAssignment {
	return domain.CoffinAssignment{
		AssignmentID:    m.AssignmentID,
		CaseID:          m.CaseID,
		CoffinID:        m.CoffinID,
		UnitPrice:       ParseStoredAmount(m.UnitPrice),
		Currency:        domain.CurrencyCode(m.Currency),
		Quantity:        m.Quantity,
		FXRateKESPerUSD: ParseStoredAmount(m.FXRateKESPerUSD),
		Status:          domain.AssignmentStatus(m.Status),
		AssignedAt:      m.AssignedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
