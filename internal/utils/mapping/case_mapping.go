package mapping

import (
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/SscSPs/mortuary_billing_app/internal/models"
)

// ToModelCase converts a domain Case to a model Case
func ToModelCase(d domain.Case) models.Case {
	return models.Case{
		ID:               d.ID,
		CaseID:           d.CaseID,
		DeceasedName:     d.DeceasedName,
		RateCategory:     string(d.RateCategory),
		Currency:         string(d.Currency),
		DailyRateUSD:     ToStoredAmount(d.DailyRateUSD),
		FXRateKESPerUSD:  ToStoredAmount(d.FXRateKESPerUSD),
		AdmittedAt:       d.AdmittedAt,
		LastChargeUpdate: d.LastChargeUpdate,
		TotalCharge:      ToStoredAmount(nullOf(d.TotalCharge)),
		Balance:          ToStoredAmount(nullOf(d.Balance)),
		EmbalmingCost:    ToStoredAmount(d.EmbalmingCost),
		Status:           string(d.Status),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCase converts a model Case to a domain Case. Unreadable totals are
// reported as zero; the next reconciliation rewrites them.
func ToDomainCase(m models.Case) domain.Case {
	return domain.Case{
		ID:               m.ID,
		CaseID:           m.CaseID,
		DeceasedName:     m.DeceasedName,
		RateCategory:     domain.RateCategory(m.RateCategory),
		Currency:         domain.CurrencyCode(m.Currency),
		DailyRateUSD:     ParseStoredAmount(m.DailyRateUSD),
		FXRateKESPerUSD:  ParseStoredAmount(m.FXRateKESPerUSD),
		AdmittedAt:       m.AdmittedAt,
		LastChargeUpdate: m.LastChargeUpdate,
		TotalCharge:      ParseStoredAmount(m.TotalCharge).Decimal,
		Balance:          ParseStoredAmount(m.Balance).Decimal,
		EmbalmingCost:    ParseStoredAmount(m.EmbalmingCost),
		Status:           domain.CaseStatus(m.Status),
		AuditFields:      ToDomainAuditFields(m.AuditFields),

		EmbalmingCostUnreadable: IsUnreadableAmount(m.EmbalmingCost),
	}
}
