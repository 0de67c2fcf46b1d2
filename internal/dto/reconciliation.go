package dto

import (
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ChargeHistoryResponse is one audit entry.
type ChargeHistoryResponse struct {
	EntryID     string              `json:"entryID"`
	ChargeType  domain.ChargeType   `json:"chargeType"`
	Amount      decimal.Decimal     `json:"amount"`
	Currency    domain.CurrencyCode `json:"currency"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// ToListChargeHistoryResponse converts audit entries.
func ToListChargeHistoryResponse(entries []domain.ChargeHistoryEntry) []ChargeHistoryResponse {
	out := make([]ChargeHistoryResponse, len(entries))
	for i, e := range entries {
		out[i] = ChargeHistoryResponse{
			EntryID:     e.EntryID,
			ChargeType:  e.ChargeType,
			Amount:      e.Amount,
			Currency:    e.Currency,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		}
	}
	return out
}

// ReconcileResponse is returned by the manual per-case reconcile.
type ReconcileResponse struct {
	Outcome      *domain.ReconciliationOutcome `json:"outcome"`
	AuditWarning string                        `json:"auditWarning,omitempty"`
}

// TriggerRunResponse acknowledges an on-demand batch.
type TriggerRunResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}
