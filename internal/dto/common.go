package dto

import (
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

const staleBalanceMessage = "could not refresh balance, showing last known value"

// ListParams is the pagination query shared by list endpoints.
type ListParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=200"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// BalanceView is attached to every response of a write that moves money.
type BalanceView struct {
	CaseID      string              `json:"caseID"`
	Currency    domain.CurrencyCode `json:"currency"`
	TotalCharge decimal.Decimal     `json:"totalCharge"`
	Balance     decimal.Decimal     `json:"balance"`
	Refreshed   bool                `json:"refreshed"`
	Message     string              `json:"message,omitempty"`
}

// ToBalanceView shows the fresh totals, or the last known ones when the
// refresh failed.
func ToBalanceView(r domain.BalanceRefresh) BalanceView {
	if r.Stale() {
		return BalanceView{
			CaseID:      r.LastKnown.CaseID,
			Currency:    r.LastKnown.Currency,
			TotalCharge: r.LastKnown.TotalCharge,
			Balance:     r.LastKnown.Balance,
			Refreshed:   false,
			Message:     staleBalanceMessage,
		}
	}
	return BalanceView{
		CaseID:      r.Outcome.CaseID,
		Currency:    r.Outcome.Currency,
		TotalCharge: r.Outcome.TotalCharge,
		Balance:     r.Outcome.Balance,
		Refreshed:   true,
	}
}

func nullableToPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
