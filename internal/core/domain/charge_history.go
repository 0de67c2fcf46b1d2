package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeType classifies an audit entry.
type ChargeType string

const (
	ChargeDailyStorage ChargeType = "daily_storage"
)

// ChargeHistoryEntry is an append-only audit record of an incremental charge.
type ChargeHistoryEntry struct {
	EntryID     string          `json:"entryID"`
	CaseID      int64           `json:"caseID"`
	ChargeType  ChargeType      `json:"chargeType"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    CurrencyCode    `json:"currency"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}
