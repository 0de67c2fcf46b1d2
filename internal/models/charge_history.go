package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeHistory is a row of the append-only charge_history table.
type ChargeHistory struct {
	EntryID     string          `db:"entry_id"`
	CaseID      int64           `db:"case_id"`
	ChargeType  string          `db:"charge_type"`
	Amount      decimal.Decimal `db:"amount"`
	Currency    string          `db:"currency"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}
