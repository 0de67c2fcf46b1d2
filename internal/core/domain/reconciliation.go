package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationOutcome is the result of recomputing one case.
type ReconciliationOutcome struct {
	CaseID             string          `json:"caseID"`
	Currency           CurrencyCode    `json:"currency"`
	StorageDays        decimal.Decimal `json:"storageDays"`
	StorageCharge      decimal.Decimal `json:"storageCharge"`
	CoffinCharges      decimal.Decimal `json:"coffinCharges"`
	ExtraCharges       decimal.Decimal `json:"extraCharges"`
	Embalming          decimal.Decimal `json:"embalming"`
	TotalCharge        decimal.Decimal `json:"totalCharge"`
	TotalPayments      decimal.Decimal `json:"totalPayments"`
	Balance            decimal.Decimal `json:"balance"`
	IncrementalStorage decimal.Decimal `json:"incrementalStorage"`
	LastChargeUpdate   time.Time       `json:"lastChargeUpdate"`
	// Skipped is set for completed cases, whose stored totals are returned as is.
	Skipped      bool     `json:"skipped"`
	AuditWritten bool     `json:"auditWritten"`
	AuditError   error    `json:"-"`
	Warnings     []string `json:"warnings,omitempty"`
}

// CaseFailure records why one case could not be reconciled in a batch.
type CaseFailure struct {
	CaseID string `json:"caseID"`
	Reason string `json:"reason"`
}

// BatchReport summarises a ReconcileAll pass.
type BatchReport struct {
	RunID     string    `json:"runID"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	// TotalIncrementalCharge is kept per currency; KES and USD are never summed.
	TotalIncrementalCharge map[CurrencyCode]decimal.Decimal `json:"totalIncrementalCharge"`
	AuditFailures          int                              `json:"auditFailures"`
	Failures               []CaseFailure                    `json:"failures,omitempty"`
	Cancelled              bool                             `json:"cancelled"`
}

// BalanceRefresh reports the synchronous reconcile that follows a mutating
// call. When Err is set, LastKnown holds the case as it was before the write.
type BalanceRefresh struct {
	Outcome   *ReconciliationOutcome
	LastKnown Case
	Err       error
}

// Stale reports whether the refresh failed and LastKnown must be shown instead.
func (r BalanceRefresh) Stale() bool {
	return r.Err != nil || r.Outcome == nil
}
