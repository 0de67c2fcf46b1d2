package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtraChargeStatus is the lifecycle state of an ad hoc service line.
type ExtraChargeStatus string

const (
	ExtraChargePending   ExtraChargeStatus = "pending"
	ExtraChargeInvoiced  ExtraChargeStatus = "invoiced"
	ExtraChargePaid      ExtraChargeStatus = "paid"
	ExtraChargeCancelled ExtraChargeStatus = "cancelled"
)

var extraChargeTransitions = map[ExtraChargeStatus][]ExtraChargeStatus{
	ExtraChargePending:  {ExtraChargeInvoiced, ExtraChargePaid, ExtraChargeCancelled},
	ExtraChargeInvoiced: {ExtraChargePaid, ExtraChargeCancelled},
}

// IsValid reports whether the status is known.
func (s ExtraChargeStatus) IsValid() bool {
	switch s {
	case ExtraChargePending, ExtraChargeInvoiced, ExtraChargePaid, ExtraChargeCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a charge in status s may move to next.
// Paid and cancelled charges are immutable.
func (s ExtraChargeStatus) CanTransitionTo(next ExtraChargeStatus) bool {
	for _, allowed := range extraChargeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ExtraCharge is a billable service line outside storage and coffin costs.
type ExtraCharge struct {
	ChargeID    string              `json:"chargeID"`
	CaseID      int64               `json:"caseID"`
	Amount      decimal.NullDecimal `json:"amount"`
	Status      ExtraChargeStatus   `json:"status"`
	ServiceDate time.Time           `json:"serviceDate"`
	Description string              `json:"description"`
	AuditFields
}
