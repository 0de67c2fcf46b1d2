package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coffin is a priced catalog unit.
type Coffin struct {
	CoffinID        string              `json:"coffinID"`
	Name            string              `json:"name"`
	UnitPrice       decimal.Decimal     `json:"unitPrice"`
	Currency        CurrencyCode        `json:"currency"`
	FXRateKESPerUSD decimal.NullDecimal `json:"fxRateKESPerUSD"`
	AuditFields
}

// AssignmentStatus marks whether a coffin assignment contributes to billing.
type AssignmentStatus string

const (
	AssignmentActive     AssignmentStatus = "active"
	AssignmentSuperseded AssignmentStatus = "superseded"
)

// CoffinAssignment links a case to a catalog coffin. Price, currency and rate
// are copied from the catalog at assignment time.
type CoffinAssignment struct {
	AssignmentID    string              `json:"assignmentID"`
	CaseID          int64               `json:"caseID"`
	CoffinID        string              `json:"coffinID"`
	UnitPrice       decimal.NullDecimal `json:"unitPrice"`
	Currency        CurrencyCode        `json:"currency"`
	Quantity        int                 `json:"quantity"`
	FXRateKESPerUSD decimal.NullDecimal `json:"fxRateKESPerUSD"`
	Status          AssignmentStatus    `json:"status"`
	AssignedAt      time.Time           `json:"assignedAt"`
	AuditFields
}
