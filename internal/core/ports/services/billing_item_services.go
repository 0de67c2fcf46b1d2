package services

import (
	"context"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
)

// CoffinSvcFacade covers the coffin catalog and per-case assignments.
type CoffinSvcFacade interface {
	CreateCoffin(ctx context.Context, req dto.CreateCoffinRequest, userID string) (*domain.Coffin, error)
	ListCoffins(ctx context.Context) ([]domain.Coffin, error)

	// AssignCoffin snapshots the catalog price onto a new active assignment
	// and supersedes the previous one.
	AssignCoffin(ctx context.Context, caseID string, req dto.AssignCoffinRequest, userID string) (*domain.CoffinAssignment, domain.BalanceRefresh, error)
	ListAssignments(ctx context.Context, caseID string) ([]domain.CoffinAssignment, error)
}

// ExtraChargeSvcFacade covers ad-hoc service charges.
type ExtraChargeSvcFacade interface {
	CreateExtraCharge(ctx context.Context, caseID string, req dto.CreateExtraChargeRequest, userID string) (*domain.ExtraCharge, domain.BalanceRefresh, error)
	UpdateExtraChargeStatus(ctx context.Context, chargeID string, req dto.UpdateExtraChargeStatusRequest, userID string) (*domain.ExtraCharge, domain.BalanceRefresh, error)
	ListExtraCharges(ctx context.Context, caseID string) ([]domain.ExtraCharge, error)
}

// PaymentSvcFacade is append-only.
type PaymentSvcFacade interface {
	RecordPayment(ctx context.Context, caseID string, req dto.RecordPaymentRequest, userID string) (*domain.Payment, domain.BalanceRefresh, error)
	ListPayments(ctx context.Context, caseID string) ([]domain.Payment, error)
}
