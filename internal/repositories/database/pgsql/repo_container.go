package pgsql

import (
	portsrepo "github.com/SscSPs/mortuary_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CaseRepo:          newPgxCaseRepository(dbPool),
		CoffinRepo:        newPgxCoffinRepository(dbPool),
		ExtraChargeRepo:   newPgxExtraChargeRepository(dbPool),
		PaymentRepo:       newPgxPaymentRepository(dbPool),
		ChargeHistoryRepo: newPgxChargeHistoryRepository(dbPool),
	}
}
