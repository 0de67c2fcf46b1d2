package services

import (
	"github.com/SscSPs/mortuary_billing_app/internal/cache"
	"github.com/SscSPs/mortuary_billing_app/internal/clock"
	portsrepo "github.com/SscSPs/mortuary_billing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/metrics"
	"github.com/SscSPs/mortuary_billing_app/internal/platform/config"
	"github.com/SscSPs/mortuary_billing_app/internal/utils/billing"
)

// Infrastructure carries the process-wide collaborators shared by services.
type Infrastructure struct {
	Clock     clock.Clock
	Metrics   *metrics.Recorder
	CaseCache *cache.CaseCache
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, infra Infrastructure) *portssvc.ServiceContainer {
	if infra.Clock == nil {
		infra.Clock = clock.New()
	}
	if infra.Metrics == nil {
		infra.Metrics = metrics.NewRecorder(nil)
	}

	container := &portssvc.ServiceContainer{}

	container.ChargeHistory = NewChargeHistoryService(repos.ChargeHistoryRepo, repos.CaseRepo, infra.Metrics)

	container.Reconciliation = NewReconciliationService(
		repos.CaseRepo,
		repos.CoffinRepo,
		repos.ExtraChargeRepo,
		repos.PaymentRepo,
		container.ChargeHistory,
		WithRateTable(billing.RateTable{
			PremiumKES:  cfg.RatePremiumKES,
			StandardKES: cfg.RateStandardKES,
			DefaultUSD:  cfg.RateDefaultUSD,
		}),
		WithAuditEpsilon(cfg.AuditEpsilon),
		WithWorkers(cfg.ReconcileWorkers),
		WithClock(infra.Clock),
		WithMetrics(infra.Metrics),
		WithCaseCache(infra.CaseCache),
	)

	container.Case = NewCaseService(repos.CaseRepo, container.Reconciliation, infra.CaseCache, infra.Clock)
	container.Coffin = NewCoffinService(repos.CoffinRepo, repos.CaseRepo, container.Reconciliation, infra.Clock)
	container.ExtraCharge = NewExtraChargeService(repos.ExtraChargeRepo, repos.CaseRepo, container.Reconciliation, infra.Clock)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.CaseRepo, container.Reconciliation, infra.Clock)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CaseSvcFacade        = (*caseService)(nil)
	_ portssvc.CoffinSvcFacade      = (*coffinService)(nil)
	_ portssvc.ExtraChargeSvcFacade = (*extraChargeService)(nil)
	_ portssvc.PaymentSvcFacade     = (*paymentService)(nil)
	_ portssvc.ReconciliationSvc    = (*reconciliationService)(nil)
	_ portssvc.ChargeHistorySvc     = (*chargeHistoryService)(nil)
)
