package services

import "context"

// ServiceContainer holds instances of all the application services.
// Handlers receive it from main.
type ServiceContainer struct {
	Case           CaseSvcFacade
	Coffin         CoffinSvcFacade
	ExtraCharge    ExtraChargeSvcFacade
	Payment        PaymentSvcFacade
	ChargeHistory  ChargeHistorySvc
	Reconciliation ReconciliationSvc
	// Trigger is set by main once the scheduler exists. It may be nil when
	// background reconciliation is disabled.
	Trigger ReconcileTrigger
}

// ReconcileTrigger starts a full reconciliation pass without waiting for it.
type ReconcileTrigger interface {
	// Trigger returns false when a pass is already running.
	Trigger(ctx context.Context) bool
}
