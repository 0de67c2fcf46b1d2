package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CaseRepo          CaseRepositoryWithTx
	CoffinRepo        CoffinRepositoryFacade
	ExtraChargeRepo   ExtraChargeRepositoryFacade
	PaymentRepo       PaymentRepositoryFacade
	ChargeHistoryRepo ChargeHistoryRepository
}
