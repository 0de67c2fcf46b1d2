package repositories

import (
	"context"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
)

// ChargeHistoryRepository is the append-only audit trail. Entries are never
// updated or deleted.
type ChargeHistoryRepository interface {
	AppendChargeHistory(ctx context.Context, entry domain.ChargeHistoryEntry) error
	ListChargeHistory(ctx context.Context, caseID int64, limit int, offset int) ([]domain.ChargeHistoryEntry, error)
}
