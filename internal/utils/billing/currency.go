package billing

import (
	"fmt"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Convert converts amount between KES and USD. rate is KES per 1 USD.
// Amounts in the same currency are returned unchanged without looking at rate.
func Convert(amount decimal.Decimal, from, to domain.CurrencyCode, rate decimal.Decimal) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	if !from.IsSupported() || !to.IsSupported() {
		return decimal.Zero, fmt.Errorf("%w: unsupported conversion %s -> %s", apperrors.ErrValidation, from, to)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: rate %s must be positive", apperrors.ErrInvalidRate, rate.String())
	}

	if from == domain.KES && to == domain.USD {
		return amount.Div(rate), nil
	}
	return amount.Mul(rate), nil
}
