package mapping

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseStoredAmount parses a NUMERIC column selected as text. NULL, NaN and any
// other non-numeric value come back as an invalid NullDecimal.
func ParseStoredAmount(raw *string) decimal.NullDecimal {
	if raw == nil {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// IsUnreadableAmount reports a non-NULL column that ParseStoredAmount rejects.
func IsUnreadableAmount(raw *string) bool {
	return raw != nil && !ParseStoredAmount(raw).Valid
}

// ToStoredAmount is the inverse of ParseStoredAmount for writes.
func ToStoredAmount(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
