package domain

import "strings"

// CurrencyCode is the billing currency of a case or a catalog item.
type CurrencyCode string

const (
	KES CurrencyCode = "KES"
	USD CurrencyCode = "USD"
)

// IsSupported reports whether the code is one the billing engine can convert.
func (c CurrencyCode) IsSupported() bool {
	return c == KES || c == USD
}

// ParseCurrencyCode normalises user input ("kes", " USD ") to a CurrencyCode.
func ParseCurrencyCode(s string) (CurrencyCode, bool) {
	c := CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.IsSupported()
}
