package handlers

import (
	"strings"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain tags used in request DTOs to gin's
// validator. Safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("currency", validateCurrency); err != nil {
		return err
	}
	return v.RegisterValidation("ratecategory", validateRateCategory)
}

func validateCurrency(fl validator.FieldLevel) bool {
	_, ok := domain.ParseCurrencyCode(fl.Field().String())
	return ok
}

func validateRateCategory(fl validator.FieldLevel) bool {
	return domain.RateCategory(strings.ToLower(strings.TrimSpace(fl.Field().String()))).IsValid()
}
