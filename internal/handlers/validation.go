package handlers

import (
	"log/slog"
	"sync"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidationsOnce sync.Once

// registerValidations adds the custom binding tags used by the request DTOs.
func registerValidations() {
	registerValidationsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			slog.Error("gin binding engine is not go-playground/validator, custom tags unavailable")
			return
		}
		if err := v.RegisterValidation("currency_pair", validateCurrencyPair); err != nil {
			slog.Error("Failed to register currency_pair validation", slog.String("error", err.Error()))
		}
	})
}

// validateCurrencyPair accepts "USD-ARS" style keys in any case.
func validateCurrencyPair(fl validator.FieldLevel) bool {
	_, _, ok := domain.SplitPair(fl.Field().String())
	return ok
}
