package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"wrapped validation", fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation), http.StatusBadRequest},
		{"not found constructor", apperrors.NewNotFoundError("price lock not found"), http.StatusNotFound},
		{"forbidden", apperrors.NewForbiddenError("not the owner"), http.StatusForbidden},
		{"conflict", apperrors.NewConflictError("already used"), http.StatusConflict},
		{"upstream", fmt.Errorf("fetch USDTARS: %w", apperrors.ErrUpstreamUnavailable), http.StatusServiceUnavailable},
		{"app error code", apperrors.NewAppError(http.StatusBadGateway, "bad gateway", errors.New("boom")), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperrors.StatusCode(tc.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("service: %w", apperrors.NewValidationError("bad pair"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "bad pair")
}
