package services

import (
	"context"

	"github.com/ecucondor/rates_backend/internal/core/domain"
)

// ExchangeResult is the outcome of executing a locked quote.
type ExchangeResult struct {
	Executed bool                           `json:"executed"`
	Lock     *domain.PriceLock              `json:"lock"`
	Quote    *domain.TransactionQuote       `json:"quote,omitempty"`
	Decision *domain.LimitDecision          `json:"decision"`
	Summary  *domain.UserTransactionSummary `json:"summary,omitempty"`
}

// ExchangeSvcFacade executes a locked quote against the user's limits
type ExchangeSvcFacade interface {
	Execute(ctx context.Context, userID, lockID string) (*ExchangeResult, error)
}
