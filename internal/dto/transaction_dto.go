package dto

import (
	"time"

	portssvc "github.com/ecucondor/rates_backend/internal/core/ports/services"
)

// ExecuteTransactionRequest settles a previously created price lock.
type ExecuteTransactionRequest struct {
	LockID string `json:"lockId" binding:"required"`
}

// ExecuteTransactionResponse is the outcome of an execution attempt.
type ExecuteTransactionResponse struct {
	Executed bool                        `json:"executed"`
	Lock     *PriceLockResponse          `json:"lock,omitempty"`
	Quote    *TransactionQuoteResponse   `json:"quote,omitempty"`
	Decision LimitDecisionResponse       `json:"decision"`
	Summary  *TransactionSummaryResponse `json:"summary,omitempty"`
}

// ToExecuteTransactionResponse converts an exchange result.
func ToExecuteTransactionResponse(res portssvc.ExchangeResult, now time.Time) ExecuteTransactionResponse {
	out := ExecuteTransactionResponse{Executed: res.Executed}
	if res.Lock != nil {
		lock := ToPriceLockResponse(*res.Lock, now)
		out.Lock = &lock
	}
	if res.Quote != nil {
		q := ToTransactionQuoteResponse(*res.Quote)
		out.Quote = &q
	}
	if res.Decision != nil {
		out.Decision = ToLimitDecisionResponse(*res.Decision)
	}
	if res.Summary != nil {
		s := ToTransactionSummaryResponse(*res.Summary)
		out.Summary = &s
	}
	return out
}
