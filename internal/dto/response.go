package dto

import "time"

// SuccessResponse is the envelope of every successful API response.
type SuccessResponse struct {
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the envelope of every failed API response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	RequestID string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status       string     `json:"status"`
	RatesHealthy bool       `json:"ratesHealthy"`
	LastRefresh  *time.Time `json:"lastRefresh,omitempty"`
}
