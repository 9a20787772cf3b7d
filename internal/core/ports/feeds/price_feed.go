package feeds

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Price is a raw market price as returned by the upstream feed.
type Price struct {
	Symbol    string
	Value     decimal.Decimal
	FetchedAt time.Time
}

// PriceFeed fetches raw market prices for trading-pair symbols such as "USDTARS".
// Implementations do not retry; errors wrap apperrors.ErrUpstreamUnavailable or
// apperrors.ErrMalformedResponse.
type PriceFeed interface {
	FetchPrice(ctx context.Context, symbol string) (Price, error)
}
