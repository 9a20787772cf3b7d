// Package binance implements feeds.PriceFeed against the Binance public ticker API.
package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/core/ports/feeds"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const tickerPricePath = "/api/v3/ticker/price"

// Client fetches spot prices. It never retries; the rate engine decides what
// to do with a failed symbol.
type Client struct {
	client *resty.Client
	now    func() time.Time
}

// NewClient creates a client for baseURL (e.g. "https://api.binance.com").
// timeout bounds every request including reading the body.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "ecucondor-rates/1.0")
	return &Client{client: client, now: time.Now}
}

type tickerPrice struct {
	Symbol string          `json:"symbol"`
	Price  json.RawMessage `json:"price"`
}

// FetchPrice implements feeds.PriceFeed.
func (c *Client) FetchPrice(ctx context.Context, symbol string) (feeds.Price, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		Get(tickerPricePath)
	if err != nil {
		return feeds.Price{}, fmt.Errorf("%w: fetch %s: %v", apperrors.ErrUpstreamUnavailable, symbol, err)
	}
	if !resp.IsSuccess() {
		return feeds.Price{}, fmt.Errorf("%w: fetch %s: status %d", apperrors.ErrUpstreamUnavailable, symbol, resp.StatusCode())
	}

	var payload tickerPrice
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return feeds.Price{}, fmt.Errorf("%w: decode %s: %v", apperrors.ErrMalformedResponse, symbol, err)
	}
	price, err := parsePrice(payload.Price)
	if err != nil {
		return feeds.Price{}, fmt.Errorf("%w: %s: %v", apperrors.ErrMalformedResponse, symbol, err)
	}

	return feeds.Price{
		Symbol:    symbol,
		Value:     price,
		FetchedAt: c.now(),
	}, nil
}

// parsePrice accepts both "1234.50" and 1234.50.
func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, fmt.Errorf("price field missing")
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, fmt.Errorf("price field is not a string: %v", err)
		}
	}
	price, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q is not numeric", text)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("price %s is not positive", price)
	}
	return price, nil
}

var _ feeds.PriceFeed = (*Client)(nil)
