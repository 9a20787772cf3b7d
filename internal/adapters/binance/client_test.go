package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 500*time.Millisecond)
}

func TestFetchPrice_StringPrice(t *testing.T) {
	var gotSymbol, gotPath string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSymbol = r.URL.Query().Get("symbol")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"USDTARS","price":"1187.30000000"}`))
	})
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	client.now = func() time.Time { return fixed }

	price, err := client.FetchPrice(context.Background(), "USDTARS")
	require.NoError(t, err)
	assert.Equal(t, tickerPricePath, gotPath)
	assert.Equal(t, "USDTARS", gotSymbol)
	assert.True(t, decimal.RequireFromString("1187.3").Equal(price.Value))
	assert.Equal(t, fixed, price.FetchedAt)
	assert.Equal(t, "USDTARS", price.Symbol)
}

func TestFetchPrice_NumericPrice(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol":"USDTBRL","price":5.42}`))
	})

	price, err := client.FetchPrice(context.Background(), "USDTBRL")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("5.42").Equal(price.Value))
}

func TestFetchPrice_Malformed(t *testing.T) {
	bodies := map[string]string{
		"missing price": `{"symbol":"USDTARS"}`,
		"null price":    `{"symbol":"USDTARS","price":null}`,
		"not numeric":   `{"symbol":"USDTARS","price":"abc"}`,
		"zero":          `{"symbol":"USDTARS","price":"0"}`,
		"not json":      `<html>oops</html>`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := client.FetchPrice(context.Background(), "USDTARS")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrMalformedResponse)
		})
	}
}

func TestFetchPrice_Non2xx(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	})

	_, err := client.FetchPrice(context.Background(), "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

func TestFetchPrice_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	client.client.SetTimeout(50 * time.Millisecond)

	start := time.Now()
	_, err := client.FetchPrice(context.Background(), "USDTARS")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchPrice_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, 200*time.Millisecond).FetchPrice(context.Background(), "USDTARS")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}
