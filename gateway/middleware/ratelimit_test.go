package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	limiter := NewRateLimiter(map[string]RateLimit{
		"vesting": {RequestsPerSecond: 1, Burst: 1},
	}, nil)
	handler := limiter.Middleware("vesting")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/vesting/vaults", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusTooManyRequests, res.Code)
}

func TestRateLimiterSeparatesRoutesAndClients(t *testing.T) {
	limiter := NewRateLimiter(map[string]RateLimit{
		"vesting": {RequestsPerSecond: 1, Burst: 1},
		"staking": {RequestsPerSecond: 1, Burst: 1},
	}, nil)
	vestingHandler := limiter.Middleware("vesting")(okHandler())
	stakingHandler := limiter.Middleware("staking")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/vesting/vaults", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	res := httptest.NewRecorder()
	vestingHandler.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	stakingHandler.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	other := httptest.NewRequest(http.MethodGet, "/v1/vesting/vaults", nil)
	other.Header.Set("X-Real-IP", "10.0.0.9")
	res = httptest.NewRecorder()
	vestingHandler.ServeHTTP(res, other)
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, 3, limiter.Visitors())
}

func TestRateLimiterIgnoresUnknownKeys(t *testing.T) {
	limiter := NewRateLimiter(nil, nil)
	handler := limiter.Middleware("events")(okHandler())
	for i := 0; i < 5; i++ {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/events", nil))
		require.Equal(t, http.StatusOK, res.Code)
	}
	require.Zero(t, limiter.Visitors())
}

func TestRateLimiterSweepsIdleVisitors(t *testing.T) {
	limiter := NewRateLimiter(map[string]RateLimit{"nft": {RequestsPerSecond: 1, Burst: 1}}, nil)
	now := time.Unix(1_700_000_000, 0)
	limiter.clockNow = func() time.Time { return now }
	handler := limiter.Middleware("nft")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/nft", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, 1, limiter.Visitors())

	now = now.Add(visitorTTL + time.Second)
	other := httptest.NewRequest(http.MethodGet, "/v1/nft", nil)
	other.Header.Set("X-Real-IP", "10.0.0.7")
	handler.ServeHTTP(httptest.NewRecorder(), other)
	require.Equal(t, 1, limiter.Visitors())
}
