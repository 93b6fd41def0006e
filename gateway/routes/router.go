// Package routes serves the read-only JSON view of the ledger.
package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ghostledger/gateway/middleware"
)

type Config struct {
	Tokens  TokenReader
	NFT     NFTReader
	Staking StakingReader
	Vesting VestingReader
	// Events is optional; /v1/events is not mounted without it.
	Events         EventIndex
	MetricsHandler http.Handler
	RateLimiter    *middleware.RateLimiter
	Observability  *middleware.Observability
	CORS           middleware.CORSConfig
}

// RateLimitKey is the limiter key shared by every /v1 route.
const RateLimitKey = "v1"

func New(cfg Config) (http.Handler, error) {
	if cfg.Tokens == nil || cfg.NFT == nil || cfg.Staking == nil || cfg.Vesting == nil {
		return nil, errors.New("routes: every engine reader is required")
	}
	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORS))

	obs := cfg.Observability
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	section := func(name string, mount func(chi.Router)) func(chi.Router) {
		return func(sr chi.Router) {
			if obs != nil {
				sr.Use(obs.Middleware(name))
			}
			mount(sr)
		}
	}
	r.Route("/v1", func(v1 chi.Router) {
		if cfg.RateLimiter != nil {
			v1.Use(cfg.RateLimiter.Middleware(RateLimitKey))
		}
		tokens := tokenRoutes{tokens: cfg.Tokens}
		v1.Route("/tokens", section("tokens", tokens.mount))
		v1.Route("/native", section("native", func(sr chi.Router) {
			sr.Get("/{holder}", handle(tokens.native))
		}))
		v1.Route("/nft", section("nft", nftRoutes{nft: cfg.NFT}.mount))
		v1.Route("/staking", section("staking", stakingRoutes{pools: cfg.Staking}.mount))
		v1.Route("/vesting", section("vesting", vestingRoutes{vault: cfg.Vesting}.mount))
		if cfg.Events != nil {
			v1.Route("/events", section("events", eventRoutes{index: cfg.Events}.mount))
		}
	})
	return r, nil
}
