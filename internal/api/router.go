package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fightclub-sim/wolfden/internal/coordinator"
	"github.com/fightclub-sim/wolfden/internal/progression"
)

// RouterConfig contains all dependencies needed to construct the HTTP
// router. Designed for dependency injection and testability - a test
// can build a Coordinator/progression.Manager directly and drive the
// router with httptest, with no goroutines or listeners involved.
type RouterConfig struct {
	// Coordinator is the simulation core this host drives (required).
	Coordinator *coordinator.Coordinator

	// Progression is the persisted-progression tracker this host
	// exposes alongside the coordinator (required).
	Progression *progression.Manager

	// RateLimiter is an optional pre-configured rate limiter. If nil,
	// a new one is created from RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is used only if RateLimiter is nil. If both are
	// nil, DefaultRateLimitConfig applies.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins overrides the default allowed CORS origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful
	// for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler receivers for route setup.
type routerHandlers struct {
	coord       *coordinator.Coordinator
	progression *progression.Manager
}

// NewRouter constructs the HTTP router exposing the lifecycle, input,
// query and commands surface plus the persisted-progression
// operations, over a chi+cors+rate-limiter middleware stack.
//
// IMPORTANT: This function is PURE - no goroutines, no listeners - so
// it is safe to use with httptest.NewServer in tests.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting before CORS, to reject early and save CPU.
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		coord:       cfg.Coordinator,
		progression: cfg.Progression,
	}

	r.Route("/lifecycle", func(r chi.Router) {
		r.Post("/initialize", h.handleInitialize)
		r.Post("/reset", h.handleReset)
		r.Post("/shutdown", h.handleShutdown)
		r.Post("/update", h.handleUpdate)
	})

	r.Post("/input", h.handleInput)

	r.Route("/query", func(r chi.Router) {
		r.Get("/player", h.handleQueryPlayer)
		r.Get("/wolf", h.handleQueryWolf)
		r.Get("/arm_joint", h.handleQueryArmJoint)
		r.Get("/counts", h.handleQueryCounts)
		r.Get("/time", h.handleQueryTime)
		r.Get("/diagnostics", h.handleQueryDiagnostics)
	})

	r.Route("/commands", func(r chi.Router) {
		r.Post("/spawn_wolf", h.handleSpawnWolf)
		r.Post("/remove_wolf", h.handleRemoveWolf)
		r.Post("/create_pack", h.handleCreatePack)
		r.Post("/damage_wolf", h.handleDamageWolf)
		r.Post("/begin_bash_charge", h.handleBeginBashCharge)
		r.Post("/release_bash", h.handleReleaseBash)
		r.Post("/on_bash_hit", h.handleOnBashHit)
		r.Post("/begin_berserker_charge", h.handleBeginBerserkerCharge)
		r.Post("/execute_flow_dash", h.handleExecuteFlowDash)
		r.Post("/on_dash_hit", h.handleOnDashHit)
		r.Post("/apply_impulse", h.handleApplyImpulse)
		r.Post("/set_velocity", h.handleSetVelocity)
		r.Post("/set_position", h.handleSetPosition)
		r.Post("/set_left_target", h.handleSetLeftTarget)
		r.Post("/set_right_target", h.handleSetRightTarget)
	})

	r.Route("/progression", func(r chi.Router) {
		r.Post("/set_tree", h.handleProgressionSetTree)
		r.Post("/set_state", h.handleProgressionSetState)
		r.Get("/state", h.handleProgressionGetState)
		r.Post("/purchase", h.handleProgressionPurchase)
		r.Post("/add_essence", h.handleProgressionAddEssence)
		r.Get("/effect_scalar", h.handleProgressionEffectScalar)
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

// GetRateLimiterFromRouter is a helper to extract the rate limiter a
// RouterConfig would use, for tests that need to verify rate-limiting
// behavior directly.
func GetRateLimiterFromRouter(cfg RouterConfig) *IPRateLimiter {
	if cfg.RateLimiter != nil {
		return cfg.RateLimiter
	}
	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimitConfig != nil {
		rateLimitCfg = *cfg.RateLimitConfig
	}
	return NewIPRateLimiter(rateLimitCfg)
}
