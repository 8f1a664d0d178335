package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fightclub-sim/wolfden/internal/coordinator"
	"github.com/fightclub-sim/wolfden/internal/progression"
)

// Server is the HTTP API server with WebSocket snapshot streaming.
// It combines the §6 HTTP router with a broadcast hub that pushes the
// coordinator's post-tick state to subscribers.
type Server struct {
	coord       *coordinator.Coordinator
	progression *progression.Manager
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default configuration.
//
// IMPORTANT: Background workers do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed
// without starting goroutines or opening network listeners.
//
// For testing HTTP endpoints without WebSocket support, use
// NewRouter() directly.
func NewServer(coord *coordinator.Coordinator, prog *progression.Manager) *Server {
	s := &Server{
		coord:       coord,
		progression: prog,
		wsHub:       NewWebSocketHub(),
	}

	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		Coordinator: coord,
		Progression: prog,
		RateLimiter: s.rateLimiter,
	})

	s.router.Get("/ws", s.handleWS)

	return s
}

// Start begins the HTTP server AND starts background workers. This is
// the ONLY method that starts goroutines or opens network listeners.
//
// Call this method only once. To stop the server, signal the process.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.coord)

	log.Printf("api server starting on %s", addr)

	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
//
// Example:
//
//	server := api.NewServer(coord, prog)
//	ts := httptest.NewServer(server.Router())
//	defer ts.Close()
//	resp, _ := http.Get(ts.URL + "/query/player")
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers. Call this
// before process exit to ensure clean cleanup.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
