// Package http exposes the JSON API. Handlers stay thin: parse, call a
// service, write the envelope. Every data route runs behind token auth and
// scopes itself to the authenticated user.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gigbook/internal/log"
	"gigbook/internal/middleware/auth"
	"gigbook/internal/middleware/ratelimit"
	"gigbook/internal/middleware/security"
	"gigbook/internal/middleware/trace"
	"gigbook/internal/services"
)

// Services bundles the application services the API depends on.
type Services struct {
	Users    *services.UserService
	Projects *services.ProjectService
	Entries  *services.EntryService
	Savings  *services.SavingsService
	Stats    *services.StatsService
}

type Server struct {
	http.Server

	svc Services
	// expiringWindow is the default window for the expiring-soon listing.
	expiringWindow time.Duration

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr, jwtSecret string, svc Services, expiringWindow time.Duration) *Server {
	s := &Server{
		svc:            svc,
		expiringWindow: expiringWindow,
		limiter:        ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:       security.NewDetector(),
	}

	logger := log.Default(log.ComponentHTTP)
	verifier := auth.NewVerifier(jwtSecret)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP, log.NewStructuredLogger(logger))
	limit := s.limiter.Middleware(s.detector.ExtractClientIP, nil)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Registration is the only open data route.
	mux.Handle("POST /api/v1/users", http.HandlerFunc(s.handleCreateUser))

	authed := func(h http.HandlerFunc) http.Handler {
		return verifier.Middleware(h)
	}

	mux.Handle("GET /api/v1/users/me", authed(s.handleGetProfile))

	mux.Handle("POST /api/v1/projects", authed(s.handleCreateProject))
	mux.Handle("GET /api/v1/projects", authed(s.handleListProjects))
	mux.Handle("GET /api/v1/projects/{id}", authed(s.handleGetProject))
	mux.Handle("PUT /api/v1/projects/{id}", authed(s.handleUpdateProject))
	mux.Handle("DELETE /api/v1/projects/{id}", authed(s.handleDeleteProject))

	mux.Handle("POST /api/v1/income", authed(s.handleCreateIncome))
	mux.Handle("GET /api/v1/income", authed(s.handleListIncome))
	mux.Handle("GET /api/v1/income/{id}", authed(s.handleGetIncome))
	mux.Handle("PUT /api/v1/income/{id}", authed(s.handleUpdateIncome))
	mux.Handle("DELETE /api/v1/income/{id}", authed(s.handleDeleteIncome))

	mux.Handle("POST /api/v1/expenses", authed(s.handleCreateExpense))
	mux.Handle("GET /api/v1/expenses", authed(s.handleListExpenses))
	mux.Handle("GET /api/v1/expenses/{id}", authed(s.handleGetExpense))
	mux.Handle("PUT /api/v1/expenses/{id}", authed(s.handleUpdateExpense))
	mux.Handle("DELETE /api/v1/expenses/{id}", authed(s.handleDeleteExpense))

	mux.Handle("POST /api/v1/savings-goals", authed(s.handleCreateGoal))
	mux.Handle("GET /api/v1/savings-goals", authed(s.handleListGoals))
	mux.Handle("GET /api/v1/savings-goals/expiring-soon", authed(s.handleExpiringSoon))
	mux.Handle("GET /api/v1/savings-goals/{id}", authed(s.handleGetGoal))
	mux.Handle("PUT /api/v1/savings-goals/{id}", authed(s.handleUpdateGoal))
	mux.Handle("DELETE /api/v1/savings-goals/{id}", authed(s.handleDeleteGoal))
	mux.Handle("POST /api/v1/savings-goals/{id}/progress/add", authed(s.handleAddProgress))
	mux.Handle("POST /api/v1/savings-goals/{id}/progress/subtract", authed(s.handleSubtractProgress))
	mux.Handle("POST /api/v1/savings-goals/{id}/complete", authed(s.handleMarkCompleted))
	mux.Handle("POST /api/v1/savings-goals/{id}/reactivate", authed(s.handleMarkActive))

	mux.Handle("GET /api/v1/stats/income", authed(s.handleIncomeStats))
	mux.Handle("GET /api/v1/stats/expenses", authed(s.handleExpenseStats))
	mux.Handle("GET /api/v1/stats/income/by-project", authed(s.handleIncomeByProject))
	mux.Handle("GET /api/v1/stats/expenses/by-project", authed(s.handleExpenseByProject))
	mux.Handle("GET /api/v1/stats/savings", authed(s.handleSavingsStats))

	// Suspicious requests are logged but not blocked; the rate limiter is
	// the enforcement layer.
	detect := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.detector.DetectSuspiciousRequest(r) {
				log.FromContext(r.Context()).WarnContext(r.Context(), "suspicious request",
					"path", r.URL.Path, log.FieldClientIP, s.detector.ExtractClientIP(r))
			}
			next.ServeHTTP(w, r)
		})
	}

	requestID := func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	}

	handler := tracer.Middleware(
		log.Middleware(logger)(
			log.RequestIDMiddleware(requestID)(
				headers.Middleware(limit(detect(mux))))))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the server and its background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Handler returns the composed handler, for tests that drive the mux
// directly.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
