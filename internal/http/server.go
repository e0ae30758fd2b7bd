// Package http exposes the dashboard JSON API: bills with derived due
// status, summaries, subscriptions, notifications, tasks, events, drafting
// and document upload.
package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"lifeboard/internal/billing"
	"lifeboard/internal/cache"
	"lifeboard/internal/core"
	"lifeboard/internal/identity"
	"lifeboard/internal/notify"
	"lifeboard/internal/store"
	"lifeboard/internal/upload"
)

// Drafter produces short reminder texts for bills.
type Drafter interface {
	DraftReminder(ctx context.Context, billName string, amountUnits float64, dueDate string) (string, error)
}

// Uploader stores and removes bill documents.
type Uploader interface {
	Upload(ctx context.Context, name, mimeType string, content io.Reader) (upload.Document, error)
	Delete(ctx context.Context, id string) error
}

type Server struct {
	http.Server
	bills       *billing.Service
	store       store.Store
	reconciler  *notify.Reconciler
	identity    identity.Provider
	drafter     Drafter  // optional
	uploader    Uploader // optional
	rateLimiter *rateLimiter

	// Read-side caches for the dashboard summary endpoints
	summaryCache *cache.LRUCache[summaryResponse]
	costsCache   *cache.LRUCache[billing.SubscriptionCosts]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, bills *billing.Service, st store.Store, rec *notify.Reconciler, id identity.Provider, drafter Drafter, uploader Uploader) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		bills:        bills,
		store:        st,
		reconciler:   rec,
		identity:     id,
		drafter:      drafter,
		uploader:     uploader,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[summaryResponse](50, 1*time.Minute),
		costsCache:   cache.NewLRUCache[billing.SubscriptionCosts](50, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.costsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/me", s.withMiddleware(s.handleWhoAmI))

	mux.HandleFunc("GET /api/bills", s.withMiddleware(s.handleListBills))
	mux.HandleFunc("POST /api/bills", s.withMiddleware(s.handleCreateBill))
	mux.HandleFunc("GET /api/bills/summary", s.withMiddleware(s.handleBillSummary))
	mux.HandleFunc("GET /api/bills/{id}", s.withMiddleware(s.handleGetBill))
	mux.HandleFunc("PUT /api/bills/{id}", s.withMiddleware(s.handleUpdateBill))
	mux.HandleFunc("DELETE /api/bills/{id}", s.withMiddleware(s.handleDeleteBill))
	mux.HandleFunc("POST /api/bills/{id}/pay", s.withMiddleware(s.handlePayBill))

	mux.HandleFunc("GET /api/subscriptions", s.withMiddleware(s.handleListSubscriptions))
	mux.HandleFunc("POST /api/subscriptions", s.withMiddleware(s.handleCreateSubscription))
	mux.HandleFunc("GET /api/subscriptions/costs", s.withMiddleware(s.handleSubscriptionCosts))
	mux.HandleFunc("PUT /api/subscriptions/{id}", s.withMiddleware(s.handleUpdateSubscription))
	mux.HandleFunc("DELETE /api/subscriptions/{id}", s.withMiddleware(s.handleDeleteSubscription))

	mux.HandleFunc("GET /api/notifications", s.withMiddleware(s.handleListNotifications))
	mux.HandleFunc("POST /api/notifications/{id}/read", s.withMiddleware(s.handleReadNotification))
	mux.HandleFunc("POST /api/notifications/read-all", s.withMiddleware(s.handleReadAllNotifications))

	mux.HandleFunc("GET /api/tasks", s.withMiddleware(s.handleListTasks))
	mux.HandleFunc("POST /api/tasks", s.withMiddleware(s.handleCreateTask))
	mux.HandleFunc("PUT /api/tasks/{id}", s.withMiddleware(s.handleUpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.withMiddleware(s.handleDeleteTask))

	mux.HandleFunc("GET /api/events", s.withMiddleware(s.handleListEvents))
	mux.HandleFunc("POST /api/events", s.withMiddleware(s.handleCreateEvent))
	mux.HandleFunc("PUT /api/events/{id}", s.withMiddleware(s.handleUpdateEvent))
	mux.HandleFunc("DELETE /api/events/{id}", s.withMiddleware(s.handleDeleteEvent))

	mux.HandleFunc("POST /api/assist/draft", s.withMiddleware(s.handleDraftReminder))
	mux.HandleFunc("POST /api/documents", s.withMiddleware(s.handleUploadDocument))
	mux.HandleFunc("DELETE /api/documents/{id}", s.withMiddleware(s.handleDeleteDocument))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := "req_" + uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		// Rate limit writes only, dashboard polling stays cheap
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	user, err := s.identity.WhoAmI(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "identity unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}

// owner resolves the acting user's ID, falling back to empty on error.
func (s *Server) owner(ctx context.Context) string {
	user, err := s.identity.WhoAmI(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to resolve identity", "error", err)
		return ""
	}
	return user.ID
}

// sweepNotifications reconciles the viewer's unread notifications of one type
// without blocking the response. Viewing a list counts as acknowledging its
// notifications.
func (s *Server) sweepNotifications(ctx context.Context, userID string, typ core.NotificationType) {
	if s.reconciler == nil || userID == "" {
		return
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		if _, err := s.reconciler.Reconcile(bg, userID, typ); err != nil {
			slog.ErrorContext(bg, "View-triggered sweep failed",
				"user_id", userID, "type", string(typ), "error", err)
		}
	}()
}
