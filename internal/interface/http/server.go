// Package http implements the REST API for the fee ledger: student
// registration, payment recording, document downloads, CSV export, and the
// admin settings surface.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/sansa-learn/fee-ledger/internal/application/command"
	"github.com/sansa-learn/fee-ledger/internal/application/query"
	"github.com/sansa-learn/fee-ledger/internal/domain/institute"
	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
	"github.com/sansa-learn/fee-ledger/internal/infrastructure/assets"
	"github.com/sansa-learn/fee-ledger/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// MaxHeaderBytes - maximum size of request headers.
	MaxHeaderBytes int

	// MaxUploadBytes - maximum size of branding image uploads.
	MaxUploadBytes int64

	// AdminUsername - the single admin account name.
	AdminUsername string

	// AdminPasswordHash - bcrypt hash of the admin password. When empty the
	// API runs unauthenticated (development only).
	AdminPasswordHash string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
		MaxUploadBytes: 2 << 20, // 2 MB
		AdminUsername:  "admin",
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// SessionStore validates admin session tokens.
type SessionStore interface {
	Create(ctx context.Context) (string, error)
	Valid(ctx context.Context, token string) bool
	Destroy(ctx context.Context, token string)
}

// HealthChecker reports backing store health for the readiness endpoint.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies contains all dependencies required by HTTP handlers.
type Dependencies struct {
	// Command Handlers (CQRS Write Side)
	RegisterStudent   *command.RegisterStudentHandler
	UpdateStudent     *command.UpdateStudentHandler
	DeleteStudent     *command.DeleteStudentHandler
	CreateObligation  *command.CreateObligationHandler
	BulkGenerate      *command.BulkGenerateHandler
	EnsureObligations *command.EnsureObligationsHandler
	RecordPayment     *command.RecordPaymentHandler
	ReversePayment    *command.ReversePaymentHandler
	UpdateRemarks     *command.UpdateRemarksHandler
	UpdateBranding    *command.UpdateBrandingHandler

	// Query Handlers (CQRS Read Side)
	ListStudents   *query.ListStudentsHandler
	FeeHistory     *query.FeeHistoryHandler
	StudentBalance *query.StudentBalanceHandler
	Dashboard      *query.DashboardHandler
	ExportRows     *query.ExportRowsHandler
	Documents      *query.DocumentSnapshotHandler

	// Branding reads and asset uploads
	Branding institute.Repository
	Assets   *assets.FilesystemStore

	// Sessions and share tokens
	Sessions SessionStore
	Tokens   *ShareTokenSigner

	// Health Check Dependencies
	Database HealthChecker
	Cache    HealthChecker

	// Logger
	Logger *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     *http.ServeMux
	logger     *logger.Logger

	// Server state
	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server with the given configuration and dependencies.
func NewServer(config Config, deps Dependencies) *Server {
	s := &Server{
		config: config,
		deps:   deps,
		router: http.NewServeMux(),
		logger: deps.Logger,
	}

	if s.logger == nil {
		s.logger = logger.Default()
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.buildMiddlewareChain(s.router),
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	return s
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health & status
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /healthz", s.handleHealth) // Kubernetes alias
	s.router.HandleFunc("GET /ready", s.handleReady)

	// Authentication
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	s.router.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)

	// Dashboard
	s.router.Handle("GET /api/v1/dashboard", s.auth(s.handleDashboard))

	// Students
	s.router.Handle("GET /api/v1/students", s.auth(s.handleListStudents))
	s.router.Handle("POST /api/v1/students", s.auth(s.handleRegisterStudent))
	s.router.Handle("GET /api/v1/students/{no}", s.auth(s.handleGetStudent))
	s.router.Handle("PUT /api/v1/students/{no}", s.auth(s.handleUpdateStudent))
	s.router.Handle("DELETE /api/v1/students/{no}", s.auth(s.handleDeleteStudent))

	// Fee ledger
	s.router.Handle("GET /api/v1/students/{no}/fees", s.auth(s.handleFeeHistory))
	s.router.Handle("POST /api/v1/students/{no}/fees/ensure", s.auth(s.handleEnsureObligations))
	s.router.Handle("POST /api/v1/obligations", s.auth(s.handleCreateObligation))
	s.router.Handle("POST /api/v1/obligations/bulk", s.auth(s.handleBulkGenerate))
	s.router.Handle("POST /api/v1/obligations/{id}/payment", s.auth(s.handleRecordPayment))
	s.router.Handle("DELETE /api/v1/obligations/{id}/payment", s.auth(s.handleReversePayment))
	s.router.Handle("PUT /api/v1/obligations/{id}/remarks", s.auth(s.handleUpdateRemarks))

	// Documents
	s.router.Handle("GET /api/v1/obligations/{id}/receipt.pdf", s.auth(s.handleReceiptPDF))
	s.router.Handle("GET /api/v1/students/{no}/demand-bill.pdf", s.auth(s.handleDemandBillPDF))
	s.router.Handle("POST /api/v1/students/{no}/demand-bill/share", s.auth(s.handleShareDemandBill))
	s.router.HandleFunc("GET /public/demand-bill/{token}", s.handlePublicDemandBill)

	// Export
	s.router.Handle("GET /api/v1/export/fees.csv", s.auth(s.handleExportCSV))

	// Settings
	s.router.Handle("GET /api/v1/settings/branding", s.auth(s.handleGetBranding))
	s.router.Handle("PUT /api/v1/settings/branding", s.auth(s.handleUpdateBranding))
	s.router.Handle("POST /api/v1/settings/branding/logo", s.auth(s.handleUploadLogo))
	s.router.Handle("POST /api/v1/settings/branding/signature", s.auth(s.handleUploadSignature))
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// buildMiddlewareChain wraps the router with all middleware.
func (s *Server) buildMiddlewareChain(handler http.Handler) http.Handler {
	// Apply middleware in reverse order (last middleware wraps first)
	h := handler
	h = s.requestIDMiddleware(h)
	h = s.loggingMiddleware(h)
	h = s.recoveryMiddleware(h)
	return h
}

// auth wraps a handler with the admin session check. Authentication is
// disabled entirely when no admin password hash is configured.
func (s *Server) auth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.AdminPasswordHash == "" {
			next(w, r)
			return
		}

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || !s.deps.Sessions.Valid(r.Context(), cookie.Value) {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Login required")
			return
		}

		next(w, r)
	})
}

// requestIDMiddleware adds a unique request ID to each request.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs all HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		s.logger.Info("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rw.statusCode),
			logger.Int64("duration_ms", duration.Milliseconds()),
			logger.String("ip", getClientIP(r)),
			logger.String("request_id", getRequestID(r.Context())),
		)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()
				s.logger.Error("panic recovered",
					logger.Any("error", err),
					logger.String("stack", string(stack)),
					logger.String("path", r.URL.Path),
					logger.String("request_id", getRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address.
func (s *Server) Address() string {
	return s.config.Address()
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse represents a standard JSON response.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	response := JSONResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	_ = json.NewEncoder(w).Encode(response)
}

// writeJSONError writes an error JSON response.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	response := JSONResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	}

	_ = json.NewEncoder(w).Encode(response)
}

// writeDomainError maps domain errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsAlreadyExists(err),
		errors.Is(err, shared.ErrAlreadyPaid),
		errors.Is(err, shared.ErrNotPaid),
		errors.Is(err, shared.ErrReceiptUnpaid),
		errors.Is(err, shared.ErrNoOutstandingBalance):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER TYPES AND FUNCTIONS
// ══════════════════════════════════════════════════════════════════════════════

type contextKey string

const contextKeyRequestID contextKey = "request_id"

const sessionCookieName = "fee_ledger_session"

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// getRequestID extracts the request ID from context.
func getRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// generateRequestID generates a unique request ID.
func generateRequestID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%1000)
}
