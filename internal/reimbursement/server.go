package reimbursement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/zombor/reimburse-tracker/internal/receipt"
	"github.com/zombor/reimburse-tracker/internal/toast"
)

// Server handles HTTP requests for reimbursements
type Server struct {
	service  *Service
	toasts   *toast.Manager
	registry *receipt.Registry
	viewer   *receipt.Viewer
	mux      *http.ServeMux
	http     *http.Server
}

// NewServer creates a new Server with default mux
func NewServer(service *Service, toasts *toast.Manager, registry *receipt.Registry) *Server {
	return NewServerWithMux(service, toasts, registry, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, toasts *toast.Manager, registry *receipt.Registry, mux *http.ServeMux) *Server {
	s := &Server{
		service:  service,
		toasts:   toasts,
		registry: registry,
		viewer:   receipt.NewViewer(registry),
		mux:      mux,
	}
	s.http = &http.Server{
		Handler:           s.corsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.registerRoutes()
	return s
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// registerRoutes registers all API routes on the server's mux
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/categories", s.handleListCategories)

	// Reimbursements (most specific paths first)
	s.mux.HandleFunc("GET /api/reimbursements/{id}/receipt/preview", s.handlePreviewReceipt)
	s.mux.HandleFunc("GET /api/reimbursements/{id}/receipt", s.handleDownloadReceipt)
	s.mux.HandleFunc("GET /api/reimbursements/{id}", s.handleGetReimbursement)
	s.mux.HandleFunc("DELETE /api/reimbursements/{id}", s.handleDeleteReimbursement)
	s.mux.HandleFunc("GET /api/reimbursements", s.handleListReimbursements)
	s.mux.HandleFunc("POST /api/reimbursements", s.handleCreateReimbursement)

	// Receipt viewer
	s.mux.HandleFunc("POST /api/viewer/{id}", s.handleOpenViewer)
	s.mux.HandleFunc("GET /api/viewer", s.handleGetViewer)
	s.mux.HandleFunc("DELETE /api/viewer", s.handleCloseViewer)
	s.mux.HandleFunc("GET /blob/{handle}", s.handleGetBlob)

	// Notifications
	s.mux.HandleFunc("GET /api/toasts", s.handleListToasts)
	s.mux.HandleFunc("POST /api/toasts/dismiss", s.handleDismissToasts)
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	slog.Info("Starting server", "address", ln.Addr().String())
	if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, then releases the viewer's handle once no
// request can open another one
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.viewer.Close()
	return err
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
