// Package http serves the eud4xr REST views, the service bus, the update
// stream and the emulated Hue bridge API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/ports"
)

// ConfigManager reads and replaces the running configuration.
type ConfigManager interface {
	GetConfig(ctx context.Context) (*model.Config, error)
	UpdateConfig(ctx context.Context, cfg *model.Config) error
}

type Server struct {
	bridge  ports.BridgePort
	hue     ports.HuePort
	config  ConfigManager
	mcp     http.Handler
	metrics http.Handler
	ip      string
	port    int
	log     *zap.Logger
}

type Option func(*Server)

// WithHue enables the Hue API, advertising ip:port in description.xml.
func WithHue(hue ports.HuePort, ip string, port int) Option {
	return func(s *Server) {
		s.hue = hue
		s.ip = ip
		s.port = port
	}
}

func WithConfig(cm ConfigManager) Option {
	return func(s *Server) { s.config = cm }
}

func WithMCP(h http.Handler) Option {
	return func(s *Server) { s.mcp = h }
}

func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func NewServer(bridge ports.BridgePort, opts ...Option) *Server {
	s := &Server{bridge: bridge, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/eud4xr/automations", s.handleListAutomations)
	mux.HandleFunc("GET /api/eud4xr/automations/{id}", s.handleGetAutomation)
	mux.HandleFunc("POST /api/eud4xr/automations", s.handleUpsertAutomations)
	mux.HandleFunc("DELETE /api/eud4xr/automations/{id}", s.handleDeleteAutomation)
	mux.HandleFunc("GET /api/eud4xr/list_eca_capabilities", s.handleCapabilities)
	mux.HandleFunc("GET /api/eud4xr/context_objects", s.handleContextObjects)
	mux.HandleFunc("GET /api/eud4xr/virtual_objects", s.handleVirtualObjects)
	mux.HandleFunc("POST /api/eud4xr/virtual_objects", s.handleVirtualObjects)
	mux.HandleFunc("GET /api/eud4xr/find_close_objects", s.handleCloseObjects)
	mux.HandleFunc("POST /api/eud4xr/services/{service}", s.handleService)
	mux.HandleFunc("POST /api/eud4xr/updates", s.handleUpdate)
	mux.HandleFunc("GET /api/eud4xr/stream", s.handleStream)
	if s.config != nil {
		mux.HandleFunc("GET /api/eud4xr/config", s.handleGetConfig)
		mux.HandleFunc("POST /api/eud4xr/config", s.handleUpdateConfig)
	}
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	if s.mcp != nil {
		mux.Handle("/mcp", s.mcp)
	}
	if s.hue != nil {
		mux.HandleFunc("/description.xml", s.handleDescription)
		mux.HandleFunc("/api", s.handleAPI)
		mux.HandleFunc("/api/", s.handleAPI)
	}
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrServiceNotSupported):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrTransport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &model.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}
