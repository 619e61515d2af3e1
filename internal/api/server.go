// Package api exposes the entanglement engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/bell"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/ghz"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/teleport"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
	"github.com/Luxbin-labs/luxbin-chain/pkg/store"
)

const maxBodyBytes = 1 << 20

// Server serves the v1 API. Sessions created through it are persisted by the
// engine's recorder; extension hops are written to the store directly.
type Server struct {
	proto    *entanglement.Protocol
	store    store.Store
	prov     provider.Provider
	bell     *bell.Generator
	ghz      *ghz.Generator
	teleport *teleport.Teleporter
	nodeOpts []entanglement.NodeOption
	shots    int

	Logger *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.Logger = l }
}

// WithNodeOptions sets the physical parameters of nodes created per request.
func WithNodeOptions(opts ...entanglement.NodeOption) Option {
	return func(s *Server) { s.nodeOpts = opts }
}

// WithDefaultShots sets the shot count of circuit requests that omit it.
func WithDefaultShots(n int) Option {
	return func(s *Server) { s.shots = n }
}

// New builds a server. st should be the recorder given to proto so that
// listings include every session.
func New(proto *entanglement.Protocol, st store.Store, prov provider.Provider, opts ...Option) (*Server, error) {
	if proto == nil || st == nil || prov == nil {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "api server requires a protocol, a store and a provider")
	}
	var err error
	s := &Server{proto: proto, store: st, prov: prov, shots: 1024}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	if s.bell, err = bell.NewGenerator(prov, bell.WithLogger(s.Logger)); err != nil {
		return nil, err
	}
	if s.ghz, err = ghz.NewGenerator(prov, ghz.WithLogger(s.Logger)); err != nil {
		return nil, err
	}
	if s.teleport, err = teleport.New(prov, teleport.WithLogger(s.Logger)); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/sessions/{id}/topology.svg", s.handleTopology)
		r.Get("/stats", s.handleStats)
		r.Get("/backends", s.handleBackends)
		r.Post("/bell", s.handleBell)
		r.Post("/ghz", s.handleGHZ)
		r.Post("/teleport", s.handleTeleport)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errs.Wrap(errs.ErrCodeNetwork, err, "listen %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "shutdown")
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps an error code to an HTTP status.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Code: code, Message: errs.UserMessage(err)})
}

func statusFor(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeNotFound, errs.ErrCodeBackendNotFound:
		return http.StatusNotFound
	case errs.ErrCodeNotEntangled:
		return http.StatusConflict
	case errs.ErrCodeBackendUnavailable, errs.ErrCodeProviderUnavailable, errs.ErrCodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
