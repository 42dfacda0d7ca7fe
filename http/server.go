// Package http serves the static viewer and the websocket endpoint.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"path/filepath"
	"time"
)

const shutdownTimeout = 5 * time.Second

// HttpParams configures the server.
type HttpParams struct {
	Address string
	Prefix  string
	Root    string
}

// Server serves files from Root under Prefix and the websocket hub at /ws.
type Server struct {
	params HttpParams
	srv    *nethttp.Server
	logger *slog.Logger
}

// NewServer resolves the static root and builds the request handler.
func NewServer(p HttpParams, ws nethttp.Handler, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if p.Prefix == "" {
		p.Prefix = "/"
	}
	root, err := filepath.Abs(p.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve static root %q: %w", p.Root, err)
	}
	p.Root = root

	s := &Server{params: p, logger: logger}
	s.srv = &nethttp.Server{
		Addr:              p.Address,
		Handler:           s.routes(ws),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Params returns the effective parameters.
func (s *Server) Params() HttpParams {
	return s.params
}

// Handler returns the root handler.
func (s *Server) Handler() nethttp.Handler {
	return s.srv.Handler
}

func (s *Server) routes(ws nethttp.Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.Handle(s.params.Prefix, nethttp.StripPrefix(s.params.Prefix, nethttp.FileServer(nethttp.Dir(s.params.Root))))
	if ws != nil {
		mux.Handle("/ws", ws)
	}

	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s.logger.Debug("request", "remote", r.RemoteAddr, "method", r.Method, "url", r.URL.String())
		mux.ServeHTTP(w, r)
	})
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "root", s.params.Root, "prefix", s.params.Prefix, "address", s.params.Address)
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}
