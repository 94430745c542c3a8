// Package gateway serves the calorie-estimation HTTP API.
package gateway

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Server routes estimation and health requests.
type Server struct {
	estimator  Estimator
	httpServer *http.Server
}

// New creates a server listening on addr.
func New(addr string, estimator Estimator) *Server {
	s := &Server{estimator: estimator}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in the request logger.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/calculate-calories", s.HandleCalculateCalories)
	mux.HandleFunc("OPTIONS /api/calculate-calories", handlePreflight)
	mux.HandleFunc("GET /api/health", s.HandleHealth)
	return logRequests(allowCORS(mux))
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *Server) Start() error {
	log.Printf("burnlog gateway listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
