// Package server exposes the augmentation operators over HTTP.
//
// Routes:
//
//	GET  /healthz                      liveness probe
//	GET  /v1/operators                 registered operators as JSON
//	POST /v1/operators/{name}/apply    augment the image in the request body
//
// The apply endpoint reads an encoded image (at most MaxBodyBytes), applies
// the operator with the seed from the "seed" query parameter and returns the
// encoded result. Operator parameters are passed as a JSON object in the
// "params" query parameter. The seed actually used is echoed in the
// X-Imgaug-Seed header so a random draw can be reproduced.
//
// Results go through the same [pipeline.Runner] cache as the CLI, so an
// image augmented by a batch run is served without recomputation.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/imgaug/pkg/pipeline"
)

const (
	// MaxBodyBytes bounds the size of uploaded images.
	MaxBodyBytes = 32 << 20

	// HeaderRequestID carries the request ID in requests and responses.
	HeaderRequestID = "X-Request-ID"

	// HeaderSeed reports the seed used by the apply endpoint.
	HeaderSeed = "X-Imgaug-Seed"

	// HeaderCache reports whether the result came from the cache ("hit" or "miss").
	HeaderCache = "X-Imgaug-Cache"

	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server that applies operators through runner.
// A nil logger uses the runner's logger.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/operators", s.handleOperators)
		r.Post("/operators/{name}/apply", s.handleApply)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r.URL.Path))
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
