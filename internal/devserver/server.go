// Package devserver serves built assets locally, watching sources and
// pushing live reloads to connected browsers.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/wolfeidau/bundlekit/internal/pipeline"
)

const reloadPath = "/__bundlekit/reload"

// Server is the local development server for one build configuration.
type Server struct {
	pipeline *pipeline.Pipeline
	log      zerolog.Logger
}

// New creates a development server around the given pipeline. The pipeline
// should be constructed with live reload enabled so the generated shell
// subscribes to reload events.
func New(p *pipeline.Pipeline, log zerolog.Logger) *Server {
	return &Server{pipeline: p, log: log}
}

// Run starts the source watcher and serves the output directory until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.pipeline.Config()

	rebuilt, err := s.pipeline.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	hub := newReloadHub()
	go hub.run(rebuilt)

	addr := fmt.Sprintf("localhost:%d", cfg.Port)
	srv := configureHTTPServer(addr, s.handler(hub))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("Failed to shut down dev server")
		}
	}()

	s.log.Info().
		Str("addr", "http://"+addr).
		Str("outdir", cfg.OutputDir).
		Msg("Development server listening")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handler(hub *reloadHub) http.Handler {
	cfg := s.pipeline.Config()

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(cfg.OutputDir)))
	mux.HandleFunc(reloadPath, hub.serveSSE)

	return requestLogging(s.log)(mux)
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       time.Minute,
		// Reload connections are long-lived server-sent event streams, so
		// no write deadline.
		WriteTimeout:   0,
		IdleTimeout:    5 * time.Minute,
		MaxHeaderBytes: 8 * 1024, // 8KiB
	}
}
