// Package server exposes the catalog and archive over HTTP: search routes
// for the frontend and download routes that stream the documents.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Ignatius32/programas-crubunco/core/archive"
	"github.com/Ignatius32/programas-crubunco/core/catalog"
	"github.com/Ignatius32/programas-crubunco/core/dispatch"
)

// Server holds the HTTP surface and its collaborators.
type Server struct {
	log        *slog.Logger
	store      *archive.Store
	catalog    *catalog.Client
	dispatcher *dispatch.Dispatcher
	router     *chi.Mux
}

// New assembles the router. All state behind the handlers is immutable or
// safe for concurrent use.
func New(log *slog.Logger, store *archive.Store, cat *catalog.Client, disp *dispatch.Dispatcher) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		log:        log,
		store:      store,
		catalog:    cat,
		dispatcher: disp,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/search_programs", s.searchPrograms)
	r.Get("/api/programs_by_career_year", s.programsByCareerYear)
	r.Get("/api/available_years/{yearType}", s.availableYears)
	r.Get("/api/search_planes", s.searchPlanes)
	r.Get("/api/planes_options", s.planesOptions)
	r.Get("/api/search_options", s.searchOptions)
	r.Get("/download/programa/{programID}", s.downloadPrograma)
	r.Get("/download/plan/*", s.downloadPlan)

	s.router = r
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until ctx is canceled, then drains.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
