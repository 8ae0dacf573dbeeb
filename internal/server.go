package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"mediio-admin/internal/config"
	"mediio-admin/internal/handlers"
	"mediio-admin/internal/persist"
	"mediio-admin/internal/section"
	"mediio-admin/internal/seed"
	"mediio-admin/internal/store"
)

type Server struct {
	Storage   persist.Storage
	Stores    *store.Set
	Dashboard *section.Dashboard
	Router    *chi.Mux
	Metrics   *Metrics
	Log       logrus.FieldLogger
}

// NewServer opens the configured storage, loads and seeds the four stores
// and mounts the HTTP routes.
func NewServer(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Server, error) {
	storage, err := persist.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	metrics := NewMetrics()
	set := store.OpenSet(ctx, storage, log, store.WithObserver(metrics))

	if !cfg.SkipSeed {
		data := seed.Default()
		if cfg.SeedFile != "" {
			if data, err = seed.LoadFile(cfg.SeedFile); err != nil {
				_ = storage.Close()
				return nil, err
			}
		}
		if _, err := seed.Run(ctx, set, data, log); err != nil {
			log.WithError(err).Warn("seed data not fully persisted")
		}
	}

	s := newServer(set, metrics, cfg.EnableMetrics, log)
	s.Storage = storage
	return s, nil
}

// newServer wires the router around already opened stores.
func newServer(set *store.Set, metrics *Metrics, enableMetrics bool, log logrus.FieldLogger) *Server {
	s := &Server{
		Stores:    set,
		Dashboard: section.NewDashboard(set, section.WithLogger(log)),
		Router:    chi.NewRouter(),
		Metrics:   metrics,
		Log:       log,
	}

	s.Router.Use(middleware.RequestID, RequestLogger(log), middleware.Recoverer)

	// Mount metrics if enabled
	if enableMetrics {
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	s.mountRoutes(s.Router)
	return s
}

// Close releases the storage backend.
func (s *Server) Close(ctx context.Context) error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}

func (s *Server) mountRoutes(r chi.Router) {
	r.Get("/dashboard", s.getDashboard)
	r.Get("/export.xlsx", s.exportWorkbook)

	importsHandler := handlers.NewImportsHandler(s.Dashboard.Sections)
	r.Post("/imports/excel", importsHandler.UploadExcel)

	r.Route("/sections/{section}", func(r chi.Router) {
		r.Use(s.withSection)

		r.Get("/", s.listRows)
		r.Get("/records/{id}", s.getRecord)

		r.Get("/form", s.getForm)
		r.Post("/form", s.openForm)
		r.Patch("/form", s.patchForm)
		r.Post("/form/save", s.saveForm)
		r.Delete("/form", s.cancelForm)

		r.Post("/records/{id}/delete", s.requestDelete)
		r.Get("/delete", s.getDeletePrompt)
		r.Post("/delete/confirm", s.confirmDelete)
		r.Delete("/delete", s.cancelDelete)
	})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
