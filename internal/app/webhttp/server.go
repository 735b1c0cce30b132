package webhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yourname/fileshare_lite/internal/config"
	"github.com/yourname/fileshare_lite/internal/logging"
	"github.com/yourname/fileshare_lite/internal/metrics"
	"github.com/yourname/fileshare_lite/internal/repo"
	"github.com/yourname/fileshare_lite/internal/usecase/filesvc"
)

type Server struct {
	Files      filesvc.Service
	Selections *repo.SelectionCache
	Cfg        *config.Config
}

// NewServer конструктор. cfg must already be resolved: Root is used as is.
func NewServer(cfg *config.Config) (http.Handler, *Server, error) {
	cache, err := repo.NewSelectionCache(cfg.CacheCapacity, func(string) { metrics.RecordEviction() })
	if err != nil {
		return nil, nil, err
	}

	srv := &Server{
		Files: filesvc.New(filesvc.Deps{
			Root:       cfg.Root,
			Selections: cache,
			Parallel:   cfg.Parallel,
		}),
		Selections: cache,
		Cfg:        cfg,
	}

	return srv.routes(), srv, nil
}

// routes регистрирует обработчики файлов, выборок и служебные эндпоинты.
func (s *Server) routes() http.Handler {
	rtr := chi.NewRouter()
	rtr.Use(middleware.RequestID)
	rtr.Use(logging.Middleware)
	rtr.Use(middleware.Recoverer)
	if s.Cfg.Metrics {
		rtr.Use(metrics.Middleware)
	}
	rtr.Use(middleware.GetHead)

	if s.Cfg.Metrics {
		rtr.Method(http.MethodGet, "/metrics", metrics.Handler())
	}
	rtr.Get("/", s.getFile)
	rtr.Get("/files", s.getFile)
	rtr.Get("/files/*", s.getFile)
	rtr.Post("/register-selection", s.postSelection)
	rtr.Get("/config/{id}", s.getConfig)
	rtr.Get("/health", s.health)

	return rtr
}
