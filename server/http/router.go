package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pricematch-service/internal/config"
	"pricematch-service/internal/mapping"
	matchHnd "pricematch-service/internal/match/handler"
	"pricematch-service/internal/match/model"
	"pricematch-service/internal/middleware"
	"pricematch-service/server/http/handlers"
)

func NewRouter(cfg config.Config, engineCfg model.Config, store mapping.Store, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	// health-check
	r.Get("/health", handlers.Health)

	// основной эндпоинт
	r.Post("/match", matchHnd.Match(cfg, engineCfg, store, logger))

	// словарь маппингов (SCD2)
	r.Get("/mappings/{key}", matchHnd.MappingLookup(store, logger))
	r.Get("/mappings/{key}/history", matchHnd.MappingHistory(store, logger))

	return r
}
