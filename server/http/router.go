package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pricematch-service/internal/config"
	matchHnd "pricematch-service/internal/matching/handler"
	"pricematch-service/internal/matching/pipeline"
	"pricematch-service/internal/metrics"
	"pricematch-service/internal/middleware"
	"pricematch-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, rec *metrics.Recorder) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)
	r.Method("GET", "/metrics", rec.Handler())

	// основной эндпоинт
	r.With(middleware.RateLimit(cfg.MatchRPS, cfg.MatchBurst)).
		Post("/match", matchHnd.Match(cfg, logger, pipeline.New(logger, rec), rec))

	return r
}
