package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/migdam/graphs/internal/analysis"
	"github.com/migdam/graphs/internal/api"
	"github.com/migdam/graphs/internal/config"
	"github.com/migdam/graphs/internal/state"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	analysisSvc := analysis.NewService(logger, analysis.ServiceOptions{
		Workers:               cfg.Workers,
		MaxCorrelationColumns: cfg.MaxCorrelationColumns,
		DefaultTimeout:        cfg.AnalysisTimeout,
	})
	handler := api.NewHandler(analysisSvc, state.NewAppState(), logger)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Graph analytics backend is running"))
	})
	handler.RegisterRoutes(r)

	logger.Info("starting server",
		zap.String("port", cfg.Port),
		zap.Int("workers", cfg.Workers),
		zap.Duration("analysis_timeout", cfg.AnalysisTimeout))

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
