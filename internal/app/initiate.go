package app

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkglog"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkguid"
)

var defaults = map[string]any{
	"log.level":                     "info",
	"tz":                            "America/Sao_Paulo",
	"server.host":                   "0.0.0.0",
	"server.port":                   8080,
	"modules.vendas.enabled":        true,
	"vendas.default_file":           "vendas.xlsx",
	"vendas.load_date.column":       "dat_ref_carga",
	"vendas.load_date.timezone":     "America/Sao_Paulo",
	"vendas.source.driver":          "gcs",
	"vendas.source.bucket":          "sample-track-files",
	"vendas.source.s3.region":       "us-east-1",
	"vendas.warehouse.driver":       "bigquery",
	"vendas.warehouse.dataset":      "BRONZE",
	"vendas.warehouse.table":        "vendas",
	"vendas.warehouse.job_prefix":   "vendas_load_",
	"vendas.warehouse.postgres.dsn": "",
}

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
		if err := godotenv.Load(); err != nil {
			slog.Warn("no .env file loaded", "error", err)
		}
	}

	cfg, err := pkgconfig.NewViper(path,
		pkgconfig.WithDefaults(defaults),
		pkgconfig.WithEnvAlias("server.port", "PORT"),
	)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	pkglog.InitLogging(cfg.GetString("log.level"))

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
	a.addCloser("Config", func(context.Context) error {
		return cfg.Close()
	})
}

func (a *App) initLibraries() {
	a.uuid = pkguid.NewUUID()
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              net.JoinHostPort(a.config.GetString("server.host"), a.config.GetString("server.port")),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
