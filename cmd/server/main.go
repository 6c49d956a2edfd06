package main

import (
	"github.com/gorilla/mux"
	"github.com/ismywebok/webaudit/internal/audit"
	"github.com/ismywebok/webaudit/internal/config"
	"github.com/ismywebok/webaudit/internal/database"
	"github.com/ismywebok/webaudit/internal/handlers"
	"github.com/ismywebok/webaudit/internal/httpserver"
	"github.com/ismywebok/webaudit/internal/logging"
	"github.com/ismywebok/webaudit/internal/pagespeed"
	"github.com/ismywebok/webaudit/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := logging.New()

	db, err := database.NewPostgresDB(logger, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Database initialization failed")
	}

	store := database.NewAuditStore(db)
	psiClient := pagespeed.NewClient(logger, cfg)

	var archive storage.Storage
	if cfg.ArchiveEnabled() {
		archive = storage.NewS3Storage(cfg)
	}

	service := audit.NewService(logger, store, psiClient, archive, cfg.AuditTTL)
	handler := handlers.NewHandler(logger, cfg, service, store)

	r := mux.NewRouter()
	r.Use(handlers.LoggingMiddleware(logger, db))
	r.Use(handlers.RateLimitMiddleware(cfg))
	handlers.RegisterRoutes(r, handler)

	httpserver.Run(logger, cfg.ListenAddr, r)
}
