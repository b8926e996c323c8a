package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffee_sync/internal/config"
	"coffee_sync/internal/handlers"
	"coffee_sync/internal/logger"
	"coffee_sync/internal/observability"
	"coffee_sync/internal/repository"
	"coffee_sync/internal/repository/db"
	"coffee_sync/internal/server"
	"coffee_sync/internal/service"
	"coffee_sync/internal/visualizer"

	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 2 * time.Minute

func main() {
	// load env + configs/config.yml
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel, logger.ConsoleFormat).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel, cfg.LogFormat)

	journal, err := openJournal(cfg.JournalPath, log)
	if err != nil {
		log.Fatalw("failed to init sqlite journal", "err", err)
	}
	if journal != nil {
		defer func() {
			if cerr := journal.Close(); cerr != nil {
				log.Errorw("failed to close sqlite journal", "err", cerr)
			}
		}()
	}

	// wire dependencies
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	source := visualizer.NewClient(cfg.Visualizer, log)
	repos := repository.NewRepository(repository.NewAirtableShots(cfg.Airtable, log), journal)
	services := service.NewService(cfg, source, repos, log, metrics)
	apiHandler := handlers.NewHandler(services, log, prometheus.DefaultGatherer)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(srv, log)
}

// openJournal opens the run journal, or returns nil when JOURNAL_PATH is unset.
func openJournal(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("JOURNAL_PATH not set; run journal disabled")
		return nil, nil
	}
	return db.InitDB(path)
}

func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("trigger server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains in-flight runs.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
