package main

import (
	"database/sql"

	"coffee_sync/internal/config"
	"coffee_sync/internal/invoke"
	"coffee_sync/internal/logger"
	"coffee_sync/internal/repository"
	"coffee_sync/internal/repository/db"
	"coffee_sync/internal/service"
	"coffee_sync/internal/visualizer"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	lambda.Start(newHandler().Handle)
}

// newHandler wires the function once per cold start. A bad configuration
// still starts the function so that every invocation reports the error.
func newHandler() *invoke.Handler {
	cfg, err := config.Load()
	if err != nil {
		log := logger.Get(logger.InfoLevel, logger.JSONFormat)
		log.Errorw("error reading config", "err", err)
		return invoke.NewFailedHandler(err, log)
	}

	// CloudWatch wants one JSON object per line. Nothing scrapes a Lambda, so
	// metrics stay off here; the run outcome is in the logs and the journal.
	log := logger.Get(cfg.LogLevel, logger.JSONFormat)

	var journal *sql.DB
	if cfg.JournalPath != "" {
		journal, err = db.InitDB(cfg.JournalPath)
		if err != nil {
			log.Errorw("run journal disabled", "err", err)
			journal = nil
		}
	}

	source := visualizer.NewClient(cfg.Visualizer, log)
	repos := repository.NewRepository(repository.NewAirtableShots(cfg.Airtable, log), journal)

	return invoke.NewHandler(service.NewService(cfg, source, repos, log, nil), log)
}
