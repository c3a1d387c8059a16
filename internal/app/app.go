// Package app wires the metastore, extraction service, and scheduler
// from the dependencies main() provides.
package app

import (
	"database/sql"
	"log/slog"

	"infacat/internal/config"
	"infacat/internal/service/extraction"
	"infacat/internal/store"
)

// Deps holds the external dependencies that main() must provide:
// config, the open metastore handle, and the root logger.
type Deps struct {
	Cfg    *config.Config
	MetaDB *sql.DB
	Logger *slog.Logger
}

// App holds the fully-wired application.
type App struct {
	Store      *store.RunStore
	Extraction *extraction.Service
	Scheduler  *extraction.Scheduler
}

// New wires the run store, extraction service, and cron scheduler.
// The scheduler is created unconditionally; main() starts it only when
// a schedule is configured.
func New(deps Deps) *App {
	runs := store.NewRunStore(deps.MetaDB)
	svc := extraction.NewService(runs, deps.Logger)
	sched := extraction.NewScheduler(svc, deps.Cfg.InputPath, deps.Logger)

	return &App{
		Store:      runs,
		Extraction: svc,
		Scheduler:  sched,
	}
}
