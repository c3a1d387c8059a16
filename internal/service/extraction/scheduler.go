package extraction

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler re-runs extraction of a fixed input on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	svc       *Service
	inputPath string
	logger    *slog.Logger
}

// NewScheduler creates a scheduler for the given input file.
func NewScheduler(svc *Service, inputPath string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:      cron.New(),
		svc:       svc,
		inputPath: inputPath,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start registers the schedule and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		run, err := s.svc.Run(context.Background(), s.inputPath)
		if err != nil {
			s.logger.Warn("scheduled extraction failed", "input", s.inputPath, "error", err)
			return
		}
		s.logger.Info("scheduled extraction complete", "run_id", run.ID)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("extraction scheduler started", "schedule", schedule, "input", s.inputPath)
	return nil
}

// Stop gracefully stops the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("extraction scheduler stopped")
}
