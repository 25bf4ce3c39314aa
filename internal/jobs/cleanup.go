package jobs

import (
	"log/slog"
	"time"

	"vihorki/internal/config"
	"vihorki/internal/database"
	"vihorki/internal/reports"
)

// CleanupJob removes stored comparison reports older than the retention
// period, keeping aggregate retention bounded.
type CleanupJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
	cfg       *config.Config
}

func NewCleanupJob(dbManager *database.DBManager, logger *slog.Logger, cfg *config.Config) *CleanupJob {
	return &CleanupJob{
		dbManager: dbManager,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run deletes reports generated before the retention cutoff.
func (j *CleanupJob) Run() error {
	retentionDays := j.cfg.ReportRetentionDays
	db := j.dbManager.GetConnection()
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	deleted, err := reports.DeleteOlderThan(db, cutoff)
	if err != nil {
		j.logger.Error("Failed to delete old reports", slog.Any("error", err))
		return err
	}

	if deleted > 0 {
		j.logger.Info("Cleaned up old reports",
			slog.Int64("deleted_count", deleted),
			slog.Int("retention_days", retentionDays))
	}

	return nil
}
