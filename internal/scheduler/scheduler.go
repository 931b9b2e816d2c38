// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance tasks.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/calyptra/studio-go/internal/store"
)

// Scheduler handles periodic maintenance: visit log retention pruning and
// database upkeep.
type Scheduler struct {
	db            *sql.DB
	driver        string
	retentionDays int
	cron          *cron.Cron
	logger        *slog.Logger
}

// New creates a new scheduler instance. retentionDays of 0 disables visit
// pruning.
func New(db *sql.DB, driver string, retentionDays int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:            db,
		driver:        driver,
		retentionDays: retentionDays,
		cron:          cron.New(),
		logger:        logger,
	}
}

// Start schedules the nightly maintenance job.
func (s *Scheduler) Start() error {
	// Run at 03:30 every night, off-peak for a marketing site
	_, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.runMaintenance(); err != nil {
			s.logger.Error("maintenance run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// runMaintenance prunes expired visit rows and optimizes the database.
func (s *Scheduler) runMaintenance() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if s.retentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
		deleted, err := store.NewWithDialect(s.db, s.driver).DeleteVisitsBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		if deleted > 0 {
			s.logger.Info("pruned visit log",
				"deleted", deleted,
				"retention_days", s.retentionDays,
				"cutoff", cutoff.Format(time.RFC3339),
			)
		}
	}

	if s.driver == store.DriverSQLite {
		if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
			s.logger.Warn("PRAGMA optimize failed", "error", err)
		}
		if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			s.logger.Warn("WAL checkpoint failed", "error", err)
		}
	}

	return nil
}
