package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mateuschrist/taxdeed-api/internal/metrics"
	"github.com/mateuschrist/taxdeed-api/internal/repository"
)

const StaleRunMessage = "stale: no finish received"

// MaintenanceService holds the scheduled housekeeping of scraper bookkeeping.
type MaintenanceService struct {
	Repo       repository.ScraperRepository
	StaleAfter time.Duration
	Metrics    *metrics.Metrics
	Logger     *zap.Logger

	Now func() time.Time
}

// ResetDailyFlags clears done_for_today on every scraper so the next crawl
// window starts fresh.
func (s *MaintenanceService) ResetDailyFlags(ctx context.Context) (int64, error) {
	if s == nil || s.Repo == nil {
		return 0, errors.New("maintenance service not configured")
	}
	n, err := s.Repo.ResetDoneForToday(ctx, s.now())
	s.Metrics.RecordMaintenance("daily_reset", err)
	if err != nil {
		return 0, storageErr("reset done_for_today", err)
	}
	if s.Logger != nil && n > 0 {
		s.Logger.Info("daily scraper flags reset", zap.Int64("scrapers", n))
	}
	return n, nil
}

// CloseStaleRuns fails runs that have been running longer than StaleAfter.
// A scraper that crashed mid-run never calls finish; this keeps the run log
// from accumulating rows stuck in running.
func (s *MaintenanceService) CloseStaleRuns(ctx context.Context) (int64, error) {
	if s == nil || s.Repo == nil {
		return 0, errors.New("maintenance service not configured")
	}
	after := s.StaleAfter
	if after <= 0 {
		after = 6 * time.Hour
	}
	now := s.now()
	n, err := s.Repo.CloseStaleRuns(ctx, now.Add(-after), now, StaleRunMessage)
	s.Metrics.RecordMaintenance("stale_run_sweep", err)
	if err != nil {
		return 0, storageErr("close stale runs", err)
	}
	if s.Logger != nil && n > 0 {
		s.Logger.Warn("stale scraper runs closed", zap.Int64("runs", n), zap.Duration("stale_after", after))
	}
	return n, nil
}

func (s *MaintenanceService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
