package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/has-bi/you-posm/internal/app/service"
	"github.com/has-bi/you-posm/pkg/logger"
)

// LookupScheduler periodically re-reads the store and employee lookup
// sheets so form renders serve the cached lists instead of hitting
// the Sheets API on every request.
type LookupScheduler struct {
	cron          *cron.Cron
	lookupService service.LookupService
	interval      time.Duration
}

func NewLookupScheduler(lookupService service.LookupService, interval time.Duration) *LookupScheduler {
	return &LookupScheduler{
		cron:          cron.New(),
		lookupService: lookupService,
		interval:      interval,
	}
}

// Start registers the refresh job and starts the scheduler.
func (s *LookupScheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.lookupService.Refresh(ctx); err != nil {
			logger.Error("Scheduled lookup refresh failed", err)
			return
		}
		logger.Debug("Lookup caches refreshed")
	})
	if err != nil {
		logger.Error("Failed to register lookup refresh job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Lookup refresh scheduler started", map[string]interface{}{
		"interval": s.interval.String(),
	})
	return nil
}

// Stop stops the scheduler.
func (s *LookupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Lookup refresh scheduler stopped")
}
