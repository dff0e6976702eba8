package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/weather-app/weather-pipeline/internal/logger"
)

// CronScheduler runs named background jobs on cron schedules. Both
// services use it for periodic component health checks.
type CronScheduler struct {
	cron       *cron.Cron
	jobs       map[string]cron.EntryID
	mu         sync.RWMutex
	jobTimeout time.Duration
	logger     logger.Logger
}

func NewCronScheduler(jobTimeout time.Duration, log logger.Logger) *CronScheduler {
	if jobTimeout <= 0 {
		jobTimeout = time.Minute
	}

	s := &CronScheduler{
		cron:       cron.New(cron.WithSeconds()),
		jobs:       make(map[string]cron.EntryID),
		jobTimeout: jobTimeout,
		logger:     log.WithField("component", "cron_scheduler"),
	}

	s.cron.Start()
	s.logger.Info("Cron scheduler started")

	return s
}

// Schedule registers a job under a unique name. spec accepts the usual
// six-field cron expressions as well as "@every 30s" descriptors.
func (s *CronScheduler) Schedule(name, spec string, task func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job with name '%s' already exists", name)
	}

	entryID, err := s.cron.AddFunc(spec, func() {
		s.runTask(name, task)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job '%s': %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Infof("Job '%s' scheduled (%s) with entry ID: %d", name, spec, entryID)
	return nil
}

func (s *CronScheduler) runTask(name string, task func(ctx context.Context) error) {
	startTime := time.Now()
	s.logger.Debugf("Starting scheduled job: %s", name)

	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	if err := task(ctx); err != nil {
		s.logger.Errorf("Job '%s' failed after %v: %v", name, time.Since(startTime), err)
		return
	}

	s.logger.Debugf("Job '%s' completed in %v", name, time.Since(startTime))
}

func (s *CronScheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.jobs = make(map[string]cron.EntryID)
	s.logger.Info("Cron scheduler stopped")
}

func (s *CronScheduler) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.cron.Entries()) == 0 && len(s.jobs) > 0 {
		return fmt.Errorf("cron has no entries but jobs are registered")
	}

	for name, entryID := range s.jobs {
		if entry := s.cron.Entry(entryID); entry.ID != entryID {
			return fmt.Errorf("job '%s' not found in cron", name)
		}
	}

	return nil
}
