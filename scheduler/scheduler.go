// Package scheduler keeps the published catalog fresh: it runs the initial
// load, reloads once the data is older than the cache TTL and warns when
// refreshes stop landing.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/medicines-catalog/interfaces"
	"github.com/giygas/medicines-catalog/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler runs refresh and monitoring jobs on gocron
type Scheduler struct {
	dataStore interfaces.DataStore
	loader    interfaces.Loader
	ttl       time.Duration
	scheduler *gocron.Scheduler
	now       func() time.Time

	// ctx bounds every load the scheduler starts
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler refreshing the catalog every ttl
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.Loader, ttl time.Duration) *Scheduler {
	if ttl <= 0 {
		ttl = time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		dataStore: dataStore,
		loader:    loader,
		ttl:       ttl,
		scheduler: gocron.NewScheduler(time.Local),
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// CheckInterval is how often the refresh job looks at the data age. A
// quarter of the TTL keeps the catalog at most 1.25 TTL old.
func (s *Scheduler) CheckInterval() time.Duration {
	return s.ttl / 4
}

// Start performs the initial load and schedules the refresh and staleness
// jobs
func (s *Scheduler) Start() error {
	if _, err := s.loader.Load(s.ctx, interfaces.LoadOptions{}); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	_, err := s.scheduler.Every(s.CheckInterval()).WaitForSchedule().SingletonMode().Tag("refresh").Do(s.refreshIfStale)
	if err != nil {
		logging.Error("Failed to schedule refresh", "error", err)
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	_, err = s.scheduler.Every(s.ttl).WaitForSchedule().Tag("monitor").Do(func() {
		s.checkStaleness()
	})
	if err != nil {
		logging.Error("Failed to schedule staleness monitor", "error", err)
		return fmt.Errorf("failed to schedule staleness monitor: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Scheduler started", "ttl", s.ttl.String(), "check_interval", s.CheckInterval().String())
	return nil
}

// Stop stops the jobs and cancels a load in progress
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.cancel()
}

// refreshIfStale reloads when the published catalog is at least ttl old.
// The load goes through the cache, which has expired by then.
func (s *Scheduler) refreshIfStale() {
	age := s.now().Sub(s.dataStore.GetLastUpdated())
	if age < s.ttl {
		return
	}

	logging.Info("Catalog is due for refresh", "age", age.Round(time.Second).String())
	if _, err := s.loader.Load(s.ctx, interfaces.LoadOptions{}); err != nil {
		logging.Warn("Scheduled refresh did not complete", "error", err)
	}
}

// checkStaleness warns when the catalog is more than twice the TTL old
func (s *Scheduler) checkStaleness() bool {
	lastUpdate := s.dataStore.GetLastUpdated()
	if age := s.now().Sub(lastUpdate); age > 2*s.ttl {
		logging.Warn("Catalog has not been refreshed in time",
			"last_update", lastUpdate.Format(time.RFC3339),
			"age", age.Round(time.Second).String())
		return true
	}
	return false
}
