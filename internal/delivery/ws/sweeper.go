package ws

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"slateboard-backend/internal/domain"
	"slateboard-backend/internal/metrics"
)

// Sweeper periodically evicts rooms whose last activity is older than the
// threshold. Eviction is unconditional: a long-idle room still holding
// members is assumed to be carrying leaked or hung sessions and is
// reclaimed anyway. Only the disconnect path requires emptiness.
type Sweeper struct {
	registry  *Registry
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	threshold time.Duration
	interval  time.Duration
}

// SweeperOption customises the Sweeper.
type SweeperOption func(*Sweeper)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) SweeperOption {
	return func(s *Sweeper) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithNow overrides the clock used for idleness comparisons.
func WithNow(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// WithThreshold overrides how long a room may stay idle before eviction.
func WithThreshold(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.threshold = d
		}
	}
}

// WithInterval overrides how often the sweep runs.
func WithInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewSweeper constructs a Sweeper with the default threshold and interval.
func NewSweeper(registry *Registry, log *zap.Logger, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		registry:  registry,
		now:       time.Now,
		log:       log,
		threshold: domain.DefaultRoomTTL,
		interval:  domain.DefaultSweepInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return s
}

// Start schedules the periodic sweep and launches the scheduler.
func (s *Sweeper) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		s.RunOnce()
	}); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for any running sweep to complete.
func (s *Sweeper) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// RunOnce sweeps every room once and returns the number evicted.
func (s *Sweeper) RunOnce() int {
	now := s.now()
	evicted := 0

	for _, room := range s.registry.ListAll() {
		idle := now.Sub(room.LastActivity())
		if idle <= s.threshold {
			continue
		}

		s.registry.Delete(room.Code)
		evicted++
		metrics.SweptRoomsTotal.Inc()
		s.log.Info("room deleted",
			zap.String("room", room.Code),
			zap.String("reason", "inactive"),
			zap.Duration("idle", idle))
	}

	return evicted
}
