// Package scheduler runs the periodic jobs of the service on robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"github.com/ndewijer/Investment-Research-Backend/internal/model"
)

// PriceRefresher marks active investments to market. It is implemented by service.PriceRefreshService.
type PriceRefresher interface {
	RefreshActive(ctx context.Context) (model.PriceRefreshResponse, error)
}

// CronLogger routes the cron runner's own messages (recovered panics, skipped runs) to a phuslu logger.
// cron's Info messages are chatty per-tick bookkeeping and go to debug.
type CronLogger struct {
	logger *log.Logger
}

// NewCronLogger wraps logger as a cron.Logger.
func NewCronLogger(logger *log.Logger) CronLogger {
	return CronLogger{logger: logger}
}

// Info implements cron.Logger.
func (l CronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().KeysAndValues(keysAndValues...).Msg(msg)
}

// Error implements cron.Logger.
func (l CronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).KeysAndValues(keysAndValues...).Msg(msg)
}

var _ cron.Logger = CronLogger{}

// Scheduler owns the cron runner and the jobs registered on it.
type Scheduler struct {
	cron    *cron.Cron
	logger  *log.Logger
	timeout time.Duration

	mu      sync.Mutex
	running bool
}

// New creates an idle Scheduler. Each job run is bounded by timeout.
func New(logger *log.Logger, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	cronLogger := NewCronLogger(logger)
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger:  logger,
		timeout: timeout,
	}
}

// AddPriceRefresh registers refresher on spec, a standard five-field cron expression
// or a descriptor such as "@every 15m". An empty spec registers nothing.
func (s *Scheduler) AddPriceRefresh(spec string, refresher PriceRefresher) error {
	if spec == "" {
		s.logger.Info().Msg("price refresh schedule disabled")
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		s.RunPriceRefresh(refresher)
	})
	if err != nil {
		return fmt.Errorf("invalid price refresh schedule %q: %w", spec, err)
	}

	s.logger.Info().Str("schedule", spec).Msg("price refresh scheduled")
	return nil
}

// RunPriceRefresh runs one refresh with the scheduler timeout and logs the outcome.
func (s *Scheduler) RunPriceRefresh(refresher PriceRefresher) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := refresher.RefreshActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("scheduled price refresh failed")
		return
	}

	s.logger.Info().
		Int("updated", resp.UpdatedCount).
		Int("errors", len(resp.Errors)).
		Dur("duration", time.Since(start)).
		Msg("scheduled price refresh completed")
}

// Start runs the registered jobs in the background. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
}

// Stop stops scheduling new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
