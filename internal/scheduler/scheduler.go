// Package scheduler runs periodic jobs on a single UTC cron instance.
// Quiz countdowns and outbox retries share it.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ErrInvalidInterval = errors.New("interval must be positive")

// Scheduler wraps a cron instance.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	l := cronLogger{logger: logger.Sugar()}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l)),
		),
		logger: logger,
	}
}

// fixedInterval fires exactly interval after the previous activation,
// without rounding to whole seconds.
type fixedInterval time.Duration

func (f fixedInterval) Next(t time.Time) time.Time {
	return t.Add(time.Duration(f))
}

// Every runs fn every interval until the returned cancel func is called.
// The first run happens one full interval after registration.
func (s *Scheduler) Every(interval time.Duration, fn func()) (func(), error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	id := s.cron.Schedule(fixedInterval(interval), cron.FuncJob(fn))

	var once sync.Once
	return func() {
		once.Do(func() { s.cron.Remove(id) })
	}, nil
}

// AddFunc registers a named job using a cron spec such as "@every 1m".
func (s *Scheduler) AddFunc(name, spec string, fn func()) error {
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("add cron job %q: %w", name, err)
	}

	s.logger.Info("cron job registered",
		zap.String("job", name),
		zap.String("spec", spec),
	)
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("cron scheduler started")
}

// Stop stops the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("cron scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("cron scheduler stop timed out", zap.Error(ctx.Err()))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
