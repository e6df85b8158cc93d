// Package job provides background job schedulers.
package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"store-search-service/internal/metrics"
	"store-search-service/pkg/locker"
)

const (
	dealExpiryJob     = "deal_expiry"
	dealExpiryLockKey = "jobs:deal_expiry:lock"
	defaultTimeout    = 30 * time.Second
)

// DealExpirer is the work the scheduler runs.
type DealExpirer interface {
	ExpireEnded(ctx context.Context) (int64, error)
}

// DealExpiryConfig holds deal expiry scheduler configuration.
type DealExpiryConfig struct {
	Schedule  string        // standard cron spec or descriptor, e.g. "@every 10m"
	Timeout   time.Duration // per-run deadline
	Cooldown  time.Duration // lock ttl after a successful run
	OnStartup bool
}

// DealExpiryScheduler periodically expires ended deals. A distributed lock
// makes sure only one instance runs per cooldown period.
type DealExpiryScheduler struct {
	expirer DealExpirer
	cfg     DealExpiryConfig
	logger  *zap.Logger
	locker  locker.DistributedLocker
	cron    *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDealExpiryScheduler creates a scheduler. The schedule is parsed up
// front so a bad spec fails at startup rather than silently never firing.
func NewDealExpiryScheduler(
	expirer DealExpirer,
	cfg DealExpiryConfig,
	logger *zap.Logger,
	l locker.DistributedLocker,
) (*DealExpiryScheduler, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = cfg.Timeout
	}

	s := &DealExpiryScheduler{
		expirer: expirer,
		cfg:     cfg,
		logger:  logger,
		locker:  l,
	}

	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})))
	if _, err := s.cron.AddFunc(cfg.Schedule, func() { s.execute(s.ctx) }); err != nil {
		return nil, fmt.Errorf("scheduling deal expiry %q: %w", cfg.Schedule, err)
	}

	return s, nil
}

// Start begins the background job.
func (s *DealExpiryScheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting deal expiry scheduler",
		zap.String("schedule", s.cfg.Schedule),
		zap.Duration("cooldown", s.cfg.Cooldown),
		zap.Bool("run_on_startup", s.cfg.OnStartup),
	)

	if s.cfg.OnStartup {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.execute(s.ctx)
		}()
	}

	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *DealExpiryScheduler) Stop() {
	s.logger.Info("stopping deal expiry scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("deal expiry scheduler stopped")
}

// execute runs one expiry pass under the distributed lock. A successful run
// keeps the lock for the cooldown; a failed run releases it for retry.
func (s *DealExpiryScheduler) execute(ctx context.Context) locker.Outcome {
	var expired int64
	outcome, err := locker.RunOnce(ctx, s.locker, dealExpiryLockKey, s.cfg.Cooldown, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()

		n, err := s.expirer.ExpireEnded(ctx)
		expired = n

		return err
	})

	switch outcome {
	case locker.Skipped:
		metrics.RecordJobRun(dealExpiryJob, "skipped")
		s.logger.Debug("another instance ran deal expiry, skipping execution")
	case locker.Completed:
		metrics.RecordJobRun(dealExpiryJob, "completed")
		s.logger.Info("deal expiry completed, lock held for cooldown",
			zap.Int64("expired", expired),
			zap.Duration("cooldown", s.cfg.Cooldown),
		)
	default:
		metrics.RecordJobRun(dealExpiryJob, "failed")
		s.logger.Error("deal expiry failed, lock released for retry", zap.Error(err))
	}

	return outcome
}

// cronLogger routes cron's own messages to zap.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
