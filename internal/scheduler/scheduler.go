package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"
	"github.com/smallbiznis/payables/internal/clock"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
	obscontext "github.com/smallbiznis/payables/internal/observability/context"
	obsmetrics "github.com/smallbiznis/payables/internal/observability/metrics"
	"github.com/smallbiznis/payables/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	JobDueSweep = "due_sweep"

	dueSweepLockKey = "payables:sweep:due"
)

var (
	ErrInvalidConfig   = errors.New("invalid_scheduler_config")
	ErrInvalidSchedule = errors.New("invalid_schedule")
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Invoices invoicedomain.Service
	Config   Config                      `optional:"true"`
	Metrics  *obsmetrics.SchedulerMetrics `optional:"true"`
	Locker   *ratelimit.Locker            `optional:"true"`
}

// Scheduler runs background jobs over the invoice store. Today that is the
// due sweep, which republishes the urgency backlog gauge.
type Scheduler struct {
	log      *zap.Logger
	cfg      Config
	clock    clock.Clock
	genID    *snowflake.Node
	invoices invoicedomain.Service
	metrics  *obsmetrics.SchedulerMetrics
	locker   *ratelimit.Locker

	mu   sync.Mutex
	cron *cron.Cron
	last map[string]int
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.GenID == nil || p.Invoices == nil {
		return nil, ErrInvalidConfig
	}
	cfg := p.Config.withDefaults()
	if cfg.enabled() {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, cfg.Schedule, err)
		}
	}
	return &Scheduler{
		log:      p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:      cfg,
		clock:    p.Clock,
		genID:    p.GenID,
		invoices: p.Invoices,
		metrics:  p.Metrics,
		locker:   p.Locker,
	}, nil
}

// Start registers the jobs and starts the cron runner. It is a no-op when the
// sweep is disabled.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.enabled() {
		s.log.Info("due sweep disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	c := cron.New(cron.WithLocation(s.cfg.Location))
	if _, err := c.AddFunc(s.cfg.Schedule, func() {
		if err := s.SweepDue(ctx); err != nil {
			s.log.Warn("due sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	c.Start()
	s.cron = c

	s.log.Info("scheduler started",
		zap.String("schedule", s.cfg.Schedule),
		zap.String("location", s.cfg.Location.String()),
	)
	return nil
}

// Stop halts the cron runner and waits for a running job or ctx, whichever
// comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return nil
	}

	done := c.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SweepDue counts open invoices per urgency tier and publishes the result.
func (s *Scheduler) SweepDue(parent context.Context) error {
	return s.runJob(parent, JobDueSweep, s.sweepDue)
}

// LastSummary returns the counts published by the most recent sweep.
func (s *Scheduler) LastSummary() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.last))
	for k, v := range s.last {
		out[k] = v
	}
	return out
}

func (s *Scheduler) sweepDue(ctx context.Context, log *zap.Logger) error {
	token, ok, err := s.locker.TryLock(ctx, dueSweepLockKey, s.cfg.LockTTL)
	if err != nil {
		log.Warn("due sweep lock unavailable, running unlocked", zap.Error(err))
	} else if !ok {
		log.Debug("due sweep held by another instance")
		return nil
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), dueSweepLockKey, token); err != nil {
			log.Warn("due sweep lock release failed", zap.Error(err))
		}
	}()

	summary, err := s.invoices.DueSummary(ctx)
	if err != nil {
		return err
	}

	counts := make(map[string]int, len(invoicedomain.Tiers))
	for _, tier := range invoicedomain.Tiers {
		if tier == invoicedomain.TierCompleted {
			continue
		}
		counts[string(tier)] = summary[tier]
	}
	s.metrics.SetDueBacklog(counts)

	s.mu.Lock()
	s.last = counts
	s.mu.Unlock()

	log.Info("due sweep finished",
		zap.Int("overdue", counts[string(invoicedomain.TierOverdue)]),
		zap.Int("due_today", counts[string(invoicedomain.TierDueToday)]),
		zap.Int("critical", counts[string(invoicedomain.TierCritical)]),
		zap.Int("upcoming", counts[string(invoicedomain.TierUpcoming)]),
		zap.Int("normal", counts[string(invoicedomain.TierNormal)]),
	)
	if n := counts[string(invoicedomain.TierOverdue)]; n > 0 {
		log.Warn("overdue invoices pending", zap.Int("count", n))
	}
	return nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	fn func(ctx context.Context, log *zap.Logger) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()
	ctx, correlationID := obscontext.EnsureCorrelationID(ctx)

	log := s.log.With(
		zap.String("job", name),
		zap.String("run_id", s.genID.Generate().String()),
		zap.String("correlation_id", correlationID),
	)
	s.metrics.IncJobRun(name)

	err := fn(ctx, log)
	s.metrics.ObserveJobDuration(name, s.clock.Now().Sub(start))
	if err == nil {
		return nil
	}

	s.metrics.IncJobError(name, err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out",
			zap.Duration("timeout", s.cfg.JobTimeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}
