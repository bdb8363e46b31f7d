package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/config"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
	"github.com/smallbiznis/payables/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubInvoices struct {
	invoicedomain.Service

	summary map[invoicedomain.Tier]int
	err     error
	block   bool
	calls   int
}

func (s *stubInvoices) DueSummary(ctx context.Context) (map[invoicedomain.Tier]int, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.summary, s.err
}

func newTestScheduler(t *testing.T, invoices invoicedomain.Service, cfg Config) *Scheduler {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	sched, err := New(Params{
		Log:      zaptest.NewLogger(t),
		Clock:    clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)),
		GenID:    node,
		Invoices: invoices,
		Config:   cfg,
	})
	require.NoError(t, err)
	return sched
}

func TestSweepDuePublishesOpenTiers(t *testing.T) {
	invoices := &stubInvoices{summary: map[invoicedomain.Tier]int{
		invoicedomain.TierOverdue:   3,
		invoicedomain.TierDueToday:  1,
		invoicedomain.TierCompleted: 5,
	}}
	sched := newTestScheduler(t, invoices, Config{Schedule: "off"})

	require.NoError(t, sched.SweepDue(context.Background()))

	got := sched.LastSummary()
	assert.Equal(t, map[string]int{
		"OVERDUE":   3,
		"DUE_TODAY": 1,
		"CRITICAL":  0,
		"UPCOMING":  0,
		"NORMAL":    0,
	}, got)
	assert.Equal(t, 1, invoices.calls)
}

func TestSweepDueWrapsStoreFailure(t *testing.T) {
	invoices := &stubInvoices{err: db.Upstream("invoice.due_summary", errors.New("connection reset"))}
	sched := newTestScheduler(t, invoices, Config{Schedule: "off"})

	err := sched.SweepDue(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrUpstream)
	assert.Contains(t, err.Error(), JobDueSweep)
	assert.Empty(t, sched.LastSummary())
}

func TestSweepDueTimeoutIsSoft(t *testing.T) {
	invoices := &stubInvoices{block: true}
	sched := newTestScheduler(t, invoices, Config{Schedule: "off", JobTimeout: 10 * time.Millisecond})

	assert.NoError(t, sched.SweepDue(context.Background()))
	assert.Equal(t, 1, invoices.calls)
}

func TestNewRejectsInvalidSchedule(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	_, err = New(Params{
		Log:      zaptest.NewLogger(t),
		Clock:    clock.SystemClock{},
		GenID:    node,
		Invoices: &stubInvoices{},
		Config:   Config{Schedule: "every tuesday"},
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = New(Params{Log: zaptest.NewLogger(t)})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStartStop(t *testing.T) {
	sched := newTestScheduler(t, &stubInvoices{}, Config{Schedule: "0 7 * * *"})

	ctx := context.Background()
	require.NoError(t, sched.Start(ctx))
	require.NoError(t, sched.Start(ctx))
	require.NoError(t, sched.Stop(ctx))
	require.NoError(t, sched.Stop(ctx))
}

func TestStartDisabled(t *testing.T) {
	invoices := &stubInvoices{}
	sched := newTestScheduler(t, invoices, Config{Schedule: "off"})

	require.NoError(t, sched.Start(context.Background()))
	require.NoError(t, sched.Stop(context.Background()))
	assert.Zero(t, invoices.calls)
}

func TestProvideConfigReadsAppConfig(t *testing.T) {
	cfg := ProvideConfig(config.Config{DueSweepSchedule: " 30 6 * * 1-5 ", Timezone: "UTC"})
	assert.Equal(t, "30 6 * * 1-5", cfg.Schedule)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.True(t, cfg.RunOnStart)
	assert.True(t, cfg.enabled())
}
