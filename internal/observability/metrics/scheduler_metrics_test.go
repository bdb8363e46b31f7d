package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smallbiznis/payables/pkg/db"
	"gorm.io/gorm"
)

func TestClassifySchedulerJobReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "deadline",
			err:  context.DeadlineExceeded,
			want: SchedulerJobReasonDeadlineExceeded,
		},
		{
			name: "db_lock_timeout",
			err:  &pgconn.PgError{Code: "55P03"},
			want: SchedulerJobReasonDBLockTimeout,
		},
		{
			name: "db",
			err:  &pgconn.PgError{Code: "08006"},
			want: SchedulerJobReasonDB,
		},
		{
			name: "upstream",
			err:  db.Upstream("invoice.list_open", errors.New("connection reset")),
			want: SchedulerJobReasonDB,
		},
		{
			name: "invalid_db",
			err:  gorm.ErrInvalidDB,
			want: SchedulerJobReasonDB,
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: SchedulerJobReasonUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifySchedulerJobReason(tc.err); got != tc.want {
				t.Fatalf("expected reason %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSetDueBacklog(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := newSchedulerMetrics(registry, Config{
		ServiceName: "payables",
		Environment: "test",
	})

	metrics.SetDueBacklog(map[string]int{"critical": 3, "upcoming": 1})
	if got := testutil.ToFloat64(metrics.dueBacklog.WithLabelValues("critical")); got != 3 {
		t.Fatalf("expected critical backlog 3, got %v", got)
	}

	metrics.SetDueBacklog(map[string]int{"normal": 2})
	if got := testutil.CollectAndCount(metrics.dueBacklog); got != 1 {
		t.Fatalf("expected stale tiers to be reset, got %d series", got)
	}
}
