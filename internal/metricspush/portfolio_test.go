package metricspush

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	"github.com/smallbiznis/payables/internal/config"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
	payablestest "github.com/smallbiznis/payables/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubInvoices struct {
	invoicedomain.Service
	summary map[invoicedomain.Tier]int
	err     error
}

func (s stubInvoices) DueSummary(context.Context) (map[invoicedomain.Tier]int, error) {
	return s.summary, s.err
}

type stubBranches struct {
	branchdomain.Service
	count int64
}

func (s stubBranches) Count(context.Context) (int64, error) {
	return s.count, nil
}

type recordingPusher struct {
	pushes int
}

func (r *recordingPusher) Push(context.Context, *prometheus.Registry) error {
	r.pushes++
	return nil
}

func newPortfolio(t *testing.T, invoices invoicedomain.Service, pusher Pusher) *Portfolio {
	t.Helper()
	conn := payablestest.NewDB(t, &supplierdomain.Supplier{})
	node := payablestest.NewNode(t)
	require.NoError(t, conn.Create(&supplierdomain.Supplier{ID: node.Generate(), CompanyName: "DELL COMPUTADORES"}).Error)
	require.NoError(t, conn.Create(&supplierdomain.Supplier{ID: node.Generate(), CompanyName: "G7 TECNOLOGIA"}).Error)

	return NewPortfolio(Params{
		Cfg:      config.Config{AppName: "payables", Environment: "test"},
		Log:      zaptest.NewLogger(t),
		DB:       conn,
		Invoices: invoices,
		Branches: stubBranches{count: 3},
		Pusher:   pusher,
	})
}

func TestPortfolioRefresh(t *testing.T) {
	p := newPortfolio(t, stubInvoices{summary: map[invoicedomain.Tier]int{
		invoicedomain.TierOverdue:  4,
		invoicedomain.TierCritical: 1,
	}}, nil)

	p.Refresh(context.Background())

	assert.Equal(t, 4.0, testutil.ToFloat64(p.openInvoices.WithLabelValues("OVERDUE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.openInvoices.WithLabelValues("CRITICAL")))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.branchCount))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.supplierCnt))
	assert.Positive(t, testutil.ToFloat64(p.memoryBytes))
}

func TestPortfolioRefreshKeepsGaugeOnFailure(t *testing.T) {
	p := newPortfolio(t, stubInvoices{summary: map[invoicedomain.Tier]int{invoicedomain.TierOverdue: 2}}, nil)
	p.Refresh(context.Background())

	p.invoices = stubInvoices{err: errors.New("connection refused")}
	p.Refresh(context.Background())

	assert.Equal(t, 2.0, testutil.ToFloat64(p.openInvoices.WithLabelValues("OVERDUE")))
}

func TestPortfolioPush(t *testing.T) {
	disabled := newPortfolio(t, stubInvoices{}, nil)
	assert.False(t, disabled.Enabled())
	require.NoError(t, disabled.Push(context.Background()))

	pusher := &recordingPusher{}
	t.Run("enabled", func(t *testing.T) {
		p := newPortfolio(t, stubInvoices{summary: map[invoicedomain.Tier]int{}}, pusher)
		require.True(t, p.Enabled())
		require.NoError(t, p.Push(context.Background()))
	})
	assert.Equal(t, 1, pusher.pushes)
}
