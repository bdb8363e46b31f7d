package metricspush

import (
	"context"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	"github.com/smallbiznis/payables/internal/config"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Portfolio holds the payables snapshot that is pushed out. It owns a private
// registry so request and runtime metrics served on /metrics are not pushed.
type Portfolio struct {
	registry *prometheus.Registry
	pusher   Pusher
	log      *zap.Logger

	db       *gorm.DB
	invoices invoicedomain.Service
	branches branchdomain.Service

	openInvoices *prometheus.GaugeVec
	branchCount  prometheus.Gauge
	supplierCnt  prometheus.Gauge
	memoryBytes  prometheus.Gauge
}

type Params struct {
	fx.In

	Cfg      config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Invoices invoicedomain.Service
	Branches branchdomain.Service
	Pusher   Pusher `optional:"true"`
}

func NewPortfolio(p Params) *Portfolio {
	constLabels := prometheus.Labels{
		"service": serviceName(p.Cfg),
		"env":     environment(p.Cfg),
	}

	portfolio := &Portfolio{
		registry: prometheus.NewRegistry(),
		pusher:   p.Pusher,
		log:      p.Log.Named("metrics.portfolio"),
		db:       p.DB,
		invoices: p.Invoices,
		branches: p.Branches,
		openInvoices: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "payables_portfolio_open_invoices",
			Help:        "Open invoices by urgency tier.",
			ConstLabels: constLabels,
		}, []string{"tier"}),
		branchCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "payables_portfolio_branches",
			Help:        "Registered branches.",
			ConstLabels: constLabels,
		}),
		supplierCnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "payables_portfolio_suppliers",
			Help:        "Registered suppliers.",
			ConstLabels: constLabels,
		}),
		memoryBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "payables_process_memory_bytes",
			Help:        "Memory obtained from the OS by the process.",
			ConstLabels: constLabels,
		}),
	}
	portfolio.registry.MustRegister(
		portfolio.openInvoices,
		portfolio.branchCount,
		portfolio.supplierCnt,
		portfolio.memoryBytes,
	)
	return portfolio
}

// Enabled reports whether a pusher is configured.
func (p *Portfolio) Enabled() bool {
	return p != nil && p.pusher != nil
}

// Registry exposes the snapshot registry.
func (p *Portfolio) Registry() *prometheus.Registry {
	return p.registry
}

// Refresh reloads every gauge. A failing source is logged and leaves its
// gauge at the previous value.
func (p *Portfolio) Refresh(ctx context.Context) {
	summary, err := p.invoices.DueSummary(ctx)
	if err != nil {
		p.log.Warn("refresh open invoices failed", zap.Error(err))
	} else {
		for tier, count := range summary {
			p.openInvoices.WithLabelValues(string(tier)).Set(float64(count))
		}
	}

	if count, err := p.branches.Count(ctx); err != nil {
		p.log.Warn("refresh branch count failed", zap.Error(err))
	} else {
		p.branchCount.Set(float64(count))
	}

	var suppliers int64
	if err := p.db.WithContext(ctx).Table("suppliers").Count(&suppliers).Error; err != nil {
		p.log.Warn("refresh supplier count failed", zap.Error(err))
	} else {
		p.supplierCnt.Set(float64(suppliers))
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	p.memoryBytes.Set(float64(m.Sys))
}

// Push refreshes the snapshot and sends it. It is a no-op without a pusher.
func (p *Portfolio) Push(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	p.Refresh(ctx)
	return p.pusher.Push(ctx, p.registry)
}

func serviceName(cfg config.Config) string {
	if name := strings.TrimSpace(cfg.AppName); name != "" {
		return name
	}
	return "payables"
}

func environment(cfg config.Config) string {
	if env := strings.TrimSpace(cfg.Environment); env != "" {
		return env
	}
	return "unknown"
}
