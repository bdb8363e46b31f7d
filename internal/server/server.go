package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/payables/internal/attachment"
	"github.com/smallbiznis/payables/internal/auth"
	authdomain "github.com/smallbiznis/payables/internal/auth/domain"
	"github.com/smallbiznis/payables/internal/authorization"
	"github.com/smallbiznis/payables/internal/branch"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	"github.com/smallbiznis/payables/internal/config"
	"github.com/smallbiznis/payables/internal/invoice"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
	"github.com/smallbiznis/payables/internal/observability"
	obslogger "github.com/smallbiznis/payables/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/payables/internal/observability/metrics"
	obstracing "github.com/smallbiznis/payables/internal/observability/tracing"
	"github.com/smallbiznis/payables/internal/ratelimit"
	"github.com/smallbiznis/payables/internal/report"
	"github.com/smallbiznis/payables/internal/seed"
	"github.com/smallbiznis/payables/internal/supplier"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func init() {
	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

var Module = fx.Module("http.server",
	ratelimit.Module,
	authorization.Module,
	auth.Module,
	branch.Module,
	supplier.Module,
	invoice.Module,
	attachment.Module,
	report.Module,
	seed.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

type EngineParams struct {
	fx.In

	Cfg         config.Config
	ObsCfg      observability.Config
	HTTPMetrics *obsmetrics.HTTPMetrics `optional:"true"`
}

func NewEngine(p EngineParams) *gin.Engine {
	if !p.ObsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(p.Cfg.CORSAllowedOrigins))
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           p.ObsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(p.HTTPMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	authsvc     authdomain.Service
	authzSvc    authorization.Service
	branchSvc   branchdomain.Service
	supplierSvc supplierdomain.Service
	invoiceSvc  invoicedomain.Service
	attachments *attachment.Service
	reports     *report.Service
	seeder      *seed.Seeder
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	Authsvc     authdomain.Service
	AuthzSvc    authorization.Service
	BranchSvc   branchdomain.Service
	SupplierSvc supplierdomain.Service
	InvoiceSvc  invoicedomain.Service
	Attachments *attachment.Service
	Reports     *report.Service
	Seeder      *seed.Seeder `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		authsvc:     p.Authsvc,
		authzSvc:    p.AuthzSvc,
		branchSvc:   p.BranchSvc,
		supplierSvc: p.SupplierSvc,
		invoiceSvc:  p.InvoiceSvc,
		attachments: p.Attachments,
		reports:     p.Reports,
		seeder:      p.Seeder,
	}

	svc.registerHealthRoutes()
	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerStaticRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHealthRoutes() {
	s.engine.GET("/health/db", s.HealthDB)
}

func (s *Server) registerAuthRoutes() {
	s.engine.POST("/api/token", s.IssueToken)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	const (
		read  = authorization.ActionRead
		write = authorization.ActionWrite
	)

	// -------- Users --------
	api.GET("/users", s.authorize(authorization.ObjectUser, read), s.ListUsers)
	api.POST("/users", s.authorize(authorization.ObjectUser, write), s.CreateUser)

	// -------- Branches --------
	api.GET("/branches", s.authorize(authorization.ObjectBranch, read), s.ListBranches)
	api.POST("/branches", s.authorize(authorization.ObjectBranch, write), s.CreateBranch)
	api.PUT("/branches/:id", s.authorize(authorization.ObjectBranch, write), s.UpdateBranch)
	api.DELETE("/branches/:id", s.authorize(authorization.ObjectBranch, write), s.DeleteBranch)

	// -------- Suppliers --------
	api.GET("/suppliers", s.authorize(authorization.ObjectSupplier, read), s.ListSuppliers)
	api.GET("/suppliers/:id", s.authorize(authorization.ObjectSupplier, read), s.GetSupplierByID)
	api.POST("/suppliers", s.authorize(authorization.ObjectSupplier, write), s.CreateSupplier)
	api.PUT("/suppliers/:id", s.authorize(authorization.ObjectSupplier, write), s.UpdateSupplier)
	api.DELETE("/suppliers/:id", s.authorize(authorization.ObjectSupplier, write), s.DeleteSupplier)

	// -------- Invoices --------
	api.GET("/invoices", s.authorize(authorization.ObjectInvoice, read), s.SearchInvoices)
	api.GET("/invoices/grouped", s.authorize(authorization.ObjectInvoice, read), s.GroupedInvoices)
	api.GET("/invoices/:id", s.authorize(authorization.ObjectInvoice, read), s.GetInvoiceByID)
	api.GET("/invoices/:id/protheus", s.authorize(authorization.ObjectInvoice, read), s.GetInvoiceProtheusText)
	api.POST("/invoices", s.authorize(authorization.ObjectInvoice, write), s.CreateInvoices)
	api.PUT("/invoices/:id", s.authorize(authorization.ObjectInvoice, write), s.UpdateInvoice)
	api.PATCH("/invoices/:id/status", s.authorize(authorization.ObjectInvoice, write), s.SetInvoiceStatus)
	api.DELETE("/invoices/:id", s.authorize(authorization.ObjectInvoice, write), s.DeleteInvoice)

	// -------- Reports --------
	api.GET("/reports/grouped.pdf", s.authorize(authorization.ObjectReport, read), s.competenciaReport(report.FormatPDF))
	api.GET("/reports/grouped.xlsx", s.authorize(authorization.ObjectReport, read), s.competenciaReport(report.FormatXLSX))

	// -------- Uploads --------
	api.POST("/uploads", s.authorize(authorization.ObjectUpload, write), s.UploadAttachment)

	if !s.cfg.IsProduction() && s.seeder != nil {
		api.POST("/dev/seed", s.authorize(authorization.ObjectSeed, write), s.SeedDemoData)
	}
}

func (s *Server) registerStaticRoutes() {
	if dir := s.attachments.Root(); dir != "" {
		s.engine.Static("/uploads", dir)
	}
}
