package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/config"
	"github.com/smallbiznis/payables/internal/invoice/domain"
	"github.com/smallbiznis/payables/internal/invoice/format"
	"github.com/smallbiznis/payables/internal/invoice/recurrence"
	"github.com/smallbiznis/payables/internal/invoice/search"
	"github.com/smallbiznis/payables/internal/invoice/urgency"
	"github.com/smallbiznis/payables/internal/observability/metrics"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
	"github.com/smallbiznis/payables/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Config       config.Config
	Policy       domain.TransitionPolicy
	Repo         domain.Repository
	BranchRepo   branchdomain.Repository
	SupplierRepo supplierdomain.Repository
	Urgency      *config.UrgencyConfigHolder `optional:"true"`
	Metrics      *metrics.Metrics            `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	loc          *time.Location
	policy       domain.TransitionPolicy
	repo         domain.Repository
	branchRepo   branchdomain.Repository
	supplierRepo supplierdomain.Repository
	urgency      *config.UrgencyConfigHolder
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	policy := p.Policy
	if policy == nil {
		policy = domain.OpenTransitions{}
	}
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("invoice.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		loc:          p.Config.Location(),
		policy:       policy,
		repo:         p.Repo,
		branchRepo:   p.BranchRepo,
		supplierRepo: p.SupplierRepo,
		urgency:      p.Urgency,
		metrics:      p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.CreateInvoiceResponse, error) {
	template, err := s.buildInvoice(ctx, req.InvoiceInput)
	if err != nil {
		return domain.CreateInvoiceResponse{}, err
	}

	rows, err := recurrence.Expand(template, req.Repetitions)
	if err != nil {
		return domain.CreateInvoiceResponse{}, err
	}

	now := s.clock.Now().UTC()
	batch := make([]*domain.Invoice, 0, len(rows))
	for i := range rows {
		rows[i].ID = s.genID.Generate()
		rows[i].CreatedAt = now
		rows[i].UpdatedAt = now
		batch = append(batch, &rows[i])
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.InsertBatch(ctx, tx, batch)
	})
	if err != nil {
		return domain.CreateInvoiceResponse{}, db.Upstream("invoice.insert_batch", err)
	}

	s.metrics.RecordInvoicesCreated(ctx, template.Branch.Name, len(rows))
	s.log.Info("invoices created",
		zap.String("first_invoice_id", rows[0].ID.String()),
		zap.String("supplier_id", template.SupplierID.String()),
		zap.Int("installments", len(rows)),
	)

	today := s.today()
	thresholds := s.thresholds()
	views := make([]domain.InvoiceView, 0, len(rows))
	for _, row := range rows {
		row.Branch = template.Branch
		row.Supplier = template.Supplier
		views = append(views, annotate(row, today, thresholds))
	}
	return domain.CreateInvoiceResponse{Invoices: views, Count: len(views)}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.InvoiceView, error) {
	invoice, err := s.find(ctx, id)
	if err != nil {
		return domain.InvoiceView{}, err
	}
	return annotate(*invoice, s.today(), s.thresholds()), nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.InvoiceInput) (domain.InvoiceView, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return domain.InvoiceView{}, err
	}

	next, err := s.buildInvoice(ctx, req)
	if err != nil {
		return domain.InvoiceView{}, err
	}
	if strings.TrimSpace(req.Status) == "" {
		next.Status = existing.Status
	} else if !s.policy.Allow(existing.Status, next.Status) {
		return domain.InvoiceView{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatus, existing.Status, next.Status)
	}

	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	next.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, &next); err != nil {
		return domain.InvoiceView{}, db.Upstream("invoice.update", err)
	}

	if existing.Status != next.Status {
		s.metrics.RecordStatusTransition(ctx, existing.Status.Code(), next.Status.Code())
	}
	return annotate(next, s.today(), s.thresholds()), nil
}

// SetStatus changes only the status and updated_at of an invoice. Concurrent
// calls on the same invoice are last-write-wins.
func (s *Service) SetStatus(ctx context.Context, id string, value string) (domain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Invoice{}, db.Upstream("invoice.get", err)
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	status, err := domain.ParseStatus(value)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !s.policy.Allow(invoice.Status, status) {
		return domain.Invoice{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatus, invoice.Status, status)
	}

	now := s.clock.Now().UTC()
	affected, err := s.repo.UpdateStatus(ctx, s.db, invoiceID, status, now)
	if err != nil {
		return domain.Invoice{}, db.Upstream("invoice.update_status", err)
	}
	if affected == 0 {
		return domain.Invoice{}, domain.ErrNotFound
	}

	previous := invoice.Status
	invoice.Status = status
	invoice.UpdatedAt = now

	s.metrics.RecordStatusTransition(ctx, previous.Code(), status.Code())
	s.log.Info("invoice status changed",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("from", previous.Code()),
		zap.String("to", status.Code()),
	)
	return *invoice, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, s.db, invoiceID)
	if err != nil {
		return db.Upstream("invoice.delete", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	s.log.Info("invoice deleted", zap.String("invoice_id", invoiceID.String()))
	return nil
}

func (s *Service) Search(ctx context.Context, req domain.SearchRequest) ([]domain.InvoiceView, error) {
	branchID, err := parseOptionalID(req.BranchID, domain.ErrInvalidBranchID)
	if err != nil {
		return nil, err
	}

	criteria := search.Build(req.Query)
	items, err := s.repo.Search(ctx, s.db, domain.SearchFilter{
		BranchID: branchID,
		Scope:    criteria.Apply,
		Limit:    search.MaxResults,
	})
	if err != nil {
		return nil, db.Upstream("invoice.search", err)
	}

	today := s.today()
	thresholds := s.thresholds()
	views := make([]domain.InvoiceView, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		views = append(views, annotate(*item, today, thresholds))
	}
	return views, nil
}

func (s *Service) ProtheusText(ctx context.Context, id string) (string, error) {
	invoice, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	return format.ProtheusText(
		invoice.SupplierCompanyName(),
		invoice.CNPJ,
		invoice.Number,
		invoice.Amount,
		invoice.DueDate,
	), nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return nil, db.Upstream("invoice.get", err)
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

func (s *Service) today() time.Time {
	return clock.Today(s.clock, s.loc)
}

func (s *Service) thresholds() urgency.Thresholds {
	cfg := s.urgency.Get()
	return urgency.Thresholds{Critical: cfg.CriticalDays, Upcoming: cfg.UpcomingDays}
}

func annotate(invoice domain.Invoice, today time.Time, thresholds urgency.Thresholds) domain.InvoiceView {
	return domain.InvoiceView{
		Invoice:      invoice,
		SupplierName: invoice.SupplierCompanyName(),
		DaysUntilDue: urgency.DaysUntilDue(invoice.DueDate, today),
		Urgency:      thresholds.Classify(invoice.DueDate, invoice.Status, today),
	}
}
