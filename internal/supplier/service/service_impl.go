package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/supplier/domain"
	"github.com/smallbiznis/payables/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("supplier.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Supplier, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, db.Upstream("supplier.list", err)
	}
	suppliers := make([]domain.Supplier, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		suppliers = append(suppliers, *item)
	}
	return suppliers, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Supplier, error) {
	supplierID, err := parseID(id)
	if err != nil {
		return domain.Supplier{}, err
	}
	item, err := s.repo.FindByID(ctx, s.db, supplierID)
	if err != nil {
		return domain.Supplier{}, db.Upstream("supplier.get", err)
	}
	if item == nil {
		return domain.Supplier{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Create(ctx context.Context, req domain.SupplierRequest) (domain.Supplier, error) {
	supplier, err := fromRequest(req)
	if err != nil {
		return domain.Supplier{}, err
	}

	now := s.clock.Now().UTC()
	supplier.ID = s.genID.Generate()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, &supplier); err != nil {
		return domain.Supplier{}, db.Upstream("supplier.insert", err)
	}

	s.log.Info("supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.Int("cnpjs", len(supplier.CNPJs)),
	)
	return supplier, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.SupplierRequest) (domain.Supplier, error) {
	supplierID, err := parseID(id)
	if err != nil {
		return domain.Supplier{}, err
	}
	next, err := fromRequest(req)
	if err != nil {
		return domain.Supplier{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, supplierID)
	if err != nil {
		return domain.Supplier{}, db.Upstream("supplier.get", err)
	}
	if existing == nil {
		return domain.Supplier{}, domain.ErrNotFound
	}

	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	next.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, &next); err != nil {
		return domain.Supplier{}, db.Upstream("supplier.update", err)
	}
	return next, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	supplierID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs, err := s.repo.CountInvoices(ctx, tx, supplierID)
		if err != nil {
			return db.Upstream("supplier.count_invoices", err)
		}
		if refs > 0 {
			return domain.ErrInUse
		}

		affected, err := s.repo.Delete(ctx, tx, supplierID)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return domain.ErrInUse
			}
			return db.Upstream("supplier.delete", err)
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func fromRequest(req domain.SupplierRequest) (domain.Supplier, error) {
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		return domain.Supplier{}, domain.ErrInvalidCompanyName
	}
	return domain.Supplier{
		CompanyName:               name,
		CNPJs:                     toSlice(req.CNPJs),
		Contracts:                 toSlice(req.Contracts),
		CostCenters:               toSlice(req.CostCenters),
		DefaultServiceDescription: strings.TrimSpace(req.DefaultServiceDescription),
		DefaultServiceCode:        strings.TrimSpace(req.DefaultServiceCode),
	}, nil
}

func toSlice(list domain.StringList) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](domain.Clean(list))
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
