package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/payables/internal/branch/domain"
	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
		log:   p.Log.Named("branch.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Branch, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, db.Upstream("branch.list", err)
	}
	branches := make([]domain.Branch, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		branches = append(branches, *item)
	}
	return branches, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Branch, error) {
	branchID, err := parseID(id)
	if err != nil {
		return domain.Branch{}, err
	}
	item, err := s.repo.FindByID(ctx, s.db, branchID)
	if err != nil {
		return domain.Branch{}, db.Upstream("branch.get", err)
	}
	if item == nil {
		return domain.Branch{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateBranchRequest) (domain.Branch, error) {
	code, name, err := normalize(req.Code, req.Name)
	if err != nil {
		return domain.Branch{}, err
	}

	now := s.clock.Now().UTC()
	branch := domain.Branch{
		ID:        s.genID.Generate(),
		Code:      code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &branch); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Branch{}, domain.ErrCodeExists
		}
		return domain.Branch{}, db.Upstream("branch.insert", err)
	}

	s.log.Info("branch created", zap.String("branch_id", branch.ID.String()), zap.String("code", code))
	return branch, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateBranchRequest) (domain.Branch, error) {
	branchID, err := parseID(id)
	if err != nil {
		return domain.Branch{}, err
	}
	code, name, err := normalize(req.Code, req.Name)
	if err != nil {
		return domain.Branch{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, branchID)
	if err != nil {
		return domain.Branch{}, db.Upstream("branch.get", err)
	}
	if existing == nil {
		return domain.Branch{}, domain.ErrNotFound
	}

	existing.Code = code
	existing.Name = name
	existing.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Branch{}, domain.ErrCodeExists
		}
		return domain.Branch{}, db.Upstream("branch.update", err)
	}
	return *existing, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	branchID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs, err := s.repo.CountInvoices(ctx, tx, branchID)
		if err != nil {
			return db.Upstream("branch.count_invoices", err)
		}
		if refs > 0 {
			return domain.ErrInUse
		}

		affected, err := s.repo.Delete(ctx, tx, branchID)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return domain.ErrInUse
			}
			return db.Upstream("branch.delete", err)
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		s.log.Info("branch deleted", zap.String("branch_id", branchID.String()))
		return nil
	})
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx, s.db)
	if err != nil {
		return 0, db.Upstream("branch.count", err)
	}
	return count, nil
}

func normalize(code, name string) (string, string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", "", domain.ErrInvalidCode
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", domain.ErrInvalidName
	}
	return code, name, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
