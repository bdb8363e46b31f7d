// Package seed creates demo catalog data and the first administrator.
package seed

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/payables/internal/auth/domain"
	"github.com/smallbiznis/payables/internal/auth/password"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	"github.com/smallbiznis/payables/internal/clock"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
	"github.com/smallbiznis/payables/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var demoBranches = []branchdomain.Branch{
	{Code: "01", Name: "MATRIZ"},
	{Code: "02", Name: "FILIAL SP"},
}

var demoSuppliers = []supplierdomain.Supplier{
	{
		CompanyName:               "DELL COMPUTADORES",
		CNPJs:                     datatypes.JSONSlice[string]{"00.123.456/0001-00"},
		Contracts:                 datatypes.JSONSlice[string]{"CTR-DELL-2025"},
		CostCenters:               datatypes.JSONSlice[string]{"1.01 - TI INFRA"},
		DefaultServiceDescription: "LOCAÇÃO DE NOTEBOOKS",
		DefaultServiceCode:        "001 - LOCAÇÃO HARDWARE",
	},
	{
		CompanyName:               "G7 TECNOLOGIA",
		CNPJs:                     datatypes.JSONSlice[string]{"99.888.777/0001-11"},
		Contracts:                 datatypes.JSONSlice[string]{"CTR-G7-DBA"},
		CostCenters:               datatypes.JSONSlice[string]{"1.05 - SISTEMAS"},
		DefaultServiceDescription: "DBA ORACLE E SUPORTE SIMPLIVITY",
		DefaultServiceCode:        "005 - SUPORTE BANCO DE DADOS",
	},
}

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	BranchRepo   branchdomain.Repository
	SupplierRepo supplierdomain.Repository
	UserRepo     authdomain.Repository
}

type Seeder struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	branchRepo   branchdomain.Repository
	supplierRepo supplierdomain.Repository
	userRepo     authdomain.Repository
}

// Result counts the rows a seed run created.
type Result struct {
	Branches  int `json:"branches"`
	Suppliers int `json:"suppliers"`
}

func New(p Params) *Seeder {
	return &Seeder{
		db:           p.DB,
		log:          p.Log.Named("seed"),
		genID:        p.GenID,
		clock:        p.Clock,
		branchRepo:   p.BranchRepo,
		supplierRepo: p.SupplierRepo,
		userRepo:     p.UserRepo,
	}
}

// DemoData inserts the demo branches and suppliers that are missing, matched
// by branch code and supplier company name. Running it again creates nothing.
func (s *Seeder) DemoData(ctx context.Context) (Result, error) {
	var result Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock.Now().UTC()
		for _, demo := range demoBranches {
			existing, err := s.branchRepo.FindByCode(ctx, tx, demo.Code)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			branch := demo
			branch.ID = s.genID.Generate()
			branch.CreatedAt = now
			branch.UpdatedAt = now
			if err := s.branchRepo.Insert(ctx, tx, &branch); err != nil {
				return err
			}
			result.Branches++
		}

		for _, demo := range demoSuppliers {
			existing, err := s.supplierRepo.FindByName(ctx, tx, demo.CompanyName)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			supplier := demo
			supplier.ID = s.genID.Generate()
			supplier.CreatedAt = now
			supplier.UpdatedAt = now
			if err := s.supplierRepo.Insert(ctx, tx, &supplier); err != nil {
				return err
			}
			result.Suppliers++
		}
		return nil
	})
	if err != nil {
		return Result{}, db.Upstream("seed.demo_data", err)
	}

	s.log.Info("demo data seeded", zap.Int("branches", result.Branches), zap.Int("suppliers", result.Suppliers))
	return result, nil
}

// EnsureAdmin creates an admin account when the users table is empty. With
// no password configured it only logs, so a fresh install never ships a
// known credential.
func (s *Seeder) EnsureAdmin(ctx context.Context, username, plain string) (bool, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, db.Upstream("seed.count_users", err)
	}
	if count > 0 {
		return false, nil
	}

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || plain == "" {
		s.log.Warn("no users exist and BOOTSTRAP_ADMIN_PASSWORD is empty, skipping admin bootstrap")
		return false, nil
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return false, err
	}
	now := s.clock.Now().UTC()
	err = s.userRepo.Create(ctx, &authdomain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		PasswordHash: hashed,
		FullName:     "Administrador",
		Role:         authdomain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return false, nil
		}
		return false, db.Upstream("seed.create_admin", err)
	}

	s.log.Info("bootstrap admin created", zap.String("username", username))
	return true, nil
}
