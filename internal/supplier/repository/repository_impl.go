package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/payables/internal/supplier/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, supplier *domain.Supplier) error {
	return db.WithContext(ctx).Create(supplier).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, supplier *domain.Supplier) error {
	return db.WithContext(ctx).
		Model(&domain.Supplier{}).
		Where("id = ?", supplier.ID).
		Updates(map[string]any{
			"company_name":                supplier.CompanyName,
			"cnpjs":                       supplier.CNPJs,
			"contracts":                   supplier.Contracts,
			"cost_centers":                supplier.CostCenters,
			"default_service_description": supplier.DefaultServiceDescription,
			"default_service_code":        supplier.DefaultServiceCode,
			"updated_at":                  supplier.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Supplier{})
	return result.RowsAffected, result.Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Supplier, error) {
	return r.findOne(ctx, db, "id = ?", id)
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.Supplier, error) {
	return r.findOne(ctx, db, "company_name = ?", name)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, args ...any) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := db.WithContext(ctx).Where(query, args...).First(&supplier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.Supplier, error) {
	var suppliers []*domain.Supplier
	err := db.WithContext(ctx).
		Order("company_name asc, id asc").
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *repo) CountInvoices(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM invoices WHERE supplier_id = ?`,
		id,
	).Scan(&count).Error
	return count, err
}
