package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/payables/internal/invoice/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// InsertBatch writes all rows in a single statement. Callers wrap it in a
// transaction when it must be atomic with other writes.
func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, invoices []*domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Omit(clause.Associations).
		Create(invoices).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Preload("Branch").
		Preload("Supplier").
		Where("invoices.id = ?", id).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"branch_id":             invoice.BranchID,
			"supplier_id":           invoice.SupplierID,
			"amount":                invoice.Amount,
			"number":                invoice.Number,
			"series":                invoice.Series,
			"due_date":              invoice.DueDate,
			"sent_at":               invoice.SentAt,
			"cnpj":                  invoice.CNPJ,
			"contract":              invoice.Contract,
			"cost_center":           invoice.CostCenter,
			"service_description":   invoice.ServiceDescription,
			"service_code":          invoice.ServiceCode,
			"measurement_number":    invoice.MeasurementNumber,
			"purchase_order_number": invoice.PurchaseOrderNumber,
			"request_number":        invoice.RequestNumber,
			"notes":                 invoice.Notes,
			"invoice_file":          invoice.InvoiceFile,
			"payment_slip_file":     invoice.PaymentSlipFile,
			"status":                invoice.Status,
			"updated_at":            invoice.UpdatedAt,
		}).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.Status, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE invoices SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		updatedAt,
		id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Invoice{})
	return result.RowsAffected, result.Error
}

func (r *repo) Search(ctx context.Context, db *gorm.DB, filter domain.SearchFilter) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Select("invoices.*").
		Preload("Branch").
		Preload("Supplier")
	if filter.Scope != nil {
		stmt = stmt.Scopes(filter.Scope)
	}
	if filter.BranchID != nil {
		stmt = stmt.Where("invoices.branch_id = ?", *filter.BranchID)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	err := stmt.
		Order("invoices.id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) ListForPeriod(ctx context.Context, db *gorm.DB, filter domain.PeriodFilter) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Preload("Branch")
	if filter.BranchID != nil {
		stmt = stmt.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.DueFrom != nil {
		stmt = stmt.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		stmt = stmt.Where("due_date <= ?", *filter.DueTo)
	}
	err := stmt.
		Order("due_date asc, id asc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) ListOpen(ctx context.Context, db *gorm.DB) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Select("id", "due_date", "status").
		Where("status <> ?", domain.StatusCompleted).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
