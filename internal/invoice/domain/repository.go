package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// SearchFilter narrows a free-text search. Scope carries the text criteria.
type SearchFilter struct {
	BranchID *snowflake.ID
	Scope    func(*gorm.DB) *gorm.DB
	Limit    int
}

// PeriodFilter selects invoices by branch and by inclusive due-date bounds.
type PeriodFilter struct {
	BranchID *snowflake.ID
	DueFrom  *time.Time
	DueTo    *time.Time
}

type Repository interface {
	InsertBatch(ctx context.Context, db *gorm.DB, invoices []*Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status, updatedAt time.Time) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	Search(ctx context.Context, db *gorm.DB, filter SearchFilter) ([]*Invoice, error)
	ListForPeriod(ctx context.Context, db *gorm.DB, filter PeriodFilter) ([]*Invoice, error)
	ListOpen(ctx context.Context, db *gorm.DB) ([]*Invoice, error)
}
