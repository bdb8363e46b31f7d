package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, branch *Branch) error
	Update(ctx context.Context, db *gorm.DB, branch *Branch) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Branch, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Branch, error)
	List(ctx context.Context, db *gorm.DB) ([]*Branch, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	CountInvoices(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
