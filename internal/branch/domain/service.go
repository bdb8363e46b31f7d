package domain

import (
	"context"
	"errors"
)

type CreateBranchRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type UpdateBranchRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Service interface {
	List(context.Context) ([]Branch, error)
	GetByID(ctx context.Context, id string) (Branch, error)
	Create(context.Context, CreateBranchRequest) (Branch, error)
	Update(ctx context.Context, id string, req UpdateBranchRequest) (Branch, error)
	Delete(ctx context.Context, id string) error
	// Count is used by the database health probe.
	Count(context.Context) (int64, error)
}

var (
	ErrInvalidID   = errors.New("invalid_id")
	ErrInvalidCode = errors.New("invalid_code")
	ErrInvalidName = errors.New("invalid_name")
	ErrNotFound    = errors.New("not_found")
	ErrCodeExists  = errors.New("branch_code_exists")
	// ErrInUse blocks deleting a branch that invoices still reference.
	ErrInUse = errors.New("branch_in_use")
)
