package domain

import (
	"context"
	"errors"
)

// SupplierRequest is the editable shape of a supplier. List fields accept
// arrays or semicolon-delimited strings.
type SupplierRequest struct {
	CompanyName               string     `json:"company_name"`
	CNPJs                     StringList `json:"cnpjs"`
	Contracts                 StringList `json:"contracts"`
	CostCenters               StringList `json:"cost_centers"`
	DefaultServiceDescription string     `json:"default_service_description"`
	DefaultServiceCode        string     `json:"default_service_code"`
}

type Service interface {
	List(context.Context) ([]Supplier, error)
	GetByID(ctx context.Context, id string) (Supplier, error)
	Create(context.Context, SupplierRequest) (Supplier, error)
	Update(ctx context.Context, id string, req SupplierRequest) (Supplier, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidCompanyName = errors.New("invalid_company_name")
	ErrNotFound           = errors.New("not_found")
	// ErrInUse blocks deleting a supplier that invoices still reference.
	ErrInUse = errors.New("supplier_in_use")
)
