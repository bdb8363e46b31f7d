package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
)

// InvoiceInput carries the editable fields of an invoice. Dates are
// YYYY-MM-DD strings; ids are decimal snowflake strings.
type InvoiceInput struct {
	BranchID            string
	SupplierID          string
	Amount              decimal.Decimal
	Number              string
	Series              string
	DueDate             string
	SentAt              string
	CNPJ                string
	Contract            string
	CostCenter          string
	ServiceDescription  string
	ServiceCode         string
	MeasurementNumber   string
	PurchaseOrderNumber string
	RequestNumber       string
	Notes               string
	InvoiceFile         string
	PaymentSlipFile     string
	Status              string
}

type CreateInvoiceRequest struct {
	InvoiceInput
	// Repetitions is the number of monthly installments to generate; 0 means 1.
	Repetitions int
}

type CreateInvoiceResponse struct {
	Invoices []InvoiceView `json:"invoices"`
	Count    int           `json:"count"`
}

type SearchRequest struct {
	BranchID string
	Query    string
}

// GroupedRequest filters the supplier-grouped view. Month and Year are both
// zero (no period) or both set.
type GroupedRequest struct {
	BranchID string
	Month    int
	Year     int
}

// InvoiceView is an invoice annotated for display.
type InvoiceView struct {
	Invoice
	SupplierName string `json:"supplier_name"`
	DaysUntilDue int    `json:"days_until_due"`
	Urgency      Tier   `json:"urgency"`
}

type SupplierGroup struct {
	Supplier supplierdomain.Supplier `json:"supplier"`
	Invoices []InvoiceView           `json:"invoices"`
	Total    decimal.Decimal         `json:"total"`
}

type GroupedResponse struct {
	Groups []SupplierGroup `json:"groups"`
	// Invoices flattens Groups in the same order.
	Invoices []InvoiceView `json:"invoices"`
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (CreateInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (InvoiceView, error)
	Update(ctx context.Context, id string, req InvoiceInput) (InvoiceView, error)
	SetStatus(ctx context.Context, id string, status string) (Invoice, error)
	Delete(ctx context.Context, id string) error
	Search(context.Context, SearchRequest) ([]InvoiceView, error)
	Grouped(context.Context, GroupedRequest) (GroupedResponse, error)
	ProtheusText(ctx context.Context, id string) (string, error)
	// DueSummary counts open invoices per urgency tier as of today.
	DueSummary(context.Context) (map[Tier]int, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidBranchID    = errors.New("invalid_branch_id")
	ErrInvalidSupplierID  = errors.New("invalid_supplier_id")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidNumber      = errors.New("invalid_number")
	ErrInvalidDueDate     = errors.New("invalid_due_date")
	ErrInvalidSentAt      = errors.New("invalid_sent_at")
	ErrInvalidRepetitions = errors.New("invalid_repetitions")
	ErrInvalidMonth       = errors.New("invalid_month")
	ErrInvalidYear        = errors.New("invalid_year")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrNotFound           = errors.New("not_found")
)
