package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/invoice/domain"
	"github.com/smallbiznis/payables/pkg/db"
	"go.uber.org/zap"
)

// buildInvoice validates input and resolves its branch and supplier. The
// returned invoice has no id or timestamps.
func (s *Service) buildInvoice(ctx context.Context, in domain.InvoiceInput) (domain.Invoice, error) {
	branchID, err := parseRequiredID(in.BranchID, domain.ErrInvalidBranchID)
	if err != nil {
		return domain.Invoice{}, err
	}
	supplierID, err := parseRequiredID(in.SupplierID, domain.ErrInvalidSupplierID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !in.Amount.IsPositive() {
		return domain.Invoice{}, fmt.Errorf("%w: must be greater than zero", domain.ErrInvalidAmount)
	}
	if !in.Amount.Equal(in.Amount.Round(2)) {
		return domain.Invoice{}, fmt.Errorf("%w: at most two decimal places", domain.ErrInvalidAmount)
	}
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return domain.Invoice{}, fmt.Errorf("%w: required", domain.ErrInvalidNumber)
	}
	if strings.TrimSpace(in.DueDate) == "" {
		return domain.Invoice{}, fmt.Errorf("%w: required", domain.ErrInvalidDueDate)
	}
	dueDate, err := ParseDate(in.DueDate)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("%w: %v", domain.ErrInvalidDueDate, err)
	}
	var sentAt *time.Time
	if strings.TrimSpace(in.SentAt) != "" {
		parsed, err := ParseDate(in.SentAt)
		if err != nil {
			return domain.Invoice{}, fmt.Errorf("%w: %v", domain.ErrInvalidSentAt, err)
		}
		sentAt = &parsed
	}
	var status domain.Status
	if strings.TrimSpace(in.Status) != "" {
		if status, err = domain.ParseStatus(in.Status); err != nil {
			return domain.Invoice{}, err
		}
	}

	branch, err := s.branchRepo.FindByID(ctx, s.db, branchID)
	if err != nil {
		return domain.Invoice{}, db.Upstream("branch.get", err)
	}
	if branch == nil {
		return domain.Invoice{}, fmt.Errorf("%w: branch %s does not exist", domain.ErrInvalidBranchID, branchID)
	}
	supplier, err := s.supplierRepo.FindByID(ctx, s.db, supplierID)
	if err != nil {
		return domain.Invoice{}, db.Upstream("supplier.get", err)
	}
	if supplier == nil {
		return domain.Invoice{}, fmt.Errorf("%w: supplier %s does not exist", domain.ErrInvalidSupplierID, supplierID)
	}

	series := strings.TrimSpace(in.Series)
	if series == "" {
		series = domain.DefaultSeries
	}
	cnpj := strings.TrimSpace(in.CNPJ)
	if cnpj != "" && !supplier.HasCNPJ(cnpj) {
		s.log.Warn("invoice cnpj is not registered for supplier",
			zap.String("supplier_id", supplierID.String()),
			zap.String("cnpj", cnpj),
		)
	}

	return domain.Invoice{
		BranchID:            branchID,
		SupplierID:          supplierID,
		Amount:              in.Amount,
		Number:              number,
		Series:              series,
		DueDate:             dueDate,
		SentAt:              sentAt,
		CNPJ:                cnpj,
		Contract:            strings.TrimSpace(in.Contract),
		CostCenter:          strings.TrimSpace(in.CostCenter),
		ServiceDescription:  strings.TrimSpace(in.ServiceDescription),
		ServiceCode:         strings.TrimSpace(in.ServiceCode),
		MeasurementNumber:   strings.TrimSpace(in.MeasurementNumber),
		PurchaseOrderNumber: strings.TrimSpace(in.PurchaseOrderNumber),
		RequestNumber:       strings.TrimSpace(in.RequestNumber),
		Notes:               in.Notes,
		InvoiceFile:         optional(in.InvoiceFile),
		PaymentSlipFile:     optional(in.PaymentSlipFile),
		Status:              status,
		Branch:              branch,
		Supplier:            supplier,
	}, nil
}

// ParseDate reads a YYYY-MM-DD calendar date. A full RFC 3339 timestamp is
// reduced to its date as written.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", value)
	}
	return clock.DateOf(parsed), nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseRequiredID(value string, invalid error) (snowflake.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: required", invalid)
	}
	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q is not an id", invalid, value)
	}
	return id, nil
}

func parseOptionalID(value string, invalid error) (*snowflake.ID, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := parseRequiredID(value, invalid)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
