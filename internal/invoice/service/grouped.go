package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/invoice/domain"
	"github.com/smallbiznis/payables/pkg/db"
)

// Grouped lists invoices per supplier, suppliers ordered by company name.
// Suppliers without a matching invoice are left out. With a period, only
// invoices due between the first day 00:00:00 and the last day 23:59:59 of
// that month are kept. The result is not capped.
func (s *Service) Grouped(ctx context.Context, req domain.GroupedRequest) (domain.GroupedResponse, error) {
	filter, err := periodFilter(req)
	if err != nil {
		return domain.GroupedResponse{}, err
	}

	suppliers, err := s.supplierRepo.List(ctx, s.db)
	if err != nil {
		return domain.GroupedResponse{}, db.Upstream("supplier.list", err)
	}
	items, err := s.repo.ListForPeriod(ctx, s.db, filter)
	if err != nil {
		return domain.GroupedResponse{}, db.Upstream("invoice.list_for_period", err)
	}

	bySupplier := make(map[snowflake.ID][]*domain.Invoice, len(suppliers))
	for _, item := range items {
		if item == nil {
			continue
		}
		bySupplier[item.SupplierID] = append(bySupplier[item.SupplierID], item)
	}

	today := s.today()
	thresholds := s.thresholds()
	resp := domain.GroupedResponse{
		Groups:   make([]domain.SupplierGroup, 0, len(bySupplier)),
		Invoices: make([]domain.InvoiceView, 0, len(items)),
	}
	for _, supplier := range suppliers {
		if supplier == nil {
			continue
		}
		invoices := bySupplier[supplier.ID]
		if len(invoices) == 0 {
			continue
		}

		group := domain.SupplierGroup{
			Supplier: *supplier,
			Invoices: make([]domain.InvoiceView, 0, len(invoices)),
			Total:    decimal.Zero,
		}
		for _, invoice := range invoices {
			invoice.Supplier = supplier
			view := annotate(*invoice, today, thresholds)
			group.Invoices = append(group.Invoices, view)
			group.Total = group.Total.Add(invoice.Amount)
		}
		resp.Groups = append(resp.Groups, group)
		resp.Invoices = append(resp.Invoices, group.Invoices...)
	}
	return resp, nil
}

func periodFilter(req domain.GroupedRequest) (domain.PeriodFilter, error) {
	branchID, err := parseOptionalID(req.BranchID, domain.ErrInvalidBranchID)
	if err != nil {
		return domain.PeriodFilter{}, err
	}
	filter := domain.PeriodFilter{BranchID: branchID}

	switch {
	case req.Month == 0 && req.Year == 0:
		return filter, nil
	case req.Month == 0:
		return domain.PeriodFilter{}, fmt.Errorf("%w: required with year", domain.ErrInvalidMonth)
	case req.Year == 0:
		return domain.PeriodFilter{}, fmt.Errorf("%w: required with month", domain.ErrInvalidYear)
	case req.Month < 1 || req.Month > 12:
		return domain.PeriodFilter{}, fmt.Errorf("%w: must be between 1 and 12", domain.ErrInvalidMonth)
	case req.Year < 1 || req.Year > 9999:
		return domain.PeriodFilter{}, fmt.Errorf("%w: out of range", domain.ErrInvalidYear)
	}

	from, to := clock.MonthBounds(req.Year, time.Month(req.Month))
	filter.DueFrom = &from
	filter.DueTo = &to
	return filter, nil
}

// DueSummary counts open invoices per urgency tier as of today. Every
// non-completed tier is present, possibly with zero.
func (s *Service) DueSummary(ctx context.Context) (map[domain.Tier]int, error) {
	items, err := s.repo.ListOpen(ctx, s.db)
	if err != nil {
		return nil, db.Upstream("invoice.list_open", err)
	}

	summary := map[domain.Tier]int{
		domain.TierOverdue:  0,
		domain.TierDueToday: 0,
		domain.TierCritical: 0,
		domain.TierUpcoming: 0,
		domain.TierNormal:   0,
	}
	today := s.today()
	thresholds := s.thresholds()
	for _, item := range items {
		if item == nil {
			continue
		}
		summary[thresholds.Classify(item.DueDate, item.Status, today)]++
	}
	return summary, nil
}
