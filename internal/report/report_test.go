package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"
)

type stubInvoices struct {
	invoicedomain.Service
	resp invoicedomain.GroupedResponse
	got  invoicedomain.GroupedRequest
}

func (s *stubInvoices) Grouped(_ context.Context, req invoicedomain.GroupedRequest) (invoicedomain.GroupedResponse, error) {
	s.got = req
	return s.resp, nil
}

type stubBranches struct {
	branchdomain.Service
	branches map[string]branchdomain.Branch
}

func (s stubBranches) GetByID(_ context.Context, id string) (branchdomain.Branch, error) {
	b, ok := s.branches[id]
	if !ok {
		return branchdomain.Branch{}, branchdomain.ErrNotFound
	}
	return b, nil
}

func sampleGroups() invoicedomain.GroupedResponse {
	dell := supplierdomain.Supplier{ID: 1, CompanyName: "DELL COMPUTADORES"}
	view := func(number, amount string, day int) invoicedomain.InvoiceView {
		return invoicedomain.InvoiceView{
			Invoice: invoicedomain.Invoice{
				Number:  number,
				Series:  "U",
				Amount:  decimal.RequireFromString(amount),
				DueDate: time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
				Status:  invoicedomain.StatusPendingEntry,
			},
			SupplierName: dell.CompanyName,
			Urgency:      invoicedomain.TierNormal,
		}
	}
	invoices := []invoicedomain.InvoiceView{view("NF-1", "1000.50", 5), view("NF-2", "234.06", 20)}
	return invoicedomain.GroupedResponse{
		Groups: []invoicedomain.SupplierGroup{{
			Supplier: dell,
			Invoices: invoices,
			Total:    decimal.RequireFromString("1234.56"),
		}},
		Invoices: invoices,
	}
}

func newService(t *testing.T) (*Service, *stubInvoices) {
	invoices := &stubInvoices{resp: sampleGroups()}
	branches := stubBranches{branches: map[string]branchdomain.Branch{"5": {ID: 5, Code: "01", Name: "MATRIZ"}}}
	return NewService(Params{Log: zaptest.NewLogger(t), Invoices: invoices, Branches: branches}), invoices
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "competencia-matriz-2025-03.pdf", FileName("MATRIZ", 3, 2025, FormatPDF))
	assert.Equal(t, "competencia-filial-sao-paulo-2024-12.xlsx", FileName("FILIAL SÃO PAULO", 12, 2024, FormatXLSX))
	assert.Equal(t, "competencia-todas-filiais.pdf", FileName("", 0, 0, FormatPDF))
}

func TestCompetenciaPDF(t *testing.T) {
	svc, invoices := newService(t)
	req := invoicedomain.GroupedRequest{BranchID: "5", Month: 3, Year: 2025}

	doc, err := svc.Competencia(context.Background(), req, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, req, invoices.got)
	assert.Equal(t, "competencia-matriz-2025-03.pdf", doc.FileName)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("%PDF")))
}

func TestCompetenciaXLSX(t *testing.T) {
	svc, _ := newService(t)

	doc, err := svc.Competencia(context.Background(), invoicedomain.GroupedRequest{Month: 3, Year: 2025}, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "competencia-todas-filiais-2025-03.xlsx", doc.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 8)
	assert.Equal(t, "Relatório de Competência", rows[0][0])
	assert.Equal(t, []string{"Filial", "Todas as filiais", "Competência", "Março/2025"}, rows[1])
	assert.Equal(t, columns, rows[3])
	assert.Equal(t, "DELL COMPUTADORES", rows[4][0])
	assert.Equal(t, "05/03/2025", rows[4][1])
	assert.Equal(t, "NF-1", rows[4][2])

	raw, err := f.GetCellValue(sheetName, "J5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1000.5", raw)
	assert.Equal(t, "Total geral", rows[len(rows)-1][0])
}

func TestCompetenciaErrors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Competencia(ctx, invoicedomain.GroupedRequest{}, Format("csv"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = svc.Competencia(ctx, invoicedomain.GroupedRequest{BranchID: "99"}, FormatPDF)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidBranchID)
}
