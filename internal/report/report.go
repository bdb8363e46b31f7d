// Package report renders the competência (monthly, per supplier) report as
// PDF or XLSX.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported_format")

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Document is a rendered report ready to be sent as an attachment.
type Document struct {
	FileName    string
	ContentType string
	Body        []byte
}

// Data is what both renderers draw.
type Data struct {
	Title  string
	Branch string
	Period string
	Groups []invoicedomain.SupplierGroup
	Total  decimal.Decimal
}

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

func newData(branch string, month, year int, groups []invoicedomain.SupplierGroup) Data {
	total := decimal.Zero
	for _, group := range groups {
		total = total.Add(group.Total)
	}
	return Data{
		Title:  "Relatório de Competência",
		Branch: orAll(branch),
		Period: periodLabel(month, year),
		Groups: groups,
		Total:  total,
	}
}

func orAll(branch string) string {
	if strings.TrimSpace(branch) == "" {
		return "Todas as filiais"
	}
	return branch
}

func periodLabel(month, year int) string {
	if month < 1 || month > 12 || year == 0 {
		return "Todos os vencimentos"
	}
	return fmt.Sprintf("%s/%d", monthNames[month-1], year)
}

// FileName slugs branch and period into e.g. "competencia-matriz-2025-03.pdf".
func FileName(branch string, month, year int, format Format) string {
	parts := []string{"competencia"}
	if strings.TrimSpace(branch) != "" {
		parts = append(parts, branch)
	} else {
		parts = append(parts, "todas filiais")
	}
	if month >= 1 && month <= 12 && year != 0 {
		parts = append(parts, fmt.Sprintf("%04d %02d", year, month))
	}
	return slug.Make(strings.Join(parts, " ")) + "." + string(format)
}
