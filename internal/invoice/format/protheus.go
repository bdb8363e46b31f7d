// Package format renders invoices as text for re-entry into the ERP.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brazil = message.NewPrinter(language.BrazilianPortuguese)

// Amount formats a value with two decimals and Brazilian separators, e.g. 1.234,56.
func Amount(value decimal.Decimal) string {
	return brazil.Sprintf("%.2f", value.Round(2).InexactFloat64())
}

// Date formats a calendar date as dd/mm/yyyy.
func Date(value time.Time) string {
	return value.Format("02/01/2006")
}

// ProtheusText is the single line pasted into the ERP when the invoice is
// entered there:
//
//	DELL | CPF/CNPJ: 00.123.456/0001-00 | NF: 123 | Valor R$: 1.234,56 | Vencimento: 31/01/2025
//
// A missing CNPJ is written as "?".
func ProtheusText(supplier, cnpj, number string, amount decimal.Decimal, due time.Time) string {
	cnpj = strings.TrimSpace(cnpj)
	if cnpj == "" {
		cnpj = "?"
	}
	var b strings.Builder
	b.WriteString(supplier)
	b.WriteString(" | CPF/CNPJ: ")
	b.WriteString(cnpj)
	b.WriteString(" | NF: ")
	b.WriteString(number)
	b.WriteString(" | Valor R$: ")
	b.WriteString(Amount(amount))
	b.WriteString(" | Vencimento: ")
	b.WriteString(Date(due))
	return b.String()
}
