// Package search turns a free-text term into invoice match criteria.
package search

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/payables/internal/invoice/domain"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
	"gorm.io/gorm"
)

// MaxResults caps a free-text search.
const MaxResults = 100

var invoiceColumns = []string{
	"invoices.number",
	"invoices.purchase_order_number",
	"invoices.request_number",
	"invoices.measurement_number",
	"invoices.cnpj",
	"invoices.service_description",
	"suppliers.company_name",
}

// Criteria is a case-insensitive substring match over the searchable
// invoice and supplier fields, OR an exact amount match when the whole term
// is a number.
type Criteria struct {
	term   string
	amount *decimal.Decimal
}

// Build parses term. A blank term matches everything.
func Build(term string) Criteria {
	term = strings.TrimSpace(term)
	c := Criteria{term: strings.ToLower(term)}
	if term == "" {
		return c
	}
	c.amount = parseAmount(term)
	return c
}

// parseAmount accepts a term only when it is a finite float64. The decimal
// is rebuilt from that float so exponents stay within float range.
func parseAmount(term string) *decimal.Decimal {
	if _, err := decimal.NewFromString(term); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(term, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	amount := decimal.NewFromFloat(f)
	return &amount
}

func (c Criteria) MatchAll() bool {
	return c.term == ""
}

// Amount returns the numeric literal, if the term is one.
func (c Criteria) Amount() (decimal.Decimal, bool) {
	if c.amount == nil {
		return decimal.Decimal{}, false
	}
	return *c.amount, true
}

// Apply is a gorm scope over the invoices table. It joins suppliers when a
// term is present. SQLite's LOWER only folds ASCII, so accented letters match
// case-sensitively there.
func (c Criteria) Apply(db *gorm.DB) *gorm.DB {
	if c.MatchAll() {
		return db
	}

	dialect := db.Dialector.Name()
	escape := ` ESCAPE '\'`
	cnpjs := "CAST(suppliers.cnpjs AS TEXT)"
	match := func(column string) string { return "LOWER(" + column + ") LIKE ?" + escape }
	switch dialect {
	case "postgres":
		match = func(column string) string { return column + " ILIKE ?" + escape }
	case "mysql":
		cnpjs = "CAST(suppliers.cnpjs AS CHAR)"
		// Backslash is already MySQL's LIKE escape.
		match = func(column string) string { return "LOWER(" + column + ") LIKE ?" }
	}

	pattern := "%" + escapeLike(c.term) + "%"
	columns := append(append([]string{}, invoiceColumns...), cnpjs)
	clauses := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+1)
	for _, column := range columns {
		clauses = append(clauses, match(column))
		args = append(args, pattern)
	}
	if amount, ok := c.Amount(); ok {
		clauses = append(clauses, "invoices.amount = ?")
		args = append(args, amount)
	}

	return db.
		Joins("LEFT JOIN suppliers ON suppliers.id = invoices.supplier_id").
		Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// Matches evaluates the criteria in memory. supplier may be nil.
func (c Criteria) Matches(invoice domain.Invoice, supplier *supplierdomain.Supplier) bool {
	if c.MatchAll() {
		return true
	}
	fields := []string{
		invoice.Number,
		invoice.PurchaseOrderNumber,
		invoice.RequestNumber,
		invoice.MeasurementNumber,
		invoice.CNPJ,
		invoice.ServiceDescription,
	}
	if supplier != nil {
		fields = append(fields, supplier.CompanyName, strings.Join(supplier.CNPJs, ";"))
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), c.term) {
			return true
		}
	}
	if amount, ok := c.Amount(); ok && invoice.Amount.Equal(amount) {
		return true
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
