// Package recurrence expands an invoice template into monthly installments.
package recurrence

import (
	"fmt"

	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/invoice/domain"
)

// MaxRepetitions bounds a single expansion to five years of installments.
const MaxRepetitions = 60

// PlaceholderNumber is the invoice number given to installment i (i > 0)
// until the real invoice arrives.
func PlaceholderNumber(i int) string {
	return fmt.Sprintf("PREV-%d", i)
}

// InstallmentNotes prefixes notes with the installment marker.
func InstallmentNotes(i, total int, notes string) string {
	return fmt.Sprintf("Parcela %d/%d - %s", i+1, total, notes)
}

// Expand returns repetitions invoices. Row 0 is the template itself with its
// status defaulted to PendingEntry; row i is due i calendar months after the
// template, with the day of month clamped to the end of shorter months, and
// is a placeholder awaiting its invoice. Ids and timestamps are left for the
// caller.
func Expand(template domain.Invoice, repetitions int) ([]domain.Invoice, error) {
	if repetitions == 0 {
		repetitions = 1
	}
	if repetitions < 0 || repetitions > MaxRepetitions {
		return nil, fmt.Errorf("%w: must be between 1 and %d", domain.ErrInvalidRepetitions, MaxRepetitions)
	}

	if template.Status == "" {
		template.Status = domain.StatusPendingEntry
	}
	template.Branch = nil
	template.Supplier = nil

	out := make([]domain.Invoice, 0, repetitions)
	out = append(out, template)
	for i := 1; i < repetitions; i++ {
		row := template
		row.DueDate = clock.AddMonthsClamped(template.DueDate, i)
		row.Number = PlaceholderNumber(i)
		row.SentAt = nil
		row.Status = domain.StatusAwaitingInvoice
		row.Notes = InstallmentNotes(i, repetitions, template.Notes)
		row.InvoiceFile = nil
		row.PaymentSlipFile = nil
		out = append(out, row)
	}
	return out, nil
}
