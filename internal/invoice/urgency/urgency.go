// Package urgency ranks invoices by the number of calendar days left until
// they are due.
package urgency

import (
	"time"

	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/invoice/domain"
)

// Thresholds are the inclusive upper bounds, in days, of the CRITICAL and
// UPCOMING tiers.
type Thresholds struct {
	Critical int
	Upcoming int
}

// DefaultThresholds ranks 1-5 days as critical and 6-10 as upcoming.
var DefaultThresholds = Thresholds{Critical: 5, Upcoming: 10}

func (t Thresholds) valid() bool {
	return t.Critical >= 1 && t.Upcoming > t.Critical
}

// DaysUntilDue is the signed number of calendar days from today to due.
// Both arguments are reduced to their civil date first.
func DaysUntilDue(due, today time.Time) int {
	return clock.DaysBetween(today, due)
}

// Classify ranks an invoice with the default thresholds.
func Classify(due time.Time, status domain.Status, today time.Time) domain.Tier {
	return DefaultThresholds.Classify(due, status, today)
}

// Classify ranks an invoice. A completed invoice is COMPLETED whatever its date.
func (t Thresholds) Classify(due time.Time, status domain.Status, today time.Time) domain.Tier {
	if status == domain.StatusCompleted {
		return domain.TierCompleted
	}
	return t.ForDays(DaysUntilDue(due, today))
}

// ForDays ranks a day count. Invalid thresholds fall back to the defaults.
func (t Thresholds) ForDays(days int) domain.Tier {
	if !t.valid() {
		t = DefaultThresholds
	}
	switch {
	case days < 0:
		return domain.TierOverdue
	case days == 0:
		return domain.TierDueToday
	case days <= t.Critical:
		return domain.TierCritical
	case days <= t.Upcoming:
		return domain.TierUpcoming
	default:
		return domain.TierNormal
	}
}
