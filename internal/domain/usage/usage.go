package usage

import "fmt"

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. Empty selects PeriodDay.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown period %q (want day or month)", s)
	}
}

// Budget is the chat token budget state for one period.
// Limit 0 means unlimited; Remaining is then -1.
type Budget struct {
	Limit     int64
	Used      int64
	Remaining int64
	Exhausted bool
	ResetsAt  int64
}

// Report is a chat token usage report for a time period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	budget      Budget
}

// NewReport creates a usage report. Timestamps are unix millis.
func NewReport(period Period, start, end int64, b Budget) Report {
	return Report{period: period, periodStart: start, periodEnd: end, budget: b}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Budget returns the budget status.
func (r *Report) Budget() Budget { return r.budget }
