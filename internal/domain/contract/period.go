package contract

import "time"

// LimitPeriod is the recurring accounting window over which a limit resets
type LimitPeriod string

const (
	// PeriodMonthly resets on the first day of each calendar month
	PeriodMonthly LimitPeriod = "monthly"

	// PeriodQuarterly resets on the first day of each 3-month block
	PeriodQuarterly LimitPeriod = "quarterly"

	// PeriodHalfYearly resets on the first day of each 6-month block
	PeriodHalfYearly LimitPeriod = "half_yearly"

	// PeriodYearly resets on January 1
	PeriodYearly LimitPeriod = "yearly"
)

// IsValid returns true if the period is a known value
func (p LimitPeriod) IsValid() bool {
	switch p {
	case PeriodMonthly, PeriodQuarterly, PeriodHalfYearly, PeriodYearly:
		return true
	}
	return false
}

// String returns the string representation of LimitPeriod
func (p LimitPeriod) String() string {
	return string(p)
}

// PeriodStart computes the start of the accounting period containing now.
// All boundaries are computed in UTC so limits reset at the same instant
// across every deployment; mixing zones between calls would make period
// membership inconsistent. Unknown periods fall back to monthly.
func PeriodStart(period LimitPeriod, now time.Time) time.Time {
	now = now.UTC()
	switch period {
	case PeriodQuarterly:
		quarter := int(now.Month()-1) / 3
		return time.Date(now.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
	case PeriodHalfYearly:
		half := int(now.Month()-1) / 6
		return time.Date(now.Year(), time.Month(half*6+1), 1, 0, 0, 0, 0, time.UTC)
	case PeriodYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}
