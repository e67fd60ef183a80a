package types

import (
	"time"

	"github.com/tradefolio/analytics/pkg/errors"
)

// TimeScale selects how far back from "now" a computation looks.
type TimeScale string

const (
	TimeScale1Month  TimeScale = "1M"
	TimeScale3Months TimeScale = "3M"
	TimeScale6Months TimeScale = "6M"
	TimeScaleYTD     TimeScale = "YTD"
	TimeScale1Year   TimeScale = "1YR"
	TimeScaleAll     TimeScale = "ALL"
)

// AllTimeScales lists every valid time scale in display order.
func AllTimeScales() []TimeScale {
	return []TimeScale{
		TimeScale1Month,
		TimeScale3Months,
		TimeScale6Months,
		TimeScaleYTD,
		TimeScale1Year,
		TimeScaleAll,
	}
}

// ParseTimeScale converts a string into a TimeScale.
func ParseTimeScale(s string) (TimeScale, error) {
	for _, scale := range AllTimeScales() {
		if string(scale) == s {
			return scale, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidTimeScale, "invalid time scale: %q", s)
}

// Cutoff returns the inclusive lower bound of the window ending at now.
// Calendar arithmetic is used for month and year scales, January 1 of now's
// year for YTD, and the zero time for ALL (no filtering).
func (s TimeScale) Cutoff(now time.Time) time.Time {
	switch s {
	case TimeScale1Month:
		return now.AddDate(0, -1, 0)
	case TimeScale3Months:
		return now.AddDate(0, -3, 0)
	case TimeScale6Months:
		return now.AddDate(0, -6, 0)
	case TimeScaleYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case TimeScale1Year:
		return now.AddDate(-1, 0, 0)
	case TimeScaleAll:
		return time.Time{}
	default:
		return time.Time{}
	}
}
