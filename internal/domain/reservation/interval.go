package reservation

import (
	"time"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/httperr"
)

func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return httperr.ErrValidation("invalid_interval")
	}
	return nil
}

// Overlaps compares half-open intervals [s1,e1) and [s2,e2). Touching
// endpoints do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// MonthRange returns [first day of month, first day of next month) in loc.
func MonthRange(year, month int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
