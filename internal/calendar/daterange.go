package calendar

import (
	"fmt"
	"time"
)

// DateRange is an inclusive calendar-date filter.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range, rejecting start after end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = truncate(start)
	end = truncate(end)
	if start.After(end) {
		return DateRange{}, fmt.Errorf("range start %s after end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether d falls within the range, comparing calendar
// dates only.
func (r DateRange) Contains(d time.Time) bool {
	d = truncate(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
