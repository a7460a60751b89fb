package leave

import (
	"sort"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/core/common/validation"
)

// ParseMonth parses YYYY-MM and returns the first and last day of that month in UTC.
func ParseMonth(month string) (time.Time, time.Time, error) {
	first, err := time.ParseInLocation(validation.MonthLayout, month, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, internal.NewValidationFieldError("month", "month must be in YYYY-MM format", internal.ErrCodeInvalidMonth)
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// ApprovedDatesInMonth returns the distinct dates of month, ascending and
// formatted YYYY-MM-DD, covered by any Approved leave. Leaves that only
// partly overlap the month contribute the overlapping days.
func ApprovedDatesInMonth(leaves []*LeaveRequest, month string) ([]string, error) {
	first, last, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, l := range leaves {
		if l.Status != StatusApproved {
			continue
		}

		start := dateOnly(l.StartDate)
		end := dateOnly(l.EndDate)
		if start.Before(first) {
			start = first
		}
		if end.After(last) {
			end = last
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			seen[d.Format(validation.DateLayout)] = struct{}{}
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
