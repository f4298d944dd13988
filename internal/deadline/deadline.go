// Package deadline implements the 60-day filing window arithmetic for
// inventory-adjustment claims. All values are calendar dates; callers convert
// wall-clock instants with Today so ingestion and evaluation agree on "today".
package deadline

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// FilingWindowDays is how long after an adjustment a claim may still be filed.
const FilingWindowDays = 60

var ErrInvalidDate = errors.New("invalid date format")

// ParseError reports an adjustment date that is neither YYYY-MM-DD nor
// MM/DD/YYYY, or that does not name a real calendar day.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "Invalid date format: " + e.Raw
}

func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidDate
}

// ParseDate parses an adjustment date in ISO (2024-01-15) or US (01/15/2024, 1/5/2024) form.
func ParseDate(raw string) (civil.Date, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return civil.Date{}, &ParseError{Raw: raw}
	}

	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}

	if strings.Count(s, "/") == 2 {
		// time.Parse rejects out-of-range months and days, including Feb 30.
		if t, err := time.Parse("1/2/2006", s); err == nil {
			return civil.DateOf(t), nil
		}
	}

	return civil.Date{}, &ParseError{Raw: raw}
}

// For returns the filing deadline for an adjustment date.
func For(adjustment civil.Date) civil.Date {
	return adjustment.AddDays(FilingWindowDays)
}

// DaysRemaining is the signed number of calendar days from today until the deadline.
// Zero on the deadline itself, negative afterwards.
func DaysRemaining(deadline, today civil.Date) int {
	return deadline.DaysSince(today)
}

// IsExpired reports whether the deadline has passed as of today.
func IsExpired(deadline, today civil.Date) bool {
	return DaysRemaining(deadline, today) < 0
}

// Today maps an instant onto the UTC calendar day used for all deadline math.
func Today(now time.Time) civil.Date {
	return civil.DateOf(now.UTC())
}
