// Package calendar exports pending events and recurring dates as iCalendar
// data and computes recurring occurrences.
package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"announcebot/internal/domain"
	"announcebot/internal/extract"
)

// anchorYear is a leap year, so every MMDD including 0229 has a first
// occurrence.
const anchorYear = 2000

// Yearly returns the yearly recurrence of d anchored in the reference zone.
func Yearly(d *domain.RecurringDate) (*rrule.RRule, error) {
	if d.Month() < 1 || d.Month() > 12 || d.Day() < 1 || d.Day() > 31 {
		return nil, fmt.Errorf("%w: date %04d", domain.ErrInvalidInput, d.Date)
	}
	start := time.Date(anchorYear, time.Month(d.Month()), d.Day(), 0, 0, 0, 0, extract.ReferenceZone)
	if start.Day() != d.Day() {
		return nil, fmt.Errorf("%w: date %04d", domain.ErrInvalidInput, d.Date)
	}
	return rrule.NewRRule(rrule.ROption{
		Freq:    rrule.YEARLY,
		Dtstart: start,
	})
}

// NextOccurrence returns the first occurrence of d on or after the
// reference-zone day of now. A 0229 date only occurs in leap years.
func NextOccurrence(d *domain.RecurringDate, now time.Time) (time.Time, error) {
	r, err := Yearly(d)
	if err != nil {
		return time.Time{}, err
	}
	ref := extract.ReferenceTime(now)
	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, extract.ReferenceZone)
	next := r.After(today, true)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("no occurrence of %04d after %s", d.Date, today.Format(time.DateOnly))
	}
	return next, nil
}
