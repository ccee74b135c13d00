// Package scheduler runs the daily dispatch tick.
package scheduler

import "time"

// Period is the fixed interval between ticks.
const Period = 24 * time.Hour

// DailySchedule is a cron.Schedule that fires at Anchor and then every Period
// after it. Ticks are measured from the anchor, not from the end of the
// previous run, so a slow tick does not push later ticks back.
type DailySchedule struct {
	Anchor time.Time
}

// Next implements cron.Schedule.
func (s DailySchedule) Next(t time.Time) time.Time {
	if t.Before(s.Anchor) {
		return s.Anchor
	}
	n := t.Sub(s.Anchor)/Period + 1
	return s.Anchor.Add(n * Period)
}

// NextMidnight returns the first midnight in loc strictly after now.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if !midnight.After(local) {
		midnight = midnight.AddDate(0, 0, 1)
	}
	return midnight
}
