package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"announcebot/internal/domain"
	"announcebot/internal/extract"
)

const (
	productID = "-//announcebot//announcebot//JA"
	uidDomain = "announcebot"
)

// Occasion is the label of a recurring date's category.
func Occasion(c domain.RecurringCategory) string {
	if c == domain.CategoryAnniversary {
		return "記念日"
	}
	return "誕生日"
}

// Export renders pending events as all-day events on their end date and
// recurring dates as yearly all-day events. stamp is used for DTSTAMP.
// Recurring dates that are not real calendar days are skipped.
func Export(pending []*domain.PendingEvent, recurring []*domain.RecurringDate, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName("announcebot")
	cal.SetXWRTimezone(extract.ReferenceZone.String())

	for _, p := range pending {
		y, m, d := extract.SplitDateKey(p.EndDate)
		day := time.Date(y, time.Month(m), d, 0, 0, 0, 0, extract.ReferenceZone)

		ev := cal.AddEvent(fmt.Sprintf("pending-%d@%s", p.ID, uidDomain))
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(p.CreatedAt)
		ev.SetSummary("イベント「" + p.Name + "」終了日")
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
	}

	for _, r := range recurring {
		rule, err := Yearly(r)
		if err != nil {
			continue
		}
		start := rule.OrigOptions.Dtstart

		ev := cal.AddEvent(recurringUID(r))
		ev.SetDtStampTime(stamp)
		ev.SetSummary(r.SubjectName + "の" + Occasion(r.Category))
		ev.SetAllDayStartAt(start)
		ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		ev.AddRrule("FREQ=YEARLY")
	}

	return cal.Serialize()
}

func recurringUID(r *domain.RecurringDate) string {
	name := strings.Map(func(c rune) rune {
		if c == ' ' || c == '@' {
			return '-'
		}
		return c
	}, r.SubjectName)
	return fmt.Sprintf("recurring-%04d-%s-%s@%s", r.Date, r.Category, name, uidDomain)
}
