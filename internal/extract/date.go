package extract

import "time"

// ReferenceOffset is the fixed offset from UTC used to decide which civil day
// it is. It is a plain offset, not a named zone, so there is no DST.
const ReferenceOffset = 9 * time.Hour

// ReferenceZone is the fixed zone at ReferenceOffset.
var ReferenceZone = time.FixedZone("UTC+9", int(ReferenceOffset/time.Second))

// ReferenceTime converts now to the reference zone.
func ReferenceTime(now time.Time) time.Time {
	return now.In(ReferenceZone)
}

// DateKey encodes a calendar date as YYYYMMDD.
func DateKey(year, month, day int) int {
	return year*10000 + month*100 + day
}

// MonthDayKey encodes a month and day as MMDD.
func MonthDayKey(month, day int) int {
	return month*100 + day
}

// SplitDateKey decodes a YYYYMMDD key.
func SplitDateKey(key int) (year, month, day int) {
	return key / 10000, key / 100 % 100, key % 100
}

// ResolveEndDate turns a month and day observed at now into an absolute
// YYYYMMDD date. The year is the reference-zone year of now, except that a
// January date seen in December belongs to the following year. No other
// month transition moves the year.
func ResolveEndDate(month, day int, now time.Time) int {
	ref := ReferenceTime(now)
	year := ref.Year()
	if ref.Month() == time.December && month == 1 {
		year++
	}
	return DateKey(year, month, day)
}

// Today returns the reference-zone civil day of now as YYYYMMDD and MMDD.
func Today(now time.Time) (ymd, md int) {
	ref := ReferenceTime(now)
	return DateKey(ref.Year(), int(ref.Month()), ref.Day()),
		MonthDayKey(int(ref.Month()), ref.Day())
}
