package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestResolveEndDate(t *testing.T) {
	tests := []struct {
		name  string
		month int
		day   int
		now   time.Time
		want  int
	}{
		{
			name:  "same month same year",
			month: 12, day: 25,
			now:  time.Date(2023, 12, 20, 12, 0, 0, 0, ReferenceZone),
			want: 20231225,
		},
		{
			name:  "january seen in december rolls over",
			month: 1, day: 3,
			now:  time.Date(2023, 12, 30, 12, 0, 0, 0, ReferenceZone),
			want: 20240103,
		},
		{
			name:  "february seen in december does not roll over",
			month: 2, day: 1,
			now:  time.Date(2023, 12, 30, 12, 0, 0, 0, ReferenceZone),
			want: 20230201,
		},
		{
			name:  "january seen in november does not roll over",
			month: 1, day: 10,
			now:  time.Date(2023, 11, 30, 12, 0, 0, 0, ReferenceZone),
			want: 20230110,
		},
		{
			name:  "utc evening of dec 31 is already january in the reference zone",
			month: 1, day: 5,
			now:  time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC),
			want: 20250105,
		},
		{
			name:  "utc afternoon of dec 31 is still december in the reference zone",
			month: 1, day: 5,
			now:  time.Date(2024, 12, 31, 14, 59, 0, 0, time.UTC),
			want: 20250105,
		},
		{
			name:  "utc late nov 30 is december in the reference zone",
			month: 1, day: 2,
			now:  time.Date(2024, 11, 30, 16, 0, 0, 0, time.UTC),
			want: 20250102,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveEndDate(tt.month, tt.day, tt.now))
		})
	}
}

func TestToday(t *testing.T) {
	ymd, md := Today(time.Date(2024, 8, 30, 15, 30, 0, 0, time.UTC))
	require.Equal(t, 20240831, ymd)
	require.Equal(t, 831, md)

	ymd, md = Today(time.Date(2024, 8, 30, 14, 59, 0, 0, time.UTC))
	require.Equal(t, 20240830, ymd)
	require.Equal(t, 830, md)
}

func TestSplitDateKey(t *testing.T) {
	y, m, d := SplitDateKey(20250103)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 1, m)
	assert.Equal(t, 3, d)
}

// TestResolveEndDateRollover checks that only a December observation of a
// January date moves the year forward.
func TestResolveEndDateRollover(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		year := rapid.IntRange(1970, 2200).Draw(t, "year")
		refMonth := rapid.IntRange(1, 12).Draw(t, "refMonth")
		refDay := rapid.IntRange(1, 28).Draw(t, "refDay")
		hour := rapid.IntRange(0, 23).Draw(t, "hour")
		month := rapid.IntRange(1, 12).Draw(t, "month")
		day := rapid.IntRange(1, 31).Draw(t, "day")

		now := time.Date(year, time.Month(refMonth), refDay, hour, 0, 0, 0, ReferenceZone)
		got := ResolveEndDate(month, day, now)

		gotYear, gotMonth, gotDay := SplitDateKey(got)
		wantYear := year
		if refMonth == 12 && month == 1 {
			wantYear = year + 1
		}
		if gotYear != wantYear || gotMonth != month || gotDay != day {
			t.Fatalf("ResolveEndDate(%d, %d, %v) = %d, want year %d",
				month, day, now, got, wantYear)
		}
	})
}
