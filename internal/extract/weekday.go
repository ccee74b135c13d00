package extract

import "unicode/utf8"

var weekdayNames = map[string]string{
	"月": "月曜日",
	"火": "火曜日",
	"水": "水曜日",
	"木": "木曜日",
	"金": "金曜日",
	"土": "土曜日",
	"日": "日曜日",
}

// WeekdayName maps a day-of-week label to its full name by its first glyph,
// so 月・祝 reads as 月曜日. Unknown glyphs map to "".
func WeekdayName(label string) string {
	r, size := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError {
		return ""
	}
	return weekdayNames[label[:size]]
}
