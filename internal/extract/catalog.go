// Package extract recognizes announcement posts and turns them into typed
// matches, and resolves partial dates found in them.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Kind is the outcome type of a rule.
type Kind int

const (
	// FutureEvent is a fact to persist and act on at a later date.
	FutureEvent Kind = iota + 1
	// ImmediateNotice is a fact announced as soon as it is observed.
	ImmediateNotice
)

func (k Kind) String() string {
	switch k {
	case FutureEvent:
		return "future_event"
	case ImmediateNotice:
		return "immediate_notice"
	default:
		return "unknown"
	}
}

// Rule names, in priority order.
const (
	RuleEventEnd           = "event-end"
	RuleEventEndedToday    = "event-ended-today"
	RuleBroadcastScheduled = "broadcast-scheduled"
	RuleBroadcastStarting  = "broadcast-starting"
)

// Match is one rule hit on a message. Fields not captured by the rule are
// left at their zero value.
type Match struct {
	Rule string
	Kind Kind

	Month     int
	Day       int
	Weekday   string
	Hour      int
	Minute    int
	Episode   int
	EventName string

	render func(Match) string
}

// Notice renders the notification text of an ImmediateNotice match. It
// returns "" for FutureEvent matches.
func (m Match) Notice() string {
	if m.render == nil {
		return ""
	}
	return m.render(m)
}

// Rule is a named pattern with named capture groups. build converts the
// captured groups to a Match and reports false when a value is out of range.
type Rule struct {
	Name    string
	Kind    Kind
	Pattern *regexp.Regexp

	build  func(g groups) (Match, bool)
	render func(Match) string
}

func (r Rule) match(text string) (Match, bool) {
	sub := r.Pattern.FindStringSubmatch(text)
	if sub == nil {
		return Match{}, false
	}
	g := make(groups, len(sub))
	for i, name := range r.Pattern.SubexpNames() {
		if name != "" {
			g[name] = sub[i]
		}
	}
	m, ok := r.build(g)
	if !ok {
		return Match{}, false
	}
	m.Rule = r.Name
	m.Kind = r.Kind
	m.render = r.render
	return m, true
}

// Catalog is an ordered, read-only set of rules. It is safe for concurrent use.
type Catalog struct {
	rules []Rule
}

// NewCatalog returns a catalog evaluating rules in the given order.
func NewCatalog(rules ...Rule) *Catalog {
	return &Catalog{rules: rules}
}

// DefaultCatalog returns the announcement rules for the watched account.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		eventEndRule(),
		eventEndedTodayRule(),
		broadcastScheduledRule(),
		broadcastStartingRule(),
	)
}

// Rules returns the rules in evaluation order.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// MatchAll applies every rule to text and returns all hits in rule order.
// Rules do not short-circuit each other. Invalid UTF-8 and blank text never
// match.
func (c *Catalog) MatchAll(text string) []Match {
	if !utf8.ValidString(text) || strings.TrimSpace(text) == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out []Match
	for _, r := range c.rules {
		if m, ok := r.match(text); ok {
			out = append(out, m)
		}
	}
	return out
}

// Pattern fragments. Digits may be ASCII or full-width.
const (
	num       = `[0-9０-９]`
	monthDay  = `(?P<month>` + num + `{1,2})月(?P<day>` + num + `{1,2})日`
	weekday   = `[（(](?P<weekday>[^）)\n]+)[）)]`
	clockTime = `(?P<hour>` + num + `{1,2})(?:時|[:：](?P<minute>` + num + `{2}))`
	space     = `[ \t　]*`
	episode   = `[\s\S]*?第(?P<episode>` + num + `+)回[\s\S]*?生放送`
	afterLive = `[^\n]*アフターライブ`
	eventLine = `(?P<event>[^\n]+)`
)

func eventEndRule() Rule {
	return Rule{
		Name:    RuleEventEnd,
		Kind:    FutureEvent,
		Pattern: regexp.MustCompile(`^` + monthDay + weekday + `[^\n]*\n` + eventLine + `\n` + afterLive),
		build: func(g groups) (Match, bool) {
			month, day, ok := g.monthDay()
			if !ok {
				return Match{}, false
			}
			name, ok := g.eventName()
			if !ok {
				return Match{}, false
			}
			return Match{Month: month, Day: day, Weekday: WeekdayName(g["weekday"]), EventName: name}, true
		},
	}
}

func eventEndedTodayRule() Rule {
	return Rule{
		Name:    RuleEventEndedToday,
		Kind:    ImmediateNotice,
		Pattern: regexp.MustCompile(`^本日[^\n]*\n` + eventLine + `\n` + afterLive),
		build: func(g groups) (Match, bool) {
			name, ok := g.eventName()
			if !ok {
				return Match{}, false
			}
			return Match{EventName: name}, true
		},
		render: func(m Match) string {
			return "イベント「" + m.EventName + "」が終了しました！" +
				"アフターライブを見て、ストーリーを読み終えたか確認しましょう。"
		},
	}
}

func broadcastScheduledRule() Rule {
	return Rule{
		Name:    RuleBroadcastScheduled,
		Kind:    ImmediateNotice,
		Pattern: regexp.MustCompile(`^` + monthDay + weekday + space + clockTime + episode),
		build: func(g groups) (Match, bool) {
			month, day, ok := g.monthDay()
			if !ok {
				return Match{}, false
			}
			hour, minute, ok := g.clock()
			if !ok {
				return Match{}, false
			}
			ep, ok := g.number("episode")
			if !ok {
				return Match{}, false
			}
			return Match{
				Month: month, Day: day, Weekday: WeekdayName(g["weekday"]),
				Hour: hour, Minute: minute, Episode: ep,
			}, true
		},
		render: func(m Match) string {
			var b strings.Builder
			b.WriteString(strconv.Itoa(m.Month) + "月" + strconv.Itoa(m.Day) + "日")
			if m.Weekday != "" {
				b.WriteString("(" + m.Weekday + ")")
			}
			b.WriteString(clockLabel(m.Hour, m.Minute))
			b.WriteString("から第" + strconv.Itoa(m.Episode) + "回の生放送が決定しました！")
			return b.String()
		},
	}
}

func broadcastStartingRule() Rule {
	return Rule{
		Name:    RuleBroadcastStarting,
		Kind:    ImmediateNotice,
		Pattern: regexp.MustCompile(`^本日` + space + clockTime + episode),
		build: func(g groups) (Match, bool) {
			hour, minute, ok := g.clock()
			if !ok {
				return Match{}, false
			}
			ep, ok := g.number("episode")
			if !ok {
				return Match{}, false
			}
			return Match{Hour: hour, Minute: minute, Episode: ep}, true
		},
		render: func(m Match) string {
			return "まもなく第" + strconv.Itoa(m.Episode) + "回の生放送が始まります！(本日" +
				clockLabel(m.Hour, m.Minute) + "から)"
		},
	}
}

func clockLabel(hour, minute int) string {
	if minute == 0 {
		return strconv.Itoa(hour) + "時"
	}
	return strconv.Itoa(hour) + "時" + strconv.Itoa(minute) + "分"
}

// groups holds the named captures of one match.
type groups map[string]string

func (g groups) number(name string) (int, bool) {
	s := width.Narrow.String(g[name])
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (g groups) monthDay() (month, day int, ok bool) {
	month, ok = g.number("month")
	if !ok || month < 1 || month > 12 {
		return 0, 0, false
	}
	day, ok = g.number("day")
	if !ok || day < 1 || day > 31 {
		return 0, 0, false
	}
	return month, day, true
}

// clock accepts hours up to 29 for late-night listings such as 25時.
func (g groups) clock() (hour, minute int, ok bool) {
	hour, ok = g.number("hour")
	if !ok || hour > 29 {
		return 0, 0, false
	}
	if g["minute"] == "" {
		return hour, 0, true
	}
	minute, ok = g.number("minute")
	if !ok || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func (g groups) eventName() (string, bool) {
	name := strings.TrimSpace(g["event"])
	return name, name != ""
}
