package pattern

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

var (
	reMonthName = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)

	reISODate   = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	reSlashDate = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	reMonthDate = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	reDayMonth  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{4})\b`)

	re12HourTime = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)

	// "LH 1234 ... BUD ... FRA" on a line mentioning a flight.
	reFlightLine = regexp.MustCompile(`\b([A-Z]{2}\s?\d{3,4})\b[^\n]*?\b([A-Z]{3})\b[^\n]*?\b([A-Z]{3})\b`)

	reDeadlineKeyword = regexp.MustCompile(`(?i)\b(deadline|due)\b`)
	reMeetingKeyword  = regexp.MustCompile(`(?i)\bmeeting\b`)
	reFlightKeyword   = regexp.MustCompile(`(?i)\bflight\b`)
)

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

type dateMatch struct {
	year       int
	month      time.Month
	day        int
	start, end int
}

type timeMatch struct {
	hour, minute int
	start, end   int
}

// findEnglishDate tries ISO, month-name, day-month and M/D/Y forms.
func findEnglishDate(line string) (dateMatch, bool) {
	if m := reISODate.FindStringSubmatchIndex(line); m != nil {
		y, _ := strconv.Atoi(line[m[2]:m[3]])
		mo, _ := strconv.Atoi(line[m[4]:m[5]])
		d, _ := strconv.Atoi(line[m[6]:m[7]])
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			return dateMatch{year: y, month: time.Month(mo), day: d, start: m[0], end: m[1]}, true
		}
	}
	if m := reMonthDate.FindStringSubmatchIndex(line); m != nil {
		mo := monthAbbrev[strings.ToLower(line[m[2]:m[3]])]
		d, _ := strconv.Atoi(line[m[4]:m[5]])
		y, _ := strconv.Atoi(line[m[6]:m[7]])
		if d >= 1 && d <= 31 {
			return dateMatch{year: y, month: mo, day: d, start: m[0], end: m[1]}, true
		}
	}
	if m := reDayMonth.FindStringSubmatchIndex(line); m != nil {
		d, _ := strconv.Atoi(line[m[2]:m[3]])
		mo := monthAbbrev[strings.ToLower(line[m[4]:m[5]])]
		y, _ := strconv.Atoi(line[m[6]:m[7]])
		if d >= 1 && d <= 31 {
			return dateMatch{year: y, month: mo, day: d, start: m[0], end: m[1]}, true
		}
	}
	if m := reSlashDate.FindStringSubmatchIndex(line); m != nil {
		mo, _ := strconv.Atoi(line[m[2]:m[3]])
		d, _ := strconv.Atoi(line[m[4]:m[5]])
		y, _ := strconv.Atoi(line[m[6]:m[7]])
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			return dateMatch{year: y, month: time.Month(mo), day: d, start: m[0], end: m[1]}, true
		}
	}
	return dateMatch{}, false
}

func findEnglishTime(line string) (timeMatch, bool) {
	if m := re12HourTime.FindStringSubmatchIndex(line); m != nil {
		h, _ := strconv.Atoi(line[m[2]:m[3]])
		minute := 0
		if m[4] >= 0 {
			minute, _ = strconv.Atoi(line[m[4]:m[5]])
		}
		meridiem := strings.ToLower(line[m[6]:m[7]])
		if meridiem == "pm" && h < 12 {
			h += 12
		}
		if meridiem == "am" && h == 12 {
			h = 0
		}
		if h < 24 && minute < 60 {
			return timeMatch{hour: h, minute: minute, start: m[0], end: m[1]}, true
		}
	}
	if m := reClockTime.FindStringSubmatchIndex(line); m != nil {
		h, _ := strconv.Atoi(line[m[2]:m[3]])
		minute, _ := strconv.Atoi(line[m[4]:m[5]])
		if h < 24 && minute < 60 {
			return timeMatch{hour: h, minute: minute, start: m[0], end: m[1]}, true
		}
	}
	return timeMatch{}, false
}

// matchFlight extracts flight itineraries: a flight number plus two
// airport codes and a departure date/time on a line that mentions a
// flight. Highest priority because its grammar is the most specific.
func matchFlight(text string, ec event.Context, spans *spanSet) []event.Candidate {
	loc := ec.Location()
	var out []event.Candidate
	for _, ln := range splitLines(text, 0) {
		if spans.Overlaps(ln.start, ln.end) || !reFlightKeyword.MatchString(ln.text) {
			continue
		}
		fm := reFlightLine.FindStringSubmatch(ln.text)
		if fm == nil {
			continue
		}
		dm, ok := findEnglishDate(ln.text)
		if !ok {
			continue
		}
		tm, hasTime := findEnglishTime(ln.text)
		if !hasTime {
			continue
		}
		if !spans.Claim(ln.start, ln.end) {
			continue
		}

		number := strings.ReplaceAll(fm[1], " ", "")
		from, to := fm[2], fm[3]
		start := time.Date(dm.year, dm.month, dm.day, tm.hour, tm.minute, 0, 0, loc)
		out = append(out, event.Candidate{
			Kind:     constants.KindEvent,
			Title:    fmt.Sprintf("Flight %s: %s → %s", number, from, to),
			Start:    start,
			Timezone: ec.DefaultTimezone,
			Labels:   []string{string(constants.Flight), string(constants.Travel)},
		})
	}
	return out
}

// matchDeadline extracts due dates as all-day tasks anchored at the end
// of the day.
func matchDeadline(text string, ec event.Context, spans *spanSet) []event.Candidate {
	loc := ec.Location()
	var out []event.Candidate
	for _, ln := range splitLines(text, 0) {
		if spans.Overlaps(ln.start, ln.end) || !reDeadlineKeyword.MatchString(ln.text) {
			continue
		}
		dm, ok := findEnglishDate(ln.text)
		if !ok {
			continue
		}
		if !spans.Claim(ln.start, ln.end) {
			continue
		}

		start := time.Date(dm.year, dm.month, dm.day, 23, 59, 0, 0, loc)
		out = append(out, event.Candidate{
			Kind:     constants.KindTask,
			Title:    lineTitle(ln.text, dm.start, dm.end, "Deadline"),
			Start:    start,
			AllDay:   true,
			Timezone: ec.DefaultTimezone,
			Labels:   []string{string(constants.Deadline)},
		})
	}
	return out
}

// matchMeeting extracts keyword+date+time meeting lines.
func matchMeeting(text string, ec event.Context, spans *spanSet) []event.Candidate {
	loc := ec.Location()
	var out []event.Candidate
	for _, ln := range splitLines(text, 0) {
		if spans.Overlaps(ln.start, ln.end) || !reMeetingKeyword.MatchString(ln.text) {
			continue
		}
		dm, ok := findEnglishDate(ln.text)
		if !ok {
			continue
		}
		tm, hasTime := findEnglishTime(ln.text)
		if !hasTime {
			continue
		}
		if !spans.Claim(ln.start, ln.end) {
			continue
		}

		start := time.Date(dm.year, dm.month, dm.day, tm.hour, tm.minute, 0, 0, loc)
		c := event.Candidate{
			Kind:     constants.KindEvent,
			Title:    lineTitle(ln.text, dm.start, dm.end, "Meeting"),
			Start:    start,
			Timezone: ec.DefaultTimezone,
			Labels:   []string{string(constants.Meeting)},
		}
		if url := findOnlineURL(ln.text); url != "" {
			c.OnlineURL = url
		}
		if room := findRoom(ln.text); room != "" {
			c.Location = room
		}
		out = append(out, c)
	}
	return out
}

// lineTitle strips the date token (and a trailing time token) out of a
// line to leave a human title, falling back when nothing readable remains.
func lineTitle(line string, dateStart, dateEnd int, fallback string) string {
	title := line[:dateStart] + line[dateEnd:]
	if tm, ok := findEnglishTime(title); ok {
		title = title[:tm.start] + title[tm.end:]
	}
	if url := findOnlineURL(title); url != "" {
		title = strings.ReplaceAll(title, url, "")
	}
	title = strings.Trim(title, " \t-–—:,.@|()")
	words := strings.Fields(title)
	for len(words) > 0 && isConnector(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	title = strings.Join(words, " ")
	if len(title) < 3 {
		return fallback
	}
	return title
}

func isConnector(w string) bool {
	switch strings.ToLower(strings.Trim(w, ",.:;")) {
	case "on", "at", "in", "from", "by", "is", "the":
		return true
	}
	return false
}
