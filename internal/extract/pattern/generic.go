package pattern

import (
	"regexp"
	"strconv"
	"time"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

var (
	reDottedDate = regexp.MustCompile(`\b(\d{4})\.(\d{1,2})\.(\d{1,2})\b`)
	reEuroDate   = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)
)

// matchGenericDate is the locale-agnostic fallback rule: any unclaimed
// line carrying both a date and a clock time becomes an appointment.
// A bare date without a time is too ambiguous to act on and is skipped.
func matchGenericDate(text string, ec event.Context, spans *spanSet) []event.Candidate {
	loc := ec.Location()
	var out []event.Candidate
	for _, ln := range splitLines(text, 0) {
		if spans.Overlaps(ln.start, ln.end) {
			continue
		}
		dm, ok := findGenericDate(ln.text)
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
			Title:    lineTitle(ln.text, dm.start, dm.end, "Appointment"),
			Start:    start,
			Timezone: ec.DefaultTimezone,
			Labels:   []string{string(constants.Appointment)},
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

func findGenericDate(line string) (dateMatch, bool) {
	if dm, ok := findEnglishDate(line); ok {
		return dm, true
	}
	if m := reDottedDate.FindStringSubmatchIndex(line); m != nil {
		y, _ := strconv.Atoi(line[m[2]:m[3]])
		mo, _ := strconv.Atoi(line[m[4]:m[5]])
		d, _ := strconv.Atoi(line[m[6]:m[7]])
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			return dateMatch{year: y, month: time.Month(mo), day: d, start: m[0], end: m[1]}, true
		}
	}
	if m := reEuroDate.FindStringSubmatchIndex(line); m != nil {
		d, _ := strconv.Atoi(line[m[2]:m[3]])
		mo, _ := strconv.Atoi(line[m[4]:m[5]])
		y, _ := strconv.Atoi(line[m[6]:m[7]])
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			return dateMatch{year: y, month: time.Month(mo), day: d, start: m[0], end: m[1]}, true
		}
	}
	return dateMatch{}, false
}
