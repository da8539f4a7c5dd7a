package pattern

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

var (
	// "2025.11.04." — a date header governing the lines below it.
	reHUDateHeader = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})\.`)

	// "8 óra 50 perc", "8 óra"
	reHUSpelledTime = regexp.MustCompile(`(\d{1,2})\s*óra(?:\s*(\d{1,2})\s*perc)?`)
	// plain "8:50"
	reClockTime = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// matchHungarianSchedule handles per-person exam schedules: a date header
// line followed by "Name — time" lines. A line only yields an event when
// it names the configured user (display name or institutional ID,
// case-insensitive) — schedules list many people, and a false positive
// here puts a bogus event in someone else's calendar. With no identity
// configured, every timed line matches.
func matchHungarianSchedule(text string, ec event.Context, spans *spanSet) []event.Candidate {
	headers := reHUDateHeader.FindAllStringSubmatchIndex(text, -1)
	if len(headers) == 0 {
		return nil
	}
	loc := ec.Location()

	var out []event.Candidate
	for hi, h := range headers {
		year, _ := strconv.Atoi(text[h[2]:h[3]])
		month, _ := strconv.Atoi(text[h[4]:h[5]])
		day, _ := strconv.Atoi(text[h[6]:h[7]])
		spans.Claim(h[0], h[1])

		sectionEnd := len(text)
		if hi+1 < len(headers) {
			sectionEnd = headers[hi+1][0]
		}
		section := text[h[1]:sectionEnd]

		for _, ln := range splitLines(section, h[1]) {
			line := strings.TrimSpace(ln.text)
			if line == "" || !lineNamesUser(line, ec) {
				continue
			}
			hour, minute, ok := hungarianTime(line)
			if !ok {
				continue
			}
			if !spans.Claim(ln.start, ln.end) {
				continue
			}

			start := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
			c := event.Candidate{
				Kind:     constants.KindEvent,
				Title:    "Exam appointment",
				Start:    start,
				Timezone: ec.DefaultTimezone,
				Labels:   []string{string(constants.Exam)},
				Notes:    "Imported from schedule. " + scheduleNamePart(line),
			}
			if room := findRoom(line); room != "" {
				c.Location = room
			}
			out = append(out, c)
		}
	}
	return out
}

func hungarianTime(line string) (hour, minute int, ok bool) {
	if m := reHUSpelledTime.FindStringSubmatch(line); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		return hour, minute, hour < 24 && minute < 60
	}
	if m := reClockTime.FindStringSubmatch(line); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		return hour, minute, hour < 24 && minute < 60
	}
	return 0, 0, false
}

// lineNamesUser reports whether a schedule line refers to the configured
// user. No configured identity means every line is the user's.
func lineNamesUser(line string, ec event.Context) bool {
	if ec.UserName == "" && ec.UserID == "" {
		return true
	}
	lower := strings.ToLower(line)
	if ec.UserName != "" && strings.Contains(lower, strings.ToLower(ec.UserName)) {
		return true
	}
	if ec.UserID != "" && strings.Contains(lower, strings.ToLower(ec.UserID)) {
		return true
	}
	return false
}

// scheduleNamePart returns the name segment of a "Name — time" line.
func scheduleNamePart(line string) string {
	for _, sep := range []string{"—", "–", " - "} {
		if i := strings.Index(line, sep); i >= 0 {
			return strings.TrimSpace(line[:i])
		}
	}
	return line
}

type offsetLine struct {
	text       string
	start, end int
}

// splitLines splits on newlines keeping absolute byte offsets for span
// claiming. base is the offset of s within the full text.
func splitLines(s string, base int) []offsetLine {
	var out []offsetLine
	pos := 0
	for pos <= len(s) {
		nl := strings.IndexByte(s[pos:], '\n')
		end := len(s)
		if nl >= 0 {
			end = pos + nl
		}
		out = append(out, offsetLine{text: s[pos:end], start: base + pos, end: base + end})
		if nl < 0 {
			break
		}
		pos = end + 1
	}
	return out
}
