package pattern

import (
	"regexp"
	"strings"
)

var (
	reRoomEN = regexp.MustCompile(`(?i)\broom\s*[:.]?\s*([A-Za-z0-9][A-Za-z0-9.\-/]{0,29})`)
	// Hungarian word order: "I.214 terem"
	reRoomHU = regexp.MustCompile(`([A-Za-z0-9][A-Za-z0-9.\-/]{0,29})\s+terem\b`)

	reURL = regexp.MustCompile(`https?://[^\s<>"]+`)

	meetingHosts = []string{"zoom.us", "meet.google.com", "teams.microsoft.com", "webex.com", "meet.jit.si"}
)

// findRoom pulls a room designator out of a line, in either English or
// Hungarian word order.
func findRoom(line string) string {
	if m := reRoomEN.FindStringSubmatch(line); m != nil {
		return "Room " + strings.TrimRight(m[1], ".")
	}
	if m := reRoomHU.FindStringSubmatch(line); m != nil {
		return m[1] + " terem"
	}
	return ""
}

// findOnlineURL returns the first conferencing link in a line; a plain
// URL only counts when no known meeting host is present.
func findOnlineURL(line string) string {
	urls := reURL.FindAllString(line, -1)
	for _, u := range urls {
		for _, host := range meetingHosts {
			if strings.Contains(u, host) {
				return strings.TrimRight(u, ".,);")
			}
		}
	}
	if len(urls) > 0 {
		return strings.TrimRight(urls[0], ".,);")
	}
	return ""
}
