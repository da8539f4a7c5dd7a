package llm

import (
	"strings"

	"github.com/eventhint/eventhint/internal/event"
)

// BuildSystemPrompt composes the fixed instruction list. The rules are
// deliberately imperative and closed-world: the oracle extracts, it never
// invents.
func BuildSystemPrompt(ec event.Context) string {
	parts := []string{
		"You are a calendar event extractor. Return ONLY JSON that matches the provided JSON Schema.",
		"Extract ALL events and tasks mentioned in the text; return an empty 'events' array if there are none.",
		"Honor the locale conventions implied by the date formats found in the text (e.g. '2025.11.04.' is year.month.day).",
		"Use RFC 3339 timestamps (YYYY-MM-DDTHH:MM:SS) for 'start' and 'end', with a UTC offset when the text implies one.",
		"NEVER invent a location, URL, or attendee that is not present in the text. Omit fields you cannot ground.",
		"Assign labels from the text (exam, meeting, flight, travel, deadline, lecture, appointment) and reminders appropriate to the label.",
		"Deadlines and due dates are kind 'task' and all-day.",
		"Never output null. If a field is not present, omit it.",
		"Report your own certainty per event in 'confidence' (0..1).",
	}
	if tz := strings.TrimSpace(ec.DefaultTimezone); tz != "" {
		parts = append(parts, "If a timestamp has no explicit offset, interpret it in timezone: "+tz+".")
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the text blob; very long inputs are truncated
// so one pathological attachment cannot blow the token budget.
func BuildUserPrompt(text string) string {
	const maxChars = 8000

	var b strings.Builder
	b.WriteString("Text:\n")
	text = strings.TrimSpace(text)
	if len(text) > maxChars {
		b.WriteString(text[:maxChars])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}
