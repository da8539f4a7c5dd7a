package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

func mergedExam() event.Merged {
	start := time.Date(2025, 11, 4, 7, 50, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	return event.Merged{
		Candidate: event.Candidate{
			Kind:      constants.KindEvent,
			Title:     "Exam appointment",
			Start:     start,
			End:       &end,
			Timezone:  "Europe/Budapest",
			Location:  "I.214 terem",
			Notes:     "Imported from schedule. Balogh Csaba",
			Labels:    []string{"exam"},
			Reminders: []event.Reminder{{Method: "popup", MinutesBefore: 30}},
			Source:    constants.SourceDeterministic,
		},
		Confidence: 0.75,
		Decision:   constants.DecisionPendingReview,
	}
}

func TestEventsICSRendersCalendar(t *testing.T) {
	s := NewService(nil)

	out, err := s.EventsICS([]event.Merged{mergedExam()})
	require.NoError(t, err)
	ics := string(out)

	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "END:VCALENDAR")
	assert.Contains(t, ics, "METHOD:PUBLISH")
	assert.Contains(t, ics, "SUMMARY:Exam appointment")
	assert.Contains(t, ics, "DTSTART:20251104T075000Z")
	assert.Contains(t, ics, "DTEND:20251104T082000Z")
	assert.Contains(t, ics, "LOCATION:I.214 terem")
	assert.Contains(t, ics, "CATEGORIES:exam")
	assert.Contains(t, ics, "STATUS:TENTATIVE")
	// the full meta line may be folded at 75 octets; check the leading part
	assert.Contains(t, ics, "confidence=0.75")

	assert.Contains(t, ics, "BEGIN:VALARM")
	assert.Contains(t, ics, "ACTION:DISPLAY")
	assert.Contains(t, ics, "TRIGGER:-PT30M")
}

func TestEventsICSApprovedIsConfirmed(t *testing.T) {
	s := NewService(nil)

	m := mergedExam()
	m.Decision = constants.DecisionAutoApprove
	out, err := s.EventsICS([]event.Merged{m})
	require.NoError(t, err)

	assert.Contains(t, string(out), "STATUS:CONFIRMED")
	assert.NotContains(t, string(out), "STATUS:TENTATIVE")
}

func TestEventsICSAttendeesAndRecurrence(t *testing.T) {
	s := NewService(nil)

	m := mergedExam()
	m.Recurrence = "RRULE:FREQ=WEEKLY;BYDAY=TU"
	m.Attendees = []event.Attendee{
		{Name: "Balogh Csaba", Email: "balogh@example.com"},
		{Name: "no address"},
	}
	out, err := s.EventsICS([]event.Merged{m})
	require.NoError(t, err)
	ics := string(out)

	assert.Contains(t, ics, "RRULE:FREQ=WEEKLY;BYDAY=TU")
	assert.Contains(t, ics, "balogh@example.com")
	assert.Contains(t, ics, "CN=Balogh Csaba")
	assert.NotContains(t, ics, "mailto:\r\n", "attendees without an address are skipped")
}

func TestEventsICSEmptyList(t *testing.T) {
	s := NewService(nil)

	out, err := s.EventsICS(nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "BEGIN:VCALENDAR")
}

func TestTriggerValue(t *testing.T) {
	assert.Equal(t, "-PT30M", triggerValue(30))
	assert.Equal(t, "-PT3H", triggerValue(180))
	assert.Equal(t, "-P1D", triggerValue(1440))
	assert.Equal(t, "-P1DT1H", triggerValue(1500))
	assert.Equal(t, "-PT2H15M", triggerValue(135))
	assert.Equal(t, "-PT0M", triggerValue(0))
	assert.Equal(t, "-PT0M", triggerValue(-10))
}
