package pattern

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

func budapestContext() event.Context {
	return event.Context{
		DefaultTimezone: "Europe/Budapest",
		UserName:        "Balogh Csaba",
	}
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestHungarianScheduleSingleLine(t *testing.T) {
	x := NewExtractor(nil)
	text := "2025.11.04.\nBalogh Csaba — 8 óra 50 perc"

	events, err := x.Extract(context.Background(), text, budapestContext())
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "Exam appointment", ev.Title)
	assert.Equal(t, constants.KindEvent, ev.Kind)
	assert.Equal(t, constants.SourceDeterministic, ev.Source)
	assert.Equal(t, "Europe/Budapest", ev.Timezone)
	assert.Equal(t, []string{"exam"}, ev.Labels)

	bud := mustLocation(t, "Europe/Budapest")
	wantStart := time.Date(2025, 11, 4, 8, 50, 0, 0, bud)
	assert.True(t, ev.Start.Equal(wantStart), "start %s", ev.Start)
	_, offset := ev.Start.Zone()
	assert.Equal(t, 3600, offset, "november in Budapest is +01:00")

	require.NotNil(t, ev.End)
	assert.Equal(t, 30*time.Minute, ev.End.Sub(ev.Start))

	require.Len(t, ev.Reminders, 3)
	assert.Equal(t, 1440, ev.Reminders[0].MinutesBefore)
	assert.Contains(t, ev.Notes, "Imported from schedule.")
	assert.Contains(t, ev.Notes, "Balogh Csaba")
}

func TestHungarianScheduleFiltersOtherPeople(t *testing.T) {
	x := NewExtractor(nil)
	text := "2025.11.04.\nKiss Anna — 8 óra 50 perc\nBalogh Csaba — 9 óra 20 perc\nNagy Péter — 10 óra"

	events, err := x.Extract(context.Background(), text, budapestContext())
	require.NoError(t, err)
	require.Len(t, events, 1, "schedules list many people; only the user's line counts")

	bud := mustLocation(t, "Europe/Budapest")
	assert.True(t, events[0].Start.Equal(time.Date(2025, 11, 4, 9, 20, 0, 0, bud)))
}

func TestHungarianScheduleMatchesInstitutionalID(t *testing.T) {
	x := NewExtractor(nil)
	ec := event.Context{DefaultTimezone: "Europe/Budapest", UserID: "ABC123"}
	text := "2025.11.04.\nabc123 — 11 óra 5 perc\nXYZ789 — 12 óra"

	events, err := x.Extract(context.Background(), text, ec)
	require.NoError(t, err)
	require.Len(t, events, 1)

	bud := mustLocation(t, "Europe/Budapest")
	assert.True(t, events[0].Start.Equal(time.Date(2025, 11, 4, 11, 5, 0, 0, bud)))
}

func TestHungarianScheduleNoIdentityMatchesEveryLine(t *testing.T) {
	x := NewExtractor(nil)
	ec := event.Context{DefaultTimezone: "Europe/Budapest"}
	text := "2025.11.04.\nKiss Anna — 8 óra 50 perc\nNagy Péter — 10 óra 15 perc"

	events, err := x.Extract(context.Background(), text, ec)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestHungarianScheduleMultipleDateHeaders(t *testing.T) {
	x := NewExtractor(nil)
	text := "2025.11.04.\nBalogh Csaba — 8 óra 50 perc\n2025.11.06.\nBalogh Csaba — 14 óra"

	events, err := x.Extract(context.Background(), text, budapestContext())
	require.NoError(t, err)
	require.Len(t, events, 2)

	bud := mustLocation(t, "Europe/Budapest")
	assert.True(t, events[0].Start.Equal(time.Date(2025, 11, 4, 8, 50, 0, 0, bud)))
	assert.True(t, events[1].Start.Equal(time.Date(2025, 11, 6, 14, 0, 0, 0, bud)))
}

func TestHungarianScheduleRoom(t *testing.T) {
	x := NewExtractor(nil)
	text := "2025.11.04.\nBalogh Csaba — 8 óra 50 perc — I.214 terem"

	events, err := x.Extract(context.Background(), text, budapestContext())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "I.214 terem", events[0].Location)
}

func TestEnglishMeeting(t *testing.T) {
	x := NewExtractor(nil)
	ec := event.Context{DefaultTimezone: "Europe/Budapest"}
	text := "Project kickoff meeting on 2026-01-05 at 10:00 am in Room B12"

	events, err := x.Extract(context.Background(), text, ec)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, []string{"meeting"}, ev.Labels)
	assert.Equal(t, "Room B12", ev.Location)

	bud := mustLocation(t, "Europe/Budapest")
	assert.True(t, ev.Start.Equal(time.Date(2026, 1, 5, 10, 0, 0, 0, bud)))
	require.NotNil(t, ev.End)
	assert.Equal(t, time.Hour, ev.End.Sub(ev.Start))
	require.Len(t, ev.Reminders, 1)
	assert.Equal(t, 15, ev.Reminders[0].MinutesBefore)
}

func TestEnglishMeetingOnlineURL(t *testing.T) {
	x := NewExtractor(nil)
	ec := event.Context{DefaultTimezone: "UTC"}
	text := "Weekly sync meeting on January 5, 2026 at 3pm https://meet.google.com/abc-defg-hij"

	events, err := x.Extract(context.Background(), text, ec)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", events[0].OnlineURL)
	assert.True(t, events[0].Start.Equal(time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC)))
}

func TestEnglishFlight(t *testing.T) {
	x := NewExtractor(nil)
	ec := event.Context{DefaultTimezone: "Europe/Budapest"}
	text := "Your flight LH 1678 from BUD to FRA departs 2026-03-10 at 6:25 am"

	events, err := x.Extract(context.Background(), text, ec)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "Flight LH1678: BUD → FRA", ev.Title)
	assert.ElementsMatch(t, []string{"flight", "travel"}, ev.Labels)

	bud := mustLocation(t, "Europe/Budapest")
	assert.True(t, ev.Start.Equal(time.Date(2026, 3, 10, 6, 25, 0, 0, bud)))
	require.NotNil(t, ev.End)
	assert.Equal(t, 3*time.Hour, ev.End.Sub(ev.Start))

	require.Len(t, ev.Reminders, 3)
	assert.Equal(t, 1440, ev.Reminders[0].MinutesBefore)
	assert.Equal(t, 180, ev.Reminders[1].MinutesBefore)
	assert.Equal(t, 60, ev.Reminders[2].MinutesBefore)
}

func TestEnglishDeadline(t *testing.T) {
	x := NewExtractor(nil)
	ec := event.Context{DefaultTimezone: "Europe/Budapest"}
	text := "Thesis submission deadline is 2026-05-15"

	events, err := x.Extract(context.Background(), text, ec)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, constants.KindTask, ev.Kind)
	assert.True(t, ev.AllDay)
	assert.Equal(t, []string{"deadline"}, ev.Labels)

	bud := mustLocation(t, "Europe/Budapest")
	assert.True(t, ev.Start.Equal(time.Date(2026, 5, 15, 23, 59, 0, 0, bud)))
	assert.Nil(t, ev.End)

	require.Len(t, ev.Reminders, 2)
	assert.Equal(t, 1440, ev.Reminders[0].MinutesBefore)
	assert.Equal(t, 360, ev.Reminders[1].MinutesBefore)
}

func TestGenericFallback(t *testing.T) {
	x := NewExtractor(nil)
	ec := event.Context{DefaultTimezone: "UTC"}
	text := "Fogorvos 12.01.2026 14:30"

	events, err := x.Extract(context.Background(), text, ec)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Fogorvos", events[0].Title)
	assert.True(t, events[0].Start.Equal(time.Date(2026, 1, 12, 14, 30, 0, 0, time.UTC)))
}

func TestNoAnchorsYieldsEmpty(t *testing.T) {
	x := NewExtractor(nil)
	events, err := x.Extract(context.Background(), "hello there, nothing scheduled in this note", event.Context{DefaultTimezone: "UTC"})
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = x.Extract(context.Background(), "   ", event.Context{DefaultTimezone: "UTC"})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestConsumedSpansAreNotReextracted(t *testing.T) {
	x := NewExtractor(nil)
	// the schedule consumes the header and line; the generic fallback must
	// not produce a second event from the same date
	text := "2025.11.04.\nBalogh Csaba — 8 óra 50 perc"

	events, err := x.Extract(context.Background(), text, budapestContext())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestDetectLocale(t *testing.T) {
	assert.Equal(t, LocaleHungarian, DetectLocale("2025.11.04.\nBalogh Csaba — 8 óra 50 perc"))
	assert.Equal(t, LocaleEnglish, DetectLocale("meeting on January 5, 2026 at 10:00"))
	assert.Equal(t, LocaleGeneric, DetectLocale("12.01.2026 14:30"))
}

func TestTitleSimilarityHelpers(t *testing.T) {
	assert.Equal(t, "Balogh Csaba", scheduleNamePart("Balogh Csaba — 8 óra 50 perc"))
	assert.Equal(t, "Balogh Csaba", scheduleNamePart("Balogh Csaba - 8:50"))
}
