// Package export renders merged events as an iCalendar payload so a run's
// output can be handed to any calendar client without the provider write
// path.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

// Service produces ICS bytes for pipeline output.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// EventsICS serializes the merged list into one VCALENDAR. Times are
// emitted in UTC; all-day entries use date values. Reminders become
// display VALARMs.
func (s *Service) EventsICS(events []event.Merged) ([]byte, error) {
	start := time.Now()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//eventhint//extraction pipeline//EN")

	for i := range events {
		s.addEvent(cal, &events[i])
	}

	out := cal.Serialize()
	s.logger.Info("export.ics.ok",
		"events", len(events),
		"bytes", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return []byte(out), nil
}

func (s *Service) addEvent(cal *ics.Calendar, m *event.Merged) {
	ve := cal.AddEvent(uuid.New().String() + "@eventhint")
	now := time.Now().UTC()
	ve.SetDtStampTime(now)
	ve.SetCreatedTime(now)
	ve.SetSummary(m.Title)

	if m.AllDay {
		ve.SetAllDayStartAt(m.Start)
		if m.End != nil {
			ve.SetAllDayEndAt(*m.End)
		}
	} else {
		ve.SetStartAt(m.Start.UTC())
		if m.End != nil {
			ve.SetEndAt(m.End.UTC())
		}
	}

	if m.Location != "" {
		ve.SetLocation(m.Location)
	}
	if m.OnlineURL != "" {
		ve.SetURL(m.OnlineURL)
	}

	desc := m.Notes
	meta := fmt.Sprintf("confidence=%.2f decision=%s source=%s", m.Confidence, m.Decision, m.Source)
	if desc == "" {
		desc = meta
	} else {
		desc = desc + "\n" + meta
	}
	ve.SetDescription(desc)

	if len(m.Labels) > 0 {
		ve.SetProperty(ics.ComponentProperty(ics.PropertyCategories), strings.Join(m.Labels, ","))
	}
	if m.Recurrence != "" {
		ve.AddRrule(strings.TrimPrefix(m.Recurrence, "RRULE:"))
	}
	if m.Decision == constants.DecisionPendingReview {
		ve.SetProperty(ics.ComponentProperty(ics.PropertyStatus), "TENTATIVE")
	} else {
		ve.SetProperty(ics.ComponentProperty(ics.PropertyStatus), "CONFIRMED")
	}

	for _, a := range m.Attendees {
		if a.Email == "" {
			continue
		}
		ve.AddAttendee(a.Email, ics.WithCN(a.Name))
	}

	for _, r := range m.Reminders {
		alarm := ve.AddAlarm()
		alarm.SetProperty(ics.ComponentProperty(ics.PropertyAction), "DISPLAY")
		alarm.SetProperty(ics.ComponentProperty(ics.PropertyDescription), m.Title)
		alarm.SetProperty(ics.ComponentProperty(ics.PropertyTrigger), triggerValue(r.MinutesBefore))
	}
}

// triggerValue renders a minutes-before offset as an ISO 8601 negative
// duration ("-PT30M", "-P1DT2H").
func triggerValue(minutes int) string {
	if minutes <= 0 {
		return "-PT0M"
	}
	d := time.Duration(minutes) * time.Minute
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	mins := d / time.Minute

	var b strings.Builder
	b.WriteString("-P")
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours > 0 || mins > 0 {
		b.WriteString("T")
		if hours > 0 {
			fmt.Fprintf(&b, "%dH", hours)
		}
		if mins > 0 {
			fmt.Fprintf(&b, "%dM", mins)
		}
	}
	if days == 0 && hours == 0 && mins == 0 {
		b.WriteString("T0M")
	}
	return b.String()
}
