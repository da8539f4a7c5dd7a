package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/eventhint/eventhint/constants"
)

const (
	maxTitleLen    = 500
	maxLocationLen = 500
)

// Validate checks a candidate against the schema invariants. Callers drop
// invalid candidates individually; a validation failure is never fatal to
// the pipeline.
func Validate(c *Candidate, defaultTimezone string) error {
	title := strings.TrimSpace(c.Title)
	if len(title) < 2 {
		return fmt.Errorf("title too short: %q", c.Title)
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("title exceeds %d chars", maxTitleLen)
	}

	if c.Start.IsZero() {
		return fmt.Errorf("start is required")
	}
	if c.End != nil && !c.End.After(c.Start) {
		return fmt.Errorf("end %s is not after start %s", c.End.Format(time.RFC3339), c.Start.Format(time.RFC3339))
	}

	if len(c.Location) > maxLocationLen {
		return fmt.Errorf("location exceeds %d chars", maxLocationLen)
	}

	switch c.Kind {
	case constants.KindEvent, constants.KindTask:
	case "":
		c.Kind = constants.KindEvent
	default:
		return fmt.Errorf("unknown kind %q", c.Kind)
	}

	switch c.Source {
	case constants.SourceDeterministic, constants.SourceLLM:
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}

	// Timezone is always set; fall back to the configured default.
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}

	for i, r := range c.Reminders {
		if r.Method != constants.ReminderPopup && r.Method != constants.ReminderEmail {
			return fmt.Errorf("reminder %d: unknown method %q", i, r.Method)
		}
		if r.MinutesBefore < 0 {
			return fmt.Errorf("reminder %d: negative offset", i)
		}
	}

	if c.Recurrence != "" {
		rule := strings.TrimPrefix(strings.TrimSpace(c.Recurrence), "RRULE:")
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("recurrence %q: %w", c.Recurrence, err)
		}
	}

	return nil
}
