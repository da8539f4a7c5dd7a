package event

import (
	"time"

	"github.com/eventhint/eventhint/constants"
)

// labelDurations is the fixed duration applied to events that arrive
// without an explicit end time.
var labelDurations = map[constants.Label]time.Duration{
	constants.Exam:        30 * time.Minute,
	constants.Meeting:     time.Hour,
	constants.Lecture:     90 * time.Minute,
	constants.Flight:      3 * time.Hour,
	constants.Appointment: 30 * time.Minute,
}

const defaultDuration = time.Hour

// labelReminders is the static label→reminder-offsets table. Reminders are
// populated here, not learned, and not touched by the merge step.
var labelReminders = map[constants.Label][]Reminder{
	constants.Exam: {
		{Method: constants.ReminderPopup, MinutesBefore: 1440}, // 1 day
		{Method: constants.ReminderPopup, MinutesBefore: 120},  // 2 hours
		{Method: constants.ReminderPopup, MinutesBefore: 30},
	},
	constants.Flight: {
		{Method: constants.ReminderPopup, MinutesBefore: 1440}, // check-in
		{Method: constants.ReminderPopup, MinutesBefore: 180},
		{Method: constants.ReminderPopup, MinutesBefore: 60},
	},
	constants.Meeting: {
		{Method: constants.ReminderPopup, MinutesBefore: 15},
	},
	constants.Deadline: {
		{Method: constants.ReminderPopup, MinutesBefore: 1440},
		{Method: constants.ReminderPopup, MinutesBefore: 360},
	},
}

// ApplyLabelDefaults fills the end time and reminder set from the
// candidate's labels. The producing extractor calls this; the merge engine
// never does.
func ApplyLabelDefaults(c *Candidate) {
	if c.End == nil && !c.AllDay && c.Kind == constants.KindEvent && !c.Start.IsZero() {
		d := defaultDuration
		for _, s := range c.Labels {
			if ld, ok := labelDurations[constants.Label(s)]; ok {
				d = ld
				break
			}
		}
		end := c.Start.Add(d)
		c.End = &end
	}

	if len(c.Reminders) == 0 {
		for _, s := range c.Labels {
			if rs, ok := labelReminders[constants.Label(s)]; ok {
				c.Reminders = append(c.Reminders, rs...)
				break
			}
		}
	}
}
