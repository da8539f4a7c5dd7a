// Package event defines the candidate/merged event model shared by both
// extraction branches, the merge engine, and the scorer.
package event

import (
	"time"
	// Zone lookups must work even in scratch containers without a system
	// tzdata directory; extracted events are always zone-aware.
	_ "time/tzdata"

	"github.com/eventhint/eventhint/constants"
)

// Attendee is one entry of an event's ordered attendee list.
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Reminder is one notification offset before the event start.
type Reminder struct {
	Method        string `json:"method"` // constants.ReminderPopup | constants.ReminderEmail
	MinutesBefore int    `json:"minutes"`
}

// Candidate is one event/task hypothesis produced by a single extraction
// branch, not yet merged or scored.
type Candidate struct {
	Kind       constants.Kind   `json:"kind"`
	Title      string           `json:"title"`
	Start      time.Time        `json:"start"`
	End        *time.Time       `json:"end,omitempty"`
	AllDay     bool             `json:"allday"`
	Timezone   string           `json:"timezone"` // IANA name, never empty after validation
	Location   string           `json:"location,omitempty"`
	OnlineURL  string           `json:"online_url,omitempty"`
	Notes      string           `json:"notes,omitempty"`
	Attendees  []Attendee       `json:"attendees,omitempty"`
	Reminders  []Reminder       `json:"reminders,omitempty"`
	Labels     []string         `json:"labels,omitempty"`
	Recurrence string           `json:"recurrence,omitempty"` // RRULE
	Source     constants.Source `json:"source"`

	// ExtractionConfidence is the branch-local signal (e.g. the oracle's own
	// certainty). It is NOT the final score.
	ExtractionConfidence float32 `json:"extraction_confidence,omitempty"`
}

// Merged is a Candidate carrying its final confidence and approval decision.
// Immutable once the gate has run; downstream edits belong to the approval UI.
type Merged struct {
	Candidate

	Confidence float32            `json:"confidence"`
	Decision   constants.Decision `json:"approval_decision"`
}

// Context is the ambient metadata threaded through one pipeline run.
type Context struct {
	DefaultTimezone string
	TrustedSender   bool

	// OCRConfidence is the lowest confidence among attachments that
	// contributed text. Zero means no attachment contributed.
	OCRConfidence float32

	// Identity hints for name matching in schedule rules.
	UserName string
	UserID   string // institutional ID, e.g. a Neptun code
}

// Policy is the per-user approval policy consulted by the gate.
type Policy struct {
	AutoApproveEnabled bool
}

// Location resolves the context's default timezone, falling back to UTC.
func (c Context) Location() *time.Location {
	if c.DefaultTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HasLabel reports whether the candidate carries the given label.
func (c *Candidate) HasLabel(l constants.Label) bool {
	for _, s := range c.Labels {
		if s == string(l) {
			return true
		}
	}
	return false
}

// CountPopulatedOptional counts filled optional fields; the merge engine
// uses it to pick a base record between same-source duplicates.
func (c *Candidate) CountPopulatedOptional() int {
	n := 0
	if c.End != nil {
		n++
	}
	if c.Location != "" {
		n++
	}
	if c.OnlineURL != "" {
		n++
	}
	if c.Notes != "" {
		n++
	}
	if len(c.Attendees) > 0 {
		n++
	}
	if len(c.Reminders) > 0 {
		n++
	}
	if len(c.Labels) > 0 {
		n++
	}
	if c.Recurrence != "" {
		n++
	}
	return n
}
