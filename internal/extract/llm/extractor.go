package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

// ExtractorConfig holds the branch knobs.
type ExtractorConfig struct {
	// Timeout bounds the oracle call; on expiry the branch returns empty.
	Timeout time.Duration
}

// Extractor is the generative extraction branch. It degrades to an empty
// candidate list on any oracle, transport, or parsing failure; the
// deterministic branch may already have carried the run.
type Extractor struct {
	cfg    ExtractorConfig
	oracle Oracle
	logger *slog.Logger
}

func NewExtractor(cfg ExtractorConfig, oracle Oracle, logger *slog.Logger) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, oracle: oracle, logger: logger}
}

// wireEvent is the oracle's JSON shape for one event.
type wireEvent struct {
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Start     string `json:"start"`
	End       string `json:"end,omitempty"`
	AllDay    bool   `json:"allday"`
	Timezone  string `json:"timezone,omitempty"`
	Location  string `json:"location,omitempty"`
	OnlineURL string `json:"online_url,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Attendees []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"attendees,omitempty"`
	Reminders []struct {
		Method  string `json:"method"`
		Minutes int    `json:"minutes"`
	} `json:"reminders,omitempty"`
	Labels     []string `json:"labels,omitempty"`
	Recurrence string   `json:"recurrence,omitempty"`
	Confidence float32  `json:"confidence,omitempty"`
}

// Extract calls the oracle once and converts every schema-valid event in
// the response. Individual invalid events are dropped, never the batch.
func (x *Extractor) Extract(ctx context.Context, text string, ec event.Context) ([]event.Candidate, error) {
	if x.oracle == nil || strings.TrimSpace(text) == "" {
		return nil, nil
	}

	rid := uuid.New().String()
	start := time.Now()
	x.logger.Info("llm.extract.start", "req_id", rid, "text_len", len(text))

	callCtx, cancel := context.WithTimeout(ctx, x.cfg.Timeout)
	defer cancel()

	raw, err := x.oracle.Complete(callCtx, Request{
		System: BuildSystemPrompt(ec),
		User:   BuildUserPrompt(text),
		Schema: BuildEventsJSONSchema(),
	})
	if err != nil {
		x.logger.Warn("llm.extract.oracle_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil
	}

	var envelope struct {
		Events []json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		x.logger.Warn("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil
	}

	eventSchema := BuildEventJSONSchema()
	out := make([]event.Candidate, 0, len(envelope.Events))
	for i, item := range envelope.Events {
		cleaned, dropped, err := SanitizeEvent(item)
		if err != nil {
			x.logger.Warn("llm.extract.sanitize_failed", "req_id", rid, "index", i, "error", err)
			continue
		}
		if len(dropped) > 0 {
			x.logger.Warn("llm.extract.sanitize_applied", "req_id", rid, "index", i, "dropped", dropped)
		}
		if err := ValidateJSONAgainstSchema(eventSchema, cleaned); err != nil {
			x.logger.Warn("llm.extract.schema_validation_failed", "req_id", rid, "index", i, "error", err)
			continue
		}

		var we wireEvent
		if err := json.Unmarshal(cleaned, &we); err != nil {
			x.logger.Warn("llm.extract.unmarshal_failed", "req_id", rid, "index", i, "error", err)
			continue
		}
		c, ok := x.convert(we, ec)
		if !ok {
			x.logger.Warn("llm.extract.time_parse_failed", "req_id", rid, "index", i, "start", we.Start)
			continue
		}
		out = append(out, c)
	}

	x.logger.Info("llm.extract.ok",
		"req_id", rid,
		"events", len(out),
		"rejected", len(envelope.Events)-len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (x *Extractor) convert(we wireEvent, ec event.Context) (event.Candidate, bool) {
	tz := we.Timezone
	if tz == "" {
		tz = ec.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		tz = ec.DefaultTimezone
		loc = ec.Location()
	}

	start, ok := parseWhen(we.Start, loc)
	if !ok {
		return event.Candidate{}, false
	}

	c := event.Candidate{
		Kind:                 constants.Kind(we.Kind),
		Title:                we.Title,
		Start:                start,
		AllDay:               we.AllDay,
		Timezone:             tz,
		Location:             we.Location,
		OnlineURL:            we.OnlineURL,
		Notes:                annotateNotes(we.Notes),
		Recurrence:           we.Recurrence,
		Source:               constants.SourceLLM,
		ExtractionConfidence: we.Confidence,
	}
	if c.Kind == "" {
		c.Kind = constants.KindEvent
	}
	if we.End != "" {
		if end, ok := parseWhen(we.End, loc); ok && end.After(start) {
			c.End = &end
		}
	}
	for _, a := range we.Attendees {
		c.Attendees = append(c.Attendees, event.Attendee{Name: a.Name, Email: a.Email})
	}
	for _, r := range we.Reminders {
		method := r.Method
		if method == "" {
			method = constants.ReminderPopup
		}
		c.Reminders = append(c.Reminders, event.Reminder{Method: method, MinutesBefore: r.Minutes})
	}
	for _, l := range we.Labels {
		if canon, ok := constants.CanonicalizeLabel(l); ok {
			c.Labels = append(c.Labels, string(canon))
		} else if s := strings.ToLower(strings.TrimSpace(l)); s != "" {
			c.Labels = append(c.Labels, s)
		}
	}

	event.ApplyLabelDefaults(&c)
	return c, true
}

// annotateNotes marks generated prose so a reviewer can tell it from text
// lifted verbatim out of the source document.
func annotateNotes(notes string) string {
	const marker = "[Extracted by AI]"
	if strings.Contains(notes, marker) {
		return notes
	}
	if notes == "" {
		return marker
	}
	return notes + "\n" + marker
}

var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseWhen accepts RFC 3339 with or without an offset; offsetless stamps
// are interpreted in the given location.
func parseWhen(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
