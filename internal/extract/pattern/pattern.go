// Package pattern is the deterministic extraction branch: ordered,
// locale-keyed rule matchers over normalized text. Pure given identical
// input; it never calls out and never returns an error.
package pattern

import (
	"context"
	"log/slog"
	"strings"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

// Locale selects which rule table runs over a text blob.
type Locale string

const (
	LocaleHungarian Locale = "hu"
	LocaleEnglish   Locale = "en"
	LocaleGeneric   Locale = "generic"
)

// matcher is one rule grammar. Matchers claim the text spans they consume
// so a lower-priority rule never re-extracts the same date.
type matcher struct {
	name string
	fn   func(text string, ec event.Context, spans *spanSet) []event.Candidate
}

// Extractor applies the per-locale rule tables.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract runs the matchers for the detected locale in priority order.
// Absence of date/time anchors yields an empty list, never an error.
func (x *Extractor) Extract(_ context.Context, text string, ec event.Context) ([]event.Candidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	loc := DetectLocale(text)
	spans := newSpanSet()

	var out []event.Candidate
	for _, m := range matchersFor(loc) {
		cands := x.run(m, text, ec, spans)
		for i := range cands {
			c := &cands[i]
			c.Source = constants.SourceDeterministic
			if c.Timezone == "" {
				c.Timezone = ec.DefaultTimezone
			}
			event.ApplyLabelDefaults(c)
		}
		out = append(out, cands...)
	}

	x.logger.Info("pattern.extract.done", "locale", string(loc), "events", len(out))
	return out, nil
}

// run executes one matcher; a panicking rule is swallowed so the rest of
// the table still runs.
func (x *Extractor) run(m matcher, text string, ec event.Context, spans *spanSet) (out []event.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			x.logger.Warn("pattern.matcher_panic", "matcher", m.name, "panic", r)
			out = nil
		}
	}()
	return m.fn(text, ec, spans)
}

func matchersFor(loc Locale) []matcher {
	switch loc {
	case LocaleHungarian:
		return []matcher{
			{name: "hu.schedule", fn: matchHungarianSchedule},
			{name: "generic.date", fn: matchGenericDate},
		}
	case LocaleEnglish:
		return []matcher{
			{name: "en.flight", fn: matchFlight},
			{name: "en.deadline", fn: matchDeadline},
			{name: "en.meeting", fn: matchMeeting},
			{name: "generic.date", fn: matchGenericDate},
		}
	default:
		return []matcher{
			{name: "generic.date", fn: matchGenericDate},
		}
	}
}

// DetectLocale classifies text by lexical markers; Hungarian wins over
// English on a tie because its markers are rarer in mixed text.
func DetectLocale(text string) Locale {
	lower := strings.ToLower(text)

	huScore := 0
	for _, kw := range []string{" óra ", " perc", "vizsga", "terem", "határidő", "időpont"} {
		if strings.Contains(lower, kw) {
			huScore++
		}
	}
	if reHUDateHeader.MatchString(text) {
		huScore += 2
	}

	enScore := 0
	for _, kw := range []string{"meeting", "flight", "deadline", "due ", "appointment", "schedule"} {
		if strings.Contains(lower, kw) {
			enScore++
		}
	}
	if reMonthName.MatchString(lower) {
		enScore++
	}

	switch {
	case huScore > 0 && huScore >= enScore:
		return LocaleHungarian
	case enScore > 0:
		return LocaleEnglish
	default:
		return LocaleGeneric
	}
}

// spanSet tracks byte ranges already consumed by a higher-priority matcher.
type spanSet struct {
	spans [][2]int
}

func newSpanSet() *spanSet { return &spanSet{} }

// Claim records [start,end) as consumed and reports whether it was free.
func (s *spanSet) Claim(start, end int) bool {
	if s.Overlaps(start, end) {
		return false
	}
	s.spans = append(s.spans, [2]int{start, end})
	return true
}

func (s *spanSet) Overlaps(start, end int) bool {
	for _, sp := range s.spans {
		if start < sp[1] && end > sp[0] {
			return true
		}
	}
	return false
}
