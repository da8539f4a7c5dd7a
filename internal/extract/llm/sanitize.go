package llm

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// SanitizeEvent
// - Renames known synonyms (url -> online_url, description -> notes, ...)
// - Drops null/empty optionals
// - Coerces numeric-ish confidence values
// - Removes unknown keys (strict additionalProperties = false friendliness)
// It only repairs shape; semantic validation stays with the schema.
func SanitizeEvent(raw []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms to our schema
	renamed("url", "online_url")
	renamed("online_link", "online_url")
	renamed("link", "online_url")
	renamed("description", "notes")
	renamed("summary", "title")
	renamed("tags", "labels")
	renamed("type", "kind")
	renamed("all_day", "allday")
	renamed("start_time", "start")
	renamed("end_time", "end")
	renamed("rrule", "recurrence")

	// 2) normalize kind; extractor-side validation enforces the enum
	if v, ok := m["kind"].(string); ok {
		m["kind"] = strings.ToLower(strings.TrimSpace(v))
	}

	// 3) coerce confidence to a float in 0..1
	if v, ok := m["confidence"]; ok {
		switch t := v.(type) {
		case float64:
			if t > 1.0 && t <= 100.0 {
				m["confidence"] = t / 100.0
			}
		case string:
			delete(m, "confidence")
			dropped = append(dropped, "confidence(type)")
		case nil:
			delete(m, "confidence")
			dropped = append(dropped, "confidence(null)")
		}
	}

	// 4) remove unknown keys (everything not in the schema set below)
	allowed := map[string]struct{}{
		"kind": {}, "title": {}, "start": {}, "end": {}, "allday": {},
		"timezone": {}, "location": {}, "online_url": {}, "notes": {},
		"attendees": {}, "reminders": {}, "labels": {}, "recurrence": {},
		"confidence": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	// 5) drop null / "" strings; trim the rest
	strKeys := []string{"kind", "title", "start", "end", "timezone", "location", "online_url", "notes", "recurrence"}
	for _, k := range strKeys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		case string:
			s := strings.TrimSpace(t)
			if s == "" || strings.EqualFold(s, "null") {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		}
	}

	// 6) empty collections are omissions, not content
	for _, k := range []string{"attendees", "reminders", "labels"} {
		if v, ok := m[k].([]any); ok && len(v) == 0 {
			delete(m, k)
			dropped = append(dropped, k+"(empty)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	return out, dropped, nil
}
