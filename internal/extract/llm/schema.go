package llm

// BuildEventsJSONSchema returns the response envelope schema (draft
// 2020-12 subset) as a generic map. We pass it to the oracle as a
// structured output constraint and also use it locally to validate.
func BuildEventsJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"events": map[string]any{
				"type":  "array",
				"items": BuildEventJSONSchema(),
			},
		},
		"required": []string{"events"},
	}
}

// BuildEventJSONSchema is the per-event schema; validation runs per event
// so one bad item does not sink its siblings.
func BuildEventJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"kind":  map[string]any{"type": "string", "enum": []string{"event", "task"}},
			"title": map[string]any{"type": "string", "minLength": 1, "maxLength": 500},
			// RFC 3339, offset optional (backfilled from the context timezone)
			"start":      map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2})?([+-]\d{2}:\d{2}|Z)?$`},
			"end":        map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2})?([+-]\d{2}:\d{2}|Z)?$`},
			"allday":     map[string]any{"type": "boolean"},
			"timezone":   map[string]any{"type": "string"},
			"location":   map[string]any{"type": "string", "maxLength": 500},
			"online_url": map[string]any{"type": "string"},
			"notes":      map[string]any{"type": "string"},
			"attendees": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"name":  map[string]any{"type": "string"},
						"email": map[string]any{"type": "string"},
					},
				},
			},
			"reminders": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"method":  map[string]any{"type": "string", "enum": []string{"popup", "email"}},
						"minutes": map[string]any{"type": "integer", "minimum": 0},
					},
					"required": []string{"minutes"},
				},
			},
			"labels":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"recurrence": map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"title", "start"},
	}
}
