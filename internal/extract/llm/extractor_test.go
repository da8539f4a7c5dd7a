package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

func staticOracle(response string) Oracle {
	return OracleFunc(func(_ context.Context, _ Request) ([]byte, error) {
		return []byte(response), nil
	})
}

func testContext() event.Context {
	return event.Context{DefaultTimezone: "Europe/Budapest"}
}

func TestExtractConvertsValidEvents(t *testing.T) {
	x := NewExtractor(ExtractorConfig{}, staticOracle(`{
		"events": [{
			"kind": "event",
			"title": "Team sync",
			"start": "2026-01-05T10:00:00+01:00",
			"end": "2026-01-05T10:30:00+01:00",
			"location": "Room B12",
			"notes": "weekly cadence",
			"labels": ["meeting"],
			"confidence": 0.8
		}]
	}`), nil)

	events, err := x.Extract(context.Background(), "some text", testContext())
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, constants.KindEvent, ev.Kind)
	assert.Equal(t, "Team sync", ev.Title)
	assert.Equal(t, constants.SourceLLM, ev.Source)
	assert.Equal(t, "Room B12", ev.Location)
	assert.Equal(t, []string{"meeting"}, ev.Labels)
	assert.InDelta(t, 0.8, ev.ExtractionConfidence, 1e-6)

	bud, err := time.LoadLocation("Europe/Budapest")
	require.NoError(t, err)
	assert.True(t, ev.Start.Equal(time.Date(2026, 1, 5, 10, 0, 0, 0, bud)))
	require.NotNil(t, ev.End)
	assert.Equal(t, 30*time.Minute, ev.End.Sub(ev.Start))

	assert.Contains(t, ev.Notes, "weekly cadence")
	assert.Contains(t, ev.Notes, "[Extracted by AI]")
}

func TestExtractOffsetlessTimeUsesContextZone(t *testing.T) {
	x := NewExtractor(ExtractorConfig{}, staticOracle(`{
		"events": [{"title": "Exam appointment", "start": "2025-11-04T08:50:00"}]
	}`), nil)

	events, err := x.Extract(context.Background(), "text", testContext())
	require.NoError(t, err)
	require.Len(t, events, 1)

	bud, _ := time.LoadLocation("Europe/Budapest")
	assert.True(t, events[0].Start.Equal(time.Date(2025, 11, 4, 8, 50, 0, 0, bud)))
	assert.Equal(t, "Europe/Budapest", events[0].Timezone)
}

func TestExtractDropsInvalidEventsIndividually(t *testing.T) {
	x := NewExtractor(ExtractorConfig{}, staticOracle(`{
		"events": [
			{"title": "Good event", "start": "2026-01-05T10:00:00"},
			{"title": "", "start": "2026-01-05T11:00:00"},
			{"title": "No start at all"},
			{"title": "Bad clock", "start": "tomorrow-ish"}
		]
	}`), nil)

	events, err := x.Extract(context.Background(), "text", testContext())
	require.NoError(t, err)
	require.Len(t, events, 1, "siblings survive an invalid event")
	assert.Equal(t, "Good event", events[0].Title)
}

func TestExtractAppliesLabelDefaults(t *testing.T) {
	x := NewExtractor(ExtractorConfig{}, staticOracle(`{
		"events": [{"title": "Algebra exam", "start": "2026-01-05T10:00:00", "labels": ["exam"]}]
	}`), nil)

	events, err := x.Extract(context.Background(), "text", testContext())
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NotNil(t, events[0].End)
	assert.Equal(t, 30*time.Minute, events[0].End.Sub(events[0].Start))
	require.Len(t, events[0].Reminders, 3)
}

func TestExtractCanonicalizesLabels(t *testing.T) {
	x := NewExtractor(ExtractorConfig{}, staticOracle(`{
		"events": [{"title": "Szóbeli vizsga", "start": "2026-01-05T10:00:00", "labels": ["vizsga", "UniSpecific"]}]
	}`), nil)

	events, err := x.Extract(context.Background(), "text", testContext())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, []string{"exam", "unispecific"}, events[0].Labels)
}

func TestExtractOracleFailureDegradesToEmpty(t *testing.T) {
	x := NewExtractor(ExtractorConfig{}, OracleFunc(func(_ context.Context, _ Request) ([]byte, error) {
		return nil, errors.New("quota exhausted")
	}), nil)

	events, err := x.Extract(context.Background(), "text", testContext())
	require.NoError(t, err, "oracle failures never propagate")
	assert.Empty(t, events)
}

func TestExtractMalformedJSONDegradesToEmpty(t *testing.T) {
	x := NewExtractor(ExtractorConfig{}, staticOracle(`not json at all`), nil)

	events, err := x.Extract(context.Background(), "text", testContext())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestExtractTimeout(t *testing.T) {
	slow := OracleFunc(func(ctx context.Context, _ Request) ([]byte, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return []byte(`{"events": []}`), nil
		}
	})
	x := NewExtractor(ExtractorConfig{Timeout: 20 * time.Millisecond}, slow, nil)

	start := time.Now()
	events, err := x.Extract(context.Background(), "text", testContext())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Less(t, time.Since(start), time.Second)
}

func TestExtractEmptyTextSkipsOracle(t *testing.T) {
	called := false
	x := NewExtractor(ExtractorConfig{}, OracleFunc(func(_ context.Context, _ Request) ([]byte, error) {
		called = true
		return []byte(`{"events": []}`), nil
	}), nil)

	events, err := x.Extract(context.Background(), "   ", testContext())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.False(t, called)
}

func TestSanitizeEventRenamesSynonyms(t *testing.T) {
	cleaned, dropped, err := SanitizeEvent([]byte(`{
		"summary": "Standup",
		"start_time": "2026-01-05T09:00:00",
		"url": "https://zoom.us/j/123",
		"description": "daily",
		"tags": ["meeting"],
		"hallucinated_field": 42
	}`))
	require.NoError(t, err)
	assert.NotEmpty(t, dropped)

	var m map[string]any
	require.NoError(t, json.Unmarshal(cleaned, &m))
	assert.Equal(t, "Standup", m["title"])
	assert.Equal(t, "2026-01-05T09:00:00", m["start"])
	assert.Equal(t, "https://zoom.us/j/123", m["online_url"])
	assert.Equal(t, "daily", m["notes"])
	assert.NotContains(t, m, "hallucinated_field")
}

func TestSanitizeEventDropsNulls(t *testing.T) {
	cleaned, _, err := SanitizeEvent([]byte(`{
		"title": "X", "start": "2026-01-05T09:00:00",
		"location": null, "notes": "", "labels": [], "confidence": null
	}`))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(cleaned, &m))
	assert.NotContains(t, m, "location")
	assert.NotContains(t, m, "notes")
	assert.NotContains(t, m, "labels")
	assert.NotContains(t, m, "confidence")
}

func TestSanitizeEventPercentConfidence(t *testing.T) {
	cleaned, _, err := SanitizeEvent([]byte(`{"title": "X", "start": "2026-01-05T09:00:00", "confidence": 85}`))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(cleaned, &m))
	assert.InDelta(t, 0.85, m["confidence"].(float64), 1e-9)
}

func TestEventSchemaRejectsBadShapes(t *testing.T) {
	schema := BuildEventJSONSchema()

	require.NoError(t, ValidateJSONAgainstSchema(schema, []byte(`{"title": "Ok", "start": "2026-01-05T10:00:00"}`)))
	require.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"title": "", "start": "2026-01-05T10:00:00"}`)))
	require.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"title": "No start"}`)))
	require.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"title": "Bad kind", "start": "2026-01-05T10:00:00", "kind": "appointment-ish"}`)))
	require.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"title": "Bad reminder", "start": "2026-01-05T10:00:00", "reminders": [{"minutes": -5}]}`)))
}
