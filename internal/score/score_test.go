package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

func candidate(source constants.Source) event.Candidate {
	return event.Candidate{
		Kind:     constants.KindEvent,
		Title:    "Exam appointment",
		Start:    time.Date(2025, 11, 4, 8, 50, 0, 0, time.UTC),
		Timezone: "UTC",
		Source:   source,
	}
}

func TestConfidenceWeights(t *testing.T) {
	ec := event.Context{}

	// start + title + deterministic
	c := candidate(constants.SourceDeterministic)
	assert.InDelta(t, 0.70, Confidence(&c, ec), 1e-6)

	// llm provenance weighs less than deterministic
	c = candidate(constants.SourceLLM)
	assert.InDelta(t, 0.65, Confidence(&c, ec), 1e-6)

	// end bonus
	c = candidate(constants.SourceDeterministic)
	end := c.Start.Add(30 * time.Minute)
	c.End = &end
	assert.InDelta(t, 0.75, Confidence(&c, ec), 1e-6)

	// location bonus
	c.Location = "I.214 terem"
	assert.InDelta(t, 0.85, Confidence(&c, ec), 1e-6)

	// trusted sender bonus
	assert.InDelta(t, 0.90, Confidence(&c, event.Context{TrustedSender: true}), 1e-6)
}

func TestConfidenceShortTitleEarnsNoTitleWeight(t *testing.T) {
	c := candidate(constants.SourceDeterministic)
	c.Title = "Gym"
	assert.InDelta(t, 0.50, Confidence(&c, event.Context{}), 1e-6)
}

func TestConfidenceOCRMultiplier(t *testing.T) {
	c := candidate(constants.SourceDeterministic)

	clean := Confidence(&c, event.Context{OCRConfidence: 1.0})
	garbled := Confidence(&c, event.Context{OCRConfidence: 0.40})

	assert.InDelta(t, 0.70, clean, 1e-6)
	assert.InDelta(t, 0.28, garbled, 1e-6)
	assert.Less(t, garbled, clean, "low OCR confidence can never yield a high final score")
}

func TestConfidenceAlwaysInUnitInterval(t *testing.T) {
	// everything populated, trusted, no OCR: cap at 1.0 applies before return
	c := candidate(constants.SourceDeterministic)
	end := c.Start.Add(time.Hour)
	c.End = &end
	c.Location = "somewhere"
	c.OnlineURL = "https://meet.google.com/x"

	got := Confidence(&c, event.Context{TrustedSender: true})
	assert.GreaterOrEqual(t, got, float32(0))
	assert.LessOrEqual(t, got, float32(1))
	assert.InDelta(t, 0.90, got, 1e-6)

	// zero-value event still clamps
	var empty event.Candidate
	got = Confidence(&empty, event.Context{})
	assert.GreaterOrEqual(t, got, float32(0))
	assert.LessOrEqual(t, got, float32(1))
}

func TestDecideGateDisabled(t *testing.T) {
	got := Decide(0.99, event.Policy{AutoApproveEnabled: false}, event.Context{})
	assert.Equal(t, constants.DecisionPendingReview, got, "no auto-approval without opt-in")
}

func TestDecideHighConfidence(t *testing.T) {
	policy := event.Policy{AutoApproveEnabled: true}

	assert.Equal(t, constants.DecisionAutoApprove, Decide(0.92, policy, event.Context{}))
	assert.Equal(t, constants.DecisionAutoApprove, Decide(0.90, policy, event.Context{}))
	assert.Equal(t, constants.DecisionPendingReview, Decide(0.89, policy, event.Context{}))
}

func TestDecideTrustedSenderLowersBar(t *testing.T) {
	policy := event.Policy{AutoApproveEnabled: true}
	trusted := event.Context{TrustedSender: true}

	assert.Equal(t, constants.DecisionAutoApprove, Decide(0.75, policy, trusted))
	assert.Equal(t, constants.DecisionAutoApprove, Decide(0.70, policy, trusted))
	assert.Equal(t, constants.DecisionPendingReview, Decide(0.69, policy, trusted))
	assert.Equal(t, constants.DecisionPendingReview, Decide(0.75, policy, event.Context{}))
}
