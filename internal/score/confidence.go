// Package score holds the two pure decision functions at the end of the
// pipeline: the additive confidence model and the approval gate.
package score

import (
	"github.com/eventhint/eventhint/constants"
	"github.com/eventhint/eventhint/internal/event"
)

// Additive weights. The sum is capped at 1.0 before the OCR multiplier.
const (
	weightStart     = 0.30
	weightEnd       = 0.05
	weightTitle     = 0.20
	weightWhere     = 0.10 // location or online URL
	weightDet       = 0.20
	weightLLM       = 0.15
	weightTrusted   = 0.05
	titleMinLetters = 3
)

// Confidence computes the final 0..1 score for one merged candidate.
// Intrinsic quality and provenance add up; the attachment's OCR
// confidence then multiplies the sum, so text acquired badly can never
// score high no matter how clean the structured fields look.
func Confidence(c *event.Candidate, ec event.Context) float32 {
	var s float32

	if !c.Start.IsZero() {
		s += weightStart
	}
	if c.End != nil {
		s += weightEnd
	}
	if len(c.Title) > titleMinLetters {
		s += weightTitle
	}
	if c.Location != "" || c.OnlineURL != "" {
		s += weightWhere
	}
	switch c.Source {
	case constants.SourceDeterministic:
		s += weightDet
	case constants.SourceLLM:
		s += weightLLM
	}
	if ec.TrustedSender {
		s += weightTrusted
	}

	if s > 1.0 {
		s = 1.0
	}
	if ec.OCRConfidence > 0 {
		s *= ec.OCRConfidence
	}
	return clamp01(s)
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
