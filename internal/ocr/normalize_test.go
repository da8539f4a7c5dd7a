package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	in := "Exam  schedule\r\n\r\n\r\n\r\n2025.11.04.\t\tRoom 214   \n----------\nBalogh Csaba — 8 óra 50 perc  "
	got := Normalize(in)
	assert.Equal(t, "Exam schedule\n\n2025.11.04. Room 214\n\nBalogh Csaba — 8 óra 50 perc", got)
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("  \n\n  "))
}

func TestHeuristicConfidence(t *testing.T) {
	// base only
	low := heuristicConfidence("lorem ipsum")
	// date + time + keyword + length
	rich := heuristicConfidence("Exam schedule for 2025.11.04 at 8:50 in room I.214. Please arrive fifteen minutes early and bring your student card with you.")
	assert.Less(t, low, rich)
	assert.LessOrEqual(t, rich, float32(1.0))
	assert.InDelta(t, 0.2, low, 1e-6)
}
