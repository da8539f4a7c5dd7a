package constants

import (
	"strings"
)

// Label classifies an extracted event and drives its default duration and
// reminder set.
type Label string

const (
	Exam        Label = "exam"
	Meeting     Label = "meeting"
	Flight      Label = "flight"
	Travel      Label = "travel"
	Deadline    Label = "deadline"
	Lecture     Label = "lecture"
	Appointment Label = "appointment"
)

var allLabels = []Label{
	Exam,
	Meeting,
	Flight,
	Travel,
	Deadline,
	Lecture,
	Appointment,
}

func LabelsAsStringSlice() []string {
	result := make([]string, len(allLabels))
	for i, l := range allLabels {
		result[i] = string(l)
	}
	return result
}

// CanonicalizeLabel maps free-form labels (including Hungarian terms the
// extractors encounter) onto the canonical set.
func CanonicalizeLabel(input string) (Label, bool) {
	if input == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Label{
		"vizsga":      Exam,
		"test":        Exam,
		"exam date":   Exam,
		"call":        Meeting,
		"sync":        Meeting,
		"standup":     Meeting,
		"plane":       Flight,
		"airline":     Flight,
		"trip":        Travel,
		"due":         Deadline,
		"due date":    Deadline,
		"submission":  Deadline,
		"class":       Lecture,
		"seminar":     Lecture,
		"doctor":      Appointment,
		"appointment": Appointment,
	}

	if l, ok := synonyms[normalized]; ok {
		return l, true
	}

	for _, l := range allLabels {
		if normalized == string(l) {
			return l, true
		}
	}

	return "", false
}
