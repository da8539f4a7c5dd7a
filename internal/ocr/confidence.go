package ocr

import (
	"regexp"
	"strings"
)

var (
	reDateToken = regexp.MustCompile(`\b\d{4}[.\-/]\d{1,2}[.\-/]\d{1,2}\b|\b\d{1,2}[.\-/]\d{1,2}[.\-/]\d{2,4}\b`)
	reTimeToken = regexp.MustCompile(`\b\d{1,2}:\d{2}\b|\b\d{1,2}\s*óra\b`)
	reKeyword   = regexp.MustCompile(`(?i)\b(meeting|exam|vizsga|flight|deadline|schedule|terem|room|due)\b`)
)

func hasDateToken(s string) bool    { return reDateToken.MatchString(s) }
func hasTimeToken(s string) bool    { return reTimeToken.MatchString(s) }
func hasEventKeyword(s string) bool { return reKeyword.MatchString(s) }

// heuristicConfidence estimates text quality from decoded characteristics
// when the engine reports no word-level confidence. Calendar-ish artifacts
// (date, clock time, schedule keywords) each add a share.
func heuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if hasDateToken(txtL) {
		score += 0.2
	}
	if hasTimeToken(txtL) {
		score += 0.15
	}
	if hasEventKeyword(txtL) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
