package merge

import "strings"

// TitleSimilarity is a case/whitespace-insensitive token-set Jaccard
// index in [0,1]. Token sets rather than edit distance: branch titles
// for the same real event tend to share words, not spelling.
func TitleSimilarity(a, b string) float64 {
	sa := tokenSet(a)
	sb := tokenSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}

	inter := 0
	for t := range sa {
		if _, ok := sb[t]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.Trim(f, ".,:;!?()[]\"'")
		if f != "" {
			out[f] = struct{}{}
		}
	}
	return out
}
