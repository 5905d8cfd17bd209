package mapping

import (
	"regexp"
	"strings"
)

var (
	punctRe    = regexp.MustCompile(`[\[\]._]`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9 ]+`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// normalize lowercases, strips bracket/dot punctuation and collapses
// non-alphanumeric runs to single spaces.
func normalize(value string) string {
	lowered := strings.ToLower(value)
	lowered = punctRe.ReplaceAllString(lowered, " ")
	lowered = nonAlnumRe.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(lowered, " "))
}

// tokenSetScore is an order-independent token overlap ratio in [0,1]: the
// share of term tokens that appear in the candidate label, where a token
// counts as present when it equals a label token or one contains the
// other. "sales" therefore fully matches a "salesamount" column label.
func tokenSetScore(term, label string) float64 {
	termTokens := strings.Fields(term)
	labelTokens := strings.Fields(label)
	if len(termTokens) == 0 || len(labelTokens) == 0 {
		return 0
	}

	matched := 0
	for _, tt := range termTokens {
		for _, lt := range labelTokens {
			if tokensOverlap(tt, lt) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(termTokens))
}

func tokensOverlap(a, b string) bool {
	if a == b {
		return true
	}
	// Containment needs a few characters to mean anything.
	if len(a) >= 3 && strings.Contains(b, a) {
		return true
	}
	if len(b) >= 3 && strings.Contains(a, b) {
		return true
	}
	return false
}
