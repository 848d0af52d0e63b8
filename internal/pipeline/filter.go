package pipeline

import (
	"regexp"

	"eventpulse/internal/domain"
)

// placeholderPattern matches questions naming a single-letter placeholder
// outcome. A lone letter (preceded by start of string, whitespace, or an
// opening quote or bracket) counts when followed by be/win/lose, by a
// closing quote or bracket, or by the end of the question. Case-insensitive.
var placeholderPattern = regexp.MustCompile(`(?i)(^|[\s("'“‘\[])([a-z])(\s+(?:be|win|lose)\b|\s*["'”’)\]]|[?!.]*\s*$)`)

// IsPlaceholderQuestion reports whether the question names a placeholder
// outcome such as "Candidate A" or "Movie B". The heuristic is lexical and
// may keep or remove any share of an event's markets.
func IsPlaceholderQuestion(question string) bool {
	return placeholderPattern.MatchString(question)
}

// FilterPlaceholders returns the markets whose questions name real outcomes,
// preserving response order. The input slice is never mutated.
func FilterPlaceholders(markets []domain.Market) []domain.Market {
	kept := make([]domain.Market, 0, len(markets))
	for _, m := range markets {
		if IsPlaceholderQuestion(m.Question) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}
