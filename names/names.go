// Package names prepares raw entrant input for the bracket engine. The
// engine requires mutually distinct names, so everything fuzzy lives here:
// whitespace cleanup, title-casing, duplicate suffixing and near-duplicate
// warnings. The engine itself never second-guesses the list it receives.
package names

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// DefaultSimilarityThreshold flags pairs like "Jon"/"John" without drowning
// short rosters in false positives.
const DefaultSimilarityThreshold = 0.8

// Similarity scores how alike two names are, in [0, 1]. Callers can plug in
// their own heuristic; the default is a Levenshtein ratio.
type Similarity func(a, b string) float64

// LevenshteinRatio is 1 - distance/maxLen, case-insensitive. Identical names
// score 1, fully dissimilar names approach 0.
func LevenshteinRatio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// Warning flags two distinct prepared names that look like the same person.
// Warnings are informational: the organizer decides whether to merge them.
type Warning struct {
	NameA string  `json:"name_a"`
	NameB string  `json:"name_b"`
	Score float64 `json:"score"`
}

// Prepare normalizes raw entrant lines into the distinct, title-cased list
// the engine consumes. Empty lines are dropped, exact duplicates (after
// normalization, case-insensitive) get a " (2)", " (3)" suffix, and pairs
// scoring at or above threshold are reported as near-duplicate warnings.
func Prepare(raw []string, sim Similarity, threshold float64) ([]string, []Warning) {
	if sim == nil {
		sim = LevenshteinRatio
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}

	counts := make(map[string]int)
	prepared := make([]string, 0, len(raw))
	bases := make([]string, 0, len(raw))
	for _, line := range raw {
		name := Normalize(line)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		counts[key]++
		if n := counts[key]; n > 1 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}
		prepared = append(prepared, name)
		bases = append(bases, key)
	}

	var warnings []Warning
	for i := 0; i < len(prepared); i++ {
		for j := i + 1; j < len(prepared); j++ {
			// Suffixed duplicates share a base and are already disambiguated.
			if bases[i] == bases[j] {
				continue
			}
			if score := sim(prepared[i], prepared[j]); score >= threshold {
				warnings = append(warnings, Warning{
					NameA: prepared[i],
					NameB: prepared[j],
					Score: score,
				})
			}
		}
	}
	return prepared, warnings
}

// Normalize trims, collapses inner whitespace and title-cases each word.
func Normalize(name string) string {
	fields := strings.Fields(name)
	for i, field := range fields {
		runes := []rune(strings.ToLower(field))
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}
