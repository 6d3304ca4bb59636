package textutil

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// NormalizeName lowercases a name and drops all whitespace so that "CS 101" and
// "cs101" compare equal.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// MatchName returns true if the normalized name contains any of the normalized
// filters. Empty filters never match.
func MatchName(name string, filters []string) bool {
	name = NormalizeName(name)
	for _, f := range filters {
		f = NormalizeName(f)
		if f == "" {
			continue
		}
		if strings.Contains(name, f) {
			return true
		}
	}
	return false
}

// ClosestName returns the index of the candidate most similar to `query` along with
// its Jaro-Winkler similarity, the index is -1 if there are no candidates.
func ClosestName(query string, candidates []string) (int, float64) {
	query = NormalizeName(query)

	best := -1
	var bestSimilarity float64
	for i, candidate := range candidates {
		normalized := NormalizeName(candidate)
		if normalized == query {
			return i, 1
		}
		similarity := matchr.JaroWinkler(query, normalized, false)
		// substring hits rank above any fuzzy match
		if query != "" && strings.Contains(normalized, query) {
			similarity = 0.99
		}
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = i
		}
	}
	return best, bestSimilarity
}
