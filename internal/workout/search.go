package workout

import (
	"strings"
	"unicode"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// ResultLimit caps how many exercises a catalog search returns.
const ResultLimit = 30

// searchPunct is stripped (along with all whitespace) when normalizing
// search text, so "lat pull-down" matches "Lat Pulldown".
const searchPunct = "-_()./,'"

// FilterExercises narrows a candidate list by a free-text query for program
// authoring. A blank query returns the first ResultLimit candidates as-is.
// Otherwise a candidate matches when the query is a literal substring, a
// case-insensitive substring, or a substring after normalizing both sides
// (lowercase, whitespace and punctuation stripped) — checked against the
// name and every alias. Input order is preserved; no relevance ranking.
func FilterExercises(candidates []models.Exercise, query string) []models.Exercise {
	if strings.TrimSpace(query) == "" {
		if len(candidates) > ResultLimit {
			return candidates[:ResultLimit]
		}
		return candidates
	}

	var out []models.Exercise
	for _, ex := range candidates {
		if matchesExercise(ex, query) {
			out = append(out, ex)
			if len(out) == ResultLimit {
				break
			}
		}
	}
	return out
}

func matchesExercise(ex models.Exercise, query string) bool {
	if matchesText(ex.Name, query) {
		return true
	}
	for _, alias := range ex.Aliases {
		if matchesText(alias, query) {
			return true
		}
	}
	return false
}

func matchesText(text, query string) bool {
	if strings.Contains(text, query) {
		return true
	}
	if strings.Contains(strings.ToLower(text), strings.ToLower(query)) {
		return true
	}
	return strings.Contains(normalizeSearch(text), normalizeSearch(query))
}

func normalizeSearch(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || strings.ContainsRune(searchPunct, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
