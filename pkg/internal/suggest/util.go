package suggest

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

type suggestion struct {
	text  string
	score float64
}

// minScore is the similarity below which a candidate is
// not worth suggesting.
const minScore = 0.2

// Closest returns the candidates similar to given,
// best match first. Candidates scoring below the cutoff
// are omitted.
func Closest(given string, candidates []string) []string {
	var result []suggestion
	for _, text := range candidates {
		score := Score(given, text)
		if score < minScore {
			continue
		}
		result = append(result, suggestion{
			text:  text,
			score: score,
		})
	}
	sortSuggestions(result)
	texts := make([]string, 0, len(result))
	for _, s := range result {
		texts = append(texts, s.text)
	}
	return texts
}

// Best returns the single closest candidate, or "" if none
// scores above the cutoff.
func Best(given string, candidates []string) string {
	if c := Closest(given, candidates); len(c) > 0 {
		return c[0]
	}
	return ""
}

func sortSuggestions(s []suggestion) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].score != s[j].score {
			return s[i].score > s[j].score
		}
		return s[i].text < s[j].text
	})
}

// Score rates how well suggestion matches the given prefix input.
func Score(given, suggestion string) float64 {
	given = strings.ToLower(given)
	suggestion = strings.ToLower(suggestion)
	i := len(given)
	if len(suggestion) < i {
		i = len(suggestion)
	}
	return levenshtein.Similarity(given, suggestion[:i], nil)
}
