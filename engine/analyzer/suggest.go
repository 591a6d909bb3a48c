package analyzer

import (
	"sort"
	"strings"

	"github.com/filterql-engine/filterql/engine/schema"
)

// Suggestion is one autocomplete candidate
type Suggestion struct {
	Text   string
	Kind   string // field, value, operator
	Detail string
}

// suggest produces autocomplete candidates for the cursor context. Ranking
// for fields: exact prefix matches first, then substring matches, then
// typo-distance matches within the configured edit distance.
func (o Options) suggest(context string, active *Token, cursor int, fields schema.Fields) []Suggestion {
	switch context {
	case "empty", "key":
		partial := ""
		if active != nil {
			partial = keyPrefixAt(active, cursor)
		}
		return o.suggestFields(partial, fields)

	case "value":
		if active == nil || active.Key == "" {
			return nil
		}
		field, known := fields[active.Key]
		if !known {
			return nil
		}
		return suggestValues(field, active.Value)

	case "between":
		return []Suggestion{
			{Text: "AND", Kind: "operator"},
			{Text: "OR", Kind: "operator"},
			{Text: "NOT", Kind: "operator"},
		}
	}

	return nil
}

// keyPrefixAt returns the part of the token's key left of the cursor
func keyPrefixAt(tok *Token, cursor int) string {
	keyStart := tok.Start
	if tok.Negated {
		keyStart++
	}
	key := tok.Key
	if key == "" {
		key = tok.Value
	}
	offset := cursor - keyStart
	if offset < 0 {
		return ""
	}
	if offset > len(key) {
		offset = len(key)
	}
	return key[:offset]
}

func (o Options) suggestFields(partial string, fields schema.Fields) []Suggestion {
	type ranked struct {
		name  string
		score int
	}

	partial = strings.ToLower(partial)
	maxDistance := o.TypoDistance
	if maxDistance == 0 {
		maxDistance = 2
	}

	var candidates []ranked
	for name, field := range fields {
		lower := strings.ToLower(name)
		score := 0
		switch {
		case partial == "":
			score = 1
		case strings.HasPrefix(lower, partial):
			score = 3
		case strings.Contains(lower, partial):
			score = 2
		case levenshtein(lower, partial) <= maxDistance:
			score = 1
		}
		if score > 0 {
			candidates = append(candidates, ranked{name: name, score: score})
			_ = field
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].name < candidates[j].name
	})

	limit := o.MaxSuggestions
	if limit == 0 {
		limit = 10
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, Suggestion{
			Text:   c.name,
			Kind:   "field",
			Detail: fields[c.name].Description,
		})
	}
	return suggestions
}

func suggestValues(field schema.Field, partial string) []Suggestion {
	if len(field.AllowedValues) > 0 {
		var suggestions []Suggestion
		for _, v := range field.AllowedValues {
			if partial == "" || strings.HasPrefix(strings.ToLower(v), strings.ToLower(partial)) {
				suggestions = append(suggestions, Suggestion{Text: v, Kind: "value"})
			}
		}
		return suggestions
	}

	if field.Type == "boolean" {
		return []Suggestion{
			{Text: "true", Kind: "value"},
			{Text: "false", Kind: "value"},
		}
	}

	return nil
}

// suggestSimilarField finds the closest schema field for typo reporting.
// Returns "" when nothing is within the edit-distance threshold.
func (o Options) suggestSimilarField(unknown string, fields schema.Fields) string {
	maxDistance := o.TypoDistance
	if maxDistance == 0 {
		maxDistance = 2
	}

	bestMatch := ""
	bestDistance := maxDistance + 1
	for name := range fields {
		dist := levenshtein(strings.ToLower(unknown), strings.ToLower(name))
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = name
		}
	}
	return bestMatch
}

// levenshtein calculates edit distance between two strings
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = minOf(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func minOf(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
