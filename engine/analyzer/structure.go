package analyzer

import "strings"

// Structure summarizes the shape of partially-typed text. It is computed
// from the raw text plus the token stream and is always fully populated,
// even when the strict parse failed.
type Structure struct {
	BalancedParens bool
	BalancedQuotes bool
	MaxDepth       int
	ClauseCount    int
	OperatorCount  int
	Fields         []string
	IsComplete     bool
	Complexity     string // simple, moderate, complex
}

// analyzeStructure derives balance, depth, counts and completeness
func analyzeStructure(text string, tokens []Token) Structure {
	s := Structure{}

	openParens, closeParens, depth, maxDepth := 0, 0, 0, 0
	doubleQuotes, singleQuotes := 0, 0
	inQuote := byte(0)

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\\' && inQuote != 0 {
			i++
			continue
		}
		switch ch {
		case '"', '\'':
			if inQuote == 0 {
				inQuote = ch
			} else if inQuote == ch {
				inQuote = 0
			}
			if ch == '"' {
				doubleQuotes++
			} else {
				singleQuotes++
			}
		case '(':
			if inQuote == 0 {
				openParens++
				depth++
				if depth > maxDepth {
					maxDepth = depth
				}
			}
		case ')':
			if inQuote == 0 {
				closeParens++
				depth--
			}
		}
	}

	s.BalancedParens = openParens == closeParens
	s.BalancedQuotes = doubleQuotes%2 == 0 && singleQuotes%2 == 0
	s.MaxDepth = maxDepth

	seen := map[string]bool{}
	hasOpenTerm := false
	for _, tok := range tokens {
		switch tok.Kind {
		case TermToken:
			s.ClauseCount++
			if tok.Key != "" && !seen[tok.Key] {
				seen[tok.Key] = true
				s.Fields = append(s.Fields, tok.Key)
			}
			if tok.Operator != "" && tok.Value == "" {
				hasOpenTerm = true
			}
		case OperatorToken:
			s.OperatorCount++
		}
	}

	trailingOperator := len(tokens) > 0 && tokens[len(tokens)-1].Kind == OperatorToken
	s.IsComplete = !trailingOperator && !hasOpenTerm && s.BalancedParens && s.BalancedQuotes &&
		strings.TrimSpace(text) != ""

	s.Complexity = classifyComplexity(s.ClauseCount, s.OperatorCount, s.MaxDepth)
	return s
}

// classifyComplexity buckets a query into simple/moderate/complex
func classifyComplexity(clauses, operators, depth int) string {
	if clauses > 5 || depth > 3 || operators > 4 {
		return "complex"
	}
	if clauses <= 2 && depth <= 1 {
		return "simple"
	}
	return "moderate"
}
