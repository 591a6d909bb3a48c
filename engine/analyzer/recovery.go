package analyzer

import "strings"

// Recovery classifies a failed strict parse and proposes a fix the UI can
// offer with one click.
type Recovery struct {
	Issue    string // unclosed_quote, unclosed_parenthesis, trailing_operator, missing_value, syntax_error
	Position int    // offending offset, -1 when not derivable
	Autofix  string // corrected query text, empty when no fix is known
}

// recover inspects the text and structure after a failed parse. Ordering
// matters: an unclosed quote swallows everything after it, so it is checked
// before paren balance and trailing operators.
func classifyFailure(text string, tokens []Token, s Structure, parsePos int) *Recovery {
	if !s.BalancedQuotes {
		pos, quote := lastUnclosedQuote(text)
		return &Recovery{
			Issue:    "unclosed_quote",
			Position: pos,
			Autofix:  text + string(quote),
		}
	}

	if !s.BalancedParens {
		open, close := parenCounts(text)
		if open > close {
			return &Recovery{
				Issue:    "unclosed_parenthesis",
				Position: len(text),
				Autofix:  text + strings.Repeat(")", open-close),
			}
		}
		return &Recovery{Issue: "syntax_error", Position: parsePos}
	}

	if len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		if last.Kind == OperatorToken {
			return &Recovery{
				Issue:    "trailing_operator",
				Position: last.Start,
				Autofix:  strings.TrimSpace(text[:last.Start]),
			}
		}
		if last.Kind == TermToken && last.Operator != "" && last.Value == "" {
			return &Recovery{
				Issue:    "missing_value",
				Position: last.End,
				Autofix:  strings.TrimSpace(text[:last.Start+len(last.Raw)-len(last.Operator)]),
			}
		}
	}

	return &Recovery{Issue: "syntax_error", Position: parsePos}
}

func lastUnclosedQuote(text string) (int, byte) {
	pos := -1
	var quote byte = '"'
	inQuote := byte(0)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\\' && inQuote != 0 {
			i++
			continue
		}
		if ch == '"' || ch == '\'' {
			if inQuote == 0 {
				inQuote = ch
				pos = i
				quote = ch
			} else if inQuote == ch {
				inQuote = 0
				pos = -1
			}
		}
	}
	return pos, quote
}

func parenCounts(text string) (int, int) {
	open, close := 0, 0
	inQuote := byte(0)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\\' && inQuote != 0 {
			i++
			continue
		}
		switch {
		case ch == '"' || ch == '\'':
			if inQuote == 0 {
				inQuote = ch
			} else if inQuote == ch {
				inQuote = 0
			}
		case ch == '(' && inQuote == 0:
			open++
		case ch == ')' && inQuote == 0:
			close++
		}
	}
	return open, close
}
