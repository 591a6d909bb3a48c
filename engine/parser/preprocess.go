package parser

import (
	"strings"
)

// rewriteBracketLists rewrites every "field:[v1, v2, ...]" occurrence into
// "(field:v1 OR field:v2 OR ...)" before the text reaches the grammar parser.
// Bodies matching a range pattern ("min TO max") are left alone; the grammar
// handles those as RangeExpression nodes. Commas inside quotes never split.
func rewriteBracketLists(text string) string {
	var sb strings.Builder
	i := 0
	for i < len(text) {
		ch := text[i]

		// Skip over quoted regions untouched
		if ch == '"' || ch == '\'' {
			end := skipQuoted(text, i)
			sb.WriteString(text[i:end])
			i = end
			continue
		}

		if ch == ':' && i+1 < len(text) && text[i+1] == '[' {
			fieldStart := fieldStartBefore(text, i)
			field := text[fieldStart:i]
			bodyEnd := matchingBracket(text, i+1)
			if field != "" && bodyEnd > 0 {
				body := text[i+2 : bodyEnd]
				if !isRangeBody(body) {
					// Drop the already-written field name and emit the OR group
					written := sb.String()
					sb.Reset()
					sb.WriteString(written[:len(written)-len(field)])
					sb.WriteString(expandList(field, body))
					i = bodyEnd + 1
					continue
				}
			}
		}

		sb.WriteByte(ch)
		i++
	}
	return sb.String()
}

// skipQuoted returns the index just past the closing quote, or len(text) when
// the string is unterminated.
func skipQuoted(text string, start int) int {
	quote := text[start]
	for i := start + 1; i < len(text); i++ {
		if text[i] == '\\' {
			i++
			continue
		}
		if text[i] == quote {
			return i + 1
		}
	}
	return len(text)
}

// fieldStartBefore walks backwards over key characters from the colon
func fieldStartBefore(text string, colon int) int {
	start := colon
	for start > 0 && isKeyChar(text[start-1]) {
		start--
	}
	return start
}

// matchingBracket returns the index of the ']' closing the bracket at open,
// ignoring brackets inside quotes. Returns -1 when unbalanced.
func matchingBracket(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '"', '\'':
			i = skipQuoted(text, i) - 1
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// isRangeBody reports whether a bracket body is "min TO max"
func isRangeBody(body string) bool {
	parts := splitOutsideQuotes(body, ' ')
	var words []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			words = append(words, strings.TrimSpace(p))
		}
	}
	return len(words) == 3 && strings.EqualFold(words[1], "TO")
}

// expandList turns a comma list body into an OR group
func expandList(field, body string) string {
	values := splitOutsideQuotes(body, ',')

	var terms []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		terms = append(terms, field+":"+quoteIfNeeded(v))
	}
	if len(terms) == 0 {
		// Empty list stays as written so the grammar rejects it loudly
		return field + ":[" + body + "]"
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}

// splitOutsideQuotes splits on sep, preserving quoted regions
func splitOutsideQuotes(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'':
			i = skipQuoted(s, i) - 1
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// quoteIfNeeded wraps a list value in double quotes when it contains
// whitespace or structural characters and is not already quoted.
func quoteIfNeeded(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') {
		return v
	}
	if strings.ContainsAny(v, " \t()[]{}:,") {
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}

func isKeyChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' ||
		ch >= 'A' && ch <= 'Z' ||
		ch >= '0' && ch <= '9' ||
		ch == '_' || ch == '.' || ch == '-'
}
