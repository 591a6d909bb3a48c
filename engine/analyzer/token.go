package analyzer

import (
	"regexp"
	"strings"
)

// TokenKind separates term tokens from logical-operator tokens
type TokenKind int

const (
	TermToken TokenKind = iota
	OperatorToken
)

// Token is one recognized unit of partially-typed filter text. Positions are
// byte offsets into the original input; a token lives for one analyze call.
type Token struct {
	Kind     TokenKind
	Key      string // term only, empty for bare values
	Operator string // ":", ":>", ... for terms; AND/OR/NOT for operators
	Value    string // term only, quotes stripped
	Negated  bool   // term only, leading '-'
	Start    int
	End      int
	Raw      string
}

// The scanner is regex-driven and total: anything it cannot recognize is
// skipped one character at a time, never aborting the scan. This is what
// makes the incremental path safe to run on every keystroke.
var (
	logicalRe = regexp.MustCompile(`(?i)^(AND|OR|NOT)\b`)
	keyRe     = regexp.MustCompile(`^-?[A-Za-z0-9_.-]+`)
	opRe      = regexp.MustCompile(`^:(>=|<=|!=|>|<|=)?`)
	valueRe   = regexp.MustCompile(`^[^\s()]+`)
)

// tokenize scans left to right. Whitespace and parentheses are structural,
// not tokens; the structure analyzer counts them separately over raw text.
func tokenize(text string) []Token {
	var tokens []Token
	i := 0

	for i < len(text) {
		ch := text[i]

		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '(' || ch == ')' {
			i++
			continue
		}

		// Logical operator word
		if m := logicalRe.FindString(text[i:]); m != "" {
			tokens = append(tokens, Token{
				Kind:     OperatorToken,
				Operator: strings.ToUpper(m),
				Start:    i,
				End:      i + len(m),
				Raw:      m,
			})
			i += len(m)
			continue
		}

		// Quoted bare value
		if ch == '"' || ch == '\'' {
			value, end := scanQuoted(text, i)
			tokens = append(tokens, Token{
				Kind:  TermToken,
				Value: value,
				Start: i,
				End:   end,
				Raw:   text[i:end],
			})
			i = end
			continue
		}

		// Term: optional '-', key, comparison operator, value
		if m := keyRe.FindString(text[i:]); m != "" {
			if tok, next, ok := scanTerm(text, i, m); ok {
				tokens = append(tokens, tok)
				i = next
				continue
			}

			// No operator follows: the whole run is a bare value
			run := valueRe.FindString(text[i:])
			tok := Token{
				Kind:  TermToken,
				Value: run,
				Start: i,
				End:   i + len(run),
				Raw:   run,
			}
			if strings.HasPrefix(run, "-") && len(run) > 1 {
				tok.Negated = true
				tok.Value = run[1:]
			}
			tokens = append(tokens, tok)
			i += len(run)
			continue
		}

		// Unrecognized character: skip it, never abort
		i++
	}

	return tokens
}

// scanTerm reads key + operator + value starting at i, where keyMatch is the
// key run already matched. Returns ok=false when no comparison operator
// follows the key.
func scanTerm(text string, i int, keyMatch string) (Token, int, bool) {
	j := i + len(keyMatch)
	opMatch := opRe.FindString(text[j:])
	if opMatch == "" {
		return Token{}, 0, false
	}

	k := j + len(opMatch)
	var value string
	end := k
	if k < len(text) && (text[k] == '"' || text[k] == '\'') {
		value, end = scanQuoted(text, k)
	} else {
		value = valueRe.FindString(text[k:])
		end = k + len(value)
	}

	key := keyMatch
	negated := false
	if strings.HasPrefix(key, "-") {
		negated = true
		key = key[1:]
	}

	return Token{
		Kind:     TermToken,
		Key:      key,
		Operator: opMatch,
		Value:    value,
		Negated:  negated,
		Start:    i,
		End:      end,
		Raw:      text[i:end],
	}, end, true
}

// scanQuoted reads a balanced quoted string with escapes, tolerating an
// unterminated quote at end of input. Returns the unquoted value and the
// index just past the consumed span.
func scanQuoted(text string, start int) (string, int) {
	quote := text[start]
	var sb strings.Builder
	i := start + 1
	for i < len(text) {
		ch := text[i]
		if ch == '\\' && i+1 < len(text) {
			sb.WriteByte(text[i+1])
			i += 2
			continue
		}
		if ch == quote {
			return sb.String(), i + 1
		}
		sb.WriteByte(ch)
		i++
	}
	return sb.String(), len(text)
}
