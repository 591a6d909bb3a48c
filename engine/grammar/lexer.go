package grammar

import (
	"fmt"
	"regexp"
	"strings"
)

// Tokenizer converts query text to tokens
type Tokenizer struct {
	input  string
	pos    int
	line   int
	column int
	tokens []Token
}

var numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Tokenize converts a filter string to tokens
func Tokenize(input string) ([]Token, error) {
	t := &Tokenizer{
		input:  input,
		pos:    0,
		line:   1,
		column: 1,
	}
	return t.tokenize()
}

func (t *Tokenizer) tokenize() ([]Token, error) {
	for t.pos < len(t.input) {
		if t.skipWhitespace() {
			continue
		}

		ch := t.input[t.pos]

		// Single character tokens
		switch ch {
		case '(':
			t.addToken(TOKEN_LPAREN, "(")
			t.advance()
			continue
		case ')':
			t.addToken(TOKEN_RPAREN, ")")
			t.advance()
			continue
		case '[':
			t.addToken(TOKEN_LBRACKET, "[")
			t.advance()
			continue
		case ']':
			t.addToken(TOKEN_RBRACKET, "]")
			t.advance()
			continue
		case '{':
			t.addToken(TOKEN_LBRACE, "{")
			t.advance()
			continue
		case '}':
			t.addToken(TOKEN_RBRACE, "}")
			t.advance()
			continue
		case ':':
			t.addToken(TOKEN_COLON, ":")
			t.advance()
			continue
		case '=':
			if t.peek(1) == '=' {
				t.addToken(TOKEN_EQUAL, "==")
				t.advance()
			} else {
				t.addToken(TOKEN_EQUAL, "=")
			}
			t.advance()
			continue
		case '!':
			if t.peek(1) != '=' {
				return nil, t.errorAtPos(fmt.Sprintf("unexpected character '%c'", ch))
			}
			t.addToken(TOKEN_NOT_EQUAL, "!=")
			t.advance()
			t.advance()
			continue
		case '>':
			if t.peek(1) == '=' {
				t.addToken(TOKEN_GREATER_EQUAL, ">=")
				t.advance()
			} else {
				t.addToken(TOKEN_GREATER, ">")
			}
			t.advance()
			continue
		case '<':
			if t.peek(1) == '=' {
				t.addToken(TOKEN_LESS_EQUAL, "<=")
				t.advance()
			} else {
				t.addToken(TOKEN_LESS, "<")
			}
			t.advance()
			continue
		case '\'', '"':
			token, err := t.scanString(ch)
			if err != nil {
				return nil, err
			}
			t.tokens = append(t.tokens, token)
			continue
		case '-':
			// Negative number literal vs prefix negation
			if isDigit(t.peek(1)) {
				t.tokens = append(t.tokens, t.scanWord())
				continue
			}
			t.addToken(TOKEN_MINUS, "-")
			t.advance()
			continue
		}

		if isWordChar(ch) {
			t.tokens = append(t.tokens, t.scanWord())
			continue
		}

		return nil, t.errorAtPos(fmt.Sprintf("unexpected character '%c'", ch))
	}

	return t.tokens, nil
}

// skipWhitespace advances past whitespace, returns true if any was skipped
func (t *Tokenizer) skipWhitespace() bool {
	skipped := false
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			t.advance()
			skipped = true
			continue
		}
		if ch == '\n' {
			t.pos++
			t.line++
			t.column = 1
			skipped = true
			continue
		}
		break
	}
	return skipped
}

// scanString reads a quoted value, handling backslash escapes
func (t *Tokenizer) scanString(quote byte) (Token, error) {
	start := t.pos
	startLine := t.line
	startColumn := t.column
	t.advance() // opening quote

	var sb strings.Builder
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == '\\' && t.pos+1 < len(t.input) {
			next := t.input[t.pos+1]
			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(next)
			}
			t.advance()
			t.advance()
			continue
		}
		if ch == quote {
			t.advance() // closing quote
			return Token{
				Type:     TOKEN_STRING,
				Value:    sb.String(),
				Quoted:   true,
				Position: start,
				Line:     startLine,
				Column:   startColumn,
			}, nil
		}
		sb.WriteByte(ch)
		t.advance()
	}

	return Token{}, &SyntaxError{
		Message:  fmt.Sprintf("unterminated string starting with %c", quote),
		Position: start,
		Line:     startLine,
		Column:   startColumn,
	}
}

// scanWord reads a run of word characters and classifies it as a number or a
// plain word. Wildcards (* and ?) and interior dashes/dots stay in the run so
// values like high-priority or file.* survive as one token.
func (t *Tokenizer) scanWord() Token {
	start := t.pos
	startLine := t.line
	startColumn := t.column

	if t.input[t.pos] == '-' {
		t.advance()
	}
	for t.pos < len(t.input) && isWordChar(t.input[t.pos]) {
		t.advance()
	}

	value := t.input[start:t.pos]
	tokenType := TOKEN_WORD
	if numberPattern.MatchString(value) {
		tokenType = TOKEN_NUMBER
	}

	return Token{
		Type:     tokenType,
		Value:    value,
		Position: start,
		Line:     startLine,
		Column:   startColumn,
	}
}

func (t *Tokenizer) addToken(tokenType TokenType, value string) {
	t.tokens = append(t.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: t.pos,
		Line:     t.line,
		Column:   t.column,
	})
}

func (t *Tokenizer) advance() {
	t.pos++
	t.column++
}

func (t *Tokenizer) peek(offset int) byte {
	if t.pos+offset >= len(t.input) {
		return 0
	}
	return t.input[t.pos+offset]
}

func (t *Tokenizer) errorAtPos(message string) *SyntaxError {
	return &SyntaxError{
		Message:  message,
		Position: t.pos,
		Line:     t.line,
		Column:   t.column,
	}
}

func isWordChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' ||
		ch >= 'A' && ch <= 'Z' ||
		ch >= '0' && ch <= '9' ||
		ch == '_' || ch == '.' || ch == '-' || ch == '*' || ch == '?' || ch == '@' || ch == '/'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
