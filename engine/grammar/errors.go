package grammar

import "fmt"

// SyntaxError reports a lexing or parsing failure with position info
type SyntaxError struct {
	Message  string
	Position int
	Line     int
	Column   int
	Token    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// NewSyntaxError creates a syntax error anchored at a token
func NewSyntaxError(token Token, message string) *SyntaxError {
	return &SyntaxError{
		Message:  message,
		Position: token.Position,
		Line:     token.Line,
		Column:   token.Column,
		Token:    token.Value,
	}
}
