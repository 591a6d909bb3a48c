package parser

import "fmt"

// ParseError reports malformed query text or an unsupported construct.
// Position is a byte offset into the original input when known, -1 otherwise.
type ParseError struct {
	Message  string
	Position int
}

func (e *ParseError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("parse error at position %d: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a parse error without position info
func NewParseError(format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Position: -1}
}
