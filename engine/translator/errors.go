package translator

import "fmt"

// TranslationError reports an expression shape the target cannot express:
// unsupported operator, missing operand, invalid identifier, or a Raw
// producer failure.
type TranslationError struct {
	Message string
}

func (e *TranslationError) Error() string {
	return "translation error: " + e.Message
}

func translationError(format string, args ...any) *TranslationError {
	return &TranslationError{Message: fmt.Sprintf(format, args...)}
}
