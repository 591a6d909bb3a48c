package resolver

import "fmt"

// ResolutionError reports a virtual-field violation. It originates from
// user-supplied query text, so callers surface it like a parse error.
type ResolutionError struct {
	Field   string
	Message string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve virtual field '%s': %s", e.Field, e.Message)
}

func resolutionError(field, format string, args ...any) *ResolutionError {
	return &ResolutionError{Field: field, Message: fmt.Sprintf(format, args...)}
}
