package security

// SecurityError is raised by the execution validator. Its message is fixed:
// leaking which field or value tripped a rule would let a caller enumerate
// the allow/deny lists by inspecting error text. The detail needed for
// debugging is available through the non-throwing Precheck path instead.
type SecurityError struct {
	reason string
}

func (e *SecurityError) Error() string {
	return "Invalid query parameters"
}

func violation(reason string) *SecurityError {
	return &SecurityError{reason: reason}
}
