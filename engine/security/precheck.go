package security

import "fmt"

// warnFraction is where informational warnings start relative to a limit
const warnFraction = 0.8

// Structure is the lightweight shape the incremental analyzer extracts from
// partially-typed text. It carries enough for the rule families that do not
// need a successful AST.
type Structure struct {
	Fields        []string
	Depth         int
	ClauseCount   int
	OperatorCount int
	Complexity    string // simple, moderate, complex
}

// Issue is one pre-check finding. Unlike SecurityError this carries detail:
// the pre-check is advisory and must never be wired to user-facing text
// without a trust boundary.
type Issue struct {
	Code    string
	Field   string
	Message string
}

// Report aggregates pre-check findings. Violations block submission (if the
// caller chooses to enforce them); warnings are informational.
type Report struct {
	Violations []Issue
	Warnings   []Issue
}

// Ok reports whether the structure passed without violations
func (r Report) Ok() bool {
	return len(r.Violations) == 0
}

// Precheck applies the shared rule set to a structure extracted from
// partially-typed text. Pure function of its inputs: running it twice on the
// same structure and options yields the same report.
func Precheck(s Structure, opts *Options) Report {
	o := opts.withDefaults()
	var report Report

	for _, field := range s.Fields {
		if reason := checkField(field, o); reason != "" {
			report.Violations = append(report.Violations, Issue{
				Code:    "field_blocked",
				Field:   field,
				Message: reason,
			})
		}
	}

	report.checkLimit("query_depth", s.Depth, o.MaxQueryDepth)
	report.checkLimit("clause_count", s.ClauseCount, o.MaxClauseCount)

	if s.Complexity == "complex" {
		report.Warnings = append(report.Warnings, Issue{
			Code:    "complex_query",
			Message: "query is classified as complex and may be slow",
		})
	}

	return report
}

// checkLimit records a violation over the limit and a warning at 80% of it
func (r *Report) checkLimit(code string, value, limit int) {
	if limit <= 0 {
		return
	}
	if value > limit {
		r.Violations = append(r.Violations, Issue{
			Code:    code,
			Message: fmt.Sprintf("%s %d exceeds limit %d", code, value, limit),
		})
		return
	}
	if float64(value) >= warnFraction*float64(limit) {
		r.Warnings = append(r.Warnings, Issue{
			Code:    code,
			Message: fmt.Sprintf("%s %d is at %d%% of limit %d", code, value, value*100/limit, limit),
		})
	}
}
