// Package security enforces the query security boundary: field allow/deny
// lists, value rules, complexity limits and wildcard-pattern guards. One rule
// set backs two entry points - the blocking ValidateExpression used before
// execution and the advisory Precheck used during incremental typing.
package security

import (
	"fmt"
	"strings"

	"github.com/filterql-engine/filterql/engine/ast"
)

// ValidateExpression walks the full AST and returns a *SecurityError on the
// first rule violation. The error message is always the same generic string;
// see errors.go for why.
func ValidateExpression(expr ast.Expression, opts *Options) error {
	o := opts.withDefaults()

	if depth := ast.Depth(expr); depth > o.MaxQueryDepth {
		return violation(fmt.Sprintf("depth %d over limit %d", depth, o.MaxQueryDepth))
	}
	if clauses := ast.CountComparisons(expr); clauses > o.MaxClauseCount {
		return violation(fmt.Sprintf("clause count %d over limit %d", clauses, o.MaxClauseCount))
	}

	return walk(expr, o)
}

func walk(expr ast.Expression, o *Options) error {
	switch node := expr.(type) {
	case *ast.Comparison:
		return checkComparison(node, o)
	case *ast.Logical:
		if err := walk(node.Left, o); err != nil {
			return err
		}
		if node.Right != nil {
			return walk(node.Right, o)
		}
		return nil
	case *ast.Raw:
		// Raw nodes are developer-built, not user text; nothing to inspect
		return nil
	default:
		return violation(fmt.Sprintf("unknown expression type %T", expr))
	}
}

func checkComparison(cmp *ast.Comparison, o *Options) error {
	if reason := checkField(cmp.Field, o); reason != "" {
		return violation(reason)
	}

	if err := ast.CheckScalar(cmp.Value); err != nil {
		return violation(err.Error())
	}

	switch value := cmp.Value.(type) {
	case []any:
		if o.MaxArraySize > 0 && len(value) > o.MaxArraySize {
			return violation(fmt.Sprintf("array on '%s' over size limit", cmp.Field))
		}
		for _, elem := range value {
			if err := checkValue(cmp.Field, elem, o); err != nil {
				return err
			}
		}
	default:
		if err := checkValue(cmp.Field, value, o); err != nil {
			return err
		}
	}

	if cmp.Operator == "LIKE" {
		if s, ok := cmp.Value.(string); ok {
			if reason := checkWildcardPattern(s, o); reason != "" {
				return violation(reason)
			}
		}
	}

	return nil
}

// checkField applies the deny list, the allow list and the dot-notation rule.
// Returns an internal reason string, empty when the field passes.
func checkField(field string, o *Options) string {
	for _, denied := range o.DeniedFields {
		if strings.EqualFold(field, denied) {
			return fmt.Sprintf("field '%s' is denied", field)
		}
	}

	if len(o.AllowedFields) > 0 {
		allowed := false
		for _, a := range o.AllowedFields {
			if strings.EqualFold(field, a) {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Sprintf("field '%s' is not in the allow list", field)
		}
	}

	if o.DisableDotNotation && strings.Contains(field, ".") {
		return fmt.Sprintf("dot notation is disabled: '%s'", field)
	}

	return ""
}

func checkValue(field string, value any, o *Options) error {
	if s, ok := value.(string); ok && o.MaxValueLength > 0 && len(s) > o.MaxValueLength {
		return violation(fmt.Sprintf("value on '%s' over length limit", field))
	}

	if denied, ok := o.DeniedValues[field]; ok {
		rendered := fmt.Sprint(value)
		for _, d := range denied {
			if rendered == d {
				return violation(fmt.Sprintf("value '%s' on '%s' is denied", rendered, field))
			}
		}
	}

	return nil
}

// checkWildcardPattern guards against catastrophic-backtracking LIKE
// patterns. Runs of repeated wildcards collapse to a single one first, then
// both the absolute count and the wildcard density are limited.
func checkWildcardPattern(pattern string, o *Options) string {
	collapsed := collapseWildcardRuns(pattern)

	count := strings.Count(collapsed, "*") + strings.Count(collapsed, "?")
	if count > o.MaxWildcards {
		return fmt.Sprintf("pattern has %d wildcards, limit %d", count, o.MaxWildcards)
	}
	if len(collapsed) > 0 {
		ratio := float64(count) / float64(len(collapsed))
		if ratio > o.MaxWildcardRatio {
			return fmt.Sprintf("pattern wildcard density %.2f over limit", ratio)
		}
	}
	return ""
}

func collapseWildcardRuns(pattern string) string {
	var sb strings.Builder
	var prev rune
	for _, ch := range pattern {
		if (ch == '*' || ch == '?') && ch == prev {
			continue
		}
		sb.WriteRune(ch)
		prev = ch
	}
	return sb.String()
}
