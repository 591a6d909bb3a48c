package translator

import (
	"fmt"
	"strings"

	"github.com/filterql-engine/filterql/engine/ast"
	"github.com/filterql-engine/filterql/mapping"
)

// TranslateRedis converts an Expression to a RediSearch filter string.
// Strings become tag filters (@f:{v}), numbers become numeric ranges, AND is
// a space, OR is a pipe and NOT is a leading dash. A same-field pair of
// bound comparisons under one AND collapses into a single numeric range.
func TranslateRedis(expr ast.Expression) (string, error) {
	var sb strings.Builder
	if err := redisCompile(expr, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// CanTranslateRedis is TranslateRedis with the error converted to a boolean
func CanTranslateRedis(expr ast.Expression) bool {
	_, err := TranslateRedis(expr)
	return err == nil
}

func redisCompile(expr ast.Expression, sb *strings.Builder) error {
	switch node := expr.(type) {
	case *ast.Comparison:
		return redisComparison(node, sb)

	case *ast.Logical:
		return redisLogical(node, sb)

	case *ast.Raw:
		result, err := node.Build("Redis")
		if err != nil {
			return translationError("raw expression failed: %v", err)
		}
		text, ok := result.(string)
		if !ok {
			return translationError("raw expression produced %T, want string for Redis", result)
		}
		sb.WriteString(text)
		return nil

	default:
		return translationError("unknown expression type %T", expr)
	}
}

func redisLogical(node *ast.Logical, sb *strings.Builder) error {
	if node.Operator == "NOT" {
		sb.WriteString("-(")
		if err := redisCompile(node.Left, sb); err != nil {
			return err
		}
		sb.WriteByte(')')
		return nil
	}

	if node.Right == nil {
		return translationError("%s is missing its right operand", node.Operator)
	}

	// Collapse "f >= lo AND f <= hi" into @f:[lo hi]
	if node.Operator == "AND" {
		if rangeFilter, ok := mergeRange(node); ok {
			sb.WriteString(rangeFilter)
			return nil
		}
	}

	sep := " "
	if node.Operator == "OR" {
		sep = "|"
	}

	sb.WriteByte('(')
	if err := redisCompile(node.Left, sb); err != nil {
		return err
	}
	sb.WriteString(sep)
	if err := redisCompile(node.Right, sb); err != nil {
		return err
	}
	sb.WriteByte(')')
	return nil
}

// mergeRange detects the AND-of-two-bounds shape the range syntax produces
func mergeRange(node *ast.Logical) (string, bool) {
	left, leftOk := node.Left.(*ast.Comparison)
	right, rightOk := node.Right.(*ast.Comparison)
	if !leftOk || !rightOk || left.Field != right.Field {
		return "", false
	}
	if !mapping.IsValidIdentifier(left.Field) {
		return "", false
	}
	if !isLowerBound(left.Operator) || !isUpperBound(right.Operator) {
		return "", false
	}
	if !isNumeric(left.Value) || !isNumeric(right.Value) {
		return "", false
	}

	lo := fmt.Sprint(left.Value)
	if left.Operator == ">" {
		lo = "(" + lo
	}
	hi := fmt.Sprint(right.Value)
	if right.Operator == "<" {
		hi = "(" + hi
	}
	return fmt.Sprintf("@%s:[%s %s]", left.Field, lo, hi), true
}

func redisComparison(cmp *ast.Comparison, sb *strings.Builder) error {
	if !mapping.IsValidIdentifier(cmp.Field) {
		return translationError("invalid field identifier '%s'", cmp.Field)
	}
	if err := ast.CheckScalar(cmp.Value); err != nil {
		return translationError("%v", err)
	}

	switch strings.ToUpper(cmp.Operator) {
	case "==":
		return redisEquality(cmp, sb, false)

	case "!=":
		return redisEquality(cmp, sb, true)

	case ">", ">=", "<", "<=":
		if !isNumeric(cmp.Value) {
			return translationError("operator '%s' on '%s' needs a numeric value", cmp.Operator, cmp.Field)
		}
		value := fmt.Sprint(cmp.Value)
		switch cmp.Operator {
		case ">":
			fmt.Fprintf(sb, "@%s:[(%s +inf]", cmp.Field, value)
		case ">=":
			fmt.Fprintf(sb, "@%s:[%s +inf]", cmp.Field, value)
		case "<":
			fmt.Fprintf(sb, "@%s:[-inf (%s]", cmp.Field, value)
		case "<=":
			fmt.Fprintf(sb, "@%s:[-inf %s]", cmp.Field, value)
		}
		return nil

	case "IN", "NOT IN":
		values, isArray := cmp.Value.([]any)
		if !isArray {
			values = []any{cmp.Value}
		}
		if len(values) == 0 {
			return translationError("RediSearch cannot express an empty %s list on '%s'", cmp.Operator, cmp.Field)
		}
		if strings.ToUpper(cmp.Operator) == "NOT IN" {
			sb.WriteByte('-')
		}
		fmt.Fprintf(sb, "@%s:{", cmp.Field)
		for i, v := range values {
			if i > 0 {
				sb.WriteByte('|')
			}
			sb.WriteString(redisTagValue(v))
		}
		sb.WriteByte('}')
		return nil

	case "LIKE":
		pattern, isString := cmp.Value.(string)
		if !isString {
			return translationError("LIKE on '%s' needs a string pattern", cmp.Field)
		}
		// RediSearch has no single-character wildcard; ? degrades to *
		converted := strings.ReplaceAll(pattern, "?", "*")
		fmt.Fprintf(sb, "@%s:{%s}", cmp.Field, converted)
		return nil

	default:
		return translationError("operator '%s' has no Redis form", cmp.Operator)
	}
}

func redisEquality(cmp *ast.Comparison, sb *strings.Builder, negate bool) error {
	if cmp.Value == nil {
		return translationError("RediSearch cannot match null on '%s'", cmp.Field)
	}
	if negate {
		sb.WriteByte('-')
	}
	if isNumeric(cmp.Value) {
		value := fmt.Sprint(cmp.Value)
		fmt.Fprintf(sb, "@%s:[%s %s]", cmp.Field, value, value)
		return nil
	}
	fmt.Fprintf(sb, "@%s:{%s}", cmp.Field, redisTagValue(cmp.Value))
	return nil
}

// redisTagValue escapes the tag-syntax separators RediSearch treats specially
func redisTagValue(v any) string {
	s := fmt.Sprint(v)
	return strings.NewReplacer(
		"{", `\{`,
		"}", `\}`,
		"|", `\|`,
		" ", `\ `,
	).Replace(s)
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

func isLowerBound(op string) bool { return op == ">" || op == ">=" }
func isUpperBound(op string) bool { return op == "<" || op == "<=" }
