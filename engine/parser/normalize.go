package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/filterql-engine/filterql/engine/ast"
	"github.com/filterql-engine/filterql/engine/grammar"
	"github.com/filterql-engine/filterql/mapping"
)

// convert recursively turns the grammar parse tree into the normalized AST.
// The switch is exhaustive over the closed node union; any other kind fails
// loudly so a grammar extension cannot slip through unnoticed.
func (c *config) convert(node grammar.Node) (ast.Expression, error) {
	switch n := node.(type) {
	case *grammar.Tag:
		return c.convertTag(n)

	case *grammar.LogicalExpression:
		left, err := c.convert(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.convert(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Logical{Operator: strings.ToUpper(n.Operator), Left: left, Right: right}, nil

	case *grammar.UnaryOperator:
		operand, err := c.convert(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.Logical{Operator: "NOT", Left: operand}, nil

	case *grammar.ParenthesizedExpression:
		return c.convert(n.Expression)

	case *grammar.RangeExpression:
		return c.convertRange(n)

	case *grammar.EmptyExpression:
		return nil, &ParseError{Message: "empty expression", Position: n.Pos()}

	default:
		return nil, NewParseError("unsupported parse tree node %T", node)
	}
}

func (c *config) convertTag(tag *grammar.Tag) (ast.Expression, error) {
	if tag.Field == "" {
		return nil, &ParseError{
			Message:  fmt.Sprintf("value '%s' has no field", tag.Value.Raw),
			Position: tag.Pos(),
		}
	}

	operator, ok := canonicalTagOperator(tag.Operator)
	if !ok {
		return nil, &ParseError{
			Message:  fmt.Sprintf("unknown operator '%s' on field '%s'", tag.Operator, tag.Field),
			Position: tag.Pos(),
		}
	}

	value := coerceLiteral(tag.Value)
	if err := ast.CheckScalar(value); err != nil {
		return nil, &ParseError{Message: err.Error(), Position: tag.Value.Position}
	}

	// Unquoted equality values carrying * or ? are wildcard patterns
	if operator == "==" && !tag.Value.Quoted {
		if s, isString := value.(string); isString && strings.ContainsAny(s, "*?") {
			operator = "LIKE"
		}
	}

	return &ast.Comparison{
		Field:    c.normalizeField(tag.Field),
		Operator: operator,
		Value:    value,
	}, nil
}

func (c *config) convertRange(r *grammar.RangeExpression) (ast.Expression, error) {
	field := c.normalizeField(r.Field)

	minOp := ">"
	if r.IncludeMin {
		minOp = ">="
	}
	maxOp := "<"
	if r.IncludeMax {
		maxOp = "<="
	}

	minValue := coerceLiteral(r.Min)
	maxValue := coerceLiteral(r.Max)

	return &ast.Logical{
		Operator: "AND",
		Left:     &ast.Comparison{Field: field, Operator: minOp, Value: minValue},
		Right:    &ast.Comparison{Field: field, Operator: maxOp, Value: maxValue},
	}, nil
}

// canonicalTagOperator maps the grammar operator spellings (":", ":>", ...)
// and programmatic spellings ("in", "not in", "like") onto the Comparison
// operator set.
func canonicalTagOperator(spelling string) (string, bool) {
	trimmed := strings.TrimPrefix(spelling, ":")
	if trimmed == "" {
		trimmed = ":"
	}
	return mapping.CanonicalOperator(trimmed)
}

// coerceLiteral converts raw query text into a typed Scalar. Quoted values
// always stay strings; unquoted ones are tried as integer, decimal, boolean
// and null literals before falling back to string. The incremental analyzer
// deliberately does NOT do this - it keeps raw strings for display.
func coerceLiteral(lit grammar.Literal) any {
	if lit.Quoted {
		return lit.Raw
	}

	raw := lit.Raw
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	return raw
}
