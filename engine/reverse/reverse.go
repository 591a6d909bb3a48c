// Package reverse converts SQL WHERE clauses back into the Expression AST,
// so filters stored as SQL can re-enter the toolkit and be re-targeted at
// any supported dialect.
package reverse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/filterql-engine/filterql/engine/ast"
)

var (
	ErrNotSupported = errors.New("construct not supported in a filter expression")
	ErrParseError   = errors.New("failed to parse SQL")
	ErrEmptyQuery   = errors.New("empty WHERE clause")
)

// SQLToExpression parses a WHERE clause (without the WHERE keyword) and
// converts it to an Expression.
func SQLToExpression(whereSQL string) (ast.Expression, error) {
	if strings.TrimSpace(whereSQL) == "" {
		return nil, ErrEmptyQuery
	}

	stmt, err := sqlparser.Parse("SELECT * FROM _filterql WHERE " + whereSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseError, err)
	}

	selectStmt, ok := stmt.(*sqlparser.Select)
	if !ok || selectStmt.Where == nil {
		return nil, fmt.Errorf("%w: no condition found", ErrParseError)
	}

	return convertExpr(selectStmt.Where.Expr)
}

func convertExpr(expr sqlparser.Expr) (ast.Expression, error) {
	switch node := expr.(type) {
	case *sqlparser.ComparisonExpr:
		return convertComparison(node)

	case *sqlparser.AndExpr:
		return convertLogical("AND", node.Left, node.Right)

	case *sqlparser.OrExpr:
		return convertLogical("OR", node.Left, node.Right)

	case *sqlparser.NotExpr:
		operand, err := convertExpr(node.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.Logical{Operator: "NOT", Left: operand}, nil

	case *sqlparser.ParenExpr:
		return convertExpr(node.Expr)

	case *sqlparser.IsExpr:
		return convertIs(node)

	case *sqlparser.RangeCond:
		return convertRange(node)

	default:
		return nil, fmt.Errorf("%w: %T", ErrNotSupported, expr)
	}
}

func convertLogical(operator string, left, right sqlparser.Expr) (ast.Expression, error) {
	leftExpr, err := convertExpr(left)
	if err != nil {
		return nil, err
	}
	rightExpr, err := convertExpr(right)
	if err != nil {
		return nil, err
	}
	return &ast.Logical{Operator: operator, Left: leftExpr, Right: rightExpr}, nil
}

var comparisonOperators = map[string]string{
	sqlparser.EqualStr:        "==",
	sqlparser.NotEqualStr:     "!=",
	sqlparser.GreaterThanStr:  ">",
	sqlparser.GreaterEqualStr: ">=",
	sqlparser.LessThanStr:     "<",
	sqlparser.LessEqualStr:    "<=",
	sqlparser.InStr:           "IN",
	sqlparser.NotInStr:        "NOT IN",
	sqlparser.LikeStr:         "LIKE",
}

func convertComparison(node *sqlparser.ComparisonExpr) (ast.Expression, error) {
	field, err := convertColumn(node.Left)
	if err != nil {
		return nil, err
	}

	operator, ok := comparisonOperators[node.Operator]
	if !ok {
		return nil, fmt.Errorf("%w: operator '%s'", ErrNotSupported, node.Operator)
	}

	switch operator {
	case "IN", "NOT IN":
		tuple, isTuple := node.Right.(sqlparser.ValTuple)
		if !isTuple {
			return nil, fmt.Errorf("%w: %s needs a value list", ErrNotSupported, operator)
		}
		values := make([]any, 0, len(tuple))
		for _, elem := range tuple {
			v, err := convertValue(elem)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return &ast.Comparison{Field: field, Operator: operator, Value: values}, nil

	case "LIKE":
		v, err := convertValue(node.Right)
		if err != nil {
			return nil, err
		}
		pattern, isString := v.(string)
		if !isString {
			return nil, fmt.Errorf("%w: LIKE needs a string pattern", ErrNotSupported)
		}
		return &ast.Comparison{Field: field, Operator: "LIKE", Value: fromSQLPattern(pattern)}, nil
	}

	value, err := convertValue(node.Right)
	if err != nil {
		return nil, err
	}
	return &ast.Comparison{Field: field, Operator: operator, Value: value}, nil
}

func convertIs(node *sqlparser.IsExpr) (ast.Expression, error) {
	field, err := convertColumn(node.Expr)
	if err != nil {
		return nil, err
	}
	switch node.Operator {
	case sqlparser.IsNullStr:
		return &ast.Comparison{Field: field, Operator: "==", Value: nil}, nil
	case sqlparser.IsNotNullStr:
		return &ast.Comparison{Field: field, Operator: "!=", Value: nil}, nil
	default:
		return nil, fmt.Errorf("%w: IS %s", ErrNotSupported, node.Operator)
	}
}

// convertRange turns BETWEEN into the same AND-of-bounds shape the range
// grammar produces.
func convertRange(node *sqlparser.RangeCond) (ast.Expression, error) {
	field, err := convertColumn(node.Left)
	if err != nil {
		return nil, err
	}
	from, err := convertValue(node.From)
	if err != nil {
		return nil, err
	}
	to, err := convertValue(node.To)
	if err != nil {
		return nil, err
	}

	between := &ast.Logical{
		Operator: "AND",
		Left:     &ast.Comparison{Field: field, Operator: ">=", Value: from},
		Right:    &ast.Comparison{Field: field, Operator: "<=", Value: to},
	}
	if node.Operator == sqlparser.NotBetweenStr {
		return &ast.Logical{Operator: "NOT", Left: between}, nil
	}
	return between, nil
}

func convertColumn(expr sqlparser.Expr) (string, error) {
	col, ok := expr.(*sqlparser.ColName)
	if !ok {
		return "", fmt.Errorf("%w: left side must be a column, got %T", ErrNotSupported, expr)
	}
	name := col.Name.String()
	if !col.Qualifier.Name.IsEmpty() {
		name = col.Qualifier.Name.String() + "." + name
	}
	return name, nil
}

func convertValue(expr sqlparser.Expr) (any, error) {
	switch node := expr.(type) {
	case *sqlparser.SQLVal:
		switch node.Type {
		case sqlparser.IntVal:
			return strconv.ParseInt(string(node.Val), 10, 64)
		case sqlparser.FloatVal:
			return strconv.ParseFloat(string(node.Val), 64)
		case sqlparser.StrVal:
			return string(node.Val), nil
		default:
			return nil, fmt.Errorf("%w: value type %d", ErrNotSupported, node.Type)
		}
	case sqlparser.BoolVal:
		return bool(node), nil
	case *sqlparser.NullVal:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: value %T", ErrNotSupported, expr)
	}
}

// fromSQLPattern converts SQL LIKE wildcards back to the query syntax
func fromSQLPattern(pattern string) string {
	return strings.NewReplacer("%", "*", "_", "?").Replace(pattern)
}
