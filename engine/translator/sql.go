// Package translator converts the normalized AST into target-query
// fragments: parameterized SQL for the relational dialects, a bson condition
// tree for MongoDB and a RediSearch filter string for Redis.
package translator

import (
	"fmt"
	"strings"

	"github.com/filterql-engine/filterql/engine/ast"
	"github.com/filterql-engine/filterql/mapping"
)

// Fragment is a translated SQL condition with its bound parameters
type Fragment struct {
	Text   string
	Params []any
}

// Options selects the SQL dialect and value binding mode
type Options struct {
	// Dialect is one of mapping.SupportedDialects' relational entries.
	// Empty defaults to PostgreSQL.
	Dialect string

	// InlineValues renders values into the fragment text instead of binding
	// them as parameters. String literals are escaped by quote doubling, but
	// parameter binding remains the security-preferred mode: enable inlining
	// only for targets that cannot take bound parameters.
	InlineValues bool
}

func (o Options) dialect() string {
	if o.Dialect == "" {
		return "PostgreSQL"
	}
	return o.Dialect
}

// Translate converts an Expression to a SQL fragment. The parameter list is
// a local accumulator threaded through the recursion and returned with the
// fragment, so concurrent Translate calls never share state.
func Translate(expr ast.Expression, opts Options) (Fragment, error) {
	dialect := opts.dialect()
	if _, ok := mapping.OperatorMap[dialect]; !ok {
		return Fragment{}, translationError("unsupported dialect '%s'", dialect)
	}

	text, params, err := translateNode(expr, opts, nil)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Text: text, Params: params}, nil
}

// CanTranslate is Translate with the error converted to a boolean
func CanTranslate(expr ast.Expression, opts Options) bool {
	_, err := Translate(expr, opts)
	return err == nil
}

func translateNode(expr ast.Expression, opts Options, params []any) (string, []any, error) {
	switch node := expr.(type) {
	case *ast.Comparison:
		return translateComparison(node, opts, params)

	case *ast.Logical:
		return translateLogical(node, opts, params)

	case *ast.Raw:
		result, err := node.Build(opts)
		if err != nil {
			return "", nil, translationError("raw expression failed: %v", err)
		}
		text, ok := result.(string)
		if !ok {
			return "", nil, translationError("raw expression produced %T, want string for SQL targets", result)
		}
		return text, params, nil

	default:
		return "", nil, translationError("unknown expression type %T", expr)
	}
}

func translateLogical(node *ast.Logical, opts Options, params []any) (string, []any, error) {
	left, params, err := translateNode(node.Left, opts, params)
	if err != nil {
		return "", nil, err
	}

	if node.Operator == "NOT" {
		return "NOT (" + left + ")", params, nil
	}

	if node.Right == nil {
		return "", nil, translationError("%s is missing its right operand", node.Operator)
	}
	right, params, err := translateNode(node.Right, opts, params)
	if err != nil {
		return "", nil, err
	}

	switch node.Operator {
	case "AND", "OR":
		return "(" + left + ") " + node.Operator + " (" + right + ")", params, nil
	default:
		return "", nil, translationError("unknown logical operator '%s'", node.Operator)
	}
}

func translateComparison(cmp *ast.Comparison, opts Options, params []any) (string, []any, error) {
	// Defense in depth: re-validate the identifier here regardless of what
	// the security validator did upstream.
	if !mapping.IsValidIdentifier(cmp.Field) {
		return "", nil, translationError("invalid field identifier '%s'", cmp.Field)
	}
	if err := ast.CheckScalar(cmp.Value); err != nil {
		return "", nil, translationError("%v", err)
	}

	dialect := opts.dialect()
	field := quoteIdentifier(cmp.Field, dialect)

	operator, ok := mapping.DialectOperator(dialect, cmp.Operator)
	if !ok {
		return "", nil, translationError("operator '%s' has no %s form", cmp.Operator, dialect)
	}

	switch strings.ToUpper(cmp.Operator) {
	case "IN", "NOT IN":
		return translateInList(cmp, field, operator, opts, params)

	case "==", "!=":
		if cmp.Value == nil {
			if cmp.Operator == "==" {
				return field + " IS NULL", params, nil
			}
			return field + " IS NOT NULL", params, nil
		}

	case "LIKE":
		pattern, isString := cmp.Value.(string)
		if !isString {
			return "", nil, translationError("LIKE on '%s' needs a string pattern", cmp.Field)
		}
		converted := toSQLPattern(pattern)
		placeholder, params := bind(converted, opts, params)
		return field + " " + operator + " " + placeholder, params, nil
	}

	if cmp.Value == nil {
		return "", nil, translationError("operator '%s' cannot compare against null", cmp.Operator)
	}
	if _, isArray := cmp.Value.([]any); isArray {
		return "", nil, translationError("operator '%s' cannot take an array value", cmp.Operator)
	}

	placeholder, params := bind(cmp.Value, opts, params)
	return field + " " + operator + " " + placeholder, params, nil
}

// translateInList renders IN/NOT IN. An empty list short-circuits to the
// constant FALSE/TRUE: an empty set predicate is invalid SQL and an empty
// inlined list would be an injection-shaped surprise.
func translateInList(cmp *ast.Comparison, field, operator string, opts Options, params []any) (string, []any, error) {
	values, ok := cmp.Value.([]any)
	if !ok {
		values = []any{cmp.Value}
	}

	if len(values) == 0 {
		if strings.ToUpper(cmp.Operator) == "IN" {
			return "FALSE", params, nil
		}
		return "TRUE", params, nil
	}

	placeholders := make([]string, 0, len(values))
	for _, v := range values {
		var placeholder string
		placeholder, params = bind(v, opts, params)
		placeholders = append(placeholders, placeholder)
	}

	return field + " " + operator + " (" + strings.Join(placeholders, ", ") + ")", params, nil
}

// bind appends a value to the accumulator and returns its placeholder, or
// renders it inline when the caller opted in.
func bind(value any, opts Options, params []any) (string, []any) {
	if opts.InlineValues {
		return inlineValue(value), params
	}

	params = append(params, value)
	if opts.dialect() == "PostgreSQL" {
		return fmt.Sprintf("$%d", len(params)), params
	}
	return "?", params
}

// inlineValue renders a scalar as a SQL literal with quote doubling
func inlineValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(v)
	}
}

// toSQLPattern converts the query wildcard syntax to SQL LIKE syntax:
// literal % and _ are escaped first, then * and ? become % and _.
func toSQLPattern(pattern string) string {
	replaced := strings.NewReplacer(
		`\`, `\\`,
		"%", `\%`,
		"_", `\_`,
	).Replace(pattern)
	return strings.NewReplacer("*", "%", "?", "_").Replace(replaced)
}

// quoteIdentifier quotes a field name per dialect; dotted table.column names
// are quoted per segment.
func quoteIdentifier(field, dialect string) string {
	segments := strings.Split(field, ".")
	quoted := make([]string, 0, len(segments))
	for _, seg := range segments {
		if dialect == "MySQL" {
			quoted = append(quoted, "`"+seg+"`")
		} else {
			quoted = append(quoted, `"`+seg+`"`)
		}
	}
	return strings.Join(quoted, ".")
}
