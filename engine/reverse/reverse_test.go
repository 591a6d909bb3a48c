package reverse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filterql-engine/filterql/engine/ast"
)

func comparison(t *testing.T, expr ast.Expression) *ast.Comparison {
	t.Helper()
	cmp, ok := expr.(*ast.Comparison)
	require.True(t, ok, "expected *ast.Comparison, got %T", expr)
	return cmp
}

func logical(t *testing.T, expr ast.Expression) *ast.Logical {
	t.Helper()
	l, ok := expr.(*ast.Logical)
	require.True(t, ok, "expected *ast.Logical, got %T", expr)
	return l
}

func TestComparisonRoundTrip(t *testing.T) {
	expr, err := SQLToExpression("priority > 2")
	require.NoError(t, err)

	cmp := comparison(t, expr)
	assert.Equal(t, "priority", cmp.Field)
	assert.Equal(t, ">", cmp.Operator)
	assert.Equal(t, int64(2), cmp.Value)
}

func TestOperatorMapping(t *testing.T) {
	tests := []struct {
		input    string
		operator string
	}{
		{"a = 1", "=="},
		{"a != 1", "!="},
		{"a <> 1", "!="},
		{"a > 1", ">"},
		{"a >= 1", ">="},
		{"a < 1", "<"},
		{"a <= 1", "<="},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := SQLToExpression(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.operator, comparison(t, expr).Operator)
		})
	}
}

func TestLogicalConnectives(t *testing.T) {
	expr, err := SQLToExpression("status = 'done' AND priority > 2")
	require.NoError(t, err)

	and := logical(t, expr)
	assert.Equal(t, "AND", and.Operator)
	assert.Equal(t, "status", comparison(t, and.Left).Field)
	assert.Equal(t, "done", comparison(t, and.Left).Value)
	assert.Equal(t, "priority", comparison(t, and.Right).Field)

	expr, err = SQLToExpression("NOT archived = true")
	require.NoError(t, err)

	not := logical(t, expr)
	assert.Equal(t, "NOT", not.Operator)
	assert.Nil(t, not.Right)
}

func TestParenthesesUnwrap(t *testing.T) {
	expr, err := SQLToExpression("(status = 'done' OR status = 'doing') AND priority > 1")
	require.NoError(t, err)

	and := logical(t, expr)
	or := logical(t, and.Left)
	assert.Equal(t, "OR", or.Operator)
}

func TestInList(t *testing.T) {
	expr, err := SQLToExpression("status IN ('todo', 'done')")
	require.NoError(t, err)

	cmp := comparison(t, expr)
	assert.Equal(t, "IN", cmp.Operator)
	assert.Equal(t, []any{"todo", "done"}, cmp.Value)

	expr, err = SQLToExpression("status NOT IN ('done')")
	require.NoError(t, err)
	assert.Equal(t, "NOT IN", comparison(t, expr).Operator)
}

func TestIsNull(t *testing.T) {
	expr, err := SQLToExpression("deleted_at IS NULL")
	require.NoError(t, err)

	cmp := comparison(t, expr)
	assert.Equal(t, "==", cmp.Operator)
	assert.Nil(t, cmp.Value)

	expr, err = SQLToExpression("deleted_at IS NOT NULL")
	require.NoError(t, err)
	assert.Equal(t, "!=", comparison(t, expr).Operator)
}

func TestBetween(t *testing.T) {
	expr, err := SQLToExpression("id BETWEEN 2 AND 5")
	require.NoError(t, err)

	and := logical(t, expr)
	assert.Equal(t, "AND", and.Operator)
	assert.Equal(t, ">=", comparison(t, and.Left).Operator)
	assert.Equal(t, int64(2), comparison(t, and.Left).Value)
	assert.Equal(t, "<=", comparison(t, and.Right).Operator)
	assert.Equal(t, int64(5), comparison(t, and.Right).Value)

	expr, err = SQLToExpression("id NOT BETWEEN 2 AND 5")
	require.NoError(t, err)
	assert.Equal(t, "NOT", logical(t, expr).Operator)
}

func TestLikePatternConversion(t *testing.T) {
	expr, err := SQLToExpression("name LIKE 'Jo%n_'")
	require.NoError(t, err)

	cmp := comparison(t, expr)
	assert.Equal(t, "LIKE", cmp.Operator)
	assert.Equal(t, "Jo*n?", cmp.Value)
}

func TestQualifiedColumn(t *testing.T) {
	expr, err := SQLToExpression("users.name = 'x'")
	require.NoError(t, err)
	assert.Equal(t, "users.name", comparison(t, expr).Field)
}

func TestValueTypes(t *testing.T) {
	tests := []struct {
		input string
		value any
	}{
		{"a = 42", int64(42)},
		{"a = 3.14", 3.14},
		{"a = 'text'", "text"},
		{"a = true", true},
		{"a = false", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := SQLToExpression(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.value, comparison(t, expr).Value)
		})
	}
}

func TestErrors(t *testing.T) {
	_, err := SQLToExpression("")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = SQLToExpression("status = = 'done'")
	assert.ErrorIs(t, err, ErrParseError)

	// Subqueries and other statement-level constructs are out of scope
	_, err = SQLToExpression("id IN (SELECT id FROM other)")
	assert.ErrorIs(t, err, ErrNotSupported)

	_, err = SQLToExpression("LENGTH(name) > 3")
	assert.ErrorIs(t, err, ErrNotSupported)
}
