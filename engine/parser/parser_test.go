package parser

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

func TestParseComparison(t *testing.T) {
	expr, err := Parse("priority:>2")
	require.NoError(t, err)

	cmp := comparison(t, expr)
	assert.Equal(t, "priority", cmp.Field)
	assert.Equal(t, ">", cmp.Operator)
	assert.Equal(t, int64(2), cmp.Value)
}

func TestParseOperatorSpellings(t *testing.T) {
	tests := []struct {
		input    string
		operator string
	}{
		{"a:1", "=="},
		{"a:=1", "=="},
		{"a:!=1", "!="},
		{"a:>1", ">"},
		{"a:>=1", ">="},
		{"a:<1", "<"},
		{"a:<=1", "<="},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.operator, comparison(t, expr).Operator)
		})
	}
}

func TestParseValueCoercion(t *testing.T) {
	tests := []struct {
		input string
		value any
	}{
		{"a:42", int64(42)},
		{"a:-7", int64(-7)},
		{"a:3.14", 3.14},
		{"a:true", true},
		{"a:false", false},
		{"a:null", nil},
		{"a:todo", "todo"},
		{`a:"42"`, "42"}, // quoted values stay strings
		{`a:"true"`, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.value, comparison(t, expr).Value)
		})
	}
}

func TestParseBracketList(t *testing.T) {
	expr, err := Parse("status:[todo, doing, done]")
	require.NoError(t, err)

	// (status:todo OR status:doing) OR status:done
	outer := logical(t, expr)
	assert.Equal(t, "OR", outer.Operator)

	inner := logical(t, outer.Left)
	assert.Equal(t, "OR", inner.Operator)
	assert.Equal(t, "todo", comparison(t, inner.Left).Value)
	assert.Equal(t, "doing", comparison(t, inner.Right).Value)
	assert.Equal(t, "done", comparison(t, outer.Right).Value)

	for _, leaf := range []ast.Expression{inner.Left, inner.Right, outer.Right} {
		cmp := comparison(t, leaf)
		assert.Equal(t, "status", cmp.Field)
		assert.Equal(t, "==", cmp.Operator)
	}
}

func TestParseBracketListQuoteAware(t *testing.T) {
	expr, err := Parse(`tag:["a, b", c]`)
	require.NoError(t, err)

	outer := logical(t, expr)
	assert.Equal(t, "a, b", comparison(t, outer.Left).Value)
	assert.Equal(t, "c", comparison(t, outer.Right).Value)
}

func TestParseInclusiveRange(t *testing.T) {
	expr, err := Parse("id:[2 TO 5]")
	require.NoError(t, err)

	and := logical(t, expr)
	assert.Equal(t, "AND", and.Operator)

	lower := comparison(t, and.Left)
	assert.Equal(t, "id", lower.Field)
	assert.Equal(t, ">=", lower.Operator)
	assert.Equal(t, int64(2), lower.Value)

	upper := comparison(t, and.Right)
	assert.Equal(t, "<=", upper.Operator)
	assert.Equal(t, int64(5), upper.Value)
}

func TestParseExclusiveRange(t *testing.T) {
	expr, err := Parse("price:{10 TO 20}")
	require.NoError(t, err)

	and := logical(t, expr)
	assert.Equal(t, ">", comparison(t, and.Left).Operator)
	assert.Equal(t, "<", comparison(t, and.Right).Operator)
}

func TestParseWildcardPromotion(t *testing.T) {
	expr, err := Parse("name:Jo*")
	require.NoError(t, err)

	cmp := comparison(t, expr)
	assert.Equal(t, "LIKE", cmp.Operator)
	assert.Equal(t, "Jo*", cmp.Value)

	// Quoted values keep their wildcard characters literal
	expr, err = Parse(`name:"Jo*"`)
	require.NoError(t, err)
	assert.Equal(t, "==", comparison(t, expr).Operator)
}

func TestParseLogical(t *testing.T) {
	expr, err := Parse("status:done AND priority:>2")
	require.NoError(t, err)

	and := logical(t, expr)
	assert.Equal(t, "AND", and.Operator)
	assert.Equal(t, "status", comparison(t, and.Left).Field)
	assert.Equal(t, "priority", comparison(t, and.Right).Field)
}

func TestParseNot(t *testing.T) {
	for _, input := range []string{"NOT status:done", "-status:done"} {
		expr, err := Parse(input)
		require.NoError(t, err, input)

		not := logical(t, expr)
		assert.Equal(t, "NOT", not.Operator)
		assert.Nil(t, not.Right)
		assert.Equal(t, "status", comparison(t, not.Left).Field)
	}
}

func TestParseParenUnwrap(t *testing.T) {
	expr, err := Parse("(status:done)")
	require.NoError(t, err)
	assert.Equal(t, "status", comparison(t, expr).Field)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"dangling operator", "status:done AND"},
		{"unterminated quote", `name:"Jo`},
		{"unterminated paren", "(a:1 OR b:2"},
		{"missing value", "status:"},
		{"bare value without field", "urgent"},
		{"empty parens", "()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate("status:done"))
	assert.False(t, Validate("status:done AND"))
}

func TestFieldNormalization(t *testing.T) {
	expr, err := Parse("STATUS:done", WithCaseFolding())
	require.NoError(t, err)
	assert.Equal(t, "status", comparison(t, expr).Field)

	expr, err = Parse("tags:urgent", WithSingularFields())
	require.NoError(t, err)
	assert.Equal(t, "tag", comparison(t, expr).Field)

	expr, err = Parse("state:done", WithAliases(map[string]string{"state": "status"}))
	require.NoError(t, err)
	assert.Equal(t, "status", comparison(t, expr).Field)
}
