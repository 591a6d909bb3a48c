package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	node, err := Parse("status:done")
	require.NoError(t, err)

	tag, ok := node.(*Tag)
	require.True(t, ok)
	assert.Equal(t, "status", tag.Field)
	assert.Equal(t, ":", tag.Operator)
	assert.Equal(t, "done", tag.Value.Raw)
	assert.False(t, tag.Value.Quoted)
}

func TestParseComparisonOperators(t *testing.T) {
	tests := []struct {
		input    string
		operator string
		value    string
	}{
		{"priority:>2", ":>", "2"},
		{"priority:>=2", ":>=", "2"},
		{"priority:<10", ":<", "10"},
		{"priority:<=10", ":<=", "10"},
		{"status:!=done", ":!=", "done"},
		{"status:=done", ":=", "done"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, err := Parse(tt.input)
			require.NoError(t, err)

			tag, ok := node.(*Tag)
			require.True(t, ok)
			assert.Equal(t, tt.operator, tag.Operator)
			assert.Equal(t, tt.value, tag.Value.Raw)
		})
	}
}

func TestParseLogicalPrecedence(t *testing.T) {
	// AND binds tighter than OR
	node, err := Parse("a:1 OR b:2 AND c:3")
	require.NoError(t, err)

	or, ok := node.(*LogicalExpression)
	require.True(t, ok)
	assert.Equal(t, "OR", or.Operator)

	and, ok := or.Right.(*LogicalExpression)
	require.True(t, ok)
	assert.Equal(t, "AND", and.Operator)
}

func TestParseUnary(t *testing.T) {
	node, err := Parse("NOT status:done")
	require.NoError(t, err)

	unary, ok := node.(*UnaryOperator)
	require.True(t, ok)
	assert.Equal(t, "NOT", unary.Operator)

	node, err = Parse("-status:done")
	require.NoError(t, err)

	unary, ok = node.(*UnaryOperator)
	require.True(t, ok)
	assert.Equal(t, "-", unary.Operator)
}

func TestParseRange(t *testing.T) {
	node, err := Parse("id:[2 TO 5]")
	require.NoError(t, err)

	rng, ok := node.(*RangeExpression)
	require.True(t, ok)
	assert.Equal(t, "id", rng.Field)
	assert.Equal(t, "2", rng.Min.Raw)
	assert.Equal(t, "5", rng.Max.Raw)
	assert.True(t, rng.IncludeMin)
	assert.True(t, rng.IncludeMax)

	node, err = Parse("price:{10 TO 20}")
	require.NoError(t, err)

	rng, ok = node.(*RangeExpression)
	require.True(t, ok)
	assert.False(t, rng.IncludeMin)
	assert.False(t, rng.IncludeMax)

	// Mixed delimiters: each end is independent
	node, err = Parse("id:[2 TO 5}")
	require.NoError(t, err)

	rng, ok = node.(*RangeExpression)
	require.True(t, ok)
	assert.True(t, rng.IncludeMin)
	assert.False(t, rng.IncludeMax)
}

func TestParseQuotedValues(t *testing.T) {
	node, err := Parse(`name:"John Doe"`)
	require.NoError(t, err)

	tag, ok := node.(*Tag)
	require.True(t, ok)
	assert.Equal(t, "John Doe", tag.Value.Raw)
	assert.True(t, tag.Value.Quoted)

	node, err = Parse(`name:'it\'s'`)
	require.NoError(t, err)

	tag, ok = node.(*Tag)
	require.True(t, ok)
	assert.Equal(t, "it's", tag.Value.Raw)
}

func TestParseParenthesized(t *testing.T) {
	node, err := Parse("(status:done)")
	require.NoError(t, err)

	paren, ok := node.(*ParenthesizedExpression)
	require.True(t, ok)
	_, ok = paren.Expression.(*Tag)
	assert.True(t, ok)
}

func TestParseEmptyInput(t *testing.T) {
	node, err := Parse("")
	require.NoError(t, err)
	_, ok := node.(*EmptyExpression)
	assert.True(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated quote", `name:"John`},
		{"unterminated paren", "(status:done"},
		{"dangling AND", "status:done AND"},
		{"leading OR", "OR status:done"},
		{"missing value", "status:"},
		{"unterminated range", "id:[2 TO"},
		{"range without TO", "id:[2 5]"},
		{"stray comma", "status:a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := Tokenize("a:1 AND b:2")
	require.NoError(t, err)
	require.Len(t, tokens, 7)
	assert.Equal(t, TOKEN_WORD, tokens[0].Type)
	assert.Equal(t, 0, tokens[0].Position)
	assert.Equal(t, "AND", tokens[3].Value)
	assert.Equal(t, 4, tokens[3].Position)
}
