package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filterql-engine/filterql/engine/schema"
	"github.com/filterql-engine/filterql/engine/security"
)

func testSchema() schema.Fields {
	return schema.Fields{
		"status":   {Type: "string", AllowedValues: []string{"todo", "doing", "done"}},
		"priority": {Type: "number"},
		"archived": {Type: "boolean"},
	}
}

func cursorAt(pos int) *int {
	return &pos
}

func TestNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"(((",
		")((",
		`"""`,
		":::",
		"AND AND AND",
		"status:done AND",
		`name:"unclosed`,
		"@#$%^&*",
		strings.Repeat("a:1 OR ", 2000),
		strings.Repeat("x", 10000),
	}

	for _, input := range inputs {
		result := ParseWithContext(input, Options{CursorPosition: cursorAt(len(input))})
		require.NotNil(t, result, "input %q", input)
		require.NotNil(t, result.Tokens)
	}
}

func TestSuccessfulParse(t *testing.T) {
	result := ParseWithContext("a:1 AND (b:2 OR c:3)", Options{})

	assert.True(t, result.Success)
	require.NotNil(t, result.AST)
	assert.Nil(t, result.Error)
	assert.Nil(t, result.Recovery)

	assert.True(t, result.Structure.BalancedParens)
	assert.True(t, result.Structure.BalancedQuotes)
	assert.True(t, result.Structure.IsComplete)
	assert.Equal(t, 3, result.Structure.ClauseCount)
	assert.Equal(t, 2, result.Structure.OperatorCount)
	assert.Equal(t, 1, result.Structure.MaxDepth)
	assert.Equal(t, []string{"a", "b", "c"}, result.Structure.Fields)
	assert.Equal(t, "moderate", result.Structure.Complexity)
}

func TestValuesStayStrings(t *testing.T) {
	// The incremental path never coerces; "42" is the string the user typed.
	result := ParseWithContext("priority:42", Options{})
	require.Len(t, result.Tokens, 1)
	assert.Equal(t, "42", result.Tokens[0].Value)
}

func TestTokenizeTerm(t *testing.T) {
	result := ParseWithContext(`-status:>="in progress"`, Options{})
	require.Len(t, result.Tokens, 1)

	tok := result.Tokens[0]
	assert.Equal(t, TermToken, tok.Kind)
	assert.Equal(t, "status", tok.Key)
	assert.Equal(t, ":>=", tok.Operator)
	assert.Equal(t, "in progress", tok.Value)
	assert.True(t, tok.Negated)
}

func TestTrailingOperatorRecovery(t *testing.T) {
	result := ParseWithContext("status:done AND ", Options{})

	assert.False(t, result.Success)
	assert.False(t, result.Structure.IsComplete)
	require.NotNil(t, result.Error)
	require.NotNil(t, result.Recovery)
	assert.Equal(t, "trailing_operator", result.Recovery.Issue)
	assert.Equal(t, "status:done", result.Recovery.Autofix)
}

func TestUnclosedQuoteRecovery(t *testing.T) {
	result := ParseWithContext(`name:"Jo`, Options{})

	require.NotNil(t, result.Recovery)
	assert.Equal(t, "unclosed_quote", result.Recovery.Issue)
	assert.Equal(t, `name:"Jo"`, result.Recovery.Autofix)
	assert.False(t, result.Structure.BalancedQuotes)
}

func TestUnclosedParenRecovery(t *testing.T) {
	result := ParseWithContext("((a:1 OR b:2", Options{})

	require.NotNil(t, result.Recovery)
	assert.Equal(t, "unclosed_parenthesis", result.Recovery.Issue)
	assert.Equal(t, "((a:1 OR b:2))", result.Recovery.Autofix)
}

func TestMissingValueRecovery(t *testing.T) {
	result := ParseWithContext("status:", Options{})

	require.NotNil(t, result.Recovery)
	assert.Equal(t, "missing_value", result.Recovery.Issue)
	assert.Equal(t, "status", result.Recovery.Autofix)
}

func TestCursorContexts(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		cursor  int
		context string
	}{
		{"empty input", "", 0, "empty"},
		{"typing a key", "sta", 3, "key"},
		{"inside key", "status:done", 3, "key"},
		{"inside operator", "status:>2", 7, "operator"},
		{"typing a value", "status:d", 8, "value"},
		{"after complete term", "status:done ", 12, "between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseWithContext(tt.input, Options{CursorPosition: cursorAt(tt.cursor)})
			assert.Equal(t, tt.context, result.CursorContext)
		})
	}
}

func TestFieldSuggestions(t *testing.T) {
	result := ParseWithContext("sta", Options{
		CursorPosition: cursorAt(3),
		Schema:         testSchema(),
	})

	require.NotEmpty(t, result.Suggestions)
	assert.Equal(t, "status", result.Suggestions[0].Text)
	assert.Equal(t, "field", result.Suggestions[0].Kind)
}

func TestValueSuggestions(t *testing.T) {
	result := ParseWithContext("status:d", Options{
		CursorPosition: cursorAt(8),
		Schema:         testSchema(),
	})

	texts := make([]string, 0, len(result.Suggestions))
	for _, s := range result.Suggestions {
		texts = append(texts, s.Text)
	}
	assert.Equal(t, []string{"doing", "done"}, texts)
}

func TestBooleanValueSuggestions(t *testing.T) {
	result := ParseWithContext("archived:t", Options{
		CursorPosition: cursorAt(10),
		Schema:         testSchema(),
	})

	require.Len(t, result.Suggestions, 2)
	assert.Equal(t, "true", result.Suggestions[0].Text)
}

func TestOperatorSuggestionsBetweenTerms(t *testing.T) {
	result := ParseWithContext("status:done ", Options{CursorPosition: cursorAt(12)})

	require.Len(t, result.Suggestions, 3)
	assert.Equal(t, "AND", result.Suggestions[0].Text)
	assert.Equal(t, "operator", result.Suggestions[0].Kind)
}

func TestFieldValidation(t *testing.T) {
	result := ParseWithContext("stattus:done", Options{Schema: testSchema()})

	require.Len(t, result.FieldValidation, 1)
	issue := result.FieldValidation[0]
	assert.Equal(t, "stattus", issue.Field)
	assert.Equal(t, "status", issue.Suggestion)
}

func TestFieldValidationAllowedValues(t *testing.T) {
	result := ParseWithContext("status:archived", Options{Schema: testSchema()})

	require.Len(t, result.FieldValidation, 1)
	assert.Contains(t, result.FieldValidation[0].Message, "archived")
}

func TestComplexityClassification(t *testing.T) {
	tests := []struct {
		input      string
		complexity string
	}{
		{"a:1", "simple"},
		{"a:1 AND b:2", "simple"},
		{"a:1 AND b:2 AND c:3", "moderate"},
		{"a:1 AND b:2 AND c:3 AND d:4 AND e:5 AND f:6", "complex"},
		{"((((a:1))))", "complex"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseWithContext(tt.input, Options{})
			assert.Equal(t, tt.complexity, result.Structure.Complexity)
		})
	}
}

func TestSecurityPrecheck(t *testing.T) {
	opts := security.DefaultOptions()

	result := ParseWithContext("status:done", Options{Security: opts})
	require.NotNil(t, result.Security)
	assert.True(t, result.Security.Ok())

	// Deep nesting crosses the depth limit without aborting the analysis
	deep := strings.Repeat("(", 15) + "a:1" + strings.Repeat(")", 15)
	result = ParseWithContext(deep, Options{Security: opts})
	require.NotNil(t, result.Security)
	assert.NotEmpty(t, result.Security.Violations)
}
