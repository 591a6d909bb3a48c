// Package analyzer is the incremental side of the toolkit: a never-failing
// tokenizer and context analyzer for live-typing UX. It is independent of the
// strict grammar in engine/grammar - malformed input still yields tokens,
// structure, suggestions and recovery hints.
//
// Unlike the strict parser, the analyzer keeps values as raw strings; typed
// coercion ("42" to 42) happens only on the execution path.
package analyzer

import (
	"strings"

	"github.com/filterql-engine/filterql/engine/ast"
	"github.com/filterql-engine/filterql/engine/parser"
	"github.com/filterql-engine/filterql/engine/schema"
	"github.com/filterql-engine/filterql/engine/security"
)

// Options configures one ParseWithContext call
type Options struct {
	// CursorPosition enables cursor-context classification and autocomplete
	CursorPosition *int

	// Schema drives autocomplete and advisory field validation
	Schema schema.Fields

	// Security enables the advisory pre-check over the extracted structure
	Security *security.Options

	// MaxSuggestions caps autocomplete output (default 10)
	MaxSuggestions int

	// TypoDistance is the Levenshtein threshold for field suggestions
	// (default 2)
	TypoDistance int
}

// ErrorDetail carries the strict-parse failure without raising it
type ErrorDetail struct {
	Message  string
	Position int
}

// FieldIssue is one advisory schema finding
type FieldIssue struct {
	Field      string
	Message    string
	Suggestion string
}

// Result aggregates everything the incremental path knows about the input.
// Tokens and Structure are always populated, success or not.
type Result struct {
	Success         bool
	AST             ast.Expression
	Error           *ErrorDetail
	Tokens          []Token
	ActiveToken     *Token
	CursorContext   string // empty, key, operator, value, between
	Structure       Structure
	FieldValidation []FieldIssue
	Security        *security.Report
	Suggestions     []Suggestion
	Recovery        *Recovery
}

// ParseWithContext analyzes filter text at any completion state. It never
// returns an error and never panics; every internal failure is captured into
// the result's Error and Recovery fields.
func ParseWithContext(text string, opts Options) *Result {
	result := &Result{}

	result.Tokens = tokenize(text)
	result.Structure = analyzeStructure(text, result.Tokens)

	expr, err := parser.Parse(text)
	if err == nil {
		result.Success = true
		result.AST = expr
	} else {
		result.Error = &ErrorDetail{Message: err.Error(), Position: parseErrorPosition(err)}
		result.Recovery = classifyFailure(text, result.Tokens, result.Structure, result.Error.Position)
	}

	if opts.CursorPosition != nil {
		cursor := clamp(*opts.CursorPosition, 0, len(text))
		result.ActiveToken, result.CursorContext = locateCursor(text, result.Tokens, cursor)
		result.Suggestions = opts.suggest(result.CursorContext, result.ActiveToken, cursor, opts.Schema)
	}

	if len(opts.Schema) > 0 {
		result.FieldValidation = opts.validateFields(result.Tokens)
	}

	if opts.Security != nil {
		report := security.Precheck(security.Structure{
			Fields:        result.Structure.Fields,
			Depth:         result.Structure.MaxDepth,
			ClauseCount:   result.Structure.ClauseCount,
			OperatorCount: result.Structure.OperatorCount,
			Complexity:    result.Structure.Complexity,
		}, opts.Security)
		result.Security = &report
	}

	return result
}

// locateCursor finds the token containing the cursor and classifies the
// position inside it.
func locateCursor(text string, tokens []Token, cursor int) (*Token, string) {
	if len(tokens) == 0 {
		return nil, "empty"
	}

	for i := range tokens {
		tok := &tokens[i]
		if cursor < tok.Start || cursor > tok.End {
			continue
		}
		if tok.Kind == OperatorToken {
			return tok, "operator"
		}
		return tok, classifyTermOffset(tok, cursor)
	}

	return nil, "between"
}

// classifyTermOffset buckets a cursor inside a term into key/operator/value
func classifyTermOffset(tok *Token, cursor int) string {
	keyStart := tok.Start
	if tok.Negated {
		keyStart++
	}

	// Bare value: treat the whole span as a key being typed
	if tok.Key == "" {
		return "key"
	}

	keyEnd := keyStart + len(tok.Key)
	if cursor <= keyEnd {
		return "key"
	}
	if cursor <= keyEnd+len(tok.Operator) {
		return "operator"
	}
	return "value"
}

// validateFields reports unknown fields and out-of-range values against the
// advisory schema. Never used for enforcement.
func (o Options) validateFields(tokens []Token) []FieldIssue {
	var issues []FieldIssue

	for _, tok := range tokens {
		if tok.Kind != TermToken || tok.Key == "" {
			continue
		}

		field, known := o.Schema[tok.Key]
		if !known {
			issue := FieldIssue{
				Field:   tok.Key,
				Message: "unknown field '" + tok.Key + "'",
			}
			if similar := o.suggestSimilarField(tok.Key, o.Schema); similar != "" {
				issue.Suggestion = similar
			}
			issues = append(issues, issue)
			continue
		}

		if tok.Value != "" && len(field.AllowedValues) > 0 && !containsFold(field.AllowedValues, tok.Value) {
			issues = append(issues, FieldIssue{
				Field:   tok.Key,
				Message: "value '" + tok.Value + "' is not one of the allowed values for '" + tok.Key + "'",
			})
		}
	}

	return issues
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

func parseErrorPosition(err error) int {
	if parseErr, ok := err.(*parser.ParseError); ok {
		return parseErr.Position
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
