package mapping

import (
	"regexp"
	"strings"
)

// ComparisonOperators - SSOT for the operator set a Comparison node may carry.
// Everything else in the toolkit (parser, security, translators) validates
// against this map instead of keeping its own list.
var ComparisonOperators = map[string]bool{
	"==":     true,
	"!=":     true,
	">":      true,
	">=":     true,
	"<":      true,
	"<=":     true,
	"IN":     true,
	"NOT IN": true,
	"LIKE":   true,
}

// GrammarOperators maps the operator spelling accepted in query text to the
// canonical Comparison operator.
// Usage: GrammarOperators[":"] returns "=="
var GrammarOperators = map[string]string{
	":":      "==",
	"=":      "==",
	"==":     "==",
	"!=":     "!=",
	">":      ">",
	">=":     ">=",
	"<":      "<",
	"<=":     "<=",
	"in":     "IN",
	"not in": "NOT IN",
	"like":   "LIKE",
}

// LogicalOperators - boolean connectives recognized in query text
// (word-boundary, case-insensitive).
var LogicalOperators = map[string]bool{
	"AND": true,
	"OR":  true,
	"NOT": true,
}

// OperatorMap - runtime mapping for translators.
// Usage: OperatorMap["PostgreSQL"]["=="] returns "="
var OperatorMap = map[string]map[string]string{
	"PostgreSQL": {
		"==":     "=",
		"!=":     "<>",
		">":      ">",
		">=":     ">=",
		"<":      "<",
		"<=":     "<=",
		"IN":     "IN",
		"NOT IN": "NOT IN",
		"LIKE":   "LIKE",
	},
	"MySQL": {
		"==":     "=",
		"!=":     "<>",
		">":      ">",
		">=":     ">=",
		"<":      "<",
		"<=":     "<=",
		"IN":     "IN",
		"NOT IN": "NOT IN",
		"LIKE":   "LIKE",
	},
	"SQLite": {
		"==":     "=",
		"!=":     "<>",
		">":      ">",
		">=":     ">=",
		"<":      "<",
		"<=":     "<=",
		"IN":     "IN",
		"NOT IN": "NOT IN",
		"LIKE":   "LIKE",
	},
	"MongoDB": {
		"==":     "$eq",
		"!=":     "$ne",
		">":      "$gt",
		">=":     "$gte",
		"<":      "$lt",
		"<=":     "$lte",
		"IN":     "$in",
		"NOT IN": "$nin",
		"LIKE":   "$regex",
	},
}

// identifierPattern - defense-in-depth check applied to every field name
// immediately before it is embedded in a fragment, regardless of what the
// security validator already did upstream.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// IsComparisonOperator checks if op is a canonical Comparison operator
func IsComparisonOperator(op string) bool {
	return ComparisonOperators[strings.ToUpper(op)]
}

// IsLogicalOperator checks if word is a boolean connective
func IsLogicalOperator(word string) bool {
	return LogicalOperators[strings.ToUpper(word)]
}

// CanonicalOperator maps a grammar spelling to the Comparison operator set.
// Returns false for unknown spellings.
func CanonicalOperator(spelling string) (string, bool) {
	op, ok := GrammarOperators[strings.ToLower(strings.TrimSpace(spelling))]
	return op, ok
}

// DialectOperator maps a canonical operator to its dialect form.
// Returns false when the dialect or operator is unknown.
func DialectOperator(dialect, op string) (string, bool) {
	ops, ok := OperatorMap[dialect]
	if !ok {
		return "", false
	}
	mapped, ok := ops[strings.ToUpper(op)]
	return mapped, ok
}

// IsValidIdentifier reports whether a field name is safe to embed in a
// translated fragment.
func IsValidIdentifier(field string) bool {
	return identifierPattern.MatchString(field)
}
