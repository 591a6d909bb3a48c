// Package parser turns filter text into the normalized Expression AST.
// It preprocesses bracket lists, delegates the grammar to engine/grammar and
// converts the resulting parse tree node by node.
package parser

import (
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/filterql-engine/filterql/engine/ast"
	"github.com/filterql-engine/filterql/engine/grammar"
)

// config holds field-name normalization settings, immutable per call
type config struct {
	foldCase    bool
	singularize bool
	aliases     map[string]string
}

// Option configures a Parse call
type Option func(*config)

// WithCaseFolding lowercases field names during normalization
func WithCaseFolding() Option {
	return func(c *config) { c.foldCase = true }
}

// WithSingularFields folds plural field names to their singular form, so
// "tags:x" and "tag:x" address the same column.
func WithSingularFields() Option {
	return func(c *config) { c.singularize = true }
}

// WithAliases maps alternate field spellings to canonical names. Alias lookup
// runs after case folding, so alias keys should be lowercase when
// WithCaseFolding is also set.
func WithAliases(aliases map[string]string) Option {
	return func(c *config) { c.aliases = aliases }
}

// Parse converts filter text to an Expression. It fails with a *ParseError on
// any malformed input: empty string, dangling operator, unknown operator,
// unterminated quote or paren, or a non-scalar value.
func Parse(text string, opts ...Option) (ast.Expression, error) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}

	if strings.TrimSpace(text) == "" {
		return nil, NewParseError("empty query")
	}

	rewritten := rewriteBracketLists(text)

	node, err := grammar.Parse(rewritten)
	if err != nil {
		if syntaxErr, ok := err.(*grammar.SyntaxError); ok {
			return nil, &ParseError{Message: syntaxErr.Message, Position: syntaxErr.Position}
		}
		return nil, NewParseError("%v", err)
	}

	return c.convert(node)
}

// Validate is Parse with the error swallowed
func Validate(text string, opts ...Option) bool {
	_, err := Parse(text, opts...)
	return err == nil
}

// normalizeField applies case folding, plural folding and alias mapping,
// once per Comparison.
func (c *config) normalizeField(field string) string {
	if c.foldCase {
		field = strings.ToLower(field)
	}
	if c.singularize {
		field = singularizeField(field)
	}
	if alias, ok := c.aliases[field]; ok {
		field = alias
	}
	return field
}

// singularizeField folds each dotted segment, so "orders.items" becomes
// "order.item".
func singularizeField(field string) string {
	segments := strings.Split(field, ".")
	for i, seg := range segments {
		segments[i] = inflection.Singular(seg)
	}
	return strings.Join(segments, ".")
}
