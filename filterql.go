// Package fql is a query-language toolkit: it parses a compact, human-typed
// filter syntax (field:value, comparisons, boolean connectives, ranges,
// wildcards) into a validated AST and translates it into parameterized SQL,
// a MongoDB filter document or a RediSearch filter string.
package fql

import (
	"github.com/filterql-engine/filterql/engine/analyzer"
	"github.com/filterql-engine/filterql/engine/ast"
	"github.com/filterql-engine/filterql/engine/parser"
	"github.com/filterql-engine/filterql/engine/resolver"
	"github.com/filterql-engine/filterql/engine/schema"
	"github.com/filterql-engine/filterql/engine/security"
	"github.com/filterql-engine/filterql/engine/translator"
)

// Parse converts filter text to an Expression with default settings
func Parse(input string) (ast.Expression, error) {
	return parser.Parse(input)
}

// Validate is Parse with the error swallowed
func Validate(input string) bool {
	return parser.Validate(input)
}

// Config wires the toolkit's fixed configuration. All of it is optional and
// immutable after New.
type Config struct {
	// Security rules applied by Prepare and the incremental pre-check
	Security *security.Options

	// Schema drives autocomplete and advisory validation, never enforcement
	Schema schema.Fields

	// VirtualFields are resolved by Prepare and Resolve
	VirtualFields resolver.Definitions

	// Field-name normalization applied during parsing
	FoldFieldCase  bool
	SingularFields bool
	FieldAliases   map[string]string
}

// Toolkit binds the pipeline stages to one configuration. A Toolkit is
// immutable and safe for concurrent use: no per-call state lives on it.
type Toolkit struct {
	config     Config
	parserOpts []parser.Option
}

// New creates a Toolkit from a configuration
func New(config Config) *Toolkit {
	var opts []parser.Option
	if config.FoldFieldCase {
		opts = append(opts, parser.WithCaseFolding())
	}
	if config.SingularFields {
		opts = append(opts, parser.WithSingularFields())
	}
	if len(config.FieldAliases) > 0 {
		opts = append(opts, parser.WithAliases(config.FieldAliases))
	}
	if config.Security == nil {
		config.Security = security.DefaultOptions()
	}
	return &Toolkit{config: config, parserOpts: opts}
}

// Parse converts filter text to an Expression using the configured
// field-name normalization. No security rules run here; call Prepare for the
// full pipeline.
func (t *Toolkit) Parse(input string) (ast.Expression, error) {
	return parser.Parse(input, t.parserOpts...)
}

// Validate is Parse with the error swallowed
func (t *Toolkit) Validate(input string) bool {
	_, err := t.Parse(input)
	return err == nil
}

// ParseWithContext runs the incremental analyzer with the configured schema
// and security rules. Never fails; see analyzer.Result.
func (t *Toolkit) ParseWithContext(input string, cursorPosition *int) *analyzer.Result {
	return analyzer.ParseWithContext(input, analyzer.Options{
		CursorPosition: cursorPosition,
		Schema:         t.config.Schema,
		Security:       t.config.Security,
	})
}

// Resolve rewrites virtual fields using the caller-supplied context
func (t *Toolkit) Resolve(expr ast.Expression, ctx any) (ast.Expression, error) {
	return resolver.Resolve(expr, t.config.VirtualFields, ctx)
}

// Prepare runs the full pre-execution pipeline: parse, resolve virtual
// fields, then enforce the security rules. The returned Expression is ready
// for translation.
func (t *Toolkit) Prepare(input string, resolveCtx any) (ast.Expression, error) {
	expr, err := t.Parse(input)
	if err != nil {
		return nil, err
	}

	expr, err = t.Resolve(expr, resolveCtx)
	if err != nil {
		return nil, err
	}

	if err := security.ValidateExpression(expr, t.config.Security); err != nil {
		return nil, err
	}

	return expr, nil
}

// Translate converts an Expression to a SQL fragment
func (t *Toolkit) Translate(expr ast.Expression, opts translator.Options) (translator.Fragment, error) {
	return translator.Translate(expr, opts)
}

// Security returns the effective security options
func (t *Toolkit) Security() *security.Options {
	return t.config.Security
}
