// Package resolver rewrites virtual fields - logical field names with no
// schema backing - into real expressions using caller-supplied context. The
// pass is depth-first, pure and total: Raw nodes and unmatched fields pass
// through unchanged.
package resolver

import (
	"fmt"

	"github.com/filterql-engine/filterql/engine/ast"
)

// Input is the matched Comparison handed to a definition's Resolve function
type Input struct {
	Field    string
	Operator string
	Value    any
}

// ResolveFunc builds the replacement expression for one matched Comparison.
// It must be a pure function of (input, ctx).
type ResolveFunc func(input Input, ctx any, helpers Helpers) (ast.Expression, error)

// Definition configures one virtual field. Configured once at toolkit
// construction and invoked per matching Comparison node.
type Definition struct {
	// AllowedValues is the closed set of values the virtual field accepts
	AllowedValues []string

	// AllowOperators permits comparisons other than equality
	AllowOperators bool

	// Resolve builds the replacement Comparison, Logical or Raw expression
	Resolve ResolveFunc
}

// Definitions maps virtual field name to its definition
type Definitions map[string]Definition

// Helpers is passed to ResolveFunc for mapping-style definitions
type Helpers struct {
	field string
	def   Definition
}

// MapExpressions checks, at call time, that every key of the supplied mapping
// is one of the virtual field's allowed values, then returns the mapping
// unchanged. Catches definitions that drift out of sync with their value set.
func (h Helpers) MapExpressions(m map[string]ast.Expression) (map[string]ast.Expression, error) {
	for key := range m {
		if !contains(h.def.AllowedValues, key) {
			return nil, resolutionError(h.field,
				"mapping key '%s' is not one of the allowed values %v", key, h.def.AllowedValues)
		}
	}
	return m, nil
}

// Resolve walks the tree and substitutes every Comparison whose field has a
// definition. The caller-owned ctx is read-only to this pass.
func Resolve(expr ast.Expression, defs Definitions, ctx any) (ast.Expression, error) {
	if len(defs) == 0 {
		return expr, nil
	}

	switch node := expr.(type) {
	case *ast.Comparison:
		def, matched := defs[node.Field]
		if !matched {
			return node, nil
		}
		return resolveComparison(node, def, ctx)

	case *ast.Logical:
		left, err := Resolve(node.Left, defs, ctx)
		if err != nil {
			return nil, err
		}
		result := &ast.Logical{Operator: node.Operator, Left: left}
		if node.Right != nil {
			result.Right, err = Resolve(node.Right, defs, ctx)
			if err != nil {
				return nil, err
			}
		}
		return result, nil

	case *ast.Raw:
		return node, nil

	default:
		return nil, resolutionError("", "unknown expression type %T", expr)
	}
}

func resolveComparison(cmp *ast.Comparison, def Definition, ctx any) (ast.Expression, error) {
	// Type check runs before any domain logic
	switch cmp.Value.(type) {
	case string, bool, int, int32, int64, float32, float64, nil:
	default:
		return nil, resolutionError(cmp.Field, "value of type %T is not a scalar", cmp.Value)
	}

	rendered := fmt.Sprint(cmp.Value)
	if !contains(def.AllowedValues, rendered) {
		return nil, resolutionError(cmp.Field,
			"value '%s' is not one of the allowed values %v", rendered, def.AllowedValues)
	}

	if cmp.Operator != "==" && !def.AllowOperators {
		return nil, resolutionError(cmp.Field, "operator '%s' is not allowed", cmp.Operator)
	}

	if def.Resolve == nil {
		return nil, resolutionError(cmp.Field, "definition has no resolve function")
	}

	replacement, err := def.Resolve(Input{
		Field:    cmp.Field,
		Operator: cmp.Operator,
		Value:    cmp.Value,
	}, ctx, Helpers{field: cmp.Field, def: def})
	if err != nil {
		if _, isResolution := err.(*ResolutionError); isResolution {
			return nil, err
		}
		return nil, resolutionError(cmp.Field, "%v", err)
	}
	if replacement == nil {
		return nil, resolutionError(cmp.Field, "resolve function returned no expression")
	}

	return replacement, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
