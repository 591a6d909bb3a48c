package ast

import (
	"fmt"
	"sort"
	"strings"
)

// Expression is the interface all normalized filter nodes implement.
// Trees are immutable after construction: every node is created once by the
// parser or the resolver and read-only afterward, so a shared Expression is
// safe for concurrent use.
type Expression interface {
	exprNode()
}

// Comparison represents a single "field operator value" predicate
type Comparison struct {
	Field    string
	Operator string // ==, !=, >, >=, <, <=, IN, NOT IN, LIKE
	Value    any    // Scalar or []any of Scalars, never a map
}

func (c *Comparison) exprNode() {}

// Logical combines expressions with AND, OR or NOT.
// NOT carries no Right child; AND and OR always carry both.
type Logical struct {
	Operator string // AND, OR, NOT
	Left     Expression
	Right    Expression
}

func (l *Logical) exprNode() {}

// BuildFunc produces an adapter-bound fragment from a caller context.
type BuildFunc func(ctx any) (any, error)

// Raw is the escape hatch from virtual-field resolution: an opaque fragment
// producer the translators invoke verbatim. It is terminal and never
// normalized further.
type Raw struct {
	Build BuildFunc
}

func (r *Raw) exprNode() {}

// CheckScalar enforces the hard security invariant that no value reaching a
// Comparison is an object/map, recursively through arrays.
func CheckScalar(v any) error {
	switch val := v.(type) {
	case nil, string, bool, int, int32, int64, float32, float64:
		return nil
	case []any:
		for _, elem := range val {
			switch elem.(type) {
			case []any:
				return fmt.Errorf("nested arrays are not allowed as comparison values")
			}
			if err := CheckScalar(elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("value of type %T is not a scalar", v)
	}
}

// Fields returns the deduplicated, sorted set of field names referenced by
// Comparison nodes in the tree. Raw nodes contribute nothing.
func Fields(expr Expression) []string {
	seen := map[string]bool{}
	collectFields(expr, seen)

	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func collectFields(expr Expression, seen map[string]bool) {
	switch node := expr.(type) {
	case *Comparison:
		seen[node.Field] = true
	case *Logical:
		collectFields(node.Left, seen)
		if node.Right != nil {
			collectFields(node.Right, seen)
		}
	}
}

// CountComparisons returns the number of Comparison nodes in the tree
func CountComparisons(expr Expression) int {
	switch node := expr.(type) {
	case *Comparison:
		return 1
	case *Logical:
		count := CountComparisons(node.Left)
		if node.Right != nil {
			count += CountComparisons(node.Right)
		}
		return count
	default:
		return 0
	}
}

// Depth returns the maximum Logical nesting depth of the tree.
// A bare Comparison has depth 0.
func Depth(expr Expression) int {
	node, ok := expr.(*Logical)
	if !ok {
		return 0
	}
	depth := Depth(node.Left)
	if node.Right != nil {
		if right := Depth(node.Right); right > depth {
			depth = right
		}
	}
	return depth + 1
}

// String renders the tree in the input grammar, mainly for logging and
// debugging. Raw nodes render as a placeholder since their output depends on
// an adapter context.
func String(expr Expression) string {
	var sb strings.Builder
	writeExpr(&sb, expr)
	return sb.String()
}

func writeExpr(sb *strings.Builder, expr Expression) {
	switch node := expr.(type) {
	case *Comparison:
		fmt.Fprintf(sb, "%s %s %v", node.Field, node.Operator, node.Value)
	case *Logical:
		if node.Operator == "NOT" {
			sb.WriteString("NOT (")
			writeExpr(sb, node.Left)
			sb.WriteByte(')')
			return
		}
		sb.WriteByte('(')
		writeExpr(sb, node.Left)
		fmt.Fprintf(sb, " %s ", node.Operator)
		writeExpr(sb, node.Right)
		sb.WriteByte(')')
	case *Raw:
		sb.WriteString("<raw>")
	}
}
