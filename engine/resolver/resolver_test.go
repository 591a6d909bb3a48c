package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filterql-engine/filterql/engine/ast"
)

type viewer struct {
	userID int64
}

func assignedDefs() Definitions {
	return Definitions{
		"assigned": {
			AllowedValues: []string{"me", "nobody"},
			Resolve: func(input Input, ctx any, helpers Helpers) (ast.Expression, error) {
				exprs, err := helpers.MapExpressions(map[string]ast.Expression{
					"me":     &ast.Comparison{Field: "assignee_id", Operator: "==", Value: ctx.(viewer).userID},
					"nobody": &ast.Comparison{Field: "assignee_id", Operator: "==", Value: nil},
				})
				if err != nil {
					return nil, err
				}
				return exprs[input.Value.(string)], nil
			},
		},
	}
}

func TestResolveSubstitutes(t *testing.T) {
	expr := &ast.Comparison{Field: "assigned", Operator: "==", Value: "me"}

	resolved, err := Resolve(expr, assignedDefs(), viewer{userID: 7})
	require.NoError(t, err)

	cmp, ok := resolved.(*ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, "assignee_id", cmp.Field)
	assert.Equal(t, int64(7), cmp.Value)
}

func TestResolveWalksLogicalNodes(t *testing.T) {
	expr := &ast.Logical{
		Operator: "AND",
		Left:     &ast.Comparison{Field: "status", Operator: "==", Value: "done"},
		Right:    &ast.Comparison{Field: "assigned", Operator: "==", Value: "nobody"},
	}

	resolved, err := Resolve(expr, assignedDefs(), viewer{})
	require.NoError(t, err)

	and, ok := resolved.(*ast.Logical)
	require.True(t, ok)

	// The unmatched side passes through untouched
	left, ok := and.Left.(*ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, "status", left.Field)

	right, ok := and.Right.(*ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, "assignee_id", right.Field)
	assert.Nil(t, right.Value)
}

func TestResolveRejectsUnknownValue(t *testing.T) {
	expr := &ast.Comparison{Field: "assigned", Operator: "==", Value: "everyone"}

	_, err := Resolve(expr, assignedDefs(), viewer{})
	require.Error(t, err)

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "assigned", resErr.Field)
}

func TestResolveRejectsNonScalarValue(t *testing.T) {
	expr := &ast.Comparison{Field: "assigned", Operator: "==", Value: map[string]any{}}

	_, err := Resolve(expr, assignedDefs(), viewer{})
	assert.Error(t, err)
}

func TestOperatorGate(t *testing.T) {
	defs := Definitions{
		"age": {
			AllowedValues:  []string{"30"},
			AllowOperators: true,
			Resolve: func(input Input, ctx any, helpers Helpers) (ast.Expression, error) {
				return &ast.Comparison{Field: "birth_year", Operator: input.Operator, Value: input.Value}, nil
			},
		},
	}

	expr := &ast.Comparison{Field: "age", Operator: ">", Value: "30"}
	_, err := Resolve(expr, defs, nil)
	assert.NoError(t, err)

	// Equality-only definitions reject everything else
	gated := defs["age"]
	gated.AllowOperators = false
	defs["age"] = gated
	_, err = Resolve(expr, defs, nil)
	assert.Error(t, err)
}

func TestMapExpressionsCatchesDrift(t *testing.T) {
	defs := Definitions{
		"assigned": {
			AllowedValues: []string{"me"},
			Resolve: func(input Input, ctx any, helpers Helpers) (ast.Expression, error) {
				// "nobody" is not in AllowedValues; the helper flags it
				_, err := helpers.MapExpressions(map[string]ast.Expression{
					"nobody": &ast.Comparison{Field: "assignee_id", Operator: "==", Value: nil},
				})
				return nil, err
			},
		},
	}

	expr := &ast.Comparison{Field: "assigned", Operator: "==", Value: "me"}
	_, err := Resolve(expr, defs, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nobody")
}

func TestRawAndUnmatchedPassThrough(t *testing.T) {
	raw := &ast.Raw{Build: func(ctx any) (any, error) { return "1 = 1", nil }}

	resolved, err := Resolve(raw, assignedDefs(), nil)
	require.NoError(t, err)
	assert.Same(t, ast.Expression(raw), resolved)

	plain := &ast.Comparison{Field: "status", Operator: "==", Value: "done"}
	resolved, err = Resolve(plain, assignedDefs(), nil)
	require.NoError(t, err)
	assert.Same(t, ast.Expression(plain), resolved)
}

func TestResolveWithNoDefinitions(t *testing.T) {
	expr := &ast.Comparison{Field: "assigned", Operator: "==", Value: "me"}

	resolved, err := Resolve(expr, nil, nil)
	require.NoError(t, err)
	assert.Same(t, ast.Expression(expr), resolved)
}

func TestResolveFuncErrorsAreWrapped(t *testing.T) {
	defs := Definitions{
		"assigned": {
			AllowedValues: []string{"me"},
			Resolve: func(input Input, ctx any, helpers Helpers) (ast.Expression, error) {
				return nil, errors.New("context missing user")
			},
		},
	}

	expr := &ast.Comparison{Field: "assigned", Operator: "==", Value: "me"}
	_, err := Resolve(expr, defs, nil)
	require.Error(t, err)

	var resErr *ResolutionError
	assert.ErrorAs(t, err, &resErr)
}
