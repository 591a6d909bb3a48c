package translator

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/filterql-engine/filterql/engine/ast"
	"github.com/filterql-engine/filterql/mapping"
)

// TranslateMongo converts an Expression to a MongoDB filter document. This is
// the adapter-variant translation: the output is a condition value for the
// driver, not fragment text, so no identifier ever meets a string context -
// the identifier check stays anyway as defense in depth.
func TranslateMongo(expr ast.Expression) (bson.M, error) {
	switch node := expr.(type) {
	case *ast.Comparison:
		return mongoComparison(node)

	case *ast.Logical:
		return mongoLogical(node)

	case *ast.Raw:
		result, err := node.Build("MongoDB")
		if err != nil {
			return nil, translationError("raw expression failed: %v", err)
		}
		doc, ok := result.(bson.M)
		if !ok {
			return nil, translationError("raw expression produced %T, want bson.M for MongoDB", result)
		}
		return doc, nil

	default:
		return nil, translationError("unknown expression type %T", expr)
	}
}

// CanTranslateMongo is TranslateMongo with the error converted to a boolean
func CanTranslateMongo(expr ast.Expression) bool {
	_, err := TranslateMongo(expr)
	return err == nil
}

func mongoLogical(node *ast.Logical) (bson.M, error) {
	left, err := TranslateMongo(node.Left)
	if err != nil {
		return nil, err
	}

	if node.Operator == "NOT" {
		return bson.M{"$nor": bson.A{left}}, nil
	}

	if node.Right == nil {
		return nil, translationError("%s is missing its right operand", node.Operator)
	}
	right, err := TranslateMongo(node.Right)
	if err != nil {
		return nil, err
	}

	switch node.Operator {
	case "AND":
		return bson.M{"$and": bson.A{left, right}}, nil
	case "OR":
		return bson.M{"$or": bson.A{left, right}}, nil
	default:
		return nil, translationError("unknown logical operator '%s'", node.Operator)
	}
}

func mongoComparison(cmp *ast.Comparison) (bson.M, error) {
	if !mapping.IsValidIdentifier(cmp.Field) {
		return nil, translationError("invalid field identifier '%s'", cmp.Field)
	}
	if err := ast.CheckScalar(cmp.Value); err != nil {
		return nil, translationError("%v", err)
	}

	operator, ok := mapping.DialectOperator("MongoDB", cmp.Operator)
	if !ok {
		return nil, translationError("operator '%s' has no MongoDB form", cmp.Operator)
	}

	switch strings.ToUpper(cmp.Operator) {
	case "IN", "NOT IN":
		values, isArray := cmp.Value.([]any)
		if !isArray {
			values = []any{cmp.Value}
		}
		// An empty $in matches nothing and an empty $nin matches everything,
		// which is exactly the FALSE/TRUE short-circuit of the SQL path.
		return bson.M{cmp.Field: bson.M{operator: toBsonArray(values)}}, nil

	case "LIKE":
		pattern, isString := cmp.Value.(string)
		if !isString {
			return nil, translationError("LIKE on '%s' needs a string pattern", cmp.Field)
		}
		return bson.M{cmp.Field: bson.M{
			"$regex":   toMongoRegex(pattern),
			"$options": "i",
		}}, nil
	}

	if _, isArray := cmp.Value.([]any); isArray {
		return nil, translationError("operator '%s' cannot take an array value", cmp.Operator)
	}

	return bson.M{cmp.Field: bson.M{operator: cmp.Value}}, nil
}

func toBsonArray(values []any) bson.A {
	arr := make(bson.A, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return arr
}

var regexSpecials = regexp.MustCompile(`[.+^$()\[\]{}|\\]`)

// toMongoRegex converts the query wildcard syntax to an anchored regex:
// regex metacharacters are escaped first, then * and ? become .* and .
func toMongoRegex(pattern string) string {
	escaped := regexSpecials.ReplaceAllString(pattern, `\$0`)
	converted := strings.NewReplacer("*", ".*", "?", ".").Replace(escaped)
	return "^" + converted + "$"
}
