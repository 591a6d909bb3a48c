package ast

import (
	"encoding/json"
	"fmt"
)

// Wire form used for caching and logging. Raw nodes are not serializable:
// their output depends on an adapter context supplied at translation time.
type jsonExpr struct {
	Type     string    `json:"type"`
	Field    string    `json:"field,omitempty"`
	Operator string    `json:"operator,omitempty"`
	Value    any       `json:"value"`
	Left     *jsonExpr `json:"left,omitempty"`
	Right    *jsonExpr `json:"right,omitempty"`
}

// Marshal encodes an Expression tree as JSON
func Marshal(expr Expression) ([]byte, error) {
	wire, err := toWire(expr)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// Unmarshal decodes a JSON document produced by Marshal. Numeric values come
// back as float64, the way encoding/json reports them.
func Unmarshal(data []byte) (Expression, error) {
	var wire jsonExpr
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	return fromWire(&wire)
}

func toWire(expr Expression) (*jsonExpr, error) {
	switch node := expr.(type) {
	case *Comparison:
		return &jsonExpr{
			Type:     "comparison",
			Field:    node.Field,
			Operator: node.Operator,
			Value:    node.Value,
		}, nil
	case *Logical:
		left, err := toWire(node.Left)
		if err != nil {
			return nil, err
		}
		wire := &jsonExpr{Type: "logical", Operator: node.Operator, Left: left}
		if node.Right != nil {
			wire.Right, err = toWire(node.Right)
			if err != nil {
				return nil, err
			}
		}
		return wire, nil
	case *Raw:
		return nil, fmt.Errorf("raw expressions cannot be serialized")
	default:
		return nil, fmt.Errorf("unknown expression type %T", expr)
	}
}

func fromWire(wire *jsonExpr) (Expression, error) {
	switch wire.Type {
	case "comparison":
		if err := CheckScalar(wire.Value); err != nil {
			return nil, err
		}
		return &Comparison{Field: wire.Field, Operator: wire.Operator, Value: wire.Value}, nil
	case "logical":
		if wire.Left == nil {
			return nil, fmt.Errorf("logical node is missing its left child")
		}
		left, err := fromWire(wire.Left)
		if err != nil {
			return nil, err
		}
		node := &Logical{Operator: wire.Operator, Left: left}
		if wire.Right != nil {
			node.Right, err = fromWire(wire.Right)
			if err != nil {
				return nil, err
			}
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unknown expression type '%s'", wire.Type)
	}
}
