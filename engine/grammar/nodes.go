package grammar

// Node is the interface all parse-tree nodes implement. The set of
// implementations is closed: Tag, LogicalExpression, UnaryOperator,
// ParenthesizedExpression, RangeExpression and EmptyExpression. Downstream
// consumers switch exhaustively over these kinds and fail loudly on anything
// else.
type Node interface {
	node()
	Pos() int
}

// Literal is a raw value as it appeared in the query text. Interpretation
// (number, boolean, null, plain string) is left to the consumer; Quoted marks
// values that were written in quotes and must stay strings.
type Literal struct {
	Raw      string
	Quoted   bool
	Position int
}

// Tag represents a "field operator value" unit, or a bare value when Field
// is empty and Operator is ":".
type Tag struct {
	Field    string
	Operator string // :, :=, :!=, :>, :>=, :<, :<=
	Value    Literal
	Position int
}

func (n *Tag) node()    {}
func (n *Tag) Pos() int { return n.Position }

// LogicalExpression represents "left AND right" / "left OR right"
type LogicalExpression struct {
	Operator string // AND, OR
	Left     Node
	Right    Node
	Position int
}

func (n *LogicalExpression) node()    {}
func (n *LogicalExpression) Pos() int { return n.Position }

// UnaryOperator represents "NOT expr" or a leading '-' negation
type UnaryOperator struct {
	Operator string // NOT, -
	Operand  Node
	Position int
}

func (n *UnaryOperator) node()    {}
func (n *UnaryOperator) Pos() int { return n.Position }

// ParenthesizedExpression represents "( expr )"
type ParenthesizedExpression struct {
	Expression Node
	Position   int
}

func (n *ParenthesizedExpression) node()    {}
func (n *ParenthesizedExpression) Pos() int { return n.Position }

// RangeExpression represents "field:[min TO max]" and its brace variants.
// Bracket delimiters are inclusive, brace delimiters exclusive; the two ends
// are independent, so "[1 TO 5}" is min-inclusive and max-exclusive.
type RangeExpression struct {
	Field      string
	Min        Literal
	Max        Literal
	IncludeMin bool
	IncludeMax bool
	Position   int
}

func (n *RangeExpression) node()    {}
func (n *RangeExpression) Pos() int { return n.Position }

// EmptyExpression represents input with no content (empty string or "()")
type EmptyExpression struct {
	Position int
}

func (n *EmptyExpression) node()    {}
func (n *EmptyExpression) Pos() int { return n.Position }
