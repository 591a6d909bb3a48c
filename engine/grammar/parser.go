package grammar

import (
	"fmt"
	"strings"
)

// Parser implements a recursive descent parser over the token stream.
// Precedence, loosest first: OR, AND, NOT/'-', primary.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse is the package-level entry point. It tokenizes the input and returns
// the parse tree, or a SyntaxError on malformed input. Empty input yields an
// EmptyExpression rather than an error; rejecting it is the caller's call.
func Parse(input string) (Node, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return &EmptyExpression{}, nil
	}

	p := &Parser{tokens: tokens}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	// Ensure all tokens were consumed
	if !p.isAtEnd() {
		tok := p.current()
		return nil, NewSyntaxError(tok, fmt.Sprintf("unexpected %s '%s'", tok.Type.Name(), tok.Value))
	}

	return node, nil
}

func (p *Parser) parseExpression() (Node, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.matchKeyword("OR") {
		opTok := p.previous()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpression{Operator: "OR", Left: left, Right: right, Position: opTok.Position}
	}

	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.matchKeyword("AND") {
		opTok := p.previous()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpression{Operator: "AND", Left: left, Right: right, Position: opTok.Position}
	}

	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.matchKeyword("NOT") {
		opTok := p.previous()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOperator{Operator: "NOT", Operand: operand, Position: opTok.Position}, nil
	}

	if p.check(TOKEN_MINUS) {
		opTok := p.current()
		p.pos++
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &UnaryOperator{Operator: "-", Operand: operand, Position: opTok.Position}, nil
	}

	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Node, error) {
	if p.isAtEnd() {
		return nil, p.errorAtEnd("unexpected end of input")
	}

	tok := p.current()

	switch tok.Type {
	case TOKEN_LPAREN:
		p.pos++
		if p.check(TOKEN_RPAREN) {
			p.pos++
			return &ParenthesizedExpression{
				Expression: &EmptyExpression{Position: tok.Position},
				Position:   tok.Position,
			}, nil
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if !p.check(TOKEN_RPAREN) {
			return nil, p.errorAtEnd("unterminated parenthesis")
		}
		p.pos++
		return &ParenthesizedExpression{Expression: inner, Position: tok.Position}, nil

	case TOKEN_WORD, TOKEN_STRING, TOKEN_NUMBER:
		return p.parseTag()

	default:
		return nil, NewSyntaxError(tok, fmt.Sprintf("unexpected %s '%s'", tok.Type.Name(), tok.Value))
	}
}

// parseTag handles "field:value", "field:>value", ranges, and bare values
func (p *Parser) parseTag() (Node, error) {
	tok := p.current()

	// Bare value: no colon follows, or the token cannot name a field
	if tok.Type != TOKEN_WORD || !p.checkNext(TOKEN_COLON) {
		// AND/OR reaching primary position have no left operand
		if tok.Type == TOKEN_WORD && !tok.Quoted &&
			(strings.EqualFold(tok.Value, "AND") || strings.EqualFold(tok.Value, "OR")) {
			return nil, NewSyntaxError(tok, fmt.Sprintf("dangling operator '%s'", tok.Value))
		}
		p.pos++
		return &Tag{
			Field:    "",
			Operator: ":",
			Value:    Literal{Raw: tok.Value, Quoted: tok.Quoted, Position: tok.Position},
			Position: tok.Position,
		}, nil
	}

	field := tok.Value
	p.pos += 2 // field and colon

	operator := ":"
	if !p.isAtEnd() {
		switch p.current().Type {
		case TOKEN_EQUAL:
			operator = ":="
			p.pos++
		case TOKEN_NOT_EQUAL:
			operator = ":!="
			p.pos++
		case TOKEN_GREATER:
			operator = ":>"
			p.pos++
		case TOKEN_GREATER_EQUAL:
			operator = ":>="
			p.pos++
		case TOKEN_LESS:
			operator = ":<"
			p.pos++
		case TOKEN_LESS_EQUAL:
			operator = ":<="
			p.pos++
		}
	}

	if !p.isAtEnd() && operator == ":" {
		switch p.current().Type {
		case TOKEN_LBRACKET:
			return p.parseRange(tok, field, true)
		case TOKEN_LBRACE:
			return p.parseRange(tok, field, false)
		}
	}

	if p.isAtEnd() {
		return nil, p.errorAtEnd(fmt.Sprintf("missing value for field '%s'", field))
	}

	valueTok := p.current()
	switch valueTok.Type {
	case TOKEN_WORD, TOKEN_STRING, TOKEN_NUMBER:
		p.pos++
		return &Tag{
			Field:    field,
			Operator: operator,
			Value:    Literal{Raw: valueTok.Value, Quoted: valueTok.Quoted, Position: valueTok.Position},
			Position: tok.Position,
		}, nil
	default:
		return nil, NewSyntaxError(valueTok,
			fmt.Sprintf("expected a value for field '%s', got %s", field, valueTok.Type.Name()))
	}
}

// parseRange handles "field:[min TO max]" with independent inclusivity per end
func (p *Parser) parseRange(fieldTok Token, field string, includeMin bool) (Node, error) {
	p.pos++ // opening delimiter

	min, err := p.rangeBound(field)
	if err != nil {
		return nil, err
	}

	if !p.matchKeyword("TO") {
		if p.isAtEnd() {
			return nil, p.errorAtEnd(fmt.Sprintf("unterminated range for field '%s'", field))
		}
		return nil, NewSyntaxError(p.current(), fmt.Sprintf("expected TO in range for field '%s'", field))
	}

	max, err := p.rangeBound(field)
	if err != nil {
		return nil, err
	}

	if p.isAtEnd() {
		return nil, p.errorAtEnd(fmt.Sprintf("unterminated range for field '%s'", field))
	}

	var includeMax bool
	switch p.current().Type {
	case TOKEN_RBRACKET:
		includeMax = true
	case TOKEN_RBRACE:
		includeMax = false
	default:
		return nil, NewSyntaxError(p.current(), fmt.Sprintf("unterminated range for field '%s'", field))
	}
	p.pos++

	return &RangeExpression{
		Field:      field,
		Min:        min,
		Max:        max,
		IncludeMin: includeMin,
		IncludeMax: includeMax,
		Position:   fieldTok.Position,
	}, nil
}

func (p *Parser) rangeBound(field string) (Literal, error) {
	if p.isAtEnd() {
		return Literal{}, p.errorAtEnd(fmt.Sprintf("unterminated range for field '%s'", field))
	}
	tok := p.current()
	switch tok.Type {
	case TOKEN_WORD, TOKEN_STRING, TOKEN_NUMBER:
		p.pos++
		return Literal{Raw: tok.Value, Quoted: tok.Quoted, Position: tok.Position}, nil
	default:
		return Literal{}, NewSyntaxError(tok,
			fmt.Sprintf("expected a range bound for field '%s', got %s", field, tok.Type.Name()))
	}
}

// ----- token stream helpers -----

func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

func (p *Parser) previous() Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) check(tokenType TokenType) bool {
	return !p.isAtEnd() && p.tokens[p.pos].Type == tokenType
}

func (p *Parser) checkNext(tokenType TokenType) bool {
	return p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Type == tokenType
}

// matchKeyword consumes a word token matching the keyword, case-insensitively
func (p *Parser) matchKeyword(keyword string) bool {
	if !p.check(TOKEN_WORD) {
		return false
	}
	if !strings.EqualFold(p.tokens[p.pos].Value, keyword) {
		return false
	}
	p.pos++
	return true
}

func (p *Parser) errorAtEnd(message string) *SyntaxError {
	if len(p.tokens) == 0 {
		return &SyntaxError{Message: message, Line: 1, Column: 1}
	}
	last := p.tokens[len(p.tokens)-1]
	return &SyntaxError{
		Message:  message,
		Position: last.Position + len(last.Value),
		Line:     last.Line,
		Column:   last.Column + len(last.Value),
	}
}
