package grammar

// TokenType identifies a lexical token class
type TokenType int

const (
	TOKEN_EOF TokenType = iota
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_LBRACKET
	TOKEN_RBRACKET
	TOKEN_LBRACE
	TOKEN_RBRACE
	TOKEN_COLON
	TOKEN_EQUAL
	TOKEN_NOT_EQUAL
	TOKEN_GREATER
	TOKEN_GREATER_EQUAL
	TOKEN_LESS
	TOKEN_LESS_EQUAL
	TOKEN_MINUS
	TOKEN_WORD
	TOKEN_STRING
	TOKEN_NUMBER
)

// Token is a single lexical unit with its source position
type Token struct {
	Type     TokenType
	Value    string
	Quoted   bool // TOKEN_STRING only: distinguishes "42" from 42
	Position int
	Line     int
	Column   int
}

var tokenNames = map[TokenType]string{
	TOKEN_EOF:           "end of input",
	TOKEN_LPAREN:        "'('",
	TOKEN_RPAREN:        "')'",
	TOKEN_LBRACKET:      "'['",
	TOKEN_RBRACKET:      "']'",
	TOKEN_LBRACE:        "'{'",
	TOKEN_RBRACE:        "'}'",
	TOKEN_COLON:         "':'",
	TOKEN_EQUAL:         "'='",
	TOKEN_NOT_EQUAL:     "'!='",
	TOKEN_GREATER:       "'>'",
	TOKEN_GREATER_EQUAL: "'>='",
	TOKEN_LESS:          "'<'",
	TOKEN_LESS_EQUAL:    "'<='",
	TOKEN_MINUS:         "'-'",
	TOKEN_WORD:          "word",
	TOKEN_STRING:        "quoted string",
	TOKEN_NUMBER:        "number",
}

// Name returns a human-readable token class name for error messages
func (t TokenType) Name() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown token"
}
