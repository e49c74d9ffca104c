// Package parser turns a token stream into statements plus diagnostics:
// a Pratt-style expression parser feeding a recursive-descent statement
// and declaration parser, grounded on the teacher's PrattParser registry
// idiom (prefix/infix function tables keyed by token type) but retargeted
// at ast.Statement/ast.Expression instead of a VM-facing AST.
package parser

import (
	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/bytestring"
	"github.com/vellumlang/phpfront/diag"
	"github.com/vellumlang/phpfront/lexer"
)

// Precedence mirrors §4.2.1, lowest to highest.
type Precedence int

const (
	LOWEST Precedence = iota
	PREC_PRINT_YIELD
	PREC_ASSIGNMENT
	PREC_TERNARY
	PREC_LOGICAL_OR_KW // "or"
	PREC_LOGICAL_XOR_KW
	PREC_LOGICAL_AND_KW // "and"
	PREC_COALESCE
	PREC_BOOLEAN_OR
	PREC_BOOLEAN_AND
	PREC_BITWISE_OR
	PREC_BITWISE_XOR
	PREC_BITWISE_AND
	PREC_EQUALITY
	PREC_RELATIONAL
	PREC_SHIFT
	PREC_ADDITIVE
	PREC_MULTIPLICATIVE
	PREC_INSTANCEOF
	PREC_UNARY
	PREC_POW
	PREC_POSTFIX
	PREC_MEMBER
)

type assoc int

const (
	assocLeft assoc = iota
	assocRight
	assocNone
)

type opInfo struct {
	prec  Precedence
	assoc assoc
}

var binaryPrecedence = map[lexer.TokenType]opInfo{
	lexer.T_LOGICAL_OR:  {PREC_LOGICAL_OR_KW, assocLeft},
	lexer.T_LOGICAL_XOR: {PREC_LOGICAL_XOR_KW, assocLeft},
	lexer.T_LOGICAL_AND: {PREC_LOGICAL_AND_KW, assocLeft},

	lexer.T_COALESCE: {PREC_COALESCE, assocRight},

	lexer.T_BOOLEAN_OR:  {PREC_BOOLEAN_OR, assocLeft},
	lexer.T_BOOLEAN_AND: {PREC_BOOLEAN_AND, assocLeft},

	lexer.TOKEN_PIPE:      {PREC_BITWISE_OR, assocLeft},
	lexer.TOKEN_CARET:     {PREC_BITWISE_XOR, assocLeft},
	lexer.TOKEN_AMPERSAND: {PREC_BITWISE_AND, assocLeft},

	lexer.T_IS_EQUAL:         {PREC_EQUALITY, assocNone},
	lexer.T_IS_NOT_EQUAL:     {PREC_EQUALITY, assocNone},
	lexer.T_IS_IDENTICAL:     {PREC_EQUALITY, assocNone},
	lexer.T_IS_NOT_IDENTICAL: {PREC_EQUALITY, assocNone},
	lexer.T_SPACESHIP:        {PREC_EQUALITY, assocNone},

	lexer.TOKEN_LT:               {PREC_RELATIONAL, assocNone},
	lexer.TOKEN_GT:               {PREC_RELATIONAL, assocNone},
	lexer.T_IS_SMALLER_OR_EQUAL:  {PREC_RELATIONAL, assocNone},
	lexer.T_IS_GREATER_OR_EQUAL:  {PREC_RELATIONAL, assocNone},

	lexer.T_SL: {PREC_SHIFT, assocLeft},
	lexer.T_SR: {PREC_SHIFT, assocLeft},

	lexer.TOKEN_PLUS:  {PREC_ADDITIVE, assocLeft},
	lexer.TOKEN_MINUS: {PREC_ADDITIVE, assocLeft},
	lexer.TOKEN_DOT:   {PREC_ADDITIVE, assocLeft},

	lexer.TOKEN_MULTIPLY: {PREC_MULTIPLICATIVE, assocLeft},
	lexer.TOKEN_DIVIDE:   {PREC_MULTIPLICATIVE, assocLeft},
	lexer.TOKEN_MODULO:   {PREC_MULTIPLICATIVE, assocLeft},

	lexer.T_INSTANCEOF: {PREC_INSTANCEOF, assocNone},

	lexer.T_POW: {PREC_POW, assocRight},
}

var assignmentOps = map[lexer.TokenType]bool{
	lexer.TOKEN_EQUAL:       true,
	lexer.T_PLUS_EQUAL:      true,
	lexer.T_MINUS_EQUAL:     true,
	lexer.T_MUL_EQUAL:       true,
	lexer.T_DIV_EQUAL:       true,
	lexer.T_POW_EQUAL:       true,
	lexer.T_MOD_EQUAL:       true,
	lexer.T_CONCAT_EQUAL:    true,
	lexer.T_COALESCE_EQUAL:  true,
	lexer.T_AND_EQUAL:       true,
	lexer.T_OR_EQUAL:        true,
	lexer.T_XOR_EQUAL:       true,
	lexer.T_SL_EQUAL:        true,
	lexer.T_SR_EQUAL:        true,
}

// Parser walks a token slice exactly once, left to right, producing a
// statement list plus an accumulated diagnostic list. It never
// backtracks over unbounded input (§4.2, error recovery is local).
type Parser struct {
	tokens []lexer.Token
	pos    int
	file   bytestring.FileID
	ids    *ast.NodeIDAllocator
	diags  diag.List

	namespaceMode   namespaceMode
	sawNamespace    bool
}

type namespaceMode int

const (
	namespaceModeUnknown namespaceMode = iota
	namespaceModeBraced
	namespaceModeUnbraced
)

// New builds a Parser over an already-lexed token slice. The lexer emits
// `&` as T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG or
// T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG; the grammar matches one
// TOKEN_AMPERSAND and does its own lookahead, so a copy of the slice is
// taken with both folded into it.
func New(tokens []lexer.Token, file bytestring.FileID) *Parser {
	toks := make([]lexer.Token, len(tokens))
	copy(toks, tokens)
	for i := range toks {
		if toks[i].Type == lexer.T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG || toks[i].Type == lexer.T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG {
			toks[i].Type = lexer.TOKEN_AMPERSAND
		}
	}
	return &Parser{
		tokens: toks,
		file:   file,
		ids:    ast.NewNodeIDAllocator(),
	}
}

// Parse runs the statement parser to EOF, returning every top-level
// statement plus the accumulated diagnostics. It never panics on
// malformed input: unexpected tokens become Missing nodes (§4.2.4).
func Parse(src string, file bytestring.FileID) ([]ast.Statement, diag.List) {
	tokens, lexErr := lexer.TokenizeFile(src, file)
	p := New(tokens, file)
	if lexErr != nil {
		if se, ok := lexErr.(*lexer.SyntaxError); ok {
			p.diags.Add(se.Diagnostic)
		}
	}
	stmts := p.ParseProgram()
	return stmts, p.diags
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.T_EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return lexer.Token{Type: lexer.T_EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) atEOF() bool { return p.cur().Type == lexer.T_EOF }

func (p *Parser) nextID() ast.NodeID { return p.ids.Next() }

func (p *Parser) span(start, end lexer.Token) bytestring.Span {
	s := start.Span(p.file)
	e := end.Span(p.file)
	if e.End < s.Start {
		return s
	}
	return bytestring.Span{Start: s.Start, End: e.End, File: p.file}
}

func (p *Parser) spanFrom(start lexer.Token) bytestring.Span {
	prevIdx := p.pos - 1
	if prevIdx < 0 {
		return start.Span(p.file)
	}
	return p.span(start, p.tokens[prevIdx])
}

// expect consumes the current token if it has the given type, recording
// ExpectedToken otherwise and leaving the cursor in place so error
// recovery elsewhere can still make progress.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	p.errorExpectedToken(tt)
	return p.cur(), false
}

func (p *Parser) errorExpectedToken(expected lexer.TokenType) {
	cur := p.cur()
	p.diags.Add(diag.New(diag.ExpectedToken, diag.Error, cur.Span(p.file),
		"expected token "+expected.String()+", found "+cur.Type.String()))
}

func (p *Parser) errorUnexpectedToken() {
	cur := p.cur()
	p.diags.Add(diag.New(diag.UnexpectedToken, diag.Error, cur.Span(p.file),
		"unexpected token "+cur.Type.String()))
}

// missingExpr builds a Missing expression at the current (zero-width)
// position and does not advance — callers still own recovery.
func (p *Parser) missingExpr() ast.Expression {
	return ast.NewMissingExpr(p.cur().Position.Offset, p.file)
}

func (p *Parser) skipStatementTerminator() {
	if p.at(lexer.TOKEN_SEMICOLON) {
		p.advance()
		return
	}
	if p.at(lexer.T_CLOSE_TAG) || p.atEOF() {
		return
	}
	p.errorExpectedToken(lexer.TOKEN_SEMICOLON)
}
