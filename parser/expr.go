package parser

import (
	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/diag"
	"github.com/vellumlang/phpfront/lexer"
)

// ParseExpression parses one expression at the given minimum precedence,
// the Pratt loop proper: a prefix (nud) parse followed by repeated infix
// (led) parses while the lookahead operator binds at least as tightly.
func (p *Parser) ParseExpression(min Precedence) ast.Expression {
	left := p.parsePrefix()
	return p.parseInfixLoop(left, min)
}

func (p *Parser) parseInfixLoop(left ast.Expression, min Precedence) ast.Expression {
	// precedence of the non-associative operator that built left, or -1
	lastNonAssoc := Precedence(-1)
	for {
		tok := p.cur()

		if info, ok := binaryPrecedence[tok.Type]; ok {
			if info.prec < min {
				break
			}
			if info.assoc == assocNone && info.prec == lastNonAssoc {
				// non-associative at the same level: diagnose, then continue
				// so parsing still makes progress (§4.2.1).
				p.diags.Addf(diag.UnexpectedToken, diag.Error,
					tok.Span(p.file), "operator %s is non-associative", tok.Type.String())
			}
			if info.assoc == assocLeft && info.prec == min {
				break
			}
			op := p.advance()
			nextMin := info.prec + 1
			if info.assoc == assocRight {
				nextMin = info.prec
			}
			right := p.ParseExpression(nextMin)
			left = p.finishBinary(left, op, right)
			lastNonAssoc = -1
			if info.assoc == assocNone {
				lastNonAssoc = info.prec
			}
			continue
		}

		if assignmentOps[tok.Type] {
			if PREC_ASSIGNMENT < min {
				break
			}
			op := p.advance()
			value := p.ParseExpression(PREC_ASSIGNMENT)
			left = p.finishAssign(left, op, value)
			left = p.applyAssignmentShift(left)
			continue
		}

		switch tok.Type {
		case lexer.TOKEN_QUESTION:
			if PREC_TERNARY < min {
				return left
			}
			left = p.parseTernary(left)
			continue
		case lexer.T_INSTANCEOF:
			if PREC_INSTANCEOF < min {
				return left
			}
			left = p.parseInstanceof(left)
			continue
		case lexer.TOKEN_LPAREN:
			if PREC_POSTFIX < min {
				return left
			}
			left = p.parseCallTail(left)
			continue
		case lexer.TOKEN_LBRACKET:
			if PREC_POSTFIX < min {
				return left
			}
			left = p.parseIndexTail(left)
			continue
		case lexer.T_OBJECT_OPERATOR, lexer.T_NULLSAFE_OBJECT_OPERATOR:
			if PREC_MEMBER < min {
				return left
			}
			left = p.parsePropertyTail(left)
			continue
		case lexer.T_PAAMAYIM_NEKUDOTAYIM:
			if PREC_MEMBER < min {
				return left
			}
			left = p.parseStaticAccessTail(left)
			continue
		case lexer.T_INC, lexer.T_DEC:
			if PREC_POSTFIX < min {
				return left
			}
			op := p.advance()
			left = &ast.IncDec{
				Base:    baseAt(p.nextID(), p.span(tokenAt(left, p), op)),
				Operand: left,
				Inc:     op.Type == lexer.T_INC,
				Prefix:  false,
			}
			continue
		}

		return left
	}
	return left
}

// applyAssignmentShift implements §4.2.1's assignment-shift rule: if the
// just-built Assign's Target is itself a binary op whose RHS is a legal
// assignment target, the assignment is re-rooted under that binary op
// (e.g. `true !== $a = true` becomes `true !== ($a = true)`).
func (p *Parser) applyAssignmentShift(expr ast.Expression) ast.Expression {
	assign, ok := expr.(*ast.Assign)
	if !ok {
		return expr
	}
	bin, ok := assign.Target.(*ast.BinaryOp)
	if !ok {
		return expr
	}
	if !isAssignable(bin.Right) {
		return expr
	}
	shifted := &ast.Assign{
		Base:   baseAt(p.nextID(), assign.Span),
		Target: bin.Right,
		Value:  assign.Value,
	}
	return &ast.BinaryOp{
		Base:  baseAt(p.nextID(), bin.Span),
		Op:    bin.Op,
		Left:  bin.Left,
		Right: shifted,
	}
}

func isAssignable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.SimpleVariable, *ast.VariableVariable, *ast.BracedVariableVariable,
		*ast.PropertyFetch, *ast.StaticPropertyFetch, *ast.ArrayDim, *ast.ListExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) finishBinary(left ast.Expression, op lexer.Token, right ast.Expression) ast.Expression {
	return &ast.BinaryOp{
		Base:  baseAt(p.nextID(), spanOf(left, right)),
		Op:    operatorSpelling(op),
		Left:  left,
		Right: right,
	}
}

func (p *Parser) finishAssign(target ast.Expression, op lexer.Token, value ast.Expression) ast.Expression {
	sp := spanOf(target, value)
	if op.Type == lexer.TOKEN_EQUAL {
		return &ast.Assign{Base: baseAt(p.nextID(), sp), Target: target, Value: value}
	}
	return &ast.CompoundAssign{Base: baseAt(p.nextID(), sp), Op: operatorSpelling(op), Target: target, Value: value}
}

// operatorSpelling prefers the literal lexeme (punctuation tokens keep
// their source spelling in Value) and falls back to the keyword's own
// text for word operators like "and"/"or"/"xor"/"instanceof".
func operatorSpelling(tok lexer.Token) string {
	if tok.Value != "" {
		return tok.Value
	}
	switch tok.Type {
	case lexer.T_LOGICAL_AND:
		return "and"
	case lexer.T_LOGICAL_OR:
		return "or"
	case lexer.T_LOGICAL_XOR:
		return "xor"
	case lexer.T_INSTANCEOF:
		return "instanceof"
	default:
		return tok.Type.String()
	}
}

func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	start := p.advance() // ?
	if p.at(lexer.TOKEN_COLON) {
		p.advance()
		elseExpr := p.ParseExpression(PREC_TERNARY)
		return &ast.Ternary{Base: baseAt(p.nextID(), spanOf(cond, elseExpr)), Cond: cond, Then: nil, Else: elseExpr}
	}
	then := p.ParseExpression(LOWEST)
	_, _ = p.expect(lexer.TOKEN_COLON)
	_ = start
	elseExpr := p.ParseExpression(PREC_TERNARY)
	return &ast.Ternary{Base: baseAt(p.nextID(), spanOf(cond, elseExpr)), Cond: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseInstanceof(operand ast.Expression) ast.Expression {
	p.advance()
	class := p.ParseExpression(PREC_INSTANCEOF + 1)
	return &ast.InstanceofExpr{Base: baseAt(p.nextID(), spanOf(operand, class)), Operand: operand, Class: class}
}

// parseCallTail parses `(args)`, including the closure-creation special
// case `(...)` (§4.2.1): a single spread-marker-only argument list with
// no underlying expression.
func (p *Parser) parseCallTail(callee ast.Expression) ast.Expression {
	open := p.advance() // (
	if p.at(lexer.T_ELLIPSIS) && p.peekAt(1).Type == lexer.TOKEN_RPAREN {
		p.advance()
		close := p.advance()
		return &ast.FuncCall{
			Base:            baseAt(p.nextID(), p.span(open, close)),
			Callee:          callee,
			ClosureCreation: true,
		}
	}
	args := p.parseArgList()
	close, _ := p.expect(lexer.TOKEN_RPAREN)
	return &ast.FuncCall{Base: baseAt(p.nextID(), p.span(open, close)), Callee: callee, Args: args}
}

func (p *Parser) parseArgList() []ast.Arg {
	var args []ast.Arg
	for !p.at(lexer.TOKEN_RPAREN) && !p.atEOF() {
		var a ast.Arg
		if p.at(lexer.T_ELLIPSIS) {
			p.advance()
			a.Spread = true
			a.Value = p.ParseExpression(LOWEST)
		} else if p.at(lexer.T_STRING) && p.peekAt(1).Type == lexer.TOKEN_COLON && p.peekAt(2).Type != lexer.TOKEN_COLON {
			nameTok := p.advance()
			p.advance() // :
			a.Name = nameTok.Value
			a.Value = p.ParseExpression(PREC_ASSIGNMENT + 1)
		} else {
			a.Value = p.ParseExpression(PREC_ASSIGNMENT + 1)
		}
		args = append(args, a)
		if p.at(lexer.TOKEN_COMMA) {
			p.advance()
			continue
		}
		break
	}
	return args
}

func (p *Parser) parseIndexTail(arr ast.Expression) ast.Expression {
	open := p.advance() // [
	if p.at(lexer.TOKEN_RBRACKET) {
		close := p.advance()
		return &ast.ArrayDim{Base: baseAt(p.nextID(), p.span(open, close)), Array: arr, Dim: nil}
	}
	dim := p.ParseExpression(LOWEST)
	close, _ := p.expect(lexer.TOKEN_RBRACKET)
	return &ast.ArrayDim{Base: baseAt(p.nextID(), p.span(open, close)), Array: arr, Dim: dim}
}

func (p *Parser) parsePropertyTail(obj ast.Expression) ast.Expression {
	opTok := p.advance()
	nullsafe := opTok.Type == lexer.T_NULLSAFE_OBJECT_OPERATOR
	member := p.parseMemberName()
	if p.at(lexer.TOKEN_LPAREN) {
		call := p.parseCallTail(member)
		fc := call.(*ast.FuncCall)
		return &ast.MethodCall{
			Base:            baseAt(p.nextID(), spanOf(obj, fc)),
			Object:          obj,
			Method:          fc.Callee,
			Nullsafe:        nullsafe,
			Args:            fc.Args,
			ClosureCreation: fc.ClosureCreation,
		}
	}
	return &ast.PropertyFetch{Base: baseAt(p.nextID(), spanOf(obj, member)), Object: obj, Property: member, Nullsafe: nullsafe}
}

// parseMemberName parses the token(s) after `->`/`?->`/`::`: a bare
// identifier, a `{expr}` dynamic name, or a `$var` dynamic name.
func (p *Parser) parseMemberName() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case lexer.T_STRING:
		p.advance()
		return ast.NewUnresolvedName(p.nextID(), tok.Span(p.file), tok.Value, ast.Unqualified)
	case lexer.T_VARIABLE:
		p.advance()
		return &ast.SimpleVariable{Base: baseAt(p.nextID(), tok.Span(p.file)), Name: tok.Value}
	case lexer.TOKEN_LBRACE:
		open := p.advance()
		inner := p.ParseExpression(LOWEST)
		close, _ := p.expect(lexer.TOKEN_RBRACE)
		return &ast.Paren{Base: baseAt(p.nextID(), p.span(open, close)), Inner: inner}
	default:
		p.errorUnexpectedToken()
		return p.missingExpr()
	}
}

func (p *Parser) parseStaticAccessTail(class ast.Expression) ast.Expression {
	p.advance() // ::
	if p.at(lexer.T_VARIABLE) {
		tok := p.advance()
		prop := &ast.SimpleVariable{Base: baseAt(p.nextID(), tok.Span(p.file)), Name: tok.Value}
		return &ast.StaticPropertyFetch{Base: baseAt(p.nextID(), spanOf(class, prop)), Class: class, Property: prop}
	}
	if p.at(lexer.T_CLASS) {
		tok := p.advance()
		return &ast.ClassConstFetch{Base: baseAt(p.nextID(), p.span(tokenAt(class, p), tok)), Class: class, Name: "class"}
	}
	if p.at(lexer.TOKEN_LBRACE) {
		// Self::{$expr}() dynamic static method.
		member := p.parseMemberName()
		if p.at(lexer.TOKEN_LPAREN) {
			call := p.parseCallTail(member)
			fc := call.(*ast.FuncCall)
			return &ast.StaticMethodCall{
				Base:            baseAt(p.nextID(), spanOf(class, fc)),
				Class:           class,
				Method:          fc.Callee,
				Args:            fc.Args,
				ClosureCreation: fc.ClosureCreation,
			}
		}
		return member
	}
	nameTok, ok := p.expect(lexer.T_STRING)
	if !ok {
		return p.missingExpr()
	}
	name := ast.NewUnresolvedName(p.nextID(), nameTok.Span(p.file), nameTok.Value, ast.Unqualified)
	if p.at(lexer.TOKEN_LPAREN) {
		call := p.parseCallTail(name)
		fc := call.(*ast.FuncCall)
		return &ast.StaticMethodCall{
			Base:            baseAt(p.nextID(), spanOf(class, fc)),
			Class:           class,
			Method:          fc.Callee,
			Args:            fc.Args,
			ClosureCreation: fc.ClosureCreation,
		}
	}
	return &ast.ClassConstFetch{Base: baseAt(p.nextID(), spanOf(class, name)), Class: class, Name: nameTok.Value}
}

// tokenAt synthesizes a zero-width token at e's span end, so p.span(a, b)
// can be reused to join a real token with an already-built expression
// (the Pratt loop builds expressions, not tokens, as it descends).
func tokenAt(e ast.Expression, p *Parser) lexer.Token {
	sp := e.NodeSpan()
	return lexer.Token{Position: lexer.Position{Offset: sp.End}, EndOffset: sp.End}
}
