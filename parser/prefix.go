package parser

import (
	"strings"

	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/diag"
	"github.com/vellumlang/phpfront/lexer"
)

// parsePrefix is the Pratt parser's nud: it dispatches on the current
// token to build the leaf or unary-prefixed expression the infix loop
// then extends.
func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case lexer.T_LNUMBER:
		p.advance()
		return &ast.IntLit{Base: baseAt(p.nextID(), tok.Span(p.file)), Value: tok.IntValue, Raw: tok.Value}
	case lexer.T_DNUMBER:
		p.advance()
		return &ast.FloatLit{Base: baseAt(p.nextID(), tok.Span(p.file)), Value: tok.FloatValue, Raw: tok.Value}
	case lexer.T_CONSTANT_ENCAPSED_STRING:
		p.advance()
		return &ast.StringLit{Base: baseAt(p.nextID(), tok.Span(p.file)), Value: []byte(tok.Value), Raw: tok.Value}
	case lexer.T_VARIABLE:
		p.advance()
		return &ast.SimpleVariable{Base: baseAt(p.nextID(), tok.Span(p.file)), Name: tok.Value}
	case lexer.TOKEN_DOLLAR:
		return p.parseDollarVariable()
	case lexer.T_STRING:
		p.advance()
		lower := strings.ToLower(tok.Value)
		switch lower {
		case "true":
			return &ast.BoolLit{Base: baseAt(p.nextID(), tok.Span(p.file)), Value: true}
		case "false":
			return &ast.BoolLit{Base: baseAt(p.nextID(), tok.Span(p.file)), Value: false}
		case "null":
			return &ast.NullLit{Base: baseAt(p.nextID(), tok.Span(p.file))}
		}
		return ast.NewUnresolvedName(p.nextID(), tok.Span(p.file), tok.Value, ast.Unqualified)
	case lexer.T_NAME_QUALIFIED:
		p.advance()
		return ast.NewUnresolvedName(p.nextID(), tok.Span(p.file), tok.Value, ast.Qualified)
	case lexer.T_NAME_FULLY_QUALIFIED:
		p.advance()
		return ast.NewUnresolvedName(p.nextID(), tok.Span(p.file), tok.Value, ast.FullyQualified)
	case lexer.T_NAME_RELATIVE:
		p.advance()
		return ast.NewUnresolvedName(p.nextID(), tok.Span(p.file), tok.Value, ast.RelativeToNamespace)
	case lexer.T_STATIC:
		p.advance()
		return ast.NewSpecialName(p.nextID(), tok.Span(p.file), ast.StaticName)

	case lexer.TOKEN_LPAREN:
		return p.parseParenOrCast()

	case lexer.TOKEN_MINUS, lexer.TOKEN_PLUS, lexer.TOKEN_EXCLAMATION, lexer.TOKEN_TILDE, lexer.TOKEN_AT:
		p.advance()
		operand := p.ParseExpression(PREC_UNARY)
		return &ast.UnaryOp{Base: baseAt(p.nextID(), p.span(tok, tokenAt(operand, p))), Op: tok.Value, Operand: operand}

	case lexer.T_INC, lexer.T_DEC:
		p.advance()
		operand := p.ParseExpression(PREC_UNARY)
		return &ast.IncDec{Base: baseAt(p.nextID(), p.span(tok, tokenAt(operand, p))), Operand: operand, Inc: tok.Type == lexer.T_INC, Prefix: true}

	case lexer.T_INT_CAST, lexer.T_DOUBLE_CAST, lexer.T_STRING_CAST, lexer.T_ARRAY_CAST,
		lexer.T_OBJECT_CAST, lexer.T_BOOL_CAST, lexer.T_UNSET_CAST, lexer.T_VOID_CAST:
		p.advance()
		operand := p.ParseExpression(PREC_UNARY)
		return &ast.CastExpr{Base: baseAt(p.nextID(), p.span(tok, tokenAt(operand, p))), Kind: castKindOf(tok.Type), Operand: operand}

	case lexer.T_PRINT:
		p.advance()
		value := p.ParseExpression(PREC_PRINT_YIELD)
		return &ast.PrintExpr{Base: baseAt(p.nextID(), p.span(tok, tokenAt(value, p))), Value: value}

	case lexer.T_CLONE:
		p.advance()
		operand := p.ParseExpression(PREC_MEMBER)
		return &ast.CloneExpr{Base: baseAt(p.nextID(), p.span(tok, tokenAt(operand, p))), Operand: operand}

	case lexer.T_THROW:
		p.advance()
		value := p.ParseExpression(LOWEST)
		return &ast.ThrowExpr{Base: baseAt(p.nextID(), p.span(tok, tokenAt(value, p))), Value: value}

	case lexer.T_YIELD:
		return p.parseYield()
	case lexer.T_YIELD_FROM:
		p.advance()
		src := p.ParseExpression(PREC_PRINT_YIELD)
		return &ast.YieldFromExpr{Base: baseAt(p.nextID(), p.span(tok, tokenAt(src, p))), Source: src}

	case lexer.T_NEW:
		return p.parseNew()

	case lexer.T_ISSET:
		return p.parseIsset()
	case lexer.T_EMPTY:
		p.advance()
		_, _ = p.expect(lexer.TOKEN_LPAREN)
		operand := p.ParseExpression(LOWEST)
		close, _ := p.expect(lexer.TOKEN_RPAREN)
		return &ast.EmptyExpr{Base: baseAt(p.nextID(), p.span(tok, close)), Operand: operand}
	case lexer.T_EVAL:
		p.advance()
		_, _ = p.expect(lexer.TOKEN_LPAREN)
		code := p.ParseExpression(LOWEST)
		close, _ := p.expect(lexer.TOKEN_RPAREN)
		return &ast.EvalExpr{Base: baseAt(p.nextID(), p.span(tok, close)), Code: code}
	case lexer.T_EXIT:
		p.advance()
		if p.at(lexer.TOKEN_LPAREN) {
			open := p.advance()
			if p.at(lexer.TOKEN_RPAREN) {
				close := p.advance()
				return &ast.DieExpr{Base: baseAt(p.nextID(), p.span(tok, close))}
			}
			value := p.ParseExpression(LOWEST)
			close, _ := p.expect(lexer.TOKEN_RPAREN)
			_ = open
			return &ast.DieExpr{Base: baseAt(p.nextID(), p.span(tok, close)), Value: value}
		}
		return &ast.DieExpr{Base: baseAt(p.nextID(), tok.Span(p.file))}

	case lexer.T_INCLUDE, lexer.T_INCLUDE_ONCE, lexer.T_REQUIRE, lexer.T_REQUIRE_ONCE:
		p.advance()
		path := p.ParseExpression(PREC_PRINT_YIELD)
		return &ast.IncludeExpr{Base: baseAt(p.nextID(), p.span(tok, tokenAt(path, p))), Kind: includeKindOf(tok.Type), Path: path}

	case lexer.T_MATCH:
		return p.parseMatch()

	case lexer.TOKEN_LBRACKET:
		return p.parseShortArray()
	case lexer.T_ARRAY:
		return p.parseLongArray()
	case lexer.T_LIST:
		return p.parseListExpr()

	case lexer.T_LINE:
		p.advance()
		return &ast.MagicConst{Base: baseAt(p.nextID(), tok.Span(p.file)), Kind: ast.MagicLine}
	case lexer.T_FILE:
		p.advance()
		return &ast.MagicConst{Base: baseAt(p.nextID(), tok.Span(p.file)), Kind: ast.MagicFile}
	case lexer.T_DIR:
		p.advance()
		return &ast.MagicConst{Base: baseAt(p.nextID(), tok.Span(p.file)), Kind: ast.MagicDir}
	case lexer.T_FUNC_C:
		p.advance()
		return &ast.MagicConst{Base: baseAt(p.nextID(), tok.Span(p.file)), Kind: ast.MagicFunction}
	case lexer.T_CLASS_C:
		p.advance()
		return &ast.MagicConst{Base: baseAt(p.nextID(), tok.Span(p.file)), Kind: ast.MagicClass}
	case lexer.T_TRAIT_C:
		p.advance()
		return &ast.MagicConst{Base: baseAt(p.nextID(), tok.Span(p.file)), Kind: ast.MagicTrait}
	case lexer.T_METHOD_C:
		p.advance()
		return &ast.MagicConst{Base: baseAt(p.nextID(), tok.Span(p.file)), Kind: ast.MagicMethod}
	case lexer.T_NS_C:
		p.advance()
		return &ast.MagicConst{Base: baseAt(p.nextID(), tok.Span(p.file)), Kind: ast.MagicNamespace}

	case lexer.T_ENCAPSED_AND_WHITESPACE, lexer.T_CURLY_OPEN, lexer.T_DOLLAR_OPEN_CURLY_BRACES:
		return p.parseInterpString()

	case lexer.T_START_HEREDOC:
		return p.parseHeredocOrNowdoc()

	case lexer.TOKEN_AMPERSAND:
		p.advance()
		operand := p.ParseExpression(PREC_UNARY)
		return &ast.RefExpr{Base: baseAt(p.nextID(), p.span(tok, tokenAt(operand, p))), Operand: operand}
	}

	p.errorUnexpectedToken()
	p.advance()
	return p.missingExpr()
}

func (p *Parser) parseDollarVariable() ast.Expression {
	tok := p.advance() // $
	switch {
	case p.at(lexer.T_VARIABLE):
		inner := p.advance()
		innerVar := &ast.SimpleVariable{Base: baseAt(p.nextID(), inner.Span(p.file)), Name: inner.Value}
		return &ast.VariableVariable{Base: baseAt(p.nextID(), p.span(tok, inner)), Inner: innerVar}
	case p.at(lexer.TOKEN_LBRACE):
		p.advance()
		inner := p.ParseExpression(LOWEST)
		close, _ := p.expect(lexer.TOKEN_RBRACE)
		return &ast.BracedVariableVariable{Base: baseAt(p.nextID(), p.span(tok, close)), Inner: inner}
	}
	p.errorUnexpectedToken()
	return p.missingExpr()
}

func castKindOf(tt lexer.TokenType) ast.CastKind {
	switch tt {
	case lexer.T_INT_CAST:
		return ast.CastInt
	case lexer.T_DOUBLE_CAST:
		return ast.CastFloat
	case lexer.T_STRING_CAST:
		return ast.CastString
	case lexer.T_ARRAY_CAST:
		return ast.CastArray
	case lexer.T_OBJECT_CAST:
		return ast.CastObject
	case lexer.T_BOOL_CAST:
		return ast.CastBool
	case lexer.T_UNSET_CAST:
		return ast.CastUnset
	default:
		return ast.CastString
	}
}

func includeKindOf(tt lexer.TokenType) ast.IncludeKind {
	switch tt {
	case lexer.T_INCLUDE:
		return ast.IncludeOnce
	case lexer.T_INCLUDE_ONCE:
		return ast.IncludeOnceOnly
	case lexer.T_REQUIRE:
		return ast.RequireKind
	default:
		return ast.RequireOnceKind
	}
}

func (p *Parser) parseYield() ast.Expression {
	start := p.advance()
	if p.at(lexer.TOKEN_SEMICOLON) || p.at(lexer.TOKEN_RPAREN) || p.at(lexer.TOKEN_RBRACKET) ||
		p.at(lexer.TOKEN_RBRACE) || p.atEOF() {
		return &ast.YieldExpr{Base: baseAt(p.nextID(), start.Span(p.file))}
	}
	first := p.ParseExpression(PREC_PRINT_YIELD)
	if p.at(lexer.T_DOUBLE_ARROW) {
		p.advance()
		value := p.ParseExpression(PREC_PRINT_YIELD)
		return &ast.YieldExpr{Base: baseAt(p.nextID(), p.span(start, tokenAt(value, p))), Key: first, Value: value}
	}
	return &ast.YieldExpr{Base: baseAt(p.nextID(), p.span(start, tokenAt(first, p))), Value: first}
}

func (p *Parser) parseNew() ast.Expression {
	start := p.advance() // new
	if p.at(lexer.T_CLASS) {
		return p.parseAnonymousClass(start)
	}
	class := p.ParseExpression(PREC_MEMBER)
	var args []ast.Arg
	end := tokenAt(class, p)
	if p.at(lexer.TOKEN_LPAREN) {
		call := p.parseCallTail(class)
		fc := call.(*ast.FuncCall)
		class = fc.Callee
		args = fc.Args
		end = tokenAt(fc, p)
	}
	return &ast.NewExpr{Base: baseAt(p.nextID(), p.span(start, end)), Class: class, Args: args}
}

func (p *Parser) parseAnonymousClass(start lexer.Token) ast.Expression {
	p.advance() // class
	var args []ast.Arg
	if p.at(lexer.TOKEN_LPAREN) {
		p.advance()
		args = p.parseArgList()
		_, _ = p.expect(lexer.TOKEN_RPAREN)
	}
	cl := p.parseClassLikeBody(ast.ClassKind, "")
	return &ast.AnonymousClass{Base: baseAt(p.nextID(), start.Span(p.file).Join(cl.NodeSpan())), Args: args, ClassLike: cl}
}

func (p *Parser) parseIsset() ast.Expression {
	start := p.advance()
	_, _ = p.expect(lexer.TOKEN_LPAREN)
	var operands []ast.Expression
	for !p.at(lexer.TOKEN_RPAREN) && !p.atEOF() {
		operands = append(operands, p.ParseExpression(PREC_ASSIGNMENT+1))
		if p.at(lexer.TOKEN_COMMA) {
			p.advance()
			continue
		}
		break
	}
	close, _ := p.expect(lexer.TOKEN_RPAREN)
	return &ast.IssetExpr{Base: baseAt(p.nextID(), p.span(start, close)), Operands: operands}
}

func (p *Parser) parseMatch() ast.Expression {
	start := p.advance()
	_, _ = p.expect(lexer.TOKEN_LPAREN)
	subject := p.ParseExpression(LOWEST)
	_, _ = p.expect(lexer.TOKEN_RPAREN)
	_, _ = p.expect(lexer.TOKEN_LBRACE)
	var arms []ast.MatchArm
	for !p.at(lexer.TOKEN_RBRACE) && !p.atEOF() {
		var arm ast.MatchArm
		if p.at(lexer.T_DEFAULT) {
			p.advance()
			arm.IsDefault = true
		} else {
			for {
				arm.Conditions = append(arm.Conditions, p.ParseExpression(PREC_ASSIGNMENT+1))
				if p.at(lexer.TOKEN_COMMA) {
					next := p.peekAt(1)
					if next.Type == lexer.T_DOUBLE_ARROW {
						break
					}
					p.advance()
					continue
				}
				break
			}
		}
		_, _ = p.expect(lexer.T_DOUBLE_ARROW)
		arm.Body = p.ParseExpression(PREC_ASSIGNMENT + 1)
		arms = append(arms, arm)
		if p.at(lexer.TOKEN_COMMA) {
			p.advance()
			continue
		}
		break
	}
	close, _ := p.expect(lexer.TOKEN_RBRACE)
	result := &ast.MatchExpr{Base: baseAt(p.nextID(), p.span(start, close)), Subject: subject, Arms: arms}
	seenDefault := false
	for _, arm := range arms {
		if arm.IsDefault {
			if seenDefault {
				p.diags.Addf(diag.CannotHaveMultipleDefaultArmsInMatch, diag.Error, close.Span(p.file),
					"match expression has more than one default arm")
			}
			seenDefault = true
		}
	}
	return result
}

func (p *Parser) parseShortArray() ast.Expression {
	start := p.advance()
	items := p.parseArrayItems(lexer.TOKEN_RBRACKET)
	close, _ := p.expect(lexer.TOKEN_RBRACKET)
	return &ast.ArrayExpr{Base: baseAt(p.nextID(), p.span(start, close)), Items: items}
}

func (p *Parser) parseLongArray() ast.Expression {
	start := p.advance() // array
	_, _ = p.expect(lexer.TOKEN_LPAREN)
	items := p.parseArrayItems(lexer.TOKEN_RPAREN)
	close, _ := p.expect(lexer.TOKEN_RPAREN)
	return &ast.ArrayExpr{Base: baseAt(p.nextID(), p.span(start, close)), Items: items, LongForm: true}
}

func (p *Parser) parseListExpr() ast.Expression {
	start := p.advance() // list
	_, _ = p.expect(lexer.TOKEN_LPAREN)
	items := p.parseArrayItems(lexer.TOKEN_RPAREN)
	close, _ := p.expect(lexer.TOKEN_RPAREN)
	return &ast.ListExpr{Base: baseAt(p.nextID(), p.span(start, close)), Items: items}
}

func (p *Parser) parseArrayItems(closing lexer.TokenType) []ast.ArrayItem {
	var items []ast.ArrayItem
	for !p.at(closing) && !p.atEOF() {
		var item ast.ArrayItem
		if p.at(lexer.T_ELLIPSIS) {
			p.advance()
			item.Spread = true
			item.Value = p.ParseExpression(PREC_ASSIGNMENT + 1)
			items = append(items, item)
		} else if p.at(lexer.TOKEN_COMMA) {
			// skipped slot in a destructuring list: `[, $b] = $pair`
			items = append(items, ast.ArrayItem{})
		} else {
			if p.at(lexer.TOKEN_AMPERSAND) {
				p.advance()
				item.ByRef = true
			}
			first := p.ParseExpression(PREC_ASSIGNMENT + 1)
			if p.at(lexer.T_DOUBLE_ARROW) {
				p.advance()
				if p.at(lexer.TOKEN_AMPERSAND) {
					p.advance()
					item.ByRef = true
				}
				item.Key = first
				item.Value = p.ParseExpression(PREC_ASSIGNMENT + 1)
			} else {
				item.Value = first
			}
			items = append(items, item)
		}
		if p.at(lexer.TOKEN_COMMA) {
			p.advance()
			continue
		}
		break
	}
	return items
}

func (p *Parser) parseParenOrCast() ast.Expression {
	start := p.advance() // (
	inner := p.ParseExpression(LOWEST)
	close, _ := p.expect(lexer.TOKEN_RPAREN)
	return &ast.Paren{Base: baseAt(p.nextID(), p.span(start, close)), Inner: inner}
}

// parseInterpString wraps the current token's text as a one-part
// InterpString. Nothing assembles a whole interpolated `"..."` run:
// TOKEN_QUOTE has no prefix rule, so such a string is reported as an
// unexpected token.
func (p *Parser) parseInterpString() ast.Expression {
	tok := p.advance()
	return &ast.InterpString{
		Base:  baseAt(p.nextID(), tok.Span(p.file)),
		Parts: []ast.InterpPart{{Text: tok.Value}},
	}
}

func (p *Parser) parseHeredocOrNowdoc() ast.Expression {
	start := p.advance() // T_START_HEREDOC
	var parts []ast.InterpPart
	for !p.at(lexer.T_END_HEREDOC) && !p.atEOF() {
		if p.at(lexer.T_ENCAPSED_AND_WHITESPACE) {
			tok := p.advance()
			parts = append(parts, ast.InterpPart{Text: tok.Value})
			continue
		}
		if p.at(lexer.T_VARIABLE) {
			tok := p.advance()
			parts = append(parts, ast.InterpPart{Expr: &ast.SimpleVariable{Base: baseAt(p.nextID(), tok.Span(p.file)), Name: tok.Value}})
			continue
		}
		if p.at(lexer.T_CURLY_OPEN) {
			p.advance()
			expr := p.ParseExpression(LOWEST)
			_, _ = p.expect(lexer.TOKEN_RBRACE)
			parts = append(parts, ast.InterpPart{Expr: expr})
			continue
		}
		break
	}
	end, _ := p.expect(lexer.T_END_HEREDOC)
	return &ast.Heredoc{Base: baseAt(p.nextID(), p.span(start, end)), Label: end.Value, Parts: parts}
}

