package parser

import (
	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/diag"
	"github.com/vellumlang/phpfront/lexer"
)

// parseAttributeGroups consumes zero or more leading `#[...]` groups.
func (p *Parser) parseAttributeGroups() []ast.AttributeGroup {
	var groups []ast.AttributeGroup
	for p.at(lexer.T_ATTRIBUTE) {
		start := p.advance()
		var attrs []ast.Attribute
		for !p.at(lexer.TOKEN_RBRACKET) && !p.atEOF() {
			nameTok, _ := p.expect(lexer.T_STRING)
			attr := ast.Attribute{Name: nameTok.Value}
			if p.at(lexer.TOKEN_LPAREN) {
				p.advance()
				for !p.at(lexer.TOKEN_RPAREN) && !p.atEOF() {
					var arg ast.AttributeArg
					if p.at(lexer.T_STRING) && p.peekAt(1).Type == lexer.TOKEN_COLON {
						n := p.advance()
						p.advance()
						arg.Name = n.Value
					}
					arg.Value = p.ParseExpression(PREC_ASSIGNMENT + 1)
					attr.Args = append(attr.Args, arg)
					if p.at(lexer.TOKEN_COMMA) {
						p.advance()
						continue
					}
					break
				}
				_, _ = p.expect(lexer.TOKEN_RPAREN)
			}
			attrs = append(attrs, attr)
			if p.at(lexer.TOKEN_COMMA) {
				p.advance()
				continue
			}
			break
		}
		close, _ := p.expect(lexer.TOKEN_RBRACKET)
		groups = append(groups, ast.AttributeGroup{Base: baseAt(p.nextID(), p.span(start, close)), Attributes: attrs})
	}
	return groups
}

// parseModifiers consumes a run of visibility/static/abstract/final/
// readonly keywords, validating conflicts per §4.2.2.
func (p *Parser) parseModifiers() ast.Modifier {
	var mods ast.Modifier
	seenVisibility := 0
	for {
		var m ast.Modifier
		tok := p.cur()
		switch tok.Type {
		case lexer.T_PUBLIC:
			m = ast.ModPublic
		case lexer.T_PROTECTED:
			m = ast.ModProtected
		case lexer.T_PRIVATE:
			m = ast.ModPrivate
		case lexer.T_STATIC:
			m = ast.ModStatic
		case lexer.T_ABSTRACT:
			m = ast.ModAbstract
		case lexer.T_FINAL:
			m = ast.ModFinal
		case lexer.T_READONLY:
			m = ast.ModReadonly
		default:
			return mods
		}
		if m == ast.ModPublic || m == ast.ModProtected || m == ast.ModPrivate {
			seenVisibility++
			if seenVisibility > 1 {
				p.diags.Addf(diag.MultipleVisibilityModifiers, diag.Error, tok.Span(p.file), "multiple visibility modifiers")
			}
		}
		if mods&m != 0 {
			p.diags.Addf(diag.DuplicateModifier, diag.Error, tok.Span(p.file), "duplicate modifier")
		}
		if (mods&ast.ModAbstract != 0 && m == ast.ModFinal) || (mods&ast.ModFinal != 0 && m == ast.ModAbstract) {
			p.diags.Addf(diag.CannotUseFinalWithAbstract, diag.Error, tok.Span(p.file), "cannot use final with abstract")
		}
		mods |= m
		p.advance()
	}
}

func (p *Parser) parseParamList() []ast.Param {
	_, _ = p.expect(lexer.TOKEN_LPAREN)
	var params []ast.Param
	for !p.at(lexer.TOKEN_RPAREN) && !p.atEOF() {
		var param ast.Param
		param.Attributes = p.parseAttributeGroups()
		mods := p.parseModifiers()
		if mods&(ast.ModPublic|ast.ModProtected|ast.ModPrivate) != 0 {
			switch {
			case mods&ast.ModPublic != 0:
				param.PromoteVisibility = "public"
			case mods&ast.ModProtected != 0:
				param.PromoteVisibility = "protected"
			case mods&ast.ModPrivate != 0:
				param.PromoteVisibility = "private"
			}
			param.PromoteReadonly = mods&ast.ModReadonly != 0
		}
		if p.atTypeStart() {
			param.Type = p.parseType()
		}
		if p.at(lexer.TOKEN_AMPERSAND) {
			p.advance()
			param.ByRef = true
		}
		if p.at(lexer.T_ELLIPSIS) {
			ell := p.advance()
			param.Variadic = true
			if param.PromoteVisibility != "" {
				p.diags.Addf(diag.PromotedPropertyCannotBeVariadic, diag.Error, ell.Span(p.file), "promoted property cannot be variadic")
			}
		}
		nameTok, _ := p.expect(lexer.T_VARIABLE)
		param.Name = nameTok.Value
		if p.at(lexer.TOKEN_EQUAL) {
			p.advance()
			param.Default = p.ParseExpression(PREC_ASSIGNMENT + 1)
		}
		params = append(params, param)
		if p.at(lexer.TOKEN_COMMA) {
			p.advance()
			continue
		}
		break
	}
	_, _ = p.expect(lexer.TOKEN_RPAREN)
	return params
}

func (p *Parser) parseFunctionDecl() ast.Statement {
	return p.parseFunctionDeclWithAttrs(nil)
}

func (p *Parser) parseFunctionDeclWithAttrs(attrs []ast.AttributeGroup) ast.Statement {
	start := p.advance() // function
	byRefReturn := false
	if p.at(lexer.TOKEN_AMPERSAND) {
		p.advance()
		byRefReturn = true
	}
	nameTok, _ := p.expect(lexer.T_STRING)
	params := p.parseParamList()
	var retType *ast.Type
	if p.at(lexer.TOKEN_COLON) {
		p.advance()
		retType = p.parseType()
	}
	var body *ast.Block
	if p.at(lexer.TOKEN_LBRACE) {
		body = p.parseBlock()
	} else {
		p.skipStatementTerminator()
	}
	return &ast.FunctionDecl{
		Base: baseAt(p.nextID(), p.spanFrom(start)), Name: nameTok.Value, Params: params,
		ReturnType: retType, ByRefReturn: byRefReturn, Body: body, Attributes: attrs,
	}
}

func (p *Parser) parseClassLikeDecl() ast.Statement {
	return p.parseClassLikeDeclWithAttrs(nil)
}

func (p *Parser) parseClassLikeDeclWithAttrs(attrs []ast.AttributeGroup) ast.Statement {
	start := p.cur()
	mods := p.parseModifiers()
	var kind ast.ClassLikeKind
	switch p.cur().Type {
	case lexer.T_CLASS:
		kind = ast.ClassKind
	case lexer.T_INTERFACE:
		kind = ast.InterfaceKind
	case lexer.T_TRAIT:
		kind = ast.TraitKind
	case lexer.T_ENUM:
		kind = ast.EnumKind
	default:
		p.errorUnexpectedToken()
		p.advance()
		return &ast.ExprStmt{Base: baseAt(p.nextID(), start.Span(p.file)), Expr: p.missingExpr()}
	}
	p.advance()
	nameTok, _ := p.expect(lexer.T_STRING)
	cl := p.parseClassLikeBody(kind, nameTok.Value)
	cl.Modifiers = mods
	cl.Attributes = attrs
	cl.Base = baseAt(cl.ID, p.spanFrom(start))
	if mods&ast.ModFinal != 0 && mods&ast.ModAbstract != 0 {
		p.diags.Addf(diag.CannotUseFinalWithAbstract, diag.Error, start.Span(p.file), "cannot use final with abstract")
	}
	return cl
}

// parseClassLikeBody parses everything from an optional backing type /
// extends / implements clause through the closing brace. The name may
// be empty (anonymous class).
func (p *Parser) parseClassLikeBody(kind ast.ClassLikeKind, name string) *ast.ClassLike {
	cl := &ast.ClassLike{Base: baseAt(p.nextID(), p.cur().Span(p.file)), Kind: kind, Name: name}

	if kind == ast.EnumKind && p.at(lexer.TOKEN_COLON) {
		p.advance()
		cl.BackingType = p.parseType()
		if cl.BackingType.Kind != ast.TInt && cl.BackingType.Kind != ast.TString {
			p.diags.Addf(diag.InvalidBackedEnumType, diag.Error, p.cur().Span(p.file), "backed enum type must be int or string")
		}
	}

	if p.at(lexer.T_EXTENDS) {
		p.advance()
		for {
			cl.Extends = append(cl.Extends, p.parseTypeName())
			if p.at(lexer.TOKEN_COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if p.at(lexer.T_IMPLEMENTS) {
		p.advance()
		for {
			cl.Implements = append(cl.Implements, p.parseTypeName())
			if p.at(lexer.TOKEN_COMMA) {
				p.advance()
				continue
			}
			break
		}
	}

	_, _ = p.expect(lexer.TOKEN_LBRACE)
	for !p.at(lexer.TOKEN_RBRACE) && !p.atEOF() {
		p.parseClassMember(cl)
	}
	_, _ = p.expect(lexer.TOKEN_RBRACE)
	return cl
}

func (p *Parser) parseClassMember(cl *ast.ClassLike) {
	attrs := p.parseAttributeGroups()

	if p.at(lexer.T_USE) {
		cl.TraitUses = append(cl.TraitUses, p.parseTraitUse())
		return
	}
	if cl.Kind == ast.EnumKind && p.at(lexer.T_CASE) {
		cl.EnumCases = append(cl.EnumCases, p.parseEnumCase())
		return
	}

	mods := p.parseModifiers()
	if p.at(lexer.T_CONST) {
		p.advance()
		if p.atTypeStart() && !(p.at(lexer.T_STRING) && p.peekAt(1).Type == lexer.TOKEN_EQUAL) {
			p.parseType()
		}
		if mods&ast.ModFinal != 0 && mods&ast.ModPrivate != 0 {
			p.diags.Addf(diag.CannotUseFinalWithPrivateOnConstant, diag.Error, p.cur().Span(p.file), "cannot use final with private on a constant")
		}
		var items []ast.ConstDeclItem
		for {
			nameTok, _ := p.expect(lexer.T_STRING)
			_, _ = p.expect(lexer.TOKEN_EQUAL)
			value := p.ParseExpression(PREC_ASSIGNMENT + 1)
			items = append(items, ast.ConstDeclItem{Name: nameTok.Value, Value: value})
			if p.at(lexer.TOKEN_COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.skipStatementTerminator()
		cl.Consts = append(cl.Consts, &ast.ConstStmt{Base: baseAt(p.nextID(), p.cur().Span(p.file)), Items: items})
		return
	}

	if p.at(lexer.T_FUNCTION) {
		fn := p.parseFunctionDeclWithAttrs(attrs)
		fnDecl := fn.(*ast.FunctionDecl)
		fnDecl.Static = mods&ast.ModStatic != 0
		if mods&ast.ModAbstract != 0 && fnDecl.Body != nil && cl.Kind != ast.InterfaceKind {
			p.diags.Addf(diag.AbstractMethodInNonAbstractClass, diag.Error, fnDecl.Span, "abstract method cannot have a body")
		}
		cl.Methods = append(cl.Methods, fnDecl)
		return
	}

	if p.at(lexer.T_VAR) {
		p.advance()
		mods |= ast.ModPublic
	}

	var typ *ast.Type
	if p.atTypeStart() {
		typ = p.parseType()
	}
	if mods&ast.ModReadonly != 0 && typ == nil {
		p.diags.Addf(diag.ReadonlyPropertyMustHaveType, diag.Error, p.cur().Span(p.file), "readonly property must have a type")
	}
	if mods&ast.ModReadonly != 0 && mods&ast.ModStatic != 0 {
		p.diags.Addf(diag.StaticPropertyCannotBeReadonly, diag.Error, p.cur().Span(p.file), "static property cannot be readonly")
	}
	var items []ast.PropertyDeclItem
	for {
		nameTok, _ := p.expect(lexer.T_VARIABLE)
		item := ast.PropertyDeclItem{Name: nameTok.Value}
		if p.at(lexer.TOKEN_EQUAL) {
			p.advance()
			item.Default = p.ParseExpression(PREC_ASSIGNMENT + 1)
			if mods&ast.ModReadonly != 0 {
				p.diags.Addf(diag.ReadonlyPropertyCannotHaveDefaultValue, diag.Error, p.cur().Span(p.file), "readonly property cannot have a default value")
			}
		}
		items = append(items, item)
		if p.at(lexer.TOKEN_COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.skipStatementTerminator()
	cl.Properties = append(cl.Properties, &ast.PropertyDecl{Modifiers: mods, Type: typ, Items: items, Attributes: attrs})
}

func (p *Parser) parseTraitUse() *ast.TraitUseStmt {
	start := p.advance()
	var traits []string
	for {
		traits = append(traits, p.parseTypeName())
		if p.at(lexer.TOKEN_COMMA) {
			p.advance()
			continue
		}
		break
	}
	var adaptations []ast.TraitUseAdaptation
	if p.at(lexer.TOKEN_LBRACE) {
		p.advance()
		for !p.at(lexer.TOKEN_RBRACE) && !p.atEOF() {
			adaptations = append(adaptations, p.parseTraitAdaptation())
		}
		_, _ = p.expect(lexer.TOKEN_RBRACE)
	} else {
		p.skipStatementTerminator()
	}
	return &ast.TraitUseStmt{Base: baseAt(p.nextID(), p.spanFrom(start)), Traits: traits, Adaptations: adaptations}
}

func (p *Parser) parseTraitAdaptation() ast.TraitUseAdaptation {
	var a ast.TraitUseAdaptation
	first := p.parseTypeName()
	if p.at(lexer.T_PAAMAYIM_NEKUDOTAYIM) {
		p.advance()
		method, _ := p.expect(lexer.T_STRING)
		a.Trait = first
		a.Method = method.Value
	} else {
		a.Method = first
	}
	if p.at(lexer.T_INSTEADOF) {
		p.advance()
		for {
			a.InsteadOf = append(a.InsteadOf, p.parseTypeName())
			if p.at(lexer.TOKEN_COMMA) {
				p.advance()
				continue
			}
			break
		}
	} else if p.at(lexer.T_AS) {
		p.advance()
		switch p.cur().Type {
		case lexer.T_PUBLIC:
			a.AsVisibility = ast.ModPublic
			p.advance()
		case lexer.T_PROTECTED:
			a.AsVisibility = ast.ModProtected
			p.advance()
		case lexer.T_PRIVATE:
			a.AsVisibility = ast.ModPrivate
			p.advance()
		}
		if p.at(lexer.T_STRING) {
			alias := p.advance()
			a.AsAlias = alias.Value
		}
	}
	p.skipStatementTerminator()
	return a
}

func (p *Parser) parseEnumCase() *ast.EnumCaseDecl {
	start := p.advance()
	nameTok, _ := p.expect(lexer.T_STRING)
	decl := &ast.EnumCaseDecl{Name: nameTok.Value}
	if p.at(lexer.TOKEN_EQUAL) {
		p.advance()
		decl.Value = p.ParseExpression(PREC_ASSIGNMENT + 1)
	}
	p.skipStatementTerminator()
	decl.Base = baseAt(p.nextID(), p.spanFrom(start))
	return decl
}
