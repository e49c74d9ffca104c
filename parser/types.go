package parser

import (
	"strings"

	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/diag"
	"github.com/vellumlang/phpfront/lexer"
)

var builtinTypeKinds = map[string]ast.TypeKind{
	"mixed":    ast.TMixed,
	"void":     ast.TVoid,
	"never":    ast.TNever,
	"null":     ast.TNull,
	"true":     ast.TTrue,
	"false":    ast.TFalse,
	"bool":     ast.TBool,
	"int":      ast.TInt,
	"float":    ast.TFloat,
	"string":   ast.TString,
	"array":    ast.TArray,
	"object":   ast.TObject,
	"callable": ast.TCallable,
	"iterable": ast.TIterable,
	"self":     ast.TSelf,
	"static":   ast.TStatic,
	"parent":   ast.TParent,
}

func (p *Parser) atTypeStart() bool {
	switch p.cur().Type {
	case lexer.TOKEN_QUESTION, lexer.T_STRING, lexer.T_NAME_QUALIFIED,
		lexer.T_NAME_FULLY_QUALIFIED, lexer.T_NAME_RELATIVE, lexer.T_NS_SEPARATOR,
		lexer.T_ARRAY, lexer.T_CALLABLE, lexer.T_STATIC, lexer.TOKEN_LPAREN:
		return true
	}
	return false
}

// parseType parses the signature type dialect (§4.2.3): built-ins, ?T,
// A|B unions, A&B intersections, and one level of DNF nesting such as
// (A|B)&C or (A&B)|C — deeper nesting is rejected with a diagnostic.
func (p *Parser) parseType() *ast.Type {
	if p.at(lexer.TOKEN_QUESTION) {
		q := p.advance()
		inner := p.parseTypeAtom()
		if inner.IsStandalone() {
			p.diags.Addf(diag.StandaloneTypeUsedInNullableType, diag.Error, q.Span(p.file),
				"standalone type used in nullable type")
		}
		t := ast.Nullable(*inner)
		return &t
	}

	var first *ast.Type
	if p.at(lexer.TOKEN_LPAREN) {
		// A leading group takes the connective opposite to the one that
		// follows its closing parenthesis.
		i := 1
		for t := p.peekAt(i).Type; t != lexer.TOKEN_RPAREN && t != lexer.T_EOF; t = p.peekAt(i).Type {
			i++
		}
		first = p.parseDNFMember(p.peekAt(i+1).Type != lexer.TOKEN_AMPERSAND)
	} else {
		first = p.parseTypeAtom()
	}
	if p.at(lexer.TOKEN_PIPE) {
		members := []ast.Type{*first}
		for p.at(lexer.TOKEN_PIPE) {
			p.advance()
			members = append(members, *p.parseDNFMember(true))
		}
		for _, m := range members {
			if m.IsStandalone() {
				p.diags.Addf(diag.StandaloneTypeUsedInUnionType, diag.Error, p.cur().Span(p.file),
					"standalone type used in union type")
				break
			}
		}
		t := ast.Union(members...)
		return &t
	}
	if p.at(lexer.TOKEN_AMPERSAND) && p.peekAt(1).Type != lexer.T_VARIABLE && p.peekAt(1).Type != lexer.T_ELLIPSIS {
		members := []ast.Type{*first}
		for p.at(lexer.TOKEN_AMPERSAND) && p.peekAt(1).Type != lexer.T_VARIABLE && p.peekAt(1).Type != lexer.T_ELLIPSIS {
			p.advance()
			members = append(members, *p.parseDNFMember(false))
		}
		for _, m := range members {
			if m.IsStandalone() {
				p.diags.Addf(diag.StandaloneTypeUsedInIntersectionType, diag.Error, p.cur().Span(p.file),
					"standalone type used in intersection type")
				break
			}
		}
		t := ast.Intersection(members...)
		return &t
	}
	return first
}

// parseDNFMember parses one member of a union/intersection, allowing a
// single level of parenthesized nesting for the opposite connective
// (e.g. `A|(B&C)`). inUnion selects which nested connective is legal.
func (p *Parser) parseDNFMember(inUnion bool) *ast.Type {
	if p.at(lexer.TOKEN_LPAREN) {
		open := p.advance()
		first := p.parseTypeAtom()
		members := []ast.Type{*first}
		sawNestedConnective := lexer.TokenType(0)
		for p.at(lexer.TOKEN_AMPERSAND) || p.at(lexer.TOKEN_PIPE) {
			tt := p.cur().Type
			if sawNestedConnective == 0 {
				sawNestedConnective = tt
			} else if tt != sawNestedConnective {
				p.diags.Addf(diag.NestedDisjunctiveNormalFormType, diag.Error, p.cur().Span(p.file),
					"nested disjunctive normal form type")
			}
			p.advance()
			members = append(members, *p.parseTypeAtom())
		}
		_, _ = p.expect(lexer.TOKEN_RPAREN)
		if (inUnion && sawNestedConnective == lexer.TOKEN_PIPE) || (!inUnion && sawNestedConnective == lexer.TOKEN_AMPERSAND) {
			p.diags.Addf(diag.NestedDisjunctiveNormalFormType, diag.Error, open.Span(p.file),
				"nested disjunctive normal form type must use the opposite connective")
		}
		if sawNestedConnective == lexer.TOKEN_PIPE {
			t := ast.Union(members...)
			return &t
		}
		t := ast.Intersection(members...)
		return &t
	}
	return p.parseTypeAtom()
}

// parseTypeAtom parses one built-in or named type, without nullable/
// union/intersection combinators.
func (p *Parser) parseTypeAtom() *ast.Type {
	tok := p.cur()
	switch tok.Type {
	case lexer.T_ARRAY:
		p.advance()
		return &ast.Type{Kind: ast.TArray}
	case lexer.T_CALLABLE:
		p.advance()
		return &ast.Type{Kind: ast.TCallable}
	case lexer.T_STATIC:
		p.advance()
		return &ast.Type{Kind: ast.TStatic}
	case lexer.T_STRING, lexer.T_NAME_QUALIFIED, lexer.T_NAME_FULLY_QUALIFIED, lexer.T_NAME_RELATIVE, lexer.T_NS_SEPARATOR:
		name := p.parseTypeName()
		if kind, ok := builtinTypeKinds[strings.ToLower(name)]; ok {
			return &ast.Type{Kind: kind, Name: name}
		}
		return &ast.Type{Kind: ast.TNamed, Name: name}
	default:
		p.errorExpectedToken(lexer.T_STRING)
		t := ast.Missing()
		p.diags.Addf(diag.MissingType, diag.Error, tok.Span(p.file), "missing type")
		return &t
	}
}

func (p *Parser) parseTypeName() string {
	var sb strings.Builder
	if p.at(lexer.T_NS_SEPARATOR) {
		sb.WriteString("\\")
		p.advance()
	}
	tok := p.advance()
	sb.WriteString(tok.Value)
	return sb.String()
}
