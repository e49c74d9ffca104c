package parser

import (
	"strconv"
	"strings"

	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/bytestring"
	"github.com/vellumlang/phpfront/diag"
	"github.com/vellumlang/phpfront/lexer"
)

// literalRefinementKinds maps the docblock-only refinement identifiers
// (§4.2.3) to their TypeKind; several take a nested `<T>` argument
// (class-string<T>, value-of<T>), which docTypeParser.parseNamedAtom checks
// for after matching the identifier.
var literalRefinementKinds = map[string]ast.TypeKind{
	"array-key":         ast.TArrayKey,
	"class-string":      ast.TClassString,
	"numeric-string":    ast.TNumericString,
	"non-empty-string":  ast.TNonEmptyString,
	"non-falsy-string":  ast.TNonFalsyString,
	"non-empty-array":   ast.TNonEmptyArray,
	"value-of":          ast.TValueOf,
	"positive-int":      ast.TPositiveInt,
	"negative-int":      ast.TNegativeInt,
	"trait-string":      ast.TTraitString,
	"interface-string":  ast.TInterfaceString,
	"enum-string":       ast.TEnumString,
	"callable-string":   ast.TCallableString,
}

// docTypeParser parses the PHPDoc type dialect (§4.2.3) from a token
// slice already produced by lexer.DocBlockLexer: generics, array/list
// shapes, offset access, callable signatures, const expressions, and
// conditional types. It is independent of the statement/expression
// Parser above — docblock content is re-lexed and re-parsed as its own
// smaller grammar, not threaded through the main token stream.
type docTypeParser struct {
	toks  []lexer.DocToken
	pos   int
	file  bytestring.FileID
	base  int // offset of the docblock content within the source file
	diags *diag.List
}

// ParseDocblockType re-lexes and parses one docblock type expression
// (the text following a `@var`/`@param`/`@return` tag, or an inline
// `{@phan-var ...}` annotation) starting at contentOffset in file.
func ParseDocblockType(content string, contentOffset int, file bytestring.FileID, diags *diag.List) *ast.Type {
	dl := lexer.NewDocBlockLexer(content)
	var toks []lexer.DocToken
	for {
		t := dl.Next()
		if t.Type == lexer.DT_EOF {
			break
		}
		if t.Type == lexer.DT_EOL {
			break
		}
		toks = append(toks, t)
	}
	dp := &docTypeParser{toks: toks, file: file, base: contentOffset, diags: diags}
	return dp.parseUnion()
}

func (d *docTypeParser) cur() lexer.DocToken {
	if d.pos >= len(d.toks) {
		return lexer.DocToken{Type: lexer.DT_EOF}
	}
	return d.toks[d.pos]
}

func (d *docTypeParser) peekAt(n int) lexer.DocToken {
	idx := d.pos + n
	if idx >= len(d.toks) {
		return lexer.DocToken{Type: lexer.DT_EOF}
	}
	return d.toks[idx]
}

func (d *docTypeParser) advance() lexer.DocToken {
	t := d.cur()
	if d.pos < len(d.toks) {
		d.pos++
	}
	return t
}

func (d *docTypeParser) at(tt lexer.DocTokenType) bool { return d.cur().Type == tt }

func (d *docTypeParser) span(t lexer.DocToken) bytestring.Span {
	return bytestring.Span{Start: d.base + t.Start, End: d.base + t.End, File: d.file}
}

func (d *docTypeParser) parseUnion() *ast.Type {
	first := d.parseConditional()
	if !d.at(lexer.DT_PIPE) {
		return first
	}
	members := []ast.Type{*first}
	for d.at(lexer.DT_PIPE) {
		d.advance()
		members = append(members, *d.parseConditional())
	}
	t := ast.Union(members...)
	return &t
}

func (d *docTypeParser) parseConditional() *ast.Type {
	first := d.parseIntersection()

	var paramName string
	if first.Kind == ast.TConstExpr && first.ConstExpr == ConstDocParamRef {
		paramName = first.ConstText
	}

	if d.at(lexer.DT_IS) {
		d.advance()
		negated := false
		if d.at(lexer.DT_IDENT) && d.cur().Value == "not" {
			d.advance()
			negated = true
		}
		target := d.parseIntersection()
		if !d.at(lexer.DT_QUESTION) {
			return first
		}
		d.advance()
		then := d.parseConditional()
		var elseType *ast.Type
		if d.at(lexer.DT_COLON) {
			d.advance()
			elseType = d.parseConditional()
		}
		if paramName != "" {
			return &ast.Type{Kind: ast.TConditionalParam, CondParamName: paramName, CondTarget: target, CondThen: then, CondElse: elseType, CondNegated: negated}
		}
		return &ast.Type{Kind: ast.TConditional, CondSubject: first, CondTarget: target, CondThen: then, CondElse: elseType, CondNegated: negated}
	}
	return first
}

func (d *docTypeParser) parseIntersection() *ast.Type {
	first := d.parsePostfix()
	if !d.at(lexer.DT_AMP) {
		return first
	}
	members := []ast.Type{*first}
	for d.at(lexer.DT_AMP) {
		d.advance()
		members = append(members, *d.parsePostfix())
	}
	t := ast.Intersection(members...)
	return &t
}

func (d *docTypeParser) parsePostfix() *ast.Type {
	t := d.parseAtom()
	for {
		if d.at(lexer.DT_LBRACKET) && d.peekAt(1).Type == lexer.DT_RBRACKET {
			d.advance()
			d.advance()
			inner := *t
			t = &ast.Type{Kind: ast.TTypedArray, Value: &inner}
			continue
		}
		break
	}
	return t
}

func (d *docTypeParser) parseAtom() *ast.Type {
	tok := d.cur()
	switch tok.Type {
	case lexer.DT_QUESTION:
		d.advance()
		inner := d.parseAtom()
		t := ast.Nullable(*inner)
		return &t
	case lexer.DT_VARIABLE:
		d.advance()
		return &ast.Type{Kind: ast.TConstExpr, ConstExpr: ConstDocParamRef, ConstText: tok.Value}
	case lexer.DT_STRING_LIT:
		d.advance()
		return &ast.Type{Kind: ast.TLiteralString, ConstExpr: ast.ConstStringLit, ConstText: tok.Value}
	case lexer.DT_LNUMBER:
		d.advance()
		return &ast.Type{Kind: ast.TConstExpr, ConstExpr: ast.ConstInteger, ConstText: tok.Value}
	case lexer.DT_TEXT:
		if tok.Value == "-" {
			d.advance()
			inner := d.parseAtom()
			inner.ConstExpr = ast.ConstNegative
			inner.ConstText = "-" + inner.ConstText
			return inner
		}
	case lexer.DT_LPAREN:
		d.advance()
		inner := d.parseUnion()
		if d.at(lexer.DT_RPAREN) {
			d.advance()
		}
		return inner
	case lexer.DT_LBRACE:
		return d.parseShape("")
	case lexer.DT_IDENT:
		return d.parseNamedAtom()
	}
	if d.diags != nil {
		d.diags.Addf(diag.MissingType, diag.Error, d.span(tok), "missing docblock type")
	}
	t := ast.Missing()
	return &t
}

func (d *docTypeParser) parseNamedAtom() *ast.Type {
	tok := d.advance()
	name := tok.Value
	lower := strings.ToLower(name)

	if lower == "array" && d.at(lexer.DT_LBRACE) {
		return d.parseShape(name)
	}
	if kind, ok := builtinTypeKinds[lower]; ok && !(lower == "array" && d.at(lexer.DT_LT)) && !(lower == "callable" && d.at(lexer.DT_LPAREN)) {
		return &ast.Type{Kind: kind, Name: name}
	}

	if refKind, ok := literalRefinementKinds[lower]; ok && d.at(lexer.DT_LT) {
		d.advance()
		arg := d.parseUnion()
		if d.at(lexer.DT_GT) {
			d.advance()
		}
		return &ast.Type{Kind: refKind, Value: arg}
	}
	if refKind, ok := literalRefinementKinds[lower]; ok {
		return &ast.Type{Kind: refKind}
	}

	if lower == "callable" && d.at(lexer.DT_LPAREN) {
		return d.parseCallableSig(name)
	}

	if d.at(lexer.DT_LT) {
		d.advance()
		var args []ast.Type
		for !d.at(lexer.DT_GT) && !d.at(lexer.DT_EOF) {
			args = append(args, *d.parseUnion())
			if d.at(lexer.DT_COMMA) {
				d.advance()
				continue
			}
			break
		}
		if d.at(lexer.DT_GT) {
			d.advance()
		}
		if len(args) == 2 && strings.EqualFold(name, "array") {
			return &ast.Type{Kind: ast.TTypedArray, Key: &args[0], Value: &args[1]}
		}
		return &ast.Type{Kind: ast.TGeneric, Name: name, Inner: args}
	}

	if d.at(lexer.DT_COLON) && d.peekAt(1).Type == lexer.DT_COLON {
		d.advance()
		d.advance()
		member := "*"
		if d.at(lexer.DT_IDENT) {
			member = d.advance().Value
		}
		return &ast.Type{Kind: ast.TConstExpr, ConstExpr: ast.ConstFetch, ConstText: name + "::" + member}
	}

	return &ast.Type{Kind: ast.TNamed, Name: name}
}

func (d *docTypeParser) parseShape(name string) *ast.Type {
	d.advance() // {
	shape := &ast.Type{Kind: ast.TShape, Name: name, ShapeSealed: true}
	idx := 0
	for !d.at(lexer.DT_RBRACE) && !d.at(lexer.DT_EOF) {
		if d.at(lexer.DT_ELLIPSIS) {
			d.advance()
			shape.ShapeSealed = false
			if d.at(lexer.DT_LT) {
				d.advance()
				v := d.parseUnion()
				shape.ShapeUnsealedValue = v
				if d.at(lexer.DT_GT) {
					d.advance()
				}
			}
			break
		}
		var item ast.ShapeItem
		if (d.at(lexer.DT_IDENT) || d.at(lexer.DT_LNUMBER)) && (d.peekAt(1).Type == lexer.DT_COLON || (d.peekAt(1).Type == lexer.DT_QUESTION && d.peekAt(2).Type == lexer.DT_COLON)) {
			key := d.advance()
			item.Key = key.Value
			if d.at(lexer.DT_QUESTION) {
				d.advance()
				item.Optional = true
			}
			d.advance() // :
			item.Value = *d.parseUnion()
		} else {
			item.Key = strconv.Itoa(idx)
			item.Value = *d.parseUnion()
		}
		shape.Shape = append(shape.Shape, item)
		idx++
		if d.at(lexer.DT_COMMA) {
			d.advance()
			continue
		}
		break
	}
	if d.at(lexer.DT_RBRACE) {
		d.advance()
	}
	return shape
}

func (d *docTypeParser) parseCallableSig(name string) *ast.Type {
	d.advance() // (
	var params []ast.Type
	for !d.at(lexer.DT_RPAREN) && !d.at(lexer.DT_EOF) {
		params = append(params, *d.parseUnion())
		if d.at(lexer.DT_COMMA) {
			d.advance()
			continue
		}
		break
	}
	if d.at(lexer.DT_RPAREN) {
		d.advance()
	}
	sig := &ast.Type{Kind: ast.TCallableSig, Name: name, CallableParams: params}
	if d.at(lexer.DT_COLON) {
		d.advance()
		ret := d.parseUnion()
		sig.CallableReturn = ret
	}
	return sig
}

// ConstDocParamRef marks a TConstExpr leaf holding a `$paramName`
// reference inside a conditional type's subject position, distinct
// from the signature-type's own ConstExprKind values.
const ConstDocParamRef ast.ConstExprKind = 100
