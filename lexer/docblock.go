package lexer

import (
	"strings"
)

// DocTokenType enumerates the tokens of the PHPDoc type dialect, a
// smaller grammar than full PHP scripting mode: identifiers, the type
// combinators, and tag/eol markers used to walk a /** ... */ body
// line by line. It is a distinct Go type from TokenType, so the compiler
// keeps the two dialects apart; the numeric values do overlap, since both
// enumerations start at 0.
type DocTokenType int

const (
	DT_EOF DocTokenType = iota
	DT_TAG                // @param, @return, @var, ...
	DT_IDENT              // bare identifier / class name segment
	DT_VARIABLE           // $name
	DT_LNUMBER
	DT_STRING_LIT
	DT_QUESTION   // ?
	DT_PIPE       // |
	DT_AMP        // &
	DT_LT         // <
	DT_GT         // >
	DT_LBRACE     // {
	DT_RBRACE     // }
	DT_LBRACKET   // [
	DT_RBRACKET   // ]
	DT_LPAREN     // (
	DT_RPAREN     // )
	DT_COMMA
	DT_COLON
	DT_ELLIPSIS  // ...
	DT_IS        // "is" (conditional types)
	DT_EOL       // end of one docblock line; callers re-sync on this
	DT_TEXT      // free-form prose outside a recognized production
)

// DocToken is one lexeme of the docblock dialect, with an offset
// relative to the docblock's own content (after stripping the leading
// `/**`, trailing `*/`, and per-line ` * ` gutters).
type DocToken struct {
	Type  DocTokenType
	Value string
	Start int
	End   int
}

// DocBlockLexer re-lexes the de-guttered text of one /** ... */ comment
// in ST_DOC_BLOCK mode. It is a separate, much smaller state machine
// from Lexer: the docblock grammar (§4.2.3) shares no productions with
// PHP scripting mode beyond identifiers and `$variables`, so reusing
// Lexer's state machine would mean threading a parallel set
// of branches through every mode it already handles.
type DocBlockLexer struct {
	src   string
	pos   int
	state LexerState // always ST_DOC_BLOCK; kept for parity with Lexer's State()
}

// NewDocBlockLexer builds a re-lexer over already-degemmed docblock
// content (see StripDocGutters).
func NewDocBlockLexer(content string) *DocBlockLexer {
	return &DocBlockLexer{src: content, state: ST_DOC_BLOCK}
}

// State reports the lexer's mode, always ST_DOC_BLOCK.
func (d *DocBlockLexer) State() LexerState { return d.state }

// StripDocGutters removes the `/**`, `*/`, and leading ` * ` decoration
// PHP doc comments conventionally carry, leaving the bare tag/type text
// docblock.go's parser consumes.
func StripDocGutters(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		trimmed = strings.TrimPrefix(trimmed, "*")
		trimmed = strings.TrimPrefix(trimmed, " ")
		lines[i] = trimmed
	}
	return strings.Join(lines, "\n")
}

func (d *DocBlockLexer) peek() byte {
	if d.pos >= len(d.src) {
		return 0
	}
	return d.src[d.pos]
}

func (d *DocBlockLexer) at(off int) byte {
	if d.pos+off >= len(d.src) {
		return 0
	}
	return d.src[d.pos+off]
}

// Next returns the next DocToken, advancing position.
func (d *DocBlockLexer) Next() DocToken {
	for d.pos < len(d.src) && (d.src[d.pos] == ' ' || d.src[d.pos] == '\t') {
		d.pos++
	}
	start := d.pos
	if d.pos >= len(d.src) {
		return DocToken{Type: DT_EOF, Start: start, End: start}
	}

	c := d.peek()
	switch {
	case c == '\n':
		d.pos++
		return DocToken{Type: DT_EOL, Value: "\n", Start: start, End: d.pos}
	case c == '@':
		d.pos++
		for d.pos < len(d.src) && isDocIdentByte(d.src[d.pos]) {
			d.pos++
		}
		return DocToken{Type: DT_TAG, Value: d.src[start:d.pos], Start: start, End: d.pos}
	case c == '$':
		d.pos++
		for d.pos < len(d.src) && isDocIdentByte(d.src[d.pos]) {
			d.pos++
		}
		return DocToken{Type: DT_VARIABLE, Value: d.src[start:d.pos], Start: start, End: d.pos}
	case c == '.' && d.at(1) == '.' && d.at(2) == '.':
		d.pos += 3
		return DocToken{Type: DT_ELLIPSIS, Value: "...", Start: start, End: d.pos}
	case c == '?':
		d.pos++
		return DocToken{Type: DT_QUESTION, Value: "?", Start: start, End: d.pos}
	case c == '|':
		d.pos++
		return DocToken{Type: DT_PIPE, Value: "|", Start: start, End: d.pos}
	case c == '&':
		d.pos++
		return DocToken{Type: DT_AMP, Value: "&", Start: start, End: d.pos}
	case c == '<':
		d.pos++
		return DocToken{Type: DT_LT, Value: "<", Start: start, End: d.pos}
	case c == '>':
		d.pos++
		return DocToken{Type: DT_GT, Value: ">", Start: start, End: d.pos}
	case c == '{':
		d.pos++
		return DocToken{Type: DT_LBRACE, Value: "{", Start: start, End: d.pos}
	case c == '}':
		d.pos++
		return DocToken{Type: DT_RBRACE, Value: "}", Start: start, End: d.pos}
	case c == '[':
		d.pos++
		return DocToken{Type: DT_LBRACKET, Value: "[", Start: start, End: d.pos}
	case c == ']':
		d.pos++
		return DocToken{Type: DT_RBRACKET, Value: "]", Start: start, End: d.pos}
	case c == '(':
		d.pos++
		return DocToken{Type: DT_LPAREN, Value: "(", Start: start, End: d.pos}
	case c == ')':
		d.pos++
		return DocToken{Type: DT_RPAREN, Value: ")", Start: start, End: d.pos}
	case c == ',':
		d.pos++
		return DocToken{Type: DT_COMMA, Value: ",", Start: start, End: d.pos}
	case c == ':':
		d.pos++
		return DocToken{Type: DT_COLON, Value: ":", Start: start, End: d.pos}
	case c == '\'' || c == '"':
		quote := c
		d.pos++
		for d.pos < len(d.src) && d.src[d.pos] != quote {
			d.pos++
		}
		if d.pos < len(d.src) {
			d.pos++ // closing quote
		}
		return DocToken{Type: DT_STRING_LIT, Value: d.src[start:d.pos], Start: start, End: d.pos}
	case c >= '0' && c <= '9':
		d.pos++
		for d.pos < len(d.src) && (d.src[d.pos] >= '0' && d.src[d.pos] <= '9' || d.src[d.pos] == '.') {
			d.pos++
		}
		return DocToken{Type: DT_LNUMBER, Value: d.src[start:d.pos], Start: start, End: d.pos}
	case isDocIdentStartByte(c):
		d.pos++
		for d.pos < len(d.src) && isDocIdentByte(d.src[d.pos]) {
			d.pos++
		}
		word := d.src[start:d.pos]
		if word == "is" {
			return DocToken{Type: DT_IS, Value: word, Start: start, End: d.pos}
		}
		return DocToken{Type: DT_IDENT, Value: word, Start: start, End: d.pos}
	default:
		d.pos++
		return DocToken{Type: DT_TEXT, Value: string(c), Start: start, End: d.pos}
	}
}

func isDocIdentStartByte(c byte) bool {
	return c == '_' || c == '\\' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDocIdentByte(c byte) bool {
	return isDocIdentStartByte(c) || (c >= '0' && c <= '9')
}
