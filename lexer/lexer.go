package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vellumlang/phpfront/bytestring"
)

// Lexer is the deterministic, mode-stack-driven PHP tokenizer.
type Lexer struct {
	input        string
	position     int  // current byte position
	readPosition int  // position of the next byte to read
	ch           byte // current byte, 0 at EOF
	line         int
	column       int
	file         bytestring.FileID

	state      LexerState
	stateStack *StateStack

	heredocLabel string

	errors []string
}

// New creates a lexer over input, with spans attributed to bytestring.NoFile.
func New(input string) *Lexer {
	return NewForFile(input, bytestring.NoFile)
}

// NewForFile creates a lexer over input whose emitted token spans carry file.
func NewForFile(input string, file bytestring.FileID) *Lexer {
	l := &Lexer{
		input:      input,
		line:       1,
		column:     0,
		state:      ST_INITIAL,
		stateStack: NewStateStack(),
		errors:     make([]string, 0),
		file:       file,
	}

	l.skipShebang()
	l.readChar()
	return l
}

// File returns the file identifier attributed to this lexer's tokens.
func (l *Lexer) File() bytestring.FileID {
	return l.file
}

// tok builds a Token of kind whose span runs from start to the lexer's
// current position, carrying value as its lexeme.
func (l *Lexer) tok(kind TokenType, value string, start Position) Token {
	return Token{Type: kind, Value: value, Position: start, EndOffset: l.position}
}

// numTok is tok for numeric literals, which additionally carry the
// parsed integer or float value alongside the literal's raw text.
func (l *Lexer) numTok(kind TokenType, value string, intVal int64, floatVal float64, start Position) Token {
	return Token{Type: kind, Value: value, IntValue: intVal, FloatValue: floatVal, Position: start, EndOffset: l.position}
}

// skipShebang skips a leading "#!" line, if the source starts with one.
func (l *Lexer) skipShebang() {
	if len(l.input) >= 2 && l.input[0] == '#' && l.input[1] == '!' {
		i := 0
		for i < len(l.input) && l.input[i] != '\n' && l.input[i] != '\r' {
			i++
		}

		if i < len(l.input) {
			if l.input[i] == '\r' {
				i++
				if i < len(l.input) && l.input[i] == '\n' {
					i++
				}
			} else if l.input[i] == '\n' {
				i++
			}
		}

		if i > 0 && i < len(l.input) {
			l.input = l.input[i:]
		} else if i >= len(l.input) {
			l.input = ""
		}
	}
}

// readChar reads the next byte and advances the position.
func (l *Lexer) readChar() {
	l.position = l.readPosition
	l.readPosition++

	if l.position >= len(l.input) {
		l.ch = 0 // EOF
		return
	}

	l.ch = l.input[l.position]

	if l.position == 0 {
		l.line = 1
		l.column = 0
	} else {
		prevChar := l.input[l.position-1]
		if prevChar == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
	}
}

// peekChar looks at the next byte without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// peekCharN looks n bytes ahead of the next byte (0-based).
func (l *Lexer) peekCharN(n int) byte {
	pos := l.readPosition + n
	if pos >= len(l.input) {
		return 0
	}
	return l.input[pos]
}

// getCurrentPosition returns the current position (a token's start).
func (l *Lexer) getCurrentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}

// isWhitespace reports whether ch is PHP whitespace.
func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// skipWhitespace advances past whitespace.
func (l *Lexer) skipWhitespace() {
	for isWhitespace(l.ch) {
		l.readChar()
	}
}

// readIdentifier reads a label (identifier).
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLabelPart(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readQualifiedName reads a possibly namespace-qualified name, returning
// (name, tokenType) where tokenType is one of:
//   - T_NAME_FULLY_QUALIFIED (\Name)
//   - T_NAME_QUALIFIED (Name1\Name2)
//   - T_NAME_RELATIVE (namespace\Name)
//   - T_STRING (Name, a simple identifier)
func (l *Lexer) readQualifiedName() (string, TokenType) {
	startPos := l.position

	if l.ch == '\\' {
		l.readChar() // skip \

		if !isLabelStart(l.ch) {
			// A \ not followed by an identifier is a standalone T_NS_SEPARATOR;
			// no backtrack needed since the \ was correctly consumed.
			return "\\", T_NS_SEPARATOR
		}

		for isLabelPart(l.ch) {
			l.readChar()
		}

		for l.ch == '\\' && isLabelStart(l.peekChar()) {
			l.readChar() // skip \
			for isLabelPart(l.ch) {
				l.readChar()
			}
		}

		return l.input[startPos:l.position], T_NAME_FULLY_QUALIFIED
	}

	identifier := l.readIdentifier()

	if identifier == "namespace" && l.ch == '\\' && isLabelStart(l.peekChar()) {
		// namespace\Name is a relative name.
		for l.ch == '\\' && isLabelStart(l.peekChar()) {
			l.readChar() // skip \
			for isLabelPart(l.ch) {
				l.readChar()
			}
		}
		return l.input[startPos:l.position], T_NAME_RELATIVE
	}

	if l.ch == '\\' && isLabelStart(l.peekChar()) {
		// Name1\Name2 is a qualified name.
		for l.ch == '\\' && isLabelPart(l.peekChar()) {
			l.readChar() // skip \
			for isLabelPart(l.ch) {
				l.readChar()
			}
		}
		return l.input[startPos:l.position], T_NAME_QUALIFIED
	}

	return identifier, T_STRING
}

// readNumber reads an integer or float literal.
func (l *Lexer) readNumber() (string, TokenType) {
	position := l.position
	tokenType := T_LNUMBER

	// Hexadecimal.
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar() // skip '0'
		l.readChar() // skip 'x'
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.input[position:l.position], T_LNUMBER
	}

	// New-style octal (0o777).
	if l.ch == '0' && (l.peekChar() == 'o' || l.peekChar() == 'O') {
		l.readChar() // skip '0'
		l.readChar() // skip 'o'
		for isOctalDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.input[position:l.position], T_LNUMBER
	}

	// Legacy octal (0777).
	if l.ch == '0' && isDigit(l.peekChar()) {
		for isOctalDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.input[position:l.position], T_LNUMBER
	}

	// Binary.
	if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		l.readChar() // skip '0'
		l.readChar() // skip 'b'
		for isBinaryDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.input[position:l.position], T_LNUMBER
	}

	// Decimal.
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}

	// DNUM = ({LNUM}?"."{LNUM})|({LNUM}"."{LNUM}?) — the digits after
	// the decimal point are optional.
	if l.ch == '.' {
		tokenType = T_DNUMBER
		l.readChar() // skip '.'
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	// Scientific notation.
	if l.ch == 'e' || l.ch == 'E' {
		tokenType = T_DNUMBER
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	return l.input[position:l.position], tokenType
}

// convertNumberString parses value's digits into an int64 or float64.
func (l *Lexer) convertNumberString(value string, tokenType TokenType) (TokenType, int64, float64, error) {
	if tokenType == T_DNUMBER {
		cleaned := strings.ReplaceAll(value, "_", "")
		floatVal, err := strconv.ParseFloat(cleaned, 64)
		return T_DNUMBER, 0, floatVal, err
	}

	cleaned := strings.ReplaceAll(value, "_", "")

	var intVal int64
	var err error

	if strings.HasPrefix(cleaned, "0b") || strings.HasPrefix(cleaned, "0B") {
		intVal, err = strconv.ParseInt(cleaned[2:], 2, 64)
	} else if strings.HasPrefix(cleaned, "0x") || strings.HasPrefix(cleaned, "0X") {
		intVal, err = strconv.ParseInt(cleaned[2:], 16, 64)
	} else if strings.HasPrefix(cleaned, "0o") || strings.HasPrefix(cleaned, "0O") {
		intVal, err = strconv.ParseInt(cleaned[2:], 8, 64)
	} else if len(cleaned) > 1 && cleaned[0] == '0' && isOctalDigit(cleaned[1]) {
		intVal, err = strconv.ParseInt(cleaned, 8, 64)
	} else {
		intVal, err = strconv.ParseInt(cleaned, 10, 64)
	}

	// PHP behavior: if integer parsing fails due to overflow, convert to float.
	if err != nil {
		if numError, ok := err.(*strconv.NumError); ok && numError.Err == strconv.ErrRange {
			floatVal, floatErr := strconv.ParseFloat(cleaned, 64)
			if floatErr == nil {
				return T_DNUMBER, 0, floatVal, nil
			}
		}
		return tokenType, intVal, 0, err
	}

	return tokenType, intVal, 0, err
}

// readString reads a quoted string with no interpolation, resolving the
// small set of single-character escapes PHP recognizes in this context.
func (l *Lexer) readString(delimiter byte) (string, error) {
	l.readChar() // move past opening quote

	var result strings.Builder

	for l.ch != delimiter && l.position < len(l.input) {
		if l.ch == '\\' {
			l.readChar()
			if delimiter == '"' && l.tryStructuredEscape(&result) {
				continue
			}
			if delimiter == '\'' && l.ch != '\\' && l.ch != '\'' {
				// Single-quoted strings recognize only \\ and \'.
				result.WriteByte('\\')
				continue
			}
			switch l.ch {
			case 'n':
				result.WriteByte('\n')
			case 'r':
				result.WriteByte('\r')
			case 't':
				result.WriteByte('\t')
			case '\\':
				result.WriteByte('\\')
			case '\'':
				result.WriteByte('\'')
			case '"':
				result.WriteByte('"')
			case '$':
				result.WriteByte('$')
			default:
				result.WriteByte('\\')
				result.WriteByte(l.ch)
			}
		} else {
			result.WriteByte(l.ch)
		}
		l.readChar()
	}

	if l.ch != delimiter {
		return "", fmt.Errorf("unterminated string at line %d, column %d", l.line, l.column)
	}

	l.readChar() // skip closing quote
	return result.String(), nil
}

// readLineComment reads a "//" or "#" comment up to the line end (or a
// terminating "?>", which a line comment does not consume).
func (l *Lexer) readLineComment() string {
	position := l.position
	for l.ch != '\n' && l.ch != '\r' && l.ch != 0 {
		if l.ch == '?' && l.peekChar() == '>' {
			break
		}
		l.readChar()
	}
	return l.input[position:l.position]
}

// readBlockComment reads a "/* ... */" comment, including its delimiters.
func (l *Lexer) readBlockComment() string {
	position := l.position

	for {
		if l.position >= len(l.input) {
			break
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip *
			l.readChar() // skip /
			break
		}
		l.readChar()
	}

	return l.input[position:l.position]
}

// NextToken returns the next token, dispatching on the current mode.
func (l *Lexer) NextToken() Token {
	switch l.state {
	case ST_INITIAL:
		return l.nextTokenInitial()
	case ST_IN_SCRIPTING:
		return l.nextTokenInScripting()
	case ST_DOUBLE_QUOTES:
		return l.nextTokenInDoubleQuotes()
	case ST_HEREDOC:
		return l.nextTokenInHeredoc()
	case ST_NOWDOC:
		return l.nextTokenInNowdoc()
	case ST_VAR_OFFSET:
		return l.nextTokenInVarOffset()
	case ST_BACKQUOTE:
		return l.nextTokenInBackquote()
	default:
		return l.nextTokenInScripting()
	}
}

// nextTokenInitial scans raw HTML/text, looking for a PHP open tag.
func (l *Lexer) nextTokenInitial() Token {
	var content strings.Builder
	pos := l.getCurrentPosition()

	for l.ch != 0 {
		if l.ch == '<' {
			if l.peekChar() == '?' {
				if l.peekCharN(1) == 'p' && l.peekCharN(2) == 'h' && l.peekCharN(3) == 'p' {
					if content.Len() > 0 {
						return l.tok(T_INLINE_HTML, content.String(), pos)
					}

					result := ""
					for i := 0; i < 5; i++ {
						result += string(l.ch)
						l.readChar()
					}

					if l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
						result += string(l.ch)
						l.readChar()
					}

					l.state = ST_IN_SCRIPTING
					return l.tok(T_OPEN_TAG, result, pos)
				} else if l.peekCharN(1) == '=' {
					if content.Len() > 0 {
						return l.tok(T_INLINE_HTML, content.String(), pos)
					}

					result := string(l.ch) + string(l.peekChar()) + string(l.peekCharN(1))
					l.readChar() // <
					l.readChar() // ?
					l.readChar() // =

					l.state = ST_IN_SCRIPTING
					return l.tok(T_OPEN_TAG_WITH_ECHO, result, pos)
				}
			}
		}

		content.WriteByte(l.ch)
		l.readChar()
	}

	// End of file: trailing HTML is returned first and T_EOF on the next
	// call. An empty input (including one left empty by skipShebang) still
	// yields one empty T_INLINE_HTML token ahead of T_EOF; readPosition
	// moves past 1 so that token is emitted only once.
	if content.Len() > 0 {
		return l.tok(T_INLINE_HTML, content.String(), pos)
	}
	if len(l.input) == 0 && l.readPosition == 1 {
		l.readPosition++
		return l.tok(T_INLINE_HTML, "", pos)
	}
	return l.tok(T_EOF, "", pos)
}

// nextTokenInScripting scans PHP code between tags.
func (l *Lexer) nextTokenInScripting() Token {
	l.skipWhitespace()

	pos := l.getCurrentPosition()

	switch l.ch {
	case 0:
		return l.tok(T_EOF, "", pos)

	// Single-character tokens.
	case ';':
		l.readChar()
		return l.tok(TOKEN_SEMICOLON, ";", pos)
	case ',':
		l.readChar()
		return l.tok(TOKEN_COMMA, ",", pos)
	case '{':
		l.readChar()
		return l.tok(TOKEN_LBRACE, "{", pos)
	case '}':
		l.readChar()
		// Return to the mode this brace's interpolation excursion was
		// opened from (e.g. back into ST_HEREDOC from "{$var}").
		if !l.stateStack.IsEmpty() {
			l.state = l.stateStack.Pop()
		}
		return l.tok(TOKEN_RBRACE, "}", pos)
	case '(':
		if tokenType, tokenValue, isCast := l.checkTypeCast(); isCast {
			return l.tok(tokenType, tokenValue, pos)
		}
		l.readChar()
		return l.tok(TOKEN_LPAREN, "(", pos)
	case ')':
		l.readChar()
		return l.tok(TOKEN_RPAREN, ")", pos)
	case '[':
		l.readChar()
		return l.tok(TOKEN_LBRACKET, "[", pos)
	case ']':
		l.readChar()
		return l.tok(TOKEN_RBRACKET, "]", pos)
	case '~':
		l.readChar()
		return l.tok(TOKEN_TILDE, "~", pos)
	case '@':
		l.readChar()
		return l.tok(TOKEN_AT, "@", pos)

	// Operators that may extend to two or three characters.
	case '+':
		if l.peekChar() == '+' {
			l.readChar()
			l.readChar()
			return l.tok(T_INC, "++", pos)
		} else if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(T_PLUS_EQUAL, "+=", pos)
		}
		l.readChar()
		return l.tok(TOKEN_PLUS, "+", pos)

	case '-':
		if l.peekChar() == '-' {
			l.readChar()
			l.readChar()
			return l.tok(T_DEC, "--", pos)
		} else if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(T_MINUS_EQUAL, "-=", pos)
		} else if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.tok(T_OBJECT_OPERATOR, "->", pos)
		}
		l.readChar()
		return l.tok(TOKEN_MINUS, "-", pos)

	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.tok(T_POW_EQUAL, "**=", pos)
			}
			return l.tok(T_POW, "**", pos)
		} else if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(T_MUL_EQUAL, "*=", pos)
		}
		l.readChar()
		return l.tok(TOKEN_MULTIPLY, "*", pos)

	case '/':
		if l.peekChar() == '/' {
			comment := l.readLineComment()
			return l.tok(T_COMMENT, comment, pos)
		} else if l.peekChar() == '*' {
			// PHP only treats "/**" as a doc comment when followed by
			// whitespace or content, not when it is just "/**/".
			isDocComment := l.peekChar() == '*' && l.peekCharN(1) == '*' &&
				(isWhitespace(l.peekCharN(2)) || (l.peekCharN(2) != '/' && l.peekCharN(2) != 0))
			l.readChar() // skip /
			l.readChar() // skip *
			comment := l.readBlockComment()
			fullComment := "/*" + comment

			if isDocComment {
				return l.tok(T_DOC_COMMENT, fullComment, pos)
			}
			return l.tok(T_COMMENT, fullComment, pos)
		} else if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(T_DIV_EQUAL, "/=", pos)
		}
		l.readChar()
		return l.tok(TOKEN_DIVIDE, "/", pos)

	case '%':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(T_MOD_EQUAL, "%=", pos)
		}
		l.readChar()
		return l.tok(TOKEN_MODULO, "%", pos)

	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.tok(T_IS_IDENTICAL, "===", pos)
			}
			return l.tok(T_IS_EQUAL, "==", pos)
		} else if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.tok(T_DOUBLE_ARROW, "=>", pos)
		}
		l.readChar()
		return l.tok(TOKEN_EQUAL, "=", pos)

	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.tok(T_IS_NOT_IDENTICAL, "!==", pos)
			}
			return l.tok(T_IS_NOT_EQUAL, "!=", pos)
		}
		l.readChar()
		return l.tok(TOKEN_EXCLAMATION, "!", pos)

	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			if l.ch == '>' {
				l.readChar()
				return l.tok(T_SPACESHIP, "<=>", pos)
			}
			return l.tok(T_IS_SMALLER_OR_EQUAL, "<=", pos)
		} else if l.peekChar() == '>' {
			// <> is an alias for != (T_IS_NOT_EQUAL).
			l.readChar()
			l.readChar()
			return l.tok(T_IS_NOT_EQUAL, "<>", pos)
		} else if l.peekChar() == '<' {
			if l.peekCharN(1) == '<' {
				return l.handleHeredocStart(pos)
			}
			l.readChar()
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.tok(T_SL_EQUAL, "<<=", pos)
			}
			return l.tok(T_SL, "<<", pos)
		}
		l.readChar()
		return l.tok(TOKEN_LT, "<", pos)

	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(T_IS_GREATER_OR_EQUAL, ">=", pos)
		} else if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.tok(T_SR_EQUAL, ">>=", pos)
			}
			return l.tok(T_SR, ">>", pos)
		}
		l.readChar()
		return l.tok(TOKEN_GT, ">", pos)

	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return l.tok(T_BOOLEAN_AND, "&&", pos)
		} else if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(T_AND_EQUAL, "&=", pos)
		}

		// PHP's own lexer distinguishes "&" before a variable or "..."
		// (by-ref binding) from "&" used as the bitwise-and operator;
		// resolving this needs to look past whitespace and comments.
		if l.isAmpersandFollowedByVarOrVararg() {
			l.readChar()
			return l.tok(T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG, "&", pos)
		}
		l.readChar()
		return l.tok(T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG, "&", pos)

	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return l.tok(T_BOOLEAN_OR, "||", pos)
		} else if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(T_OR_EQUAL, "|=", pos)
		}
		l.readChar()
		return l.tok(TOKEN_PIPE, "|", pos)

	case '^':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(T_XOR_EQUAL, "^=", pos)
		}
		l.readChar()
		return l.tok(TOKEN_CARET, "^", pos)

	case '.':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(T_CONCAT_EQUAL, ".=", pos)
		} else if l.peekChar() == '.' && l.peekCharN(1) == '.' {
			// Ellipsis (...) — l.ch is the first dot.
			l.readChar() // move to second dot
			l.readChar() // move to third dot
			l.readChar() // move past third dot
			return l.tok(T_ELLIPSIS, "...", pos)
		} else if isDigit(l.peekChar()) {
			number, tokenType := l.readNumber()
			finalTokenType, intVal, floatVal, err := l.convertNumberString(number, tokenType)
			if err != nil {
				l.errors = append(l.errors, fmt.Sprintf("failed to convert number %s: %v", number, err))
			}
			return l.numTok(finalTokenType, number, intVal, floatVal, pos)
		}
		l.readChar()
		return l.tok(TOKEN_DOT, ".", pos)

	case '?':
		if l.peekChar() == '?' {
			l.readChar()
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.tok(T_COALESCE_EQUAL, "??=", pos)
			}
			return l.tok(T_COALESCE, "??", pos)
		} else if l.peekChar() == '-' && l.peekCharN(1) == '>' {
			l.readChar()
			l.readChar()
			l.readChar()
			return l.tok(T_NULLSAFE_OBJECT_OPERATOR, "?->", pos)
		} else if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			l.state = ST_INITIAL
			return l.tok(T_CLOSE_TAG, "?>", pos)
		}
		l.readChar()
		return l.tok(TOKEN_QUESTION, "?", pos)

	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			l.readChar()
			return l.tok(T_PAAMAYIM_NEKUDOTAYIM, "::", pos)
		}
		l.readChar()
		return l.tok(TOKEN_COLON, ":", pos)

	case '$':
		if isLabelStart(l.peekChar()) {
			l.readChar() // skip $
			identifier := l.readIdentifier()
			return l.tok(T_VARIABLE, "$"+identifier, pos)
		}
		l.readChar()
		return l.tok(TOKEN_DOLLAR, "$", pos)

	case '\\':
		name, tokenType := l.readQualifiedName()
		return l.tok(tokenType, name, pos)

	case '"':
		if l.containsInterpolation('"') {
			l.readChar() // skip opening quote
			l.state = ST_DOUBLE_QUOTES
			return l.tok(TOKEN_QUOTE, "\"", pos)
		}
		str, err := l.readString('"')
		if err != nil {
			l.addError(err.Error())
			return l.tok(T_BAD_CHARACTER, "", pos)
		}
		return l.tok(T_CONSTANT_ENCAPSED_STRING, `"`+str+`"`, pos)

	case '\'':
		str, err := l.readString('\'')
		if err != nil {
			l.addError(err.Error())
			return l.tok(T_BAD_CHARACTER, "", pos)
		}
		return l.tok(T_CONSTANT_ENCAPSED_STRING, "'"+str+"'", pos)

	case '`':
		// Shell-exec string: always enters ST_BACKQUOTE, whether or not
		// it turns out to contain interpolation.
		l.readChar() // skip opening backtick
		l.state = ST_BACKQUOTE
		return l.tok(TOKEN_BACKTICK, "`", pos)

	case '#':
		if l.peekChar() == '[' {
			l.readChar() // consume [, completing the #[ token
			l.readChar()
			return l.tok(T_ATTRIBUTE, "#[", pos)
		}
		comment := l.readLineComment()
		return l.tok(T_COMMENT, comment, pos)

	default:
		if isLabelStart(l.ch) {
			name, tokenType := l.readQualifiedName()

			// Only a simple identifier needs the keyword/compound checks below.
			if tokenType == T_STRING {
				if name == "yield" {
					savedPos := l.position
					savedReadPos := l.readPosition
					savedCh := l.ch
					savedLine := l.line
					savedColumn := l.column

					l.skipWhitespace()

					if isLabelStart(l.ch) {
						nextIdentifier := l.readIdentifier()
						if nextIdentifier == "from" {
							return l.tok(T_YIELD_FROM, "yield from", pos)
						}
					}

					// "from" did not follow; rewind to just past "yield".
					l.position = savedPos
					l.readPosition = savedReadPos
					l.ch = savedCh
					l.line = savedLine
					l.column = savedColumn
				}

				// Property hook keywords (PHP 8.4): private(set), protected(set), public(set).
				if name == "private" && l.ch == '(' && l.peekChar() == 's' &&
					l.peekCharN(1) == 'e' && l.peekCharN(2) == 't' && l.peekCharN(3) == ')' {
					hookPart := ""
					for i := 0; i < 5; i++ {
						hookPart += string(l.ch)
						l.readChar()
					}
					return l.tok(T_PRIVATE_SET, name+hookPart, pos)
				}

				if name == "protected" && l.ch == '(' && l.peekChar() == 's' &&
					l.peekCharN(1) == 'e' && l.peekCharN(2) == 't' && l.peekCharN(3) == ')' {
					hookPart := ""
					for i := 0; i < 5; i++ {
						hookPart += string(l.ch)
						l.readChar()
					}
					return l.tok(T_PROTECTED_SET, name+hookPart, pos)
				}

				if name == "public" && l.ch == '(' && l.peekChar() == 's' &&
					l.peekCharN(1) == 'e' && l.peekCharN(2) == 't' && l.peekCharN(3) == ')' {
					hookPart := ""
					for i := 0; i < 5; i++ {
						hookPart += string(l.ch)
						l.readChar()
					}
					return l.tok(T_PUBLIC_SET, name+hookPart, pos)
				}

				if keywordType, isKeyword := IsKeyword(name); isKeyword {
					return l.tok(keywordType, name, pos)
				}
			}

			return l.tok(tokenType, name, pos)
		} else if isDigit(l.ch) {
			number, tokenType := l.readNumber()
			finalTokenType, intVal, floatVal, err := l.convertNumberString(number, tokenType)
			if err != nil {
				l.errors = append(l.errors, fmt.Sprintf("failed to convert number %s: %v", number, err))
			}
			return l.numTok(finalTokenType, number, intVal, floatVal, pos)
		} else {
			ch := l.ch
			l.readChar()
			l.addError(fmt.Sprintf("unexpected character '%c' at line %d, column %d", ch, pos.Line, pos.Column))
			return l.tok(T_BAD_CHARACTER, string(ch), pos)
		}
	}
}

// nextTokenInDoubleQuotes scans the body of a double-quoted string.
func (l *Lexer) nextTokenInDoubleQuotes() Token {
	pos := l.getCurrentPosition()

	if l.ch == '"' {
		l.readChar() // skip closing quote
		l.state = ST_IN_SCRIPTING
		return l.tok(TOKEN_QUOTE, "\"", pos)
	}

	if l.position >= len(l.input) {
		l.addError("unterminated string")
		return l.tok(T_EOF, "", pos)
	}

	var content strings.Builder

	for l.ch != '"' && l.ch != 0 {
		if l.ch == '$' && l.peekChar() == '{' {
			// "${expression}" (variable-variable syntax).
			if content.Len() > 0 {
				return l.tok(T_ENCAPSED_AND_WHITESPACE, content.String(), pos)
			}
			l.stateStack.Push(l.state)
			l.state = ST_IN_SCRIPTING
			l.readChar() // skip $
			l.readChar() // skip {
			return l.tok(T_DOLLAR_OPEN_CURLY_BRACES, "${", pos)
		} else if l.ch == '{' && l.peekChar() == '$' {
			// "{$variable}" syntax.
			if content.Len() > 0 {
				return l.tok(T_ENCAPSED_AND_WHITESPACE, content.String(), pos)
			}
			l.stateStack.Push(l.state)
			l.state = ST_IN_SCRIPTING
			l.readChar() // skip {
			return l.tok(T_CURLY_OPEN, "{", pos)
		} else if l.ch == '$' && isLabelStart(l.peekChar()) {
			// Direct "$variable" interpolation.
			if content.Len() > 0 {
				return l.tok(T_ENCAPSED_AND_WHITESPACE, content.String(), pos)
			}
			l.readChar() // skip $
			identifier := l.readIdentifier()

			if l.ch == '[' {
				l.stateStack.Push(l.state)
				l.state = ST_VAR_OFFSET
			}

			return l.tok(T_VARIABLE, "$"+identifier, pos)
		}

		if l.ch == '\\' {
			l.readChar() // skip backslash
			if l.ch != 0 {
				if !l.tryStructuredEscape(&content) {
					switch l.ch {
					case 'n':
						content.WriteByte('\n')
					case 'r':
						content.WriteByte('\r')
					case 't':
						content.WriteByte('\t')
					case '\\':
						content.WriteByte('\\')
					case '"':
						content.WriteByte('"')
					case '$':
						content.WriteByte('$')
					default:
						content.WriteByte('\\')
						content.WriteByte(l.ch)
					}
					l.readChar()
				}
			}
		} else {
			content.WriteByte(l.ch)
			l.readChar()
		}
	}

	if content.Len() > 0 {
		return l.tok(T_ENCAPSED_AND_WHITESPACE, content.String(), pos)
	}

	return l.tok(T_EOF, "", pos)
}

// nextTokenInBackquote scans the body of a shell-exec (backtick) string.
func (l *Lexer) nextTokenInBackquote() Token {
	pos := l.getCurrentPosition()

	if l.ch == '`' {
		l.readChar() // skip closing backtick
		l.state = ST_IN_SCRIPTING
		return l.tok(TOKEN_BACKTICK, "`", pos)
	}

	if l.position >= len(l.input) {
		l.addError("unterminated shell execution string")
		return l.tok(T_EOF, "", pos)
	}

	var content strings.Builder

	for l.ch != '`' && l.ch != 0 {
		if l.ch == '{' && l.peekChar() == '$' {
			if content.Len() > 0 {
				return l.tok(T_ENCAPSED_AND_WHITESPACE, content.String(), pos)
			}
			l.stateStack.Push(l.state)
			l.state = ST_IN_SCRIPTING
			l.readChar() // skip {
			return l.tok(T_CURLY_OPEN, "{", pos)
		} else if l.ch == '$' && isLabelStart(l.peekChar()) {
			if content.Len() > 0 {
				return l.tok(T_ENCAPSED_AND_WHITESPACE, content.String(), pos)
			}
			l.readChar() // skip $
			identifier := l.readIdentifier()
			return l.tok(T_VARIABLE, "$"+identifier, pos)
		}

		if l.ch == '\\' {
			l.readChar() // skip backslash
			if l.ch != 0 {
				switch l.ch {
				case 'n':
					content.WriteByte('\n')
				case 'r':
					content.WriteByte('\r')
				case 't':
					content.WriteByte('\t')
				case '\\':
					content.WriteByte('\\')
				case '`':
					content.WriteByte('`')
				case '$':
					content.WriteByte('$')
				default:
					content.WriteByte(l.ch)
				}
				l.readChar()
			}
		} else {
			content.WriteByte(l.ch)
			l.readChar()
		}
	}

	if content.Len() > 0 {
		return l.tok(T_ENCAPSED_AND_WHITESPACE, content.String(), pos)
	}

	return l.tok(T_EOF, "", pos)
}

// handleHeredocStart scans a "<<<" heredoc/nowdoc opener.
func (l *Lexer) handleHeredocStart(pos Position) Token {
	l.readChar() // skip first <
	l.readChar() // skip second <
	l.readChar() // skip third <

	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}

	isNowdoc := false
	var label string

	if l.ch == '\'' {
		// Nowdoc: <<<'LABEL'
		isNowdoc = true
		l.readChar() // skip '
		label = l.readHeredocLabel()
		if l.ch == '\'' {
			l.readChar()
		}
	} else if l.ch == '"' {
		// <<<"LABEL" is equivalent to <<<LABEL.
		l.readChar() // skip "
		label = l.readHeredocLabel()
		if l.ch == '"' {
			l.readChar()
		}
	} else {
		label = l.readHeredocLabel()
	}

	if label == "" {
		l.addError("invalid heredoc/nowdoc label")
		return l.tok(T_START_HEREDOC, "<<<", pos)
	}

	var lineEnding string
	for l.ch != '\n' && l.ch != '\r' && l.ch != 0 {
		l.readChar()
	}
	if l.ch == '\r' {
		lineEnding += string(l.ch)
		l.readChar()
	}
	if l.ch == '\n' {
		lineEnding += string(l.ch)
		l.readChar()
	}

	l.heredocLabel = label
	if isNowdoc {
		l.state = ST_NOWDOC
		return l.tok(T_START_HEREDOC, "<<<'"+label+"'"+lineEnding, pos)
	}
	l.state = ST_HEREDOC
	return l.tok(T_START_HEREDOC, "<<<"+label+lineEnding, pos)
}

// readHeredocLabel reads a heredoc/nowdoc label.
func (l *Lexer) readHeredocLabel() string {
	var label strings.Builder

	if !isLabelStart(l.ch) {
		return ""
	}

	for isLabelPart(l.ch) {
		label.WriteByte(l.ch)
		l.readChar()
	}

	return label.String()
}

// nextTokenInHeredoc scans the body of a heredoc.
func (l *Lexer) nextTokenInHeredoc() Token {
	pos := l.getCurrentPosition()

	if l.isAtHeredocEnd() {
		indentStart := l.position
		for indentStart > 0 && l.input[indentStart-1] != '\n' && l.input[indentStart-1] != '\r' {
			indentStart--
		}

		endTokenValue := l.input[indentStart : l.position+len(l.heredocLabel)]

		for i := 0; i < len(l.heredocLabel); i++ {
			l.readChar()
		}

		l.heredocLabel = ""
		l.state = ST_IN_SCRIPTING
		return l.tok(T_END_HEREDOC, endTokenValue, pos)
	}

	var content strings.Builder
	for !l.isAtHeredocEnd() && l.ch != 0 {
		if l.ch == '{' && l.peekChar() == '$' {
			// "{$variable}": return T_CURLY_OPEN, switching to scripting
			// mode to lex the interpolated expression.
			if content.Len() > 0 {
				return l.tok(T_ENCAPSED_AND_WHITESPACE, content.String(), pos)
			}
			l.stateStack.Push(l.state)
			l.state = ST_IN_SCRIPTING
			l.readChar() // skip {
			return l.tok(T_CURLY_OPEN, "{", pos)
		} else if l.ch == '$' && isLabelStart(l.peekChar()) {
			if content.Len() > 0 {
				return l.tok(T_ENCAPSED_AND_WHITESPACE, content.String(), pos)
			}
			l.readChar() // skip $
			identifier := l.readIdentifier()
			return l.tok(T_VARIABLE, "$"+identifier, pos)
		} else if l.ch == '\\' {
			l.readChar() // skip backslash
			if l.ch != 0 && !l.tryStructuredEscape(&content) {
				switch l.ch {
				case 'n':
					content.WriteByte('\n')
				case 't':
					content.WriteByte('\t')
				case '\\':
					content.WriteByte('\\')
				case '$':
					content.WriteByte('$')
				default:
					content.WriteByte('\\')
					content.WriteByte(l.ch)
				}
				l.readChar()
			}
			continue
		}
		content.WriteByte(l.ch)
		l.readChar()
	}

	if content.Len() > 0 {
		return l.tok(T_ENCAPSED_AND_WHITESPACE, content.String(), pos)
	}

	return l.tok(T_EOF, "", pos)
}

// nextTokenInNowdoc scans the body of a nowdoc (no interpolation).
func (l *Lexer) nextTokenInNowdoc() Token {
	pos := l.getCurrentPosition()

	if l.isAtHeredocEnd() {
		indentStart := l.position
		for indentStart > 0 && l.input[indentStart-1] != '\n' && l.input[indentStart-1] != '\r' {
			indentStart--
		}

		endTokenValue := l.input[indentStart : l.position+len(l.heredocLabel)]

		for i := 0; i < len(l.heredocLabel); i++ {
			l.readChar()
		}

		l.heredocLabel = ""
		l.state = ST_IN_SCRIPTING
		return l.tok(T_END_HEREDOC, endTokenValue, pos)
	}

	var content strings.Builder
	for !l.isAtHeredocEnd() && l.ch != 0 {
		content.WriteByte(l.ch)
		l.readChar()
	}

	if content.Len() > 0 {
		return l.tok(T_ENCAPSED_AND_WHITESPACE, content.String(), pos)
	}

	return l.tok(T_EOF, "", pos)
}

// isAtHeredocEnd reports whether the current position sits at the
// heredoc/nowdoc closing label, which may be indented in PHP 7.3+ style.
func (l *Lexer) isAtHeredocEnd() bool {
	if l.heredocLabel == "" {
		return false
	}

	if l.column != 0 {
		// Not at column 0: the closing label is still allowed if every
		// byte between line start and here is indentation.
		pos := l.position - 1
		for pos >= 0 && l.input[pos] != '\n' && l.input[pos] != '\r' {
			if l.input[pos] != ' ' && l.input[pos] != '\t' {
				return false
			}
			pos--
		}
	}

	labelLen := len(l.heredocLabel)
	if l.position+labelLen > len(l.input) {
		return false
	}

	candidateLabel := l.input[l.position : l.position+labelLen]
	if candidateLabel != l.heredocLabel {
		return false
	}

	// The byte after the label must not continue it (PHP's
	// !IS_LABEL_SUCCESSOR() check), or this is a longer identifier that
	// merely starts with the label.
	nextPos := l.position + labelLen
	if nextPos >= len(l.input) {
		return true
	}

	nextChar := l.input[nextPos]
	isLabelSuccessor := (nextChar >= 'a' && nextChar <= 'z') ||
		(nextChar >= 'A' && nextChar <= 'Z') ||
		(nextChar >= '0' && nextChar <= '9') ||
		nextChar == '_'
	return !isLabelSuccessor
}

// addError records a lexical error.
func (l *Lexer) addError(msg string) {
	l.errors = append(l.errors, msg)
}

// State returns the lexer's current mode.
func (l *Lexer) State() LexerState {
	return l.state
}

// checkTypeCast reports whether the input at the current "(" starts a
// cast such as "(int)", "(bool)", "(string)", restoring position if not.
func (l *Lexer) checkTypeCast() (TokenType, string, bool) {
	oldPosition := l.position
	oldReadPosition := l.readPosition
	oldCh := l.ch
	oldLine := l.line
	oldColumn := l.column

	l.readChar() // skip '('

	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}

	start := l.position
	if isLabelStart(l.ch) {
		for isLabelPart(l.ch) {
			l.readChar()
		}
	}

	typeName := l.input[start:l.position]

	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}

	if l.ch != ')' {
		l.position = oldPosition
		l.readPosition = oldReadPosition
		l.ch = oldCh
		l.line = oldLine
		l.column = oldColumn
		return 0, "", false
	}

	var tokenType TokenType
	var tokenValue string

	// Compare case-insensitively but preserve the source's original case
	// in the emitted token value.
	lowerTypeName := strings.ToLower(typeName)

	switch lowerTypeName {
	case "int", "integer":
		tokenType = T_INT_CAST
		tokenValue = "(" + typeName + ")"
	case "bool", "boolean":
		tokenType = T_BOOL_CAST
		tokenValue = "(" + typeName + ")"
	case "float", "double", "real":
		tokenType = T_DOUBLE_CAST
		tokenValue = "(" + typeName + ")"
	case "string":
		tokenType = T_STRING_CAST
		tokenValue = "(" + typeName + ")"
	case "array":
		tokenType = T_ARRAY_CAST
		tokenValue = "(" + typeName + ")"
	case "object":
		tokenType = T_OBJECT_CAST
		tokenValue = "(" + typeName + ")"
	case "unset":
		tokenType = T_UNSET_CAST
		tokenValue = "(" + typeName + ")"
	case "binary":
		tokenType = T_STRING_CAST // PHP treats a binary cast as a string cast
		tokenValue = "(" + typeName + ")"
	default:
		l.position = oldPosition
		l.readPosition = oldReadPosition
		l.ch = oldCh
		l.line = oldLine
		l.column = oldColumn
		return 0, "", false
	}

	l.readChar() // skip ')'

	return tokenType, tokenValue, true
}

func isLabelStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= 0x80
}

func isLabelPart(ch byte) bool {
	return isLabelStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isOctalDigit(ch byte) bool {
	return '0' <= ch && ch <= '7'
}

func isBinaryDigit(ch byte) bool {
	return ch == '0' || ch == '1'
}

// containsInterpolation reports whether the quoted string starting at
// the current position (the opening delimiter) contains a "$var" or
// "{$expr}" interpolation before its closing delimiter.
func (l *Lexer) containsInterpolation(delimiter byte) bool {
	pos := l.position + 1 // skip the opening quote

	for pos < len(l.input) && l.input[pos] != delimiter {
		if l.input[pos] == '\\' {
			pos += 2
			continue
		}

		if l.input[pos] == '$' && pos+1 < len(l.input) {
			nextChar := l.input[pos+1]
			if isLabelStart(nextChar) || nextChar == '{' {
				return true
			}
		}

		if l.input[pos] == '{' && pos+1 < len(l.input) && l.input[pos+1] == '$' {
			return true
		}

		pos++
	}

	return false
}

// isAmpersandFollowedByVarOrVararg implements PHP's own
// OPTIONAL_WHITESPACE_OR_COMMENTS("$"|"...") lookahead used to decide
// whether "&" binds a reference or means bitwise-and.
func (l *Lexer) isAmpersandFollowedByVarOrVararg() bool {
	pos := l.readPosition // scan forward from just after &

	for pos < len(l.input) {
		ch := l.input[pos]

		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			pos++
			continue
		}

		if ch == '/' && pos+1 < len(l.input) && l.input[pos+1] == '/' {
			for pos < len(l.input) && l.input[pos] != '\n' {
				pos++
			}
			continue
		}

		if ch == '/' && pos+1 < len(l.input) && l.input[pos+1] == '*' {
			pos += 2
			for pos+1 < len(l.input) {
				if l.input[pos] == '*' && l.input[pos+1] == '/' {
					pos += 2
					break
				}
				pos++
			}
			continue
		}

		if ch == '#' {
			for pos < len(l.input) && l.input[pos] != '\n' {
				pos++
			}
			continue
		}

		if ch == '$' {
			return true
		}

		if ch == '.' && pos+2 < len(l.input) &&
			l.input[pos+1] == '.' && l.input[pos+2] == '.' {
			return true
		}

		return false
	}

	return false
}

// nextTokenInVarOffset scans the bracketed index of a simple
// interpolation, e.g. "index" in "$arr[index]".
func (l *Lexer) nextTokenInVarOffset() Token {
	l.skipWhitespace()
	pos := l.getCurrentPosition()

	switch l.ch {
	case '[':
		l.readChar()
		return l.tok(TOKEN_LBRACKET, "[", pos)
	case ']':
		l.readChar()
		if !l.stateStack.IsEmpty() {
			l.state = l.stateStack.Pop()
		} else {
			l.state = ST_IN_SCRIPTING
		}
		return l.tok(TOKEN_RBRACKET, "]", pos)
	case '$':
		if isLabelStart(l.peekChar()) {
			l.readChar() // skip $
			identifier := l.readIdentifier()
			return l.tok(T_VARIABLE, "$"+identifier, pos)
		}
		fallthrough
	case 0:
		if !l.stateStack.IsEmpty() {
			l.state = l.stateStack.Pop()
		} else {
			l.state = ST_IN_SCRIPTING
		}
		return l.tok(T_EOF, "", pos)
	default:
		if isDigit(l.ch) {
			number, tokenType := l.readNumber()
			finalTokenType, intVal, floatVal, err := l.convertNumberString(number, tokenType)
			if err != nil {
				l.errors = append(l.errors, fmt.Sprintf("failed to convert number %s: %v", number, err))
			}
			return l.numTok(finalTokenType, number, intVal, floatVal, pos)
		} else if isLabelStart(l.ch) {
			identifier := l.readIdentifier()
			return l.tok(T_STRING, identifier, pos)
		}
		// An invalid offset character exits ST_VAR_OFFSET, per PHP's rules,
		// and is returned as a literal fragment.
		ch := l.ch
		l.readChar()

		if !l.stateStack.IsEmpty() {
			l.state = l.stateStack.Pop()
		} else {
			l.state = ST_IN_SCRIPTING
		}

		return l.tok(T_ENCAPSED_AND_WHITESPACE, string(ch), pos)
	}
}
