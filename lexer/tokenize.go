package lexer

import (
	"strings"

	"github.com/vellumlang/phpfront/bytestring"
	"github.com/vellumlang/phpfront/diag"
)

// SyntaxError is returned by Tokenize when the lexer hits an unrecoverable
// condition (spec §7: lexer failures are terminal per file, no retry).
type SyntaxError struct {
	Diagnostic diag.Diagnostic
}

func (e *SyntaxError) Error() string {
	return e.Diagnostic.String()
}

// Tokenize drives NextToken to completion, returning every emitted token
// (terminated by exactly one T_EOF) on success. On the first fatal
// condition it stops and returns the tokens emitted so far together with
// a *SyntaxError. parser.Parse still parses such a partial stream and
// records the error among its diagnostics.
func Tokenize(input string) ([]Token, error) {
	return TokenizeFile(input, bytestring.NoFile)
}

// TokenizeFile is Tokenize with spans attributed to the given file id.
func TokenizeFile(input string, file bytestring.FileID) ([]Token, error) {
	l := NewForFile(input, file)
	var tokens []Token
	lastErrCount := 0

	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)

		if len(l.errors) > lastErrCount {
			msg := l.errors[len(l.errors)-1]
			lastErrCount = len(l.errors)
			kind, sev := classifyFatal(msg)
			span := tok.Span(l.file)
			return tokens, &SyntaxError{Diagnostic: diag.New(kind, sev, span, "%s", msg)}
		}

		if tok.Type == T_EOF {
			break
		}
	}

	return tokens, nil
}

func classifyFatal(msg string) (diag.Kind, diag.Severity) {
	switch {
	case strings.Contains(msg, "unterminated"):
		return diag.UnexpectedEndOfFile, diag.Error
	case strings.Contains(msg, "invalid unicode escape"):
		return diag.InvalidUnicodeEscape, diag.Error
	case strings.Contains(msg, "invalid octal escape"):
		return diag.InvalidOctalEscape, diag.Error
	case strings.Contains(msg, "invalid heredoc"):
		return diag.UnexpectedEndOfFile, diag.Error
	case strings.Contains(msg, "unexpected character"):
		return diag.UnexpectedCharacter, diag.Error
	case strings.Contains(msg, "failed to convert number"):
		return diag.UnrecognisedToken, diag.Error
	default:
		return diag.UnrecognisedToken, diag.Error
	}
}
