package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/phpfront/bytestring"
)

func TestTokenize_SpanCoversWholeSource(t *testing.T) {
	input := `<?php $x = 1 + 2;`
	tokens, err := Tokenize(input)
	require.NoError(t, err)
	require.NotEmpty(t, tokens)

	for _, tok := range tokens {
		span := tok.Span(bytestring.NoFile)
		assert.GreaterOrEqual(t, span.Start, 0)
		assert.LessOrEqual(t, span.End, len(input))
		assert.LessOrEqual(t, span.Start, span.End)
	}
	assert.Equal(t, T_EOF, tokens[len(tokens)-1].Type)
}

func TestTokenize_EmptySource(t *testing.T) {
	tokens, err := Tokenize("")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, T_INLINE_HTML, tokens[0].Type)
	assert.Equal(t, "", tokens[0].Value)
	assert.Equal(t, T_EOF, tokens[1].Type)
}

func TestTokenize_UnterminatedStringIsFatal(t *testing.T) {
	_, err := Tokenize(`<?php $x = "unterminated;`)
	require.Error(t, err)
	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
}

func TestKeywordRecognitionIsCaseInsensitive(t *testing.T) {
	for _, spelling := range []string{"class", "Class", "CLASS"} {
		l := New("<?php " + spelling + " Foo {}")
		_ = l.NextToken() // open tag
		tok := l.NextToken()
		assert.Equal(t, T_CLASS, tok.Type, "spelling %q", spelling)
	}
}

func TestHeredocUnicodeEscape(t *testing.T) {
	input := "<?php $x = <<<EOD\n\\u{48}ello\nEOD;\n"
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == T_EOF {
			break
		}
	}
	var sawH bool
	for _, tok := range tokens {
		if tok.Type == T_ENCAPSED_AND_WHITESPACE && tok.Value == "Hello\n" {
			sawH = true
		}
	}
	assert.True(t, sawH, "expected decoded \\u{48} inside heredoc body")
}

func TestHeredocInvalidOctalEscapeIsFatal(t *testing.T) {
	input := "<?php $x = <<<EOD\n\\777body\nEOD;\n"
	_, err := TokenizeFile(input, bytestring.NoFile)
	require.Error(t, err)
}
