/*
File    : aurora/lexer/lexer_test.go
Project : Aurora Compiler
*/
package lexer

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// represents a test case for Tokens
// Input: source code
// ExpectedTokens: list of expected tokens
type TestTokens struct {
	Input          string
	ExpectedTokens []Token
}

// TestLexer_Tokens drains small sources and compares the token streams
// by value, ignoring positions.
func TestLexer_Tokens(t *testing.T) {

	tests := []TestTokens{
		{
			Input: ` 123 + 2   31 - 12 `,
			ExpectedTokens: []Token{
				intToken(123),
				NewToken(PLUS_OP, "+"),
				intToken(2),
				intToken(31),
				NewToken(MINUS_OP, "-"),
				intToken(12),
			},
		},
		{
			Input: `{ } ( ) , : ; = == < * __a19bcd_aa90`,
			ExpectedTokens: []Token{
				NewToken(LEFT_BRACE, "{"),
				NewToken(RIGHT_BRACE, "}"),
				NewToken(LEFT_PAREN, "("),
				NewToken(RIGHT_PAREN, ")"),
				NewToken(COMMA_DELIM, ","),
				NewToken(COLON_DELIM, ":"),
				NewToken(SEMICOLON_DELIM, ";"),
				NewToken(ASSIGN_OP, "="),
				NewToken(EQ_OP, "=="),
				NewToken(LT_OP, "<"),
				NewToken(MUL_OP, "*"),
				NewToken(IDENTIFIER_ID, "__a19bcd_aa90"),
			},
		},
		{
			Input: `fn extern let return if else while true false fnx`,
			ExpectedTokens: []Token{
				NewToken(FN_KEY, "fn"),
				NewToken(EXTERN_KEY, "extern"),
				NewToken(LET_KEY, "let"),
				NewToken(RETURN_KEY, "return"),
				NewToken(IF_KEY, "if"),
				NewToken(ELSE_KEY, "else"),
				NewToken(WHILE_KEY, "while"),
				NewToken(TRUE_KEY, "true"),
				NewToken(FALSE_KEY, "false"),
				NewToken(IDENTIFIER_ID, "fnx"),
			},
		},
		{
			Input: `1.5 0.25 12. 7`,
			ExpectedTokens: []Token{
				floatToken("1.5", 1.5),
				floatToken("0.25", 0.25),
				floatToken("12.", 12),
				intToken(7),
			},
		},
		{
			Input: `x # a comment + * fn
y`,
			ExpectedTokens: []Token{
				NewToken(IDENTIFIER_ID, "x"),
				NewToken(IDENTIFIER_ID, "y"),
			},
		},
	}

	for _, test := range tests {
		lex := NewLexerString(test.Input)
		tokens, err := lex.Tokens()
		require.NoError(t, err, "input: %s", test.Input)
		require.Equal(t, len(test.ExpectedTokens), len(tokens), "input: %s", test.Input)
		for i := range tokens {
			assert.True(t, tokens[i].Equal(&test.ExpectedTokens[i]),
				"input: %s, token %d: got %v, want %v", test.Input, i, tokens[i], test.ExpectedTokens[i])
		}
	}
}

func intToken(value int64) Token {
	token := NewToken(INT_LIT, strconv.FormatInt(value, 10))
	token.Int = value
	return token
}

func floatToken(literal string, value float64) Token {
	token := NewToken(FLOAT_LIT, literal)
	token.Float = value
	return token
}

// The exact token sequence of a one-line function definition.
func TestLexer_RoundTripFunction(t *testing.T) {
	lex := NewLexerString(`fn foo(x: i32) i32 { return x + 1; }`)

	expected := []TokenType{
		FN_KEY, IDENTIFIER_ID, LEFT_PAREN, IDENTIFIER_ID, COLON_DELIM,
		IDENTIFIER_ID, RIGHT_PAREN, IDENTIFIER_ID, LEFT_BRACE, RETURN_KEY,
		IDENTIFIER_ID, PLUS_OP, INT_LIT, SEMICOLON_DELIM, RIGHT_BRACE,
	}
	expectedLexemes := map[int]string{
		1: "foo", 3: "x", 5: "i32", 7: "i32", 10: "x",
	}

	for i, want := range expected {
		token, err := lex.Next()
		require.NoError(t, err)
		assert.Equal(t, want, token.Type, "token %d", i)
		if lexeme, ok := expectedLexemes[i]; ok {
			assert.Equal(t, lexeme, token.Literal)
		}
	}

	// EOF, and EOF again on every further call
	for i := 0; i < 3; i++ {
		token, err := lex.Next()
		require.NoError(t, err)
		assert.Equal(t, EOF_TYPE, token.Type)
	}
}

// Peek must not consume: peek(0) followed by Next returns equal tokens.
func TestLexer_PeekNextAgreement(t *testing.T) {
	lex := NewLexerString(`let a = 1 + 2;`)

	for {
		peeked, err := lex.Peek(0)
		require.NoError(t, err)
		peekedCopy := *peeked

		next, err := lex.Next()
		require.NoError(t, err)
		assert.True(t, next.Equal(&peekedCopy))

		if next.Type == EOF_TYPE {
			return
		}
	}
}

// Deep peeks extend the lookahead buffer without reordering.
func TestLexer_DeepPeek(t *testing.T) {
	lex := NewLexerString(`a b c`)

	third, err := lex.Peek(2)
	require.NoError(t, err)
	assert.Equal(t, "c", third.Literal)

	first, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", first.Literal)

	second, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", second.Literal)
}

// Line count equals the number of newline bytes consumed plus one.
func TestLexer_LineTracking(t *testing.T) {
	lex := NewLexerString("fn a() {\n}\n# trailing comment\nfn b() {\n}\n")

	_, err := lex.Tokens()
	require.NoError(t, err)
	assert.Equal(t, 6, lex.Line())
}

// Token positions point at the token's first byte.
func TestLexer_TokenPositions(t *testing.T) {
	lex := NewLexerString("let x;\nlet y;")

	tokens, err := lex.Tokens()
	require.NoError(t, err)
	require.Len(t, tokens, 6)

	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Column)
	assert.Equal(t, 1, tokens[1].Line)
	assert.Equal(t, 5, tokens[1].Column)
	assert.Equal(t, 2, tokens[3].Line)
	assert.Equal(t, 1, tokens[3].Column)
	assert.Equal(t, 2, tokens[4].Line)
	assert.Equal(t, 5, tokens[4].Column)
}

// A byte no scanner rule accepts is an UnknownChar error.
func TestLexer_UnknownChar(t *testing.T) {
	lex := NewLexerString(`let a @ 1;`)

	_, err := lex.Tokens()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown char `@`")
}

// A lone '.' scans as a float with empty parts, which fails numeric
// parsing.
func TestLexer_LoneDot(t *testing.T) {
	lex := NewLexerString(`. ;`)

	_, err := lex.Tokens()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed float literal")
}

// A comment running into end of input yields EOF, not an error.
func TestLexer_CommentAtEOF(t *testing.T) {
	lex := NewLexerString(`x # no newline after this`)

	tokens, err := lex.Tokens()
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "x", tokens[0].Literal)
}
