package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// assertTokenStream compares token types and values, ignoring positions
func assertTokenStream(t *testing.T, expected []Token, actual []Token) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i].Type, actual[i].Type, "token %d type", i)
		assert.Equal(t, expected[i].Value, actual[i].Value, "token %d value", i)
	}
}

func TestLexer_Tokenize_Words(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "empty string",
			input: "",
			expected: []Token{
				{Type: TokenTypeEOF},
			},
		},
		{
			name:  "single word",
			input: "foo",
			expected: []Token{
				{Type: TokenTypeWord, Value: "foo"},
				{Type: TokenTypeEOF},
			},
		},
		{
			name:  "multiple words",
			input: "play the song",
			expected: []Token{
				{Type: TokenTypeWord, Value: "play"},
				{Type: TokenTypeWord, Value: "the"},
				{Type: TokenTypeWord, Value: "song"},
				{Type: TokenTypeEOF},
			},
		},
		{
			name:  "surrounding whitespace",
			input: "  \t hello \n world  ",
			expected: []Token{
				{Type: TokenTypeWord, Value: "hello"},
				{Type: TokenTypeWord, Value: "world"},
				{Type: TokenTypeEOF},
			},
		},
		{
			name:  "word with punctuation",
			input: "what's up",
			expected: []Token{
				{Type: TokenTypeWord, Value: "what's"},
				{Type: TokenTypeWord, Value: "up"},
				{Type: TokenTypeEOF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(tt.input, zap.NewNop())
			tokens, err := lexer.Tokenize()
			require.NoError(t, err)
			assertTokenStream(t, tt.expected, tokens)
		})
	}
}

func TestLexer_Tokenize_Atoms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "variable binding",
			input: "[song]",
			expected: []Token{
				{Type: TokenTypeVarBind, Value: "song"},
				{Type: TokenTypeEOF},
			},
		},
		{
			name:  "subtemplate call with spaces in name",
			input: "{pre command ask}",
			expected: []Token{
				{Type: TokenTypeSubCall, Value: "pre command ask"},
				{Type: TokenTypeEOF},
			},
		},
		{
			name:  "subtemplate name is trimmed",
			input: "{  greeting  }",
			expected: []Token{
				{Type: TokenTypeSubCall, Value: "greeting"},
				{Type: TokenTypeEOF},
			},
		},
		{
			name:  "group with alternation",
			input: "(could|would)",
			expected: []Token{
				{Type: TokenTypeGroupOpen},
				{Type: TokenTypeWord, Value: "could"},
				{Type: TokenTypePipe},
				{Type: TokenTypeWord, Value: "would"},
				{Type: TokenTypeGroupClose},
				{Type: TokenTypeEOF},
			},
		},
		{
			name:  "optional markers",
			input: "foo? [bar]? {baz}?",
			expected: []Token{
				{Type: TokenTypeWord, Value: "foo"},
				{Type: TokenTypeOptional},
				{Type: TokenTypeVarBind, Value: "bar"},
				{Type: TokenTypeOptional},
				{Type: TokenTypeSubCall, Value: "baz"},
				{Type: TokenTypeOptional},
				{Type: TokenTypeEOF},
			},
		},
		{
			name:  "full command template",
			input: "{pre command ask}? play [song] on Spotify",
			expected: []Token{
				{Type: TokenTypeSubCall, Value: "pre command ask"},
				{Type: TokenTypeOptional},
				{Type: TokenTypeWord, Value: "play"},
				{Type: TokenTypeVarBind, Value: "song"},
				{Type: TokenTypeWord, Value: "on"},
				{Type: TokenTypeWord, Value: "Spotify"},
				{Type: TokenTypeEOF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(tt.input, zap.NewNop())
			tokens, err := lexer.Tokenize()
			require.NoError(t, err)
			assertTokenStream(t, tt.expected, tokens)
		})
	}
}

func TestLexer_Tokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{name: "unterminated var bind", input: "[song", message: ErrMsgUnterminatedVarBind},
		{name: "unterminated sub call", input: "{pre command", message: ErrMsgUnterminatedSubCall},
		{name: "empty var bind", input: "[]", message: ErrMsgEmptyVarBind},
		{name: "empty sub call", input: "{}", message: ErrMsgEmptySubCall},
		{name: "whitespace-only sub call", input: "{   }", message: ErrMsgEmptySubCall},
		{name: "stray close bracket", input: "foo ]", message: ErrMsgUnexpectedToken},
		{name: "stray close brace", input: "foo }", message: ErrMsgUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(tt.input, zap.NewNop())
			_, err := lexer.Tokenize()
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.message, syntaxErr.Message)
			assert.True(t, syntaxErr.SymbolShaped)
		})
	}
}

func TestLexer_Tokenize_Positions(t *testing.T) {
	lexer := NewLexer("foo\nbar", zap.NewNop())
	tokens, err := lexer.Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, tokens[0].Position)
	assert.Equal(t, Position{Offset: 4, Line: 2, Column: 1}, tokens[1].Position)
}
