package internal

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// reserved characters terminate a word
const wordTerminators = "[]{}()|?"

// Lexer tokenizes template DSL source into a token stream
type Lexer struct {
	source string
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
	logger *zap.Logger
}

// NewLexer creates a new lexer for the given source
func NewLexer(source string, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated, zap.Int(LogFieldSource, len(source)))
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Tokenize processes the source and returns a token stream
func (l *Lexer) Tokenize() ([]Token, error) {
	l.logger.Debug(LogMsgLexerStart)
	var tokens []Token

	for !l.isAtEnd() {
		ch := l.peek()

		if isSpace(ch) {
			l.advance()
			continue
		}

		pos := l.currentPosition()
		switch ch {
		case CharVarBindOpen:
			tok, err := l.scanDelimited(CharVarBindOpen, CharVarBindClose, ErrMsgUnterminatedVarBind, ErrMsgEmptyVarBind)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, NewVarBindToken(tok, pos))
		case CharSubCallOpen:
			tok, err := l.scanDelimited(CharSubCallOpen, CharSubCallClose, ErrMsgUnterminatedSubCall, ErrMsgEmptySubCall)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, NewSubCallToken(tok, pos))
		case CharGroupOpen:
			l.advance()
			tokens = append(tokens, NewGroupOpenToken(pos))
		case CharGroupClose:
			l.advance()
			tokens = append(tokens, NewGroupCloseToken(pos))
		case CharPipe:
			l.advance()
			tokens = append(tokens, NewPipeToken(pos))
		case CharOptional:
			// The marker must follow its symbol directly; after whitespace
			// there is no symbol for it to attach to.
			if l.pos > 0 && isSpace(l.source[l.pos-1]) {
				return nil, newSymbolError(ErrMsgDanglingOptional, string(CharOptional), pos)
			}
			l.advance()
			tokens = append(tokens, NewOptionalToken(pos))
		case CharVarBindClose:
			return nil, newSymbolError(ErrMsgUnexpectedToken, string(CharVarBindClose), pos)
		case CharSubCallClose:
			return nil, newSymbolError(ErrMsgUnexpectedToken, string(CharSubCallClose), pos)
		default:
			tokens = append(tokens, NewWordToken(l.scanWord(), pos))
		}
	}

	tokens = append(tokens, NewEOFToken(l.currentPosition()))
	l.logger.Debug(LogMsgLexerEnd, zap.Int(LogFieldTokens, len(tokens)))
	return tokens, nil
}

// scanWord scans a run of literal characters up to whitespace or a reserved character
func (l *Lexer) scanWord() string {
	start := l.pos
	for !l.isAtEnd() {
		ch := l.peek()
		if isSpace(ch) || strings.ContainsRune(wordTerminators, rune(ch)) {
			break
		}
		l.advance()
	}
	return l.source[start:l.pos]
}

// scanDelimited scans the content between an open and close character.
// The open character must be the current character. Content is trimmed;
// names may contain internal whitespace (subtemplate names do).
func (l *Lexer) scanDelimited(open, close byte, unterminatedMsg, emptyMsg string) (string, error) {
	startPos := l.currentPosition()
	l.advance() // consume open
	start := l.pos
	for !l.isAtEnd() && l.peek() != close {
		l.advance()
	}
	if l.isAtEnd() {
		return "", newSymbolError(unterminatedMsg, string(open)+l.source[start:l.pos], startPos)
	}
	content := strings.TrimSpace(l.source[start:l.pos])
	l.advance() // consume close
	if content == "" {
		return "", newSymbolError(emptyMsg, string(open)+string(close), startPos)
	}
	return content, nil
}

// currentPosition returns the current source position
func (l *Lexer) currentPosition() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.column}
}

// isAtEnd reports whether the lexer has consumed all input
func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the current byte without consuming it
func (l *Lexer) peek() byte {
	return l.source[l.pos]
}

// advance consumes and returns the current byte, tracking line/column
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else if ch < utf8.RuneSelf || utf8.RuneStart(ch) {
		// count runes, not continuation bytes
		l.column++
	}
	return ch
}

// isSpace reports whether ch is DSL whitespace
func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
