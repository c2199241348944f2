package internal

import (
	"go.uber.org/zap"
)

// Parser produces a template AST from a token stream
type Parser struct {
	tokens []Token
	pos    int
	logger *zap.Logger
}

// NewParser creates a new parser for the given token stream
func NewParser(tokens []Token, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgParserCreated, zap.Int(LogFieldTokens, len(tokens)))
	return &Parser{
		tokens: tokens,
		pos:    0,
		logger: logger,
	}
}

// Parse produces the template AST root from the token stream
func (p *Parser) Parse() (*TemplateNode, error) {
	p.logger.Debug(LogMsgParserStart)

	template, err := p.parseTemplate(false)
	if err != nil {
		return nil, err
	}

	tok := p.current()
	if tok.Type != TokenTypeEOF {
		return nil, newTemplateError(ErrMsgUnexpectedToken, tok.Value, tok.Position)
	}

	SplitWords(template)
	p.logger.Debug(LogMsgParserEnd, zap.Int(LogFieldClauses, len(template.Clauses)))
	return template, nil
}

// parseTemplate parses clauses separated by pipes. Inside a group the
// template ends at the closing parenthesis, which is left unconsumed.
func (p *Parser) parseTemplate(inGroup bool) (*TemplateNode, error) {
	template := &TemplateNode{}

	for {
		clause, err := p.parseClause(inGroup)
		if err != nil {
			return nil, err
		}
		template.Clauses = append(template.Clauses, clause)

		if p.current().Type != TokenTypePipe {
			break
		}
		p.advance() // consume PIPE
	}

	return template, nil
}

// parseClause parses symbols until a pipe, group close, or end of input
func (p *Parser) parseClause(inGroup bool) (*ClauseNode, error) {
	clause := &ClauseNode{}

	for {
		tok := p.current()
		if tok.Type == TokenTypePipe || tok.Type == TokenTypeEOF {
			break
		}
		if tok.Type == TokenTypeGroupClose && inGroup {
			break
		}

		symbol, err := p.parseSymbol()
		if err != nil {
			return nil, err
		}
		clause.Symbols = append(clause.Symbols, symbol)
	}

	if len(clause.Symbols) == 0 {
		tok := p.current()
		return nil, newTemplateError(ErrMsgEmptyClause, tok.Value, tok.Position)
	}
	return clause, nil
}

// parseSymbol parses one atom plus a trailing optional marker
func (p *Parser) parseSymbol() (*Symbol, error) {
	tok := p.current()

	var symbol *Symbol
	switch tok.Type {
	case TokenTypeWord:
		p.advance()
		symbol = NewTextSymbol(tok.Value, false, tok.Position)
	case TokenTypeVarBind:
		p.advance()
		symbol = NewVarBindSymbol(tok.Value, false, tok.Position)
	case TokenTypeSubCall:
		p.advance()
		symbol = NewSubtemplateCallSymbol(tok.Value, false, tok.Position)
	case TokenTypeGroupOpen:
		p.advance() // consume (
		nested, err := p.parseTemplate(true)
		if err != nil {
			return nil, err
		}
		closeTok := p.current()
		if closeTok.Type != TokenTypeGroupClose {
			return nil, newTemplateError(ErrMsgUnbalancedGroup, closeTok.Value, closeTok.Position)
		}
		p.advance() // consume )
		symbol = NewNestedTemplateSymbol(nested, false, tok.Position)
	case TokenTypeOptional:
		return nil, newSymbolError(ErrMsgDanglingOptional, string(CharOptional), tok.Position)
	case TokenTypeGroupClose:
		return nil, newTemplateError(ErrMsgUnbalancedGroup, "", tok.Position)
	default:
		return nil, newSymbolError(ErrMsgUnexpectedToken, tok.Value, tok.Position)
	}

	if p.current().Type == TokenTypeOptional {
		p.advance()
		symbol.Optional = true
	}
	return symbol, nil
}

// current returns the token at the current position
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenTypeEOF}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token
func (p *Parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}
