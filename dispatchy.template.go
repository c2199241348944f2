package dispatchy

import (
	"errors"

	"github.com/itsatony/go-dispatchy/internal"
	"go.uber.org/zap"
)

// Template is a parsed template: a disjunction of clauses, each an ordered
// sequence of symbols. Templates are immutable once parsed and can be matched
// any number of times.
type Template struct {
	source string
	ast    *internal.TemplateNode
}

// ParseTemplate parses a template DSL source string into a Template.
func ParseTemplate(source string) (*Template, error) {
	return parseTemplate(source, zap.NewNop())
}

// MustParseTemplate parses a template and panics on error.
func MustParseTemplate(source string) *Template {
	t, err := ParseTemplate(source)
	if err != nil {
		panic(err)
	}
	return t
}

// parseTemplate runs the lexer and parser and maps syntax errors to the
// public error taxonomy.
func parseTemplate(source string, logger *zap.Logger) (*Template, error) {
	lexer := internal.NewLexer(source, logger)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, wrapSyntaxError(source, err)
	}

	parser := internal.NewParser(tokens, logger)
	ast, err := parser.Parse()
	if err != nil {
		return nil, wrapSyntaxError(source, err)
	}

	return &Template{source: source, ast: ast}, nil
}

// wrapSyntaxError converts an internal syntax error into a symbol or
// template parse error.
func wrapSyntaxError(source string, err error) error {
	var syntaxErr *internal.SyntaxError
	if errors.As(err, &syntaxErr) {
		if syntaxErr.SymbolShaped {
			return NewSymbolParseError(syntaxErr.Fragment, syntaxErr.Position.Line, syntaxErr.Position.Column)
		}
		return NewTemplateParseError(source, syntaxErr.Position.Line, syntaxErr.Position.Column, nil)
	}
	return NewTemplateParseError(source, 0, 0, err)
}

// Source returns the original DSL source of the template.
func (t *Template) Source() string {
	return t.source
}

// String returns the template's DSL source.
func (t *Template) String() string {
	return t.source
}

// node exposes the AST to the matcher.
func (t *Template) node() *internal.TemplateNode {
	return t.ast
}
