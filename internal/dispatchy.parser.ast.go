package internal

import "strings"

// Symbol is a single atom of a clause, optionally marked optional
type Symbol struct {
	Kind     SymbolKind
	Text     string        // literal word (SymbolKindText), binding name (SymbolKindVarBind), or subtemplate name (SymbolKindSubtemplateCall)
	Nested   *TemplateNode // inline template (SymbolKindNestedTemplate)
	Optional bool
	Position Position
}

// ClauseNode is an ordered sequence of symbols that must all match in order
type ClauseNode struct {
	Symbols []*Symbol
}

// TemplateNode is an ordered disjunction of clauses
type TemplateNode struct {
	Clauses []*ClauseNode
}

// NewTextSymbol creates a literal text symbol
func NewTextSymbol(text string, optional bool, pos Position) *Symbol {
	return &Symbol{Kind: SymbolKindText, Text: text, Optional: optional, Position: pos}
}

// NewVarBindSymbol creates a named capture symbol
func NewVarBindSymbol(name string, optional bool, pos Position) *Symbol {
	return &Symbol{Kind: SymbolKindVarBind, Text: name, Optional: optional, Position: pos}
}

// NewSubtemplateCallSymbol creates a subtemplate reference symbol
func NewSubtemplateCallSymbol(name string, optional bool, pos Position) *Symbol {
	return &Symbol{Kind: SymbolKindSubtemplateCall, Text: name, Optional: optional, Position: pos}
}

// NewNestedTemplateSymbol creates a parenthesized inline template symbol
func NewNestedTemplateSymbol(t *TemplateNode, optional bool, pos Position) *Symbol {
	return &Symbol{Kind: SymbolKindNestedTemplate, Nested: t, Optional: optional, Position: pos}
}

// SplitWords normalizes a template in place: every text symbol whose content
// contains internal whitespace is split into one symbol per word. The trailing
// word inherits the original symbol's optional flag; the preceding words are
// non-optional, so an optional multi-word text symbol becomes a phrase whose
// last word alone is optional.
func SplitWords(t *TemplateNode) {
	if t == nil {
		return
	}
	for _, clause := range t.Clauses {
		var symbols []*Symbol
		for _, sym := range clause.Symbols {
			if sym.Kind == SymbolKindNestedTemplate {
				SplitWords(sym.Nested)
				symbols = append(symbols, sym)
				continue
			}
			if sym.Kind != SymbolKindText || !strings.ContainsAny(sym.Text, " \t\n\r") {
				symbols = append(symbols, sym)
				continue
			}
			words := strings.Fields(sym.Text)
			for i, word := range words {
				optional := false
				if i == len(words)-1 {
					optional = sym.Optional
				}
				symbols = append(symbols, NewTextSymbol(word, optional, sym.Position))
			}
		}
		clause.Symbols = symbols
	}
}
