package dispatchy

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
	"github.com/itsatony/go-dispatchy/internal"
	"go.uber.org/zap"
)

// Regex fragment constants
const (
	regexAnchorStart   = "^"
	regexAnchorEnd     = "$"
	regexGroupOpen     = "(?:"
	regexGroupClose    = ")"
	regexOptional      = "?"
	regexCaptureOpen   = "(?<"
	regexCaptureMiddle = ">.*)"
	regexClauseSep     = "|"
	regexSymbolSep     = " "
	regexWhitespace    = `\s*`
)

// Matcher owns the subtemplate table and compiles templates into anchored
// regular expressions with named capture groups. The table is populated
// during bundle loading and read-only during matching; matching itself is
// stateless.
type Matcher struct {
	subtemplates map[string]*Template
	subMu        sync.RWMutex
	compiled     map[*Template]*regexp2.Regexp
	compiledMu   sync.Mutex
	config       *matcherConfig
	logger       *zap.Logger
}

// NewMatcher creates a new Matcher with the given options.
func NewMatcher(opts ...Option) *Matcher {
	config := defaultMatcherConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgMatcherCreated)

	return &Matcher{
		subtemplates: make(map[string]*Template),
		compiled:     make(map[*Template]*regexp2.Regexp),
		config:       config,
		logger:       logger,
	}
}

// ParseTemplate parses a template DSL source string using the matcher's logger.
func (m *Matcher) ParseTemplate(source string) (*Template, error) {
	return parseTemplate(source, m.logger)
}

// AddSubtemplate registers a named subtemplate. The name is trimmed and may
// contain internal spaces. A later registration with the same name replaces
// the earlier one.
func (m *Matcher) AddSubtemplate(name string, template *Template) {
	name = strings.TrimSpace(name)

	m.subMu.Lock()
	m.subtemplates[name] = template
	m.subMu.Unlock()

	// Synthesized patterns may inline this subtemplate; drop stale ones.
	m.compiledMu.Lock()
	m.compiled = make(map[*Template]*regexp2.Regexp)
	m.compiledMu.Unlock()

	m.logger.Debug(LogMsgSubtemplateAdded, zap.String(LogFieldSubtemplate, name))
}

// HasSubtemplate checks if a subtemplate is registered with the given name.
func (m *Matcher) HasSubtemplate(name string) bool {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	_, ok := m.subtemplates[strings.TrimSpace(name)]
	return ok
}

// SubtemplateNames returns all registered subtemplate names in sorted order.
func (m *Matcher) SubtemplateNames() []string {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	names := make([]string, 0, len(m.subtemplates))
	for name := range m.subtemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SubtemplateCount returns the number of registered subtemplates.
func (m *Matcher) SubtemplateCount() int {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	return len(m.subtemplates)
}

// CompileRegex converts a template into a single anchored regex string with
// named capture groups. The result is lower-cased and every token separator
// is widened to \s*, so a match against normalized input is case-insensitive
// and whitespace-tolerant.
func (m *Matcher) CompileRegex(template *Template) (string, error) {
	state := &synthesisState{seen: make(map[string]struct{})}

	m.subMu.RLock()
	raw, err := m.synthesizeTemplate(template.node(), state, 0)
	m.subMu.RUnlock()
	if err != nil {
		return "", err
	}

	// The anchors must apply to every clause, not just the first and last
	// alternation branch.
	if len(template.node().Clauses) > 1 {
		raw = regexGroupOpen + raw + regexGroupClose
	}
	pattern := strings.ToLower(strings.ReplaceAll(raw, regexSymbolSep, regexWhitespace))
	pattern = regexAnchorStart + pattern + regexAnchorEnd

	m.logger.Debug(LogMsgRegexSynthesized,
		zap.String(LogFieldTemplate, template.Source()),
		zap.String(LogFieldPattern, pattern))
	return pattern, nil
}

// synthesisState tracks capture names across a template and its transitively
// inlined subtemplates.
type synthesisState struct {
	seen map[string]struct{}
}

// synthesizeTemplate joins clause regexes with alternation.
func (m *Matcher) synthesizeTemplate(t *internal.TemplateNode, state *synthesisState, depth int) (string, error) {
	clauses := make([]string, 0, len(t.Clauses))
	for _, clause := range t.Clauses {
		fragment, err := m.synthesizeClause(clause, state, depth)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, fragment)
	}
	return strings.Join(clauses, regexClauseSep), nil
}

// synthesizeClause joins symbol regexes with the token separator.
func (m *Matcher) synthesizeClause(c *internal.ClauseNode, state *synthesisState, depth int) (string, error) {
	symbols := make([]string, 0, len(c.Symbols))
	for _, sym := range c.Symbols {
		fragment, err := m.synthesizeSymbol(sym, state, depth)
		if err != nil {
			return "", err
		}
		symbols = append(symbols, fragment)
	}
	return strings.Join(symbols, regexSymbolSep), nil
}

// synthesizeSymbol emits the regex fragment for one symbol.
func (m *Matcher) synthesizeSymbol(sym *internal.Symbol, state *synthesisState, depth int) (string, error) {
	var fragment string
	grouped := false

	switch sym.Kind {
	case internal.SymbolKindText:
		fragment = regexp.QuoteMeta(sym.Text)

	case internal.SymbolKindVarBind:
		// Group names survive the final lower-casing, so collisions are
		// detected case-insensitively.
		name := strings.ToLower(sym.Text)
		if _, dup := state.seen[name]; dup {
			return "", NewDuplicateBindingError(name)
		}
		state.seen[name] = struct{}{}
		fragment = regexCaptureOpen + name + regexCaptureMiddle
		grouped = true

	case internal.SymbolKindSubtemplateCall:
		if depth >= m.config.maxDepth {
			return "", NewSubtemplateDepthError(sym.Text, depth)
		}
		sub, ok := m.subtemplates[sym.Text]
		if !ok {
			return "", NewSubtemplateNotFoundError(sym.Text)
		}
		inner, err := m.synthesizeTemplate(sub.node(), state, depth+1)
		if err != nil {
			return "", err
		}
		fragment = regexGroupOpen + inner + regexGroupClose
		grouped = true

	case internal.SymbolKindNestedTemplate:
		inner, err := m.synthesizeTemplate(sym.Nested, state, depth)
		if err != nil {
			return "", err
		}
		fragment = regexGroupOpen + inner + regexGroupClose
		grouped = true
	}

	if sym.Optional {
		if grouped {
			fragment += regexOptional
		} else {
			fragment = regexGroupOpen + fragment + regexGroupClose + regexOptional
		}
	}
	return fragment, nil
}

// TryMatch compiles the template and runs it against the input. It returns
// the captured bindings on a match, nil on a non-match (a normal outcome),
// and an error only for synthesis failures or an aborted match.
func (m *Matcher) TryMatch(input string, template *Template) (*Match, error) {
	re, pattern, err := m.compiledRegex(template)
	if err != nil {
		return nil, err
	}

	m.logger.Debug(LogMsgMatchAttempt,
		zap.String(LogFieldTemplate, template.Source()),
		zap.String(LogFieldInput, input))

	matched, err := re.FindStringMatch(input)
	if err != nil {
		return nil, NewMatchFailedError(pattern, err)
	}
	if matched == nil {
		return nil, nil
	}

	bindings := make(map[string]string)
	for _, group := range matched.Groups() {
		if isIndexGroupName(group.Name) {
			continue
		}
		if len(group.Captures) == 0 {
			continue
		}
		bindings[group.Name] = strings.TrimSpace(group.String())
	}

	m.logger.Debug(LogMsgMatchHit,
		zap.String(LogFieldTemplate, template.Source()),
		zap.Int(LogFieldBindings, len(bindings)))
	return newMatch(bindings), nil
}

// compiledRegex returns a cached compiled regex for the template,
// synthesizing and compiling on first use.
func (m *Matcher) compiledRegex(template *Template) (*regexp2.Regexp, string, error) {
	m.compiledMu.Lock()
	re, ok := m.compiled[template]
	m.compiledMu.Unlock()
	if ok {
		return re, re.String(), nil
	}

	pattern, err := m.CompileRegex(template)
	if err != nil {
		return nil, "", err
	}

	re, err = regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, "", NewInvalidRegexError(pattern, err)
	}
	if m.config.matchTimeout > 0 {
		re.MatchTimeout = m.config.matchTimeout
	}

	m.compiledMu.Lock()
	m.compiled[template] = re
	m.compiledMu.Unlock()
	return re, pattern, nil
}

// isIndexGroupName reports whether the group name is a numeric index rather
// than a named capture.
func isIndexGroupName(name string) bool {
	if name == "" {
		return true
	}
	_, err := strconv.Atoi(name)
	return err == nil
}
