package dispatchy

import (
	"bufio"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// TemplateEntry pairs a template with its handler. Entries keep the order
// they appear in the bundle file; that order decides match priority.
type TemplateEntry struct {
	Template *Template
	Handler  HandlerSignature
}

// MatchResult is the outcome of a successful entry lookup.
type MatchResult struct {
	Entry   *TemplateEntry
	Handler HandlerSignature
	Match   *Match
}

// Bundle holds the subtemplates, template entries, and optional fallback
// loaded from a bundle file. Matching delegates to the owning Matcher.
type Bundle struct {
	matcher  *Matcher
	entries  []*TemplateEntry
	fallback HandlerSignature
	logger   *zap.Logger
}

// NewBundle creates an empty bundle backed by the given matcher.
func NewBundle(matcher *Matcher, opts ...Option) *Bundle {
	config := defaultMatcherConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Bundle{
		matcher: matcher,
		logger:  logger,
	}
}

// Matcher returns the matcher that owns this bundle's subtemplate table.
func (b *Bundle) Matcher() *Matcher {
	return b.matcher
}

// Entries returns the template entries in bundle order.
func (b *Bundle) Entries() []*TemplateEntry {
	out := make([]*TemplateEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// EntryCount returns the number of template entries.
func (b *Bundle) EntryCount() int {
	return len(b.entries)
}

// Fallback returns the fallback handler, or nil if none is defined.
func (b *Bundle) Fallback() HandlerSignature {
	return b.fallback
}

// FindFunction returns the first entry whose template matches the input,
// with the captured bindings, or nil if no entry matches. Entries are tried
// in strict bundle order.
func (b *Bundle) FindFunction(input string) (*MatchResult, error) {
	for _, entry := range b.entries {
		m, err := b.matcher.TryMatch(input, entry.Template)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return &MatchResult{Entry: entry, Handler: entry.Handler, Match: m}, nil
		}
	}
	return nil, nil
}

// LoadFile reads and loads a bundle file.
func (b *Bundle) LoadFile(path string, interp Interpreter) error {
	f, err := os.Open(path)
	if err != nil {
		return NewBundleReadError(path, err)
	}
	defer f.Close()

	b.logger.Debug(LogMsgBundleLoading, zap.String(LogFieldPath, path))
	return b.Load(f, interp)
}

// Load reads bundle sections from r until end of input. Sections start with
// a directive line and end with a "% end" line; blank lines separate
// sections at the top level.
func (b *Bundle) Load(r io.Reader, interp Interpreter) error {
	lines := newLineScanner(r)
	for lines.Peek() {
		if err := b.loadNext(lines, interp); err != nil {
			return err
		}
	}
	if err := lines.Err(); err != nil {
		return NewBundleReadError("", err)
	}

	b.logger.Debug(LogMsgBundleLoaded,
		zap.Int(LogFieldEntries, len(b.entries)),
		zap.Int(LogFieldSubs, b.matcher.SubtemplateCount()))
	return nil
}

// loadNext consumes one top-level element: a blank separator line, or a
// full directive section.
func (b *Bundle) loadNext(lines *lineScanner, interp Interpreter) error {
	line, ok := lines.Next()
	if !ok {
		return NewUnexpectedEOFError(StageLoadingNextElement)
	}
	if strings.TrimSpace(line) == "" {
		return nil
	}

	switch {
	case strings.HasPrefix(line, DirectiveTemplate):
		return b.loadTemplateSection(lines, interp)
	case strings.HasPrefix(line, DirectiveSub):
		return b.loadSubtemplateSection(lines)
	case strings.HasPrefix(line, DirectiveFallback):
		return b.loadFallbackSection(lines, interp)
	default:
		return NewIllegalLineError(line)
	}
}

// loadTemplateSection reads a template line and a handler body, parses both,
// and appends the entry.
func (b *Bundle) loadTemplateSection(lines *lineScanner, interp Interpreter) error {
	templateLine, ok := lines.Next()
	if !ok {
		return NewUnexpectedEOFError(StageReadingTemplateHeader)
	}

	body, err := b.collectFunctionBody(lines, StageReadingTemplateFunction)
	if err != nil {
		return err
	}

	template, err := b.matcher.ParseTemplate(templateLine)
	if err != nil {
		return err
	}

	sig, err := b.parseHandler(interp, body)
	if err != nil {
		return err
	}

	b.entries = append(b.entries, &TemplateEntry{Template: template, Handler: sig})
	b.logger.Debug(LogMsgEntryAdded, zap.String(LogFieldTemplate, templateLine))
	return nil
}

// loadSubtemplateSection reads a subtemplate name and body and registers it
// with the matcher. Body lines are concatenated with no separator.
func (b *Bundle) loadSubtemplateSection(lines *lineScanner) error {
	name, ok := lines.Next()
	if !ok {
		return NewUnexpectedEOFError(StageReadingSubtemplateHeader)
	}

	var bodyLines []string
	line := ""
	for !strings.HasPrefix(line, DirectiveEnd) {
		bodyLines = append(bodyLines, line)
		line, ok = lines.Next()
		if !ok {
			return NewUnexpectedEOFError(StageReadingSubtemplateBody)
		}
	}

	template, err := b.matcher.ParseTemplate(strings.Join(bodyLines, ""))
	if err != nil {
		return err
	}

	b.matcher.AddSubtemplate(name, template)
	return nil
}

// loadFallbackSection reads a handler body and installs it as the fallback.
// A later fallback section replaces an earlier one.
func (b *Bundle) loadFallbackSection(lines *lineScanner, interp Interpreter) error {
	body, err := b.collectFunctionBody(lines, StageReadingFallbackFunction)
	if err != nil {
		return err
	}

	sig, err := b.parseHandler(interp, body)
	if err != nil {
		return err
	}

	if b.fallback != nil {
		b.logger.Debug(LogMsgFallbackReplaced)
	} else {
		b.logger.Debug(LogMsgFallbackSet)
	}
	b.fallback = sig
	return nil
}

// collectFunctionBody reads handler lines until the end directive. The
// accumulation starts from a synthetic blank line that is dropped before
// joining, so every author-written line is preserved.
func (b *Bundle) collectFunctionBody(lines *lineScanner, stage string) (string, error) {
	functionLines := []string{}
	line := ""
	for !strings.HasPrefix(line, DirectiveEnd) {
		functionLines = append(functionLines, line)
		var ok bool
		line, ok = lines.Next()
		if !ok {
			return "", NewUnexpectedEOFError(stage)
		}
	}
	return strings.Join(functionLines[1:], "\n"), nil
}

// parseHandler runs handler source through the interpreter's parser and
// preprocessor.
func (b *Bundle) parseHandler(interp Interpreter, body string) (HandlerSignature, error) {
	src, err := interp.ParseFunction(body)
	if err != nil {
		return nil, err
	}
	return preprocessFunction(interp, src)
}

// lineScanner is a peekable line reader over a bundle stream.
type lineScanner struct {
	scanner *bufio.Scanner
	peeked  *string
	err     error
	done    bool
}

// newLineScanner creates a line scanner over r.
func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{scanner: bufio.NewScanner(r)}
}

// Peek reports whether another line is available without consuming it.
func (s *lineScanner) Peek() bool {
	if s.peeked != nil {
		return true
	}
	if s.done {
		return false
	}
	if s.scanner.Scan() {
		line := s.scanner.Text()
		s.peeked = &line
		return true
	}
	s.done = true
	s.err = s.scanner.Err()
	return false
}

// Next consumes and returns the next line.
func (s *lineScanner) Next() (string, bool) {
	if !s.Peek() {
		return "", false
	}
	line := *s.peeked
	s.peeked = nil
	return line, true
}

// Err returns the first I/O error encountered, if any.
func (s *lineScanner) Err() error {
	return s.err
}
