package main

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/itsatony/go-dispatchy"
)

// matchConfig holds parsed match command configuration
type matchConfig struct {
	template   string
	input      string
	subs       subFlags
	printRegex bool
}

// subFlags collects repeatable -sub name=dsl definitions
type subFlags []string

func (s *subFlags) String() string {
	return strings.Join(*s, ",")
}

func (s *subFlags) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func runMatch(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseMatchFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}
	if cfg.template == "" {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgMissingTemplate, HelpMatchUsage)
		return ExitCodeUsageError
	}

	matcher := dispatchy.NewMatcher()
	for _, def := range cfg.subs {
		name, source, ok := strings.Cut(def, "=")
		if !ok {
			fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgInvalidFlags, def)
			return ExitCodeUsageError
		}
		sub, err := matcher.ParseTemplate(source)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseFailed, err)
			return ExitCodeInputError
		}
		matcher.AddSubtemplate(name, sub)
	}

	template, err := matcher.ParseTemplate(cfg.template)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseFailed, err)
		return ExitCodeInputError
	}

	if cfg.printRegex {
		pattern, err := matcher.CompileRegex(template)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
			return ExitCodeInputError
		}
		fmt.Fprintln(stdout, pattern)
	}

	m, err := matcher.TryMatch(dispatchy.NormalizeInput(cfg.input), template)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
		return ExitCodeInputError
	}
	if m == nil {
		fmt.Fprintln(stdout, "no match")
		return ExitCodeError
	}

	fmt.Fprintln(stdout, "match")
	bindings := m.Bindings()
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(stdout, FmtBinding, name, bindings[name])
	}
	return ExitCodeSuccess
}

// parseMatchFlags parses the match command's flags
func parseMatchFlags(args []string) (*matchConfig, error) {
	cfg := &matchConfig{}
	fs := flag.NewFlagSet(CmdNameMatch, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.template, "template", "", "template DSL source")
	fs.StringVar(&cfg.input, "input", "", "utterance to match")
	fs.Var(&cfg.subs, "sub", "subtemplate as name=dsl")
	fs.BoolVar(&cfg.printRegex, "regex", false, "print the synthesized regex")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
