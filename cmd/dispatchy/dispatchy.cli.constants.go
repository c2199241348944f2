package main

// Command name constants
const (
	CmdNameRun     = "run"
	CmdNameMatch   = "match"
	CmdNameVersion = "version"
	CmdNameHelp    = "help"
)

// Exit code constants
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeUsageError = 2
	ExitCodeInputError = 4
)

// Version constants
const (
	Version = "0.2.0"
)

// Output format constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtBinding         = "%s = %q\n"
	FmtVersion         = "dispatchy %s\n"
	ReplPrompt         = "> "
	ReplGoodbye        = "bye"
)

// REPL exit words
const (
	ReplWordExit = "exit"
	ReplWordQuit = "quit"
)

// Error message constants
const (
	ErrMsgUnknownCommand     = "unknown command"
	ErrMsgMissingConfig      = "config file is required"
	ErrMsgMissingTemplate    = "template is required"
	ErrMsgMissingInput       = "input is required"
	ErrMsgLoadConfigFailed   = "failed to load config"
	ErrMsgOpenMemoryFailed   = "failed to open memory store"
	ErrMsgInitRunnerFailed   = "failed to initialize runner"
	ErrMsgDispatchFailed     = "dispatch failed"
	ErrMsgParseFailed        = "failed to parse template"
	ErrMsgCompileFailed      = "failed to compile template"
	ErrMsgReadInputFailed    = "failed to read input"
	ErrMsgInvalidFlags       = "invalid flags"
)

// Help text constants
const (
	HelpMainUsage = `dispatchy - template-driven voice/text command dispatcher

Usage:
  dispatchy <command> [flags]

Commands:
  run       Load a bundle and dispatch console input in a loop
  match     Try a template against an input and print the bindings
  version   Print version information
  help      Show help for a command

Use "dispatchy help <command>" for command details.`

	HelpRunUsage = `dispatchy run - dispatch console input against a bundle

Usage:
  dispatchy run -config <config.yaml>
  dispatchy run -bundle <commands.tmpl>

Flags:
  -config string   YAML config file (bundle path, memory, API keys)
  -bundle string   bundle file (overrides the config's bundle_path)

Reads utterances from stdin, one per line, until EOF or "exit". Dispatch
errors are printed and the loop continues.`

	HelpMatchUsage = `dispatchy match - try a template against an input

Usage:
  dispatchy match -template "<dsl>" -input "<utterance>" [-sub "name=<dsl>"]...

Flags:
  -template string   template DSL source
  -input string      utterance to match
  -sub value         subtemplate definition as name=dsl (repeatable)
  -regex             also print the synthesized regex

Prints the captured bindings on a match; exits 1 on a non-match.`

	HelpVersionUsage = `dispatchy version - print version information

Usage:
  dispatchy version`

	HelpHelpUsage = `dispatchy help - show help

Usage:
  dispatchy help [command]`
)
