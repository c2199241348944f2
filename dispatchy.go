// Package dispatchy routes free-form user utterances to parameterized handler
// functions using a compositional template language.
//
// Templates are written in a small DSL: literal words match themselves,
// [name] captures a variable, {name} calls a named subtemplate, (a|b) groups
// an alternation, and a trailing ? marks any symbol optional:
//
//	{pre command ask}? play [song] on Spotify
//
// A template compiles to a single anchored regular expression with named
// capture groups. Matching is case-insensitive and tolerant of arbitrary
// whitespace between tokens; inputs are normalized (lower-cased, punctuation
// stripped) before matching.
//
// # Basic Usage
//
// Create a matcher, register subtemplates, and match inputs:
//
//	matcher := dispatchy.NewMatcher()
//	pre, _ := matcher.ParseTemplate("(could|would) you please?")
//	matcher.AddSubtemplate("pre command ask", pre)
//
//	tmpl, _ := matcher.ParseTemplate("{pre command ask}? play [song] on Spotify")
//	m, err := matcher.TryMatch("could you play enter sandman on spotify", tmpl)
//	// m.Binding("song") == "enter sandman", true
//
// # Bundles
//
// A bundle file pairs templates with handler functions and may define
// subtemplates and a fallback handler:
//
//	% sub
//	pre command ask
//	(could|would) you please?
//	% end
//
//	% temp
//	{pre command ask}? play [song] on Spotify
//	(song: string)
//	Spotify_play(song)
//	% end
//
//	% fallback
//	(input: string)
//	Debug_print(input)
//	% end
//
// Handler bodies are parsed and executed by an external interpreter supplied
// through the Interpreter interface; the celscript subpackage provides a
// CEL-backed implementation.
//
// # Dispatch
//
// The Runner wires a bundle to an interpreter and exposes capability modules
// (Debug, Memory, Voice, Spotify, Weather, Search) to handlers:
//
//	runner := dispatchy.NewRunner(interp, dispatchy.WithRunnerLogger(logger))
//	if err := runner.Init("commands.tmpl"); err != nil { ... }
//	_ = runner.Run("could you play enter sandman on spotify")
//
// Entries are tried in bundle order and the first match wins. When no entry
// matches, the fallback handler receives the original un-normalized input;
// with no fallback, an unmatched input is a defined no-op.
package dispatchy
