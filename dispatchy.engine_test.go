package dispatchy_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-dispatchy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMatcherWithPre creates a matcher with the "pre command ask" subtemplate
// registered.
func newMatcherWithPre(t *testing.T) *dispatchy.Matcher {
	t.Helper()
	matcher := dispatchy.NewMatcher()
	pre, err := matcher.ParseTemplate("(could|would) you please?")
	require.NoError(t, err)
	matcher.AddSubtemplate("pre command ask", pre)
	return matcher
}

func TestMatcher_CompileRegex_Golden(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "literal word",
			template: "foo",
			expected: "^foo$",
		},
		{
			name:     "optional literal wraps in non-capturing group",
			template: "foo?",
			expected: "^(?:foo)?$",
		},
		{
			name:     "variable binding",
			template: "[hello]",
			expected: "^(?<hello>.*)$",
		},
		{
			name:     "optional subtemplate call",
			template: "{pre command ask}?",
			expected: `^(?:(?:could|would)\s*you\s*(?:please)?)?$`,
		},
		{
			name:     "full command template",
			template: "{pre command ask}? play [song] on Spotify",
			expected: `^(?:(?:could|would)\s*you\s*(?:please)?)?\s*play\s*(?<song>.*)\s*on\s*spotify$`,
		},
		{
			name:     "top-level alternation anchors every clause",
			template: "hello|hi there",
			expected: `^(?:hello|hi\s*there)$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := newMatcherWithPre(t)
			template, err := matcher.ParseTemplate(tt.template)
			require.NoError(t, err)

			pattern, err := matcher.CompileRegex(template)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pattern)
		})
	}
}

func TestMatcher_CompileRegex_Anchoring(t *testing.T) {
	templates := []string{
		"foo",
		"foo?",
		"[hello]",
		"a|b|c",
		"(a|b) [x]? c",
		"{pre command ask}? foo",
	}

	matcher := newMatcherWithPre(t)
	for _, source := range templates {
		template, err := matcher.ParseTemplate(source)
		require.NoError(t, err)

		pattern, err := matcher.CompileRegex(template)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(pattern, "^"), "pattern %q must start anchored", pattern)
		assert.True(t, strings.HasSuffix(pattern, "$"), "pattern %q must end anchored", pattern)
	}
}

func TestMatcher_CompileRegex_EscapesTextMetacharacters(t *testing.T) {
	matcher := dispatchy.NewMatcher()
	template, err := matcher.ParseTemplate("3.14 a+b")
	require.NoError(t, err)

	pattern, err := matcher.CompileRegex(template)
	require.NoError(t, err)
	assert.Equal(t, `^3\.14\s*a\+b$`, pattern)

	// The dot must not match an arbitrary character.
	m, err := matcher.TryMatch("3x14 a+b", template)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMatcher_CompileRegex_DuplicateBindingRejected(t *testing.T) {
	matcher := dispatchy.NewMatcher()
	template, err := matcher.ParseTemplate("[x] and [x]")
	require.NoError(t, err)

	_, err = matcher.CompileRegex(template)
	require.Error(t, err)
	assert.Contains(t, err.Error(), dispatchy.ErrMsgDuplicateBinding)
}

func TestMatcher_CompileRegex_DuplicateBindingAcrossSubtemplate(t *testing.T) {
	matcher := dispatchy.NewMatcher()
	sub, err := matcher.ParseTemplate("for [song]")
	require.NoError(t, err)
	matcher.AddSubtemplate("target", sub)

	template, err := matcher.ParseTemplate("play [song] {target}")
	require.NoError(t, err)

	_, err = matcher.CompileRegex(template)
	require.Error(t, err)
	assert.Contains(t, err.Error(), dispatchy.ErrMsgDuplicateBinding)
}

func TestMatcher_CompileRegex_SubtemplateNotFound(t *testing.T) {
	matcher := dispatchy.NewMatcher()
	template, err := matcher.ParseTemplate("{bar} foo")
	require.NoError(t, err)

	_, err = matcher.CompileRegex(template)
	require.Error(t, err)
	assert.Contains(t, err.Error(), dispatchy.ErrMsgSubtemplateNotFound)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	name, ok := customErr.GetMetadata(dispatchy.MetaKeySubtemplate)
	assert.True(t, ok)
	assert.Equal(t, "bar", name)
}

func TestMatcher_CompileRegex_SelfReferenceDepthLimited(t *testing.T) {
	matcher := dispatchy.NewMatcher()
	sub, err := matcher.ParseTemplate("again {loop}")
	require.NoError(t, err)
	matcher.AddSubtemplate("loop", sub)

	template, err := matcher.ParseTemplate("{loop}")
	require.NoError(t, err)

	_, err = matcher.CompileRegex(template)
	require.Error(t, err)
	assert.Contains(t, err.Error(), dispatchy.ErrMsgSubtemplateDepth)
}

func TestMatcher_TryMatch_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		template string
		input    string
		match    bool
		bindings map[string]string
	}{
		{
			name:     "literal word matches itself",
			template: "foo",
			input:    "foo",
			match:    true,
			bindings: map[string]string{},
		},
		{
			name:     "optional word matches empty input",
			template: "foo?",
			input:    "",
			match:    true,
		},
		{
			name:     "optional group matches present input",
			template: "(foo)?",
			input:    "foo",
			match:    true,
		},
		{
			name:     "binding captures whole input",
			template: "[hello]",
			input:    "anything",
			match:    true,
			bindings: map[string]string{"hello": "anything"},
		},
		{
			name:     "optional subtemplate present",
			template: "{pre command ask}? foo",
			input:    "could you please foo",
			match:    true,
		},
		{
			name:     "partial subtemplate does not match",
			template: "{pre command ask}? foo",
			input:    "you please foo",
			match:    false,
		},
		{
			name:     "command with binding and subtemplate",
			template: "{pre command ask}? play [song] on Spotify",
			input:    "could you play enter sandman on spotify",
			match:    true,
			bindings: map[string]string{"song": "enter sandman"},
		},
		{
			name:     "upper-case input matches after normalization",
			template: "foo",
			input:    "FOO",
			match:    true,
		},
		{
			name:     "alternation selects second clause",
			template: "hello|hi there",
			input:    "hi there",
			match:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := newMatcherWithPre(t)
			template, err := matcher.ParseTemplate(tt.template)
			require.NoError(t, err)

			m, err := matcher.TryMatch(dispatchy.NormalizeInput(tt.input), template)
			require.NoError(t, err)

			if !tt.match {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			for name, expected := range tt.bindings {
				value, ok := m.Binding(name)
				assert.True(t, ok, "binding %q should be captured", name)
				assert.Equal(t, expected, value)
			}
			if tt.bindings != nil {
				assert.Equal(t, len(tt.bindings), m.Len())
			}
		})
	}
}

func TestMatcher_TryMatch_BindingsAreTrimmed(t *testing.T) {
	matcher := dispatchy.NewMatcher()
	template, err := matcher.ParseTemplate("play [song] now")
	require.NoError(t, err)

	m, err := matcher.TryMatch("play   enter   sandman   now", template)
	require.NoError(t, err)
	require.NotNil(t, m)

	song, ok := m.Binding("song")
	require.True(t, ok)
	assert.Equal(t, song, strings.TrimSpace(song))
	assert.Equal(t, "enter   sandman", song)
}

func TestMatcher_TryMatch_UppercaseBindingNameIsLowered(t *testing.T) {
	matcher := dispatchy.NewMatcher()
	template, err := matcher.ParseTemplate("play [Song]")
	require.NoError(t, err)

	m, err := matcher.TryMatch("play thunderstruck", template)
	require.NoError(t, err)
	require.NotNil(t, m)

	value, ok := m.Binding("song")
	assert.True(t, ok)
	assert.Equal(t, "thunderstruck", value)
}

func TestMatcher_TryMatch_UnmatchedBranchBindingAbsent(t *testing.T) {
	matcher := dispatchy.NewMatcher()
	template, err := matcher.ParseTemplate("stop|say [text]")
	require.NoError(t, err)

	m, err := matcher.TryMatch("stop", template)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.False(t, m.Has("text"))
}

func TestMatcher_TryMatch_SubtemplateTransparency(t *testing.T) {
	// Calling {greet} must accept the same language as inlining its body.
	matcher := dispatchy.NewMatcher()
	greet, err := matcher.ParseTemplate("hello|hi")
	require.NoError(t, err)
	matcher.AddSubtemplate("greet", greet)

	viaCall, err := matcher.ParseTemplate("{greet} world")
	require.NoError(t, err)
	inlined, err := matcher.ParseTemplate("(hello|hi) world")
	require.NoError(t, err)

	for _, input := range []string{"hello world", "hi world", "hey world", "world"} {
		mCall, err := matcher.TryMatch(input, viaCall)
		require.NoError(t, err)
		mInline, err := matcher.TryMatch(input, inlined)
		require.NoError(t, err)
		assert.Equal(t, mInline == nil, mCall == nil, "input %q", input)
	}
}

func TestMatcher_TryMatch_WhitespaceTolerant(t *testing.T) {
	matcher := dispatchy.NewMatcher()
	template, err := matcher.ParseTemplate("turn off the lights")
	require.NoError(t, err)

	m, err := matcher.TryMatch("turn  off   the    lights", template)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestMatcher_Subtemplates(t *testing.T) {
	matcher := dispatchy.NewMatcher()
	assert.Equal(t, 0, matcher.SubtemplateCount())

	matcher.AddSubtemplate("  pre command ask  ", dispatchy.MustParseTemplate("(could|would) you"))
	assert.True(t, matcher.HasSubtemplate("pre command ask"))
	assert.Equal(t, 1, matcher.SubtemplateCount())
	assert.Equal(t, []string{"pre command ask"}, matcher.SubtemplateNames())
}
