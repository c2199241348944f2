package dispatchy_test

import (
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-dispatchy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate_Valid(t *testing.T) {
	sources := []string{
		"foo",
		"foo bar baz",
		"foo? bar?",
		"[song]",
		"{pre command ask}",
		"(a|b)? c",
		"hello|hi|hey",
		"{pre command ask}? play [song] on Spotify",
	}

	for _, source := range sources {
		template, err := dispatchy.ParseTemplate(source)
		require.NoError(t, err, "source %q", source)
		assert.Equal(t, source, template.Source())
	}
}

func TestParseTemplate_TemplateErrors(t *testing.T) {
	sources := []string{
		"",
		"   ",
		"foo |",
		"| foo",
		"(foo",
		"foo)",
		"()",
	}

	for _, source := range sources {
		_, err := dispatchy.ParseTemplate(source)
		require.Error(t, err, "source %q", source)
		assert.Contains(t, err.Error(), dispatchy.ErrMsgTemplateParseFailed, "source %q", source)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		got, ok := customErr.GetMetadata(dispatchy.MetaKeySource)
		assert.True(t, ok)
		assert.Equal(t, source, got)
	}
}

func TestParseTemplate_SymbolErrors(t *testing.T) {
	tests := []struct {
		source   string
		fragment string
	}{
		{source: "[song", fragment: "[song"},
		{source: "play []", fragment: "[]"},
		{source: "{}", fragment: "{}"},
		{source: "play ? it", fragment: "?"},
		{source: "foo ]", fragment: "]"},
	}

	for _, tt := range tests {
		_, err := dispatchy.ParseTemplate(tt.source)
		require.Error(t, err, "source %q", tt.source)
		assert.Contains(t, err.Error(), dispatchy.ErrMsgSymbolParseFailed, "source %q", tt.source)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		fragment, ok := customErr.GetMetadata(dispatchy.MetaKeyFragment)
		assert.True(t, ok)
		assert.Equal(t, tt.fragment, fragment, "source %q", tt.source)
	}
}

func TestMustParseTemplate_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		dispatchy.MustParseTemplate("(foo")
	})
}
