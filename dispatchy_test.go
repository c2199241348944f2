package dispatchy_test

import (
	"strings"
	"testing"

	"github.com/itsatony/go-dispatchy"
	"github.com/itsatony/go-dispatchy/celscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// E2E Integration Tests - real CEL interpreter, no fakes.
// These tests exercise the full pipeline: bundle loading, module
// registration, matching, argument binding, and handler execution.

// newRecordingModule returns a module whose record function appends its
// argument to out.
func newRecordingModule(out *[]string) *dispatchy.Module {
	module := dispatchy.NewModule("Test")
	module.MustAddFunction(&dispatchy.NativeFunction{
		Name:   "record",
		Params: []string{"value"},
		Fn: func(args []dispatchy.Value) (dispatchy.Value, error) {
			if args[0].IsNull() {
				*out = append(*out, "<null>")
			} else {
				*out = append(*out, args[0].String())
			}
			return dispatchy.NullValue, nil
		},
	})
	return module
}

func TestE2E_DispatchThroughCEL(t *testing.T) {
	var recorded []string

	interp := celscript.New()
	runner := dispatchy.NewRunner(interp)

	err := runner.Bundle().Load(strings.NewReader(`% sub
pre command ask
(could|would) you please?
% end

% temp
{pre command ask}? play [song] on Spotify
(song: string)
Test_record(song)
% end

% fallback
(input: string)
Test_record("fallback: " + input)
% end
`), interp)
	require.NoError(t, err)
	require.NoError(t, runner.RegisterModules())
	require.NoError(t, interp.RegisterModule("Test", newRecordingModule(&recorded)))

	require.NoError(t, runner.Run("Could you play Enter Sandman on Spotify?"))
	require.NoError(t, runner.Run("what time is it"))

	assert.Equal(t, []string{
		"enter sandman",
		"fallback: what time is it",
	}, recorded)
}

func TestE2E_OptionalParameterNull(t *testing.T) {
	var recorded []string

	interp := celscript.New()
	runner := dispatchy.NewRunner(interp)

	err := runner.Bundle().Load(strings.NewReader(`% temp
stop|say [text]
(text: string?)
Test_record(text)
% end
`), interp)
	require.NoError(t, err)
	require.NoError(t, interp.RegisterModule("Test", newRecordingModule(&recorded)))

	require.NoError(t, runner.Run("say hello there"))
	require.NoError(t, runner.Run("stop"))

	assert.Equal(t, []string{"hello there", "<null>"}, recorded)
}

func TestE2E_MultipleEffectsViaListExpression(t *testing.T) {
	var recorded []string

	interp := celscript.New()
	runner := dispatchy.NewRunner(interp)

	err := runner.Bundle().Load(strings.NewReader(`% temp
greet [name]
(name: string)
[Test_record("hello"), Test_record(name)]
% end
`), interp)
	require.NoError(t, err)
	require.NoError(t, interp.RegisterModule("Test", newRecordingModule(&recorded)))

	require.NoError(t, runner.Run("greet alice"))
	assert.Equal(t, []string{"hello", "alice"}, recorded)
}
