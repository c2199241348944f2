package dispatchy_test

import (
	"testing"

	"github.com/itsatony/go-dispatchy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	s := dispatchy.NewStringValue("hello")
	assert.Equal(t, dispatchy.ValueKindString, s.Kind())
	assert.False(t, s.IsNull())
	assert.Equal(t, "hello", s.String())

	assert.Equal(t, dispatchy.ValueKindNull, dispatchy.NullValue.Kind())
	assert.True(t, dispatchy.NullValue.IsNull())
	assert.Equal(t, "", dispatchy.NullValue.String())
}

func TestStringParam(t *testing.T) {
	required := dispatchy.StringParam(false)
	assert.Equal(t, "string", required.Text)
	assert.Equal(t, dispatchy.ValueKindString, required.Kind)
	assert.False(t, required.Optional)

	optional := dispatchy.StringParam(true)
	assert.Equal(t, "string?", optional.Text)
	assert.True(t, optional.Optional)
}

func TestModule_AddFunction(t *testing.T) {
	module := dispatchy.NewModule("Test")
	assert.Equal(t, "Test", module.Name())

	fn := &dispatchy.NativeFunction{
		Name: "echo",
		Fn: func(args []dispatchy.Value) (dispatchy.Value, error) {
			return args[0], nil
		},
	}
	require.NoError(t, module.AddFunction(fn))

	got, ok := module.Function("echo")
	require.True(t, ok)
	assert.Same(t, fn, got)
	assert.Equal(t, []string{"echo"}, module.FunctionNames())
}

func TestModule_AddFunction_Errors(t *testing.T) {
	module := dispatchy.NewModule("Test")

	err := module.AddFunction(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), dispatchy.ErrMsgFunctionNil)

	err = module.AddFunction(&dispatchy.NativeFunction{
		Fn: func(args []dispatchy.Value) (dispatchy.Value, error) { return dispatchy.NullValue, nil },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), dispatchy.ErrMsgFunctionNoName)

	fn := &dispatchy.NativeFunction{
		Name: "echo",
		Fn:   func(args []dispatchy.Value) (dispatchy.Value, error) { return dispatchy.NullValue, nil },
	}
	require.NoError(t, module.AddFunction(fn))
	err = module.AddFunction(fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), dispatchy.ErrMsgFunctionExists)
}
