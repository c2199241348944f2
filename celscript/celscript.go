// Package celscript is a CEL-backed implementation of the dispatchy
// interpreter interface.
//
// A handler body is a signature line followed by a single CEL expression:
//
//	(song: string, artist: string?)
//	Spotify_play(song)
//
// Parameters are declared name: type pairs; the only supported types are
// string and string?. Capability module functions are exposed to expressions
// as Module_function(args...). Handlers that need several effects evaluate a
// list expression:
//
//	[Debug_print(input), Voice_say(input)]
//
// Parsing validates syntax at load time; type checking and program
// construction happen lazily on first call, after all modules have been
// registered.
package celscript

import (
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-dispatchy"
	"go.uber.org/zap"
)

// Error message constants
const (
	ErrMsgMissingSignature = "handler body must start with a parameter signature line"
	ErrMsgBadSignature     = "malformed parameter signature"
	ErrMsgBadParamType     = "unsupported parameter type, must be string or string?"
	ErrMsgEmptyBody        = "handler body has no expression"
	ErrMsgParseFailed      = "failed to parse handler expression"
	ErrMsgCompileFailed    = "failed to compile handler expression"
	ErrMsgEvalFailed       = "handler evaluation failed"
	ErrMsgForeignFunction  = "handler was not produced by this interpreter"
	ErrMsgArityMismatch    = "argument count does not match handler parameters"
	ErrMsgModuleExists     = "module already registered"
)

// Error code constant
const ErrCodeScript = "CELSCRIPT"

// Metadata key constants
const (
	MetaKeyFragment = "fragment"
	MetaKeyModule   = "module"
)

// Signature syntax constants
const (
	signatureOpen     = "("
	signatureClose    = ")"
	signatureSep      = ","
	signatureTypeSep  = ":"
	optionalSuffix    = "?"
	typeNameString    = "string"
	moduleFuncJoiner  = "_"
)

// Interpreter is a CEL-backed dispatchy.Interpreter.
type Interpreter struct {
	mu      sync.Mutex
	modules map[string]*dispatchy.Module
	logger  *zap.Logger
}

// Option is a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithLogger sets the interpreter's logger.
// Default: no logging
func WithLogger(logger *zap.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// New creates a new CEL interpreter.
func New(opts ...Option) *Interpreter {
	interp := &Interpreter{
		modules: make(map[string]*dispatchy.Module),
	}
	for _, opt := range opts {
		opt(interp)
	}
	if interp.logger == nil {
		interp.logger = zap.NewNop()
	}
	return interp
}

// param is one declared handler parameter.
type param struct {
	name     string
	optional bool
}

// Function is a parsed, callable handler. It implements both
// dispatchy.HandlerSource and dispatchy.HandlerSignature.
type Function struct {
	interp *Interpreter
	params []param
	source string

	compileOnce sync.Once
	program     cel.Program
	compileErr  error
}

// NumParams returns the number of declared parameters.
func (f *Function) NumParams() int {
	return len(f.params)
}

// ParamName returns the name of the i-th parameter.
func (f *Function) ParamName(i int) string {
	return f.params[i].name
}

// ParamType returns the declared type of the i-th parameter.
func (f *Function) ParamType(i int) dispatchy.ParamType {
	return dispatchy.StringParam(f.params[i].optional)
}

// ParseFunction parses a handler body: a signature line followed by a CEL
// expression. Syntax is validated here; the program is built lazily.
func (i *Interpreter) ParseFunction(source string) (dispatchy.HandlerSource, error) {
	lines := strings.Split(source, "\n")
	idx := 0
	for idx < len(lines) && strings.TrimSpace(lines[idx]) == "" {
		idx++
	}
	if idx >= len(lines) {
		return nil, cuserr.NewValidationError(ErrCodeScript, ErrMsgMissingSignature)
	}

	signature := strings.TrimSpace(lines[idx])
	params, err := parseSignature(signature)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(strings.Join(lines[idx+1:], "\n"))
	if body == "" {
		return nil, cuserr.NewValidationError(ErrCodeScript, ErrMsgEmptyBody)
	}

	// Validate expression syntax with a bare environment; unknown functions
	// and variables are resolved at compile time.
	env, err := cel.NewEnv()
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeScript, ErrMsgParseFailed)
	}
	if _, iss := env.Parse(body); iss != nil && iss.Err() != nil {
		return nil, cuserr.WrapStdError(iss.Err(), ErrCodeScript, ErrMsgParseFailed).
			WithMetadata(MetaKeyFragment, body)
	}

	return &Function{interp: i, params: params, source: body}, nil
}

// PreprocessFunction turns a parsed handler into a callable signature.
// For this interpreter parsing already yields a signature, so preprocessing
// is the identity plus a provenance check.
func (i *Interpreter) PreprocessFunction(src dispatchy.HandlerSource) (dispatchy.HandlerSignature, error) {
	fn, ok := src.(*Function)
	if !ok {
		return nil, cuserr.NewValidationError(ErrCodeScript, ErrMsgForeignFunction)
	}
	return fn, nil
}

// parseSignature parses "(name: string, other: string?)" into params.
func parseSignature(signature string) ([]param, error) {
	if !strings.HasPrefix(signature, signatureOpen) || !strings.HasSuffix(signature, signatureClose) {
		return nil, cuserr.NewValidationError(ErrCodeScript, ErrMsgMissingSignature).
			WithMetadata(MetaKeyFragment, signature)
	}

	inner := strings.TrimSpace(signature[len(signatureOpen) : len(signature)-len(signatureClose)])
	if inner == "" {
		return nil, nil
	}

	parts := strings.Split(inner, signatureSep)
	params := make([]param, 0, len(parts))
	for _, part := range parts {
		name, typeText, ok := strings.Cut(part, signatureTypeSep)
		if !ok {
			return nil, cuserr.NewValidationError(ErrCodeScript, ErrMsgBadSignature).
				WithMetadata(MetaKeyFragment, part)
		}
		name = strings.TrimSpace(name)
		typeText = strings.TrimSpace(typeText)
		if name == "" {
			return nil, cuserr.NewValidationError(ErrCodeScript, ErrMsgBadSignature).
				WithMetadata(MetaKeyFragment, part)
		}

		optional := strings.HasSuffix(typeText, optionalSuffix)
		baseType := strings.TrimSuffix(typeText, optionalSuffix)
		if baseType != typeNameString {
			return nil, cuserr.NewValidationError(ErrCodeScript, ErrMsgBadParamType).
				WithMetadata(MetaKeyFragment, typeText)
		}
		params = append(params, param{name: name, optional: optional})
	}
	return params, nil
}

// RegisterModule exposes a capability module's functions to handler
// expressions as Module_function overloads.
func (i *Interpreter) RegisterModule(path string, module *dispatchy.Module) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.modules[path]; exists {
		return cuserr.NewValidationError(ErrCodeScript, ErrMsgModuleExists).
			WithMetadata(MetaKeyModule, path)
	}
	i.modules[path] = module
	return nil
}

// CallFunction evaluates a handler with ordered string-or-null arguments.
func (i *Interpreter) CallFunction(sig dispatchy.HandlerSignature, args []dispatchy.Value) (dispatchy.Value, error) {
	fn, ok := sig.(*Function)
	if !ok {
		return dispatchy.NullValue, cuserr.NewValidationError(ErrCodeScript, ErrMsgForeignFunction)
	}
	if len(args) != len(fn.params) {
		return dispatchy.NullValue, cuserr.NewValidationError(ErrCodeScript, ErrMsgArityMismatch)
	}

	fn.compileOnce.Do(func() {
		fn.program, fn.compileErr = i.buildProgram(fn)
	})
	if fn.compileErr != nil {
		return dispatchy.NullValue, fn.compileErr
	}

	activation := make(map[string]any, len(args))
	for idx, p := range fn.params {
		if args[idx].IsNull() {
			activation[p.name] = nil
		} else {
			activation[p.name] = args[idx].String()
		}
	}

	out, _, err := fn.program.Eval(activation)
	if err != nil {
		return dispatchy.NullValue, cuserr.WrapStdError(err, ErrCodeScript, ErrMsgEvalFailed)
	}
	return refToValue(out), nil
}

// buildProgram compiles a handler expression against an environment that
// declares its parameters and every registered module function.
func (i *Interpreter) buildProgram(fn *Function) (cel.Program, error) {
	opts := make([]cel.EnvOption, 0, len(fn.params)+len(i.modules))
	for _, p := range fn.params {
		opts = append(opts, cel.Variable(p.name, cel.DynType))
	}

	i.mu.Lock()
	for path, module := range i.modules {
		for _, fnName := range module.FunctionNames() {
			native, _ := module.Function(fnName)
			opts = append(opts, moduleFunctionOption(path, native))
		}
	}
	i.mu.Unlock()

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeScript, ErrMsgCompileFailed)
	}

	ast, iss := env.Compile(fn.source)
	if iss != nil && iss.Err() != nil {
		return nil, cuserr.WrapStdError(iss.Err(), ErrCodeScript, ErrMsgCompileFailed).
			WithMetadata(MetaKeyFragment, fn.source)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeScript, ErrMsgCompileFailed)
	}
	return program, nil
}

// moduleFunctionOption declares one native function as a CEL overload named
// Module_function with dyn arguments.
func moduleFunctionOption(modulePath string, native *dispatchy.NativeFunction) cel.EnvOption {
	celName := modulePath + moduleFuncJoiner + native.Name
	argTypes := make([]*cel.Type, len(native.Params))
	for i := range argTypes {
		argTypes[i] = cel.DynType
	}

	binding := func(args ...ref.Val) ref.Val {
		values := make([]dispatchy.Value, len(args))
		for i, arg := range args {
			values[i] = refArgToValue(arg)
		}
		result, err := native.Fn(values)
		if err != nil {
			return types.WrapErr(err)
		}
		return valueToRef(result)
	}

	overloadID := strings.ToLower(celName) + moduleFuncJoiner + "dyn"
	return cel.Function(celName,
		cel.Overload(overloadID, argTypes, cel.DynType,
			cel.FunctionBinding(binding)))
}

// refArgToValue converts a CEL argument into a core value.
func refArgToValue(v ref.Val) dispatchy.Value {
	if v == nil || v.Type() == types.NullType {
		return dispatchy.NullValue
	}
	if s, ok := v.Value().(string); ok {
		return dispatchy.NewStringValue(s)
	}
	return dispatchy.NullValue
}

// refToValue converts a CEL result into a core value.
func refToValue(v ref.Val) dispatchy.Value {
	return refArgToValue(v)
}

// valueToRef converts a core value into a CEL value.
func valueToRef(v dispatchy.Value) ref.Val {
	if v.IsNull() {
		return types.NullValue
	}
	return types.String(v.String())
}
