package dispatchy

import "sort"

// ValueKind identifies the kind of a Value.
type ValueKind int

// Value kind constants. The core only constructs strings and null; an
// interpreter may carry richer values internally.
const (
	ValueKindNull ValueKind = iota
	ValueKindString
)

// Value is an argument or result exchanged with the interpreter.
type Value struct {
	kind ValueKind
	str  string
}

// NullValue is the null argument passed for a missing optional binding.
var NullValue = Value{kind: ValueKindNull}

// NewStringValue creates a string value.
func NewStringValue(s string) Value {
	return Value{kind: ValueKindString, str: s}
}

// Kind returns the value's kind.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == ValueKindNull
}

// String returns the string content; empty for null.
func (v Value) String() string {
	return v.str
}

// ParamType describes a handler parameter's declared type.
type ParamType struct {
	// Text is the source form of the type, e.g. "string" or "string?".
	Text string
	// Kind is the base value kind the parameter accepts.
	Kind ValueKind
	// Optional reports whether the parameter accepts null.
	Optional bool
}

// StringParam returns the string parameter type, optionally nullable.
func StringParam(optional bool) ParamType {
	if optional {
		return ParamType{Text: ParamTypeTextOptionalString, Kind: ValueKindString, Optional: true}
	}
	return ParamType{Text: ParamTypeTextString, Kind: ValueKindString, Optional: false}
}

// HandlerSource is an interpreter-specific parsed handler, produced by
// ParseFunction and consumed by the preprocessing step.
type HandlerSource any

// HandlerSignature is a callable handler descriptor. The core needs only the
// parameter count, ordered parameter names, and parameter types.
type HandlerSignature interface {
	// NumParams returns the number of declared parameters.
	NumParams() int
	// ParamName returns the name of the i-th parameter.
	ParamName(i int) string
	// ParamType returns the declared type of the i-th parameter.
	ParamType(i int) ParamType
}

// Interpreter is the embedded scripting engine consumed by the core. The
// core never executes handler bodies itself; it parses them through this
// interface at load time and invokes them at dispatch time.
type Interpreter interface {
	// ParseFunction parses handler source text.
	ParseFunction(source string) (HandlerSource, error)
	// RegisterModule exposes a named capability module to handlers.
	RegisterModule(path string, module *Module) error
	// CallFunction invokes a handler with ordered string-or-null arguments.
	CallFunction(sig HandlerSignature, args []Value) (Value, error)
}

// FunctionPreprocessor is an optional interpreter capability that turns a
// parsed handler into a callable signature. Interpreters without a
// preprocessing step may return HandlerSignature values directly from
// ParseFunction, in which case preprocessing is the identity.
type FunctionPreprocessor interface {
	PreprocessFunction(src HandlerSource) (HandlerSignature, error)
}

// preprocessFunction resolves a parsed handler into a callable signature,
// using the interpreter's preprocessor when it has one.
func preprocessFunction(interp Interpreter, src HandlerSource) (HandlerSignature, error) {
	if pp, ok := interp.(FunctionPreprocessor); ok {
		return pp.PreprocessFunction(src)
	}
	if sig, ok := src.(HandlerSignature); ok {
		return sig, nil
	}
	return nil, NewHandlerNotCallableError()
}

// NativeFunction is a host function exposed to handlers through a module.
type NativeFunction struct {
	// Name is the function identifier within its module.
	Name string
	// Params are the parameter names, for documentation and arity.
	Params []string
	// Fn is the implementation. Arguments are string or null values.
	Fn func(args []Value) (Value, error)
}

// Module is a named bundle of native functions the runner registers with
// the interpreter.
type Module struct {
	name      string
	functions map[string]*NativeFunction
}

// NewModule creates an empty module with the given name.
func NewModule(name string) *Module {
	return &Module{
		name:      name,
		functions: make(map[string]*NativeFunction),
	}
}

// Name returns the module's name.
func (m *Module) Name() string {
	return m.name
}

// AddFunction registers a native function on the module.
// Returns an error if the function is nil, unnamed, or already registered.
func (m *Module) AddFunction(fn *NativeFunction) error {
	if fn == nil || fn.Fn == nil {
		return NewModuleFunctionError(ErrMsgFunctionNil, m.name, "")
	}
	if fn.Name == "" {
		return NewModuleFunctionError(ErrMsgFunctionNoName, m.name, "")
	}
	if _, exists := m.functions[fn.Name]; exists {
		return NewModuleFunctionError(ErrMsgFunctionExists, m.name, fn.Name)
	}
	m.functions[fn.Name] = fn
	return nil
}

// MustAddFunction registers a native function and panics on error.
func (m *Module) MustAddFunction(fn *NativeFunction) {
	if err := m.AddFunction(fn); err != nil {
		panic(err)
	}
}

// Function returns the named function and whether it exists.
func (m *Module) Function(name string) (*NativeFunction, bool) {
	fn, ok := m.functions[name]
	return fn, ok
}

// FunctionNames returns all function names in sorted order.
func (m *Module) FunctionNames() []string {
	names := make([]string, 0, len(m.functions))
	for name := range m.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
