package dispatchy

import (
	"errors"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Parse errors
	ErrMsgTemplateParseFailed = "failed to parse template"
	ErrMsgSymbolParseFailed   = "failed to parse symbol"

	// Synthesis errors
	ErrMsgSubtemplateNotFound = "subtemplate not found"
	ErrMsgInvalidRegex        = "synthesized regex is invalid"
	ErrMsgDuplicateBinding    = "duplicate variable binding"
	ErrMsgSubtemplateDepth    = "subtemplate inlining depth exceeded"
	ErrMsgMatchFailed         = "regex match aborted"

	// Bundle errors
	ErrMsgIllegalLine   = "illegal line"
	ErrMsgUnexpectedEOF = "unexpected end of input"
	ErrMsgBundleRead    = "failed to read bundle"

	// Dispatch errors
	ErrMsgBindingNotFound      = "binding for required parameter not found"
	ErrMsgInvalidParameterType = "invalid parameter type, parameters must be string or string?"
	ErrMsgHandlerNotCallable   = "handler source is not callable and interpreter has no preprocessor"

	// Module errors
	ErrMsgFunctionExists    = "module function already registered"
	ErrMsgFunctionNil       = "module function cannot be nil"
	ErrMsgFunctionNoName    = "module function name cannot be empty"
	ErrMsgCapabilityMissing = "capability not configured"

	// Memory store errors
	ErrMsgMemoryKeyNotFound       = "memory key not found"
	ErrMsgMemoryDriverNil         = "memory driver is nil"
	ErrMsgMemoryDriverExists      = "memory driver already registered"
	ErrMsgMemoryDriverNotFound    = "memory driver not found"
	ErrMsgMemoryClosed            = "memory store is closed"
	ErrMsgMemoryNotList           = "memory value is not a list"
	ErrMsgMemoryPersist           = "failed to persist memory file"
	ErrMsgMemoryLoad              = "failed to load memory file"
	ErrMsgMemoryMigrate           = "failed to migrate memory schema"
	ErrMsgMemoryConnect           = "failed to connect to memory database"

	// Config errors
	ErrMsgConfigRead  = "failed to read config file"
	ErrMsgConfigParse = "failed to parse config file"

	// Capability client errors
	ErrMsgTranscribeFailed   = "transcription request failed"
	ErrMsgSynthesizeFailed   = "speech synthesis request failed"
	ErrMsgSpotifyAuthFailed  = "spotify token request failed"
	ErrMsgSpotifySearch      = "spotify search request failed"
	ErrMsgSpotifyPlay        = "spotify playback request failed"
	ErrMsgWeatherLookup      = "weather lookup failed"
	ErrMsgLocationLookup     = "location lookup failed"
	ErrMsgSearchLookup       = "web search failed"
	ErrMsgUnexpectedStatus   = "unexpected response status"
	ErrMsgEmptyTranscript    = "transcription returned no transcript"
)

// Error code constants for categorization
const (
	ErrCodeParse      = "DISPATCHY_PARSE"
	ErrCodeSynthesis  = "DISPATCHY_SYNTH"
	ErrCodeBundle     = "DISPATCHY_BUNDLE"
	ErrCodeDispatch   = "DISPATCHY_DISPATCH"
	ErrCodeModule     = "DISPATCHY_MODULE"
	ErrCodeMemory     = "DISPATCHY_MEMORY"
	ErrCodeConfig     = "DISPATCHY_CONFIG"
	ErrCodeCapability = "DISPATCHY_CAPABILITY"
)

// NewTemplateParseError creates an error for a template that failed to parse
func NewTemplateParseError(source string, line, column int, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeParse, ErrMsgTemplateParseFailed)
	} else {
		err = cuserr.NewValidationError(ErrCodeParse, ErrMsgTemplateParseFailed)
	}
	return err.
		WithMetadata(MetaKeySource, source).
		WithMetadata(MetaKeyLine, strconv.Itoa(line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(column))
}

// NewSymbolParseError creates an error for an unrecognized atom shape
func NewSymbolParseError(fragment string, line, column int) error {
	return cuserr.NewValidationError(ErrCodeParse, ErrMsgSymbolParseFailed).
		WithMetadata(MetaKeyFragment, fragment).
		WithMetadata(MetaKeyLine, strconv.Itoa(line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(column))
}

// NewSubtemplateNotFoundError creates an error for an unresolvable subtemplate call
func NewSubtemplateNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeySubtemplate, ErrMsgSubtemplateNotFound).
		WithMetadata(MetaKeySubtemplate, name)
}

// NewInvalidRegexError creates an error for a synthesized regex the engine rejects
func NewInvalidRegexError(pattern string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeSynthesis, ErrMsgInvalidRegex)
	} else {
		err = cuserr.NewValidationError(ErrCodeSynthesis, ErrMsgInvalidRegex)
	}
	return err.WithMetadata(MetaKeyPattern, pattern)
}

// NewDuplicateBindingError creates an error for a binding name captured twice
func NewDuplicateBindingError(name string) error {
	return cuserr.NewValidationError(ErrCodeSynthesis, ErrMsgDuplicateBinding).
		WithMetadata(MetaKeyBinding, name)
}

// NewSubtemplateDepthError creates an error when subtemplate inlining recurses too deep
func NewSubtemplateDepthError(name string, depth int) error {
	return cuserr.NewValidationError(ErrCodeSynthesis, ErrMsgSubtemplateDepth).
		WithMetadata(MetaKeySubtemplate, name).
		WithMetadata(MetaKeyDepth, strconv.Itoa(depth))
}

// NewMatchFailedError creates an error for a match the engine aborted (e.g. timeout)
func NewMatchFailedError(pattern string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeSynthesis, ErrMsgMatchFailed).
		WithMetadata(MetaKeyPattern, pattern)
}

// NewIllegalLineError creates an error for an unrecognized top-level bundle line
func NewIllegalLineError(text string) error {
	return cuserr.NewValidationError(ErrCodeBundle, ErrMsgIllegalLine).
		WithMetadata(MetaKeyText, text)
}

// NewUnexpectedEOFError creates an error for a bundle that ended mid-section
func NewUnexpectedEOFError(stage string) error {
	return cuserr.NewValidationError(ErrCodeBundle, ErrMsgUnexpectedEOF).
		WithMetadata(MetaKeyStage, stage)
}

// NewBundleReadError creates an error for bundle I/O failures
func NewBundleReadError(path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeBundle, ErrMsgBundleRead).
		WithMetadata(MetaKeyPath, path)
}

// NewBindingNotFoundError creates an error for a required parameter with no binding
func NewBindingNotFoundError(param string) error {
	return cuserr.NewNotFoundError(MetaKeyBinding, ErrMsgBindingNotFound).
		WithMetadata(MetaKeyParameter, param)
}

// NewInvalidParameterTypeError creates an error for a non-string handler parameter
func NewInvalidParameterTypeError(typeText string) error {
	return cuserr.NewValidationError(ErrCodeDispatch, ErrMsgInvalidParameterType).
		WithMetadata(MetaKeyParamType, typeText)
}

// NewHandlerNotCallableError creates an error for handler sources that cannot be invoked
func NewHandlerNotCallableError() error {
	return cuserr.NewValidationError(ErrCodeDispatch, ErrMsgHandlerNotCallable)
}

// NewModuleFunctionError creates an error for module function registration failures
func NewModuleFunctionError(msg, module, function string) error {
	return cuserr.NewValidationError(ErrCodeModule, msg).
		WithMetadata(MetaKeyModule, module).
		WithMetadata(MetaKeyFunction, function)
}

// NewCapabilityMissingError creates an error for a module call without its capability
func NewCapabilityMissingError(module string) error {
	return cuserr.NewValidationError(ErrCodeModule, ErrMsgCapabilityMissing).
		WithMetadata(MetaKeyModule, module)
}

// NewMemoryKeyNotFoundError creates an error for a missing memory key
func NewMemoryKeyNotFoundError(key string) error {
	return cuserr.NewNotFoundError(MetaKeyKey, ErrMsgMemoryKeyNotFound).
		WithMetadata(MetaKeyKey, key)
}

// IsMemoryKeyNotFound reports whether err is a missing-memory-key error.
func IsMemoryKeyNotFound(err error) bool {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return false
	}
	return strings.Contains(err.Error(), ErrMsgMemoryKeyNotFound)
}

// NewMemoryDriverNotFoundError creates an error for an unregistered memory driver
func NewMemoryDriverNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyDriver, ErrMsgMemoryDriverNotFound).
		WithMetadata(MetaKeyDriver, name)
}

// NewMemoryError creates a memory store error with a cause
func NewMemoryError(msg string, cause error) error {
	if cause != nil {
		return cuserr.WrapStdError(cause, ErrCodeMemory, msg)
	}
	return cuserr.NewValidationError(ErrCodeMemory, msg)
}

// NewConfigError creates a configuration error with a cause
func NewConfigError(msg, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeConfig, msg)
	}
	return err.WithMetadata(MetaKeyPath, path)
}

// NewCapabilityError creates an error for a capability client failure
func NewCapabilityError(msg string, cause error) error {
	if cause != nil {
		return cuserr.WrapStdError(cause, ErrCodeCapability, msg)
	}
	return cuserr.NewValidationError(ErrCodeCapability, msg)
}

// NewCapabilityStatusError creates an error for an unexpected HTTP response status
func NewCapabilityStatusError(msg string, statusCode int) error {
	return cuserr.NewValidationError(ErrCodeCapability, msg).
		WithMetadata(MetaKeyStatusCode, strconv.Itoa(statusCode))
}
