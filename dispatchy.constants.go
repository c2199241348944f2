package dispatchy

import "time"

// Defaults
const (
	// DefaultMaxDepth is the maximum subtemplate inlining depth during
	// regex synthesis. Use WithMaxDepth to change it.
	DefaultMaxDepth = 25

	// DefaultMatchTimeout bounds a single regex match. Use WithMatchTimeout
	// to change it; zero disables the timeout.
	DefaultMatchTimeout = 2 * time.Second
)

// Bundle file directives
const (
	DirectiveTemplate = "% temp"
	DirectiveSub      = "% sub"
	DirectiveFallback = "% fallback"
	DirectiveEnd      = "% end"
)

// Bundle loader stages, reported by unexpected-end-of-input errors
const (
	StageLoadingNextElement       = "loading next element"
	StageReadingTemplateHeader    = "reading template header"
	StageReadingTemplateFunction  = "reading template function"
	StageReadingSubtemplateHeader = "reading subtemplate header"
	StageReadingSubtemplateBody   = "reading subtemplate body"
	StageReadingFallbackFunction  = "reading fallback function"
)

// Parameter type surface forms
const (
	ParamTypeTextString         = "string"
	ParamTypeTextOptionalString = "string?"
)

// Module path constants
const (
	ModulePathDebug   = "Debug"
	ModulePathMemory  = "Memory"
	ModulePathVoice   = "Voice"
	ModulePathSpotify = "Spotify"
	ModulePathWeather = "Weather"
	ModulePathSearch  = "Search"
)

// Metadata key constants for error context
const (
	MetaKeySource      = "source"
	MetaKeyFragment    = "fragment"
	MetaKeyLine        = "line"
	MetaKeyColumn      = "column"
	MetaKeySubtemplate = "subtemplate"
	MetaKeyPattern     = "pattern"
	MetaKeyBinding     = "binding"
	MetaKeyParameter   = "parameter"
	MetaKeyParamType   = "param_type"
	MetaKeyStage       = "stage"
	MetaKeyText        = "text"
	MetaKeyDepth       = "depth"
	MetaKeyDriver      = "driver"
	MetaKeyKey         = "key"
	MetaKeyModule      = "module"
	MetaKeyFunction    = "function"
	MetaKeyStatusCode  = "status_code"
	MetaKeyPath        = "path"
)

// Log message constants
const (
	LogMsgMatcherCreated     = "matcher created"
	LogMsgSubtemplateAdded   = "subtemplate registered"
	LogMsgRegexSynthesized   = "regex synthesized"
	LogMsgMatchAttempt       = "trying template"
	LogMsgMatchHit           = "template matched"
	LogMsgBundleLoading      = "loading bundle"
	LogMsgBundleLoaded       = "bundle loaded"
	LogMsgEntryAdded         = "template entry added"
	LogMsgFallbackSet        = "fallback handler set"
	LogMsgFallbackReplaced   = "fallback handler replaced"
	LogMsgDispatchStart      = "dispatching input"
	LogMsgDispatchMatched    = "input matched entry"
	LogMsgDispatchUnmatched  = "no entry matched"
	LogMsgDispatchFallback   = "invoking fallback"
	LogMsgDispatchNoFallback = "no fallback configured, ignoring input"
	LogMsgModuleRegistered   = "capability module registered"
	LogMsgCaptureStarted     = "voice capture started"
	LogMsgCaptureIgnored     = "voice capture already in progress, ignoring start"
	LogMsgCaptureStopped     = "voice capture stopped"
	LogMsgTranscribed        = "audio transcribed"
)

// Log field name constants
const (
	LogFieldDispatchID  = "dispatch_id"
	LogFieldInput       = "input"
	LogFieldNormalized  = "normalized"
	LogFieldTemplate    = "template"
	LogFieldSubtemplate = "subtemplate"
	LogFieldPattern     = "pattern"
	LogFieldEntries     = "entries"
	LogFieldSubs        = "subtemplates"
	LogFieldBindings    = "bindings"
	LogFieldModule      = "module"
	LogFieldTranscript  = "transcript"
	LogFieldAudioBytes  = "audio_bytes"
	LogFieldPath        = "path"
)
