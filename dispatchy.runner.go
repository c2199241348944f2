package dispatchy

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner dispatches utterances to handlers through an interpreter. It owns
// the matcher and bundle, holds the external capability clients, and exposes
// them to handlers as named modules. Dispatch is synchronous and serialized:
// a new input is not accepted until the previous invocation returns.
type Runner struct {
	matcher *Matcher
	bundle  *Bundle
	interp  Interpreter
	logger  *zap.Logger

	memory   MemoryStore
	spotify  *SpotifyClient
	weather  *WeatherClient
	search   *SearchClient
	recorder Recorder
	stt      Transcriber
	tts      Synthesizer
	sink     AudioSink

	dispatchMu sync.Mutex
	capturing  bool
}

// RunnerOption is a functional option for configuring the Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the runner's logger.
// Default: no logging
func WithRunnerLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMemory attaches a memory store and enables the Memory module.
func WithMemory(store MemoryStore) RunnerOption {
	return func(r *Runner) {
		r.memory = store
	}
}

// WithSpotify attaches a Spotify client and enables the Spotify module.
func WithSpotify(client *SpotifyClient) RunnerOption {
	return func(r *Runner) {
		r.spotify = client
	}
}

// WithWeather attaches a weather client and enables the Weather module.
func WithWeather(client *WeatherClient) RunnerOption {
	return func(r *Runner) {
		r.weather = client
	}
}

// WithSearch attaches a web search client and enables the Search module.
func WithSearch(client *SearchClient) RunnerOption {
	return func(r *Runner) {
		r.search = client
	}
}

// WithRecorder attaches an audio recorder for the push-to-talk flow.
func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithTranscriber attaches a speech-to-text client.
func WithTranscriber(stt Transcriber) RunnerOption {
	return func(r *Runner) {
		r.stt = stt
	}
}

// WithSynthesizer attaches a text-to-speech client and enables Voice.say.
func WithSynthesizer(tts Synthesizer) RunnerOption {
	return func(r *Runner) {
		r.tts = tts
	}
}

// WithAudioSink attaches an audio output for synthesized speech.
func WithAudioSink(sink AudioSink) RunnerOption {
	return func(r *Runner) {
		r.sink = sink
	}
}

// NewRunner creates a Runner around the given interpreter.
func NewRunner(interp Interpreter, opts ...RunnerOption) *Runner {
	r := &Runner{interp: interp}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	r.matcher = NewMatcher(WithLogger(r.logger))
	r.bundle = NewBundle(r.matcher, WithLogger(r.logger))
	return r
}

// Matcher returns the runner's matcher.
func (r *Runner) Matcher() *Matcher {
	return r.matcher
}

// Bundle returns the runner's bundle.
func (r *Runner) Bundle() *Bundle {
	return r.bundle
}

// Init loads the bundle file and registers the capability modules with the
// interpreter. A load failure aborts startup.
func (r *Runner) Init(bundlePath string) error {
	if err := r.bundle.LoadFile(bundlePath, r.interp); err != nil {
		return err
	}
	return r.RegisterModules()
}

// RegisterModules registers every module whose capability is configured.
// The Debug module is always available.
func (r *Runner) RegisterModules() error {
	modules := []*Module{r.buildDebugModule()}
	if r.memory != nil {
		modules = append(modules, r.buildMemoryModule())
	}
	if r.tts != nil {
		modules = append(modules, r.buildVoiceModule())
	}
	if r.spotify != nil {
		modules = append(modules, r.buildSpotifyModule())
	}
	if r.weather != nil {
		modules = append(modules, r.buildWeatherModule())
	}
	if r.search != nil {
		modules = append(modules, r.buildSearchModule())
	}

	for _, module := range modules {
		if err := r.interp.RegisterModule(module.Name(), module); err != nil {
			return err
		}
		r.logger.Debug(LogMsgModuleRegistered, zap.String(LogFieldModule, module.Name()))
	}
	return nil
}

// Run dispatches one utterance: normalize, select the first matching entry,
// resolve handler arguments from the captured bindings, and invoke the
// handler. When nothing matches, the fallback (if any) receives the original
// un-normalized input; otherwise the input is ignored.
func (r *Runner) Run(input string) error {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()

	return r.dispatch(input)
}

// dispatch performs a single dispatch. Callers hold dispatchMu.
func (r *Runner) dispatch(input string) error {
	dispatchID := uuid.NewString()
	normalized := NormalizeInput(input)
	logger := r.logger.With(zap.String(LogFieldDispatchID, dispatchID))

	logger.Debug(LogMsgDispatchStart,
		zap.String(LogFieldInput, input),
		zap.String(LogFieldNormalized, normalized))

	result, err := r.bundle.FindFunction(normalized)
	if err != nil {
		return err
	}

	if result != nil {
		logger.Debug(LogMsgDispatchMatched,
			zap.String(LogFieldTemplate, result.Entry.Template.Source()),
			zap.Int(LogFieldBindings, result.Match.Len()))

		args, err := bindArguments(result.Handler, result.Match)
		if err != nil {
			return err
		}
		_, err = r.interp.CallFunction(result.Handler, args)
		return err
	}

	logger.Debug(LogMsgDispatchUnmatched)
	if fallback := r.bundle.Fallback(); fallback != nil {
		logger.Debug(LogMsgDispatchFallback)
		_, err = r.interp.CallFunction(fallback, []Value{NewStringValue(input)})
		return err
	}

	logger.Debug(LogMsgDispatchNoFallback)
	return nil
}

// bindArguments assembles the ordered handler arguments from the captured
// bindings. Every parameter must be string or string?; a missing binding for
// an optional parameter becomes null, for a required one it is an error.
func bindArguments(sig HandlerSignature, m *Match) ([]Value, error) {
	args := make([]Value, 0, sig.NumParams())
	for i := 0; i < sig.NumParams(); i++ {
		name := sig.ParamName(i)
		pt := sig.ParamType(i)

		if pt.Kind != ValueKindString {
			return nil, NewInvalidParameterTypeError(pt.Text)
		}

		if value, ok := m.Binding(name); ok {
			args = append(args, NewStringValue(value))
			continue
		}
		if !pt.Optional {
			return nil, NewBindingNotFoundError(name)
		}
		args = append(args, NullValue)
	}
	return args, nil
}

// StartCapture begins the push-to-talk sequence. A start while a capture is
// already in progress is ignored.
func (r *Runner) StartCapture() error {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()

	if r.recorder == nil {
		return NewCapabilityMissingError(ModulePathVoice)
	}
	if r.capturing {
		r.logger.Debug(LogMsgCaptureIgnored)
		return nil
	}
	if err := r.recorder.Start(); err != nil {
		return err
	}
	r.capturing = true
	r.logger.Debug(LogMsgCaptureStarted)
	return nil
}

// StopCapture ends the capture, transcribes the audio, and dispatches the
// transcript. The stop → transcribe → dispatch sequence is atomic with
// respect to other dispatches and capture starts.
func (r *Runner) StopCapture(ctx context.Context) error {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()

	if !r.capturing {
		return nil
	}
	r.capturing = false

	audio, err := r.recorder.Stop()
	if err != nil {
		return err
	}
	r.logger.Debug(LogMsgCaptureStopped, zap.Int(LogFieldAudioBytes, len(audio)))

	if r.stt == nil {
		return NewCapabilityMissingError(ModulePathVoice)
	}
	transcript, err := r.stt.Transcribe(ctx, audio)
	if err != nil {
		return err
	}
	r.logger.Debug(LogMsgTranscribed, zap.String(LogFieldTranscript, transcript))

	return r.dispatch(transcript)
}
