package dispatchy

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Module function name constants
const (
	FuncNamePrint  = "print"
	FuncNameGet    = "get"
	FuncNameSet    = "set"
	FuncNameAdd    = "add"
	FuncNameForget = "forget"
	FuncNameRecall = "recall"
	FuncNameSay    = "say"
	FuncNameSearch = "search"
	FuncNamePlay   = "play"
	FuncNameReport = "report"
	FuncNameAnswer = "answer"
)

// Phrase variable name constants
const (
	phraseVarDescription = "description"
	phraseVarTemp        = "temp"
	phraseVarFeelsLike   = "feels_like"
	phraseVarCity        = "city"
	phraseVarKey         = "key"
	phraseVarValue       = "value"
	phraseVarItems       = "items"
)

// buildDebugModule exposes plain text output to handlers.
func (r *Runner) buildDebugModule() *Module {
	module := NewModule(ModulePathDebug)
	module.MustAddFunction(&NativeFunction{
		Name:   FuncNamePrint,
		Params: []string{"text"},
		Fn: func(args []Value) (Value, error) {
			if len(args) == 0 || args[0].IsNull() {
				return NullValue, nil
			}
			fmt.Println(args[0].String())
			return NullValue, nil
		},
	})
	return module
}

// buildMemoryModule exposes the persistent key/value memory to handlers.
func (r *Runner) buildMemoryModule() *Module {
	module := NewModule(ModulePathMemory)

	module.MustAddFunction(&NativeFunction{
		Name:   FuncNameGet,
		Params: []string{"key"},
		Fn: func(args []Value) (Value, error) {
			if len(args) == 0 || args[0].IsNull() {
				return NullValue, nil
			}
			value, err := r.memory.Get(context.Background(), args[0].String())
			if err != nil {
				if IsMemoryKeyNotFound(err) {
					return NullValue, nil
				}
				return NullValue, err
			}
			if value.Kind() == MemoryValueKindList {
				return NewStringValue(strings.Join(value.Items(), memoryFileListSep)), nil
			}
			return NewStringValue(value.String()), nil
		},
	})

	module.MustAddFunction(&NativeFunction{
		Name:   FuncNameSet,
		Params: []string{"key", "value"},
		Fn: func(args []Value) (Value, error) {
			if len(args) < 2 || args[0].IsNull() || args[1].IsNull() {
				return NullValue, nil
			}
			return NullValue, r.memory.Set(context.Background(), args[0].String(), StringMemoryValue(args[1].String()))
		},
	})

	module.MustAddFunction(&NativeFunction{
		Name:   FuncNameAdd,
		Params: []string{"key", "item"},
		Fn: func(args []Value) (Value, error) {
			if len(args) < 2 || args[0].IsNull() || args[1].IsNull() {
				return NullValue, nil
			}
			return NullValue, r.memory.Append(context.Background(), args[0].String(), args[1].String())
		},
	})

	module.MustAddFunction(&NativeFunction{
		Name:   FuncNameForget,
		Params: []string{"key"},
		Fn: func(args []Value) (Value, error) {
			if len(args) == 0 || args[0].IsNull() {
				return NullValue, nil
			}
			return NullValue, r.memory.Delete(context.Background(), args[0].String())
		},
	})

	// recall renders a spoken-response phrase for the key's value.
	module.MustAddFunction(&NativeFunction{
		Name:   FuncNameRecall,
		Params: []string{"key"},
		Fn: func(args []Value) (Value, error) {
			if len(args) == 0 || args[0].IsNull() {
				return NullValue, nil
			}
			key := args[0].String()
			value, err := r.memory.Get(context.Background(), key)
			if err != nil {
				if IsMemoryKeyNotFound(err) {
					return NullValue, nil
				}
				return NullValue, err
			}
			if value.Kind() == MemoryValueKindList {
				return NewStringValue(RenderPhrase(PhraseMemoryList, map[string]string{
					phraseVarKey:   key,
					phraseVarItems: strings.Join(value.Items(), memoryFileListSep),
				})), nil
			}
			return NewStringValue(RenderPhrase(PhraseMemoryValue, map[string]string{
				phraseVarKey:   key,
				phraseVarValue: value.String(),
			})), nil
		},
	})

	return module
}

// buildVoiceModule exposes speech synthesis to handlers.
func (r *Runner) buildVoiceModule() *Module {
	module := NewModule(ModulePathVoice)
	module.MustAddFunction(&NativeFunction{
		Name:   FuncNameSay,
		Params: []string{"text"},
		Fn: func(args []Value) (Value, error) {
			if len(args) == 0 || args[0].IsNull() {
				return NullValue, nil
			}
			audio, err := r.tts.Synthesize(context.Background(), args[0].String())
			if err != nil {
				return NullValue, err
			}
			if r.sink != nil {
				return NullValue, r.sink.Play(audio)
			}
			return NullValue, nil
		},
	})
	return module
}

// buildSpotifyModule exposes track search and playback to handlers.
func (r *Runner) buildSpotifyModule() *Module {
	module := NewModule(ModulePathSpotify)

	module.MustAddFunction(&NativeFunction{
		Name:   FuncNameSearch,
		Params: []string{"query"},
		Fn: func(args []Value) (Value, error) {
			if len(args) == 0 || args[0].IsNull() {
				return NullValue, nil
			}
			trackID, ok, err := r.spotify.SearchTrack(context.Background(), args[0].String())
			if err != nil {
				return NullValue, err
			}
			if !ok {
				return NullValue, nil
			}
			return NewStringValue(trackID), nil
		},
	})

	module.MustAddFunction(&NativeFunction{
		Name:   FuncNamePlay,
		Params: []string{"query"},
		Fn: func(args []Value) (Value, error) {
			if len(args) == 0 || args[0].IsNull() {
				return NullValue, nil
			}
			ctx := context.Background()
			trackID, ok, err := r.spotify.SearchTrack(ctx, args[0].String())
			if err != nil {
				return NullValue, err
			}
			if !ok {
				return NullValue, nil
			}
			return NullValue, r.spotify.PlayTrack(ctx, trackID)
		},
	})

	return module
}

// buildWeatherModule exposes a spoken current-conditions report to handlers.
func (r *Runner) buildWeatherModule() *Module {
	module := NewModule(ModulePathWeather)
	module.MustAddFunction(&NativeFunction{
		Name: FuncNameReport,
		Fn: func(args []Value) (Value, error) {
			ctx := context.Background()
			loc, err := r.weather.Locate(ctx)
			if err != nil {
				return NullValue, err
			}
			report, err := r.weather.Current(ctx, loc)
			if err != nil {
				return NullValue, err
			}
			phrase := RenderPhrase(PhraseWeatherCurrent, map[string]string{
				phraseVarDescription: report.Description,
				phraseVarTemp:        strconv.FormatFloat(report.Temperature, 'f', 0, 64),
				phraseVarFeelsLike:   strconv.FormatFloat(report.FeelsLike, 'f', 0, 64),
				phraseVarCity:        report.City,
			})
			return NewStringValue(phrase), nil
		},
	})
	return module
}

// buildSearchModule exposes web-search answers to handlers.
func (r *Runner) buildSearchModule() *Module {
	module := NewModule(ModulePathSearch)
	module.MustAddFunction(&NativeFunction{
		Name:   FuncNameAnswer,
		Params: []string{"query"},
		Fn: func(args []Value) (Value, error) {
			if len(args) == 0 || args[0].IsNull() {
				return NullValue, nil
			}
			answer, ok, err := r.search.Answer(context.Background(), args[0].String())
			if err != nil {
				return NullValue, err
			}
			if !ok {
				return NullValue, nil
			}
			return NewStringValue(answer), nil
		},
	})
	return module
}
