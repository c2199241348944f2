package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-dispatchy"
	"github.com/itsatony/go-dispatchy/celscript"
	"github.com/joho/godotenv"
)

// runConfig holds parsed run command configuration
type runConfig struct {
	configPath string
	bundlePath string
}

func runRepl(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRunFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	// Credentials may live in a .env file; a missing file is fine.
	_ = godotenv.Load()

	config := &dispatchy.Config{}
	if cfg.configPath != "" {
		config, err = dispatchy.LoadConfig(cfg.configPath)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadConfigFailed, err)
			return ExitCodeInputError
		}
	} else {
		config.ApplyEnv()
	}
	if cfg.bundlePath != "" {
		config.BundlePath = cfg.bundlePath
	}
	if config.BundlePath == "" {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgMissingConfig, HelpRunUsage)
		return ExitCodeUsageError
	}

	runner, cleanup, err := buildRunner(config)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInitRunnerFailed, err)
		return ExitCodeError
	}
	defer cleanup()

	// REPL: read one utterance per line, dispatch, print errors, continue.
	scanner := bufio.NewScanner(stdin)
	fmt.Fprint(stdout, ReplPrompt)
	for scanner.Scan() {
		line := scanner.Text()
		if line == ReplWordExit || line == ReplWordQuit {
			break
		}
		if line != "" {
			if err := runner.Run(line); err != nil {
				fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgDispatchFailed, err)
			}
		}
		fmt.Fprint(stdout, ReplPrompt)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadInputFailed, err)
		return ExitCodeError
	}

	fmt.Fprintln(stdout, ReplGoodbye)
	return ExitCodeSuccess
}

// buildRunner assembles a runner with every capability the config provides.
func buildRunner(config *dispatchy.Config) (*dispatchy.Runner, func(), error) {
	interp := celscript.New()
	opts := []dispatchy.RunnerOption{}
	cleanup := func() {}

	if config.Memory.Driver != "" {
		store, err := dispatchy.OpenMemory(config.Memory.Driver, config.Memory.Path)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { _ = store.Close() }
		opts = append(opts, dispatchy.WithMemory(store))
	}
	if config.Deepgram.APIKey != "" {
		deepgram := dispatchy.NewDeepgramClient(config.Deepgram.APIKey)
		opts = append(opts,
			dispatchy.WithTranscriber(deepgram),
			dispatchy.WithSynthesizer(deepgram))
	}
	if config.Spotify.ClientID != "" {
		opts = append(opts, dispatchy.WithSpotify(dispatchy.NewSpotifyClient(dispatchy.SpotifyCredentials{
			ClientID:     config.Spotify.ClientID,
			ClientSecret: config.Spotify.ClientSecret,
			RedirectURI:  config.Spotify.RedirectURI,
			RefreshToken: config.Spotify.RefreshToken,
		})))
	}
	if config.Weather.APIKey != "" {
		opts = append(opts, dispatchy.WithWeather(dispatchy.NewWeatherClient(config.Weather.APIKey)))
	}
	if config.Search.APIKey != "" {
		opts = append(opts, dispatchy.WithSearch(dispatchy.NewSearchClient(config.Search.APIKey)))
	}

	runner := dispatchy.NewRunner(interp, opts...)
	if err := runner.Init(config.BundlePath); err != nil {
		return nil, cleanup, err
	}
	return runner, cleanup, nil
}

// parseRunFlags parses the run command's flags
func parseRunFlags(args []string) (*runConfig, error) {
	cfg := &runConfig{}
	fs := flag.NewFlagSet(CmdNameRun, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.configPath, "config", "", "YAML config file")
	fs.StringVar(&cfg.bundlePath, "bundle", "", "bundle file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
