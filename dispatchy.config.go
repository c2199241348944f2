package dispatchy

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable names consumed as config fallbacks
const (
	EnvMemoryPath      = "memory_path"
	EnvOpenWeatherKey  = "open_weather_api_key"
	EnvDeepgramSecret  = "deepgram_api_secret"
	EnvSpotifyRedirect = "sp_redirect_uri"
	EnvSpotifyClientID = "sp_client_id"
	EnvSpotifySecret   = "sp_client_secret"
	EnvSerpAPIKey      = "SERP_API_KEY"
)

// Config is the runner configuration loaded from a YAML file. Empty fields
// fall back to the corresponding environment variables.
type Config struct {
	// BundlePath is the template bundle file to load at startup.
	BundlePath string `yaml:"bundle_path"`

	Memory   MemoryConfig        `yaml:"memory"`
	Deepgram DeepgramConfig      `yaml:"deepgram"`
	Spotify  SpotifyConfigSection `yaml:"spotify"`
	Weather  WeatherConfig       `yaml:"weather"`
	Search   SearchConfig        `yaml:"search"`
}

// MemoryConfig configures the assistant memory store.
type MemoryConfig struct {
	// Driver selects the memory backend: "memory", "filesystem", "postgres".
	Driver string `yaml:"driver"`
	// Path is the driver connection string: a file path for the filesystem
	// driver, a DSN for postgres.
	Path string `yaml:"path"`
}

// DeepgramConfig configures the speech client.
type DeepgramConfig struct {
	APIKey string `yaml:"api_key"`
}

// SpotifyConfigSection configures the music client.
type SpotifyConfigSection struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
	RefreshToken string `yaml:"refresh_token"`
}

// WeatherConfig configures the weather client.
type WeatherConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearchConfig configures the web search client.
type SearchConfig struct {
	APIKey string `yaml:"api_key"`
}

// LoadConfig reads a YAML config file and applies environment fallbacks.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigRead, path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, NewConfigError(ErrMsgConfigParse, path, err)
	}

	config.ApplyEnv()
	return &config, nil
}

// ApplyEnv fills empty config fields from the environment.
func (c *Config) ApplyEnv() {
	fallback(&c.Memory.Path, EnvMemoryPath)
	fallback(&c.Weather.APIKey, EnvOpenWeatherKey)
	fallback(&c.Deepgram.APIKey, EnvDeepgramSecret)
	fallback(&c.Spotify.RedirectURI, EnvSpotifyRedirect)
	fallback(&c.Spotify.ClientID, EnvSpotifyClientID)
	fallback(&c.Spotify.ClientSecret, EnvSpotifySecret)
	fallback(&c.Search.APIKey, EnvSerpAPIKey)

	if c.Memory.Driver == "" && c.Memory.Path != "" {
		c.Memory.Driver = MemoryDriverNameFilesystem
	}
}

// fallback sets *dst from the environment when empty.
func fallback(dst *string, envName string) {
	if *dst == "" {
		*dst = os.Getenv(envName)
	}
}
