// Package config loads client configuration from defaults, an optional YAML
// file, an optional .env file, and MEDPLUS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// MEDPLUS_API_BASE_URL for api.base_url.
const EnvPrefix = "MEDPLUS"

// Config holds application-level configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
	Feed    FeedConfig    `mapstructure:"feed"`
}

// APIConfig locates the remote backend.
type APIConfig struct {
	// BaseURL is the origin every API path is appended to.
	BaseURL string `mapstructure:"base_url"`
	// UploadPath receives multipart media uploads.
	UploadPath string `mapstructure:"upload_path"`
	// UploadPreset is sent as the upload_preset form field.
	UploadPreset string `mapstructure:"upload_preset"`
	// SymptomsURL answers symptom searches. Defaults to BaseURL + "/symptoms".
	SymptomsURL string `mapstructure:"symptoms_url"`
}

// HTTPConfig tunes the outgoing HTTP client.
type HTTPConfig struct {
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig locates the persisted login state.
type SessionConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the structured file logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// FeedConfig controls the home feed.
type FeedConfig struct {
	// Path is the endpoint the feed lists posts from.
	Path string `mapstructure:"path"`
}

// Options selects the optional files Load reads.
type Options struct {
	// ConfigFile overrides the default config search path.
	ConfigFile string
	// EnvFile is loaded into the process environment when it exists.
	EnvFile string
}

// Dir returns the configuration directory, honoring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "medplus")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".medplus")
	}
	return filepath.Join(home, ".config", "medplus")
}

// SetDefaults registers every key with its default so env overrides resolve.
func SetDefaults(v *viper.Viper) {
	dir := Dir()
	v.SetDefault("api.base_url", "http://localhost:8800")
	v.SetDefault("api.upload_path", "/socials")
	v.SetDefault("api.upload_preset", "medplus")
	v.SetDefault("api.symptoms_url", "")
	v.SetDefault("http.timeout", "0s")
	v.SetDefault("session.path", filepath.Join(dir, "session.json"))
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.path", filepath.Join(dir, "medplus.log"))
	v.SetDefault("feed.path", "/posts")
}

// Load resolves the configuration into v and validates it.
func Load(v *viper.Viper, opts Options) (Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", opts.EnvFile, err)
		}
	}

	SetDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.ConfigFile != "" {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	base, err := normalizeBaseURL(cfg.API.BaseURL)
	if err != nil {
		return Config{}, err
	}
	cfg.API.BaseURL = base

	if cfg.API.SymptomsURL == "" {
		cfg.API.SymptomsURL = base + "/symptoms"
	}
	if !strings.HasPrefix(cfg.API.UploadPath, "/") {
		cfg.API.UploadPath = "/" + cfg.API.UploadPath
	}
	if !strings.HasPrefix(cfg.Feed.Path, "/") {
		cfg.Feed.Path = "/" + cfg.Feed.Path
	}
	if cfg.HTTP.Timeout < 0 {
		return Config{}, fmt.Errorf("invalid http.timeout: must not be negative")
	}

	return cfg, nil
}

// normalizeBaseURL requires an absolute URL. Plain http is only accepted for
// loopback hosts since every request carries the bearer token.
func normalizeBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid api.base_url: must be an absolute URL")
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !isLoopback(parsed.Hostname()) {
			return "", fmt.Errorf("invalid api.base_url: http is only allowed for localhost")
		}
	default:
		return "", fmt.Errorf("invalid api.base_url: unsupported scheme %q", parsed.Scheme)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
