// Package config handles loading and validation of memsafe user configuration.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/irahardianto/memsafe/internal/platform/logger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider names a language-model backend.
type Provider string

const (
	ProviderOpenAI      Provider = "openai"
	ProviderGemini      Provider = "gemini"
	ProviderHuggingFace Provider = "huggingface"
)

// Providers lists every supported provider in display order.
var Providers = []Provider{ProviderOpenAI, ProviderGemini, ProviderHuggingFace}

// Output formats accepted by the output.format setting and the --format flag.
const (
	FormatCLI      = "cli"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatSARIF    = "sarif"
)

// ErrUnknownProvider is returned when a provider name is not one of Providers.
var ErrUnknownProvider = errors.New("unknown provider")

// ParseProvider converts a user-supplied name into a Provider.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w %q (valid: openai, gemini, huggingface)", ErrUnknownProvider, name)
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderGemini:
		return "gemini-3-pro"
	case ProviderHuggingFace:
		return "mistralai/Mistral-7B-Instruct-v0.2"
	default:
		return "gpt-3.5-turbo"
	}
}

// SecretString is a string that is redacted when printed.
type SecretString string

func (s SecretString) String() string {
	return "[REDACTED]"
}

func (s SecretString) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s SecretString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// LogValue keeps secrets out of structured logs.
func (s SecretString) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// Value returns the underlying secret. Only pass it to the provider client.
func (s SecretString) Value() string {
	return string(s)
}

// IsEmpty returns true if the secret string is empty.
func (s SecretString) IsEmpty() bool {
	return strings.TrimSpace(string(s)) == ""
}

// Config holds user-level settings.
type Config struct {
	Provider            Provider      `yaml:"provider"`
	Model               string        `yaml:"model"`
	OpenAIAPIKey        SecretString  `yaml:"openai_api_key"`
	OpenAIBaseURL       string        `yaml:"openai_base_url"`
	GeminiAPIKey        SecretString  `yaml:"gemini_api_key"`
	HuggingFaceAPIToken SecretString  `yaml:"huggingface_api_token"`
	Timeout             time.Duration `yaml:"timeout"`
	RequestsPerMinute   int           `yaml:"requests_per_minute"`
	MaxSourceSize       string        `yaml:"max_source_size"`
	Concurrency         int           `yaml:"concurrency"`
	FailUnder           int           `yaml:"fail_under"`
	OutputColor         bool          `yaml:"-"` // derived from Output.Color
	OutputVerbose       bool          `yaml:"-"` // derived from Output.Verbose
	Output              OutputConfig  `yaml:"output"`
	Server              ServerConfig  `yaml:"server"`
}

// OutputConfig holds output-related user preferences.
type OutputConfig struct {
	Color   *bool  `yaml:"color"`
	Verbose *bool  `yaml:"verbose"`
	Format  string `yaml:"format"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

const (
	defaultTimeout           = 120 * time.Second
	defaultRequestsPerMinute = 30
	defaultMaxSourceSize     = "100KB"
	defaultConcurrency       = 4
	defaultAddr              = ":8080"
)

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Timeout:           defaultTimeout,
		RequestsPerMinute: defaultRequestsPerMinute,
		MaxSourceSize:     defaultMaxSourceSize,
		Concurrency:       defaultConcurrency,
		OutputColor:       true,
		Output:            OutputConfig{Format: FormatCLI},
		Server:            ServerConfig{Addr: defaultAddr},
	}
}

// ModelName returns the configured model or the provider's default.
func (c *Config) ModelName() string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	return DefaultModel(c.Provider)
}

// APIKey returns the credential for the selected provider.
func (c *Config) APIKey() SecretString {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderHuggingFace:
		return c.HuggingFaceAPIToken
	default:
		return c.OpenAIAPIKey
	}
}

// MaxSourceBytes returns the parsed max_source_size limit.
func (c *Config) MaxSourceBytes() int64 {
	n, err := ParseSize(c.MaxSourceSize)
	if err != nil || n == 0 {
		n, _ = ParseSize(defaultMaxSourceSize)
	}
	return n
}

// Validate checks the configuration for values that cannot work.
// Returns a joined error so users can fix all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := ParseProvider(string(c.Provider)); err != nil {
		errs = append(errs, err)
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("requests_per_minute must not be negative, got %d", c.RequestsPerMinute))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.FailUnder < 0 || c.FailUnder > 100 {
		errs = append(errs, fmt.Errorf("fail_under must be between 0 and 100, got %d", c.FailUnder))
	}
	if _, err := ParseSize(c.MaxSourceSize); err != nil {
		errs = append(errs, fmt.Errorf("max_source_size: %w", err))
	}
	switch c.Output.Format {
	case FormatCLI, FormatJSON, FormatMarkdown, FormatSARIF:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q (valid: cli, json, markdown, sarif)", c.Output.Format))
	}

	return errors.Join(errs...)
}

// Loader handles loading configuration from the file system.
type Loader struct {
	fs     FileSystem
	getenv func(string) string
}

// NewLoader creates a new Loader with the given file system.
// Uses os.Getenv for environment variable lookups by default.
func NewLoader(fs FileSystem) *Loader {
	return &Loader{fs: fs, getenv: os.Getenv}
}

// NewLoaderWithEnv creates a Loader with a custom getenv function for testability.
func NewLoaderWithEnv(fs FileSystem, getenv func(string) string) *Loader {
	return &Loader{fs: fs, getenv: getenv}
}

// DefaultPath returns ~/.config/memsafe/config.yaml.
func (l *Loader) DefaultPath() (string, error) {
	home, err := l.fs.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "memsafe", "config.yaml"), nil
}

// Load reads user configuration from ~/.config/memsafe/config.yaml.
// If the file does not exist, default values are returned (not an error).
// Environment variables override file values.
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	path, err := l.DefaultPath()
	if err != nil {
		// Cannot determine home directory; use defaults.
		cfg := Default()
		applyEnvOverrides(cfg, l.getenv, logger.FromContext(ctx))
		return cfg, nil
	}
	return l.LoadFrom(ctx, path)
}

// LoadFrom reads user configuration from a specific path.
// If the file does not exist, default values are returned (not an error).
// Environment variables override file values.
func (l *Loader) LoadFrom(ctx context.Context, path string) (*Config, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading config", "path", path)
	cfg := Default()

	// [SEC] Clean path
	path = filepath.Clean(path)

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if l.fs.IsNotExist(err) {
			applyEnvOverrides(cfg, l.getenv, log)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Output.Color != nil {
		cfg.OutputColor = *cfg.Output.Color
	}
	if cfg.Output.Verbose != nil {
		cfg.OutputVerbose = *cfg.Output.Verbose
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatCLI
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	cfg.Provider = Provider(strings.ToLower(string(cfg.Provider)))

	applyEnvOverrides(cfg, l.getenv, log)

	return cfg, nil
}

// Load reads user configuration using the real file system.
func Load(ctx context.Context) (*Config, error) {
	return NewLoader(&RealFileSystem{}).Load(ctx)
}

// LoadFrom reads user configuration from a specific path using the real file system.
func LoadFrom(ctx context.Context, path string) (*Config, error) {
	return NewLoader(&RealFileSystem{}).LoadFrom(ctx, path)
}

// LoadDotEnv loads KEY=value pairs from a .env file into the process
// environment. Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// The getenv parameter abstracts os.Getenv for testability.
func applyEnvOverrides(cfg *Config, getenv func(string) string, log *slog.Logger) {
	if key := getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAIAPIKey = SecretString(key)
	}
	if key := getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKey = SecretString(key)
	}
	if key := getenv("HUGGINGFACE_API_TOKEN"); key != "" {
		cfg.HuggingFaceAPIToken = SecretString(key)
	}

	if p := getenv("MEMSAFE_PROVIDER"); p != "" {
		cfg.Provider = Provider(strings.ToLower(strings.TrimSpace(p)))
	}
	if m := getenv("MEMSAFE_MODEL"); m != "" {
		cfg.Model = m
	}

	if timeoutStr := getenv("MEMSAFE_TIMEOUT"); timeoutStr != "" {
		d, err := time.ParseDuration(timeoutStr)
		if err != nil {
			log.Warn("invalid MEMSAFE_TIMEOUT value, using default", "value", timeoutStr, "error", err)
		} else {
			cfg.Timeout = d
		}
	}

	if noColor := getenv("MEMSAFE_NO_COLOR"); noColor != "" {
		// Any truthy value disables color.
		if truthy(noColor) {
			cfg.OutputColor = false
		}
	}

	if addr := getenv("MEMSAFE_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
}

func truthy(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "yes" {
		return true
	}
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
