// Package config loads the aigit configuration file and environment overrides
// into an immutable Config value.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/samzong/aigit/internal/llm"
)

// Defaults and locations.
const (
	DefaultConfigName  = "config"
	DefaultConfigType  = "toml"
	DefaultConfigDir   = "aigit"
	EnvPrefix          = "AIGIT"
	EnvConfigHome      = "AIGIT_CONFIG_HOME"
	DefaultBaseURL     = llm.DefaultOllamaBaseURL
	DefaultPort        = llm.DefaultOllamaPort
	DefaultRenderStyle = "auto"
)

// Configuration keys.
const (
	KeyPlatform    = "platform"
	KeyModel       = "model"
	KeyAPIKey      = "api_key"
	KeyBaseURL     = "base_url"
	KeyPort        = "port"
	KeyAPIBase     = "api_base"
	KeyRenderStyle = "render.style"
	KeyRenderWidth = "render.width"
)

// Keys lists every key understood by the configuration file, in display order.
var Keys = []string{
	KeyPlatform, KeyModel, KeyAPIKey, KeyBaseURL, KeyPort, KeyAPIBase, KeyRenderStyle, KeyRenderWidth,
}

// RequiredKeys must be non-empty before a chat backend is contacted.
var RequiredKeys = []string{KeyPlatform, KeyModel, KeyAPIKey}

// RenderConfig controls terminal rendering of explanations.
type RenderConfig struct {
	Style string `mapstructure:"style" yaml:"style"`
	Width int    `mapstructure:"width" yaml:"width"`
}

// Config is the per-invocation configuration. It is built once by Load and
// never mutated afterwards.
type Config struct {
	Platform string       `mapstructure:"platform" yaml:"platform"`
	Model    string       `mapstructure:"model" yaml:"model"`
	APIKey   string       `mapstructure:"api_key" yaml:"api_key"`
	BaseURL  string       `mapstructure:"base_url" yaml:"base_url"`
	Port     string       `mapstructure:"port" yaml:"port"`
	APIBase  string       `mapstructure:"api_base" yaml:"api_base,omitempty"`
	Render   RenderConfig `mapstructure:"render" yaml:"render"`

	// File is the configuration file that was read, empty when none existed.
	File string `mapstructure:"-" yaml:"-"`
}

// MissingKeysError lists required keys that have no value.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("missing required configuration: %s (run `aigit init` or `aigit config set <key> <value>`)",
		strings.Join(e.Keys, ", "))
}

// UnknownKeyError reports a key outside Keys.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown configuration key %q (valid keys: %s)", e.Key, strings.Join(Keys, ", "))
}

// Dir returns the configuration directory: $AIGIT_CONFIG_HOME, then
// $XDG_CONFIG_HOME/aigit, then ~/.config/aigit.
func Dir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvConfigHome)); dir != "" {
		return dir, nil
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, DefaultConfigDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".config", DefaultConfigDir), nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigName+"."+DefaultConfigType), nil
}

// ResolvePath returns path, or the default path when path is empty.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return DefaultPath()
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(DefaultConfigType)

	v.SetDefault(KeyPlatform, "")
	v.SetDefault(KeyModel, "")
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyAPIBase, "")
	v.SetDefault(KeyRenderStyle, DefaultRenderStyle)
	v.SetDefault(KeyRenderWidth, 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// readFile reads path into v. A missing file is reported as false, not an error.
func readFile(v *viper.Viper, path string) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	return true, nil
}

// Load reads the configuration at path (the default path when empty) and
// applies AIGIT_* environment overrides. A missing file is not an error;
// required keys are checked separately by Validate.
func Load(path string) (*Config, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	v := newViper(path)
	found, err := readFile(v, path)
	if err != nil {
		return nil, err
	}
	if found {
		slog.Debug("loaded configuration", "file", path)
	} else {
		slog.Debug("configuration file not found, using defaults and environment", "file", path)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if found {
		cfg.File = path
	}
	return cfg, nil
}

// Validate reports the required keys that are empty.
func (c *Config) Validate() error {
	var missing []string
	for _, key := range RequiredKeys {
		if strings.TrimSpace(c.Get(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingKeysError{Keys: missing}
	}
	return nil
}

// Get returns the string form of key, or "" for unknown keys.
func (c *Config) Get(key string) string {
	switch key {
	case KeyPlatform:
		return c.Platform
	case KeyModel:
		return c.Model
	case KeyAPIKey:
		return c.APIKey
	case KeyBaseURL:
		return c.BaseURL
	case KeyPort:
		return c.Port
	case KeyAPIBase:
		return c.APIBase
	case KeyRenderStyle:
		return c.Render.Style
	case KeyRenderWidth:
		return strconv.Itoa(c.Render.Width)
	}
	return ""
}

// LLMSettings returns the backend connection settings.
func (c *Config) LLMSettings() llm.Settings {
	return llm.Settings{
		BaseURL: c.BaseURL,
		Port:    c.Port,
		APIBase: c.APIBase,
		Timeout: llm.DefaultTimeout,
	}
}

// Masked returns a copy of c with the API key obscured.
func (c *Config) Masked() Config {
	masked := *c
	masked.APIKey = MaskAPIKey(c.APIKey)
	return masked
}

// MaskAPIKey keeps the last four characters of key.
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "********"
	}
	return "********" + key[len(key)-4:]
}

// IsValidKey reports whether key is a known configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(Keys, key)
}

// Set writes key=value into the configuration file at path (the default path
// when empty), preserving the other values already stored there.
func Set(path, key, value string) (string, error) {
	return Save(path, map[string]string{key: value})
}

// Save merges values into the configuration file at path and writes it with
// 0600 permissions. It returns the path written.
func Save(path string, values map[string]string) (string, error) {
	for key := range values {
		if !IsValidKey(key) {
			return "", &UnknownKeyError{Key: key}
		}
	}

	path, err := ResolvePath(path)
	if err != nil {
		return "", err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(DefaultConfigType)
	if _, err := readFile(v, path); err != nil {
		return "", err
	}

	for _, key := range Keys {
		value, ok := values[key]
		if !ok {
			continue
		}
		if key == KeyRenderWidth {
			width, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || width < 0 {
				return "", fmt.Errorf("invalid value for %s: %q is not a non-negative integer", key, value)
			}
			v.Set(key, width)
			continue
		}
		v.Set(key, value)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create configuration directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write configuration file %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return "", fmt.Errorf("failed to set configuration file permissions: %w", err)
	}
	return path, nil
}

// SuggestedPlatforms are offered by the init wizard.
func SuggestedPlatforms() []string {
	return []string{llm.PlatformOllama, llm.PlatformOpenAI}
}

// SuggestedModels returns example model names for platform.
func SuggestedModels(platform string) []string {
	switch platform {
	case llm.PlatformOllama:
		return []string{"qwen3:8b", "deepseek-r1:8b", "llama3.1:8b"}
	case llm.PlatformOpenAI:
		return []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1"}
	}
	return nil
}
