package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/adam-cli/internal/utils"
)

// Output formats accepted by the CLI.
var OutputFormats = []string{"table", "json", "yaml"}

// LogLevels accepted by log_level.
var LogLevels = []string{"trace", "debug", "info", "warn", "error", "off"}

// Global configuration structure.
type Global struct {
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	APIToken string `mapstructure:"api_token" yaml:"api_token"`

	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	Output   string `mapstructure:"output" yaml:"output"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.adam/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flag overrides are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ADAM")
	v.AutomaticEnv()

	v.SetDefault("base_url", "http://127.0.0.1:8080")
	v.SetDefault("api_token", "")
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("log_level", "info")
	v.SetDefault("output", "table")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		// A missing file is fine; `config set` creates it.
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set validates and assigns a single key, as used by `config set`.
func (c *Global) Set(key, val string) error {
	switch key {
	case "base_url":
		if err := ValidateBaseURL(val); err != nil {
			return err
		}
		c.BaseURL = val
	case "api_token":
		c.APIToken = val
	case "http_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for http_timeout_sec: %v", val)
		}
		c.HTTPTimeoutSec = i
	case "log_level":
		lvl := strings.ToLower(val)
		if !slices.Contains(LogLevels, lvl) {
			return fmt.Errorf("invalid log_level: %s (use one of %s)", val, strings.Join(LogLevels, ", "))
		}
		c.LogLevel = lvl
	case "output":
		out := strings.ToLower(val)
		if !slices.Contains(OutputFormats, out) {
			return fmt.Errorf("invalid output: %s (use one of %s)", val, strings.Join(OutputFormats, ", "))
		}
		c.Output = out
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// ValidateBaseURL requires an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q is not an absolute http(s) URL", raw)
	}
	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".adam"), nil
}
