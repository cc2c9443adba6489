package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rzbill/ultranode/pkg/log"
)

// EnvPrefix is the prefix for environment overrides, e.g. ULTRANODE_LOG_LEVEL.
const EnvPrefix = "ULTRANODE"

var envKeyReplacer = strings.NewReplacer(".", "_")

type Setup struct {
	// OutputDir is where the generated artifacts are written.
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	// CertResolver names the certificate resolver every route uses.
	CertResolver string `yaml:"cert_resolver" mapstructure:"cert_resolver"`
	// RestartRetries bounds the on-failure restart policy.
	RestartRetries int `yaml:"restart_retries" mapstructure:"restart_retries"`
}

type Lint struct {
	Pattern         string `yaml:"pattern" mapstructure:"pattern"`
	ExcludePrefix   string `yaml:"exclude_prefix" mapstructure:"exclude_prefix"`
	MemoryLimit     int    `yaml:"memory_limit" mapstructure:"memory_limit"`
	NormalizeMemory bool   `yaml:"normalize_memory" mapstructure:"normalize_memory"`
	Format          string `yaml:"format" mapstructure:"format"`
}

type Config struct {
	Log   log.Config `yaml:"log" mapstructure:"log"`
	Setup Setup      `yaml:"setup" mapstructure:"setup"`
	Lint  Lint       `yaml:"lint" mapstructure:"lint"`
}

func Default() *Config {
	return &Config{
		Log: *log.DefaultConfig(),
		Setup: Setup{
			OutputDir:      ".",
			CertResolver:   "myresolver",
			RestartRetries: 2,
		},
		Lint: Lint{
			Pattern:       "*.yml",
			ExcludePrefix: "inventory",
			MemoryLimit:   64,
			Format:        "text",
		},
	}
}

// Load reads the config file at path. With an empty path it searches
// ./ultranode.yaml and $HOME/.ultranode/ultranode.yaml; a missing file is not an
// error and yields the defaults. Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ultranode")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ultranode"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise produce broken artifacts.
func (c *Config) Validate() error {
	if c.Setup.RestartRetries < 1 {
		return fmt.Errorf("setup.restart_retries must be at least 1, got %d", c.Setup.RestartRetries)
	}
	if c.Setup.CertResolver == "" {
		return fmt.Errorf("setup.cert_resolver is required")
	}
	if c.Lint.Pattern == "" {
		return fmt.Errorf("lint.pattern is required")
	}
	switch c.Lint.Format {
	case "text", "json":
	default:
		return fmt.Errorf("lint.format must be text or json, got %q", c.Lint.Format)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.disable_colors", cfg.Log.DisableColors)
	v.SetDefault("setup.output_dir", cfg.Setup.OutputDir)
	v.SetDefault("setup.cert_resolver", cfg.Setup.CertResolver)
	v.SetDefault("setup.restart_retries", cfg.Setup.RestartRetries)
	v.SetDefault("lint.pattern", cfg.Lint.Pattern)
	v.SetDefault("lint.exclude_prefix", cfg.Lint.ExcludePrefix)
	v.SetDefault("lint.memory_limit", cfg.Lint.MemoryLimit)
	v.SetDefault("lint.normalize_memory", cfg.Lint.NormalizeMemory)
	v.SetDefault("lint.format", cfg.Lint.Format)
}
