// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// MAXPROTEIN_FILTER_MAX_COUNT.
const EnvPrefix = "MAXPROTEIN"

type Config struct {
	DBPath     string           `mapstructure:"db_path"`
	Host       string           `mapstructure:"host"`
	Port       int              `mapstructure:"port"`
	LogLevel   string           `mapstructure:"log_level"`
	BudgetKcal int              `mapstructure:"budget_kcal"`
	Filter     FilterConfig     `mapstructure:"filter"`
	Exhaustive ExhaustiveConfig `mapstructure:"exhaustive"`
}

// FilterConfig holds the default candidate filter. Both kcal bounds are
// exclusive.
type FilterConfig struct {
	MinKcal  int `mapstructure:"min_kcal"`
	MaxKcal  int `mapstructure:"max_kcal"`
	MaxCount int `mapstructure:"max_count"`
}

// ExhaustiveConfig bounds exhaustive search requests.
type ExhaustiveConfig struct {
	// MaxCount is the largest candidate count a caller may request for
	// exhaustive search, from the server or solve; timing skips exhaustive
	// above it. It can never exceed 63.
	MaxCount int `mapstructure:"max_count"`
}

// SetDefaults registers every key with its default so env overrides and
// Unmarshal see them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "max-protein.db")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8012)
	v.SetDefault("log_level", "info")
	v.SetDefault("budget_kcal", 2000)
	v.SetDefault("filter.min_kcal", 0)
	v.SetDefault("filter.max_kcal", math.MaxInt32)
	v.SetDefault("filter.max_count", 20)
	v.SetDefault("exhaustive.max_count", 24)
}

// Load reads configuration into v in order of increasing precedence:
// defaults, the config file, MAXPROTEIN_* environment variables and any flags
// already bound to v. An explicit cfgFile must exist; otherwise
// ./max-protein.yaml is read when present.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// LOG_LEVEL is honored alongside the prefixed form.
	if err := v.BindEnv("log_level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind log level env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("max-protein")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("invalid config: port %d out of range", c.Port)
	case c.Filter.MaxCount < 0:
		return fmt.Errorf("invalid config: filter.max_count %d is negative", c.Filter.MaxCount)
	case c.Exhaustive.MaxCount < 0 || c.Exhaustive.MaxCount > 63:
		return fmt.Errorf("invalid config: exhaustive.max_count %d must be between 0 and 63", c.Exhaustive.MaxCount)
	}
	return nil
}
