// Package config loads tool configuration from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configDirName  = ".repobrief"
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "REPOBRIEF"
)

// Config holds every tunable of the analysis pipeline.
type Config struct {
	CacheDir           string `mapstructure:"cache_dir" yaml:"cache_dir"`
	LogLevel           string `mapstructure:"log_level" yaml:"log_level"`
	Format             string `mapstructure:"format" yaml:"format"`
	CommitLimit        int    `mapstructure:"commit_limit" yaml:"commit_limit"`
	FrequencyThreshold int    `mapstructure:"frequency_threshold" yaml:"frequency_threshold"`
	SampleCount        int    `mapstructure:"sample_count" yaml:"sample_count"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the pipeline timeout as a duration; zero means no limit.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads configuration in order of precedence: environment variables
// (REPOBRIEF_ prefix), an optional config file, then defaults. An empty
// path means the default location (~/.repobrief/config.yaml); a missing
// file at either location is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults(v)

	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, configDirName, configFileName+"."+configFileType)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	cacheDir := filepath.Join(os.TempDir(), "repobrief-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, configDirName, "cache")
	}

	v.SetDefault("cache_dir", cacheDir)
	v.SetDefault("log_level", "info")
	v.SetDefault("format", "markdown")
	v.SetDefault("commit_limit", 50)
	v.SetDefault("frequency_threshold", 3)
	v.SetDefault("sample_count", 50)
	v.SetDefault("timeout_seconds", 300)
}
