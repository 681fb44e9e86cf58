// Package config loads the cpkg tool configuration from config.toml in the
// cpkg home folder, CPKG_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fandjelo/cpkg/internal/env"
)

const (
	KeyHome    = "home"
	KeyProfile = "profile"
	KeyVerbose = "verbose"
	KeyIndex   = "index"
)

// Config is the resolved tool configuration.
type Config struct {
	Home    string `mapstructure:"home"`
	Profile string `mapstructure:"profile"`
	Verbose bool   `mapstructure:"verbose"`
	// Index is an extra folder of version index files.
	Index string `mapstructure:"index"`
}

// Dirs returns the home folder layout.
func (c *Config) Dirs() env.Dirs {
	return env.At(c.Home)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyProfile, "default")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyIndex, "")
	v.SetEnvPrefix("CPKG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the configuration. Flags that were set on the command line
// take precedence; the config file is read from the resolved home.
func Load(v *viper.Viper, flags *pflag.FlagSet) (*Config, error) {
	if flags != nil {
		for _, key := range []string{KeyHome, KeyProfile, KeyVerbose} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	home := v.GetString(KeyHome)
	if home == "" {
		home = env.Home()
	}
	v.SetConfigFile(env.At(home).ConfigFile())
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if c.Home == "" {
		c.Home = home
	}
	return &c, nil
}
