package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ftmalcolm/malcolm"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys, shared by flags, environment variables and config
// files.
const (
	keyInterface    = "interface"
	keyPollInterval = "poll-interval"
	keyFilter       = "filter"
	keyLogLevel     = "log-level"
	keyLogFile      = "log-file"
)

const defaultInterface = "eth0"

type config struct {
	Interface    string        `mapstructure:"interface"`
	PollInterval time.Duration `mapstructure:"poll-interval"`
	Filter       bool          `mapstructure:"filter"`
	LogLevel     string        `mapstructure:"log-level"`
	LogFile      string        `mapstructure:"log-file"`
}

// newViper returns a viper instance with defaults set and MALCOLM_*
// environment variables bound.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("malcolm")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyInterface, defaultInterface)
	v.SetDefault(keyPollInterval, malcolm.DefaultPollInterval)
	v.SetDefault(keyFilter, true)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFile, "")
}

// loadConfig merges, from highest to lowest precedence, flags set on the
// command line, environment variables, the config file at path if any, and
// defaults.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet, path string) (*config, error) {
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.PollInterval <= 0 {
		return nil, errors.New("poll-interval must be positive")
	}

	return &cfg, nil
}
