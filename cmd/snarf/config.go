package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// config holds the effective settings after merging flags, the
// optional config file, and SNARF_* environment variables. Precedence
// is flags > env > file > defaults.
type config struct {
	Dir        string        `mapstructure:"dir"`
	Output     string        `mapstructure:"output"`
	TempDir    string        `mapstructure:"temp-dir"`
	Agents     []string      `mapstructure:"agent"`
	Headers    []string      `mapstructure:"header"`
	NoClobber  bool          `mapstructure:"no-clobber"`
	IgnoreDate bool          `mapstructure:"ignore-date"`
	Block      bool          `mapstructure:"block"`
	Quiet      bool          `mapstructure:"quiet"`
	Passthru   bool          `mapstructure:"passthru"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Verbose    bool          `mapstructure:"verbose"`
}

func loadConfig(flags *pflag.FlagSet) (*config, error) {
	v := viper.New()

	v.SetEnvPrefix("SNARF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
