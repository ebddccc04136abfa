// Package config resolves runtime options for src2html. Options come
// from built-in defaults layered with SRC2HTML_* environment variables;
// no config file is read or written.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for src2html settings.
const envPrefix = "SRC2HTML"

// Default option values.
const (
	DefaultStyle       = "github"
	DefaultLineNumbers = true
)

// Options holds the tunable rendering settings.
type Options struct {
	Style       string `mapstructure:"style"`        // chroma style name
	Title       string `mapstructure:"title"`        // document title override
	LineNumbers bool   `mapstructure:"line_numbers"` // render a line number gutter
}

// Load resolves options from defaults and environment variables
// (SRC2HTML_STYLE, SRC2HTML_TITLE, SRC2HTML_LINE_NUMBERS).
func Load() (Options, error) {
	viperCfg := viper.New()

	viperCfg.SetDefault("style", DefaultStyle)
	viperCfg.SetDefault("title", "")
	viperCfg.SetDefault("line_numbers", DefaultLineNumbers)

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through
	// Unmarshal, so each key is bound explicitly.
	for _, key := range []string{"style", "title", "line_numbers"} {
		bindErr := viperCfg.BindEnv(key)
		if bindErr != nil {
			return Options{}, fmt.Errorf("bind env %s: %w", key, bindErr)
		}
	}

	var opts Options

	unmarshalErr := viperCfg.Unmarshal(&opts)
	if unmarshalErr != nil {
		return Options{}, fmt.Errorf("unmarshal options: %w", unmarshalErr)
	}

	return opts, nil
}
