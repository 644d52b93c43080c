// Package config holds the settings of the jmap command.  Defaults come from
// JMAP_* environment variables and can be overridden by flags.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
)

const Prefix = "jmap"

// ColorMode says when output should be colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func (m ColorMode) String() string {
	return string(m)
}

func (m *ColorMode) Set(s string) error {
	switch ColorMode(s) {
	case ColorAuto, ColorAlways, ColorNever:
		*m = ColorMode(s)
		return nil
	default:
		return fmt.Errorf("invalid color mode %q (use auto, always or never)", s)
	}
}

func (m *ColorMode) Type() string {
	return "mode"
}

func (m *ColorMode) UnmarshalText(text []byte) error {
	return m.Set(string(text))
}

type Log struct {
	Level  slog.Level    `default:"info" desc:"log level: debug, info, warn or error"`
	File   string        `desc:"also write JSON logs to this file"`
	MaxAge time.Duration `default:"168h" split_words:"true" desc:"remove rotated log files older than this"`
}

type Config struct {
	Indent int       `default:"-1" desc:"indent output by this many spaces per level, negative for a single line"`
	Color  ColorMode `default:"auto" desc:"colored output: auto, always or never"`
	Flush  bool      `desc:"flush the output after each element"`
	Rules  string    `desc:"YAML rule file"`
	Trace  bool      `desc:"log each element at debug level"`
	Log    Log
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process(Prefix, &cfg)
	return cfg, err
}

// Usage prints the environment variables understood by Load.
func Usage() error {
	var cfg Config
	return envconfig.Usage(Prefix, &cfg)
}

type level struct {
	l *slog.Level
}

func (v level) String() string {
	return v.l.String()
}

func (v level) Set(s string) error {
	return v.l.UnmarshalText([]byte(s))
}

func (v level) Type() string {
	return "level"
}

// LevelValue makes a flag out of a slog level.
func LevelValue(l *slog.Level) pflag.Value {
	return level{l: l}
}
