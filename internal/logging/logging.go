// Package logging builds the zerolog logger used by the rowcsv command.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Environment variables that override the logger setup.
const (
	EnvLogLevel     = "ROWCSV_LOG_LEVEL"
	EnvLogTimestamp = "ROWCSV_LOG_TIMESTAMP"
	EnvLogNoColor   = "ROWCSV_LOG_NOCOLOR"
)

// Profile selects the default logger setup.
type Profile int

const (
	// ProfileRuntime logs warnings and above with timestamps.
	ProfileRuntime Profile = iota
	// ProfileTest logs everything without color.
	ProfileTest
)

// Config is the resolved logger setup.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

// New returns a console logger writing to out. level, when non-empty, wins
// over both the profile default and the environment.
func New(profile Profile, out io.Writer, level string) zerolog.Logger {
	cfg := defaultConfig(profile)
	applyEnvOverrides(&cfg)
	if lvl, ok := ParseLevel(level); ok {
		cfg.Level = lvl
	}
	return build(cfg, out)
}

func build(cfg Config, out io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	ctx := zerolog.New(output).Level(cfg.Level).With().Str("app", "rowcsv")
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

func defaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: zerolog.DebugLevel, NoColor: true}
	default:
		return Config{Level: zerolog.WarnLevel, Timestamp: true}
	}
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// ParseLevel maps a level name to a zerolog level. It reports false for
// empty or unknown input.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
