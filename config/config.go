package config

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/loopviz/errors"
	"github.com/wippyai/loopviz/trace"
)

// Config is the top-level loopviz configuration file.
type Config struct {
	MaxCallDepth int   `yaml:"max_call_depth"`
	MaxSteps     int   `yaml:"max_steps"`
	Log          Log   `yaml:"log"`
	Theme        Theme `yaml:"theme"`
}

// Log configures the shell's zap logger. An empty File disables logging;
// the terminal UI owns stdout and stderr.
type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Theme holds lipgloss colors for the visualizer panels.
type Theme struct {
	Accent  string `yaml:"accent"`
	WebAPI  string `yaml:"web_api"`
	Console string `yaml:"console"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxCallDepth: trace.DefaultMaxDepth,
		MaxSteps:     trace.DefaultMaxSteps,
		Log: Log{
			Level: "info",
		},
		Theme: Theme{
			Accent:  "#61dafb",
			WebAPI:  "#ff6b6b",
			Console: "#4caf50",
		},
	}
}

// Load reads path over the defaults, applies LOOPVIZ_* environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: unmarshal %q: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("LOOPVIZ_MAX_CALL_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
				Path("LOOPVIZ_MAX_CALL_DEPTH").
				Value(v).
				Cause(err).
				Build()
		}
		c.MaxCallDepth = n
	}
	if v := getenv("LOOPVIZ_MAX_STEPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
				Path("LOOPVIZ_MAX_STEPS").
				Value(v).
				Cause(err).
				Build()
		}
		c.MaxSteps = n
	}
	if v := getenv("LOOPVIZ_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOOPVIZ_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// Validate checks value ranges. Zero depth or steps means unbounded.
func (c Config) Validate() error {
	if c.MaxCallDepth < 0 {
		return errors.InvalidConfig([]string{"max_call_depth"}, c.MaxCallDepth, "must not be negative")
	}
	if c.MaxSteps < 0 {
		return errors.InvalidConfig([]string{"max_steps"}, c.MaxSteps, "must not be negative")
	}
	if _, err := c.Log.ZapLevel(); err != nil {
		return err
	}
	for _, f := range []struct {
		key, val string
	}{
		{"accent", c.Theme.Accent},
		{"web_api", c.Theme.WebAPI},
		{"console", c.Theme.Console},
	} {
		if f.val == "" {
			return errors.InvalidConfig([]string{"theme", f.key}, f.val, "color is empty")
		}
	}
	return nil
}

// ZapLevel parses Level.
func (l Log) ZapLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return zapcore.InfoLevel, errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
			Path("log", "level").
			Value(l.Level).
			Cause(err).
			Build()
	}
	return lvl, nil
}
