package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"cellrules/internal/core"
)

// Config holds the settings shared by the terminal and window hosts.
type Config struct {
	Levels   string        `yaml:"levels"`
	Level    int           `yaml:"level"`
	State    string        `yaml:"state"`
	Watch    bool          `yaml:"watch"`
	Interval time.Duration `yaml:"interval"`
	Scale    int           `yaml:"scale"`
	TPS      int           `yaml:"tps"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Interval:  core.DefaultInterval,
		Scale:     24,
		TPS:       60,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultStateDir is where progress is kept when no directory is configured.
func DefaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".cellrules"
	}
	return dir + string(os.PathSeparator) + "cellrules"
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Levels, "levels", c.Levels, "level pack file (.yaml, .yml or .hcl); built-in pack when empty")
	fs.IntVar(&c.Level, "level", c.Level, "level id to start on")
	fs.StringVar(&c.State, "state", c.State, "directory for saved progress; empty disables saving")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "reload the level pack when the file changes")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "time between generations while animating")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel size of one cell in the window")
	fs.IntVar(&c.TPS, "tps", c.TPS, "window updates per second")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "text or json")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "write logs to this file instead of stderr")
}

// ApplyFile overlays the YAML file at path onto c. Flags already set on fs
// take precedence over the file.
func (c *Config) ApplyFile(path string, fs *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	file := *c
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	changed := map[string]bool{}
	if fs != nil {
		fs.Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	}
	pick := func(name string, apply func()) {
		if !changed[name] {
			apply()
		}
	}
	pick("levels", func() { c.Levels = file.Levels })
	pick("level", func() { c.Level = file.Level })
	pick("state", func() { c.State = file.State })
	pick("watch", func() { c.Watch = file.Watch })
	pick("interval", func() { c.Interval = file.Interval })
	pick("scale", func() { c.Scale = file.Scale })
	pick("tps", func() { c.TPS = file.TPS })
	pick("log-level", func() { c.LogLevel = file.LogLevel })
	pick("log-format", func() { c.LogFormat = file.LogFormat })
	pick("log-file", func() { c.LogFile = file.LogFile })
	return c.Validate()
}

// Validate rejects settings no host can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %d", c.Scale))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps must be positive, got %d", c.TPS))
	}
	return errors.Join(errs...)
}
