// Package config loads the chat widget configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "chatwidget.yaml"

// Config is the top-level widget configuration.
type Config struct {
	Endpoint       string            `yaml:"endpoint"`
	Timeout        string            `yaml:"timeout"` // Duration string (e.g. "30s"); empty or "0s" disables it.
	Headers        map[string]string `yaml:"headers,omitempty"`
	RenderMarkdown bool              `yaml:"render_markdown"`
	Widget         WidgetConfig      `yaml:"widget"`
	Log            LogConfig         `yaml:"log"`
}

// WidgetConfig holds the texts and dimensions of the chat panel.
type WidgetConfig struct {
	Title          string `yaml:"title"`
	ToggleLabel    string `yaml:"toggle_label"`
	Greeting       string `yaml:"greeting"`
	Placeholder    string `yaml:"placeholder"`
	PendingText    string `yaml:"pending_text"`
	NoResponseText string `yaml:"no_response_text"`
	ErrorText      string `yaml:"error_text"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
}

// LogConfig controls the debug log file. The terminal belongs to the UI, so
// logs only ever go to a file.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Minimum panel dimensions that still fit a header, one message line and
// the input.
const (
	MinWidth  = 24
	MinHeight = 8
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Endpoint: "http://localhost:5000/chatbot",
		Widget: WidgetConfig{
			Title:          "AI Assistant",
			ToggleLabel:    "?",
			Greeting:       "Hello! I am your AI assistant.\nAsk me anything.",
			Placeholder:    "Type your question...",
			PendingText:    "...",
			NoResponseText: "No response received.",
			ErrorText:      "An error occurred. Please try again.",
			Width:          48,
			Height:         18,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a YAML file and returns a Config with defaults filled in
// for every field the file leaves empty.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	cfg.ApplyDefaults()

	return cfg, nil
}

// LoadOrDefault behaves like LoadConfig but returns Default when the file
// does not exist.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyDefaults fills zero-valued fields from Default.
func (c *Config) ApplyDefaults() {
	d := Default()

	setDefault(&c.Endpoint, d.Endpoint)
	setDefault(&c.Widget.Title, d.Widget.Title)
	setDefault(&c.Widget.ToggleLabel, d.Widget.ToggleLabel)
	setDefault(&c.Widget.Greeting, d.Widget.Greeting)
	setDefault(&c.Widget.Placeholder, d.Widget.Placeholder)
	setDefault(&c.Widget.PendingText, d.Widget.PendingText)
	setDefault(&c.Widget.NoResponseText, d.Widget.NoResponseText)
	setDefault(&c.Widget.ErrorText, d.Widget.ErrorText)
	setDefault(&c.Log.Level, d.Log.Level)

	if c.Widget.Width == 0 {
		c.Widget.Width = d.Widget.Width
	}
	if c.Widget.Height == 0 {
		c.Widget.Height = d.Widget.Height
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// TimeoutDuration parses Timeout. An empty value means no timeout.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: timeout: %w", err)
	}
	return d, nil
}

var logLevels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {}, "fatal": {}, "panic": {}, "disabled": {},
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("config: endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("config: endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: endpoint %q: scheme must be http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("config: endpoint %q: host is required", c.Endpoint)
	}

	d, err := c.TimeoutDuration()
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("config: timeout must not be negative")
	}

	if c.Widget.Width < MinWidth {
		return fmt.Errorf("config: widget width %d is below the minimum of %d", c.Widget.Width, MinWidth)
	}
	if c.Widget.Height < MinHeight {
		return fmt.Errorf("config: widget height %d is below the minimum of %d", c.Widget.Height, MinHeight)
	}

	if _, ok := logLevels[c.Log.Level]; !ok {
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}

	return nil
}

// Save marshals cfg to YAML and writes it to path, creating parent
// directories as needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: create parent dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config file, not secret
		return fmt.Errorf("config: write: %w", err)
	}

	return nil
}
