// Package config loads the launcher settings from a JSON file and CLI flags.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the window, rendering and file settings of the launcher.
type Config struct {
	// Window
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
	TPS    int    `json:"tps"`

	// Rendering
	IterationsBase int    `json:"iterations_base"`
	Quality        string `json:"quality"`
	RenderMode     string `json:"render_mode"`

	// Files
	PresetDir  string   `json:"preset_dir"`
	CaptureDir string   `json:"capture_dir"`
	Watch      []string `json:"watch"` // Preset files reloaded on change (relative to PresetDir)

	LogLevel string `json:"log_level"`
}

// Load reads a JSON config file. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width, Height int
	Quality       string
	RenderMode    string
	PresetDir     string
	Watch         []string
	LogLevel      string
}

// Resolve applies flags over the file values, then fills anything still empty with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Quality != "" {
		c.Quality = flags.Quality
	}
	if flags.RenderMode != "" {
		c.RenderMode = flags.RenderMode
	}
	if flags.PresetDir != "" {
		c.PresetDir = flags.PresetDir
	}
	if len(flags.Watch) > 0 {
		c.Watch = flags.Watch
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	// Defaults
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.Title == "" {
		c.Title = "fractal-ui"
	}
	if c.TPS <= 0 {
		c.TPS = 60
	}
	if c.IterationsBase <= 0 {
		c.IterationsBase = 140
	}
	if c.Quality == "" {
		c.Quality = "100%"
	}
	if c.RenderMode == "" {
		c.RenderMode = "2d"
	}
	if c.PresetDir == "" {
		c.PresetDir = "."
	}
	if c.CaptureDir == "" {
		c.CaptureDir = c.PresetDir
	} else if !filepath.IsAbs(c.CaptureDir) {
		c.CaptureDir = filepath.Join(c.PresetDir, c.CaptureDir)
	}

	// Resolve watched files against the preset dir
	for i, w := range c.Watch {
		if !filepath.IsAbs(w) {
			c.Watch[i] = filepath.Join(c.PresetDir, w)
		}
	}
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}
