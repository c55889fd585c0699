// Package config loads the InkBoard settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SelectorStyle picks how the selector turns a drawn path into a
// selection.
type SelectorStyle string

const (
	SelectorPolygon          SelectorStyle = "polygon"
	SelectorRectangle        SelectorStyle = "rectangle"
	SelectorSingle           SelectorStyle = "single"
	SelectorIntersectingPath SelectorStyle = "intersecting_path"
)

func (s SelectorStyle) Valid() bool {
	switch s {
	case SelectorPolygon, SelectorRectangle, SelectorSingle, SelectorIntersectingPath:
		return true
	}
	return false
}

type Config struct {
	Log      Log      `yaml:"log"`
	Pens     Pens     `yaml:"pens"`
	Render   Render   `yaml:"render"`
	History  History  `yaml:"history"`
	Document Document `yaml:"document"`
	Share    Share    `yaml:"share"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Pens holds the settings the pens read and, for the typewriter, write
// back while editing.
type Pens struct {
	Selector   Selector   `yaml:"selector"`
	Typewriter Typewriter `yaml:"typewriter"`
}

type Selector struct {
	Style                 SelectorStyle `yaml:"style"`
	ResizeLockAspectRatio bool          `yaml:"resize_lock_aspect_ratio"`
}

type Typewriter struct {
	TextWidth       float64   `yaml:"text_width"`
	MaxWidthEnabled bool      `yaml:"max_width_enabled"`
	TextStyle       TextStyle `yaml:"text_style"`
}

type TextStyle struct {
	FontSize float64 `yaml:"font_size"`
	// Color is #rgb, #rrggbb or #rrggbbaa.
	Color string `yaml:"color"`
}

type Render struct {
	// Workers bounds concurrent render jobs; 0 uses one per CPU.
	Workers    int     `yaml:"workers"`
	ImageScale float64 `yaml:"image_scale"`
}

type History struct {
	MaxLen int `yaml:"max_len"`
}

type Document struct {
	Layout       string  `yaml:"layout"`
	FormatWidth  float64 `yaml:"format_width"`
	FormatHeight float64 `yaml:"format_height"`
}

// Share configures read-only board sharing over the local network.
type Share struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	Advertise bool   `yaml:"advertise"`
	Name      string `yaml:"name"`
}

func Default() Config {
	return Config{
		Log: Log{Level: "info"},
		Pens: Pens{
			Selector: Selector{Style: SelectorPolygon},
			Typewriter: Typewriter{
				TextWidth:       600,
				MaxWidthEnabled: true,
				TextStyle:       TextStyle{FontSize: 26, Color: "#000000ff"},
			},
		},
		Render:   Render{ImageScale: 1},
		History:  History{MaxLen: 100},
		Document: Document{Layout: "infinite", FormatWidth: 794, FormatHeight: 1123},
		Share:    Share{Port: 8888, Advertise: true, Name: "InkBoard"},
	}
}

// Load reads path on top of the defaults. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Save writes c as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if !c.Pens.Selector.Style.Valid() {
		errs = append(errs, fmt.Errorf("pens.selector.style: unknown style %q", c.Pens.Selector.Style))
	}
	if c.Pens.Typewriter.TextWidth < 2 {
		errs = append(errs, fmt.Errorf("pens.typewriter.text_width: %v below 2", c.Pens.Typewriter.TextWidth))
	}
	if c.Pens.Typewriter.TextStyle.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("pens.typewriter.text_style.font_size: must be positive"))
	}
	if c.Render.Workers < 0 {
		errs = append(errs, fmt.Errorf("render.workers: must not be negative"))
	}
	if c.Render.ImageScale <= 0 {
		errs = append(errs, fmt.Errorf("render.image_scale: must be positive"))
	}
	if c.History.MaxLen < 1 {
		errs = append(errs, fmt.Errorf("history.max_len: must be at least 1"))
	}
	if c.Document.FormatWidth <= 0 || c.Document.FormatHeight <= 0 {
		errs = append(errs, fmt.Errorf("document: format size must be positive"))
	}
	if c.Share.Port <= 0 || c.Share.Port > 65535 {
		errs = append(errs, fmt.Errorf("share.port: %d out of range", c.Share.Port))
	}
	return errors.Join(errs...)
}

// LogLevel returns the configured slog level.
func (c Config) LogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}
