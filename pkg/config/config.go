// Package config loads the optional mobileads.yaml or mobileads.toml file
// and resolves it into the settings used to wire the ad view factory.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/mobileads/pkg/ads"
)

// File names searched by LoadOptional, in order.
var FileNames = []string{"mobileads.yaml", "mobileads.yml", "mobileads.toml"}

// Config mirrors the configuration file.
type Config struct {
	Debug    bool           `yaml:"debug" toml:"debug"`
	ViewType string         `yaml:"view_type,omitempty" toml:"view_type"`
	Channel  string         `yaml:"channel,omitempty" toml:"channel"`
	Engine   EngineConfig   `yaml:"engine" toml:"engine"`
	Log      LogConfig      `yaml:"log" toml:"log"`
	Template TemplateConfig `yaml:"template" toml:"template"`
}

// EngineConfig pins the host engine version.
type EngineConfig struct {
	Version string `yaml:"version,omitempty" toml:"version"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level"`
	Format string `yaml:"format,omitempty" toml:"format"`
}

// TemplateConfig holds defaults for the built-in native ad template.
type TemplateConfig struct {
	Size                        string  `yaml:"size,omitempty" toml:"size"`
	CallToActionTextColor       string  `yaml:"cta_text_color,omitempty" toml:"cta_text_color"`
	CallToActionBackgroundColor string  `yaml:"cta_background_color,omitempty" toml:"cta_background_color"`
	CallToActionFontSize        float64 `yaml:"cta_font_size,omitempty" toml:"cta_font_size"`
	FontFamily                  string  `yaml:"font_family,omitempty" toml:"font_family"`
}

// Resolved contains validated settings with defaults applied.
type Resolved struct {
	// Source is the file the settings were read from, or "".
	Source        string
	Debug         bool
	ViewType      string
	Channel       string
	EngineVersion string
	LogLevel      string
	LogFormat     string
	Template      ads.TemplateStyle
}

// LoadOptional reads the first config file found in dir. A missing file
// yields an empty Config and an empty path.
func LoadOptional(dir string) (*Config, string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to stat %s: %w", name, err)
		}
		cfg, err := Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	return &Config{}, "", nil
}

// Load reads a config file, choosing the format by extension.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loadTOML(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func loadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

func loadTOML(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", filepath.Base(path), strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// Resolve applies defaults and validates the configuration.
func (c *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		Debug:         c.Debug,
		ViewType:      strings.TrimSpace(c.ViewType),
		Channel:       strings.TrimSpace(c.Channel),
		EngineVersion: strings.TrimSpace(c.Engine.Version),
		LogLevel:      strings.ToLower(strings.TrimSpace(c.Log.Level)),
		LogFormat:     strings.ToLower(strings.TrimSpace(c.Log.Format)),
	}
	if r.ViewType == "" {
		r.ViewType = ads.DefaultViewType
	}
	if r.Channel == "" {
		r.Channel = ads.DefaultChannel
	}
	if r.ViewType == r.Channel {
		return nil, fmt.Errorf("view_type and channel must differ, both are %q", r.Channel)
	}

	version, err := resolveVersion(r.EngineVersion)
	if err != nil {
		return nil, err
	}
	r.EngineVersion = version

	if r.LogLevel == "" {
		r.LogLevel = "info"
		if r.Debug {
			r.LogLevel = "debug"
		}
	}
	if _, err := zapcore.ParseLevel(r.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	switch r.LogFormat {
	case "":
		r.LogFormat = "console"
	case "console", "json":
	default:
		return nil, fmt.Errorf("invalid log.format %q (want console or json)", c.Log.Format)
	}

	style, err := c.Template.style()
	if err != nil {
		return nil, err
	}
	r.Template = style
	return r, nil
}

// resolveVersion accepts "latest" or a semantic version with or without the
// leading "v", and returns it in canonical form.
func resolveVersion(v string) (string, error) {
	if v == "" || v == "latest" {
		return "latest", nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid engine.version %q (want latest or a semantic version)", v)
	}
	return semver.Canonical(v), nil
}

func (t TemplateConfig) style() (ads.TemplateStyle, error) {
	style := ads.DefaultTemplateStyle()
	if t.Size != "" {
		size, err := ads.ParseTemplateSize(t.Size)
		if err != nil {
			return style, fmt.Errorf("template.size: %w", err)
		}
		style.Size = size
	}
	if t.CallToActionTextColor != "" {
		c, err := ads.ParseColor(t.CallToActionTextColor)
		if err != nil {
			return style, fmt.Errorf("template.cta_text_color: %w", err)
		}
		style.CallToActionTextStyle.Color = c
	}
	if t.CallToActionBackgroundColor != "" {
		c, err := ads.ParseColor(t.CallToActionBackgroundColor)
		if err != nil {
			return style, fmt.Errorf("template.cta_background_color: %w", err)
		}
		style.CallToActionBackgroundColor = c
	}
	if t.CallToActionFontSize < 0 {
		return style, fmt.Errorf("template.cta_font_size must not be negative")
	}
	style.CallToActionTextStyle.FontSize = t.CallToActionFontSize
	style.CallToActionTextStyle.FontFamily = strings.TrimSpace(t.FontFamily)
	return style, nil
}
