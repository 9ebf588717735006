package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mobileads/pkg/ads"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOptional_Missing(t *testing.T) {
	cfg, path, err := LoadOptional(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)

	r, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, ads.DefaultViewType, r.ViewType)
	assert.Equal(t, ads.DefaultChannel, r.Channel)
	assert.Equal(t, "latest", r.EngineVersion)
	assert.Equal(t, "info", r.LogLevel)
	assert.Equal(t, "console", r.LogFormat)
	assert.False(t, r.Debug)
	assert.Equal(t, ads.DefaultTemplateStyle(), r.Template)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mobileads.yaml", `
debug: true
channel: test/ads
engine:
  version: 1.4.0
log:
  format: json
template:
  size: small
  cta_background_color: "#00FF00"
  cta_font_size: 14
`)

	cfg, path, err := LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mobileads.yaml"), path)

	r, err := cfg.Resolve()
	require.NoError(t, err)
	assert.True(t, r.Debug)
	assert.Equal(t, "test/ads", r.Channel)
	assert.Equal(t, "v1.4.0", r.EngineVersion)
	assert.Equal(t, "debug", r.LogLevel, "debug mode defaults to debug logging")
	assert.Equal(t, "json", r.LogFormat)
	assert.Equal(t, ads.TemplateSmall, r.Template.Size)
	assert.Equal(t, ads.Color(0xFF00FF00), r.Template.CallToActionBackgroundColor)
	assert.Equal(t, 14.0, r.Template.CallToActionTextStyle.FontSize)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mobileads.toml", `
view_type = "test/ad_widget"

[engine]
version = "v2.0.1"

[log]
level = "warn"

[template]
cta_text_color = "#FF000000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	r, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "test/ad_widget", r.ViewType)
	assert.Equal(t, "v2.0.1", r.EngineVersion)
	assert.Equal(t, "warn", r.LogLevel)
	assert.Equal(t, ads.Color(0xFF000000), r.Template.CallToActionTextStyle.Color)
}

func TestLoad_UnknownKeys(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "a.toml", "colour = \"red\"\n"))
	assert.ErrorContains(t, err, "colour")

	_, err = Load(writeFile(t, dir, "b.yaml", "colour: red\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "c.json", "{}"))
	assert.ErrorContains(t, err, "unsupported")
}

func TestLoad_EmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, t.TempDir(), "mobileads.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadOptional_PrefersYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mobileads.toml", `channel = "from/toml"`)
	writeFile(t, dir, "mobileads.yaml", `channel: from/yaml`)

	cfg, _, err := LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, "from/yaml", cfg.Channel)
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad version", Config{Engine: EngineConfig{Version: "one"}}},
		{"bad level", Config{Log: LogConfig{Level: "loud"}}},
		{"bad format", Config{Log: LogConfig{Format: "xml"}}},
		{"bad size", Config{Template: TemplateConfig{Size: "huge"}}},
		{"bad color", Config{Template: TemplateConfig{CallToActionTextColor: "blue"}}},
		{"negative font", Config{Template: TemplateConfig{CallToActionFontSize: -1}}},
		{"same names", Config{ViewType: "x", Channel: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Resolve()
			assert.Error(t, err)
		})
	}
}
