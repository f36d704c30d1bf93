/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	applog "gotypewriter/internal/log"
	"gotypewriter/internal/responsive"
	"gotypewriter/internal/textlayout"
	"gotypewriter/internal/typewriter"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.
type AppConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	Typing        TypingConfig     `yaml:"typing"`
	Bubble        BubbleConfig     `yaml:"bubble"`
	Screen        ScreenConfig     `yaml:"screen"`
	Font          FontConfig       `yaml:"font"`
	Transcript    TranscriptConfig `yaml:"transcript"`
	Logging       LoggingConfig    `yaml:"logging"`
}

type TypingConfig struct {
	SpeedMs int `yaml:"speed_ms"`
}

// BubbleConfig sizes the text bubble. A zero width or height derives both
// from the screen layout.
type BubbleConfig struct {
	Width      float64               `yaml:"width"`
	Height     float64               `yaml:"height"`
	Thresholds typewriter.Thresholds `yaml:"thresholds"`
}

type ScreenConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	DPI       float64 `yaml:"dpi"`
	ScaleMode string  `yaml:"scale_mode"`
}

// FontConfig selects the measuring font. Path loads a TTF/OTF under Family;
// otherwise Family must be one of the embedded Go fonts. SizePt 0 derives
// the size from the screen height.
type FontConfig struct {
	Family string  `yaml:"family"`
	Path   string  `yaml:"path"`
	SizePt float64 `yaml:"size_pt"`
	DPI    float64 `yaml:"dpi"`
	Style  string  `yaml:"style"`
}

type TranscriptConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Typing:        TypingConfig{SpeedMs: int(typewriter.DefaultTypingSpeed / time.Millisecond)},
		Bubble:        BubbleConfig{Thresholds: typewriter.DefaultThresholds()},
		Screen:        ScreenConfig{Width: 1920, Height: 1080, DPI: 96, ScaleMode: string(responsive.ScaleWithScreenSize)},
		Font:          FontConfig{Family: textlayout.GoFamily, DPI: 72, Style: textlayout.DefaultStyle},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath         = "GTW_CONFIG"
	EnvTypingSpeedMs      = "GTW_TYPING_SPEED_MS"
	EnvBubbleWidth        = "GTW_BUBBLE_WIDTH"
	EnvBubbleHeight       = "GTW_BUBBLE_HEIGHT"
	EnvScreenWidth        = "GTW_SCREEN_WIDTH"
	EnvScreenHeight       = "GTW_SCREEN_HEIGHT"
	EnvScreenDPI          = "GTW_SCREEN_DPI"
	EnvScaleMode          = "GTW_SCALE_MODE"
	EnvFontFamily         = "GTW_FONT_FAMILY"
	EnvFontPath           = "GTW_FONT_PATH"
	EnvFontSizePt         = "GTW_FONT_SIZE_PT"
	EnvTranscriptPath     = "GTW_TRANSCRIPT_PATH"
	EnvTranscriptDisabled = "GTW_TRANSCRIPT_DISABLED"
	// EnvLogLevel Logging envs
	EnvLogLevel  = applog.EnvLevel
	EnvLogFormat = applog.EnvFormat
	EnvLogSource = applog.EnvSource
	EnvLogFile   = applog.EnvFile
)

const appDir = "gotypewriter"

// ConfigPath returns the per-user config file path, or GTW_CONFIG when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoTypewriter")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoTypewriter")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", appDir)
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// DefaultTranscriptPath is next to the config file.
func DefaultTranscriptPath() (string, error) {
	p, err := ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(p), "transcript.sqlite"), nil
}

// Load reads the user config file (if present), applies defaults, merges
// environment overrides and validates the result.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file. A missing file is not an error.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Typing.SpeedMs != 0 {
		dst.Typing.SpeedMs = src.Typing.SpeedMs
	}
	// bubble
	if src.Bubble.Width != 0 {
		dst.Bubble.Width = src.Bubble.Width
	}
	if src.Bubble.Height != 0 {
		dst.Bubble.Height = src.Bubble.Height
	}
	mergeFloat(&dst.Bubble.Thresholds.PivotWidth, src.Bubble.Thresholds.PivotWidth)
	mergeFloat(&dst.Bubble.Thresholds.NarrowWidthMargin, src.Bubble.Thresholds.NarrowWidthMargin)
	mergeFloat(&dst.Bubble.Thresholds.WideWidthMargin, src.Bubble.Thresholds.WideWidthMargin)
	mergeFloat(&dst.Bubble.Thresholds.WideHeightMargin, src.Bubble.Thresholds.WideHeightMargin)
	// screen
	mergeFloat(&dst.Screen.Width, src.Screen.Width)
	mergeFloat(&dst.Screen.Height, src.Screen.Height)
	mergeFloat(&dst.Screen.DPI, src.Screen.DPI)
	mergeString(&dst.Screen.ScaleMode, src.Screen.ScaleMode)
	// font
	mergeString(&dst.Font.Family, src.Font.Family)
	mergeString(&dst.Font.Path, src.Font.Path)
	mergeFloat(&dst.Font.SizePt, src.Font.SizePt)
	mergeFloat(&dst.Font.DPI, src.Font.DPI)
	mergeString(&dst.Font.Style, src.Font.Style)
	// transcript; booleans are copied directly so user preferences persist
	mergeString(&dst.Transcript.Path, src.Transcript.Path)
	dst.Transcript.Disabled = src.Transcript.Disabled
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	mergeString(&dst.Logging.File, src.Logging.File)
}

func mergeFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func mergeString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func applyEnvOverrides(cfg *AppConfig) error {
	var errs []error
	intVar := func(name string, dst *int) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}
	floatVar := func(name string, dst *float64) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = f
		}
	}
	stringVar := func(name string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	boolVar := func(name string, dst *bool) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			lv := strings.ToLower(v)
			*dst = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
		}
	}

	intVar(EnvTypingSpeedMs, &cfg.Typing.SpeedMs)
	floatVar(EnvBubbleWidth, &cfg.Bubble.Width)
	floatVar(EnvBubbleHeight, &cfg.Bubble.Height)
	floatVar(EnvScreenWidth, &cfg.Screen.Width)
	floatVar(EnvScreenHeight, &cfg.Screen.Height)
	floatVar(EnvScreenDPI, &cfg.Screen.DPI)
	stringVar(EnvScaleMode, &cfg.Screen.ScaleMode)
	stringVar(EnvFontFamily, &cfg.Font.Family)
	stringVar(EnvFontPath, &cfg.Font.Path)
	floatVar(EnvFontSizePt, &cfg.Font.SizePt)
	stringVar(EnvTranscriptPath, &cfg.Transcript.Path)
	boolVar(EnvTranscriptDisabled, &cfg.Transcript.Disabled)
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	boolVar(EnvLogSource, &cfg.Logging.Source)
	stringVar(EnvLogFile, &cfg.Logging.File)
	return errors.Join(errs...)
}

// overridable maps config keys to the env vars that override them.
var overridable = map[string]string{
	"typing.speed_ms":     EnvTypingSpeedMs,
	"bubble.width":        EnvBubbleWidth,
	"bubble.height":       EnvBubbleHeight,
	"screen.width":        EnvScreenWidth,
	"screen.height":       EnvScreenHeight,
	"screen.dpi":          EnvScreenDPI,
	"screen.scale_mode":   EnvScaleMode,
	"font.family":         EnvFontFamily,
	"font.path":           EnvFontPath,
	"font.size_pt":        EnvFontSizePt,
	"transcript.path":     EnvTranscriptPath,
	"transcript.disabled": EnvTranscriptDisabled,
	"logging.level":       EnvLogLevel,
	"logging.format":      EnvLogFormat,
	"logging.source":      EnvLogSource,
	"logging.file":        EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := overridable[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// Validate reports every invalid setting.
func (c AppConfig) Validate() error {
	var errs []error
	if c.Typing.SpeedMs <= 0 {
		errs = append(errs, fmt.Errorf("typing.speed_ms must be positive, got %d", c.Typing.SpeedMs))
	}
	if !nonNegative(c.Bubble.Width) || !nonNegative(c.Bubble.Height) {
		errs = append(errs, fmt.Errorf("bubble size must be >= 0, got %vx%v", c.Bubble.Width, c.Bubble.Height))
	}
	if !(c.Bubble.Thresholds.PivotWidth > 0) {
		errs = append(errs, errors.New("bubble.thresholds.pivot_width must be positive"))
	}
	mode, err := responsive.ParseScaleMode(c.Screen.ScaleMode)
	if err != nil {
		errs = append(errs, fmt.Errorf("screen.scale_mode: %w", err))
	} else if _, err := responsive.Compute(c.screen(), mode); err != nil {
		errs = append(errs, fmt.Errorf("screen: %w", err))
	}
	if !nonNegative(c.Font.SizePt) || !nonNegative(c.Font.DPI) {
		errs = append(errs, errors.New("font size and dpi must be >= 0"))
	}
	if _, ok := textlayout.GetStyle(c.Font.Style); c.Font.Style != "" && !ok {
		errs = append(errs, fmt.Errorf("font.style %q is not a builtin style", c.Font.Style))
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

func nonNegative(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 }

func (c AppConfig) screen() responsive.Screen {
	return responsive.Screen{Width: c.Screen.Width, Height: c.Screen.Height, DPI: c.Screen.DPI}
}

// TypingSpeed is the delay between revealed runes.
func (c AppConfig) TypingSpeed() time.Duration {
	if c.Typing.SpeedMs <= 0 {
		return typewriter.DefaultTypingSpeed
	}
	return time.Duration(c.Typing.SpeedMs) * time.Millisecond
}

// Layout computes the dialogue panel for the configured screen.
func (c AppConfig) Layout() (responsive.Layout, error) {
	mode, err := responsive.ParseScaleMode(c.Screen.ScaleMode)
	if err != nil {
		return responsive.Layout{}, err
	}
	return responsive.Compute(c.screen(), mode)
}

// BubbleSize is the configured bubble, or the text region of the screen
// layout when either dimension is unset.
func (c AppConfig) BubbleSize() (width, height float64, err error) {
	if c.Bubble.Width > 0 && c.Bubble.Height > 0 {
		return c.Bubble.Width, c.Bubble.Height, nil
	}
	l, err := c.Layout()
	if err != nil {
		return 0, 0, err
	}
	w, h := l.Bubble()
	return w, h, nil
}

// FontSize is the configured size, or the smallest size the screen's
// dynamic range allows.
func (c AppConfig) FontSize() float32 {
	if c.Font.SizePt > 0 {
		return float32(c.Font.SizePt)
	}
	if l, err := c.Layout(); err == nil {
		return float32(l.Font.Min)
	}
	return float32(responsive.MinFontBounds.Min)
}

// TextStyle is the configured builtin style at the configured family and size.
func (c AppConfig) TextStyle() textlayout.TextStyle {
	st, ok := textlayout.GetStyle(c.Font.Style)
	if !ok {
		st, _ = textlayout.GetStyle(textlayout.DefaultStyle)
	}
	if c.Font.Family != "" {
		st.Font.Family = c.Font.Family
	}
	return st.WithSize(c.FontSize())
}

// Provider builds the font provider: the embedded Go fonts, plus Font.Path
// registered under Font.Family when set.
func (c AppConfig) Provider() (textlayout.Provider, error) {
	lib := textlayout.GoFonts()
	if c.Font.Path != "" {
		if err := lib.LoadTTF(c.Font.Family, 400, false, c.Font.Path); err != nil {
			return nil, err
		}
	}
	return textlayout.OTProvider{Lib: lib, DPI: c.Font.DPI}, nil
}

// Measurer is the text measurer the typewriter needs.
func (c AppConfig) Measurer() (*textlayout.Measurer, error) {
	p, err := c.Provider()
	if err != nil {
		return nil, err
	}
	return textlayout.NewMeasurer(p, c.TextStyle()), nil
}

// TranscriptPath resolves the transcript database, "" when disabled.
func (c AppConfig) TranscriptPath() (string, error) {
	if c.Transcript.Disabled {
		return "", nil
	}
	if c.Transcript.Path != "" {
		return c.Transcript.Path, nil
	}
	return DefaultTranscriptPath()
}

// LogOptions maps the logging section onto the logger.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{Level: c.Logging.Level, Format: c.Logging.Format, AddSource: c.Logging.Source, File: c.Logging.File}
}
