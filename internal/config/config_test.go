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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points the config path at a temp dir so the user's file is never read.
func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	setenv(t, EnvConfigPath, path)
	return path
}

func setenv(t *testing.T, name, value string) {
	t.Helper()
	old := os.Getenv(name)
	_ = os.Setenv(name, value)
	t.Cleanup(func() { _ = os.Setenv(name, old) })
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.TypingSpeed() != 50*time.Millisecond {
		t.Fatalf("TypingSpeed = %v", cfg.TypingSpeed())
	}
	if cfg.Bubble.Thresholds.PivotWidth != 1250 {
		t.Fatalf("pivot = %v", cfg.Bubble.Thresholds.PivotWidth)
	}
	w, h, err := cfg.BubbleSize()
	if err != nil {
		t.Fatalf("BubbleSize: %v", err)
	}
	if w < 1401 || w > 1402 || h < 213 || h > 214 {
		t.Fatalf("derived bubble = %vx%v", w, h)
	}
}

func TestEnvOverridesTyping(t *testing.T) {
	isolate(t)
	setenv(t, EnvTypingSpeedMs, "20")
	setenv(t, EnvBubbleWidth, "1300")
	setenv(t, EnvBubbleHeight, "400")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.TypingSpeed() != 20*time.Millisecond {
		t.Fatalf("TypingSpeed = %v", cfg.TypingSpeed())
	}
	if w, h, _ := cfg.BubbleSize(); w != 1300 || h != 400 {
		t.Fatalf("bubble = %vx%v", w, h)
	}
	if name, ok := EnvOverrideFor("typing.speed_ms"); !ok || name != EnvTypingSpeedMs {
		t.Fatalf("EnvOverrideFor = %q %v", name, ok)
	}
	if _, ok := EnvOverrideFor("font.family"); ok {
		t.Fatalf("font.family reported as overridden")
	}
}

func TestEnvOverrideBadNumber(t *testing.T) {
	isolate(t)
	setenv(t, EnvScreenWidth, "wide")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), EnvScreenWidth) {
		t.Fatalf("expected error naming %s, got %v", EnvScreenWidth, err)
	}
}

func TestEnvOverridesTranscriptDisabled(t *testing.T) {
	isolate(t)
	setenv(t, EnvTranscriptDisabled, "yes")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p, err := cfg.TranscriptPath(); err != nil || p != "" {
		t.Fatalf("TranscriptPath = %q, %v; want disabled", p, err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := isolate(t)
	cfg := Defaults()
	cfg.Typing.SpeedMs = 35
	cfg.Screen.ScaleMode = "constant_physical"
	cfg.Font.Style = "Caption"
	cfg.Transcript.Path = filepath.Join(filepath.Dir(path), "t.sqlite")
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Typing.SpeedMs != 35 || got.Screen.ScaleMode != "constant_physical" || got.Font.Style != "Caption" {
		t.Fatalf("round trip lost fields: %#v", got)
	}
	if p, _ := got.TranscriptPath(); p != cfg.Transcript.Path {
		t.Fatalf("TranscriptPath = %q", p)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := isolate(t)
	if err := os.WriteFile(path, []byte("typing: [oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*AppConfig)
	}{
		{"speed", func(c *AppConfig) { c.Typing.SpeedMs = 0 }},
		{"scale mode", func(c *AppConfig) { c.Screen.ScaleMode = "stretch" }},
		{"screen", func(c *AppConfig) { c.Screen.Height = -1 }},
		{"bubble", func(c *AppConfig) { c.Bubble.Width = -5 }},
		{"style", func(c *AppConfig) { c.Font.Style = "Shout" }},
		{"log format", func(c *AppConfig) { c.Logging.Format = "xml" }},
	}
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mut(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestMergeKeepsDefaultsForZeroFields(t *testing.T) {
	dst := Defaults()
	var src AppConfig
	src.Font.SizePt = 30
	mergeInto(&dst, &src)
	if dst.Font.Family != "Go" || dst.Font.SizePt != 30 || dst.Typing.SpeedMs != 50 {
		t.Fatalf("merge = %#v", dst)
	}
	if dst.FontSize() != 30 {
		t.Fatalf("FontSize = %v", dst.FontSize())
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/gtw.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/gtw.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
	if o := dst.LogOptions(); o.Level != "debug" || o.Format != "json" || !o.AddSource {
		t.Fatalf("LogOptions = %#v", o)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	setenv(t, EnvLogLevel, "error")
	setenv(t, EnvLogFormat, "JSON")
	setenv(t, EnvLogSource, "1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source {
		t.Fatalf("logging env overrides not applied: %#v", cfg.Logging)
	}
}

func TestFontSizeDerivedFromScreen(t *testing.T) {
	cfg := Defaults()
	// 1080*0.04 = 43.2, min clamped to 28
	if got := cfg.FontSize(); got != 28 {
		t.Fatalf("FontSize = %v, want 28", got)
	}
	if st := cfg.TextStyle(); st.Font.SizePt != 28 || st.Font.Family != "Go" {
		t.Fatalf("TextStyle = %#v", st)
	}
}

func TestMeasurerFromDefaults(t *testing.T) {
	cfg := Defaults()
	m, err := cfg.Measurer()
	if err != nil {
		t.Fatalf("Measurer: %v", err)
	}
	if w := m.MeasureLineWidth("hello"); w <= 0 {
		t.Fatalf("width = %v", w)
	}
}

func TestProviderMissingFontFile(t *testing.T) {
	cfg := Defaults()
	cfg.Font.Family = "Custom"
	cfg.Font.Path = filepath.Join(t.TempDir(), "missing.ttf")
	if _, err := cfg.Provider(); err == nil {
		t.Fatalf("expected error for missing font file")
	}
}
