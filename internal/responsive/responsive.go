/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package responsive derives the dialogue panel layout from the screen:
// where the panel sits, where its text, continue button and portrait go,
// which font sizes fit, and how the canvas scales.
//
// Inputs outside the enumerated ranges (NaN, infinities, non-positive
// screen sizes, unknown scale modes) are configuration errors.
package responsive

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// PanelHeightRatio is the share of the screen height the panel takes.
	PanelHeightRatio = 0.22
	// FontSizeRatio scales the screen height into a font size.
	FontSizeRatio = 0.04
)

var (
	TextInsets     = Insets{Left: 0.11, Right: 0.16, Top: 0.1}
	ButtonInsets   = Insets{Left: 0.85, Right: 0.02, Top: 0.7, Bottom: 0.1}
	PortraitInsets = Insets{Right: 0.9}

	MinFontBounds = FontRange{Min: 22, Max: 28}
	MaxFontBounds = FontRange{Min: 28, Max: 72}
)

var ErrInvalidScreen = errors.New("responsive: invalid screen")

// Screen describes the display. DPI 0 means unknown.
type Screen struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPI    float64 `yaml:"dpi"`
}

func (s Screen) validate() error {
	if !positive(s.Width) || !positive(s.Height) {
		return fmt.Errorf("%w: size %vx%v", ErrInvalidScreen, s.Width, s.Height)
	}
	if !finite(s.DPI) || s.DPI < 0 {
		return fmt.Errorf("%w: dpi %v", ErrInvalidScreen, s.DPI)
	}
	return nil
}

// AspectRatio is width over height.
func (s Screen) AspectRatio() float64 { return s.Width / s.Height }

// ScaleMode selects how the canvas follows the screen.
type ScaleMode string

const (
	ConstantPixelSize    ScaleMode = "constant_pixel"
	ScaleWithScreenSize  ScaleMode = "scale_with_screen"
	ConstantPhysicalSize ScaleMode = "constant_physical"
)

// ParseScaleMode accepts the mode names case-insensitively, with "-" or "_".
func ParseScaleMode(s string) (ScaleMode, error) {
	m := ScaleMode(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch m {
	case ConstantPixelSize, ScaleWithScreenSize, ConstantPhysicalSize:
		return m, nil
	}
	return "", fmt.Errorf("responsive: unsupported scale mode %q", s)
}

// FontRange is an auto-sizing range in points.
type FontRange struct {
	Min, Max float64
}

// Clamp limits v to the range.
func (r FontRange) Clamp(v float64) float64 { return math.Min(math.Max(v, r.Min), r.Max) }

// DynamicFontSize derives the auto-sizing range from the screen height.
func DynamicFontSize(screenHeight float64) FontRange {
	size := screenHeight * FontSizeRatio
	return FontRange{Min: MinFontBounds.Clamp(size), Max: MaxFontBounds.Clamp(size)}
}

// ScaleFactor is the canvas scale for constant pixel size.
func ScaleFactor(screenWidth float64) (float64, error) {
	switch {
	case math.IsNaN(screenWidth):
		return 0, fmt.Errorf("%w: unexpected width %v", ErrInvalidScreen, screenWidth)
	case screenWidth < 800:
		return 0.5, nil
	case screenWidth < 1200:
		return 1, nil
	default:
		return 1.5, nil
	}
}

// MatchValue is the width/height match for scale-with-screen-size: 1
// follows height on portrait screens, 0 follows width on wide ones.
func MatchValue(aspect float64) (float64, error) {
	switch {
	case math.IsNaN(aspect):
		return 0, fmt.Errorf("%w: unexpected aspect ratio %v", ErrInvalidScreen, aspect)
	case aspect < 1:
		return 1, nil
	case aspect <= 1.5:
		return 0.5, nil
	default:
		return 0, nil
	}
}

// PhysicalSizeFactor is the canvas scale for constant physical size.
func PhysicalSizeFactor(dpi float64) (float64, error) {
	switch {
	case math.IsNaN(dpi):
		return 0, fmt.Errorf("%w: unexpected dpi %v", ErrInvalidScreen, dpi)
	case dpi < 160:
		return 0.8, nil
	case dpi < 320:
		return 1, nil
	default:
		return 1.2, nil
	}
}

// Layout is the computed dialogue geometry for one screen.
type Layout struct {
	Screen   Screen
	Mode     ScaleMode
	Panel    Rect
	Text     Rect
	Button   Rect
	Portrait Rect
	Font     FontRange
	// Scale is the canvas scale factor; 1 for scale-with-screen-size.
	Scale float64
	// Match is the width/height match; only set for scale-with-screen-size.
	Match float64
}

// Compute lays out the dialogue panel for screen.
func Compute(screen Screen, mode ScaleMode) (Layout, error) {
	if err := screen.validate(); err != nil {
		return Layout{}, err
	}
	l := Layout{Screen: screen, Mode: mode, Scale: 1}
	var err error
	switch mode {
	case ConstantPixelSize:
		l.Scale, err = ScaleFactor(screen.Width)
	case ScaleWithScreenSize:
		l.Match, err = MatchValue(screen.AspectRatio())
	case ConstantPhysicalSize:
		l.Scale, err = PhysicalSizeFactor(screen.DPI)
	default:
		return Layout{}, fmt.Errorf("responsive: unsupported scale mode %q", mode)
	}
	if err != nil {
		return Layout{}, err
	}

	ph := screen.Height * PanelHeightRatio
	l.Panel = R(0, screen.Height-ph, screen.Width, ph)
	l.Text = l.Panel.Inset(TextInsets)
	l.Button = l.Panel.Inset(ButtonInsets)
	l.Portrait = l.Panel.Inset(PortraitInsets)
	l.Font = DynamicFontSize(screen.Height)
	return l, nil
}

// Bubble is the size of the text region, which is what the typewriter
// measures against.
func (l Layout) Bubble() (width, height float64) { return l.Text.W, l.Text.H }

func positive(v float64) bool { return finite(v) && v > 0 }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
