/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures and line-breaks text on x/image font faces.
// Measurement is deterministic for a given Provider, which keeps pagination
// reproducible across runs and platforms.
package textlayout

import (
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string  `yaml:"family" json:"family"`
	SizePt float32 `yaml:"size_pt" json:"size_pt"`
	Weight int     `yaml:"weight" json:"weight"` // 100..900
	Italic bool    `yaml:"italic" json:"italic"`
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float32
}

// LineHeight is the baseline-to-baseline distance.
func (m Metrics) LineHeight() float32 { return m.Ascent + m.Descent + m.LineGap }

// Span is a run of text with the same font/style.
type Span struct {
	Text     string
	Font     FontSpec
	Tracking float32 // px added between glyphs
	Leading  float32 // px added to the line height
}

// Line is a single laid out line with width and ascent/descent.
type Line struct {
	Spans   []Span
	Width   float32
	Ascent  float32
	Descent float32
}

// Text joins the spans of the line.
func (l Line) Text() string {
	var s string
	for _, sp := range l.Spans {
		s += sp.Text
	}
	return s
}

// TextBox is the result of laying out text into a box width.
type TextBox struct {
	Lines   []Line
	Width   float32
	Height  float32
	Metrics Metrics
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Layouter performs line-breaking and measurement.
type Layouter interface {
	Layout(spans []Span, maxWidth float32) (TextBox, error)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  float32(m.Ascent.Round()),
		Descent: float32(m.Descent.Round()),
		LineGap: float32(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// WordWrapLayouter breaks on spaces and explicit newlines; it does not
// shape or hyphenate. A word wider than maxWidth gets a line of its own.
// A trailing newline opens an empty final line, the way a text box grows
// once the caret moves down.
type WordWrapLayouter struct{ Provider Provider }

func NewWordWrap(provider Provider) *WordWrapLayouter { return &WordWrapLayouter{Provider: provider} }

func (l *WordWrapLayouter) Layout(spans []Span, maxWidth float32) (TextBox, error) {
	if l.Provider == nil {
		l.Provider = BasicProvider{}
	}
	// Metrics and leading come from the first span; spans only vary width.
	var first Span
	if len(spans) > 0 {
		first = spans[0]
	}
	_, met := l.Provider.Resolve(first.Font)
	lineH := met.LineHeight() + first.Leading

	cur := Line{Ascent: met.Ascent, Descent: met.Descent}
	box := TextBox{Metrics: met}
	open := true // cur must be flushed even if empty
	addLine := func() {
		box.Lines = append(box.Lines, cur)
		if cur.Width > box.Width {
			box.Width = cur.Width
		}
		box.Height += lineH
		cur = Line{Ascent: met.Ascent, Descent: met.Descent}
	}
	for _, sp := range spans {
		if sp.Text == "" {
			continue
		}
		face, _ := l.Provider.Resolve(sp.Font)
		drawer := &font.Drawer{Face: face}
		start := 0
		for i := 0; i <= len(sp.Text); i++ {
			if i < len(sp.Text) && sp.Text[i] != ' ' && sp.Text[i] != '\n' {
				continue
			}
			word := sp.Text[start:i]
			sep := byte(0)
			if i < len(sp.Text) {
				sep = sp.Text[i]
			}
			w := advance(drawer, word, sp.Tracking)
			if word != "" {
				if cur.Width > 0 && maxWidth > 0 && cur.Width+w > maxWidth {
					addLine()
				}
				cur.Spans = append(cur.Spans, Span{Text: word, Font: sp.Font, Tracking: sp.Tracking, Leading: sp.Leading})
				cur.Width += w
				open = false
			}
			switch sep {
			case ' ':
				cur.Spans = append(cur.Spans, Span{Text: " ", Font: sp.Font, Tracking: sp.Tracking, Leading: sp.Leading})
				cur.Width += advance(drawer, " ", sp.Tracking) + sp.Tracking
				open = false
			case '\n':
				addLine()
				open = true
			}
			start = i + 1
		}
	}
	if len(cur.Spans) > 0 || open {
		addLine()
	}
	return box, nil
}

// advance is the pen advance of s in whole pixels, with tracking added
// between glyphs.
func advance(d *font.Drawer, s string, tracking float32) float32 {
	w := float32(d.MeasureString(s) >> 6) // fixed.Int26_6 to px
	if n := utf8.RuneCountInString(s); n > 1 {
		w += tracking * float32(n-1)
	}
	return w
}

// Measure provides a quick way to measure text width/height without line-breaks.
func Measure(provider Provider, spans []Span) (w, h float32) {
	if provider == nil {
		provider = BasicProvider{}
	}
	var first Span
	if len(spans) > 0 {
		first = spans[0]
	}
	_, met := provider.Resolve(first.Font)
	var width float32
	for i, sp := range spans {
		face, _ := provider.Resolve(sp.Font)
		d := &font.Drawer{Face: face}
		width += advance(d, sp.Text, sp.Tracking)
		if i > 0 && sp.Text != "" {
			width += sp.Tracking
		}
	}
	return width, met.Ascent + met.Descent + first.Leading
}
