/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"strings"
	"sync"

	"golang.org/x/image/font"
)

// Measurer answers width and height queries for the typewriter engine.
//
// Outside Acquire/Release every query resolves a fresh face and closes it
// afterwards. Between Acquire and Release the face is resolved once and
// reused, which matters for OpenType faces with their glyph caches.
type Measurer struct {
	Provider Provider
	Style    TextStyle

	mu   sync.Mutex
	face font.Face
	met  Metrics
	held bool
}

func NewMeasurer(p Provider, style TextStyle) *Measurer {
	if p == nil {
		p = BasicProvider{}
	}
	return &Measurer{Provider: p, Style: style}
}

// Acquire pins the resolved face until Release. Calling it again while held
// is a no-op.
func (m *Measurer) Acquire() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held {
		return nil
	}
	m.face, m.met = m.provider().Resolve(m.Style.Font)
	m.held = true
	return nil
}

// Release closes the pinned face. Calling it when nothing is held is a no-op.
func (m *Measurer) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.held {
		return
	}
	closeFace(m.face)
	m.face, m.held = nil, false
}

// Held reports whether a face is pinned.
func (m *Measurer) Held() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held
}

// MeasureLineWidth returns the pixel width of the widest explicit line in
// text, without wrapping.
func (m *Measurer) MeasureLineWidth(text string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, _, done := m.faceLocked()
	defer done()
	d := &font.Drawer{Face: face}
	var widest float32
	for _, line := range strings.Split(text, "\n") {
		if w := advance(d, line, m.Style.Tracking); w > widest {
			widest = w
		}
	}
	return float64(widest)
}

// MeasureBlockHeight returns the height text needs when wrapped at
// wrapWidth: wrapped line count times line height, leading included.
// Empty text needs no height.
func (m *Measurer) MeasureBlockHeight(text string, wrapWidth float64) float64 {
	if text == "" {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	face, met, done := m.faceLocked()
	defer done()
	l := NewWordWrap(fixedProvider{face: face, met: met})
	box, err := l.Layout([]Span{m.Style.Span(text)}, float32(wrapWidth))
	if err != nil {
		return 0
	}
	return float64(box.Height)
}

// Layout wraps text at maxWidth with the measurer's style.
func (m *Measurer) Layout(text string, maxWidth float64) TextBox {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, met, done := m.faceLocked()
	defer done()
	box, _ := NewWordWrap(fixedProvider{face: face, met: met}).Layout([]Span{m.Style.Span(text)}, float32(maxWidth))
	return box
}

// LineHeight is the distance between baselines, leading included.
func (m *Measurer) LineHeight() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, met, done := m.faceLocked()
	defer done()
	return float64(met.LineHeight() + m.Style.Leading)
}

func (m *Measurer) provider() Provider {
	if m.Provider == nil {
		return BasicProvider{}
	}
	return m.Provider
}

func (m *Measurer) faceLocked() (font.Face, Metrics, func()) {
	if m.held {
		return m.face, m.met, func() {}
	}
	face, met := m.provider().Resolve(m.Style.Font)
	return face, met, func() { closeFace(face) }
}

func closeFace(f font.Face) {
	if f != nil {
		_ = f.Close()
	}
}

// fixedProvider hands out one face regardless of spec.
type fixedProvider struct {
	face font.Face
	met  Metrics
}

func (p fixedProvider) Resolve(FontSpec) (font.Face, Metrics) { return p.face, p.met }
