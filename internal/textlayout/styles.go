/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// TextStyle is a reusable text style preset: a font spec plus the spacing
// the layouter applies. Tracking and Leading are measured in pixels.
//
// Kerning is applied by the face itself (font.Drawer / Face.Kern) and is
// always on.
type TextStyle struct {
	Name     string
	Font     FontSpec
	Tracking float32 // px between glyphs (added per inter-glyph gap)
	Leading  float32 // extra px added to line height
}

// DefaultStyle is used when no style is named.
const DefaultStyle = "Dialogue"

var builtinStyles = map[string]TextStyle{
	// Sizes are in points at the configured DPI.
	"Dialogue": {
		Name:    "Dialogue",
		Font:    FontSpec{Family: GoFamily, SizePt: 24, Weight: 400},
		Leading: 2.0,
	},
	"Caption": {
		Name:     "Caption",
		Font:     FontSpec{Family: GoFamily, SizePt: 20, Weight: 400, Italic: true},
		Tracking: 0.25,
		Leading:  1.5,
	},
	"Narration": {
		Name:     "Narration",
		Font:     FontSpec{Family: GoFamily + " Mono", SizePt: 22, Weight: 400},
		Tracking: 0.0,
		Leading:  3.0,
	},
}

// GetStyle returns a builtin style preset by name. The second return value is false if
// the style is not found.
func GetStyle(name string) (TextStyle, bool) { s, ok := builtinStyles[name]; return s, ok }

// ListStyles lists the names of the builtin styles in stable order.
func ListStyles() []string {
	return []string{"Dialogue", "Caption", "Narration"}
}

// WithSize returns a copy of the style at another point size. Sizes <= 0
// leave the style unchanged.
func (s TextStyle) WithSize(pt float32) TextStyle {
	if pt > 0 {
		s.Font.SizePt = pt
	}
	return s
}

// Span wraps text in a span carrying this style.
func (s TextStyle) Span(text string) Span {
	return Span{Text: text, Font: s.Font, Tracking: s.Tracking, Leading: s.Leading}
}
