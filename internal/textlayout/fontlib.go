/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// GoFamily is the family name the embedded Go fonts are registered under.
const GoFamily = "Go"

// FontLibrary stores loaded OpenType fonts mapped by family/weight/italic.
// Lookups fall back to any face of the same family; there is no support for
// variable font instances.
type FontLibrary struct {
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	weight int
	italic bool
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)} }

// GoFonts returns a library seeded with the Go fonts compiled into x/image:
// "Go" regular, bold and italic, and "Go Mono".
func GoFonts() *FontLibrary {
	fl := NewFontLibrary()
	for _, f := range []struct {
		family string
		weight int
		italic bool
		data   []byte
	}{
		{GoFamily, 400, false, goregular.TTF},
		{GoFamily, 700, false, gobold.TTF},
		{GoFamily, 400, true, goitalic.TTF},
		{GoFamily + " Mono", 400, false, gomono.TTF},
	} {
		// The embedded fonts are known good.
		_ = fl.LoadBytes(f.family, f.weight, f.italic, f.data)
	}
	return fl
}

// LoadTTF loads a font file into the library under the given family/weight/italic.
func (fl *FontLibrary) LoadTTF(family string, weight int, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	if err := fl.LoadBytes(family, weight, italic, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadBytes parses an OpenType/TrueType font held in memory.
func (fl *FontLibrary) LoadBytes(family string, weight int, italic bool, data []byte) error {
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	fl.fonts[fontKey{family: family, weight: weight, italic: italic}] = f
	return nil
}

// Has reports whether any face of family is loaded.
func (fl *FontLibrary) Has(family string) bool {
	if fl == nil {
		return false
	}
	for k := range fl.fonts {
		if k.family == family {
			return true
		}
	}
	return false
}

func (fl *FontLibrary) find(spec FontSpec) *opentype.Font {
	if fl == nil || fl.fonts == nil {
		return nil
	}
	if f, ok := fl.fonts[fontKey{family: spec.Family, weight: spec.Weight, italic: spec.Italic}]; ok {
		return f
	}
	// Same family, same slant, nearest weight; then any face of the family.
	var best *opentype.Font
	bestDist := -1
	for k, f := range fl.fonts {
		if k.family != spec.Family || k.italic != spec.Italic {
			continue
		}
		d := k.weight - spec.Weight
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = f, d
		}
	}
	if best != nil {
		return best
	}
	for k, f := range fl.fonts {
		if k.family == spec.Family {
			return f
		}
	}
	return nil
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another
// Provider. Faces it returns own glyph caches; callers that hold on to a
// face should Close it when done.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePt <= 0 {
		spec.SizePt = 12
	}
	if spec.Weight <= 0 {
		spec.Weight = 400
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}

	if f := p.Lib.find(spec); f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(spec.SizePt), DPI: dpi, Hinting: font.HintingFull})
		if err == nil {
			return face, metricsOf(face)
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}
