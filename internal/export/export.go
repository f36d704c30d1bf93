/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders paginated dialogue to files: one PNG per bubble
// page, or a single PDF with one bubble per page. Page breaks come from the
// typewriter; the exporters only lay out and draw what each page shows.
package export

import (
	"image/color"

	"gotypewriter/internal/textlayout"
	"gotypewriter/internal/typewriter"
)

// Options describes the bubble being rendered. Zero values select defaults.
type Options struct {
	// Width and Height are the bubble size in pixels (points for PDF).
	Width, Height float64
	// Padding surrounds the bubble on every side.
	Padding float64

	Provider textlayout.Provider
	Style    textlayout.TextStyle

	// IncludeGuides draws the height limit the typewriter breaks pages at.
	IncludeGuides bool
	Thresholds    typewriter.Thresholds

	Background color.RGBA
	Ink        color.RGBA
	Border     color.RGBA
	Guide      color.RGBA

	// Title is the PDF document title.
	Title string
	// Prefix names PNG files <Prefix>-<page>.png; default "page".
	Prefix string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 600
	}
	if o.Height <= 0 {
		o.Height = 200
	}
	if o.Padding <= 0 {
		o.Padding = 12
	}
	if o.Provider == nil {
		o.Provider = textlayout.BasicProvider{}
	}
	if o.Style.Name == "" && o.Style.Font == (textlayout.FontSpec{}) {
		o.Style, _ = textlayout.GetStyle(textlayout.DefaultStyle)
	}
	if o.Thresholds == (typewriter.Thresholds{}) {
		o.Thresholds = typewriter.DefaultThresholds()
	}
	if o.Background == (color.RGBA{}) {
		o.Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if o.Ink == (color.RGBA{}) {
		o.Ink = color.RGBA{A: 255}
	}
	if o.Border == (color.RGBA{}) {
		o.Border = color.RGBA{A: 255}
	}
	if o.Guide == (color.RGBA{}) {
		o.Guide = color.RGBA{R: 255, A: 255}
	}
	if o.Prefix == "" {
		o.Prefix = "page"
	}
	return o
}

// guideY is the height limit measured from the bubble top.
func (o Options) guideY() float64 {
	return o.Thresholds.HeightLimit(o.Width, o.Height)
}
