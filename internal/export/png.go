/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"gotypewriter/internal/textlayout"
	"gotypewriter/internal/typewriter"
)

// WritePNGPages renders each page into <dir>/<prefix>-<n>.png and returns
// the written paths in page order. Text is wrapped at the bubble width and
// clipped to the canvas.
func WritePNGPages(pages []typewriter.Page, dir string, opt Options) ([]string, error) {
	opt = opt.withDefaults()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}

	m := textlayout.NewMeasurer(opt.Provider, opt.Style)
	if err := m.Acquire(); err != nil {
		return nil, fmt.Errorf("resolve font: %w", err)
	}
	defer m.Release()
	face, met := opt.Provider.Resolve(opt.Style.Font)
	defer face.Close()

	pad := int(math.Round(opt.Padding))
	bw := int(math.Round(opt.Width))
	bh := int(math.Round(opt.Height))
	pixW, pixH := bw+2*pad, bh+2*pad
	lineH := float64(met.LineHeight() + opt.Style.Leading)

	var out []string
	for _, pg := range pages {
		img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: opt.Background}, image.Point{}, draw.Src)
		strokeRect(img, pad, pad, pad+bw-1, pad+bh-1, opt.Border)
		if opt.IncludeGuides {
			gy := pad + int(math.Round(opt.guideY()))
			if gy > 0 && gy < pixH {
				hline(img, 0, pixW-1, gy, opt.Guide)
			}
		}

		d := &font.Drawer{Dst: img, Src: image.NewUniform(opt.Ink), Face: face}
		box := m.Layout(pg.Text, opt.Width)
		y := float64(pad) + float64(met.Ascent)
		for _, ln := range box.Lines {
			if y-float64(met.Ascent) > float64(pixH) {
				break
			}
			d.Dot = fixed.P(pad, int(math.Round(y)))
			d.DrawString(ln.Text())
			y += lineH
		}

		name := filepath.Join(dir, fmt.Sprintf("%s-%d.png", opt.Prefix, pg.Number))
		if err := writePNG(name, img); err != nil {
			return out, err
		}
		out = append(out, name)
	}
	return out, nil
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	hline(img, x0, x1, y0, col)
	hline(img, x0, x1, y1, col)
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func hline(img *image.RGBA, x0, x1, y int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y, col)
	}
}
