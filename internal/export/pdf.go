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
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"gotypewriter/internal/typewriter"
)

// WritePDF writes every page into a single PDF at outPath, one bubble per
// PDF page. Units are points; the bubble size is taken as points 1:1.
//
// Text uses the built-in Helvetica so nothing is embedded; lines are wrapped
// with Helvetica metrics at the bubble width, keeping the breaks the
// typewriter inserted.
func WritePDF(pages []typewriter.Page, outPath string, opt Options) error {
	opt = opt.withDefaults()
	pad := opt.Padding
	mediaW := opt.Width + 2*pad
	mediaH := opt.Height + 2*pad

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: mediaW, Ht: mediaH},
	})
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, true)
	}
	pdf.SetAuthor("gotypewriter", false)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	size := float64(opt.Style.Font.SizePt)
	if size <= 0 {
		size = 12
	}
	style := ""
	if opt.Style.Font.Weight >= 600 {
		style += "B"
	}
	if opt.Style.Font.Italic {
		style += "I"
	}
	pdf.SetFont("Helvetica", style, size)
	lineH := size*1.2 + float64(opt.Style.Leading)

	for _, pg := range pages {
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: mediaW, Ht: mediaH})

		setFillColor(pdf, opt.Background)
		pdf.Rect(0, 0, mediaW, mediaH, "F")
		setDrawColor(pdf, opt.Border)
		pdf.SetLineWidth(0.5)
		pdf.Rect(pad, pad, opt.Width, opt.Height, "D")
		if opt.IncludeGuides {
			setDrawColor(pdf, opt.Guide)
			pdf.SetLineWidth(0.2)
			gy := pad + opt.guideY()
			pdf.Line(0, gy, mediaW, gy)
		}

		pdf.SetTextColor(int(opt.Ink.R), int(opt.Ink.G), int(opt.Ink.B))
		y := pad + size
		for _, para := range strings.Split(pg.Text, "\n") {
			lines := pdf.SplitText(tr(para), opt.Width)
			if len(lines) == 0 {
				lines = []string{""}
			}
			for _, ln := range lines {
				if y > mediaH {
					break
				}
				pdf.Text(pad, y, ln)
				y += lineH
			}
		}
	}
	if len(pages) == 0 {
		pdf.AddPage()
	}

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
