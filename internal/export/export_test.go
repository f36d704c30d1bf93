/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gotypewriter/internal/textlayout"
	"gotypewriter/internal/typewriter"
)

func samplePages(t *testing.T) []typewriter.Page {
	t.Helper()
	m := textlayout.NewMeasurer(textlayout.BasicProvider{}, textlayout.TextStyle{})
	text := "The lighthouse keeper counted the ships every night and wrote their names in a book nobody read. " +
		"One winter a ship came that had no name at all."
	pages, err := typewriter.Paginate(text, m, 200, 40, typewriter.DefaultThresholds())
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(pages) < 2 {
		t.Fatalf("expected several pages, got %d", len(pages))
	}
	return pages
}

func basicOptions() Options {
	return Options{Width: 200, Height: 40, Provider: textlayout.BasicProvider{}, Style: textlayout.TextStyle{Name: "plain"}}
}

func TestWritePNGPages(t *testing.T) {
	pages := samplePages(t)
	dir := filepath.Join(t.TempDir(), "png")
	opt := basicOptions()
	opt.IncludeGuides = true

	paths, err := WritePNGPages(pages, dir, opt)
	if err != nil {
		t.Fatalf("WritePNGPages: %v", err)
	}
	if len(paths) != len(pages) {
		t.Fatalf("wrote %d files for %d pages", len(paths), len(pages))
	}
	if filepath.Base(paths[0]) != "page-1.png" {
		t.Fatalf("unexpected name %s", paths[0])
	}

	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 224 || b.Dy() != 64 {
		t.Fatalf("image size %v, want 224x64", b)
	}
	// Narrow bubble: the height limit is the full height, so the guide sits
	// on the bubble's bottom edge.
	if r, g, b, _ := img.At(0, 52).RGBA(); r>>8 != 255 || g != 0 || b != 0 {
		t.Fatalf("expected guide pixel at y=52")
	}
	ink := 0
	// Stay clear of the 1px border at x=12/211 and y=12/51.
	for y := 14; y < 50; y++ {
		for x := 14; x < 210; x++ {
			if c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA); c.R < 128 && c.G < 128 {
				ink++
			}
		}
	}
	if ink == 0 {
		t.Fatalf("expected text pixels inside the bubble")
	}
}

func TestWritePDF(t *testing.T) {
	pages := samplePages(t)
	out := filepath.Join(t.TempDir(), "nested", "dialogue.pdf")
	opt := basicOptions()
	opt.Title = "Keeper – ünïcode title"
	if err := WritePDF(pages, out, opt); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("not a pdf")
	}
}

func TestWritePDFWithoutPages(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	if err := WritePDF(nil, out, Options{}); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if st, err := os.Stat(out); err != nil || st.Size() == 0 {
		t.Fatalf("expected a non-empty pdf: %v", err)
	}
}

func TestBatch(t *testing.T) {
	pages := samplePages(t)
	dir := t.TempDir()
	res, err := Batch(pages, basicOptions(), BatchOptions{Preset: PresetAll, OutDir: dir, Name: "keeper"})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if res.PDF != filepath.Join(dir, "keeper.pdf") || len(res.PNG) != len(pages) {
		t.Fatalf("result = %+v", res)
	}
	for _, p := range append(res.PNG, res.PDF) {
		if st, err := os.Stat(p); err != nil || st.Size() == 0 {
			t.Fatalf("missing output %s: %v", p, err)
		}
	}

	if _, err := Batch(pages, basicOptions(), BatchOptions{Formats: []string{"gif"}, OutDir: dir}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestPresets(t *testing.T) {
	cases := map[string]PresetName{"": PresetPreview, "Print": PresetPrint, " all ": PresetAll}
	for in, want := range cases {
		got, err := ParsePreset(in)
		if err != nil || got != want {
			t.Fatalf("ParsePreset(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePreset("web"); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
	if presetIncludeGuides(PresetPrint) || !presetIncludeGuides(PresetPreview) {
		t.Fatalf("unexpected guide defaults")
	}
	if f := presetDefaultFormats(PresetPrint); len(f) != 1 || f[0] != "pdf" {
		t.Fatalf("print formats = %v", f)
	}
}
