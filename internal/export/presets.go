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
	"path/filepath"
	"strings"

	"gotypewriter/internal/typewriter"
)

// PresetName represents a named export preset.
type PresetName string

const (
	// PresetPreview renders PNG pages with the page-break guide drawn.
	PresetPreview PresetName = "preview"
	// PresetPrint renders a PDF without guides.
	PresetPrint PresetName = "print"
	// PresetAll renders both.
	PresetAll PresetName = "all"
)

// BatchOptions controls exporting one set of pages to several formats.
//
// Outputs land under OutDir: PNG pages in png/, the PDF as <Name>.pdf.
type BatchOptions struct {
	Preset        PresetName
	Formats       []string // allowed: pdf, png; empty means preset defaults
	IncludeGuides *bool    // when set, overrides the preset's default for guides
	OutDir        string
	Name          string // base name of single-file outputs; default "dialogue"
}

// BatchResult lists what a batch export wrote.
type BatchResult struct {
	PNG []string
	PDF string
}

// Batch runs the exports a preset asks for.
func Batch(pages []typewriter.Page, base Options, opt BatchOptions) (BatchResult, error) {
	var res BatchResult
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	name := opt.Name
	if name == "" {
		name = "dialogue"
	}
	base.IncludeGuides = presetIncludeGuides(opt.Preset)
	if opt.IncludeGuides != nil {
		base.IncludeGuides = *opt.IncludeGuides
	}

	for _, f := range formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "pdf":
			out := filepath.Join(opt.OutDir, name+".pdf")
			if base.Title == "" {
				base.Title = name
			}
			if err := WritePDF(pages, out, base); err != nil {
				return res, fmt.Errorf("pdf: %w", err)
			}
			res.PDF = out
		case "png":
			paths, err := WritePNGPages(pages, filepath.Join(opt.OutDir, "png"), base)
			if err != nil {
				return res, fmt.Errorf("png: %w", err)
			}
			res.PNG = paths
		default:
			return res, fmt.Errorf("unknown format: %s", f)
		}
	}
	return res, nil
}

// ParsePreset maps a flag value to a preset; empty selects PresetPreview.
func ParsePreset(s string) (PresetName, error) {
	switch p := PresetName(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PresetPreview, nil
	case PresetPreview, PresetPrint, PresetAll:
		return p, nil
	}
	return "", fmt.Errorf("unknown export preset %q", s)
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetPrint:
		return []string{"pdf"}
	case PresetAll:
		return []string{"png", "pdf"}
	default:
		return []string{"png"}
	}
}

func presetIncludeGuides(p PresetName) bool {
	return p != PresetPrint
}
