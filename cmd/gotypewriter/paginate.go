/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"gotypewriter/internal/export"
	applog "gotypewriter/internal/log"
	"gotypewriter/internal/script"
	"gotypewriter/internal/typewriter"
)

var (
	paginateOut     string
	paginatePreset  string
	paginateFormats []string
	paginateGuides  bool
	paginateQuiet   bool
)

var paginateCmd = &cobra.Command{
	Use:   "paginate [script]",
	Short: "Split a script into bubble pages without typing",
	Long: `Run the typewriter headlessly over every turn and print the pages it
would show. With --out the pages are also exported as PNG and/or PDF.

Examples:
  gotypewriter paginate intro.txt
  gotypewriter paginate --out build --preset all scene.yaml
  gotypewriter paginate --out build --format pdf --text 'A long line...'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPaginate,
}

func init() {
	paginateCmd.Flags().StringVarP(&paginateOut, "out", "o", "", "Export directory (no export when empty)")
	paginateCmd.Flags().StringVar(&paginatePreset, "preset", "", "Export preset: preview, print or all")
	paginateCmd.Flags().StringSliceVar(&paginateFormats, "format", nil, "Export formats (png, pdf); overrides the preset")
	paginateCmd.Flags().BoolVar(&paginateGuides, "guides", false, "Draw the page-break guide (overrides the preset)")
	paginateCmd.Flags().BoolVarP(&paginateQuiet, "quiet", "q", false, "Do not print pages")
	rootCmd.AddCommand(paginateCmd)
}

// turnPages is one turn and the pages it splits into.
type turnPages struct {
	Turn  script.Turn
	Pages []typewriter.Page
}

func paginateScript(sc script.Script, m typewriter.Measurer, w, h float64, limits typewriter.Thresholds) ([]turnPages, error) {
	out := make([]turnPages, 0, len(sc.Turns))
	for i, turn := range sc.Turns {
		pages, err := typewriter.Paginate(turn.Text, m, w, h, limits)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", i+1, err)
		}
		out = append(out, turnPages{Turn: turn, Pages: pages})
	}
	return out, nil
}

func printPages(w io.Writer, turns []turnPages) {
	for i, tp := range turns {
		for _, pg := range tp.Pages {
			head := fmt.Sprintf("turn %d, page %d/%d", i+1, pg.Number, len(tp.Pages))
			if label := tp.Turn.Label(); label != "" {
				head = label + " - " + head
			}
			fmt.Fprintf(w, "== %s ==\n%s\n", head, strings.TrimRight(pg.Text, "\n"))
		}
	}
}

func runPaginate(cmd *cobra.Command, args []string) error {
	l := applog.WithComponent("paginate")
	sc, src, err := loadScript(args)
	if err != nil {
		return err
	}
	m, err := cfg.Measurer()
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}
	w, h, err := cfg.BubbleSize()
	if err != nil {
		return err
	}
	turns, err := paginateScript(sc, m, w, h, cfg.Bubble.Thresholds)
	if err != nil {
		return err
	}
	if !paginateQuiet {
		printPages(cmd.OutOrStdout(), turns)
	}
	if paginateOut == "" {
		return nil
	}

	preset, err := export.ParsePreset(paginatePreset)
	if err != nil {
		return err
	}
	provider, err := cfg.Provider()
	if err != nil {
		return err
	}
	batch := export.BatchOptions{Preset: preset, Formats: paginateFormats, OutDir: paginateOut}
	if cmd.Flags().Changed("guides") {
		batch.IncludeGuides = &paginateGuides
	}
	name := scriptName(src)
	files := 0
	for i, tp := range turns {
		base := fmt.Sprintf("%s-%02d", name, i+1)
		opt := export.Options{
			Width:      w,
			Height:     h,
			Provider:   provider,
			Style:      cfg.TextStyle(),
			Thresholds: cfg.Bubble.Thresholds,
			Title:      sc.Title,
			Prefix:     base,
		}
		batch.Name = base
		res, err := export.Batch(tp.Pages, opt, batch)
		if err != nil {
			return fmt.Errorf("export turn %d: %w", i+1, err)
		}
		files += len(res.PNG)
		if res.PDF != "" {
			files++
		}
	}
	l.Info("exported", slog.String("dir", paginateOut), slog.String("preset", string(preset)), slog.Int("files", files))
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d files to %s\n", files, paginateOut)
	return nil
}
