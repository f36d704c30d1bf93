/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package typewriter

import (
	"errors"
	"strings"
	"testing"
)

func TestPaginateReconstructsMessage(t *testing.T) {
	pages, err := Paginate(twelveWords, &fakeMeasurer{runeWidth: 100, lineHeight: 100}, 1300, 400, DefaultThresholds())
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d: %+v", len(pages), pages)
	}
	var b strings.Builder
	for i, p := range pages {
		if p.Number != i+1 {
			t.Fatalf("page %d numbered %d", i, p.Number)
		}
		if i > 0 {
			if !strings.HasPrefix(p.Source, ContinuationMarker) {
				t.Fatalf("page %d missing continuation marker: %q", p.Number, p.Source)
			}
			b.WriteString(strings.TrimPrefix(p.Source, ContinuationMarker))
			continue
		}
		b.WriteString(p.Source)
	}
	if b.String() != twelveWords {
		t.Fatalf("reconstructed %q", b.String())
	}
	if !pages[1].Last || pages[0].Last {
		t.Fatalf("only the final page is last")
	}
}

func TestPaginateSinglePageWithoutMeasurer(t *testing.T) {
	pages, err := Paginate("one two three", nil, 10, 10, Thresholds{})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(pages) != 1 || pages[0].Text != "one two three" || !pages[0].Last {
		t.Fatalf("pages = %+v", pages)
	}
}

func TestPaginateStopsWhenNothingFits(t *testing.T) {
	m := &fakeMeasurer{runeWidth: 100, height: func(string) float64 { return 1000 }}
	pages, err := Paginate("aaa bbb ccc", m, 100, 100, DefaultThresholds())
	if !errors.Is(err, ErrNoProgress) {
		t.Fatalf("expected ErrNoProgress, got %v", err)
	}
	if len(pages) != 2 || pages[0].Source != "aaa " {
		t.Fatalf("pages = %+v", pages)
	}
}
