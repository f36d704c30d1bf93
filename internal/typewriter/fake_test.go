/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package typewriter

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// fakeMeasurer gives every rune the same width and every explicit line the
// same height. height, when set, overrides the block height.
type fakeMeasurer struct {
	runeWidth  float64
	lineHeight float64
	height     func(text string) float64

	mu       sync.Mutex
	acquires int
	releases int
}

func (f *fakeMeasurer) MeasureLineWidth(text string) float64 {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		if n := utf8.RuneCountInString(line); n > widest {
			widest = n
		}
	}
	return float64(widest) * f.runeWidth
}

func (f *fakeMeasurer) MeasureBlockHeight(text string, _ float64) float64 {
	if f.height != nil {
		return f.height(text)
	}
	if text == "" {
		return 0
	}
	return float64(strings.Count(text, "\n")+1) * f.lineHeight
}

func (f *fakeMeasurer) Acquire() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acquires++
	return nil
}

func (f *fakeMeasurer) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
}

func (f *fakeMeasurer) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acquires, f.releases
}
