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

	applog "gotypewriter/internal/log"
)

// ErrNoProgress is returned by Paginate when a page reveals nothing beyond
// the continuation marker, which happens when the bubble cannot hold even
// the first word.
var ErrNoProgress = errors.New("typewriter: bubble too small to make progress")

// Paginate reveals text into a width x height bubble without waiting
// between runes and returns every page exactly as a reader would see it,
// advancing automatically.
func Paginate(text string, m Measurer, width, height float64, limits Thresholds) ([]Page, error) {
	sched := &ManualScheduler{}
	surf := NewMemorySurface(width, height)
	var pages []Page
	e := New(m, surf, Options{
		Scheduler:  sched,
		Thresholds: limits,
		Logger:     applog.WithComponent("paginate"),
		OnPage:     func(p Page) { pages = append(pages, p) },
	})
	defer e.Close()

	e.Begin(text)
	lastRemaining := -1
	for {
		if e.Phase() == PageComplete {
			if e.Done() {
				return pages, nil
			}
			n := len(e.State().Remaining)
			if lastRemaining >= 0 && n >= lastRemaining {
				return pages, ErrNoProgress
			}
			lastRemaining = n
			e.Advance()
			continue
		}
		if !sched.RunNext() {
			return pages, nil
		}
	}
}
