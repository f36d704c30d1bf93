/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package typewriter

import "sync"

// MemorySurface is a Surface that keeps everything it is told. It backs
// headless pagination and tests.
type MemorySurface struct {
	mu        sync.Mutex
	width     float64
	height    float64
	texts     []string
	visible   bool
	toggles   []bool
	onAdvance func()
}

func NewMemorySurface(width, height float64) *MemorySurface {
	return &MemorySurface{width: width, height: height}
}

func (s *MemorySurface) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
}

func (s *MemorySurface) BoundWidth() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

func (s *MemorySurface) BoundHeight() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// Resize changes the bounds; the next measurement picks them up.
func (s *MemorySurface) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

func (s *MemorySurface) SetAdvanceVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = visible
	s.toggles = append(s.toggles, visible)
}

func (s *MemorySurface) OnAdvance(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAdvance = fn
}

// PressAdvance simulates the reader pressing the continue affordance.
func (s *MemorySurface) PressAdvance() {
	s.mu.Lock()
	fn := s.onAdvance
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Text returns the text currently shown.
func (s *MemorySurface) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.texts) == 0 {
		return ""
	}
	return s.texts[len(s.texts)-1]
}

// Texts returns every SetText argument in call order.
func (s *MemorySurface) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func (s *MemorySurface) AdvanceVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Toggles returns every SetAdvanceVisible argument in call order.
func (s *MemorySurface) Toggles() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bool(nil), s.toggles...)
}
