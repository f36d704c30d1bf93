/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	ansiClear = "\x1b[2J\x1b[H"
	// AdvancePrompt is printed when a page is complete.
	AdvancePrompt = " [Enter]"
)

// TerminalSurface types into a terminal or any other writer. Text that
// extends what is shown is written incrementally; anything else starts a
// fresh bubble, cleared with ANSI codes only when the writer is a terminal.
type TerminalSurface struct {
	mu      sync.Mutex
	w       io.Writer
	width   float64
	height  float64
	ansi    bool
	label   string
	shown   string
	prompt  bool
	started bool
}

// NewTerminalSurface measures against a width x height bubble in the
// measurer's units.
func NewTerminalSurface(w io.Writer, width, height float64) *TerminalSurface {
	return &TerminalSurface{w: w, width: width, height: height, ansi: isTerminal(w)}
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetLabel sets the speaker heading printed above every fresh bubble.
func (s *TerminalSurface) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}

func (s *TerminalSurface) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started && text != "" && strings.HasPrefix(text, s.shown) && !s.prompt {
		s.write(text[len(s.shown):])
		s.shown = text
		return
	}
	s.fresh()
	s.write(text)
	s.shown = text
}

// fresh starts a new bubble.
func (s *TerminalSurface) fresh() {
	switch {
	case s.ansi:
		s.write(ansiClear)
	case s.started:
		s.write("\n\n")
	}
	s.started = true
	s.prompt = false
	if s.label != "" {
		s.write(s.label + ":\n")
	}
}

func (s *TerminalSurface) BoundWidth() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

func (s *TerminalSurface) BoundHeight() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// SetAdvanceVisible prints the prompt. Hiding it is implicit: the next page
// starts a fresh bubble.
func (s *TerminalSurface) SetAdvanceVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if visible && !s.prompt {
		s.write(AdvancePrompt)
		s.prompt = true
	}
}

// Shown returns the bubble text last set.
func (s *TerminalSurface) Shown() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown
}

func (s *TerminalSurface) write(str string) {
	if str == "" {
		return
	}
	_, _ = io.WriteString(s.w, str)
}
