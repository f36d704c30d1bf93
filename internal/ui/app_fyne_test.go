//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests exercise the Fyne dialogue panel. They are gated behind the
// "fyne" build tag so headless CI does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestFyneSurfaceTogglesAdvanceButton(t *testing.T) {
	test.NewTempApp(t)
	presses := make(chan struct{}, 1)
	s := newFyneSurface(300, 60, presses)

	if s.next.Visible() {
		t.Fatalf("button visible before any page completed")
	}
	s.SetAdvanceVisible(true)
	if !s.next.Visible() || s.next.Text != "Continue" {
		t.Fatalf("after page break: visible=%v text=%q", s.next.Visible(), s.next.Text)
	}
	s.SetAdvanceVisible(false)
	if s.next.Visible() {
		t.Fatalf("button still visible while typing")
	}
	s.showNext()
	if !s.next.Visible() || s.next.Text != "Next" {
		t.Fatalf("after last page: visible=%v text=%q", s.next.Visible(), s.next.Text)
	}
}

func TestFyneSurfaceTapSendsOnePress(t *testing.T) {
	test.NewTempApp(t)
	presses := make(chan struct{}, 1)
	s := newFyneSurface(300, 60, presses)
	s.SetAdvanceVisible(true)

	test.Tap(s.next)
	test.Tap(s.next)
	if len(presses) != 1 {
		t.Fatalf("queued presses = %d, want 1", len(presses))
	}
}

func TestFyneSurfaceText(t *testing.T) {
	test.NewTempApp(t)
	s := newFyneSurface(300, 60, make(chan struct{}, 1))
	s.SetLabel("ALICE")
	s.SetText("Hello")
	if s.speaker.Text != "ALICE" || s.text.Text != "Hello" {
		t.Fatalf("labels = %q / %q", s.speaker.Text, s.text.Text)
	}
	if s.BoundWidth() != 300 || s.BoundHeight() != 60 {
		t.Fatalf("bounds = %vx%v", s.BoundWidth(), s.BoundHeight())
	}
}
