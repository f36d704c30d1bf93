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

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"gotypewriter/internal/crash"
	applog "gotypewriter/internal/log"
	"gotypewriter/internal/responsive"
	"gotypewriter/internal/typewriter"
	"gotypewriter/internal/version"
)

// fyneSurface is the dialogue panel: speaker, text and a continue button.
// Engine calls arrive on timer goroutines and are handed to fyne.Do.
type fyneSurface struct {
	mu      sync.Mutex
	width   float64
	height  float64
	speaker *widget.Label
	text    *widget.Label
	next    *widget.Button
}

func (s *fyneSurface) SetText(text string) {
	fyne.Do(func() { s.text.SetText(text) })
}

func (s *fyneSurface) SetLabel(label string) {
	fyne.Do(func() { s.speaker.SetText(label) })
}

func (s *fyneSurface) BoundWidth() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

func (s *fyneSurface) BoundHeight() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// newFyneSurface builds the panel widgets. Taps on the button are sent to
// presses without blocking.
func newFyneSurface(width, height float64, presses chan<- struct{}) *fyneSurface {
	s := &fyneSurface{
		width:   width,
		height:  height,
		speaker: widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		text:    widget.NewLabel(""),
	}
	s.text.Wrapping = fyne.TextWrapWord
	s.next = widget.NewButton("Continue", func() {
		select {
		case presses <- struct{}{}:
		default:
		}
	})
	s.next.Hide()
	return s
}

// SetAdvanceVisible shows the button only while a page is complete.
func (s *fyneSurface) SetAdvanceVisible(visible bool) {
	fyne.Do(func() {
		if visible {
			s.next.SetText("Continue")
			s.next.Show()
		} else {
			s.next.Hide()
		}
	})
}

// showNext offers the next turn once the last page of a message is shown.
func (s *fyneSurface) showNext() {
	fyne.Do(func() {
		s.next.SetText("Next")
		s.next.Show()
	})
}

func place(o fyne.CanvasObject, r responsive.Rect) {
	o.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
	o.Resize(fyne.NewSize(float32(r.W), float32(r.H)))
}

// Run opens a window sized to the configured screen and plays the script in
// its dialogue panel.
func Run(opts RunOptions) error {
	l := applog.WithComponent("ui")
	cfg := opts.Config
	layout, err := cfg.Layout()
	if err != nil {
		return fmt.Errorf("ui layout: %w", err)
	}
	m, err := cfg.Measurer()
	if err != nil {
		return fmt.Errorf("ui font: %w", err)
	}
	bw, bh, err := cfg.BubbleSize()
	if err != nil {
		return err
	}

	fyneApp := app.NewWithID("gotypewriter")
	title := "Go Typewriter"
	if opts.Script.Title != "" {
		title = opts.Script.Title + " - " + title
	}
	w := fyneApp.NewWindow(title)
	w.SetFixedSize(true)
	w.Resize(fyne.NewSize(float32(layout.Screen.Width), float32(layout.Screen.Height)))

	presses := make(chan struct{}, 1)
	surf := newFyneSurface(bw, bh, presses)

	panel := canvas.NewRectangle(color.NRGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xe0})
	portrait := canvas.NewRectangle(color.NRGBA{R: 0x50, G: 0x50, B: 0x60, A: 0xff})
	place(panel, layout.Panel)
	place(portrait, layout.Portrait)
	place(surf.text, layout.Text)
	place(surf.next, layout.Button)
	place(surf.speaker, responsive.R(layout.Text.X, layout.Panel.Y, layout.Text.W, layout.Text.Y-layout.Panel.Y))
	w.SetContent(container.NewWithoutLayout(panel, portrait, surf.speaker, surf.text, surf.next))

	player := NewPlayer(m, surf, PlayerOptions{
		TypingSpeed: cfg.TypingSpeed(),
		Thresholds:  cfg.Bubble.Thresholds,
		Presses:     presses,
		Recorder:    opts.Recorder,
		Session:     opts.Session,
		Logger:      l,
		OnPage: func(pg typewriter.Page) {
			if pg.Last {
				surf.showNext()
			}
		},
	})
	rc := &crash.Context{Session: opts.Session, Script: opts.Script.Title, Snapshot: func() string { return player.Engine().State().Displayed }}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.SetOnClosed(cancel)
	go func() {
		defer crash.Recover(rc)
		defer player.Close()
		n, err := player.Play(ctx, opts.Script.Turns)
		if err != nil && ctx.Err() == nil {
			l.Error("playback failed", slog.Any("err", err))
		}
		l.Info("playback stopped", slog.Int("pages", n))
		fyne.Do(func() {
			surf.next.SetText("Close")
			surf.next.OnTapped = w.Close
			surf.next.Show()
		})
	}()

	l.Info("starting UI", slog.String("version", version.String()), slog.Float64("bubble_w", bw), slog.Float64("bubble_h", bh))
	w.ShowAndRun()
	return nil
}
