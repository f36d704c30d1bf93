/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package typewriter reveals dialogue text one rune at a time inside a
// bounded bubble. Lines wrap at word boundaries and text that would overflow
// the bubble is split into pages the reader advances explicitly.
//
// The engine is a small state machine (Idle, Revealing, PageComplete) driven
// by a Scheduler. Every scheduled step carries the generation it was created
// in; Begin bumps the generation, so a step that fires after a restart is a
// no-op even if its timer could not be stopped in time.
package typewriter

import (
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	applog "gotypewriter/internal/log"
)

const (
	DefaultTypingSpeed = 50 * time.Millisecond

	// ContinuationMarker prefixes the text resumed after a page break.
	ContinuationMarker = "... "
	// Ellipsis is appended to a page that stops mid-line.
	Ellipsis = "..."

	escapedNewline = `\n`
)

// Phase is the engine state.
type Phase int

const (
	Idle Phase = iota
	Revealing
	PageComplete
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Revealing:
		return "Revealing"
	case PageComplete:
		return "PageComplete"
	default:
		return "Unknown"
	}
}

// Page is reported whenever revealing stops: on overflow, or when the
// message runs out (Last).
type Page struct {
	Number int
	// Text is exactly what the surface shows, inserted breaks and ellipsis included.
	Text string
	// Source is the part of the page source revealed on this page, without
	// inserted breaks or ellipsis. For pages after the first it starts with
	// ContinuationMarker.
	Source   string
	Ellipsis bool
	Last     bool
}

// RevealState is a snapshot of the engine's typing state.
type RevealState struct {
	FullText     string
	Remaining    string
	Displayed    string
	CurrentLine  string
	Typing       bool
	PageComplete bool
	Page         int
	// Breaks holds the byte offsets in Displayed of every line break the
	// engine inserted (as opposed to breaks present in the message).
	Breaks []int
}

// Revealed returns Displayed with the inserted line breaks removed.
func (s RevealState) Revealed() string {
	if len(s.Breaks) == 0 {
		return s.Displayed
	}
	var b strings.Builder
	b.Grow(len(s.Displayed))
	prev := 0
	for _, off := range s.Breaks {
		b.WriteString(s.Displayed[prev:off])
		prev = off + 1
	}
	b.WriteString(s.Displayed[prev:])
	return b.String()
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	TypingSpeed time.Duration
	Thresholds  Thresholds
	Scheduler   Scheduler
	Logger      *slog.Logger
	// OnPage is called outside the engine lock and may call Advance or Begin.
	OnPage func(Page)
}

// Engine types one message at a time into a Surface.
//
// Surface and Measurer calls happen with the engine lock held; they must not
// call back into the engine synchronously. Advance events raised through
// AdvanceNotifier are expected to come from the UI's own event loop.
type Engine struct {
	mu       sync.Mutex
	measurer Measurer
	surface  Surface
	speed    time.Duration
	limits   Thresholds
	sched    Scheduler
	log      *slog.Logger
	onPage   func(Page)

	gen            uint64
	cancel         func()
	phase          Phase
	st             RevealState
	shown          string
	advanceVisible bool
	acquired       bool
}

// New wires an engine to its measurer and surface. Either may be nil, in
// which case overflow checks fail open and text is revealed unbroken.
func New(m Measurer, s Surface, opts Options) *Engine {
	if opts.TypingSpeed <= 0 {
		opts.TypingSpeed = DefaultTypingSpeed
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler()
	}
	if opts.Logger == nil {
		opts.Logger = applog.WithComponent("typewriter")
	}
	e := &Engine{
		measurer: m,
		surface:  s,
		speed:    opts.TypingSpeed,
		limits:   opts.Thresholds,
		sched:    opts.Scheduler,
		log:      opts.Logger,
		onPage:   opts.OnPage,
	}
	if n, ok := s.(AdvanceNotifier); ok {
		n.OnAdvance(func() { e.Advance() })
	}
	return e
}

// Begin replaces the active message and starts revealing it from the first
// rune. It is a hard reset: any step in flight for a previous message is
// invalidated.
func (e *Engine) Begin(fullText string) {
	full := strings.ReplaceAll(fullText, escapedNewline, "\n")

	e.mu.Lock()
	e.stopLocked()
	e.st = RevealState{FullText: full, Remaining: full}
	e.advanceVisible = false
	if e.surface != nil {
		e.surface.SetAdvanceVisible(false)
	}
	e.show("")
	e.log.Debug("begin", slog.Int("runes", utf8.RuneCountInString(full)))
	p := e.startPageLocked()
	e.mu.Unlock()

	e.emit(p)
}

// Advance moves to the next page. It only acts while a page is complete and
// the advance affordance is showing, and reports whether it did.
func (e *Engine) Advance() bool {
	e.mu.Lock()
	if e.phase != PageComplete || !e.advanceVisible {
		e.mu.Unlock()
		return false
	}
	e.stopLocked()
	e.st.Remaining = ContinuationMarker + e.st.Remaining
	e.show("")
	e.advanceVisible = false
	if e.surface != nil {
		e.surface.SetAdvanceVisible(false)
	}
	p := e.startPageLocked()
	e.mu.Unlock()

	e.emit(p)
	return true
}

// Close stops revealing, hides the advance affordance and releases
// measurement resources. The engine can be reused with Begin afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	e.st.Typing = false
	e.phase = Idle
	if e.advanceVisible {
		e.advanceVisible = false
		if e.surface != nil {
			e.surface.SetAdvanceVisible(false)
		}
	}
	e.syncMeasurerLocked()
}

// State returns a snapshot of the reveal state.
func (e *Engine) State() RevealState {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.st
	s.Breaks = append([]int(nil), e.st.Breaks...)
	return s
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Done reports whether the whole message has been shown.
func (e *Engine) Done() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase == PageComplete && !e.advanceVisible && e.st.Remaining == ""
}

func (e *Engine) stopLocked() {
	e.gen++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) startPageLocked() *Page {
	e.st.Displayed = ""
	e.st.CurrentLine = ""
	e.st.Breaks = nil
	e.st.Typing = true
	e.st.PageComplete = false
	e.st.Page++
	e.phase = Revealing
	return e.stepLocked(e.gen)
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	p := e.stepLocked(gen)
	e.mu.Unlock()
	e.emit(p)
}

// stepLocked reveals one rune and either schedules the next step or stops
// the page. It returns the page when revealing stopped.
func (e *Engine) stepLocked(gen uint64) *Page {
	if gen != e.gen || e.phase != Revealing {
		return nil
	}
	e.cancel = nil
	e.syncMeasurerLocked()

	if e.st.Remaining == "" {
		return e.completeLocked(false)
	}

	_, size := utf8.DecodeRuneInString(e.st.Remaining)
	ch := e.st.Remaining[:size]
	e.st.Remaining = e.st.Remaining[size:]
	e.st.Displayed += ch
	e.st.CurrentLine += ch

	// Wrap only at a space, measuring the line without it.
	if ch == " " && e.widthOverflowsLocked(strings.TrimSuffix(e.st.CurrentLine, " ")) {
		e.st.Breaks = append(e.st.Breaks, len(e.st.Displayed))
		e.st.Displayed += "\n"
	}
	e.show(e.st.Displayed)

	if !e.advanceVisible && e.pageOverflowsLocked(e.st.CurrentLine, e.shown) {
		ellipsis := false
		if !strings.HasSuffix(e.shown, "\n") {
			e.show(e.shown + Ellipsis)
			ellipsis = true
		}
		e.advanceVisible = true
		if e.surface != nil {
			e.surface.SetAdvanceVisible(true)
		}
		return e.completeLocked(ellipsis)
	}
	if strings.HasSuffix(e.shown, "\n") {
		e.st.CurrentLine = ""
	}

	g := e.gen
	e.cancel = e.sched.Schedule(e.speed, func() { e.tick(g) })
	return nil
}

func (e *Engine) completeLocked(ellipsis bool) *Page {
	e.st.Typing = false
	e.st.PageComplete = true
	e.phase = PageComplete
	e.syncMeasurerLocked()
	p := &Page{
		Number:   e.st.Page,
		Text:     e.shown,
		Source:   e.st.Revealed(),
		Ellipsis: ellipsis,
		Last:     !e.advanceVisible,
	}
	e.log.Debug("page complete",
		slog.Int("page", p.Number),
		slog.Bool("last", p.Last),
		slog.Int("remaining", utf8.RuneCountInString(e.st.Remaining)))
	return p
}

// widthOverflowsLocked reports whether line is at least as wide as the
// bubble's width limit. Without a measurer or surface there is nothing to
// measure against and the check fails open.
func (e *Engine) widthOverflowsLocked(line string) bool {
	if e.measurer == nil || e.surface == nil {
		return false
	}
	return e.measurer.MeasureLineWidth(line) >= e.limits.WidthLimit(e.surface.BoundWidth())
}

// pageOverflowsLocked is the end-of-line check: the line must end at a word
// boundary, be width-overflowing or end in a line break, and the whole block
// must reach the bubble's height limit.
func (e *Engine) pageOverflowsLocked(line, block string) bool {
	lineBreak := strings.HasSuffix(line, "\n")
	if !lineBreak && !strings.HasSuffix(line, " ") {
		return false
	}
	if e.measurer == nil || e.surface == nil {
		return false
	}
	bw, bh := e.surface.BoundWidth(), e.surface.BoundHeight()
	if e.measurer.MeasureBlockHeight(block, bw) < e.limits.HeightLimit(bw, bh) {
		return false
	}
	return lineBreak || e.widthOverflowsLocked(line)
}

// syncMeasurerLocked acquires measurement resources while typing and
// releases them otherwise. Safe to call on every step.
func (e *Engine) syncMeasurerLocked() {
	a, ok := e.measurer.(Acquirer)
	if !ok {
		return
	}
	switch {
	case e.st.Typing && !e.acquired:
		if err := a.Acquire(); err != nil {
			e.log.Debug("measurer acquire failed", slog.Any("err", err))
			return
		}
		e.acquired = true
	case !e.st.Typing && e.acquired:
		a.Release()
		e.acquired = false
	}
}

func (e *Engine) show(text string) {
	e.shown = text
	if e.surface != nil {
		e.surface.SetText(text)
	}
}

func (e *Engine) emit(p *Page) {
	if p == nil || e.onPage == nil {
		return
	}
	e.onPage(*p)
}
