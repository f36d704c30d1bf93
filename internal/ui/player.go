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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	applog "gotypewriter/internal/log"
	"gotypewriter/internal/script"
	"gotypewriter/internal/transcript"
	"gotypewriter/internal/typewriter"
)

// Recorder stores shown pages; *transcript.Store implements it.
type Recorder interface {
	Record(ctx context.Context, e transcript.Entry) error
}

// LabeledSurface is a Surface that can show the speaker of the current turn.
type LabeledSurface interface {
	typewriter.Surface
	SetLabel(label string)
}

// PlayerOptions configures a Player. Zero values select defaults.
type PlayerOptions struct {
	TypingSpeed time.Duration
	Thresholds  typewriter.Thresholds
	Scheduler   typewriter.Scheduler
	// Input delivers one advance per line. Nil or exhausted input advances
	// automatically after AutoDelay. Lines piped from a file or another
	// process are queued; on a terminal, lines entered while a page is still
	// typing are discarded.
	Input io.Reader
	// Presses replaces Input for event-driven front ends. Presses made while
	// a page is still typing are discarded.
	Presses   <-chan struct{}
	AutoDelay time.Duration
	Recorder  Recorder
	Session   string
	Logger    *slog.Logger
	// OnPage is called after each page is shown and recorded, before the
	// player waits for the next press.
	OnPage func(typewriter.Page)
}

// Player plays script turns through a typewriter engine.
type Player struct {
	engine  *typewriter.Engine
	surface LabeledSurface
	pages   chan typewriter.Page
	lines   <-chan struct{}
	// queued keeps presses made during typing; only piped input does.
	queued  bool
	pending bool
	done    chan struct{}
	closeMu sync.Once
	opts    PlayerOptions
	log     *slog.Logger
}

// NewPlayer builds the engine for surface. The input reader, when set, is
// consumed by a background goroutine until Close.
func NewPlayer(m typewriter.Measurer, surface LabeledSurface, opts PlayerOptions) *Player {
	if opts.Logger == nil {
		opts.Logger = applog.WithComponent("player")
	}
	p := &Player{
		surface: surface,
		pages:   make(chan typewriter.Page, 4),
		done:    make(chan struct{}),
		opts:    opts,
		log:     opts.Logger,
	}
	switch {
	case opts.Presses != nil:
		p.lines = opts.Presses
	case opts.Input != nil:
		p.lines = readLines(opts.Input, p.done)
		p.queued = !isTerminal(opts.Input)
	}
	p.engine = typewriter.New(m, surface, typewriter.Options{
		TypingSpeed: opts.TypingSpeed,
		Thresholds:  opts.Thresholds,
		Scheduler:   opts.Scheduler,
		Logger:      opts.Logger,
		OnPage:      func(pg typewriter.Page) { p.pages <- pg },
	})
	return p
}

func readLines(r io.Reader, done <-chan struct{}) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- struct{}{}:
			case <-done:
				return
			}
		}
	}()
	return ch
}

// Close stops the input reader. A reader blocked in Read returns once its
// next line arrives.
func (p *Player) Close() {
	p.closeMu.Do(func() { close(p.done) })
}

// Engine exposes the underlying engine, mainly for state snapshots.
func (p *Player) Engine() *typewriter.Engine { return p.engine }

// Play shows every turn in order and returns the number of pages shown.
// It stops early with ctx's error.
func (p *Player) Play(ctx context.Context, turns []script.Turn) (int, error) {
	defer p.engine.Close()
	l := applog.WithOperation(p.log, "play")
	shown := 0
	for i, turn := range turns {
		p.surface.SetLabel(turn.Label())
		p.engine.Begin(turn.Text)
		lastRemaining := -1
		for {
			pg, err := p.nextPage(ctx, l)
			if err != nil {
				return shown, err
			}
			shown++
			p.record(ctx, l, i, turn, pg)
			if p.opts.OnPage != nil {
				p.opts.OnPage(pg)
			}
			if err := p.wait(ctx); err != nil {
				return shown, err
			}
			if pg.Last {
				break
			}
			n := len(p.engine.State().Remaining)
			if lastRemaining >= 0 && n >= lastRemaining {
				return shown, fmt.Errorf("turn %d: %w", i+1, typewriter.ErrNoProgress)
			}
			lastRemaining = n
			if !p.engine.Advance() {
				return shown, errors.New("ui: engine refused to advance past a complete page")
			}
		}
	}
	l.Info("script finished", slog.Int("turns", len(turns)), slog.Int("pages", shown))
	return shown, nil
}

// nextPage waits for the engine to complete a page. Unless input is queued,
// presses arriving meanwhile are dropped while the page is still typing.
func (p *Player) nextPage(ctx context.Context, l *slog.Logger) (typewriter.Page, error) {
	for {
		presses := p.lines
		if p.queued {
			presses = nil
		}
		select {
		case <-ctx.Done():
			return typewriter.Page{}, ctx.Err()
		case pg := <-p.pages:
			return pg, nil
		case _, ok := <-presses:
			switch {
			case !ok:
				p.lines = nil
			case p.engine.Phase() == typewriter.Revealing:
				l.Debug("press ignored while typing")
			default:
				// the page completed but has not been delivered yet
				p.pending = true
			}
		}
	}
}

func (p *Player) record(ctx context.Context, l *slog.Logger, idx int, turn script.Turn, pg typewriter.Page) {
	if p.opts.Recorder == nil || p.opts.Session == "" {
		return
	}
	err := p.opts.Recorder.Record(ctx, transcript.Entry{
		Session:  p.opts.Session,
		Turn:     idx,
		Speaker:  turn.Speaker,
		Page:     pg.Number,
		Text:     pg.Text,
		Ellipsis: pg.Ellipsis,
		Last:     pg.Last,
	})
	if err != nil {
		// playback continues without a transcript entry
		l.Warn("transcript record failed", slog.Int("turn", idx), slog.Any("err", err))
	}
}

// wait blocks until the reader asks for the next page.
func (p *Player) wait(ctx context.Context) error {
	if p.pending {
		p.pending = false
		return nil
	}
	if p.lines != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-p.lines:
			if ok {
				return nil
			}
			p.lines = nil
		}
	}
	if p.opts.AutoDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.opts.AutoDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
