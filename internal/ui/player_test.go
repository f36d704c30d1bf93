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
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	applog "gotypewriter/internal/log"
	"gotypewriter/internal/script"
	"gotypewriter/internal/textlayout"
	"gotypewriter/internal/transcript"
	"gotypewriter/internal/typewriter"
)

type memRecorder struct {
	mu      sync.Mutex
	entries []transcript.Entry
	onEntry func()
}

func (r *memRecorder) Record(_ context.Context, e transcript.Entry) error {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	fn := r.onEntry
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

func basicMeasurer() *textlayout.Measurer {
	return textlayout.NewMeasurer(textlayout.BasicProvider{}, textlayout.TextStyle{})
}

func TestPlayerPlaysTurnsInOrder(t *testing.T) {
	var out bytes.Buffer
	surf := NewTerminalSurface(&out, 2000, 1000)
	rec := &memRecorder{}
	p := NewPlayer(basicMeasurer(), surf, PlayerOptions{
		TypingSpeed: time.Millisecond,
		Input:       strings.NewReader("\n\n"),
		Recorder:    rec,
		Session:     "s1",
		Logger:      applog.Discard(),
	})
	turns := []script.Turn{
		{Kind: script.Dialogue, Speaker: "ALICE", Text: "Hello there"},
		{Kind: script.Narration, Text: "The door creaks."},
	}
	n, err := p.Play(context.Background(), turns)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if n != 2 || len(rec.entries) != 2 {
		t.Fatalf("pages = %d, entries = %d", n, len(rec.entries))
	}
	if e := rec.entries[0]; e.Speaker != "ALICE" || e.Turn != 0 || e.Text != "Hello there" || !e.Last {
		t.Fatalf("entry 0 = %#v", e)
	}
	if e := rec.entries[1]; e.Turn != 1 || e.Text != "The door creaks." {
		t.Fatalf("entry 1 = %#v", e)
	}
	got := out.String()
	if !strings.HasPrefix(got, "ALICE:\nHello there") || !strings.HasSuffix(got, "\n\nThe door creaks.") {
		t.Fatalf("output = %q", got)
	}
}

func TestPlayerPaginatesIntoTranscript(t *testing.T) {
	st, err := transcript.Open(filepath.Join(t.TempDir(), "t.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	surf := NewTerminalSurface(io.Discard, 200, 26)
	p := NewPlayer(basicMeasurer(), surf, PlayerOptions{
		TypingSpeed: time.Millisecond,
		AutoDelay:   time.Millisecond,
		Recorder:    st,
		Session:     "long",
		Logger:      applog.Discard(),
	})
	text := strings.Repeat("the quick brown fox jumps over a lazy dog ", 4)
	if _, err := p.Play(context.Background(), []script.Turn{{Kind: script.Narration, Text: text}}); err != nil {
		t.Fatalf("Play: %v", err)
	}
	entries, err := st.List(context.Background(), "long", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected several pages, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Page != i+1 {
			t.Fatalf("entry %d has page %d", i, e.Page)
		}
		if last := i == len(entries)-1; e.Last != last {
			t.Fatalf("entry %d Last = %v", i, e.Last)
		}
	}
	if !strings.HasPrefix(entries[1].Text, "... ") {
		t.Fatalf("continuation page = %q", entries[1].Text)
	}
}

func TestPlayerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pr, pw := io.Pipe()
	defer pw.Close()
	rec := &memRecorder{onEntry: cancel}
	p := NewPlayer(basicMeasurer(), NewTerminalSurface(io.Discard, 2000, 1000), PlayerOptions{
		TypingSpeed: time.Millisecond,
		Input:       pr,
		Recorder:    rec,
		Session:     "c",
		Logger:      applog.Discard(),
	})
	turns := []script.Turn{{Text: "one"}, {Text: "two"}}
	n, err := p.Play(ctx, turns)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if n != 1 {
		t.Fatalf("pages = %d, want 1", n)
	}
}

func TestPlayerWithoutRecorder(t *testing.T) {
	presses := make(chan struct{}, 1)
	presses <- struct{}{}
	p := NewPlayer(basicMeasurer(), NewTerminalSurface(io.Discard, 2000, 1000), PlayerOptions{
		TypingSpeed: time.Millisecond,
		Presses:     presses,
		Logger:      applog.Discard(),
	})
	if n, err := p.Play(context.Background(), []script.Turn{{Text: ""}}); err != nil || n != 1 {
		t.Fatalf("Play = %d, %v", n, err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPlayerIgnoresPressWhileTyping(t *testing.T) {
	presses := make(chan struct{}, 1)
	p := NewPlayer(basicMeasurer(), NewTerminalSurface(io.Discard, 100, 30), PlayerOptions{
		TypingSpeed: 2 * time.Millisecond,
		Presses:     presses,
		Logger:      applog.Discard(),
	})
	defer p.Close()
	// pressed before the first page has finished typing
	presses <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Play(ctx, []script.Turn{{Text: strings.Repeat("alpha beta gamma delta ", 6)}})
		done <- err
	}()

	e := p.Engine()
	waitFor(t, "first page", func() bool { return e.Phase() == typewriter.PageComplete })
	if len(presses) != 0 {
		t.Fatalf("early press was not consumed")
	}
	time.Sleep(50 * time.Millisecond)
	if st := e.State(); st.Page != 1 || !st.PageComplete {
		t.Fatalf("early press advanced the page: page=%d complete=%v", st.Page, st.PageComplete)
	}

	presses <- struct{}{}
	waitFor(t, "second page", func() bool { return e.State().Page == 2 })

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Play = %v, want context.Canceled", err)
	}
}

func TestPlayerOnPageSeesEveryPage(t *testing.T) {
	var got []typewriter.Page
	p := NewPlayer(basicMeasurer(), NewTerminalSurface(io.Discard, 2000, 1000), PlayerOptions{
		TypingSpeed: time.Millisecond,
		Input:       strings.NewReader("\n\n"),
		Logger:      applog.Discard(),
		OnPage:      func(pg typewriter.Page) { got = append(got, pg) },
	})
	defer p.Close()
	if _, err := p.Play(context.Background(), []script.Turn{{Text: "one"}, {Text: "two"}}); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if len(got) != 2 || got[0].Text != "one" || !got[1].Last {
		t.Fatalf("pages = %#v", got)
	}
}

func TestReadLinesStopsOnDone(t *testing.T) {
	done := make(chan struct{})
	lines := readLines(strings.NewReader(strings.Repeat("line\n", 100)), done)
	<-lines
	close(done)
	// nobody receives, so the reader can only leave through done
	time.Sleep(50 * time.Millisecond)
	if _, ok := <-lines; ok {
		t.Fatalf("reader still delivering after done")
	}
}
