/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"gotypewriter/internal/crash"
	applog "gotypewriter/internal/log"
	"gotypewriter/internal/transcript"
	"gotypewriter/internal/ui"
)

var (
	playAuto         time.Duration
	playSpeed        time.Duration
	playNoTranscript bool
)

var playCmd = &cobra.Command{
	Use:   "play [script]",
	Short: "Play a script in the terminal",
	Long: `Type every turn of a script into a terminal bubble. Press Enter when
the prompt appears to continue to the next page or turn.

Examples:
  gotypewriter play intro.txt
  gotypewriter play --auto 2s scene.yaml
  gotypewriter play --text 'Hello!\nWho goes there?'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().DurationVar(&playAuto, "auto", 0, "Advance automatically after this delay instead of waiting for Enter")
	playCmd.Flags().DurationVar(&playSpeed, "speed", 0, "Override the delay between revealed characters")
	playCmd.Flags().BoolVar(&playNoTranscript, "no-transcript", false, "Do not record shown pages")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	l := applog.WithComponent("play")
	sc, src, err := loadScript(args)
	if err != nil {
		return err
	}
	m, err := cfg.Measurer()
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}
	w, h, err := cfg.BubbleSize()
	if err != nil {
		return err
	}

	session := transcript.NewSessionID(time.Now())
	var rec ui.Recorder
	if !playNoTranscript {
		st, err := openTranscript()
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
			rememberScript(cmd.Context(), l, st, src)
			rec = st
		}
	}

	speed := cfg.TypingSpeed()
	if playSpeed > 0 {
		speed = playSpeed
	}
	surf := ui.NewTerminalSurface(cmd.OutOrStdout(), w, h)
	opts := ui.PlayerOptions{
		TypingSpeed: speed,
		Thresholds:  cfg.Bubble.Thresholds,
		AutoDelay:   playAuto,
		Recorder:    rec,
		Session:     session,
		Logger:      l,
	}
	if playAuto <= 0 {
		opts.Input = cmd.InOrStdin()
	}
	p := ui.NewPlayer(m, surf, opts)
	defer p.Close()
	defer crash.Recover(&crash.Context{Session: session, Script: src, Snapshot: surf.Shown})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	l.Info("playing", slog.String("script", src), slog.Int("turns", len(sc.Turns)), slog.Float64("bubble_w", w), slog.Float64("bubble_h", h))
	n, err := p.Play(ctx, sc.Turns)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if rec != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d pages recorded in session %s\n", n, session)
	}
	return nil
}

type metaSetter interface {
	SetMeta(ctx context.Context, key, value string) error
}

// rememberScript notes the script in the transcript; playback goes on without it.
func rememberScript(ctx context.Context, l *slog.Logger, st metaSetter, src string) {
	if err := st.SetMeta(ctx, "last_script", src); err != nil {
		l.Warn("transcript meta failed", slog.String("key", "last_script"), slog.Any("err", err))
	}
}

// openTranscript opens the configured store, nil when transcripts are disabled.
func openTranscript() (*transcript.Store, error) {
	path, err := cfg.TranscriptPath()
	if err != nil || path == "" {
		return nil, err
	}
	st, err := transcript.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: %w", err)
	}
	return st, nil
}
