/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Record appends a page. A zero ShownAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.Session == "" {
		return errors.New("transcript: entry without session")
	}
	if e.ShownAt.IsZero() {
		e.ShownAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages(session, turn, speaker, page, text, ellipsis, last, shown_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Session, e.Turn, e.Speaker, e.Page, e.Text, boolInt(e.Ellipsis), boolInt(e.Last), e.ShownAt.UTC().Format(timeLayout))
	if err != nil {
		s.log.Error("record page failed", slog.String("session", e.Session), slog.Any("err", err))
		return fmt.Errorf("record page: %w", err)
	}
	return nil
}

// List returns the pages of session in the order they were shown, or of
// every session when session is empty. limit <= 0 returns all of them;
// otherwise only the most recent limit pages are returned, still oldest first.
func (s *Store) List(ctx context.Context, session string, limit int) ([]Entry, error) {
	q := `SELECT id, session, turn, speaker, page, text, ellipsis, last, shown_at FROM pages`
	var args []any
	if session != "" {
		q += ` WHERE session=?`
		args = append(args, session)
	}
	q += ` ORDER BY id DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ellipsis, last int
		var shown string
		if err := rows.Scan(&e.ID, &e.Session, &e.Turn, &e.Speaker, &e.Page, &e.Text, &ellipsis, &last, &shown); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		e.Ellipsis, e.Last = ellipsis != 0, last != 0
		if e.ShownAt, err = time.Parse(timeLayout, shown); err != nil {
			return nil, fmt.Errorf("parse shown_at %q: %w", shown, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Sessions summarizes every recorded session, most recent first.
func (s *Store) Sessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session, COUNT(*), MIN(shown_at), MAX(shown_at) FROM pages GROUP BY session ORDER BY MAX(id) DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var si SessionInfo
		var started, ended string
		if err := rows.Scan(&si.ID, &si.Pages, &started, &ended); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if si.Started, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse session start: %w", err)
		}
		if si.Ended, err = time.Parse(timeLayout, ended); err != nil {
			return nil, fmt.Errorf("parse session end: %w", err)
		}
		out = append(out, si)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
