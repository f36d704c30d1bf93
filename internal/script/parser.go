/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

var (
	reHeading = regexp.MustCompile(`^#+\s*(.*)$`)
	reName    = regexp.MustCompile(`^([A-Za-z0-9_\- ]{1,64})\s*:\s*(.*)$`)
)

// narratorNames are speaker labels that mark narration rather than dialogue.
var narratorNames = map[string]bool{"NARRATION": true, "NARRATOR": true, "CAPTION": true}

// Parse parses the plain text script format:
//   - "# Title" starts a scene; the first heading is also the script title.
//   - "NAME: text" is a dialogue turn; NAME is upper-cased.
//     NARRATION:, NARRATOR: and CAPTION: are narration.
//   - Lines indented by 2+ spaces continue the previous turn on a new line.
//   - Lines starting with ';' are author notes and are dropped.
//   - Blank lines end a turn. Any other line is a narration turn.
//
// Turns left without text are reported as errors and dropped.
func Parse(input string) (Script, []Error) {
	var s Script
	var errs []Error
	scene := ""
	var last *Turn

	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")

		if strings.HasPrefix(line, "  ") && last != nil {
			if cont := strings.TrimSpace(line); cont != "" {
				if last.Text == "" {
					last.Text = cont
				} else {
					last.Text += "\n" + cont
				}
			}
			continue
		}

		trim := strings.TrimSpace(line)
		switch {
		case trim == "":
			last = nil
			continue
		case strings.HasPrefix(trim, ";"):
			last = nil
			continue
		}

		if m := reHeading.FindStringSubmatch(trim); m != nil {
			scene = strings.TrimSpace(m[1])
			if s.Title == "" {
				s.Title = scene
			}
			last = nil
			continue
		}

		t := Turn{Kind: Narration, Text: trim, Scene: scene, LineNo: lineNo}
		if m := reName.FindStringSubmatch(trim); m != nil {
			name := strings.ToUpper(strings.TrimSpace(m[1]))
			t.Text = strings.TrimSpace(m[2])
			if !narratorNames[name] {
				t.Kind = Dialogue
				t.Speaker = name
			}
		}
		s.Turns = append(s.Turns, t)
		last = &s.Turns[len(s.Turns)-1]
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}

	kept := s.Turns[:0]
	for _, t := range s.Turns {
		if t.Text == "" {
			who := t.Speaker
			if who == "" {
				who = "narration"
			}
			errs = append(errs, Error{Line: t.LineNo, Column: 1, Message: who + " has no text"})
			continue
		}
		kept = append(kept, t)
	}
	s.Turns = kept
	return s, errs
}

func fmtLine(line, col int) string {
	if col <= 0 {
		col = 1
	}
	return "line " + strconv.Itoa(line) + ":" + strconv.Itoa(col) + ": "
}
