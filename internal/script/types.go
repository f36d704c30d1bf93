/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

// Script is a dialogue to be played turn by turn. Title is taken from the
// first heading (or the title field of YAML/JSON scripts).
type Script struct {
	Title string
	Turns []Turn
}

// TurnKind tells dialogue from narration.
type TurnKind int

const (
	Narration TurnKind = iota
	Dialogue
)

func (k TurnKind) String() string {
	if k == Dialogue {
		return "dialogue"
	}
	return "narration"
}

// Turn is one message shown in the dialogue bubble.
// Speaker is upper-cased and empty for narration. Text may contain real
// line breaks (from continuation lines) or the two-character escape \n;
// the typewriter normalizes the latter.
type Turn struct {
	Kind    TurnKind
	Speaker string
	Text    string
	Scene   string
	LineNo  int // 1-based starting line number in the source, 0 if unknown
}

// Label is the speaker name, or "" for narration.
func (t Turn) Label() string {
	if t.Kind == Dialogue {
		return t.Speaker
	}
	return ""
}

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string {
	if e.Line > 0 {
		return fmtLine(e.Line, e.Column) + e.Message
	}
	return e.Message
}
