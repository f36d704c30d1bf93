/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package typewriter

// Measurer reports the size a string would occupy when rendered with the
// live display's font settings. Both calls must be synchronous and cheap
// enough to run on every reveal step.
type Measurer interface {
	// MeasureLineWidth returns the preferred width of text without wrapping,
	// i.e. the widest of its explicit lines.
	MeasureLineWidth(text string) float64
	// MeasureBlockHeight returns the preferred height of text word-wrapped
	// at wrapWidth.
	MeasureBlockHeight(text string, wrapWidth float64) float64
}

// Acquirer is implemented by measurers that hold resources (a resolved font
// face, a glyph cache) which only need to live while text is being typed.
// Acquire and Release are called at most once per transition.
type Acquirer interface {
	Acquire() error
	Release()
}

// Surface is the bubble the engine types into.
type Surface interface {
	// SetText replaces the visible text.
	SetText(text string)
	BoundWidth() float64
	BoundHeight() float64
	// SetAdvanceVisible toggles the "continue" affordance.
	SetAdvanceVisible(visible bool)
}

// AdvanceNotifier is implemented by surfaces that raise a user advance event.
// The engine subscribes once, in New, and maps the event to Advance.
type AdvanceNotifier interface {
	OnAdvance(fn func())
}
