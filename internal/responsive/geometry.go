/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package responsive

// Screen-space geometry. Coordinates are pixels with the origin at the top
// left and y growing downwards.

import "math"

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// Insets are fractions of a parent rectangle's size trimmed from each side.
type Insets struct {
	Left, Right, Top, Bottom float64
}

// Inset returns the part of r left after trimming the fractional insets.
func (r Rect) Inset(in Insets) Rect {
	return Rect{
		X: r.X + r.W*in.Left,
		Y: r.Y + r.H*in.Top,
		W: r.W * (1 - in.Left - in.Right),
		H: r.H * (1 - in.Top - in.Bottom),
	}
}

// Round snaps the rectangle to whole pixels.
func (r Rect) Round() Rect {
	return Rect{X: math.Round(r.X), Y: math.Round(r.Y), W: math.Round(r.W), H: math.Round(r.H)}
}
