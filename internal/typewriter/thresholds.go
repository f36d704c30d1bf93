/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package typewriter

// Bubble margin policy. Wide bubbles (>= PivotWidth) lose a margin on both
// axes, narrow ones are allowed to run past their width. The asymmetry is
// intentional and must not be evened out.
const (
	PivotWidth        = 1250.0
	NarrowWidthMargin = 100.0
	WideWidthMargin   = -100.0
	WideHeightMargin  = -50.0
)

// Thresholds turns bubble bounds into overflow limits.
// The zero value is not useful; start from DefaultThresholds.
type Thresholds struct {
	PivotWidth        float64 `yaml:"pivot_width"`
	NarrowWidthMargin float64 `yaml:"narrow_width_margin"`
	WideWidthMargin   float64 `yaml:"wide_width_margin"`
	WideHeightMargin  float64 `yaml:"wide_height_margin"`
}

// DefaultThresholds returns the stock margin policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PivotWidth:        PivotWidth,
		NarrowWidthMargin: NarrowWidthMargin,
		WideWidthMargin:   WideWidthMargin,
		WideHeightMargin:  WideHeightMargin,
	}
}

func (t Thresholds) wide(boundWidth float64) bool { return boundWidth >= t.PivotWidth }

// WidthLimit is the measured line width at which a line counts as overflowing.
func (t Thresholds) WidthLimit(boundWidth float64) float64 {
	if t.wide(boundWidth) {
		return boundWidth + t.WideWidthMargin
	}
	return boundWidth + t.NarrowWidthMargin
}

// HeightLimit is the measured block height at which text counts as overflowing.
// Narrow bubbles use their height as is.
func (t Thresholds) HeightLimit(boundWidth, boundHeight float64) float64 {
	if t.wide(boundWidth) {
		return boundHeight + t.WideHeightMargin
	}
	return boundHeight
}
