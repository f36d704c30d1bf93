/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package typewriter

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler runs fn once after d. The returned cancel func must be safe to
// call more than once and after fn has already run.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// ClockScheduler schedules steps on a clockwork clock.
type ClockScheduler struct {
	Clock clockwork.Clock
}

// RealScheduler returns a scheduler backed by the wall clock.
func RealScheduler() ClockScheduler { return ClockScheduler{Clock: clockwork.NewRealClock()} }

func (s ClockScheduler) Schedule(d time.Duration, fn func()) func() {
	c := s.Clock
	if c == nil {
		c = clockwork.NewRealClock()
	}
	t := c.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualScheduler queues scheduled steps until the caller runs them.
// Delays are accumulated in Elapsed but never waited for.
type ManualScheduler struct {
	mu      sync.Mutex
	queue   []*manualTask
	elapsed time.Duration
}

type manualTask struct {
	d        time.Duration
	fn       func()
	canceled bool
}

func (s *ManualScheduler) Schedule(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{d: d, fn: fn}
	s.queue = append(s.queue, t)
	return func() {
		s.mu.Lock()
		t.canceled = true
		s.mu.Unlock()
	}
}

// Pending reports how many live tasks are queued.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.queue {
		if !t.canceled {
			n++
		}
	}
	return n
}

// RunNext runs the oldest live task and reports whether one ran.
// The task runs without the scheduler lock held, so it may schedule again.
func (s *ManualScheduler) RunNext() bool {
	s.mu.Lock()
	var next *manualTask
	for len(s.queue) > 0 {
		t := s.queue[0]
		s.queue = s.queue[1:]
		if !t.canceled {
			next = t
			break
		}
	}
	if next != nil {
		s.elapsed += next.d
	}
	s.mu.Unlock()
	if next == nil {
		return false
	}
	next.fn()
	return true
}

// RunAll drains the queue, including tasks scheduled while draining, and
// returns how many ran. limit <= 0 means no limit.
func (s *ManualScheduler) RunAll(limit int) int {
	n := 0
	for (limit <= 0 || n < limit) && s.RunNext() {
		n++
	}
	return n
}

// Elapsed is the sum of delays of every task run so far.
func (s *ManualScheduler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}
