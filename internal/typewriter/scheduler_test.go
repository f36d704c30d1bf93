/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package typewriter

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestManualSchedulerSkipsCanceled(t *testing.T) {
	var s ManualScheduler
	var ran []int
	s.Schedule(time.Second, func() { ran = append(ran, 1) })
	cancel := s.Schedule(2*time.Second, func() { ran = append(ran, 2) })
	s.Schedule(3*time.Second, func() { ran = append(ran, 3) })
	cancel()
	cancel()

	if got := s.Pending(); got != 2 {
		t.Fatalf("Pending = %d, want 2", got)
	}
	if n := s.RunAll(0); n != 2 {
		t.Fatalf("RunAll ran %d tasks", n)
	}
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 3 {
		t.Fatalf("ran = %v", ran)
	}
	if got := s.Elapsed(); got != 4*time.Second {
		t.Fatalf("Elapsed = %v", got)
	}
	if s.RunNext() {
		t.Fatalf("queue should be empty")
	}
}

func TestManualSchedulerRunAllLimit(t *testing.T) {
	var s ManualScheduler
	var count int
	var again func()
	again = func() {
		count++
		s.Schedule(time.Millisecond, again)
	}
	s.Schedule(time.Millisecond, again)
	if n := s.RunAll(5); n != 5 || count != 5 {
		t.Fatalf("RunAll(5) = %d, count = %d", n, count)
	}
	if s.Pending() != 1 {
		t.Fatalf("self-rescheduling task should still be pending")
	}
}

func TestClockSchedulerFiresAndCancels(t *testing.T) {
	fc := clockwork.NewFakeClock()
	s := ClockScheduler{Clock: fc}

	fired := make(chan struct{}, 1)
	s.Schedule(time.Second, func() { fired <- struct{}{} })
	stopped := make(chan struct{}, 1)
	cancel := s.Schedule(time.Second, func() { stopped <- struct{}{} })
	cancel()

	fc.Advance(time.Second)
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduled func did not fire")
	}
	select {
	case <-stopped:
		t.Fatalf("canceled func fired")
	case <-time.After(50 * time.Millisecond):
	}
}
