// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

import "container/heap"

// VirtualScheduler is the deterministic test Scheduler: logical time only
// advances when Advance is called. It is the scheduler UnsafeRunSync
// requires, and is itself part of aeon's public surface, since anyone
// testing effects built on this package needs the same deterministic
// clock rather than an internal-only helper.
//
// VirtualScheduler is not safe for concurrent use from multiple
// goroutines; it is meant to be driven from a single test goroutine.
type VirtualScheduler struct {
	now    int64
	heap   timerHeap
	byID   map[uint64]*timerEntry
	nextID uint64
	logger Logger
}

// NewVirtualScheduler returns a VirtualScheduler starting at logical time 0.
func NewVirtualScheduler(opts ...SchedulerOption) *VirtualScheduler {
	cfg := resolveSchedulerOptions(opts)
	return &VirtualScheduler{byID: make(map[uint64]*timerEntry), logger: cfg.logger}
}

func (s *VirtualScheduler) Now() int64 { return s.now }

func (s *VirtualScheduler) Asap(task func()) Token {
	return s.schedule(task, 0)
}

func (s *VirtualScheduler) Delay(task func(), ms int64) Token {
	if ms < 0 {
		ms = 0
	}
	return s.schedule(task, ms)
}

func (s *VirtualScheduler) schedule(task func(), ms int64) Token {
	s.nextID++
	e := &timerEntry{due: s.now + ms, seq: s.nextID, task: task}
	heap.Push(&s.heap, e)
	s.byID[s.nextID] = e
	return &timerToken{id: s.nextID}
}

// Cancel tombstones the entry by map lookup, matching RealtimeScheduler's
// O(1) amortized contract rather than scanning the heap.
func (s *VirtualScheduler) Cancel(token Token) {
	tt, ok := token.(*timerToken)
	if !ok || tt == nil {
		return
	}
	if e, ok := s.byID[tt.id]; ok {
		e.cancelled = true
		delete(s.byID, tt.id)
	}
}

// Advance moves logical time forward by ms and runs every task due at or
// before the new time, in (due, seq) order. Tasks scheduled asap/delay
// during the drain are only run if their due time falls within this same
// Advance call; otherwise they wait for a future Advance/drain. Logical
// time steps through each due entry's own time on the way to the target,
// so a Delay registered during the drain is timed from the moment its
// registering task ran.
func (s *VirtualScheduler) Advance(ms int64) {
	target := s.now + ms
	for {
		s.runDueLoop()
		if len(s.heap) == 0 || s.heap[0].due > target {
			break
		}
		s.now = s.heap[0].due
	}
	s.now = target
}

// drain implements the internal drainable capability UnsafeRunSync
// requires: it repeatedly runs everything already due, and if nothing is
// due but the heap is non-empty, jumps time forward to the next pending
// entry — this is what lets UnsafeRunSync resolve effects built from
// Delay/Timeout without the caller hand-rolling Advance calls.
func (s *VirtualScheduler) drain() {
	for {
		s.runDueLoop()
		if len(s.heap) == 0 {
			return
		}
		s.now = s.heap[0].due
	}
}

func (s *VirtualScheduler) runDueLoop() {
	for {
		due := popDue(&s.heap, s.now)
		if len(due) == 0 {
			return
		}
		for _, e := range due {
			if e.cancelled {
				continue // cancelled by an earlier task of this same batch
			}
			delete(s.byID, e.seq)
			s.runTask(e.task)
		}
	}
}

func (s *VirtualScheduler) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("aeon: scheduled task panicked", Field{Key: "panic", Value: r})
		}
	}()
	task()
}
