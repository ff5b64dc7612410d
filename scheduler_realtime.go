// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

import (
	"container/heap"
	"sync"
	"time"
)

// RealtimeScheduler is the wall-clock production Scheduler. A single
// dispatcher goroutine drains due timer-heap
// entries and runs them one at a time — real concurrency never reaches
// user callbacks through this type, only through whatever those callbacks
// themselves choose to spawn (e.g. EncaseP's goroutine).
//
// The wake/sleep shape is grounded on eventloop.Loop: a background
// goroutine blocks on a timer armed for the next due entry, woken early by
// a buffered signal channel whenever a nearer deadline is scheduled —
// eventloop's "fast wakeup channel" without the I/O-poller half, since
// this scheduler has no file descriptors to watch.
type RealtimeScheduler struct {
	mu     sync.Mutex
	heap   timerHeap
	byID   map[uint64]*timerEntry
	nextID uint64
	start  time.Time
	wake   chan struct{}
	done   chan struct{}
	logger Logger
}

// NewRealtimeScheduler starts a RealtimeScheduler's dispatcher goroutine
// and returns it. Callers that want the goroutine to stop should arrange
// for their program to exit; RealtimeScheduler has no Close because the
// Scheduler contract defines no shutdown operation.
func NewRealtimeScheduler(opts ...SchedulerOption) *RealtimeScheduler {
	cfg := resolveSchedulerOptions(opts)
	s := &RealtimeScheduler{
		byID:   make(map[uint64]*timerEntry),
		start:  time.Now(),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: cfg.logger,
	}
	go s.run()
	return s
}

func (s *RealtimeScheduler) Now() int64 {
	return time.Since(s.start).Milliseconds()
}

func (s *RealtimeScheduler) Asap(task func()) Token {
	return s.schedule(task, 0)
}

func (s *RealtimeScheduler) Delay(task func(), ms int64) Token {
	if ms < 0 {
		ms = 0
	}
	return s.schedule(task, ms)
}

func (s *RealtimeScheduler) schedule(task func(), ms int64) Token {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	e := &timerEntry{due: s.Now() + ms, seq: id, task: task}
	heap.Push(&s.heap, e)
	s.byID[id] = e
	earliest := s.heap[0] == e
	s.mu.Unlock()

	if earliest {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
	return &timerToken{id: id}
}

func (s *RealtimeScheduler) Cancel(token Token) {
	tt, ok := token.(*timerToken)
	if !ok || tt == nil {
		return
	}
	s.mu.Lock()
	if e, ok := s.byID[tt.id]; ok {
		e.cancelled = true
		delete(s.byID, tt.id)
	}
	s.mu.Unlock()
}

// run is the dispatcher loop: sleep until the next due entry (or a wake
// signal pulls it in earlier), then execute every entry due at or before
// now, sequentially and outside the lock.
func (s *RealtimeScheduler) run() {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	for {
		s.mu.Lock()
		var wait time.Duration
		if len(s.heap) == 0 {
			wait = time.Hour
		} else {
			remainingMs := s.heap[0].due - s.Now()
			if remainingMs < 0 {
				remainingMs = 0
			}
			wait = time.Duration(remainingMs) * time.Millisecond
		}
		s.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-s.done:
			return
		case <-s.wake:
		case <-timer.C:
		}

		s.mu.Lock()
		due := popDue(&s.heap, s.Now())
		s.mu.Unlock()

		for _, e := range due {
			s.mu.Lock()
			cancelled := e.cancelled
			delete(s.byID, e.seq)
			s.mu.Unlock()
			if !cancelled {
				s.runTask(e.task)
			}
		}
	}
}

func (s *RealtimeScheduler) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil && s.logger != nil {
			s.logger.Error("aeon: scheduler task panicked", Field{Key: "panic", Value: r})
		}
	}()
	task()
}
