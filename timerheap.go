// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

import "container/heap"

// timerEntry is one pending Delay (or Asap, scheduled for "now") task.
// Grounded on eventloop.Loop's timerHeap: a container/heap-ordered min-heap
// keyed by due time, with a sequence number as tiebreaker so same-millisecond
// entries run in scheduling order. Cancel tombstones rather than removes, so
// Scheduler.Cancel stays O(1) amortized.
type timerEntry struct {
	due       int64
	seq       uint64
	task      func()
	cancelled bool
	index     int
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// popDue pops and returns every non-cancelled entry with due <= now, in
// (due, seq) order, leaving entries with due > now in the heap.
func popDue(h *timerHeap, now int64) []*timerEntry {
	var due []*timerEntry
	for h.Len() > 0 && (*h)[0].due <= now {
		e := heap.Pop(h).(*timerEntry)
		if e.cancelled {
			continue
		}
		due = append(due, e)
	}
	return due
}
