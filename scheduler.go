// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

// Token is the opaque cancellation handle returned by Scheduler.Asap and
// Scheduler.Delay. It carries no public methods; callers pass it back to
// Scheduler.Cancel.
type Token interface {
	scheduled()
}

// CancelFunc aborts the thing it was returned for. Calling it more than
// once is a no-op.
type CancelFunc func()

// Scheduler is the single-threaded cooperative task queue and logical
// clock that every Async suspension point in this package goes through;
// nothing here touches a platform timer directly.
type Scheduler interface {
	// Asap schedules task to run in a subsequent logical turn — never
	// synchronously within the call to Asap.
	Asap(task func()) Token
	// Delay schedules task to run after ms logical milliseconds.
	Delay(task func(), ms int64) Token
	// Cancel removes a pending task. Idempotent; a no-op if the task has
	// already run or was already cancelled.
	Cancel(token Token)
	// Now returns the current logical time in milliseconds.
	Now() int64
}

// drainable is implemented by schedulers that can run their entire pending
// queue to completion on demand. Only VirtualScheduler implements it;
// UnsafeRunSync requires it.
type drainable interface {
	drain()
}

// timerToken is the concrete Token shared by both scheduler implementations.
// id is unique per scheduler instance and is used by Cancel to tombstone the
// matching heap entry in O(1).
type timerToken struct {
	id uint64
}

func (*timerToken) scheduled() {}
