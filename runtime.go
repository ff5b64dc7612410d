// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

import (
	"runtime/debug"
	"sync/atomic"

	"github.com/google/uuid"
)

// Runtime is the trampolined evaluator. It is stateless beyond its
// Scheduler and options: all per-execution state lives on the Fiber that
// Execute creates.
type Runtime struct {
	sched Scheduler
	opts  runtimeOptions
}

// NewRuntime builds a Runtime driven by sched.
func NewRuntime(sched Scheduler, opts ...RuntimeOption) *Runtime {
	return &Runtime{sched: sched, opts: resolveRuntimeOptions(opts)}
}

// Scheduler returns the Scheduler this Runtime was built with.
func (rt *Runtime) Scheduler() Scheduler { return rt.sched }

// contKind tags the three continuation-stack frame shapes: Chain-frame,
// Catch-frame, Map-frame.
type contKind uint8

const (
	contChain contKind = iota
	contCatch
	contMap
)

type contFrame struct {
	kind contKind
	fn   any // func(any) *node for contChain/contCatch; func(any) any for contMap
}

// Fiber is the per-top-level-invocation execution record: the current
// instruction, the continuation stack, the environment, the
// success/failure callbacks, and the cancellation state. It is created by
// Execute and exclusively owned by its launcher — never shared between
// goroutines except for the narrow, synchronized cancel path.
type Fiber struct {
	id  uuid.UUID
	rt  *Runtime
	env any

	// cur/stack are only ever touched by whichever goroutine is currently
	// running a scheduled task for this fiber — the scheduler serializes
	// fiber turns, so no lock is needed here (this mirrors eventloop's
	// single-owner-goroutine discipline for Loop-internal state).
	cur   *node
	stack []contFrame

	onSuccess func(any)
	onFailure func(any)

	// Cancellation-adjacent fields are the only ones touched from outside
	// the scheduler's serialized task stream (an arbitrary caller goroutine
	// may call the CancelFunc at any time), so they use atomics.
	cancelled    atomic.Bool
	resumeID     atomic.Uint64
	asyncCancel  atomic.Pointer[CancelFunc]
	terminalDone atomic.Bool
}

// ID returns the fiber's identity, for log correlation.
func (f *Fiber) ID() uuid.UUID { return f.id }

// Execute starts e as a new Fiber against env, returning a CancelFunc.
// Exactly one of onSuccess/onFailure fires, at most once, unless the fiber
// is cancelled first, in which case neither fires.
func Execute[R, E, A any](rt *Runtime, env R, e Effect[R, E, A], onSuccess func(A), onFailure func(E)) CancelFunc {
	f := &Fiber{
		id:  uuid.New(),
		rt:  rt,
		env: env,
		cur: e.n,
		onSuccess: func(v any) {
			onSuccess(v.(A))
		},
		onFailure: func(v any) {
			onFailure(v.(E))
		},
	}
	f.rt.sched.Asap(f.run)
	return func() { f.cancel() }
}

// UnsafeRunSync drains sched's queue (which must be a VirtualScheduler, or
// any Scheduler implementing the internal drain capability) and returns
// the success value of e, or an error if e fails or never completes.
func UnsafeRunSync[R, E, A any](rt *Runtime, env R, e Effect[R, E, A]) (A, error) {
	d, ok := rt.sched.(drainable)
	if !ok {
		var zero A
		return zero, errNotDrainable
	}

	var (
		zero     A
		result   A
		err      error
		settled  bool
		anyError any
	)
	cancel := Execute[R, E, A](rt, env, e, func(a A) {
		result = a
		settled = true
	}, func(e E) {
		anyError = e
		settled = true
	})
	defer cancel()

	d.drain()

	if !settled {
		return zero, ErrPending
	}
	if anyError != nil {
		if asErr, ok := anyError.(error); ok {
			err = asErr
		} else {
			err = &typedFailure{value: anyError}
		}
		return zero, err
	}
	return result, nil
}

// typedFailure adapts a non-error E value into an error for
// UnsafeRunSync's return signature.
type typedFailure struct{ value any }

func (t *typedFailure) Error() string { return "aeon: effect failed" }

var errNotDrainable = &typedFailure{value: "scheduler does not support UnsafeRunSync (use a VirtualScheduler)"}

func (f *Fiber) cancel() {
	if !f.cancelled.CompareAndSwap(false, true) {
		return // idempotent: a second cancel is a no-op
	}
	f.resumeID.Add(1) // invalidate any outstanding resumption closures
	if p := f.asyncCancel.Load(); p != nil && *p != nil {
		(*p)()
	}
}

func (f *Fiber) isCancelled() bool { return f.cancelled.Load() }

// run is the trampoline's main loop: up to rt.opts.dispatchBudget
// dispatches per call, then yields back through the scheduler. It is only
// ever invoked as a scheduled task, never directly, and never recurses
// into itself while consuming a success or failure value, which is what
// keeps deeply chained effects stack-safe.
func (f *Fiber) run() {
	if f.isCancelled() {
		return
	}

	budget := f.rt.opts.dispatchBudget
	for i := 0; i < budget; i++ {
		if f.isCancelled() {
			return
		}

		switch f.cur.kind {
		case kindConstant:
			if len(f.stack) == 0 {
				f.deliver(f.onSuccess, f.cur.value)
				return
			}
			top := f.stack[len(f.stack)-1]
			f.stack = f.stack[:len(f.stack)-1]
			switch top.kind {
			case contCatch:
				// discard: success path skips catches, current value unchanged
			case contChain:
				f.cur = &node{kind: kindResumeM, value: f.cur.value, f: top.fn}
			case contMap:
				f.cur = &node{kind: kindResume, value: f.cur.value, f: top.fn}
			}

		case kindReject:
			err := f.cur.value
			var handler any
			found := false
			for len(f.stack) > 0 {
				top := f.stack[len(f.stack)-1]
				f.stack = f.stack[:len(f.stack)-1]
				if top.kind == contCatch {
					handler = top.fn
					found = true
					break
				}
			}
			if !found {
				f.deliver(f.onFailure, err)
				return
			}
			f.cur = &node{kind: kindResumeM, value: err, f: handler}

		case kindResume:
			f.cur = f.safeApplyMap(f.cur.f, f.cur.value)

		case kindResumeM:
			f.cur = f.safeApplyChain(f.cur.f, f.cur.value)

		case kindMap:
			f.stack = append(f.stack, contFrame{kind: contMap, fn: f.cur.f})
			f.cur = f.cur.inner

		case kindChain:
			f.stack = append(f.stack, contFrame{kind: contChain, fn: f.cur.f})
			f.cur = f.cur.inner

		case kindCatch:
			f.stack = append(f.stack, contFrame{kind: contCatch, fn: f.cur.f})
			f.cur = f.cur.inner

		case kindSuspend:
			f.cur = f.safeSuspend(f.cur.thunk)

		case kindAsync:
			f.dispatchAsync(f.cur.register)
			return

		case kindNever:
			return

		default:
			panic("aeon: unknown instruction kind")
		}
	}

	// Budget exhausted mid-computation: yield back through the scheduler
	// to preserve fairness with other scheduled work.
	f.rt.sched.Asap(f.run)
}

// deliver invokes the terminal callback at most once, then clears the
// fiber's async-cancel pointer so a stray cancel after completion is a
// pure no-op.
func (f *Fiber) deliver(cb func(any), v any) {
	if !f.terminalDone.CompareAndSwap(false, true) {
		return
	}
	f.asyncCancel.Store(nil)
	cb(v)
}

// safeApplyMap calls f(v), recovering a panic into a Reject node.
func (f *Fiber) safeApplyMap(fn any, v any) (result *node) {
	defer func() {
		if r := recover(); r != nil {
			result = &node{kind: kindReject, value: f.recoverDefect(r, debug.Stack())}
		}
	}()
	mapFn := fn.(func(any) any)
	return &node{kind: kindConstant, value: mapFn(v)}
}

// safeApplyChain calls f(v) where f builds the next node (Chain/Catch),
// recovering a panic into a Reject node.
func (f *Fiber) safeApplyChain(fn any, v any) (result *node) {
	defer func() {
		if r := recover(); r != nil {
			result = &node{kind: kindReject, value: f.recoverDefect(r, debug.Stack())}
		}
	}()
	chainFn := fn.(func(any) *node)
	return chainFn(v)
}

func (f *Fiber) safeSuspend(thunk func() *node) (result *node) {
	defer func() {
		if r := recover(); r != nil {
			result = &node{kind: kindReject, value: f.recoverDefect(r, debug.Stack())}
		}
	}()
	return thunk()
}

// recoverDefect wraps a recovered panic value into a Defect and reports it
// through the Runtime's Logger, so a panic inside user code is visible even
// though the evaluator turns it into an ordinary typed failure rather than
// propagating the panic itself.
func (f *Fiber) recoverDefect(r any, stack []byte) *Defect {
	d := recoverDefect(r, stack)
	f.rt.opts.logger.Error("aeon: recovered panic",
		Field{Key: "fiber", Value: f.id},
		Field{Key: "panic", Value: d.Value},
	)
	return d
}

// dispatchAsync installs resumption callbacks for an Async instruction.
// Exactly one of reject/resolve may take effect; both are
// guarded by a resumeGate and by the resumption id, so a cancellation (or
// a register that mistakenly calls back twice) cannot resume the fiber
// twice.
func (f *Fiber) dispatchAsync(register asyncRegister) {
	rid := f.resumeID.Add(1)
	gate := &resumeGate{}

	settle := func(n *node) {
		if !gate.tryFire() {
			f.rt.opts.logger.Debug("aeon: async resolved more than once, ignoring",
				Field{Key: "fiber", Value: f.id})
			return
		}
		if f.isCancelled() || f.resumeID.Load() != rid {
			f.rt.opts.logger.Debug("aeon: async settled after cancellation, discarding",
				Field{Key: "fiber", Value: f.id})
			return
		}
		// Resolution always goes through the scheduler, never inline from
		// the callback's own call stack, mirroring eventloop.Promisify's
		// "resolution goes through SubmitInternal to ensure single-owner"
		// discipline — this keeps Async resumption stack-safe even when a
		// register resolves synchronously before returning its token.
		f.rt.sched.Asap(func() {
			if f.isCancelled() || f.resumeID.Load() != rid {
				f.rt.opts.logger.Debug("aeon: async resumption raced with cancellation, discarding",
					Field{Key: "fiber", Value: f.id})
				return
			}
			f.cur = n
			f.run()
		})
	}

	reject := func(e any) { settle(&node{kind: kindReject, value: e}) }
	resolve := func(a any) { settle(&node{kind: kindConstant, value: a}) }

	var token CancelFunc
	func() {
		defer func() {
			if r := recover(); r != nil {
				// register itself threw synchronously: treated as Reject(err).
				reject(f.recoverDefect(r, debug.Stack()))
			}
		}()
		c := register(f.env, f.rt.sched, reject, resolve)
		if c != nil {
			token = c
		}
	}()
	f.asyncCancel.Store(&token)
}
