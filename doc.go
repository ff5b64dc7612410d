// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package aeon provides a typed, cooperatively-scheduled effect system.
//
// The core type [Effect] represents a description of a computation that
// needs an environment R, may fail with a typed error E, and on success
// produces a value A. An Effect does nothing on its own: building one
// with [Of], [Map], [Chain], [Catch] and friends only builds a tree of
// instructions, the same way a io.Reader describes but does not perform
// reads. Running an Effect against a [Runtime] is what actually executes
// it, one instruction dispatch at a time.
//
// # Instruction Algebra
//
// An Effect is a closed tree of ten instruction kinds, never an open
// interface hierarchy: Constant, Reject, Resume, ResumeM, Map, Chain,
// Catch, Async, Never and Suspend. Closing the set lets the evaluator
// dispatch on a single tag switch instead of a type switch or virtual
// call per node, and lets every combinator in this package be expressed
// as a thin constructor over [node] rather than its own handler.
//
//   - [Of], [Reject], [Never]: lift a value, error, or a computation that
//     never completes
//   - [Suspend]: defer node construction until evaluation reaches it
//   - [Map], [Chain], [Catch]: transform success, sequence, and recover
//   - [Effect.Map], [Effect.Chain], [Effect.Catch]: method forms of the above
//
// # Runtime and Fibers
//
// [Runtime] pairs a [Scheduler] with a dispatch budget and a [Logger].
// [Execute] starts an Effect as a [Fiber]: a single dispatch record
// holding the current instruction, a continuation stack, and the
// cancellation state. A Fiber is driven entirely by its Scheduler —
// [Fiber.run] is only ever invoked as a scheduled task, consumes up to
// the Runtime's dispatch budget, then yields back through the Scheduler
// so long chains stay stack-safe and fair to other fibers sharing the
// same scheduler. Exactly one of the onSuccess/onFailure callbacks
// passed to Execute fires, at most once, unless the returned CancelFunc
// is called first.
//
// [UnsafeRunSync] drains a [VirtualScheduler] to completion and returns
// the Effect's result directly; it exists for tests and for programs
// whose Effects are driven entirely by that scheduler. It does not wait
// for work outside the scheduler: if the queue drains first, it returns
// [ErrPending].
//
// # Scheduler
//
// [Scheduler] is the cooperative, single-threaded execution contract
// every Fiber runs against: Asap and Delay both enqueue work, Cancel
// withdraws it, Now reports wall or logical time. [RealtimeScheduler]
// runs real timers on a dedicated goroutine. [VirtualScheduler] runs
// entirely on logical time advanced by [VirtualScheduler.Advance],
// giving deterministic tests over Delay- and Timeout-based effects
// without a real clock.
//
// # Failure Taxonomy
//
// An Effect's error channel only ever carries its declared E. Anything
// else — a panic inside a Map/Chain/Catch function or an Async register —
// is recovered into a [Defect] and delivered through that same channel,
// since a Defect implements error. [ErrPending] is returned by
// UnsafeRunSync when a Scheduler's queue drains without the Effect
// reaching a terminal state.
//
// # Concurrency Primitives
//
// [Ref], [Await] and [Queue] are ordinary data structures whose
// operations are exposed as Effects rather than plain methods, so they
// compose with Map/Chain/Catch like any other Effect and only ever touch
// their internal state from inside a Fiber's dispatch loop.
//
// # Streams
//
// [Stream] is a lazy, pull-based sequence of values produced by Effects.
// Sources such as [FromSlice], [Interval] and [FromQueue] build a
// Stream; [StreamMap], [StreamChain], [StreamFilter] and [FoldLeft]
// transform and consume one.
package aeon
