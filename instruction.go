// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

// kind tags the closed instruction set this package evaluates. Dispatch on
// kind is a plain switch, not a type switch over an interface hierarchy, so
// the evaluator's inner loop stays a tight, branch-predictable switch.
type kind uint8

const (
	kindConstant kind = iota
	kindReject
	kindResume
	kindResumeM
	kindMap
	kindChain
	kindCatch
	kindAsync
	kindNever
	kindSuspend
)

// asyncRegister is the type-erased shape of an Async registration: given the
// environment, the scheduler, and reject/resolve callbacks, it performs the
// external work and returns a cancellation token, or nil if the
// registration offers no way to cancel it.
type asyncRegister func(env any, sched Scheduler, reject func(any), resolve func(any)) CancelFunc

// node is the single, closed, type-erased representation of every
// instruction kind. Effect[R, E, A] is a typed view over *node; values of
// type any recovered across a node boundary (e.g. the argument to a Chain's
// function) cross that erasure boundary, collapsed into one struct instead
// of one type per frame kind, since the evaluator dispatches on kind rather
// than on Go's static type system.
type node struct {
	kind kind

	// kindConstant / kindReject
	value any // success value (Constant) or error value (Reject)

	// kindResume: f func(any) any
	// kindResumeM: f func(any) *node
	// kindMap: f func(any) any, inner *node
	// kindChain: f func(any) *node, inner *node
	// kindCatch: h func(any) *node, inner *node
	f     any
	inner *node

	// kindAsync
	register asyncRegister

	// kindSuspend
	thunk func() *node
}

// Effect is the public, immutable description of an asynchronous
// computation requiring an environment R, failing with E, and succeeding
// with A. It carries no mutable state of its own; the same Effect value may
// be executed any number of times, by any number of fibers, independently.
type Effect[R, E, A any] struct {
	n *node
}

// effect is a convenience constructor used throughout this package to wrap
// a freshly-built node without repeating the struct literal everywhere.
func effect[R, E, A any](n *node) Effect[R, E, A] {
	return Effect[R, E, A]{n: n}
}

// Of lifts a pure value into an effect that succeeds with it immediately.
func Of[R, E, A any](v A) Effect[R, E, A] {
	return effect[R, E, A](&node{kind: kindConstant, value: v})
}

// Reject builds an effect that fails with e immediately.
func Reject[R, E, A any](e E) Effect[R, E, A] {
	return effect[R, E, A](&node{kind: kindReject, value: e})
}

// Never returns an effect that never completes. It is useful as the
// identity element for Race.
func Never[R, E, A any]() Effect[R, E, A] {
	return effect[R, E, A](&node{kind: kindNever})
}

// Suspend defers construction of the next effect until evaluation time.
// thunk is called afresh each time evaluation reaches this node, in every
// execution.
func Suspend[R, E, A any](thunk func() Effect[R, E, A]) Effect[R, E, A] {
	return effect[R, E, A](&node{kind: kindSuspend, thunk: func() *node {
		return thunk().n
	}})
}

// Map applies a pure function to the effect's success value. Panics inside
// f are captured as a Defect by the evaluator, not by Map itself.
func Map[R, E, A, B any](e Effect[R, E, A], f func(A) B) Effect[R, E, B] {
	return effect[R, E, B](&node{
		kind:  kindMap,
		inner: e.n,
		f:     func(v any) any { return f(v.(A)) },
	})
}

// Chain sequences e with an effect built from its success value (monadic
// bind).
func Chain[R, E, A, B any](e Effect[R, E, A], f func(A) Effect[R, E, B]) Effect[R, E, B] {
	return effect[R, E, B](&node{
		kind:  kindChain,
		inner: e.n,
		f:     func(v any) *node { return f(v.(A)).n },
	})
}

// Catch recovers from a failure of e by interpreting h(err) as the
// replacement effect. On success, Catch is a no-op pass-through.
func Catch[R, E1, E2, A any](e Effect[R, E1, A], h func(E1) Effect[R, E2, A]) Effect[R, E2, A] {
	return effect[R, E2, A](&node{
		kind:  kindCatch,
		inner: e.n,
		f:     func(err any) *node { return h(err.(E1)).n },
	})
}

// Map is a method form of the package-level Map, for fluent chaining.
func (e Effect[R, E, A]) Map(f func(A) A) Effect[R, E, A] {
	return Map[R, E, A, A](e, f)
}

// Chain is a method form of the package-level Chain, for fluent chaining.
func (e Effect[R, E, A]) Chain(f func(A) Effect[R, E, A]) Effect[R, E, A] {
	return Chain[R, E, A, A](e, f)
}

// Catch is a method form of the package-level Catch, for fluent chaining.
func (e Effect[R, E, A]) Catch(h func(E) Effect[R, E, A]) Effect[R, E, A] {
	return Catch[R, E, E, A](e, h)
}
