// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

import "runtime/debug"

// From builds an Async instruction from a typed registration function.
// register is invoked synchronously when the evaluator reaches this node
// and must return a cancellation token, or nil if none is possible.
func From[R, E, A any](register func(env R, sched Scheduler, reject func(E), resolve func(A)) CancelFunc) Effect[R, E, A] {
	erased := func(env any, sched Scheduler, reject func(any), resolve func(any)) CancelFunc {
		return register(env.(R), sched, func(e E) { reject(e) }, func(a A) { resolve(a) })
	}
	return effect[R, E, A](&node{kind: kindAsync, register: erased})
}

// Encase lifts a function that may panic into one producing an effect: the
// resulting Suspend runs fn when evaluation reaches it, and a panic inside
// fn is already recovered into a Defect by the evaluator's safeSuspend, so
// Encase itself needs no explicit recover.
func Encase[R, E, A, B any](fn func(A) B) func(A) Effect[R, E, B] {
	return func(a A) Effect[R, E, B] {
		return Suspend(func() Effect[R, E, B] {
			return Of[R, E, B](fn(a))
		})
	}
}

// EncaseP wires a Go-idiomatic (value, error)-returning function into an
// Async effect, grounded on eventloop.Loop.Promisify: fn runs on its own
// goroutine, and resolution is always handed back to the scheduler via
// Scheduler.Asap rather than invoked from fn's own goroutine directly —
// the same single-owner discipline Promisify documents, so a Fiber never
// has its dispatch loop re-entered from an arbitrary goroutine.
func EncaseP[R, E, A any](fn func(env R) (A, error), wrapErr func(error) E) Effect[R, E, A] {
	return From[R, E, A](func(env R, sched Scheduler, reject func(E), resolve func(A)) CancelFunc {
		go func() {
			var (
				result A
				err    error
			)
			func() {
				defer func() {
					if r := recover(); r != nil {
						err = &Defect{Value: r, Stack: debug.Stack()}
					}
				}()
				result, err = fn(env)
			}()
			sched.Asap(func() {
				if err != nil {
					reject(wrapErr(err))
					return
				}
				resolve(result)
			})
		}()
		return nil
	})
}

// Provide eliminates e's environment requirement by forking it with env
// regardless of the outer fiber's own environment, via a fresh Runtime
// sharing the caller's scheduler.
func Provide[R1, R2, E, A any](e Effect[R1, E, A], env R1) Effect[R2, E, A] {
	return From[R2, E, A](func(_ R2, sched Scheduler, reject func(E), resolve func(A)) CancelFunc {
		rt := NewRuntime(sched)
		return Execute[R1, E, A](rt, env, e, resolve, reject)
	})
}

// Timeout resolves with v after ms logical milliseconds.
func Timeout[R, E, A any](v A, ms int64) Effect[R, E, A] {
	return From[R, E, A](func(_ R, sched Scheduler, _ func(E), resolve func(A)) CancelFunc {
		token := sched.Delay(func() { resolve(v) }, ms)
		return func() { sched.Cancel(token) }
	})
}

// Delay evaluates e, then withholds delivery of its outcome — success or
// failure alike — for ms additional logical milliseconds. Both outcomes
// are routed through the same Timeout-backed
// wait, rather than only the success path, so that wrapping an already-
// failing effect still delays the moment its failure is observed.
func Delay[R, E, A any](e Effect[R, E, A], ms int64) Effect[R, E, A] {
	asEither := Catch[R, E, E, either[E, A]](
		Map[R, E, A, either[E, A]](e, func(v A) either[E, A] { return rightOf[E, A](v) }),
		func(err E) Effect[R, E, either[E, A]] { return Of[R, E, either[E, A]](leftOf[E, A](err)) },
	)
	delayed := Chain[R, E, either[E, A], either[E, A]](asEither, func(res either[E, A]) Effect[R, E, either[E, A]] {
		return Timeout[R, E, either[E, A]](res, ms)
	})
	return Chain[R, E, either[E, A], A](delayed, func(res either[E, A]) Effect[R, E, A] {
		v, err, ok := res.get()
		if ok {
			return Of[R, E, A](v)
		}
		return Reject[R, E, A](err)
	})
}

// Pair is the result of Zip: the paired success values of two effects run
// concurrently.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip runs a and b concurrently and succeeds with both results as a Pair;
// the failure of either cancels the other and fails the combined effect
// Neither child starts synchronously with the fork — Execute always
// defers the first dispatch through the scheduler.
func Zip[R, E, A, B any](a Effect[R, E, A], b Effect[R, E, B]) Effect[R, E, Pair[A, B]] {
	return From[R, E, Pair[A, B]](func(env R, sched Scheduler, reject func(E), resolve func(Pair[A, B])) CancelFunc {
		rt := NewRuntime(sched)
		var gate resumeGate
		var cancelA, cancelB CancelFunc
		var valA A
		var valB B
		var gotA, gotB bool

		cancelBoth := func() {
			if cancelA != nil {
				cancelA()
			}
			if cancelB != nil {
				cancelB()
			}
		}
		fail := func(e E) {
			if gate.tryFire() {
				cancelBoth()
				reject(e)
			}
		}
		checkDone := func() {
			if gotA && gotB && gate.tryFire() {
				resolve(Pair[A, B]{First: valA, Second: valB})
			}
		}

		cancelA = Execute[R, E, A](rt, env, a, func(v A) {
			valA, gotA = v, true
			checkDone()
		}, fail)
		cancelB = Execute[R, E, B](rt, env, b, func(v B) {
			valB, gotB = v, true
			checkDone()
		}, fail)

		return func() {
			if gate.tryFire() {
				cancelBoth()
			}
		}
	})
}

// Race runs a and b concurrently; the first to complete, success or
// failure, wins and the other is cancelled.
func Race[R, E, A any](a, b Effect[R, E, A]) Effect[R, E, A] {
	return From[R, E, A](func(env R, sched Scheduler, reject func(E), resolve func(A)) CancelFunc {
		rt := NewRuntime(sched)
		var gate resumeGate
		var cancelA, cancelB CancelFunc

		cancelBoth := func() {
			if cancelA != nil {
				cancelA()
			}
			if cancelB != nil {
				cancelB()
			}
		}
		onSuccess := func(v A) {
			if gate.tryFire() {
				cancelBoth()
				resolve(v)
			}
		}
		onFailure := func(e E) {
			if gate.tryFire() {
				cancelBoth()
				reject(e)
			}
		}

		cancelA = Execute[R, E, A](rt, env, a, onSuccess, onFailure)
		cancelB = Execute[R, E, A](rt, env, b, onSuccess, onFailure)

		return func() {
			if gate.tryFire() {
				cancelBoth()
			}
		}
	})
}

// onceState is the shared cache cell backing a single Once-wrapped effect:
// unresolved, in flight with subscribers queued, or settled.
type onceState[E, A any] struct {
	status  int8 // 0 unresolved, 1 pending, 2 settled
	result  either[E, A]
	waiters []func(either[E, A])
}

const (
	onceUnresolved int8 = iota
	oncePending
	onceSettled
)

// Once wraps e so that concurrent forks share a single execution: the
// first fork starts the work, later forks either join as subscribers (if
// still pending) or immediately receive the cached result. A failure is
// cached exactly like a success and replayed to every subscriber,
// including ones that subscribe after the failure.
func Once[R, E, A any](e Effect[R, E, A]) Effect[R, E, A] {
	st := &onceState[E, A]{}
	return From[R, E, A](func(env R, sched Scheduler, reject func(E), resolve func(A)) CancelFunc {
		notify := func(res either[E, A]) {
			v, err, ok := res.get()
			if ok {
				resolve(v)
			} else {
				reject(err)
			}
		}

		switch st.status {
		case onceSettled:
			notify(st.result)
			return nil

		case oncePending:
			st.waiters = append(st.waiters, notify)
			// A subscriber joining an in-flight Once cannot abort the
			// shared computation for the other subscribers; cancelling
			// only suppresses this particular subscriber's own callback.
			fired := false
			idx := len(st.waiters) - 1
			return func() {
				if fired {
					return
				}
				fired = true
				if idx >= 0 && idx < len(st.waiters) {
					st.waiters[idx] = func(either[E, A]) {}
				}
			}

		default:
			st.status = oncePending
			st.waiters = append(st.waiters, notify)
			rt := NewRuntime(sched)
			settle := func(res either[E, A]) {
				st.status = onceSettled
				st.result = res
				waiters := st.waiters
				st.waiters = nil
				for _, w := range waiters {
					w(res)
				}
			}
			// Unlike a joiner's cancel, the first subscriber's CancelFunc is
			// the real Execute cancel for the shared computation: cancelling
			// it tears down e for every subscriber, not just this one, since
			// there would otherwise be nothing left driving e to completion.
			return Execute[R, E, A](rt, env, e, func(v A) {
				settle(rightOf[E, A](v))
			}, func(err E) {
				settle(leftOf[E, A](err))
			})
		}
	})
}
