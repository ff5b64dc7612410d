// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

// Await is a write-once synchronization cell: unset, or set to either an
// ok A or an err E. Like Ref, its operations are free
// functions rather than methods carrying their own type parameter, since
// Go methods cannot introduce new type parameters beyond the receiver's.
type Await[E, A any] struct {
	resolved bool
	result   either[E, A]
	waiters  []func(either[E, A])
}

// NewAwait builds an unresolved Await.
func NewAwait[E, A any]() *Await[E, A] {
	return &Await[E, A]{}
}

// AwaitIsSet reports whether a has already been set.
func AwaitIsSet[R, E, A any](a *Await[E, A]) Effect[R, error, bool] {
	return Suspend(func() Effect[R, error, bool] {
		return Of[R, error, bool](a.resolved)
	})
}

// AwaitSet evaluates e and installs its outcome as a's result, unless a is
// already resolved, in which case the outcome is discarded and AwaitSet
// succeeds with false. Once installed, every waiter
// registered via AwaitGet is resumed in FIFO order, scheduled through the
// fiber's own Async resumption path rather than invoked inline — which
// falls out naturally here, since each waiter's resume closure is itself
// an Async resolve/reject callback that the evaluator already defers
// through Scheduler.Asap (see Fiber.dispatchAsync).
func AwaitSet[R, E, A any](a *Await[E, A], e Effect[R, E, A]) Effect[R, error, bool] {
	onOutcome := func(res either[E, A]) Effect[R, error, bool] {
		return Suspend(func() Effect[R, error, bool] {
			if a.resolved {
				return Of[R, error, bool](false)
			}
			a.resolved = true
			a.result = res
			waiters := a.waiters
			a.waiters = nil
			for _, w := range waiters {
				w(res)
			}
			return Of[R, error, bool](true)
		})
	}

	// e's own E-typed failure becomes a successful either[E,A] value here —
	// AwaitSet itself only ever fails on a Defect, never on e's declared
	// error type, since a failing e is a perfectly normal outcome to record.
	asEither := Catch[R, E, error, either[E, A]](
		Map[R, E, A, either[E, A]](e, func(v A) either[E, A] { return rightOf[E, A](v) }),
		func(err E) Effect[R, error, either[E, A]] {
			return Of[R, error, either[E, A]](leftOf[E, A](err))
		},
	)
	return Chain[R, error, either[E, A], bool](asEither, onOutcome)
}

// AwaitGet resolves once a is set, with the same outcome delivered to
// every caller of AwaitGet: immediately if a is already resolved,
// otherwise by joining the waiter list until the next AwaitSet.
func AwaitGet[R, E, A any](a *Await[E, A]) Effect[R, E, A] {
	return Suspend(func() Effect[R, E, A] {
		if a.resolved {
			v, e, ok := a.result.get()
			if ok {
				return Of[R, E, A](v)
			}
			return Reject[R, E, A](e)
		}
		return From[R, E, A](func(_ R, _ Scheduler, reject func(E), resolve func(A)) CancelFunc {
			fired := false
			a.waiters = append(a.waiters, func(res either[E, A]) {
				if fired {
					return
				}
				fired = true
				v, e, ok := res.get()
				if ok {
					resolve(v)
				} else {
					reject(e)
				}
			})
			idx := len(a.waiters) - 1
			return func() {
				if fired {
					return
				}
				fired = true
				if idx >= 0 && idx < len(a.waiters) {
					a.waiters[idx] = func(either[E, A]) {}
				}
			}
		})
	})
}
