// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

// streamResult is the Option-shaped value a Stream's pull step produces:
// a value and Has=true, or the zero value and Has=false at exhaustion.
type streamResult[A any] struct {
	has bool
	val A
}

// Stream is a lazy, pull-based sequence of values produced by effects.
// Building a Stream is pure and restartable: newPull is
// called once per fold, and the closure it returns owns that fold's
// private iteration state, so the same Stream value can be folded any
// number of times independently.
type Stream[R, E, A any] struct {
	newPull func() func() Effect[R, E, streamResult[A]]
}

// Fold is Stream's core operation: it pulls values from s, feeding each to
// step along with the running accumulator, until cont reports false or the
// source is exhausted. Go cannot attach a new type parameter (S) to a
// method on Stream, so Fold is a free function, mirror of Ref/Await/Queue's
// operations.
func Fold[R, E, A, S any](s Stream[R, E, A], seed S, cont func(S) bool, step func(S, A) Effect[R, E, S]) Effect[R, E, S] {
	return Suspend(func() Effect[R, E, S] {
		pull := s.newPull()
		var loop func(S) Effect[R, E, S]
		loop = func(acc S) Effect[R, E, S] {
			if !cont(acc) {
				return Of[R, E, S](acc)
			}
			return Chain[R, E, streamResult[A], S](pull(), func(r streamResult[A]) Effect[R, E, S] {
				if !r.has {
					return Of[R, E, S](acc)
				}
				return Chain[R, E, S, S](step(acc, r.val), loop)
			})
		}
		return loop(seed)
	})
}

// StreamMap transforms every value s produces.
func StreamMap[R, E, A, B any](s Stream[R, E, A], f func(A) B) Stream[R, E, B] {
	return Stream[R, E, B]{newPull: func() func() Effect[R, E, streamResult[B]] {
		pull := s.newPull()
		return func() Effect[R, E, streamResult[B]] {
			return Map[R, E, streamResult[A], streamResult[B]](pull(), func(r streamResult[A]) streamResult[B] {
				if !r.has {
					return streamResult[B]{}
				}
				return streamResult[B]{has: true, val: f(r.val)}
			})
		}
	}}
}

// StreamChain flattens s by replacing each value with a sub-stream from f,
// folding every sub-stream's values into the same sequence before pulling
// s's next value.
func StreamChain[R, E, A, B any](s Stream[R, E, A], f func(A) Stream[R, E, B]) Stream[R, E, B] {
	return Stream[R, E, B]{newPull: func() func() Effect[R, E, streamResult[B]] {
		outer := s.newPull()
		var inner func() Effect[R, E, streamResult[B]]

		var pull func() Effect[R, E, streamResult[B]]
		pull = func() Effect[R, E, streamResult[B]] {
			if inner != nil {
				return Chain[R, E, streamResult[B], streamResult[B]](inner(), func(r streamResult[B]) Effect[R, E, streamResult[B]] {
					if r.has {
						return Of[R, E, streamResult[B]](r)
					}
					inner = nil
					return pull()
				})
			}
			return Chain[R, E, streamResult[A], streamResult[B]](outer(), func(r streamResult[A]) Effect[R, E, streamResult[B]] {
				if !r.has {
					return Of[R, E, streamResult[B]](streamResult[B]{})
				}
				inner = f(r.val).newPull()
				return pull()
			})
		}
		return pull
	}}
}

// StreamFilter skips values failing p.
func StreamFilter[R, E, A any](s Stream[R, E, A], p func(A) bool) Stream[R, E, A] {
	return Stream[R, E, A]{newPull: func() func() Effect[R, E, streamResult[A]] {
		pull := s.newPull()
		var next func() Effect[R, E, streamResult[A]]
		next = func() Effect[R, E, streamResult[A]] {
			return Chain[R, E, streamResult[A], streamResult[A]](pull(), func(r streamResult[A]) Effect[R, E, streamResult[A]] {
				if !r.has || p(r.val) {
					return Of[R, E, streamResult[A]](r)
				}
				return next()
			})
		}
		return next
	}}
}

// ForEach runs f for every value of s, discarding the results: fold with
// unit state, cont always true.
func ForEach[R, E, A any](s Stream[R, E, A], f func(A) Effect[R, E, struct{}]) Effect[R, E, struct{}] {
	return Fold[R, E, A, struct{}](s, struct{}{}, func(struct{}) bool { return true }, func(_ struct{}, a A) Effect[R, E, struct{}] {
		return f(a)
	})
}

// HaltWhen stops s as soon as aw is set, in addition to s's own
// exhaustion. A Defect while checking aw's status is treated as "not yet
// halted" rather than failing the stream, since AwaitIsSet itself never
// legitimately fails.
func HaltWhen[R, E, A, E2, B any](s Stream[R, E, A], aw *Await[E2, B]) Stream[R, E, A] {
	return Stream[R, E, A]{newPull: func() func() Effect[R, E, streamResult[A]] {
		pull := s.newPull()
		return func() Effect[R, E, streamResult[A]] {
			checkHalted := Catch[R, error, E, bool](AwaitIsSet[R, E2, B](aw), func(error) Effect[R, E, bool] {
				return Of[R, E, bool](false)
			})
			return Chain[R, E, bool, streamResult[A]](checkHalted, func(halted bool) Effect[R, E, streamResult[A]] {
				if halted {
					return Of[R, E, streamResult[A]](streamResult[A]{})
				}
				return pull()
			})
		}
	}}
}

// FoldLeft folds s to completion (cont always true), accumulating with f.
func FoldLeft[R, E, A, S any](s Stream[R, E, A], seed S, f func(S, A) S) Effect[R, E, S] {
	return Fold[R, E, A, S](s, seed, func(S) bool { return true }, func(acc S, a A) Effect[R, E, S] {
		return Of[R, E, S](f(acc, a))
	})
}

// AsArray collects every value of s into a slice.
func AsArray[R, E, A any](s Stream[R, E, A]) Effect[R, E, []A] {
	return FoldLeft[R, E, A, []A](s, nil, func(acc []A, a A) []A {
		return append(acc, a)
	})
}

// FromSlice builds a finite Stream over items.
func FromSlice[R, E, A any](items []A) Stream[R, E, A] {
	return Stream[R, E, A]{newPull: func() func() Effect[R, E, streamResult[A]] {
		i := 0
		return func() Effect[R, E, streamResult[A]] {
			return Suspend(func() Effect[R, E, streamResult[A]] {
				if i >= len(items) {
					return Of[R, E, streamResult[A]](streamResult[A]{})
				}
				v := items[i]
				i++
				return Of[R, E, streamResult[A]](streamResult[A]{has: true, val: v})
			})
		}
	}}
}

// OfValue builds a single-value Stream.
func OfValue[R, E, A any](v A) Stream[R, E, A] {
	return FromSlice[R, E, A]([]A{v})
}

// Range builds a Stream of the half-open integer interval [start, end).
func Range[R, E any](start, end int) Stream[R, E, int] {
	return Stream[R, E, int]{newPull: func() func() Effect[R, E, streamResult[int]] {
		i := start
		return func() Effect[R, E, streamResult[int]] {
			return Suspend(func() Effect[R, E, streamResult[int]] {
				if i >= end {
					return Of[R, E, streamResult[int]](streamResult[int]{})
				}
				v := i
				i++
				return Of[R, E, streamResult[int]](streamResult[int]{has: true, val: v})
			})
		}
	}}
}

// Const builds an infinite Stream repeating v forever; pair it with
// HaltWhen or a bounded Fold to terminate it.
func Const[R, E, A any](v A) Stream[R, E, A] {
	return Stream[R, E, A]{newPull: func() func() Effect[R, E, streamResult[A]] {
		return func() Effect[R, E, streamResult[A]] {
			return Of[R, E, streamResult[A]](streamResult[A]{has: true, val: v})
		}
	}}
}

// Interval builds an infinite Stream ticking every ms logical milliseconds,
// starting from tick 0.
func Interval[R, E any](ms int64) Stream[R, E, int64] {
	return Stream[R, E, int64]{newPull: func() func() Effect[R, E, streamResult[int64]] {
		var tick int64
		return func() Effect[R, E, streamResult[int64]] {
			return From[R, E, streamResult[int64]](func(_ R, sched Scheduler, _ func(E), resolve func(streamResult[int64])) CancelFunc {
				t := tick
				tick++
				token := sched.Delay(func() { resolve(streamResult[int64]{has: true, val: t}) }, ms)
				return func() { sched.Cancel(token) }
			})
		}
	}}
}

// FromEffect builds a single-value Stream from e, evaluated once per fold.
func FromEffect[R, E, A any](e Effect[R, E, A]) Stream[R, E, A] {
	return Stream[R, E, A]{newPull: func() func() Effect[R, E, streamResult[A]] {
		done := false
		return func() Effect[R, E, streamResult[A]] {
			return Suspend(func() Effect[R, E, streamResult[A]] {
				if done {
					return Of[R, E, streamResult[A]](streamResult[A]{})
				}
				done = true
				return Map[R, E, A, streamResult[A]](e, func(a A) streamResult[A] {
					return streamResult[A]{has: true, val: a}
				})
			})
		}
	}}
}

// Produce builds a Stream from a generator effect invoked once per pull;
// gen is responsible for its own state and for eventually returning a
// not-has result.
func Produce[R, E, A any](gen func() Effect[R, E, streamResult[A]]) Stream[R, E, A] {
	return Stream[R, E, A]{newPull: func() func() Effect[R, E, streamResult[A]] {
		return gen
	}}
}

// FromQueue builds an unbounded Stream pulling from q; the stream itself
// never signals exhaustion — pair it with HaltWhen to stop consuming.
func FromQueue[R, A any](q *Queue[A]) Stream[R, error, A] {
	return Stream[R, error, A]{newPull: func() func() Effect[R, error, streamResult[A]] {
		return func() Effect[R, error, streamResult[A]] {
			return Map[R, error, A, streamResult[A]](QueueTake[R, A](q), func(a A) streamResult[A] {
				return streamResult[A]{has: true, val: a}
			})
		}
	}}
}

// FromChannel builds a Stream draining ch until it is closed: a channel is
// the idiomatic Go analogue of a single-event-type event emitter, grounded
// on longpoll.Channel's pattern of draining a <-chan T under cancellation.
func FromChannel[R, E, A any](ch <-chan A) Stream[R, E, A] {
	return Stream[R, E, A]{newPull: func() func() Effect[R, E, streamResult[A]] {
		return func() Effect[R, E, streamResult[A]] {
			return From[R, E, streamResult[A]](func(_ R, _ Scheduler, _ func(E), resolve func(streamResult[A])) CancelFunc {
				stopped := make(chan struct{})
				go func() {
					select {
					case v, ok := <-ch:
						if !ok {
							resolve(streamResult[A]{})
							return
						}
						resolve(streamResult[A]{has: true, val: v})
					case <-stopped:
					}
				}()
				return func() { close(stopped) }
			})
		}
	}}
}

// RejectStream builds a Stream that fails immediately with e.
func RejectStream[R, E, A any](e E) Stream[R, E, A] {
	return Stream[R, E, A]{newPull: func() func() Effect[R, E, streamResult[A]] {
		return func() Effect[R, E, streamResult[A]] {
			return Reject[R, E, streamResult[A]](e)
		}
	}}
}
