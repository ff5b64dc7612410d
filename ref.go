// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

// Ref is a single-cell mutable holder. Its operations are
// exposed as Effects rather than plain methods so they compose with
// Map/Chain/Catch; each operation completes within a single dispatch step,
// making it atomic with respect to every other effect sharing the same
// scheduler (the scheduler never interleaves two dispatch steps).
//
// Go cannot attach a type parameter to a method beyond the receiver's own,
// so Ref's operations are free functions taking the environment type R
// explicitly, the same shape as the package-level Of/Reject constructors.
type Ref[A any] struct {
	value A
}

// NewRef builds a Ref holding init.
func NewRef[A any](init A) *Ref[A] {
	return &Ref[A]{value: init}
}

// RefRead reads r's current value at evaluation time, not construction
// time — the Suspend wrapper is what gives this referential transparency
// under repeated execution.
func RefRead[R, A any](r *Ref[A]) Effect[R, error, A] {
	return Suspend(func() Effect[R, error, A] {
		return Of[R, error, A](r.value)
	})
}

// RefSet overwrites r's value and succeeds with it.
func RefSet[R, A any](r *Ref[A], v A) Effect[R, error, A] {
	return Suspend(func() Effect[R, error, A] {
		r.value = v
		return Of[R, error, A](v)
	})
}

// RefUpdate applies f to r's current value and stores the result, in one
// dispatch step — an atomic read-modify-write that a bare RefRead followed
// by RefSet cannot give you.
func RefUpdate[R, A any](r *Ref[A], f func(A) A) Effect[R, error, A] {
	return Suspend(func() Effect[R, error, A] {
		r.value = f(r.value)
		return Of[R, error, A](r.value)
	})
}
