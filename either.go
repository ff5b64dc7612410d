// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

// either is the two-outcome result type shared by Await's cached slot and
// Once's cached subscription result. It intentionally stays unexported:
// callers observe outcomes through Await/Once's own typed accessors, not
// by matching on either directly.
type either[E, A any] struct {
	isRight bool
	left    E
	right   A
}

func leftOf[E, A any](e E) either[E, A] {
	return either[E, A]{left: e}
}

func rightOf[E, A any](a A) either[E, A] {
	return either[E, A]{isRight: true, right: a}
}

func (e either[E, A]) get() (A, E, bool) {
	return e.right, e.left, e.isRight
}
