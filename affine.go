// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

import "sync/atomic"

// resumeGate enforces that an Async registration resolves at most once and
// that a cancellation token is cancelled at most once: exactly one of the
// two callbacks may fire, subsequent invocations are ignored, and
// cancellation itself is idempotent — the same one-shot latch covers both
// call sites.
//
// This is the fiber's affine-resumption guard: it does not itself carry a
// continuation, only the single-fire bit, because the thing being guarded
// (a resolve/reject pair, or a cancel) is a side effect on the fiber, not a
// value-returning continuation.
type resumeGate struct {
	fired atomic.Bool
}

// tryFire reports whether this is the first call to tryFire on g. Exactly
// one caller, across any number of goroutines, observes true.
func (g *resumeGate) tryFire() bool {
	return g.fired.CompareAndSwap(false, true)
}
