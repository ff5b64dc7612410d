// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

import (
	"errors"
	"fmt"
)

// Defect wraps a panic recovered from a user-supplied function passed to
// Map, Chain, Catch, or an Async register. A Defect is a typed failure
// like any other — it flows through the
// error channel and is recoverable with Catch — but it always carries the
// original panic value for diagnosis.
type Defect struct {
	Value any
	Stack []byte
}

func (d *Defect) Error() string {
	return fmt.Sprintf("aeon: recovered panic: %v", d.Value)
}

// Unwrap returns the panic value if it was itself an error, enabling
// errors.Is/errors.As to see through the Defect to the original cause —
// the same convention eventloop.PanicError documents.
func (d *Defect) Unwrap() error {
	if err, ok := d.Value.(error); ok {
		return err
	}
	return nil
}

// ErrPending is returned by UnsafeRunSync when the scheduler's queue
// drained without the effect reaching a terminal state — a programmer
// misuse case reported as a returned error rather than a panic.
var ErrPending = errors.New("aeon: effect did not complete: scheduler queue drained while pending")

// recoverDefect turns a recovered panic value into a Defect. Call sites
// pass the value returned by Go's built-in recover().
func recoverDefect(r any, stack []byte) *Defect {
	return &Defect{Value: r, Stack: stack}
}
