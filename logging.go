// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

// Logger is aeon's minimal structured-logging seam, grounded on
// eventloop.Logger: a tiny interface so this package never forces a
// specific logging framework on callers, plus a NoopLogger default.
// aeon only logs defects, scheduler task panics, and cancellation races —
// never the hot path of a correctly behaving effect.
//
// NewStructuredLogger (logging_stumpy.go) wires a real backend, built on
// github.com/joeycumines/logiface and github.com/joeycumines/stumpy, for
// callers that want structured output without writing their own adapter.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is a single structured-logging key/value pair.
type Field struct {
	Key   string
	Value any
}

// NoopLogger discards everything. It is the default Logger for both
// Runtime and the scheduler implementations.
type NoopLogger struct{}

func (NoopLogger) Debug(string, ...Field) {}
func (NoopLogger) Info(string, ...Field)  {}
func (NoopLogger) Warn(string, ...Field)  {}
func (NoopLogger) Error(string, ...Field) {}
