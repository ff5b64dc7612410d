// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// structuredLogger adapts a *logiface.Logger[*stumpy.Event] to aeon's
// Logger interface, the same pairing logiface-stumpy/factory.go documents
// (stumpy.L.WithStumpy() as the event factory/writer/releaser, logiface as
// the builder API in front of it).
type structuredLogger struct {
	log *logiface.Logger[*stumpy.Event]
}

// NewStructuredLogger returns a Logger that writes newline-delimited JSON
// to w using logiface+stumpy. Pass nil for w to write to os.Stderr.
func NewStructuredLogger(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	l := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		logiface.WithLevel[*stumpy.Event](logiface.LevelTrace),
	)
	return &structuredLogger{log: l}
}

func (s *structuredLogger) log_(b *logiface.Builder[*stumpy.Event], msg string, fields []Field) {
	for _, f := range fields {
		b = b.Any(f.Key, f.Value)
	}
	b.Log(msg)
}

func (s *structuredLogger) Debug(msg string, fields ...Field) { s.log_(s.log.Debug(), msg, fields) }
func (s *structuredLogger) Info(msg string, fields ...Field)  { s.log_(s.log.Info(), msg, fields) }
func (s *structuredLogger) Warn(msg string, fields ...Field)  { s.log_(s.log.Warning(), msg, fields) }
func (s *structuredLogger) Error(msg string, fields ...Field) { s.log_(s.log.Err(), msg, fields) }
