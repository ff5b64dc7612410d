// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon

// Functional options for Runtime and the scheduler implementations,
// mirroring eventloop.LoopOption / WithStrictMicrotaskOrdering /
// WithMetrics: small interfaces wrapping a closure, rather than exported
// struct fields, so new options can be added without breaking callers.

// schedulerOptions holds configuration shared by both Scheduler
// implementations.
type schedulerOptions struct {
	logger Logger
}

// SchedulerOption configures a RealtimeScheduler or VirtualScheduler.
type SchedulerOption interface {
	applyScheduler(*schedulerOptions)
}

type schedulerOptionFunc func(*schedulerOptions)

func (f schedulerOptionFunc) applyScheduler(o *schedulerOptions) { f(o) }

// WithSchedulerLogger attaches a Logger that receives panics recovered
// from scheduled tasks. The default is NoopLogger.
func WithSchedulerLogger(l Logger) SchedulerOption {
	return schedulerOptionFunc(func(o *schedulerOptions) { o.logger = l })
}

func resolveSchedulerOptions(opts []SchedulerOption) schedulerOptions {
	cfg := schedulerOptions{logger: NoopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt.applyScheduler(&cfg)
		}
	}
	return cfg
}

// runtimeOptions holds configuration for a Runtime.
type runtimeOptions struct {
	dispatchBudget int
	logger         Logger
}

// RuntimeOption configures a Runtime.
type RuntimeOption interface {
	applyRuntime(*runtimeOptions)
}

type runtimeOptionFunc func(*runtimeOptions)

func (f runtimeOptionFunc) applyRuntime(o *runtimeOptions) { f(o) }

// WithDispatchBudget sets the maximum number of instruction dispatches a
// fiber performs within a single scheduler turn before yielding back
// through the scheduler. Must be positive; non-positive
// values are ignored and the default (255) is kept.
func WithDispatchBudget(n int) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) {
		if n > 0 {
			o.dispatchBudget = n
		}
	})
}

// WithRuntimeLogger attaches a Logger that receives defect and
// cancellation-race diagnostics. The default is NoopLogger.
func WithRuntimeLogger(l Logger) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) { o.logger = l })
}

const defaultDispatchBudget = 255

func resolveRuntimeOptions(opts []RuntimeOption) runtimeOptions {
	cfg := runtimeOptions{dispatchBudget: defaultDispatchBudget, logger: NoopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt.applyRuntime(&cfg)
		}
	}
	return cfg
}
