// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/aeon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncaseLiftsPureFunction(t *testing.T) {
	double := aeon.Encase[struct{}, error, int, int](func(i int) int { return i * 2 })
	v, err := runSync(t, double(21))
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestEncaseCapturesPanicAsDefect(t *testing.T) {
	boom := aeon.Encase[struct{}, error, int, int](func(int) int { panic("kaboom") })
	_, err := runSync(t, boom(1))
	require.Error(t, err)
	var d *aeon.Defect
	require.ErrorAs(t, err, &d)
	assert.Equal(t, "kaboom", d.Value)
}

func TestEncasePResolvesOnGoroutine(t *testing.T) {
	e := aeon.EncaseP[struct{}, error, int](func(struct{}) (int, error) {
		return 99, nil
	}, func(err error) error { return err })

	v, err := runSync(t, e)
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}

func TestEncasePWrapsReturnedError(t *testing.T) {
	wrapped := errors.New("wrapped")
	e := aeon.EncaseP[struct{}, error, int](func(struct{}) (int, error) {
		return 0, errors.New("raw")
	}, func(error) error { return wrapped })

	_, err := runSync(t, e)
	assert.Equal(t, wrapped, err)
}

type env struct{ name string }

func TestProvideSubstitutesEnvironment(t *testing.T) {
	inner := aeon.From[env, error, string](func(e env, _ aeon.Scheduler, _ func(error), resolve func(string)) aeon.CancelFunc {
		resolve(e.name)
		return nil
	})
	provided := aeon.Provide[env, struct{}, error, string](inner, env{name: "alice"})
	v, err := runSync(t, provided)
	require.NoError(t, err)
	assert.Equal(t, "alice", v)
}

func TestOnceSharesExecutionAcrossConcurrentForks(t *testing.T) {
	runs := 0
	once := aeon.Once[struct{}, error, int](aeon.Suspend(func() aeon.Effect[struct{}, error, int] {
		runs++
		return aeon.Of[struct{}, error, int](runs)
	}))

	sched := aeon.NewVirtualScheduler()
	rt := aeon.NewRuntime(sched)

	var results []int
	for i := 0; i < 3; i++ {
		aeon.Execute[struct{}, error, int](rt, struct{}{}, once, func(v int) {
			results = append(results, v)
		}, func(error) { t.Fatal("once should not fail") })
	}
	sched.Advance(0)

	require.Len(t, results, 3)
	assert.Equal(t, []int{1, 1, 1}, results)
	assert.Equal(t, 1, runs)
}

func TestOnceCachesAndReplaysFailure(t *testing.T) {
	boom := errors.New("boom")
	runs := 0
	once := aeon.Once[struct{}, error, int](aeon.Suspend(func() aeon.Effect[struct{}, error, int] {
		runs++
		return aeon.Reject[struct{}, error, int](boom)
	}))

	sched := aeon.NewVirtualScheduler()
	rt := aeon.NewRuntime(sched)

	var errs []error
	aeon.Execute[struct{}, error, int](rt, struct{}{}, once, func(int) { t.Fatal("should fail") }, func(e error) {
		errs = append(errs, e)
	})
	sched.Advance(0)

	aeon.Execute[struct{}, error, int](rt, struct{}{}, once, func(int) { t.Fatal("should fail") }, func(e error) {
		errs = append(errs, e)
	})
	sched.Advance(0)

	require.Len(t, errs, 2)
	assert.Equal(t, boom, errs[0])
	assert.Equal(t, boom, errs[1])
	assert.Equal(t, 1, runs)
}

func TestOnceJoinerCancelOnlySuppressesOwnCallback(t *testing.T) {
	once := aeon.Once[struct{}, error, int](aeon.Timeout[struct{}, error, int](1, 1000))
	sched := aeon.NewVirtualScheduler()
	rt := aeon.NewRuntime(sched)

	var firstGot, secondGot int
	aeon.Execute[struct{}, error, int](rt, struct{}{}, once, func(v int) { firstGot = v }, func(error) { t.Fatal("first should not fail") })
	cancelSecond := aeon.Execute[struct{}, error, int](rt, struct{}{}, once, func(v int) { secondGot = v }, func(error) { t.Fatal("second should not fail") })
	sched.Advance(0)

	cancelSecond()
	sched.Advance(1000)

	assert.Equal(t, 1, firstGot, "the owning subscriber must still receive the shared result")
	assert.Equal(t, 0, secondGot, "a joiner's own cancel must not receive a result")
}

func TestOnceFirstSubscriberCancelKillsSharedComputation(t *testing.T) {
	once := aeon.Once[struct{}, error, int](aeon.Timeout[struct{}, error, int](1, 1000))
	sched := aeon.NewVirtualScheduler()
	rt := aeon.NewRuntime(sched)

	var firstGot, secondGot int
	cancelFirst := aeon.Execute[struct{}, error, int](rt, struct{}{}, once, func(v int) { firstGot = v }, func(error) { t.Fatal("first should not fail") })
	aeon.Execute[struct{}, error, int](rt, struct{}{}, once, func(v int) { secondGot = v }, func(error) { t.Fatal("second should not fail") })
	sched.Advance(0)

	cancelFirst()
	sched.Advance(1000)

	assert.Equal(t, 0, firstGot)
	assert.Equal(t, 0, secondGot, "cancelling the owning subscriber tears down the shared computation for every joiner")
}

func TestRaceLoserNeverDelivers(t *testing.T) {
	fast := aeon.Timeout[struct{}, error, string]("fast", 10)
	slow := aeon.Timeout[struct{}, error, string]("slow", 100)

	sched := aeon.NewVirtualScheduler()
	v, err := aeon.UnsafeRunSync[struct{}, error, string](aeon.NewRuntime(sched), struct{}{}, aeon.Race[struct{}, error, string](fast, slow))
	require.NoError(t, err)
	assert.Equal(t, "fast", v)
}

func TestZipJoinsBothResults(t *testing.T) {
	a := aeon.Timeout[struct{}, error, int](1, 10)
	b := aeon.Timeout[struct{}, error, string]("b", 20)

	v, err := runSync(t, aeon.Zip[struct{}, error, int, string](a, b))
	require.NoError(t, err)
	assert.Equal(t, aeon.Pair[int, string]{First: 1, Second: "b"}, v)
}
