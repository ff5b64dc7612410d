// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aeon_test

import (
	"testing"

	"code.hybscloud.com/aeon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamFromSliceAsArray(t *testing.T) {
	s := aeon.FromSlice[struct{}, error, int]([]int{1, 2, 3})
	v, err := runSync(t, aeon.AsArray[struct{}, error, int](s))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)
}

func TestStreamIsRestartable(t *testing.T) {
	s := aeon.FromSlice[struct{}, error, int]([]int{1, 2, 3})
	first, err := runSync(t, aeon.AsArray[struct{}, error, int](s))
	require.NoError(t, err)
	second, err := runSync(t, aeon.AsArray[struct{}, error, int](s))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStreamMapAndFilter(t *testing.T) {
	s := aeon.Range[struct{}, error](0, 10)
	s = aeon.StreamFilter[struct{}, error, int](s, func(v int) bool { return v%2 == 0 })
	doubled := aeon.StreamMap[struct{}, error, int, int](s, func(v int) int { return v * 2 })
	v, err := runSync(t, aeon.AsArray[struct{}, error, int](doubled))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 8, 12, 16}, v)
}

func TestStreamChainFlattens(t *testing.T) {
	s := aeon.FromSlice[struct{}, error, int]([]int{1, 2, 3})
	flat := aeon.StreamChain[struct{}, error, int, int](s, func(v int) aeon.Stream[struct{}, error, int] {
		return aeon.FromSlice[struct{}, error, int]([]int{v, v})
	})
	v, err := runSync(t, aeon.AsArray[struct{}, error, int](flat))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2, 2, 3, 3}, v)
}

func TestStreamFoldLeft(t *testing.T) {
	s := aeon.FromSlice[struct{}, error, int]([]int{1, 2, 3, 4})
	sum, err := runSync(t, aeon.FoldLeft[struct{}, error, int, int](s, 0, func(acc, v int) int { return acc + v }))
	require.NoError(t, err)
	assert.Equal(t, 10, sum)
}

func TestStreamForEach(t *testing.T) {
	s := aeon.FromSlice[struct{}, error, int]([]int{1, 2, 3})
	var seen []int
	_, err := runSync(t, aeon.ForEach[struct{}, error, int](s, func(v int) aeon.Effect[struct{}, error, struct{}] {
		seen = append(seen, v)
		return aeon.Of[struct{}, error, struct{}](struct{}{})
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestStreamHaltWhenStopsEarly(t *testing.T) {
	aw := aeon.NewAwait[error, struct{}]()
	s := aeon.Const[struct{}, error, int](1)
	s = aeon.HaltWhen[struct{}, error, int](s, aw)

	sched := aeon.NewVirtualScheduler()
	rt := aeon.NewRuntime(sched)
	count := 0
	e := aeon.ForEach[struct{}, error, int](s, func(int) aeon.Effect[struct{}, error, struct{}] {
		count++
		if count == 5 {
			return aeon.Chain[struct{}, error, bool, struct{}](
				aeon.AwaitSet[struct{}](aw, aeon.Of[struct{}, error, struct{}](struct{}{})),
				func(bool) aeon.Effect[struct{}, error, struct{}] { return aeon.Of[struct{}, error, struct{}](struct{}{}) },
			)
		}
		return aeon.Of[struct{}, error, struct{}](struct{}{})
	})
	var done bool
	aeon.Execute[struct{}, error, struct{}](rt, struct{}{}, e, func(struct{}) { done = true }, func(error) {})
	sched.Advance(0)
	require.True(t, done)
	assert.Equal(t, 5, count) // 5 ticks trip the latch; the next pull observes it and stops before a sixth step
}

func TestStreamInterval(t *testing.T) {
	s := aeon.Interval[struct{}, error](10)
	sched := aeon.NewVirtualScheduler()
	rt := aeon.NewRuntime(sched)
	var ticks []int64
	e := aeon.Fold[struct{}, error, int64, []int64](s, nil, func(acc []int64) bool { return len(acc) < 3 }, func(acc []int64, v int64) aeon.Effect[struct{}, error, []int64] {
		return aeon.Of[struct{}, error, []int64](append(acc, v))
	})
	var result []int64
	aeon.Execute[struct{}, error, []int64](rt, struct{}{}, e, func(v []int64) { result = v }, func(error) {})
	sched.Advance(30)
	assert.Equal(t, []int64{0, 1, 2}, result)
}

func TestFromQueueStream(t *testing.T) {
	q := aeon.NewQueue[int](4)
	sched := aeon.NewVirtualScheduler()
	rt := aeon.NewRuntime(sched)

	for _, v := range []int{10, 20, 30} {
		aeon.Execute[struct{}, error, struct{}](rt, struct{}{}, aeon.QueueOffer[struct{}](q, v), func(struct{}) {}, func(error) {})
	}
	sched.Advance(0)

	s := aeon.FromQueue[struct{}](q)
	var got []int
	e := aeon.Fold[struct{}, error, int, []int](s, nil, func(acc []int) bool { return len(acc) < 3 }, func(acc []int, v int) aeon.Effect[struct{}, error, []int] {
		return aeon.Of[struct{}, error, []int](append(acc, v))
	})
	aeon.Execute[struct{}, error, []int](rt, struct{}{}, e, func(v []int) { got = v }, func(error) {})
	sched.Advance(0)
	assert.Equal(t, []int{10, 20, 30}, got)
}
