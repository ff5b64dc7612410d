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

// TestAwaitThreeWaitersResolveInFIFOOrderAfterSet covers three fibers
// getting before a fourth sets the value; all three resolve to the same
// result, strictly after the set's own turn, in registration order.
func TestAwaitThreeWaitersResolveInFIFOOrderAfterSet(t *testing.T) {
	aw := aeon.NewAwait[error, int]()
	sched := aeon.NewVirtualScheduler()
	rt := aeon.NewRuntime(sched)

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		aeon.Execute[struct{}, error, int](rt, struct{}{}, aeon.AwaitGet[struct{}, error, int](aw), func(v int) {
			assert.Equal(t, 7, v)
			order = append(order, i)
		}, func(error) { t.Fatalf("waiter %d should not fail", i) })
	}

	aeon.Execute[struct{}, error, bool](rt, struct{}{}, aeon.AwaitSet[struct{}](aw, aeon.Of[struct{}, error, int](7)), func(bool) {}, func(error) {})

	sched.Advance(0)
	require.Len(t, order, 3)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestAwaitGetImmediateWhenAlreadySet(t *testing.T) {
	aw := aeon.NewAwait[error, int]()
	_, err := runSync(t, aeon.AwaitSet[struct{}](aw, aeon.Of[struct{}, error, int](3)))
	require.NoError(t, err)

	v, err := runSync(t, aeon.AwaitGet[struct{}, error, int](aw))
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestAwaitSecondSetFails(t *testing.T) {
	aw := aeon.NewAwait[error, int]()
	_, err := runSync(t, aeon.AwaitSet[struct{}](aw, aeon.Of[struct{}, error, int](1)))
	require.NoError(t, err)

	ok, err := runSync(t, aeon.AwaitSet[struct{}](aw, aeon.Of[struct{}, error, int](2)))
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := runSync(t, aeon.AwaitGet[struct{}, error, int](aw))
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestAwaitSetWithFailingEffectPropagatesToGetters(t *testing.T) {
	boom := errors.New("boom")
	aw := aeon.NewAwait[error, int]()
	_, err := runSync(t, aeon.AwaitSet[struct{}](aw, aeon.Reject[struct{}, error, int](boom)))
	require.NoError(t, err)

	_, err = runSync(t, aeon.AwaitGet[struct{}, error, int](aw))
	assert.Equal(t, boom, err)
}
