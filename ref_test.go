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

func TestRefReadSetUpdate(t *testing.T) {
	r := aeon.NewRef(10)

	v, err := runSync(t, aeon.RefRead[struct{}](r))
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = runSync(t, aeon.RefSet[struct{}](r, 20))
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	v, err = runSync(t, aeon.RefUpdate[struct{}](r, func(i int) int { return i + 1 }))
	require.NoError(t, err)
	assert.Equal(t, 21, v)

	v, err = runSync(t, aeon.RefRead[struct{}](r))
	require.NoError(t, err)
	assert.Equal(t, 21, v)
}

func TestRefUpdateIsAtomicPerDispatch(t *testing.T) {
	r := aeon.NewRef(0)
	const n = 1000
	e := aeon.Of[struct{}, error, int](0)
	for i := 0; i < n; i++ {
		e = aeon.Chain[struct{}, error, int, int](e, func(int) aeon.Effect[struct{}, error, int] {
			return aeon.RefUpdate[struct{}](r, func(v int) int { return v + 1 })
		})
	}
	_, err := runSync(t, e)
	require.NoError(t, err)
	v, err := runSync(t, aeon.RefRead[struct{}](r))
	require.NoError(t, err)
	assert.Equal(t, n, v)
}
