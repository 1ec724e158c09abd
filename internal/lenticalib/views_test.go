package lenticalib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViewSet(t *testing.T) {
	_, err := NewViewSet(nil)
	assert.Error(t, err)

	_, err = NewViewSet([]*PixelBuffer{NewPixelBuffer(2, 2), nil})
	assert.Error(t, err)

	_, err = NewViewSet([]*PixelBuffer{NewPixelBuffer(2, 2), NewPixelBuffer(3, 2)})
	assert.ErrorIs(t, err, ErrViewMismatch)

	vs := gridViewSet(t, 3, 4, 2)
	assert.Equal(t, 3, vs.Len())
	assert.Equal(t, 4, vs.Width())
	assert.Equal(t, 2, vs.Height())
}

func TestViewSetFoldsIndex(t *testing.T) {
	vs := gridViewSet(t, 3, 1, 1)
	for raw, want := range map[int]int{0: 0, 2: 2, 3: 0, 4: 1, -1: 1, -5: 2} {
		v, err := vs.View(raw).Channel(0, 0, ChR)
		require.NoError(t, err)
		assert.Equal(t, gridValue(want, 0, 0, ChR), v, "raw %d", raw)
	}
}

func TestViewSetOwnsSlice(t *testing.T) {
	views := []*PixelBuffer{NewPixelBuffer(1, 1), NewPixelBuffer(1, 1)}
	vs, err := NewViewSet(views)
	require.NoError(t, err)
	first := vs.View(0)
	views[0] = NewPixelBuffer(1, 1)
	assert.Same(t, first, vs.View(0))
}
